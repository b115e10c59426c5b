package models

// FragmentRequest is posted by the bridge page with location.hash
type FragmentRequest struct {
	Fragment string `json:"fragment"`
}

// FragmentResponse acknowledges a delivered fragment
type FragmentResponse struct {
	Status string `json:"status"`
}
