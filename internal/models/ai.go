package models

type Roast struct {
	Roast string `json:"roast"`
}

type Compatibility struct {
	Analysis   string `json:"analysis"`
	TargetUser string `json:"target_user"`
}

type Icebreaker struct {
	Icebreaker string `json:"icebreaker"`
}

// Prompt is a suggested profile prompt
type Prompt struct {
	ID       string `json:"id"`
	Question string `json:"question"`
}

type RedFlagSuggestions struct {
	RedFlags          []string `json:"red_flags"`
	NegativeQualities []string `json:"negative_qualities"`
}

type PromptSuggestions struct {
	Prompts []Prompt `json:"prompts"`
}

// Suggestions bundles everything the profile wizard offers to pick from
type Suggestions struct {
	RedFlags          []string
	NegativeQualities []string
	Prompts           []Prompt
}
