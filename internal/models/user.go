package models

import (
	"encoding/json"
	"reflect"
	"strings"
	"sync"
)

// PromptAnswer is one answered profile prompt
type PromptAnswer struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// UserProfile is the user record returned by the backend. Only UserID and
// ProfileComplete drive client behavior; every field the client does not
// know about is kept in Extra and written back unchanged.
type UserProfile struct {
	UserID              string         `json:"user_id"`
	Email               string         `json:"email,omitempty"`
	Name                string         `json:"name,omitempty"`
	DisplayName         string         `json:"display_name,omitempty"`
	Picture             string         `json:"picture,omitempty"`
	Age                 *int           `json:"age,omitempty"`
	Bio                 string         `json:"bio,omitempty"`
	Pronouns            string         `json:"pronouns,omitempty"`
	Location            string         `json:"location,omitempty"`
	City                string         `json:"city,omitempty"`
	Country             string         `json:"country,omitempty"`
	LookingFor          string         `json:"looking_for,omitempty"`
	RedFlags            []string       `json:"red_flags,omitempty"`
	DealbreakerRedFlags []string       `json:"dealbreaker_red_flags,omitempty"`
	NegativeQualities   []string       `json:"negative_qualities,omitempty"`
	Photos              []string       `json:"photos,omitempty"`
	WorstPhotoCaption   string         `json:"worst_photo_caption,omitempty"`
	Prompts             []PromptAnswer `json:"prompts,omitempty"`
	ProfileComplete     bool           `json:"profile_complete"`

	Extra map[string]json.RawMessage `json:"-"`
}

// profileFields is the alias used to skip the custom (un)marshalers
type profileFields UserProfile

var (
	knownKeysOnce sync.Once
	knownKeys     map[string]struct{}
)

func profileKeys() map[string]struct{} {
	knownKeysOnce.Do(func() {
		knownKeys = make(map[string]struct{})
		t := reflect.TypeOf(profileFields{})
		for i := 0; i < t.NumField(); i++ {
			name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
			if name != "" && name != "-" {
				knownKeys[name] = struct{}{}
			}
		}
	})
	return knownKeys
}

// UnmarshalJSON decodes the known fields and stashes the rest in Extra
func (u *UserProfile) UnmarshalJSON(data []byte) error {
	var fields profileFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	known := profileKeys()
	for k := range raw {
		if _, ok := known[k]; ok {
			delete(raw, k)
		}
	}
	if len(raw) == 0 {
		raw = nil
	}
	*u = UserProfile(fields)
	u.Extra = raw
	return nil
}

// MarshalJSON writes the known fields followed by the preserved extras
func (u UserProfile) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(profileFields(u))
	if err != nil {
		return nil, err
	}
	if len(u.Extra) == 0 {
		return data, nil
	}
	var merged map[string]json.RawMessage
	if err := json.Unmarshal(data, &merged); err != nil {
		return nil, err
	}
	known := profileKeys()
	for k, v := range u.Extra {
		// typed fields own their keys, even when omitted as empty
		if _, ok := known[k]; ok {
			continue
		}
		merged[k] = v
	}
	return json.Marshal(merged)
}

// DisplayedName prefers the display name chosen during setup
func (u *UserProfile) DisplayedName() string {
	if u == nil {
		return ""
	}
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Name
}

// Credentials is the email/password login payload
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the sign-up payload
type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse is returned by register and login
type TokenResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        *UserProfile `json:"user"`
}

// SessionExchange is returned by the OAuth session exchange
type SessionExchange struct {
	SessionToken string       `json:"session_token"`
	User         *UserProfile `json:"user"`
}
