// Package profile holds the editing rules shared by the profile setup wizard
// and the settings screen: the field sets each one edits, the per-step
// checks of the wizard and the payload shaping before a save.
package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/brizzai/unhinged/internal/models"
)

// Steps in the setup wizard
const (
	StepBasics = iota + 1
	StepRedFlags
	StepPhotos
	StepPrompts

	LastStep = StepPrompts
)

// StepError is a wizard step that is not ready. The message is user facing.
type StepError string

func (e StepError) Error() string { return string(e) }

const (
	ErrBasicsMissing StepError = "Fill in the basics first!"
	ErrNoRedFlags    StepError = "Add at least one red flag. We know you have them."
	ErrNoPhotos      StepError = "Add at least one terrible photo!"
)

// ErrStepOutOfBounds is returned for a step the wizard does not have
var ErrStepOutOfBounds = errors.New("no such step")

// Keys edited by each screen. List-valued keys start as empty lists.
var (
	SetupKeys = []string{
		"name", "display_name", "age", "bio", "gender_identity", "pronouns", "sexuality", "interested_in",
		"location", "city", "country",
		"height_cm", "drinking", "smoking", "cannabis", "drugs", "religion", "politics", "exercise", "diet",
		"has_kids", "wants_kids", "relationship_type",
		"red_flags", "dealbreaker_red_flags", "negative_qualities", "photos", "worst_photo_caption", "prompts",
		"looking_for",
		"pref_age_min", "pref_age_max", "pref_genders", "pref_distance_km", "pref_wants_kids", "pref_relationship_type",
	}
	SettingsKeys = []string{
		"name", "age", "bio", "location", "looking_for", "red_flags", "negative_qualities", "photos", "picture",
	}

	listKeys = map[string]bool{
		"interested_in": true, "red_flags": true, "dealbreaker_red_flags": true,
		"negative_qualities": true, "photos": true, "prompts": true, "pref_genders": true,
	}
)

// Fields is an editable profile payload, keyed by backend field name
type Fields map[string]interface{}

// FromUser seeds the keys of a screen from the current user. Missing values
// become "" or an empty list, as in the edit forms.
func FromUser(user *models.UserProfile, keys []string) (Fields, error) {
	current := map[string]interface{}{}
	if user != nil {
		data, err := json.Marshal(user)
		if err != nil {
			return nil, fmt.Errorf("encode profile: %w", err)
		}
		if err := json.Unmarshal(data, &current); err != nil {
			return nil, fmt.Errorf("decode profile: %w", err)
		}
	}

	f := make(Fields, len(keys))
	for _, key := range keys {
		v, ok := current[key]
		switch {
		case ok && v != nil:
			f[key] = v
		case listKeys[key]:
			f[key] = []interface{}{}
		default:
			f[key] = ""
		}
	}
	if f["display_name"] == "" && user != nil && slices.Contains(keys, "display_name") {
		f["display_name"] = user.Name
	}
	return f, nil
}

// String returns a text field, "" when unset
func (f Fields) String(key string) string {
	switch v := f[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	default:
		return ""
	}
}

// Strings returns a list field
func (f Fields) Strings(key string) []string {
	switch v := f[key].(type) {
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// SetAge stores a typed age as a number, or "" when it is not one
func (f Fields) SetAge(text string) {
	age, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || age <= 0 {
		f["age"] = ""
		return
	}
	f["age"] = age
}

// Prompts returns the answered prompts
func (f Fields) Prompts() []models.PromptAnswer {
	switch v := f["prompts"].(type) {
	case []models.PromptAnswer:
		return v
	case []interface{}:
		out := make([]models.PromptAnswer, 0, len(v))
		for _, item := range v {
			m, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			p := models.PromptAnswer{}
			p.ID, _ = m["id"].(string)
			p.Question, _ = m["question"].(string)
			p.Answer, _ = m["answer"].(string)
			out = append(out, p)
		}
		return out
	default:
		return nil
	}
}

// SetPrompt answers a prompt, adding it when it is new
func (f Fields) SetPrompt(prompt models.Prompt, answer string) {
	prompts := f.Prompts()
	for i := range prompts {
		if prompts[i].ID == prompt.ID {
			prompts[i].Answer = answer
			f["prompts"] = prompts
			return
		}
	}
	f["prompts"] = append(prompts, models.PromptAnswer{ID: prompt.ID, Question: prompt.Question, Answer: answer})
}

// Add appends value to a list field unless it is empty or already present
func (f Fields) Add(key, value string) {
	f[key] = AddUnique(f.Strings(key), value)
}

// Drop removes value from a list field
func (f Fields) Drop(key, value string) {
	f[key] = Remove(f.Strings(key), value)
}

// AddUnique appends value unless it is blank or already present
func AddUnique(list []string, value string) []string {
	if strings.TrimSpace(value) == "" || slices.Contains(list, value) {
		return list
	}
	return append(slices.Clone(list), value)
}

// Remove returns list without value
func Remove(list []string, value string) []string {
	out := make([]string, 0, len(list))
	for _, item := range list {
		if item != value {
			out = append(out, item)
		}
	}
	return out
}

// ValidateStep checks what a wizard step needs before moving on
func ValidateStep(step int, f Fields) error {
	switch step {
	case StepBasics:
		if isBlank(f["age"]) || f.String("bio") == "" {
			return ErrBasicsMissing
		}
	case StepRedFlags:
		if len(f.Strings("red_flags")) == 0 {
			return ErrNoRedFlags
		}
	case StepPhotos:
		if len(f.Strings("photos")) == 0 {
			return ErrNoPhotos
		}
	case StepPrompts:
	default:
		return fmt.Errorf("%w: %d", ErrStepOutOfBounds, step)
	}
	return nil
}

// Normalize is the wizard's save shape: empty strings become null and an
// empty location falls back to "city, country". Settings saves skip it and
// send the raw field set.
func Normalize(f Fields) map[string]interface{} {
	out := make(map[string]interface{}, len(f)+1)
	for k, v := range f {
		if isBlank(v) {
			out[k] = nil
			continue
		}
		out[k] = v
	}

	if out["location"] == nil {
		var parts []string
		for _, key := range []string{"city", "country"} {
			if s, ok := out[key].(string); ok && s != "" {
				parts = append(parts, s)
			}
		}
		if len(parts) > 0 {
			out["location"] = strings.Join(parts, ", ")
		} else {
			out["location"] = nil
		}
	}
	return out
}

// Raw is the settings save shape: the fields exactly as edited
func Raw(f Fields) map[string]interface{} {
	out := make(map[string]interface{}, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

func isBlank(v interface{}) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}
