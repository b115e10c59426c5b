package profile

import (
	"encoding/json"
	"testing"

	"github.com/brizzai/unhinged/internal/models"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)


func TestFromUser(t *testing.T) {
	var user models.UserProfile
	require.NoError(t, json.Unmarshal([]byte(`{
		"user_id": "u1",
		"name": "Sam",
		"age": 29,
		"red_flags": ["Owns a ukulele"],
		"prompts": [{"id": "p1", "question": "Q?", "answer": "A"}],
		"politics": "chaotic neutral"
	}`), &user))

	f, err := FromUser(&user, SetupKeys)
	require.NoError(t, err)

	assert.Len(t, f, len(SetupKeys))
	assert.Equal(t, "Sam", f.String("display_name"), "display name falls back to name")
	assert.Equal(t, "29", f.String("age"))
	assert.Equal(t, []string{"Owns a ukulele"}, f.Strings("red_flags"))
	assert.Equal(t, "chaotic neutral", f.String("politics"), "fields outside the typed model survive")
	assert.Equal(t, []string{}, f.Strings("photos"))
	assert.Equal(t, "", f.String("city"))
	assert.Equal(t, []models.PromptAnswer{{ID: "p1", Question: "Q?", Answer: "A"}}, f.Prompts())

	settings, err := FromUser(&user, SettingsKeys)
	require.NoError(t, err)
	assert.Len(t, settings, len(SettingsKeys))
	_, ok := settings["display_name"]
	assert.False(t, ok)
}

func TestFromUser_Nil(t *testing.T) {
	f, err := FromUser(nil, SettingsKeys)
	require.NoError(t, err)
	assert.Equal(t, "", f.String("name"))
	assert.Empty(t, f.Strings("red_flags"))
}

func TestValidateStep(t *testing.T) {
	f := Fields{"age": "", "bio": "", "red_flags": []interface{}{}, "photos": []interface{}{}}

	assert.Equal(t, ErrBasicsMissing, ValidateStep(StepBasics, f))
	f.SetAge("31")
	assert.Equal(t, ErrBasicsMissing, ValidateStep(StepBasics, f))
	f["bio"] = "I microwave fish at work"
	assert.NoError(t, ValidateStep(StepBasics, f))

	assert.Equal(t, ErrNoRedFlags, ValidateStep(StepRedFlags, f))
	f.Add("red_flags", "I say 'literally' wrong")
	assert.NoError(t, ValidateStep(StepRedFlags, f))

	assert.Equal(t, ErrNoPhotos, ValidateStep(StepPhotos, f))
	f.Add("photos", "https://example.com/worst.jpg")
	assert.NoError(t, ValidateStep(StepPhotos, f))

	assert.NoError(t, ValidateStep(StepPrompts, Fields{}))
	assert.ErrorIs(t, ValidateStep(9, f), ErrStepOutOfBounds)
}

func TestSetAge(t *testing.T) {
	f := Fields{}
	f.SetAge(" 27 ")
	assert.Equal(t, 27, f["age"])
	f.SetAge("old")
	assert.Equal(t, "", f["age"])
	f.SetAge("-3")
	assert.Equal(t, "", f["age"])
}

func TestListHelpers(t *testing.T) {
	list := []string{"a"}
	assert.Equal(t, []string{"a", "b"}, AddUnique(list, "b"))
	assert.Equal(t, []string{"a"}, AddUnique(list, "a"))
	assert.Equal(t, []string{"a"}, AddUnique(list, "  "))
	assert.Equal(t, []string{"a"}, list, "the input is not modified")
	assert.Equal(t, []string{"b"}, Remove([]string{"a", "b", "a"}, "a"))

	f := Fields{}
	f.Add("photos", "x")
	f.Add("photos", "y")
	f.Drop("photos", "x")
	assert.Equal(t, []string{"y"}, f.Strings("photos"))
}

func TestSetPrompt(t *testing.T) {
	f := Fields{"prompts": []interface{}{}}
	hot := models.Prompt{ID: "hot_take", Question: "My hottest take is..."}

	f.SetPrompt(hot, "pineapple belongs on pizza")
	f.SetPrompt(hot, "cereal is soup")
	f.SetPrompt(models.Prompt{ID: "worst", Question: "Worst date?"}, "")

	want := []models.PromptAnswer{
		{ID: "hot_take", Question: "My hottest take is...", Answer: "cereal is soup"},
		{ID: "worst", Question: "Worst date?"},
	}
	if diff := cmp.Diff(want, f.Prompts()); diff != "" {
		t.Errorf("prompts mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   Fields
		want map[string]interface{}
	}{
		{
			name: "blank strings become null",
			in:   Fields{"bio": "", "age": 30, "photos": []string{}, "location": "Berlin"},
			want: map[string]interface{}{"bio": nil, "age": 30, "photos": []string{}, "location": "Berlin"},
		},
		{
			name: "location from city and country",
			in:   Fields{"location": "", "city": "Lisbon", "country": "Portugal"},
			want: map[string]interface{}{"location": "Lisbon, Portugal", "city": "Lisbon", "country": "Portugal"},
		},
		{
			name: "location from country only",
			in:   Fields{"location": "", "city": "", "country": "Chile"},
			want: map[string]interface{}{"location": "Chile", "city": nil, "country": "Chile"},
		},
		{
			name: "no location at all",
			in:   Fields{"location": "", "city": "", "country": ""},
			want: map[string]interface{}{"location": nil, "city": nil, "country": nil},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, Normalize(tt.in)); diff != "" {
				t.Errorf("Normalize() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRaw(t *testing.T) {
	in := Fields{"bio": "", "age": ""}
	out := Raw(in)
	assert.Equal(t, map[string]interface{}{"bio": "", "age": ""}, out, "settings send empty strings as is")
	out["bio"] = "changed"
	assert.Equal(t, "", in["bio"])
}
