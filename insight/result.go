package insight

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/theimaginaryfoundation/insight-snapshot/insight/fileutils"
)

// Result is the structured insight snapshot produced for one reflection.
// Demo data, the model adapter and the presentation layer all exchange this type.
type Result struct {
	// Summary is 1-2 sentences describing the core situation.
	Summary string `json:"summary" jsonschema:"required,description=1-2 lines summarizing the core situation"`

	// Themes are short professional theme labels, in display order (3-5 by convention).
	Themes []string `json:"themes" jsonschema:"required,description=3-5 key professional themes"`

	// Signal labels the underlying emotional or energetic state.
	Signal string `json:"signal" jsonschema:"required,description=Short indicator of the underlying emotional or energetic state"`

	// Prompts are reflection questions (2 by convention).
	Prompts []string `json:"prompts" jsonschema:"required,description=2 practical challenging reflection questions"`

	// Risk names a behavioral pattern, only when one is clearly present.
	Risk string `json:"risk,omitempty" jsonschema:"description=Optional note on a behavioral pattern like overthinking or avoidance or impulsivity"`
}

// HasRisk reports whether the optional risk note is present.
func (r Result) HasRisk() bool {
	return strings.TrimSpace(r.Risk) != ""
}

// Clone returns a copy that shares no slices with r.
func (r Result) Clone() Result {
	out := r
	out.Themes = append([]string(nil), r.Themes...)
	out.Prompts = append([]string(nil), r.Prompts...)
	return out
}

// Validate checks that every required field is present and non-empty.
func (r Result) Validate() error {
	if strings.TrimSpace(r.Summary) == "" {
		return &MalformedResultError{Reason: "summary is missing or empty"}
	}
	if !hasNonBlank(r.Themes) {
		return &MalformedResultError{Reason: "themes is missing or empty"}
	}
	if strings.TrimSpace(r.Signal) == "" {
		return &MalformedResultError{Reason: "signal is missing or empty"}
	}
	if !hasNonBlank(r.Prompts) {
		return &MalformedResultError{Reason: "prompts is missing or empty"}
	}
	return nil
}

// rawResult is the provisional shape of model output before validation.
// Pointers distinguish an absent key from a zero value.
type rawResult struct {
	Summary *string   `json:"summary"`
	Themes  *[]string `json:"themes"`
	Signal  *string   `json:"signal"`
	Prompts *[]string `json:"prompts"`
	Risk    *string   `json:"risk"`
}

// ParseResult decodes untrusted model output into a validated Result.
// Any decode or validation failure is reported as *MalformedResultError.
func ParseResult(text string) (Result, error) {
	var raw rawResult
	if err := fileutils.DecodeModelJSON(text, &raw); err != nil {
		return Result{}, &MalformedResultError{Reason: "decode model output", Err: err}
	}

	switch {
	case raw.Summary == nil:
		return Result{}, &MalformedResultError{Reason: "missing required key summary"}
	case raw.Themes == nil:
		return Result{}, &MalformedResultError{Reason: "missing required key themes"}
	case raw.Signal == nil:
		return Result{}, &MalformedResultError{Reason: "missing required key signal"}
	case raw.Prompts == nil:
		return Result{}, &MalformedResultError{Reason: "missing required key prompts"}
	}

	out := Result{
		Summary: strings.TrimSpace(*raw.Summary),
		Themes:  trimAll(*raw.Themes),
		Signal:  strings.TrimSpace(*raw.Signal),
		Prompts: trimAll(*raw.Prompts),
	}
	if raw.Risk != nil {
		out.Risk = strings.TrimSpace(*raw.Risk)
	}
	if err := out.Validate(); err != nil {
		return Result{}, err
	}
	return out, nil
}

// MarshalSnapshot encodes a Result the way the CLI writes it.
func MarshalSnapshot(r Result, pretty bool) ([]byte, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if pretty {
		return json.MarshalIndent(r, "", "  ")
	}
	return json.Marshal(r)
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}

func hasNonBlank(in []string) bool {
	for _, s := range in {
		if strings.TrimSpace(s) != "" {
			return true
		}
	}
	return false
}

// IsMalformed reports whether err is a *MalformedResultError.
func IsMalformed(err error) bool {
	var m *MalformedResultError
	return errors.As(err, &m)
}
