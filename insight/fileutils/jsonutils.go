package fileutils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// DecodeModelJSON unmarshals a JSON object from model output text. Models occasionally wrap the object in
// a markdown fence or a sentence, so when the text is not valid JSON as-is the outermost {...} span is tried.
func DecodeModelJSON(outputText string, v any) error {
	s := strings.TrimSpace(outputText)
	if s == "" {
		return io.ErrUnexpectedEOF
	}

	err := json.Unmarshal([]byte(s), v)
	if err == nil {
		return nil
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		// Well-formed JSON of the wrong shape; extracting a substring will not help.
		return err
	}

	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start == -1 || end == -1 || end <= start {
		return fmt.Errorf("no JSON object found in model output (len=%d): %w", len(s), err)
	}

	sub := s[start : end+1]
	if err := json.Unmarshal([]byte(sub), v); err != nil {
		return fmt.Errorf("unmarshal extracted JSON (len=%d): %w", len(sub), err)
	}
	return nil
}
