package onboarding

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Answer is a single response: either one value or a set of values for
// multi-select questions. It encodes as a JSON string or JSON array.
type Answer struct {
	Value  string
	Values []string
}

// Text returns a single-valued answer.
func Text(value string) Answer {
	return Answer{Value: value}
}

// Multi returns a multi-valued answer.
func Multi(values ...string) Answer {
	return Answer{Values: append([]string{}, values...)}
}

// IsMulti reports whether the answer holds a value set.
func (a Answer) IsMulti() bool {
	return a.Values != nil
}

// Empty reports whether nothing was answered.
func (a Answer) Empty() bool {
	if a.IsMulti() {
		return len(a.Values) == 0
	}
	return strings.TrimSpace(a.Value) == ""
}

// Matches reports whether a single-valued answer equals want, ignoring
// surrounding whitespace and case.
func (a Answer) Matches(want string) bool {
	if a.IsMulti() {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(a.Value), want)
}

func (a Answer) String() string {
	if a.IsMulti() {
		return strings.Join(a.Values, ", ")
	}
	return a.Value
}

func (a Answer) clone() Answer {
	if a.Values == nil {
		return Answer{Value: a.Value}
	}
	return Answer{Values: append([]string{}, a.Values...)}
}

// MarshalJSON encodes a string or an array.
func (a Answer) MarshalJSON() ([]byte, error) {
	if a.IsMulti() {
		return json.Marshal(a.Values)
	}
	return json.Marshal(a.Value)
}

// UnmarshalJSON accepts a string or an array of strings.
func (a *Answer) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*a = Answer{}
		return nil
	}
	switch trimmed[0] {
	case '"':
		var value string
		if err := json.Unmarshal(trimmed, &value); err != nil {
			return err
		}
		*a = Text(value)
		return nil
	case '[':
		var values []string
		if err := json.Unmarshal(trimmed, &values); err != nil {
			return err
		}
		*a = Multi(values...)
		return nil
	default:
		return fmt.Errorf("answer must be a string or an array of strings")
	}
}
