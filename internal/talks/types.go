package talks

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Talk is a struct that represents a talk, as returned by the talks API.
// Every field is optional: missing values are rendered as placeholders.
type Talk struct {
	ID         ID          `json:"id"`
	Title      string      `json:"title"`
	Speakers   []Speaker   `json:"speakers"`
	Categories []string    `json:"categories"`
	Duration   json.Number `json:"duration"`
	Summary    string      `json:"summary"`
}

// Speaker is a struct that represents one of the speakers of a talk.
type Speaker struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// FullName returns the first and last name separated by a space, trimmed.
func (s Speaker) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

// ID is the identifier of a talk. The API is not consistent about its type,
// so both JSON strings and numbers are accepted and kept as text.
type ID string

// UnmarshalJSON accepts a string, a number or null.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

// Empty reports whether the identifier would be falsy for the page: missing,
// empty or zero.
func (id ID) Empty() bool {
	return id == "" || id == "0"
}
