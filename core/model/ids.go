package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ID is an identifier that the timetable service sends either as a JSON
// number or as a string. The zero ID means the field was absent or null and
// never matches a record.
type ID string

// IDFromInt returns the ID for a numeric identifier.
func IDFromInt(n int64) ID { return ID(strconv.FormatInt(n, 10)) }

// IsZero reports whether the identifier is absent.
func (id ID) IsZero() bool { return id == "" }

func (id ID) String() string { return string(id) }

// UnmarshalJSON accepts numbers, strings and null.
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id: expected number or string, got %s", b)
	}
	*id = ID(n.String())
	return nil
}

// MarshalJSON writes numeric identifiers as numbers so that payloads keep the
// shape the service uses.
func (id ID) MarshalJSON() ([]byte, error) {
	if id.IsZero() {
		return []byte("null"), nil
	}
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// UnmarshalYAML reads any scalar as an identifier. yaml.v3 does not call it
// for a null value, which leaves the field unchanged.
func (id *ID) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("id: expected scalar at line %d", node.Line)
	}
	*id = ID(strings.TrimSpace(node.Value))
	return nil
}

// Expertise is the list of subjects a teacher covers. The service stores it
// as free text, a JSON array, or a string holding a JSON array.
type Expertise []string

// ParseExpertise splits free text into subjects.
func ParseExpertise(s string) Expertise {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if strings.HasPrefix(s, "[") {
		var list []string
		if err := json.Unmarshal([]byte(s), &list); err == nil {
			return clean(list)
		}
	}
	return clean(strings.Split(s, ","))
}

func clean(list []string) Expertise {
	out := make(Expertise, 0, len(list))
	for _, v := range list {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func (e Expertise) String() string { return strings.Join(e, ", ") }

// UnmarshalJSON accepts an array of strings, a string or null.
func (e *Expertise) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*e = nil
		return nil
	case b[0] == '[':
		var list []string
		if err := json.Unmarshal(b, &list); err != nil {
			return fmt.Errorf("expertise: %w", err)
		}
		*e = clean(list)
		return nil
	default:
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("expertise: %w", err)
		}
		*e = ParseExpertise(s)
		return nil
	}
}

// UnmarshalYAML accepts a sequence or a scalar.
func (e *Expertise) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		*e = clean(list)
	case yaml.ScalarNode:
		*e = ParseExpertise(node.Value)
	default:
		return fmt.Errorf("expertise: unexpected node at line %d", node.Line)
	}
	return nil
}
