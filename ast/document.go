package ast

import (
	"slices"
	"strings"
)

// Header holds the five positional fields of the bracketed prefix.
// Empty optional fields are absent.
type Header struct {
	Timestamp    string   `yaml:"timestamp,omitempty"`
	Kind         string   `yaml:"kind,omitempty"`
	Participants []string `yaml:"participants,omitempty"`
	Location     string   `yaml:"location,omitempty"`
	Tags         []string `yaml:"tags,omitempty"`
}

// Field returns one of the optional fields by name ("timestamp", "kind" or
// "location", any casing). ok is false when the field is absent or unknown.
func (h Header) Field(name string) (string, bool) {
	var s string
	switch strings.ToLower(name) {
	case "timestamp":
		s = h.Timestamp
	case "kind":
		s = h.Kind
	case "location":
		s = h.Location
	default:
		return "", false
	}
	return s, s != ""
}

// Values returns a copy of one of the list fields by name ("participants"
// or "tags", any casing). It returns nil for unknown names.
func (h Header) Values(name string) []string {
	switch strings.ToLower(name) {
	case "participants":
		return slices.Clone(h.Participants)
	case "tags":
		return slices.Clone(h.Tags)
	}
	return nil
}

// Document is a parsed CML document.
type Document struct {
	Header Header
	Body   *Mapping
	// Source is the text the document was parsed from. It is kept for
	// diagnostics only and is not consulted when formatting.
	Source string
}

// Get returns the body entry stored under key.
func (d *Document) Get(key string) (Value, bool) {
	return d.Body.Get(key)
}

// Lookup follows a path of keys through nested body mappings.
func (d *Document) Lookup(path ...string) (Value, bool) {
	return d.Body.Lookup(path...)
}

// Equal reports whether two documents have the same header and body.
// Source is not compared.
func (d *Document) Equal(o *Document) bool {
	if d == nil || o == nil {
		return d == o
	}
	return d.Header.Equal(o.Header) && d.Body.Equal(o.Body)
}

// Equal reports whether two headers hold the same fields. A nil and an
// empty list field are equal.
func (h Header) Equal(o Header) bool {
	return h.Timestamp == o.Timestamp &&
		h.Kind == o.Kind &&
		h.Location == o.Location &&
		slices.Equal(h.Participants, o.Participants) &&
		slices.Equal(h.Tags, o.Tags)
}
