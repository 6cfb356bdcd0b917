package parser

import (
	"strings"

	"github.com/KimNorgaard/go-cml/ast"
	cmlerrors "github.com/KimNorgaard/go-cml/errors"
)

const (
	headerFields = 5
	whitespace   = " \t\r\n\v\f"
)

// ParseHeader parses the bracketed prefix at the start of src. It returns the
// header and the offset of the first byte after the header's opening '{'.
//
// The first ']' closes the header and must be followed directly by '{'.
// Missing trailing fields are left empty. Participants are split on ',' as is;
// tags are trimmed. Both keep empty entries.
func ParseHeader(src string) (ast.Header, int, error) {
	if !strings.HasPrefix(src, "[") {
		return ast.Header{}, 0, cmlerrors.New(cmlerrors.MissingHeader, 0,
			"document must start with '['")
	}
	end := strings.IndexByte(src, ']')
	if end < 0 || end+1 >= len(src) || src[end+1] != '{' {
		return ast.Header{}, 0, cmlerrors.New(cmlerrors.MissingHeader, 0,
			`expected "]{" to close the header`)
	}

	seg := src[1:end]
	if i := strings.IndexAny(seg, "\r\n"); i >= 0 {
		return ast.Header{}, 0, cmlerrors.New(cmlerrors.MalformedHeader, 1+i,
			"line break inside header")
	}

	fields := strings.Split(seg, "|")
	if len(fields) > headerFields {
		off := 1 + len(strings.Join(fields[:headerFields], "|"))
		return ast.Header{}, 0, cmlerrors.New(cmlerrors.MalformedHeader, off,
			"header has %d fields, at most %d are allowed", len(fields), headerFields)
	}
	for len(fields) < headerFields {
		fields = append(fields, "")
	}

	h := ast.Header{
		Timestamp:    fields[0],
		Kind:         fields[1],
		Participants: splitParticipants(fields[2]),
		Location:     fields[3],
		Tags:         splitTags(fields[4]),
	}
	return h, end + 2, nil
}

func splitParticipants(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func splitTags(s string) []string {
	if strings.Trim(s, whitespace) == "" {
		return nil
	}
	tags := strings.Split(s, ",")
	for i, t := range tags {
		tags[i] = strings.Trim(t, whitespace)
	}
	return tags
}

// ExtractBody returns the text between the header's '{' at start-1 and the
// final '}' of src. Trailing whitespace after the final '}' is ignored.
func ExtractBody(src string, start int) (string, error) {
	rest := strings.TrimRight(src[start:], whitespace)
	if !strings.HasSuffix(rest, "}") {
		return "", cmlerrors.New(cmlerrors.MissingBody, start+len(rest),
			"document must end with '}'")
	}
	return rest[:len(rest)-1], nil
}
