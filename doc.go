/*
Package cml parses and writes CML, a compact record format made of a
bracketed header followed by a braced body of key/value statements.

A document looks like this:

	[2024-05-01T10:00:00Z|meeting|alice,bob|Berlin|urgent,q2]{
	  title: "Planning";
	  count: 3;
	  items: [1, "two", true];
	  owner: { name: "alice"; active: true };
	}

The header has five positional fields separated by '|': timestamp, kind,
participants, location and tags. Participants and tags are comma-separated
lists. Empty fields are absent.

The body holds statements of the form key: value, terminated by ';'. A value
is a quoted string ("..." or '...'), a number, true, false, null, a list in
square brackets or a nested mapping in braces. Anything else is kept as
unquoted text. Duplicate keys keep the last value at the position of the
first.

There are two ways to work with documents.

1. Document Trees

Parse returns a *Document whose body is an ordered *Mapping of Values.
Format writes a Document back as canonical CML. The output parses into an
equal Document, except for Text holding a backslash right before a double
quote, or a trailing backslash on text that has to be quoted: only the
delimiter is escaped, so such text does not read back unchanged.

	doc, err := cml.Parse(data)
	if err != nil {
		// err matches one of the Err* variables with errors.Is
		// and is a *cml.ParseError with line and column set.
	}
	title, _ := doc.Get("title")

	out, err := cml.Format(doc, cml.Indent(4))

2. Go Values

Unmarshal maps a document body onto structs, maps and slices, and Marshal
builds a document from them:

	type Meeting struct {
		Header cml.Header
		Title  string   `cml:"title"`
		Count  int      `cml:"count,omitempty"`
		Items  []any    `cml:"items"`
	}

	var m Meeting
	if err := cml.Unmarshal(data, &m); err != nil {
		// handle error
	}

	out, err := cml.Marshal(m.Header, m)

Customization is available via struct field tags (e.g., `cml:"key,omitempty"`)
and by implementing the cml.Marshaler and cml.Unmarshaler interfaces.

Nesting is limited by the MaxDepth option, so hostile input fails with
ErrMaxDepthExceeded instead of exhausting the stack.
*/
package cml
