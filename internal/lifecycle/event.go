// ABOUTME: Host lifecycle event and its JSON codec
// ABOUTME: Hand-maintained easyjson marshalers; accepts pi's nested message.role as well as a flat role

package lifecycle

import (
	"github.com/mailru/easyjson"
	"github.com/mailru/easyjson/jlexer"
	"github.com/mailru/easyjson/jwriter"
)

// Event is one host lifecycle notification.
type Event struct {
	Type string `json:"type" yaml:"type"`
	Role string `json:"role,omitempty" yaml:"role,omitempty"`
	Tool string `json:"tool,omitempty" yaml:"tool,omitempty"`
}

var (
	_ easyjson.Marshaler   = Event{}
	_ easyjson.Unmarshaler = (*Event)(nil)
)

// DecodeEvent parses one JSON object.
func DecodeEvent(data []byte) (Event, error) {
	var ev Event
	err := easyjson.Unmarshal(data, &ev)
	return ev, err
}

// MarshalJSON supports json.Marshaler interface
func (v Event) MarshalJSON() ([]byte, error) {
	w := jwriter.Writer{}
	encodeEvent(&w, v)
	return w.Buffer.BuildBytes(), w.Error
}

// MarshalEasyJSON supports easyjson.Marshaler interface
func (v Event) MarshalEasyJSON(w *jwriter.Writer) {
	encodeEvent(w, v)
}

// UnmarshalJSON supports json.Unmarshaler interface
func (v *Event) UnmarshalJSON(data []byte) error {
	r := jlexer.Lexer{Data: data}
	decodeEvent(&r, v)
	return r.Error()
}

// UnmarshalEasyJSON supports easyjson.Unmarshaler interface
func (v *Event) UnmarshalEasyJSON(l *jlexer.Lexer) {
	decodeEvent(l, v)
}

func decodeEvent(in *jlexer.Lexer, out *Event) {
	isTopLevel := in.IsStart()
	if in.IsNull() {
		if isTopLevel {
			in.Consumed()
		}
		in.Skip()
		return
	}
	in.Delim('{')
	for !in.IsDelim('}') {
		key := in.UnsafeFieldName(false)
		in.WantColon()
		if in.IsNull() {
			in.Skip()
			in.WantComma()
			continue
		}
		switch key {
		case "type":
			out.Type = in.String()
		case "role":
			out.Role = in.String()
		case "tool", "toolName":
			out.Tool = in.String()
		case "message":
			// A flat role wins over the nested one.
			if role := decodeMessageRole(in); out.Role == "" {
				out.Role = role
			}
		default:
			in.SkipRecursive()
		}
		in.WantComma()
	}
	in.Delim('}')
	if isTopLevel {
		in.Consumed()
	}
}

// decodeMessageRole reads the role field of a nested message object and
// skips everything else in it.
func decodeMessageRole(in *jlexer.Lexer) string {
	var role string
	in.Delim('{')
	for !in.IsDelim('}') {
		key := in.UnsafeFieldName(false)
		in.WantColon()
		if key == "role" && !in.IsNull() {
			role = in.String()
		} else {
			in.SkipRecursive()
		}
		in.WantComma()
	}
	in.Delim('}')
	return role
}

func encodeEvent(out *jwriter.Writer, in Event) {
	out.RawByte('{')
	{
		const prefix string = ",\"type\":"
		out.RawString(prefix[1:])
		out.String(in.Type)
	}
	if in.Role != "" {
		const prefix string = ",\"role\":"
		out.RawString(prefix)
		out.String(in.Role)
	}
	if in.Tool != "" {
		const prefix string = ",\"tool\":"
		out.RawString(prefix)
		out.String(in.Tool)
	}
	out.RawByte('}')
}
