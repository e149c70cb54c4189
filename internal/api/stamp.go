package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/buger/jsonparser"
)

const timestampKey = "timestamp"

var (
	ErrEmptyBody     = errors.New("request body is empty")
	ErrMalformedBody = errors.New("request body is not valid JSON")
	ErrNotObject     = errors.New("request body must be a JSON object")
)

// span is the byte range of one member value inside the document.
type span struct{ start, end int }

// stampObject sets the top-level timestamp member of a JSON object to stamp.
// The document is edited as bytes: every other member keeps its original
// encoding and position. Each existing top-level timestamp is overwritten
// where it stands, repeated keys included. A missing one is appended as the
// last member.
func stampObject(body []byte, stamp string) ([]byte, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, ErrEmptyBody
	}
	if !json.Valid(body) || !utf8.Valid(body) {
		return nil, ErrMalformedBody
	}
	if _, typ, _, err := jsonparser.Get(body); err != nil || typ != jsonparser.Object {
		return nil, ErrNotObject
	}

	value, err := json.Marshal(stamp)
	if err != nil {
		return nil, fmt.Errorf("encode timestamp: %w", err)
	}

	spans, err := timestampSpans(body)
	if err != nil {
		return nil, fmt.Errorf("look up timestamp: %w", err)
	}
	if len(spans) == 0 {
		return appendMember(body, timestampKey, value), nil
	}
	return replaceSpans(body, spans, value), nil
}

// timestampSpans returns the value ranges of every top-level timestamp
// member in document order. Keys are compared after unescaping.
func timestampSpans(obj []byte) ([]span, error) {
	var spans []span
	err := jsonparser.ObjectEach(obj, func(key, value []byte, typ jsonparser.ValueType, end int) error {
		if string(key) != timestampKey {
			return nil
		}
		start := end - len(value)
		if typ == jsonparser.String {
			// value excludes the surrounding quotes
			start -= 2
		}
		spans = append(spans, span{start: start, end: end})
		return nil
	})
	return spans, err
}

// replaceSpans writes value over each span. spans must be ordered and
// non-overlapping.
func replaceSpans(obj []byte, spans []span, value []byte) []byte {
	out := make([]byte, 0, len(obj)+len(spans)*len(value))
	prev := 0
	for _, s := range spans {
		out = append(out, obj[prev:s.start]...)
		out = append(out, value...)
		prev = s.end
	}
	return append(out, obj[prev:]...)
}

// appendMember adds "key":value before the closing brace of a valid JSON
// object. Surrounding whitespace is left untouched.
func appendMember(obj []byte, key string, value []byte) []byte {
	open := bytes.IndexByte(obj, '{')
	end := bytes.LastIndexByte(obj, '}')
	empty := len(bytes.TrimSpace(obj[open+1:end])) == 0

	out := make([]byte, 0, len(obj)+len(key)+len(value)+4)
	out = append(out, obj[:end]...)
	if !empty {
		out = append(out, ',')
	}
	out = append(out, '"')
	out = append(out, key...)
	out = append(out, '"', ':')
	out = append(out, value...)
	out = append(out, obj[end:]...)
	return out
}
