package format

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/erraggy/refparser/internal/httputil"
	"github.com/erraggy/refparser/node"
	"github.com/erraggy/refparser/referrors"
	"github.com/erraggy/refparser/source"
)

// JSON parses JSON documents, keeping object key order.
type JSON struct{}

// Name implements Parser.
func (JSON) Name() string { return "json" }

// CanParse claims ".json" resources, JSON media types, and undeclared
// content that starts with '{' or '['.
func (JSON) CanParse(res *source.Resource) bool {
	if Extension(res) == ".json" || httputil.IsJSONMediaType(res.ContentType) {
		return true
	}
	return sniff(res) == sniffedJSON
}

// Parse implements Parser.
func (JSON) Parse(res *source.Resource) (*node.Node, error) {
	n, err := DecodeJSON(res.Data)
	if err != nil {
		return nil, jsonError(res, err)
	}
	return n, nil
}

// DecodeJSON decodes a single JSON value into a node tree. Numbers keep their
// literal form, and trailing data after the value is an error.
func DecodeJSON(data []byte) (*node.Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	n, err := decodeJSONValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("format: unexpected data after top-level value at offset %d", dec.InputOffset())
	}
	return n, nil
}

func decodeJSONValue(dec *json.Decoder) (*node.Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			m := node.NewMapping()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("format: object key is %T", keyTok)
				}
				val, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				m.Set(key, val)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return m.MarkReference(), nil
		case '[':
			seq := node.NewSequence()
			for dec.More() {
				item, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				seq.Append(item)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return seq, nil
		}
		return nil, fmt.Errorf("format: unexpected delimiter %q", v)
	case string:
		return node.NewString(v), nil
	case json.Number:
		return node.NewNumber(v.String()), nil
	case bool:
		return node.NewBool(v), nil
	case nil:
		return node.NewNull(), nil
	}
	return nil, fmt.Errorf("format: unexpected token %T", tok)
}

func jsonError(res *source.Resource, err error) error {
	out := &referrors.UnparsableContentError{URL: res.URL, Parser: "json", Cause: err}
	var syntax *json.SyntaxError
	if errors.As(err, &syntax) {
		out.Line, out.Column = lineColumn(res.Data, syntax.Offset)
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		out.Message = "unexpected end of JSON input"
	}
	return out
}

// lineColumn converts a byte offset into 1-based line and column numbers.
func lineColumn(data []byte, offset int64) (int, int) {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	line, col := 1, 1
	for _, b := range data[:offset] {
		if b == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return line, col
}
