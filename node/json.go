package node

import (
	"bytes"
	"encoding/json"
)

// MarshalJSON encodes n as JSON, keeping mapping key order. Reference nodes
// encode as {"$ref": ...} followed by their siblings; circular placeholders
// encode as a local reference to their Path. Binary payloads are base64
// strings.
func (n *Node) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := n.writeJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (n *Node) writeJSON(buf *bytes.Buffer) error {
	if n == nil {
		buf.WriteString("null")
		return nil
	}
	switch n.Kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		if n.Bool {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case KindNumber:
		buf.WriteString(n.Text)
	case KindString:
		return writeJSONValue(buf, n.Text)
	case KindBinary:
		return writeJSONValue(buf, n.Bytes)
	case KindSequence:
		buf.WriteByte('[')
		for i, item := range n.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindMapping:
		buf.WriteByte('{')
		if err := n.writeMembers(buf, false); err != nil {
			return err
		}
		buf.WriteByte('}')
	case KindReference:
		buf.WriteByte('{')
		if err := writeRefMember(buf, n.Ref); err != nil {
			return err
		}
		if err := n.writeMembers(buf, true); err != nil {
			return err
		}
		buf.WriteByte('}')
	case KindCircular:
		buf.WriteByte('{')
		if err := writeRefMember(buf, "#"+n.Path); err != nil {
			return err
		}
		buf.WriteByte('}')
	}
	return nil
}

func (n *Node) writeMembers(buf *bytes.Buffer, leadingComma bool) error {
	for i, k := range n.keys {
		if i > 0 || leadingComma {
			buf.WriteByte(',')
		}
		if err := writeJSONValue(buf, k); err != nil {
			return err
		}
		buf.WriteByte(':')
		if err := n.index[k].writeJSON(buf); err != nil {
			return err
		}
	}
	return nil
}

func writeRefMember(buf *bytes.Buffer, ref string) error {
	buf.WriteString(`"$ref":`)
	return writeJSONValue(buf, ref)
}

func writeJSONValue(buf *bytes.Buffer, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}

// MarshalIndentJSON is like MarshalJSON but applies indentation.
func (n *Node) MarshalIndentJSON(prefix, indent string) ([]byte, error) {
	raw, err := n.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, raw, prefix, indent); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
