package bus

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
)

// JSONCodec is the default Encoder: length-prefixed, tag-prefixed binary
// frames wrapping JSON payloads (spec §4.7 "encoder interface driven by
// record kind tag"). JSON is used for the payload body because every
// checkpoint/CCB record in this core already round-trips through
// model.AttrValue, which marshals cleanly; a denser binary codec would add
// no behavior the spec calls for.
type JSONCodec struct{}

func (JSONCodec) Encode(tag string, v interface{}) ([]byte, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("bus: encode %s: %w", tag, err)
	}
	var buf bytes.Buffer
	tagBytes := []byte(tag)
	if err := binary.Write(&buf, binary.BigEndian, uint16(len(tagBytes))); err != nil {
		return nil, err
	}
	buf.Write(tagBytes)
	if err := binary.Write(&buf, binary.BigEndian, uint32(len(body))); err != nil {
		return nil, err
	}
	buf.Write(body)
	return buf.Bytes(), nil
}

func (JSONCodec) Decode(tag string, data []byte, out interface{}) error {
	r := bytes.NewReader(data)
	var tagLen uint16
	if err := binary.Read(r, binary.BigEndian, &tagLen); err != nil {
		return fmt.Errorf("bus: decode %s: read tag length: %w", tag, err)
	}
	gotTag := make([]byte, tagLen)
	if _, err := r.Read(gotTag); err != nil {
		return fmt.Errorf("bus: decode %s: read tag: %w", tag, err)
	}
	if string(gotTag) != tag {
		return fmt.Errorf("bus: decode: tag mismatch, want %s got %s", tag, gotTag)
	}
	var bodyLen uint32
	if err := binary.Read(r, binary.BigEndian, &bodyLen); err != nil {
		return fmt.Errorf("bus: decode %s: read body length: %w", tag, err)
	}
	body := make([]byte, bodyLen)
	if _, err := r.Read(body); err != nil {
		return fmt.Errorf("bus: decode %s: read body: %w", tag, err)
	}
	return json.Unmarshal(body, out)
}
