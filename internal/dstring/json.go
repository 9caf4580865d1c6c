package dstring

import (
	"encoding/base64"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// MarshalJSON encodes s as {"length":N,"capacity":C,"data":"<base64>"}.
func (s *String) MarshalJSON() ([]byte, error) {
	if s.freed {
		return nil, ErrFreed
	}

	doc := []byte(`{}`)
	var err error
	if doc, err = sjson.SetBytes(doc, "length", s.length); err != nil {
		return nil, err
	}
	if doc, err = sjson.SetBytes(doc, "capacity", len(s.buf)); err != nil {
		return nil, err
	}
	if doc, err = sjson.SetBytes(doc, "data", base64.StdEncoding.EncodeToString(s.Bytes())); err != nil {
		return nil, err
	}
	return doc, nil
}

// maxCapacityHintSlack bounds how far a decoded capacity may exceed the
// decoded data.
const maxCapacityHintSlack = 64 << 10

// UnmarshalJSON replaces the content of s with the document's data. The
// recorded capacity is a hint: at most 64 KiB beyond the data is reserved
// for it. On error s is unchanged.
func (s *String) UnmarshalJSON(doc []byte) error {
	if s.freed {
		return ErrFreed
	}
	if !gjson.ValidBytes(doc) {
		return fmt.Errorf("invalid json: %w", ErrCorruptDocument)
	}

	fields := gjson.GetManyBytes(doc, "length", "capacity", "data")
	length, capacity, data := fields[0], fields[1], fields[2]
	if !data.Exists() {
		return fmt.Errorf("missing data: %w", ErrCorruptDocument)
	}
	raw, err := base64.StdEncoding.DecodeString(data.String())
	if err != nil {
		return fmt.Errorf("decoding data: %w: %v", ErrCorruptDocument, err)
	}
	if length.Exists() && length.Int() != int64(len(raw)) {
		return fmt.Errorf("length %d does not match %d data bytes: %w", length.Int(), len(raw), ErrCorruptDocument)
	}

	need := len(raw) + 1
	if c := capacity.Int(); c > int64(need) {
		need += int(min(c-int64(need), maxCapacityHintSlack))
	}
	if need > len(s.buf) {
		if err := s.SetCapacity(need); err != nil {
			return err
		}
	}

	s.Clear()
	return s.Push(raw)
}
