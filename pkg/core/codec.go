package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
)

// EncodeBody serializes a payload into the JSON text stored as the issue body.
// It fails with ErrUnsupportedValue when a value is not a string, a number or nil.
func EncodeBody(d Data) (string, error) {
	if err := d.Validate(); err != nil {
		return "", err
	}
	if d == nil {
		d = Data{}
	}
	b, err := json.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("failed to encode body: %w", err)
	}
	return string(b), nil
}

// DecodeBody parses an issue body back into a payload.
// In strict mode numbers are kept as json.Number to preserve large integers.
func DecodeBody(body string, strict bool) (Data, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(body)))
	if strict {
		dec.UseNumber()
	}

	var d Data
	if err := dec.Decode(&d); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}
	// Anything but EOF after the object, including a stray } or ], is invalid.
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("invalid json: trailing data after object")
	}
	if d == nil {
		// "null" decodes without error into a nil map.
		return nil, fmt.Errorf("invalid json: body is not an object")
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// Validate checks that every value belongs to the scalar set.
// NaN and infinities have no JSON form and are rejected as well.
func (d Data) Validate() error {
	for k, v := range d {
		if !isScalar(v) {
			return fmt.Errorf("%w: key %q holds %T", ErrUnsupportedValue, k, v)
		}
	}
	return nil
}

func isScalar(v any) bool {
	switch t := v.(type) {
	case float64:
		return !math.IsNaN(t) && !math.IsInf(t, 0)
	case float32:
		return !math.IsNaN(float64(t)) && !math.IsInf(float64(t), 0)
	case nil, string, json.Number,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return true
	default:
		return false
	}
}
