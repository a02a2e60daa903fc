// Package platform provides method-channel communication between Go and
// native code. Go code calls native APIs by channel and method name through
// a NativeBridge installed by the host application.
package platform

import (
	"bytes"
	"encoding/json"
)

// MessageCodec encodes and decodes messages for platform channel communication.
type MessageCodec interface {
	// Encode converts a Go value to bytes for transmission to native code.
	Encode(value any) ([]byte, error)

	// Decode converts bytes received from native code to a Go value.
	Decode(data []byte) (any, error)
}

// JsonCodec implements MessageCodec using JSON encoding.
// Replies decode into generic values (map[string]any, []any, float64, ...).
type JsonCodec struct{}

// Encode serializes the value to JSON bytes.
func (c JsonCodec) Encode(value any) ([]byte, error) {
	return json.Marshal(value)
}

// Decode deserializes JSON bytes to a Go value.
func (c JsonCodec) Decode(data []byte) (any, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var result any
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// RawCodec encodes like JsonCodec but decodes replies into json.RawMessage,
// keeping the exact bytes the native side produced. An empty reply or a bare
// JSON null decodes to nil.
type RawCodec struct{}

// Encode serializes the value to JSON bytes.
func (c RawCodec) Encode(value any) ([]byte, error) {
	return json.Marshal(value)
}

// Decode validates data as JSON and returns a copy of it as json.RawMessage.
// Whitespace around the value is dropped.
func (c RawCodec) Decode(data []byte) (any, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	var raw json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// DefaultCodec is the codec used by platform channels.
var DefaultCodec MessageCodec = JsonCodec{}
