package socket

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Envelope carries a broadcast between processes. Key holds the JSON form of
// the topic key: a number for integer keys, a string for string keys.
type Envelope struct {
	Key     json.RawMessage `json:"key"`
	Message string          `json:"message"`
}

// EncodeEnvelope marshals a broadcast for relaying.
func EncodeEnvelope[K comparable](key K, message string) ([]byte, error) {
	rawKey, err := json.Marshal(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidEnvelope, err)
	}
	return json.Marshal(Envelope{Key: rawKey, Message: message})
}

// DecodeEnvelope reverses EncodeEnvelope, parsing the key with parse.
func DecodeEnvelope[K comparable](data []byte, parse KeyParser[K]) (K, string, error) {
	var zero K

	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return zero, "", fmt.Errorf("%w: %w", ErrInvalidEnvelope, err)
	}
	if len(env.Key) == 0 || bytes.Equal(env.Key, []byte("null")) {
		return zero, "", fmt.Errorf("%w: missing key", ErrInvalidEnvelope)
	}

	raw := string(env.Key)
	if env.Key[0] == '"' {
		if err := json.Unmarshal(env.Key, &raw); err != nil {
			return zero, "", fmt.Errorf("%w: %w", ErrInvalidEnvelope, err)
		}
	}

	key, err := parse(raw)
	if err != nil {
		return zero, "", fmt.Errorf("%w: %w", ErrInvalidEnvelope, err)
	}
	return key, env.Message, nil
}
