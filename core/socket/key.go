package socket

import (
	"fmt"
	"strconv"
)

// KeyParser converts a raw path segment into a topic key.
type KeyParser[K comparable] func(raw string) (K, error)

// ParseIntKey parses a base-10 integer key.
func ParseIntKey(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an integer", ErrInvalidKey, raw)
	}
	return n, nil
}

// ParseStringKey accepts any non-empty string.
func ParseStringKey(raw string) (string, error) {
	if raw == "" {
		return "", fmt.Errorf("%w: empty key", ErrInvalidKey)
	}
	return raw, nil
}
