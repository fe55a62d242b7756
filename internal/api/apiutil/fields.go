package apiutil

import (
	"strconv"
	"strings"
)

// ParseOptionalIntField returns fallback for an empty value.
func ParseOptionalIntField(raw string, field string, fallback int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, FieldError{Field: field, Reason: "must be an integer"}
	}
	return value, nil
}
