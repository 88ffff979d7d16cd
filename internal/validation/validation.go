// Package validation collects per-field form errors so the first failing
// field can be reported while the client still gets every message inline.
package validation

import (
	"errors"
	"net/mail"
	"strings"
	"unicode/utf8"
)

// FieldError is a single field-specific message.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is returned when one or more fields are invalid.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return "dati non validi"
	}
	return e.Fields[0].Message
}

// Map returns the field → message view used by JSON responses.
func (e *Error) Map() map[string]string {
	result := make(map[string]string, len(e.Fields))
	for _, f := range e.Fields {
		if _, ok := result[f.Field]; ok {
			continue
		}
		result[f.Field] = f.Message
	}
	return result
}

// As unwraps err into a validation error.
func As(err error) (*Error, bool) {
	var verr *Error
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}

// Collector accumulates field errors in declaration order.
type Collector struct {
	fields []FieldError
}

// Add records message for field.
func (c *Collector) Add(field, message string) {
	c.fields = append(c.fields, FieldError{Field: field, Message: message})
}

// Required records message when value is blank and reports whether it was present.
func (c *Collector) Required(field, value, message string) bool {
	if strings.TrimSpace(value) == "" {
		c.Add(field, message)
		return false
	}
	return true
}

// MaxRunes records message when value exceeds max characters.
func (c *Collector) MaxRunes(field, value string, max int, message string) bool {
	if utf8.RuneCountInString(value) > max {
		c.Add(field, message)
		return false
	}
	return true
}

// OneOf records message when value is not part of allowed.
func (c *Collector) OneOf(field, value string, allowed []string, message string) bool {
	for _, candidate := range allowed {
		if candidate == value {
			return true
		}
	}
	c.Add(field, message)
	return false
}

// Err returns nil when nothing was collected.
func (c *Collector) Err() error {
	if len(c.fields) == 0 {
		return nil
	}
	return &Error{Fields: append([]FieldError(nil), c.fields...)}
}

// NormalizeEmail trims and checks an address. Blank input yields "" without error.
func NormalizeEmail(value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", nil
	}
	if len(trimmed) > 255 {
		return "", errors.New("L'email deve contenere al massimo 255 caratteri")
	}
	addr, err := mail.ParseAddress(trimmed)
	if err != nil || addr.Address != trimmed {
		return "", errors.New("Email non valida")
	}
	return trimmed, nil
}
