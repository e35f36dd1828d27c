package domain

// FieldErrors accumulates validation messages per field. All checks run; a
// field can collect more than one message.
type FieldErrors map[string][]string

// Add appends a message under field.
func (e FieldErrors) Add(field, message string) {
	e[field] = append(e[field], message)
}

// On returns the messages recorded for field.
func (e FieldErrors) On(field string) []string {
	return e[field]
}

// Invalid reports whether field has at least one message.
func (e FieldErrors) Invalid(field string) bool {
	return len(e[field]) > 0
}

// Valid reports whether no field collected a message.
func (e FieldErrors) Valid() bool {
	return len(e) == 0
}
