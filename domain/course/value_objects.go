package course

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"ddd-course/domain/shared"
)

const (
	MinNameLength = 3
	MaxNameLength = 100
)

// Name course title, 3 to 100 characters after trimming
type Name struct {
	value string
}

// NewName creates a validated course Name
func NewName(value string) (Name, error) {
	value = strings.TrimSpace(value)
	n := utf8.RuneCountInString(value)
	if n < MinNameLength || n > MaxNameLength {
		return Name{}, shared.NewValidationError("course_name", "name",
			fmt.Sprintf("course name must be between %d and %d characters, got %d", MinNameLength, MaxNameLength, n))
	}
	return Name{value: value}, nil
}

func (n Name) String() string { return n.value }

// Equals compares by value
func (n Name) Equals(other any) bool {
	o, ok := other.(Name)
	return ok && n == o
}

// MarshalText implements encoding.TextMarshaler
func (n Name) MarshalText() ([]byte, error) { return []byte(n.value), nil }

var _ shared.ValueObject = Name{}
