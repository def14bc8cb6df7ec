package entity

import (
	"strings"
	"unicode/utf8"
)

type Category struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func ValidateCategoryName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return NewValidationError("name", "this field may not be blank")
	}
	if utf8.RuneCountInString(name) > 100 {
		return NewValidationError("name", "ensure this field has no more than 100 characters")
	}
	return nil
}
