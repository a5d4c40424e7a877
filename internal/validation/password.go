package validation

import (
	"unicode"

	"github.com/ignatzorin/levkonnect-backend/internal/pkg/apperror"
)

// Password требует минимум 8 символов, букву и цифру.
func Password(raw string) error {
	if len(raw) < 8 {
		return apperror.New(apperror.ErrCodeValidation, "пароль должен содержать не менее 8 символов")
	}

	var hasLetter, hasDigit bool
	for _, r := range raw {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return apperror.New(apperror.ErrCodeValidation, "пароль должен содержать буквы и цифры")
	}
	return nil
}
