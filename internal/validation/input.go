package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ignatzorin/levkonnect-backend/internal/pkg/apperror"
)

var emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Email проверяет формат адреса.
func Email(raw string) error {
	if !emailRe.MatchString(strings.TrimSpace(raw)) {
		return apperror.New(apperror.ErrCodeValidation, "некорректный email")
	}
	return nil
}

// Required проверяет, что строковое поле непустое после обрезки пробелов.
func Required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return apperror.New(apperror.ErrCodeValidation, fmt.Sprintf("поле %s обязательно", field))
	}
	return nil
}

// MaxLen ограничивает длину поля в рунах.
func MaxLen(field, value string, max int) error {
	if utf8.RuneCountInString(value) > max {
		return apperror.New(apperror.ErrCodeValidation,
			fmt.Sprintf("поле %s не должно превышать %d символов", field, max))
	}
	return nil
}

// Positive проверяет, что денежная сумма или количество больше нуля.
func Positive(field string, value float64) error {
	if value <= 0 {
		return apperror.New(apperror.ErrCodeValidation,
			fmt.Sprintf("поле %s должно быть положительным", field))
	}
	return nil
}

// Rating проверяет оценку отзыва.
func Rating(value int) error {
	if value < 1 || value > 5 {
		return apperror.New(apperror.ErrCodeValidation, "оценка должна быть от 1 до 5")
	}
	return nil
}
