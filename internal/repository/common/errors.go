package common

import "errors"

// Сентинельные ошибки слоя репозиториев. Сервисы переводят их
// в apperror, middleware — в HTTP-статусы.
var (
	ErrNotFound      = errors.New("запись не найдена")
	ErrAlreadyExists = errors.New("запись уже существует")
	ErrConflict      = errors.New("конфликт состояния")
)
