package models

import "fmt"

// ValidationError возвращается до любой записи в БД, частичных изменений не бывает
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
