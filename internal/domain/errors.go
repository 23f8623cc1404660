package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound        = errors.New("record not found")
	ErrDuplicateRecord = errors.New("record with this id already exists")
	ErrNoIdentity      = errors.New("no authenticated identity")
	ErrInvalidToken    = errors.New("invalid session token")
	ErrOwnerMismatch   = errors.New("record belongs to another identity")
	ErrServiceDisabled = errors.New("external service is not configured")
)

// UnreadableRecordsError - строки хранилища, которые не удалось разобрать.
// Возвращается вместе с записями, которые прочитались.
type UnreadableRecordsError struct {
	IDs []string
}

func (e *UnreadableRecordsError) Error() string {
	return fmt.Sprintf("%d unreadable records: %s", len(e.IDs), strings.Join(e.IDs, ", "))
}

// UnreadableIDs отделяет битые строки от прочих ошибок выборки
func UnreadableIDs(err error) ([]string, error) {
	if err == nil {
		return nil, nil
	}
	var unreadable *UnreadableRecordsError
	if errors.As(err, &unreadable) {
		return unreadable.IDs, nil
	}
	return nil, err
}
