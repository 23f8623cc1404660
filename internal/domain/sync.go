package domain

import (
	"time"

	"github.com/google/uuid"
)

// SaveState - состояние конечного автомата одной попытки сохранения
type SaveState string

const (
	SaveIdle             SaveState = "idle"
	SaveAttemptingRemote SaveState = "attempting_remote"
	SaveFallingBackLocal SaveState = "falling_back_local"
	SaveDone             SaveState = "done"
)

// SavePath - где в итоге оказалась запись
type SavePath string

const (
	SavedRemote SavePath = "remote"
	SavedLocal  SavePath = "local"
)

// FallbackReason - почему запись сохранена только локально
type FallbackReason string

const (
	FallbackNone        FallbackReason = ""
	FallbackOffline     FallbackReason = "offline"
	FallbackAnonymous   FallbackReason = "anonymous"
	FallbackRemoteError FallbackReason = "remote_error"
)

// SaveOutcome - результат сохранения, показывается оператору
type SaveOutcome struct {
	Record *OperationRecord `json:"record"`
	Path   SavePath         `json:"path"`
	Reason FallbackReason   `json:"reason,omitempty"`
	States []SaveState      `json:"states"`
}

// SavedLocally - запись ждёт синхронизации
func (o *SaveOutcome) SavedLocally() bool {
	return o.Path == SavedLocal
}

// SweepAbortReason - почему проход синхронизации ничего не отправил
type SweepAbortReason string

const (
	SweepNoIdentity SweepAbortReason = "no_identity"
	SweepOffline    SweepAbortReason = "offline"
)

// SweepResult - итог одного прохода синхронизации
type SweepResult struct {
	Pending     int              `json:"pending"`
	Synced      []uuid.UUID      `json:"synced"`
	Failed      []uuid.UUID      `json:"failed"`
	Skipped     []uuid.UUID      `json:"skipped"`
	Unreadable  []string         `json:"unreadable"`
	Aborted     bool             `json:"aborted"`
	AbortReason SweepAbortReason `json:"abort_reason,omitempty"`
	Duration    time.Duration    `json:"duration_ns"`
}

// NewSweepResult - пустой результат с ненулевыми срезами для JSON
func NewSweepResult() *SweepResult {
	return &SweepResult{
		Synced:     []uuid.UUID{},
		Failed:     []uuid.UUID{},
		Skipped:    []uuid.UUID{},
		Unreadable: []string{},
	}
}

// ConnectivityState - состояние сети
type ConnectivityState string

const (
	Online  ConnectivityState = "online"
	Offline ConnectivityState = "offline"
)

// ConnectivityEvent - переход между online и offline
type ConnectivityEvent struct {
	State  ConnectivityState `json:"state"`
	Source string            `json:"source"`
	At     time.Time         `json:"at"`
}
