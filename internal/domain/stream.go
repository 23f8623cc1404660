package domain

import (
	"time"

	"github.com/google/uuid"
)

// Stream names
const (
	StreamBurnSynced   = "stream:burn:synced"
	StreamConnectivity = "stream:connectivity"
)

// OperationSyncedEvent - запись принята удалённым хранилищем
type OperationSyncedEvent struct {
	OperationID uuid.UUID `json:"operation_id"`
	OwnerID     string    `json:"owner_id"`
	Name        string    `json:"name"`
	CreatedAt   time.Time `json:"created_at"`
	SyncedAt    time.Time `json:"synced_at"`
}

// ConnectivityReportEvent - устройство сообщает о смене состояния сети
type ConnectivityReportEvent struct {
	State      ConnectivityState `json:"state"`
	DeviceID   string            `json:"device_id,omitempty"`
	ReportedAt time.Time         `json:"reported_at"`
}

// IsOnline проверяет, что устройство сообщило о подключении
func (e *ConnectivityReportEvent) IsOnline() bool {
	return e.State == Online
}

// Validate отбрасывает события с неизвестным состоянием
func (e *ConnectivityReportEvent) Validate() bool {
	return e.State == Online || e.State == Offline
}

// StreamMessage - сообщение из Redis Stream
type StreamMessage struct {
	ID   string
	Data string
}
