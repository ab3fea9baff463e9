package amqp

import (
	"encoding/json"
	"time"
)

// Sync operations carried on the queue.
const (
	OpAppend = "append"
	OpDelete = "delete"
)

// SyncMessage asks the worker to mirror one ledger entry to the sheet.
// It carries only the ID and version; the worker fetches the full row
// from the local store.
type SyncMessage struct {
	Op        string    `json:"op"`
	ID        int64     `json:"id"`
	Version   int64     `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

func NewSyncMessage(op string, id, version int64) *SyncMessage {
	return &SyncMessage{
		Op:        op,
		ID:        id,
		Version:   version,
		Timestamp: time.Now(),
	}
}

func (m *SyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func SyncMessageFromJSON(data []byte) (*SyncMessage, error) {
	var msg SyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
