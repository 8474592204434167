package amqp

import (
	"encoding/json"
	"time"

	"gagyebu/internal/store"
)

// LedgerChanged announces one committed store write. It carries only the
// path and revision; consumers read the current state from the store.
type LedgerChanged struct {
	Path      string    `json:"path"`
	Revision  int64     `json:"revision"`
	Deleted   bool      `json:"deleted,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func NewLedgerChanged(c store.Change) *LedgerChanged {
	return &LedgerChanged{
		Path:      c.Path,
		Revision:  c.Revision,
		Deleted:   c.Deleted,
		Timestamp: time.Now(),
	}
}

// Change converts the message back to the store's notification type.
func (m *LedgerChanged) Change() store.Change {
	return store.Change{Path: m.Path, Revision: m.Revision, Deleted: m.Deleted}
}

func (m *LedgerChanged) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func LedgerChangedFromJSON(data []byte) (*LedgerChanged, error) {
	var msg LedgerChanged
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
