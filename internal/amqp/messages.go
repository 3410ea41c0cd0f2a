package amqp

import (
	"encoding/json"
	"time"
)

// ExportMessage tells the export worker which record to push to the sheet.
// It carries only the row ID; the worker fetches the full record from the
// database so the message never goes stale.
type ExportMessage struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewExportMessage(id int64) *ExportMessage {
	return &ExportMessage{
		ID:        id,
		Timestamp: time.Now(),
	}
}

func (m *ExportMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ExportMessageFromJSON(data []byte) (*ExportMessage, error) {
	var msg ExportMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
