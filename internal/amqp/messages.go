package amqp

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ExportRequestMessage asks a worker to generate and write one period report.
// The worker reloads the state itself, so only the selection travels.
type ExportRequestMessage struct {
	ProfileID   string    `json:"profileId"`
	Period      string    `json:"period"`
	Year        int       `json:"year"`
	Month       int       `json:"month"`
	Start       string    `json:"start,omitempty"`
	End         string    `json:"end,omitempty"`
	RequestedAt time.Time `json:"requestedAt"`
}

// NewExportRequestMessage stamps a request with the current time.
func NewExportRequestMessage(profileID, period string, year, month int) *ExportRequestMessage {
	return &ExportRequestMessage{
		ProfileID:   profileID,
		Period:      period,
		Year:        year,
		Month:       month,
		RequestedAt: time.Now().UTC(),
	}
}

// Validate checks the fields every request needs.
func (m *ExportRequestMessage) Validate() error {
	if m.ProfileID == "" {
		return errors.New("missing profileId")
	}
	if m.Period == "" {
		return errors.New("missing period")
	}
	if m.Period == "custom" {
		if m.Start == "" || m.End == "" {
			return errors.New("custom period needs start and end")
		}
		return nil
	}
	if m.Month < 1 || m.Month > 12 {
		return fmt.Errorf("invalid month %d", m.Month)
	}
	return nil
}

// ToJSON converts the message to JSON bytes
func (m *ExportRequestMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ExportRequestMessageFromJSON decodes and validates a message body.
func ExportRequestMessageFromJSON(data []byte) (*ExportRequestMessage, error) {
	var msg ExportRequestMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return &msg, nil
}
