package amqp

import (
	"encoding/json"
	"time"
)

// TransferRecordedMessage announces that a confirmed transfer was written to
// the local ledger. Consumers fetch nothing: the message carries just enough
// for a delivery notification.
type TransferRecordedMessage struct {
	ID           int64     `json:"id"`
	TotalSpent   float64   `json:"totalSpent"`
	CurrencyCode string    `json:"currencyCode"`
	RecordedAt   time.Time `json:"recordedAt"`
}

func NewTransferRecordedMessage(id int64, totalSpent float64, currencyCode string) *TransferRecordedMessage {
	return &TransferRecordedMessage{
		ID:           id,
		TotalSpent:   totalSpent,
		CurrencyCode: currencyCode,
		RecordedAt:   time.Now(),
	}
}

func (m *TransferRecordedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func TransferRecordedMessageFromJSON(data []byte) (*TransferRecordedMessage, error) {
	var m TransferRecordedMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
