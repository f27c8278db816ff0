package amqp

import (
	"encoding/json"
	"time"
)

// Event kinds carried on the billing queue
const (
	KindAdjustmentApplied = "adjustment_applied"
	KindRenewalAdvanced   = "renewal_advanced"
)

// BillingEventMessage is a lightweight notification; consumers fetch the
// full records from the database using the carried IDs.
type BillingEventMessage struct {
	Kind         string    `json:"kind"`
	ContractID   string    `json:"contract_id"`
	AdjustmentID int64     `json:"adjustment_id,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// NewAdjustmentAppliedMessage builds the event published after a plan
// change was recorded.
func NewAdjustmentAppliedMessage(contractID string, adjustmentID int64) *BillingEventMessage {
	return &BillingEventMessage{
		Kind:         KindAdjustmentApplied,
		ContractID:   contractID,
		AdjustmentID: adjustmentID,
		Timestamp:    time.Now(),
	}
}

// NewRenewalAdvancedMessage builds the event published when the renewal
// processor moves a contract's renewal anchor forward.
func NewRenewalAdvancedMessage(contractID string) *BillingEventMessage {
	return &BillingEventMessage{
		Kind:       KindRenewalAdvanced,
		ContractID: contractID,
		Timestamp:  time.Now(),
	}
}

func (m *BillingEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func BillingEventMessageFromJSON(data []byte) (*BillingEventMessage, error) {
	var msg BillingEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
