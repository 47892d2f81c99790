package outbox

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/workshop-financial-engine/internal/domain/ledger"
	"github.com/workshop-financial-engine/internal/domain/shared"
)

// EventEntryPosted is published once per journal entry written to the ledger
const EventEntryPosted = "journal_entry.posted"

// LedgerEvent is the payload published to the ledger event topic
type LedgerEvent struct {
	EventType string              `json:"event_type"`
	Entry     ledger.JournalEntry `json:"entry"`
}

// Message stores a ledger event in the same transaction as the entry it
// describes, so publishing can be retried until it succeeds
type Message struct {
	ID            int64               `json:"id"`
	EntryID       uuid.UUID           `json:"entry_id"`
	EntryNumber   string              `json:"entry_number"`
	EventType     string              `json:"event_type"`
	Payload       json.RawMessage     `json:"payload"`
	Status        shared.OutboxStatus `json:"status"`
	Attempts      int                 `json:"attempts"`
	CreatedAt     time.Time           `json:"created_at"`
	LastAttemptAt *time.Time          `json:"last_attempt_at,omitempty"`
}

// NewMessage builds a pending entry-posted message
func NewMessage(entry *ledger.JournalEntry) (*Message, error) {
	payload, err := json.Marshal(LedgerEvent{EventType: EventEntryPosted, Entry: *entry})
	if err != nil {
		return nil, err
	}

	return &Message{
		EntryID:     entry.ID,
		EntryNumber: entry.EntryNumber,
		EventType:   EventEntryPosted,
		Payload:     payload,
		Status:      shared.OutboxStatusPending,
		CreatedAt:   time.Now(),
	}, nil
}

func (m *Message) IncrementAttempts() {
	m.Attempts++
	now := time.Now()
	m.LastAttemptAt = &now
}

func (m *Message) MarkAsProcessed() {
	m.Status = shared.OutboxStatusProcessed
	now := time.Now()
	m.LastAttemptAt = &now
}

func (m *Message) MarkAsFailed() {
	m.Status = shared.OutboxStatusFailedToPublish
	now := time.Now()
	m.LastAttemptAt = &now
}

// Event decodes the ledger event from the payload
func (m *Message) Event() (*LedgerEvent, error) {
	var event LedgerEvent
	if err := json.Unmarshal(m.Payload, &event); err != nil {
		return nil, err
	}
	return &event, nil
}
