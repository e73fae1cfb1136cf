package models

// Transaction event names published to Kafka.
const (
	EventTransactionCreated = "transaction.created"
	EventTransactionUpdated = "transaction.updated"
	EventTransactionDeleted = "transaction.deleted"
	EventSyncBulkCreated    = "sync.bulk_created"
	EventSyncBulkUpdated    = "sync.bulk_updated"
	EventSyncMarkedSynced   = "sync.marked_synced"
)

// TransactionEvent describes a change to an owner's transactions.
type TransactionEvent struct {
	EventID        string   `json:"event_id"`        // EventID is a unique identifier for the event.
	Event          string   `json:"event"`           // Event is one of the Event* names.
	UserID         string   `json:"user_id"`         // UserID is the owner whose transactions changed.
	TransactionIDs []string `json:"transaction_ids"` // TransactionIDs lists the affected records, when known.
	Count          int64    `json:"count"`           // Count is the number of affected records.
	Timestamp      int64    `json:"timestamp"`       // Timestamp is the Unix time (seconds) of the change.
}
