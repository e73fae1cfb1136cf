package models

import (
	"time"

	"github.com/google/uuid"
)

// BulkOutcome tags the result of a batch write.
type BulkOutcome int

const (
	// BulkOK means every element was written.
	BulkOK BulkOutcome = iota
	// BulkPartial means at least one element failed and the rest were attempted.
	BulkPartial
	// BulkFailed means the batch could not be written at all.
	BulkFailed
)

func (o BulkOutcome) String() string {
	switch o {
	case BulkOK:
		return "ok"
	case BulkPartial:
		return "partial"
	default:
		return "failed"
	}
}

// BulkFailure describes one rejected element of a batch
// swagger:model BulkFailure
type BulkFailure struct {
	// Position of the element in the submitted batch
	// example: 1
	Index int `json:"index"`

	// Reason the element was rejected
	// example: description is required
	Error string `json:"error"`
}

// IndexedTransaction is a validated batch element with its position in the batch.
type IndexedTransaction struct {
	Index       int
	Transaction TransactionDB
}

// IndexedPatch is a validated update element with its position in the batch.
type IndexedPatch struct {
	Index int
	Patch TransactionPatch
}

// BulkInsertResult is the tagged outcome of an unordered bulk insert.
type BulkInsertResult struct {
	Outcome  BulkOutcome
	Inserted []TransactionDB
	Failures []BulkFailure
	Err      error
}

// BulkUpdateResult is the tagged outcome of a bulk update.
type BulkUpdateResult struct {
	Outcome       BulkOutcome
	MatchedCount  int64
	ModifiedCount int64
	Failures      []BulkFailure
	Err           error
}

// UpdateCounts reports how many rows an update matched and changed
// swagger:model UpdateCounts
type UpdateCounts struct {
	MatchedCount  int64 `json:"matchedCount" db:"matched"`
	ModifiedCount int64 `json:"modifiedCount" db:"modified"`
}

// SyncStatus summarizes the sync state of an owner's transactions
// swagger:model SyncStatus
type SyncStatus struct {
	TotalTransactions    int64     `json:"totalTransactions"`
	SyncedTransactions   int64     `json:"syncedTransactions"`
	UnsyncedTransactions int64     `json:"unsyncedTransactions"`
	SyncPercentage       float64   `json:"syncPercentage"`
	LastSyncAt           time.Time `json:"lastSyncAt"`
}

// BulkCreateReport is returned by a bulk create.
type BulkCreateReport struct {
	Inserted []TransactionDB
	Failures []BulkFailure
}

// Partial reports whether any element failed.
func (r BulkCreateReport) Partial() bool { return len(r.Failures) > 0 }

// BulkUpdateReport is returned by a bulk update.
type BulkUpdateReport struct {
	UpdateCounts
	Failures []BulkFailure
}

// Partial reports whether any element failed.
func (r BulkUpdateReport) Partial() bool { return len(r.Failures) > 0 }

// TransactionIDs collects the ids of the given transactions as strings.
func TransactionIDs(txs []TransactionDB) []string {
	ids := make([]string, 0, len(txs))
	for _, tx := range txs {
		ids = append(ids, tx.TransactionID.String())
	}
	return ids
}

// UUIDStrings converts ids to their string form.
func UUIDStrings(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}
