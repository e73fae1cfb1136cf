package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/errgroup"

	"github.com/sbilibin2017/gw-expense-tracker/internal/models"
)

const transactionColumns = `transaction_id, user_id, description, amount, category, type, date, is_synced, created_at, updated_at`

// DefaultInsertConcurrency bounds the number of parallel inserts in InsertMany.
const DefaultInsertConcurrency = 8

// TransactionWriteRepository handles transaction write operations
type TransactionWriteRepository struct {
	db          *sqlx.DB
	concurrency int
}

// NewTransactionWriteRepository creates a write repository. concurrency <= 0 uses DefaultInsertConcurrency.
func NewTransactionWriteRepository(db *sqlx.DB, concurrency int) *TransactionWriteRepository {
	if concurrency <= 0 {
		concurrency = DefaultInsertConcurrency
	}
	return &TransactionWriteRepository{db: db, concurrency: concurrency}
}

// Create inserts a single transaction and returns the stored row.
func (r *TransactionWriteRepository) Create(ctx context.Context, tx models.TransactionDB) (*models.TransactionDB, error) {
	return r.insert(ctx, tx)
}

func (r *TransactionWriteRepository) insert(ctx context.Context, tx models.TransactionDB) (*models.TransactionDB, error) {
	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING ` + transactionColumns

	args := []any{tx.TransactionID, tx.UserID, tx.Description, tx.Amount, tx.Category, tx.Type, tx.Date, tx.IsSynced}

	var created models.TransactionDB
	err := r.db.GetContext(ctx, &created, query, args...)

	logQuery(query, args, created.TransactionID, err)

	if err != nil {
		return nil, err
	}
	return &created, nil
}

// InsertMany inserts the elements as an unordered batch: each element is an
// independent statement, so one failure never aborts its siblings.
func (r *TransactionWriteRepository) InsertMany(ctx context.Context, items []models.IndexedTransaction) models.BulkInsertResult {
	created := make([]*models.TransactionDB, len(items))
	errs := make([]error, len(items))

	var g errgroup.Group
	g.SetLimit(r.concurrency)
	for i, item := range items {
		g.Go(func() error {
			created[i], errs[i] = r.insert(ctx, item.Transaction)
			return nil
		})
	}
	_ = g.Wait()

	res := models.BulkInsertResult{Outcome: models.BulkOK}
	var infraErr error
	for i, item := range items {
		if errs[i] == nil {
			res.Inserted = append(res.Inserted, *created[i])
			continue
		}
		if !isElementError(errs[i]) && infraErr == nil {
			infraErr = errs[i]
		}
		res.Failures = append(res.Failures, models.BulkFailure{Index: item.Index, Error: failureReason(errs[i], "failed to insert transaction")})
	}

	switch {
	case len(res.Failures) == 0:
	case len(res.Inserted) == 0 && infraErr != nil:
		res.Outcome = models.BulkFailed
		res.Err = infraErr
	default:
		res.Outcome = models.BulkPartial
	}
	return res
}

// Update applies a patch to the owner's transaction and returns the stored row.
// It returns sql.ErrNoRows when the id does not belong to the owner.
func (r *TransactionWriteRepository) Update(ctx context.Context, userID uuid.UUID, patch models.TransactionPatch) (*models.TransactionDB, error) {
	query := `
		UPDATE transactions SET
			description = COALESCE($3, description),
			amount      = COALESCE($4, amount),
			category    = COALESCE($5, category),
			type        = COALESCE($6, type),
			date        = COALESCE($7, date),
			updated_at  = NOW()
		WHERE transaction_id = $1 AND user_id = $2
		RETURNING ` + transactionColumns

	args := patchArgs(userID, patch)

	var updated models.TransactionDB
	err := r.db.GetContext(ctx, &updated, query, args...)

	logQuery(query, args, updated.TransactionID, err)

	if err != nil {
		return nil, err
	}
	return &updated, nil
}

const syncPatchQuery = `
	WITH target AS (
		SELECT transaction_id FROM transactions
		WHERE transaction_id = $1 AND user_id = $2
	), updated AS (
		UPDATE transactions t SET
			description = COALESCE($3, t.description),
			amount      = COALESCE($4, t.amount),
			category    = COALESCE($5, t.category),
			type        = COALESCE($6, t.type),
			date        = COALESCE($7, t.date),
			is_synced   = TRUE,
			updated_at  = NOW()
		FROM target
		WHERE t.transaction_id = target.transaction_id
		  AND (t.description, t.amount, t.category, t.type, t.date, t.is_synced)
		      IS DISTINCT FROM
		      (COALESCE($3, t.description), COALESCE($4, t.amount), COALESCE($5, t.category),
		       COALESCE($6, t.type), COALESCE($7, t.date), TRUE)
		RETURNING t.transaction_id
	)
	SELECT (SELECT COUNT(*) FROM target) AS matched, (SELECT COUNT(*) FROM updated) AS modified
`

// BulkUpdate patches each element matched by (id, owner) and forces is_synced.
// Every element is attempted; ids owned by someone else simply do not match.
func (r *TransactionWriteRepository) BulkUpdate(ctx context.Context, userID uuid.UUID, items []models.IndexedPatch) models.BulkUpdateResult {
	res := models.BulkUpdateResult{Outcome: models.BulkOK}
	var infraErr error

	for _, item := range items {
		args := patchArgs(userID, item.Patch)

		var counts models.UpdateCounts
		err := r.db.GetContext(ctx, &counts, syncPatchQuery, args...)

		logQuery(syncPatchQuery, args, counts, err)

		if err != nil {
			if !isElementError(err) && infraErr == nil {
				infraErr = err
			}
			res.Failures = append(res.Failures, models.BulkFailure{Index: item.Index, Error: failureReason(err, "failed to update transaction")})
			continue
		}
		res.MatchedCount += counts.MatchedCount
		res.ModifiedCount += counts.ModifiedCount
	}

	switch {
	case len(res.Failures) == 0:
	case len(res.Failures) == len(items) && infraErr != nil:
		res.Outcome = models.BulkFailed
		res.Err = infraErr
	default:
		res.Outcome = models.BulkPartial
	}
	return res
}

// MarkSynced sets is_synced on the owner's transactions among ids.
func (r *TransactionWriteRepository) MarkSynced(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (models.UpdateCounts, error) {
	const base = `
		WITH target AS (
			SELECT transaction_id, is_synced FROM transactions
			WHERE user_id = ? AND transaction_id IN (?)
		), updated AS (
			UPDATE transactions t SET is_synced = TRUE, updated_at = NOW()
			FROM target
			WHERE t.transaction_id = target.transaction_id AND NOT target.is_synced
			RETURNING t.transaction_id
		)
		SELECT (SELECT COUNT(*) FROM target) AS matched, (SELECT COUNT(*) FROM updated) AS modified
	`

	var counts models.UpdateCounts
	query, args, err := sqlx.In(base, userID, models.UUIDStrings(ids))
	if err != nil {
		return counts, err
	}
	query = r.db.Rebind(query)

	err = r.db.GetContext(ctx, &counts, query, args...)

	logQuery(query, args, counts, err)

	return counts, err
}

// Delete removes the owner's transaction. It returns sql.ErrNoRows when nothing matched.
func (r *TransactionWriteRepository) Delete(ctx context.Context, userID, transactionID uuid.UUID) error {
	const query = `DELETE FROM transactions WHERE transaction_id = $1 AND user_id = $2`
	args := []any{transactionID, userID}

	res, err := r.db.ExecContext(ctx, query, args...)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logQuery(query, args, rowsAffected, err)

	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func patchArgs(userID uuid.UUID, p models.TransactionPatch) []any {
	var date sql.NullTime
	if p.Date != nil {
		date = sql.NullTime{Time: *p.Date, Valid: true}
	}
	return []any{
		p.TransactionID,
		userID,
		nullString(p.Description),
		nullDecimal(p.Amount),
		nullString(p.Category),
		nullString(p.Type),
		date,
	}
}

// isElementError reports whether err was raised by the database for this
// element's data (constraint, cast) rather than by the connection.
func isElementError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr)
}

func failureReason(err error, fallback string) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Message
	}
	return fallback
}

// TransactionReadRepository handles transaction read operations
type TransactionReadRepository struct {
	db *sqlx.DB
}

func NewTransactionReadRepository(db *sqlx.DB) *TransactionReadRepository {
	return &TransactionReadRepository{db: db}
}

// GetByID returns the owner's transaction or sql.ErrNoRows.
func (r *TransactionReadRepository) GetByID(ctx context.Context, userID, transactionID uuid.UUID) (*models.TransactionDB, error) {
	const query = `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1 AND user_id = $2`
	args := []any{transactionID, userID}

	var tx models.TransactionDB
	err := r.db.GetContext(ctx, &tx, query, args...)

	logQuery(query, args, tx.TransactionID, err)

	if err != nil {
		return nil, err
	}
	return &tx, nil
}

// List returns one page of the owner's transactions, newest date first, and the total match count.
func (r *TransactionReadRepository) List(ctx context.Context, userID uuid.UUID, filter models.TransactionFilter) ([]models.TransactionDB, int64, error) {
	where, args := filterClause(userID, filter)

	countQuery := `SELECT COUNT(*) FROM transactions WHERE ` + where
	var total int64
	err := r.db.GetContext(ctx, &total, countQuery, args...)

	logQuery(countQuery, args, total, err)

	if err != nil {
		return nil, 0, err
	}

	listQuery := fmt.Sprintf(`SELECT %s FROM transactions WHERE %s ORDER BY date DESC, created_at DESC LIMIT %d OFFSET %d`,
		transactionColumns, where, filter.Limit, filter.Offset())

	txs := []models.TransactionDB{}
	err = r.db.SelectContext(ctx, &txs, listQuery, args...)

	logQuery(listQuery, args, len(txs), err)

	if err != nil {
		return nil, 0, err
	}
	return txs, total, nil
}

// ListUnsynced returns the owner's unsynced transactions, most recently created first.
func (r *TransactionReadRepository) ListUnsynced(ctx context.Context, userID uuid.UUID) ([]models.TransactionDB, error) {
	const query = `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1 AND is_synced = FALSE
		ORDER BY created_at DESC
	`
	args := []any{userID}

	txs := []models.TransactionDB{}
	err := r.db.SelectContext(ctx, &txs, query, args...)

	logQuery(query, args, len(txs), err)

	if err != nil {
		return nil, err
	}
	return txs, nil
}

// Count counts the owner's transactions; synced narrows by sync flag when not nil.
func (r *TransactionReadRepository) Count(ctx context.Context, userID uuid.UUID, synced *bool) (int64, error) {
	query := `SELECT COUNT(*) FROM transactions WHERE user_id = $1`
	args := []any{userID}
	if synced != nil {
		query += ` AND is_synced = $2`
		args = append(args, *synced)
	}

	var count int64
	err := r.db.GetContext(ctx, &count, query, args...)

	logQuery(query, args, count, err)

	return count, err
}

// filterClause builds the WHERE clause shared by List's count and page queries.
func filterClause(userID uuid.UUID, filter models.TransactionFilter) (string, []any) {
	conds := []string{"user_id = $1"}
	args := []any{userID}

	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.Type != "" {
		add("type = $%d", filter.Type)
	}
	if filter.Category != "" {
		add(`category ILIKE $%d ESCAPE '\'`, likePattern(filter.Category))
	}
	conds, args = rangeConds(conds, args, filter.Range)

	return strings.Join(conds, " AND "), args
}

// rangeConds appends date bounds for rng to the conditions.
func rangeConds(conds []string, args []any, rng models.DateRange) ([]string, []any) {
	for _, b := range []struct {
		op string
		t  *time.Time
	}{{">=", rng.From}, {"<", rng.To}} {
		if b.t == nil {
			continue
		}
		args = append(args, *b.t)
		conds = append(conds, fmt.Sprintf("date %s $%d", b.op, len(args)))
	}
	return conds, args
}
