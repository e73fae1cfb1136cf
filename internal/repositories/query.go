package repositories

import (
	"database/sql"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/sbilibin2017/gw-expense-tracker/internal/logger"
)

// logQuery logs a statement on one line together with its arguments and outcome.
func logQuery(query string, args []any, result any, err error) {
	logger.Log.Infow("query",
		"query", strings.Join(strings.Fields(query), " "),
		"args", args,
		"result", result,
		"error", err,
	)
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

// likePattern escapes LIKE wildcards so s is matched as a plain substring.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}
