// Package validation normalizes client payloads and reports every violated
// field at once.
package validation

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	"github.com/sbilibin2017/gw-expense-tracker/internal/models"
)

// Field limits.
const (
	MaxDescriptionLength = 200
	MaxCategoryLength    = 50
	MaxNameLength        = 50
	MinPasswordLength    = 6
)

// Accepted transaction amounts, matching the NUMERIC(14,2) column.
var (
	MinAmount = decimal.New(1, -2)
	MaxAmount = decimal.RequireFromString("999999999999.99")
)

// AmountScale is the number of decimal places an amount may carry.
const AmountScale = 2

var (
	ErrDescriptionRequired = errors.New("description is required")
	ErrDescriptionTooLong  = errors.New("description cannot be more than 200 characters")
	ErrAmountRequired      = errors.New("amount is required")
	ErrAmountTooSmall      = errors.New("amount must be at least 0.01")
	ErrAmountTooLarge      = errors.New("amount cannot be more than 999999999999.99")
	ErrAmountScale         = errors.New("amount cannot have more than 2 decimal places")
	ErrCategoryRequired    = errors.New("category is required")
	ErrCategoryTooLong     = errors.New("category cannot be more than 50 characters")
	ErrTypeRequired        = errors.New("type is required")
	ErrTypeInvalid         = errors.New("type must be either income or expense")
	ErrOwnerRequired       = errors.New("user id is required")
	ErrDateInvalid         = errors.New("date must be an RFC3339 timestamp or a YYYY-MM-DD date")
	ErrNameRequired        = errors.New("name is required")
	ErrNameTooLong         = errors.New("name cannot be more than 50 characters")
	ErrEmailInvalid        = errors.New("email must be a valid address")
	ErrPasswordTooShort    = errors.New("password must be at least 6 characters")
	ErrStartDateInvalid    = errors.New("startDate must be an RFC3339 timestamp or a YYYY-MM-DD date")
	ErrEndDateInvalid      = errors.New("endDate must be an RFC3339 timestamp or a YYYY-MM-DD date")
	ErrDateRangeInverted   = errors.New("startDate must not be after endDate")
)

// Error carries one message per violated field.
type Error struct {
	Messages []string
}

func (e *Error) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

// fromMulti converts an accumulated multierr into *Error, or nil.
func fromMulti(err error) error {
	if err == nil {
		return nil
	}
	errs := multierr.Errors(err)
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Error())
	}
	return &Error{Messages: msgs}
}

// Transaction validates a create payload and returns the normalized record
// stamped with ownerID. Date defaults to now when absent.
func Transaction(in models.TransactionInput, ownerID uuid.UUID, now time.Time) (models.TransactionDB, error) {
	var (
		err error
		tx  = models.TransactionDB{UserID: ownerID, Date: now.UTC()}
	)

	if ownerID == uuid.Nil {
		err = multierr.Append(err, ErrOwnerRequired)
	}

	if in.Description == nil {
		err = multierr.Append(err, ErrDescriptionRequired)
	} else {
		desc, descErr := description(*in.Description)
		err = multierr.Append(err, descErr)
		tx.Description = desc
	}

	if in.Amount == nil {
		err = multierr.Append(err, ErrAmountRequired)
	} else {
		err = multierr.Append(err, amount(*in.Amount))
		tx.Amount = *in.Amount
	}

	if in.Category == nil {
		err = multierr.Append(err, ErrCategoryRequired)
	} else {
		cat, catErr := category(*in.Category)
		err = multierr.Append(err, catErr)
		tx.Category = cat
	}

	if in.Type == nil {
		err = multierr.Append(err, ErrTypeRequired)
	} else {
		err = multierr.Append(err, transactionType(*in.Type))
		tx.Type = *in.Type
	}

	if in.Date != nil {
		d, _, dateErr := ParseDate(*in.Date)
		if dateErr != nil {
			err = multierr.Append(err, ErrDateInvalid)
		} else {
			tx.Date = d
		}
	}

	if err != nil {
		return models.TransactionDB{}, fromMulti(err)
	}
	return tx, nil
}

// Patch validates the fields present in an update payload.
// Absent fields stay nil in the returned patch; ids are not parsed here.
func Patch(in models.TransactionInput) (models.TransactionPatch, error) {
	var (
		err   error
		patch models.TransactionPatch
	)

	if in.Description != nil {
		desc, descErr := description(*in.Description)
		err = multierr.Append(err, descErr)
		patch.Description = &desc
	}
	if in.Amount != nil {
		err = multierr.Append(err, amount(*in.Amount))
		a := *in.Amount
		patch.Amount = &a
	}
	if in.Category != nil {
		cat, catErr := category(*in.Category)
		err = multierr.Append(err, catErr)
		patch.Category = &cat
	}
	if in.Type != nil {
		err = multierr.Append(err, transactionType(*in.Type))
		t := *in.Type
		patch.Type = &t
	}
	if in.Date != nil {
		d, _, dateErr := ParseDate(*in.Date)
		if dateErr != nil {
			err = multierr.Append(err, ErrDateInvalid)
		} else {
			patch.Date = &d
		}
	}

	if err != nil {
		return models.TransactionPatch{}, fromMulti(err)
	}
	return patch, nil
}

// CategoryName trims and checks a category name.
func CategoryName(name string) (string, error) {
	name = strings.TrimSpace(name)
	var err error
	switch {
	case name == "":
		err = ErrNameRequired
	case utf8.RuneCountInString(name) > MaxCategoryLength:
		err = ErrNameTooLong
	}
	if err != nil {
		return "", fromMulti(err)
	}
	return name, nil
}

// Registration checks the sign-up fields and returns the trimmed name and email.
func Registration(name, email, password string) (string, string, error) {
	var err error

	name = strings.TrimSpace(name)
	switch {
	case name == "":
		err = multierr.Append(err, ErrNameRequired)
	case utf8.RuneCountInString(name) > MaxNameLength:
		err = multierr.Append(err, ErrNameTooLong)
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if !validEmail(email) {
		err = multierr.Append(err, ErrEmailInvalid)
	}

	if utf8.RuneCountInString(password) < MinPasswordLength {
		err = multierr.Append(err, ErrPasswordTooShort)
	}

	if err != nil {
		return "", "", fromMulti(err)
	}
	return name, email, nil
}

// IsTransactionType reports whether t is income or expense.
func IsTransactionType(t string) bool {
	return t == models.TransactionTypeIncome || t == models.TransactionTypeExpense
}

// ParseID parses a transaction id; malformed ids report false.
func ParseID(raw string) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// ParseDate accepts an RFC3339 timestamp or a YYYY-MM-DD date (UTC midnight).
// dateOnly reports which form was used.
func ParseDate(s string) (t time.Time, dateOnly bool, err error) {
	s = strings.TrimSpace(s)
	if t, err = time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), false, nil
	}
	if t, err = time.Parse(time.DateOnly, s); err == nil {
		return t.UTC(), true, nil
	}
	return time.Time{}, false, err
}

// DateRange parses optional query bounds. start is inclusive. A date-only end
// covers the whole day; a timestamp end is inclusive to the microsecond.
func DateRange(start, end string) (models.DateRange, error) {
	var (
		rng models.DateRange
		err error
	)

	if strings.TrimSpace(start) != "" {
		from, _, perr := ParseDate(start)
		if perr != nil {
			err = multierr.Append(err, ErrStartDateInvalid)
		} else {
			rng.From = &from
		}
	}

	if strings.TrimSpace(end) != "" {
		to, dateOnly, perr := ParseDate(end)
		if perr != nil {
			err = multierr.Append(err, ErrEndDateInvalid)
		} else {
			if dateOnly {
				to = to.AddDate(0, 0, 1)
			} else {
				to = to.Add(time.Microsecond)
			}
			rng.To = &to
		}
	}

	if err == nil && rng.From != nil && rng.To != nil && !rng.From.Before(*rng.To) {
		err = ErrDateRangeInverted
	}

	if err != nil {
		return models.DateRange{}, fromMulti(err)
	}
	return rng, nil
}

func description(s string) (string, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return s, ErrDescriptionRequired
	case utf8.RuneCountInString(s) > MaxDescriptionLength:
		return s, ErrDescriptionTooLong
	}
	return s, nil
}

func category(s string) (string, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return s, ErrCategoryRequired
	case utf8.RuneCountInString(s) > MaxCategoryLength:
		return s, ErrCategoryTooLong
	}
	return s, nil
}

func amount(a decimal.Decimal) error {
	switch {
	case a.LessThan(MinAmount):
		return ErrAmountTooSmall
	case a.GreaterThan(MaxAmount):
		return ErrAmountTooLarge
	case !a.Equal(a.Truncate(AmountScale)):
		return ErrAmountScale
	}
	return nil
}

func transactionType(t string) error {
	if !IsTransactionType(t) {
		return ErrTypeInvalid
	}
	return nil
}

func validEmail(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 1 || at == len(email)-1 || strings.ContainsAny(email, " \t\n") {
		return false
	}
	return strings.Contains(email[at+1:], ".")
}
