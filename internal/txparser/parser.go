// Package txparser converts command text into ledger transactions and back.
package txparser

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/currencypkg"
	"github.com/shopspring/decimal"
)

var (
	// ErrNotTransaction indicates that the first token is not a transaction kind.
	ErrNotTransaction = errors.New("not a transaction")
	// ErrMalformed indicates a transaction with a wrong shape, amount or currency code.
	ErrMalformed = errors.New("malformed transaction")
)

// fieldCount is the number of tokens in "<kind> <amount> <currency> <category> <destination>".
const fieldCount = 5

// Parser turns "<kind> <amount> <currency> <category> <destination>" into a transaction.
type Parser struct {
	now func() time.Time
}

// New returns parser stamping transactions with the given clock.
// A nil clock means time.Now.
func New(clock func() time.Time) *Parser {
	if clock == nil {
		clock = time.Now
	}

	return &Parser{now: clock}
}

// Parse returns the transaction described by input.
//
// Errors wrap ErrNotTransaction or ErrMalformed so that callers can skip the input.
func (p *Parser) Parse(input string) (domain.Transaction, error) {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return domain.Transaction{}, fmt.Errorf("%w: empty input", ErrMalformed)
	}

	kind, err := domain.ParseKind(fields[0])
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("%w: %q", ErrNotTransaction, fields[0])
	}

	if len(fields) != fieldCount {
		return domain.Transaction{}, fmt.Errorf("%w: want %d fields, got %d", ErrMalformed, fieldCount, len(fields))
	}

	amount, err := decimal.NewFromString(fields[1])
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("%w: amount %q", ErrMalformed, fields[1])
	}

	if !currencypkg.IsValidCode(fields[2]) {
		return domain.Transaction{}, fmt.Errorf("%w: currency %q", ErrMalformed, fields[2])
	}

	entered := domain.NewMoney(fields[2], amount)

	return domain.NewTransaction(kind, entered, p.now(), fields[3], fields[4]), nil
}

// Render returns the line Parse accepts for tx.
// The date is not part of the line.
func Render(tx domain.Transaction) string {
	entered := tx.Entered()

	return strings.Join([]string{
		strings.ToLower(tx.Kind.String()),
		entered.Amount.String(),
		entered.Currency,
		tx.Category,
		tx.Destination,
	}, " ")
}

// Representable reports whether Render(tx) parses back into tx.
func Representable(tx domain.Transaction) bool {
	if _, err := tx.Kind.MarshalText(); err != nil {
		return false
	}

	return currencypkg.IsValidCode(tx.Amount.Currency) &&
		isToken(tx.Amount.Currency) &&
		isToken(tx.Category) &&
		isToken(tx.Destination)
}

func isToken(s string) bool {
	return s != "" && len(strings.Fields(s)) == 1 && strings.TrimSpace(s) == s
}
