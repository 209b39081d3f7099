package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnknownKind indicates that the text does not name a transaction kind.
var ErrUnknownKind = errors.New("not a transaction")

// Kind is the closed set of transaction kinds.
type Kind int

// Transaction kinds.
const (
	KindExpense Kind = iota + 1
	KindTransfer
	KindIncome
)

// ParseKind matches s case-insensitively against the known kinds.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "expense":
		return KindExpense, nil
	case "transfer":
		return KindTransfer, nil
	case "income":
		return KindIncome, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// String returns the display tag of the kind.
func (k Kind) String() string {
	switch k {
	case KindExpense:
		return "Expense"
	case KindTransfer:
		return "Transfer"
	case KindIncome:
		return "Income"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Sign returns -1 for kinds that take money out of the balance and 1 otherwise.
func (k Kind) Sign() int64 {
	if k == KindExpense || k == KindTransfer {
		return -1
	}
	return 1
}

// MarshalText encodes the kind as its lower case name.
func (k Kind) MarshalText() ([]byte, error) {
	switch k {
	case KindExpense, KindTransfer, KindIncome:
		return []byte(strings.ToLower(k.String())), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(k))
	}
}

// UnmarshalText decodes the kind from its name.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}

	*k = parsed

	return nil
}

// Transaction is a single money movement recorded in the ledger.
//
// Amount holds the signed amount: the net effect on the balance.
type Transaction struct {
	Kind        Kind      `json:"kind"`
	Date        time.Time `json:"date"`
	Amount      Money     `json:"amount"`
	Category    string    `json:"category"`
	Destination string    `json:"destination"`
}

// NewTransaction applies the sign rule of the kind to the entered amount.
func NewTransaction(kind Kind, entered Money, date time.Time, category, destination string) Transaction {
	amount := entered
	if kind.Sign() < 0 {
		amount = entered.Neg()
	}

	return Transaction{
		Kind:        kind,
		Date:        date,
		Amount:      amount,
		Category:    category,
		Destination: destination,
	}
}

// Entered returns the amount as it was entered before the sign rule was applied.
func (t Transaction) Entered() Money {
	if t.Kind.Sign() < 0 {
		return t.Amount.Neg()
	}
	return t.Amount
}

// String renders the transaction for display.
func (t Transaction) String() string {
	return fmt.Sprintf("%s %s %s %s %s %s",
		t.Kind,
		t.Date.Format(time.RFC3339),
		t.Amount.Amount.String(),
		t.Amount.Currency,
		t.Category,
		t.Destination,
	)
}
