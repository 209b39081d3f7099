// Package budgetservice manages business logic layer of the ledger.
package budgetservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/currencypkg"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// ErrParse indicates input that is not a well-formed transaction.
var ErrParse = errors.New("cannot parse transaction")

// Repo provides data access layer interface needed by budget service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package budgetservice
type Repo interface {
	Append(ctx context.Context, tx domain.Transaction) error
	List(ctx context.Context) ([]domain.Transaction, error)
}

// Parser turns command text into a transaction.
type Parser interface {
	Parse(input string) (domain.Transaction, error)
}

// Converter converts money between currencies.
type Converter interface {
	Convert(m domain.Money, target string) (domain.Money, error)
}

// Service facilitates budget service layer logic.
type Service struct {
	repo      Repo
	parser    Parser
	converter Converter
	opening   decimal.Decimal
}

// New returns budget service holding the opening balance expressed in the base currency.
func New(r Repo, p Parser, c Converter, opening decimal.Decimal) *Service {
	return &Service{
		repo:      r,
		parser:    p,
		converter: c,
		opening:   opening,
	}
}

// OpeningBalance returns the opening balance in the base currency.
func (s *Service) OpeningBalance() domain.Money {
	return domain.NewMoney(currencypkg.Base, s.opening)
}

// AddTransaction appends the transaction to the ledger. No transaction is rejected for lack of funds.
func (s *Service) AddTransaction(ctx context.Context, tx domain.Transaction) error {
	return s.repo.Append(ctx, tx)
}

// AddRaw parses the input and appends the resulting transaction.
//
// Input that does not parse returns an error wrapping ErrParse and leaves the ledger untouched.
func (s *Service) AddRaw(ctx context.Context, input string) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	tx, err := s.parser.Parse(input)
	if err != nil {
		l.Info().Err(err).Str("input", input).Msg("input skipped")
		return domain.Transaction{}, fmt.Errorf("%w: %v", ErrParse, err)
	}

	if err := s.repo.Append(ctx, tx); err != nil {
		return domain.Transaction{}, err
	}

	return tx, nil
}

// List returns all transactions in insertion order.
func (s *Service) List(ctx context.Context) ([]domain.Transaction, error) {
	return s.repo.List(ctx)
}

// Balance returns the opening balance plus every transaction, converted into the currency.
//
// Sums keep full precision; rounding is left to presentation.
func (s *Service) Balance(ctx context.Context, currency string) (domain.Money, error) {
	l := zerolog.Ctx(ctx)

	currency = currencypkg.Normalize(currency)
	if !currencypkg.IsValidCode(currency) {
		return domain.Money{}, fmt.Errorf("%w: %q", domain.ErrUnsupportedCurrency, currency)
	}

	opening, err := s.convert(s.OpeningBalance(), currency)
	if err != nil {
		l.Info().Err(err).Send()
		return domain.Money{}, err
	}

	txs, err := s.repo.List(ctx)
	if err != nil {
		return domain.Money{}, err
	}

	total := domain.Zero(currency)

	for _, tx := range txs {
		amount, err := s.convert(tx.Amount, currency)
		if err != nil {
			l.Info().Err(err).Stringer("transaction", tx).Send()
			return domain.Money{}, err
		}

		if total, err = total.Add(amount); err != nil {
			l.Error().Err(err).Send()
			return domain.Money{}, err
		}
	}

	return opening.Add(total)
}

func (s *Service) convert(m domain.Money, currency string) (domain.Money, error) {
	if m.Currency == currency {
		return m, nil
	}

	return s.converter.Convert(m, currency)
}
