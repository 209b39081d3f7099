// Package converter converts money between currencies using a rate table
// fetched once at startup.
package converter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/currencypkg"
	"github.com/rs/zerolog"
)

var (
	// ErrInitialization indicates that the rate table could not be obtained.
	ErrInitialization = errors.New("cannot initialize currency converter")
	// ErrNotInitialized indicates use of a converter without a rate table.
	ErrNotInitialized = errors.New("currency converter is not initialized")
)

// RateSource provides the rate table.
//
//go:generate mockgen -source converter.go -destination converter_mock.go -package converter
type RateSource interface {
	Fetch(ctx context.Context) (domain.RateTable, error)
}

// Converter converts amounts using rates relative to the base currency.
// The zero value is not initialized and refuses to convert.
type Converter struct {
	rates domain.RateTable
}

// Load fetches the rate table once. Exceeding the timeout counts as a failed fetch.
func Load(ctx context.Context, src RateSource, timeout time.Duration) (*Converter, error) {
	l := zerolog.Ctx(ctx)

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	rates, err := src.Fetch(ctx)
	if err != nil {
		l.Error().Err(err).Msg("cannot fetch exchange rates")
		return nil, fmt.Errorf("%w: %v", ErrInitialization, err)
	}

	c, err := New(rates)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, err
	}

	l.Info().Int("currencies", len(rates.Rates)).Str("base", rates.Base).Msg("exchange rates loaded")

	return c, nil
}

// New returns converter for an already obtained rate table.
func New(rates domain.RateTable) (*Converter, error) {
	if rates.Base != currencypkg.Base {
		return nil, fmt.Errorf("%w: base currency %q, want %q", ErrInitialization, rates.Base, currencypkg.Base)
	}

	if len(rates.Rates) == 0 {
		return nil, fmt.Errorf("%w: empty rate table", ErrInitialization)
	}

	return &Converter{rates: rates}, nil
}

// Convert returns the amount expressed in the target currency.
func (c *Converter) Convert(m domain.Money, target string) (domain.Money, error) {
	if c == nil || c.rates.Base == "" {
		return domain.Money{}, ErrNotInitialized
	}

	target = currencypkg.Normalize(target)

	oldRate, err := c.rates.Rate(m.Currency)
	if err != nil {
		return domain.Money{}, err
	}

	newRate, err := c.rates.Rate(target)
	if err != nil {
		return domain.Money{}, err
	}

	k := newRate.Div(oldRate)

	return domain.NewMoney(target, m.Amount.Mul(k)), nil
}
