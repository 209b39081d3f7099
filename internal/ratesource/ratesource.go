// Package ratesource provides exchange rate tables for the currency converter.
package ratesource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/currencypkg"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var (
	// ErrUnsuccessful indicates a rate document reporting failure.
	ErrUnsuccessful = errors.New("rate service reported failure")
	// ErrBadDocument indicates a rate document that cannot be used.
	ErrBadDocument = errors.New("bad rate document")
)

// maxDocumentSize bounds the rate document read from the network.
const maxDocumentSize = 1 << 20

// document is the rate service response.
type document struct {
	Success bool                       `json:"success"`
	Base    string                     `json:"base"`
	Rates   map[string]decimal.Decimal `json:"rates"`
	Error   *struct {
		Code int    `json:"code"`
		Type string `json:"type"`
		Info string `json:"info"`
	} `json:"error,omitempty"`
}

// DecodeOptions controls how a rate document is accepted.
type DecodeOptions struct {
	// Base is the base currency the document must be expressed in.
	Base string
	// IgnoreSuccessFlag accepts documents that omit the success flag.
	IgnoreSuccessFlag bool
}

// DefaultDecodeOptions returns options for documents expressed in the ledger base currency.
func DefaultDecodeOptions() DecodeOptions {
	return DecodeOptions{Base: currencypkg.Base}
}

// Decode reads a rate document.
func Decode(r io.Reader, opts DecodeOptions) (domain.RateTable, error) {
	var doc document

	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return domain.RateTable{}, fmt.Errorf("%w: %v", ErrBadDocument, err)
	}

	if !doc.Success && !opts.IgnoreSuccessFlag {
		if doc.Error != nil {
			return domain.RateTable{}, fmt.Errorf("%w: %d %s", ErrUnsuccessful, doc.Error.Code, doc.Error.Type)
		}
		return domain.RateTable{}, ErrUnsuccessful
	}

	base := currencypkg.Normalize(doc.Base)
	if base == "" {
		base = opts.Base
	}

	if base != currencypkg.Normalize(opts.Base) {
		return domain.RateTable{}, fmt.Errorf("%w: base %q, want %q", ErrBadDocument, doc.Base, opts.Base)
	}

	rates := make(map[string]decimal.Decimal, len(doc.Rates))

	for code, rate := range doc.Rates {
		if !rate.IsPositive() {
			return domain.RateTable{}, fmt.Errorf("%w: rate %s for %s", ErrBadDocument, rate, code)
		}

		rates[currencypkg.Normalize(code)] = rate
	}

	return domain.RateTable{Base: base, Rates: rates}, nil
}

// HTTPSource fetches the rate document from a rate service.
type HTTPSource struct {
	client    *http.Client
	url       string
	accessKey string
	opts      DecodeOptions
}

// NewHTTPSource returns HTTPSource for the endpoint. A nil client means http.DefaultClient.
func NewHTTPSource(client *http.Client, endpoint, accessKey string, opts DecodeOptions) *HTTPSource {
	if client == nil {
		client = http.DefaultClient
	}

	return &HTTPSource{
		client:    client,
		url:       endpoint,
		accessKey: accessKey,
		opts:      opts,
	}
}

// Fetch requests and decodes the rate document.
func (s *HTTPSource) Fetch(ctx context.Context) (domain.RateTable, error) {
	l := zerolog.Ctx(ctx)

	u, err := url.Parse(s.url)
	if err != nil {
		return domain.RateTable{}, err
	}

	if s.accessKey != "" {
		q := u.Query()
		q.Set("access_key", s.accessKey)
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return domain.RateTable{}, err
	}

	req.Header.Set("Accept", "application/json")

	res, err := s.client.Do(req)
	if err != nil {
		return domain.RateTable{}, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return domain.RateTable{}, fmt.Errorf("%w: status %s", ErrUnsuccessful, res.Status)
	}

	rates, err := Decode(io.LimitReader(res.Body, maxDocumentSize), s.opts)
	if err != nil {
		return domain.RateTable{}, err
	}

	l.Debug().Str("url", s.url).Int("currencies", len(rates.Rates)).Msg("rate document fetched")

	return rates, nil
}

// StaticSource serves a fixed rate table.
type StaticSource struct {
	rates domain.RateTable
}

// NewStaticSource returns StaticSource serving rates.
func NewStaticSource(rates domain.RateTable) StaticSource {
	return StaticSource{rates: rates}
}

// ParseStatic reads rates written as "RUB=90,USD=1.1" relative to the base currency.
func ParseStatic(s string) (StaticSource, error) {
	rates := make(map[string]decimal.Decimal)

	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}

		code, value, ok := strings.Cut(pair, "=")
		if !ok || !currencypkg.IsValidCode(code) {
			return StaticSource{}, fmt.Errorf("%w: %q", ErrBadDocument, pair)
		}

		rate, err := decimal.NewFromString(strings.TrimSpace(value))
		if err != nil || !rate.IsPositive() {
			return StaticSource{}, fmt.Errorf("%w: %q", ErrBadDocument, pair)
		}

		rates[currencypkg.Normalize(code)] = rate
	}

	return NewStaticSource(domain.RateTable{Base: currencypkg.Base, Rates: rates}), nil
}

// Fetch returns a copy of the fixed table.
func (s StaticSource) Fetch(ctx context.Context) (domain.RateTable, error) {
	rates := make(map[string]decimal.Decimal, len(s.rates.Rates))
	for code, rate := range s.rates.Rates {
		rates[code] = rate
	}

	return domain.RateTable{Base: s.rates.Base, Rates: rates}, nil
}
