package txparser

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/currencypkg"
	"github.com/go-petr/pet-ledger/pkg/randompkg"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

var fixedNow = time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func TestParse(t *testing.T) {
	t.Parallel()

	p := New(fixedClock)

	testCases := []struct {
		name    string
		input   string
		want    domain.Transaction
		wantErr error
	}{
		{
			name:  "Expense",
			input: "expense 300 rub coffee shop0011",
			want: domain.Transaction{
				Kind:        domain.KindExpense,
				Date:        fixedNow,
				Amount:      domain.NewMoney(currencypkg.RUB, decimal.NewFromInt(-300)),
				Category:    "coffee",
				Destination: "shop0011",
			},
		},
		{
			name:  "TransferMixedCaseExtraSpaces",
			input: "  TRANSFER   12.50  Usd savings   bank ",
			want: domain.Transaction{
				Kind:        domain.KindTransfer,
				Date:        fixedNow,
				Amount:      domain.NewMoney(currencypkg.USD, decimal.RequireFromString("-12.5")),
				Category:    "savings",
				Destination: "bank",
			},
		},
		{
			name:  "Income",
			input: "income 1000 eur salary work",
			want: domain.Transaction{
				Kind:        domain.KindIncome,
				Date:        fixedNow,
				Amount:      domain.NewMoney(currencypkg.EUR, decimal.NewFromInt(1000)),
				Category:    "salary",
				Destination: "work",
			},
		},
		{
			name:    "UnknownKind",
			input:   "refund 10 eur shop store",
			wantErr: ErrNotTransaction,
		},
		{
			name:    "Command",
			input:   "list",
			wantErr: ErrNotTransaction,
		},
		{
			name:    "Empty",
			input:   "   ",
			wantErr: ErrMalformed,
		},
		{
			name:    "TooFewFields",
			input:   "expense 10 eur coffee",
			wantErr: ErrMalformed,
		},
		{
			name:    "TooManyFields",
			input:   "expense 10 eur coffee shop extra",
			wantErr: ErrMalformed,
		},
		{
			name:    "BadAmount",
			input:   "expense ten eur coffee shop",
			wantErr: ErrMalformed,
		},
		{
			name:    "BadCurrency",
			input:   "expense 10 euro coffee shop",
			wantErr: ErrMalformed,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := p.Parse(tc.input)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("p.Parse(%q) returned error %v, want %v", tc.input, err, tc.wantErr)
				}
				return
			}

			if err != nil {
				t.Fatalf("p.Parse(%q) returned error: %v", tc.input, err)
			}

			if diff := cmp.Diff(tc.want, got, cmp.Comparer(decimal.Decimal.Equal)); diff != "" {
				t.Errorf("p.Parse(%q) returned unexpected difference (-want +got):\n%s", tc.input, diff)
			}
		})
	}
}

func TestRenderRoundTrip(t *testing.T) {
	t.Parallel()

	p := New(fixedClock)

	for i := 0; i < 50; i++ {
		want := domain.NewTransaction(
			randompkg.Kind(),
			randompkg.Money(),
			fixedNow,
			randompkg.Category(),
			randompkg.Category(),
		)

		line := Render(want)

		got, err := p.Parse(line)
		if err != nil {
			t.Fatalf("p.Parse(%q) returned error: %v", line, err)
		}

		if diff := cmp.Diff(want, got, cmp.Comparer(decimal.Decimal.Equal)); diff != "" {
			t.Errorf("p.Parse(Render(%v)) returned unexpected difference (-want +got):\n%s", want, diff)
		}
	}
}

func TestRepresentable(t *testing.T) {
	t.Parallel()

	entered := domain.NewMoney(currencypkg.EUR, decimal.NewFromInt(1))

	testCases := []struct {
		name string
		tx   domain.Transaction
		want bool
	}{
		{
			name: "OK",
			tx:   domain.NewTransaction(domain.KindExpense, entered, fixedNow, "coffee", "shop"),
			want: true,
		},
		{
			name: "CategoryWithSpaces",
			tx:   domain.NewTransaction(domain.KindExpense, entered, fixedNow, "two words", "shop"),
		},
		{
			name: "EmptyDestination",
			tx:   domain.NewTransaction(domain.KindExpense, entered, fixedNow, "coffee", ""),
		},
		{
			name: "DestinationWithTab",
			tx:   domain.NewTransaction(domain.KindExpense, entered, fixedNow, "coffee", "shop\tfront"),
		},
		{
			name: "LongCurrencyCode",
			tx:   domain.NewTransaction(domain.KindIncome, domain.NewMoney("EURO", decimal.NewFromInt(5)), fixedNow, "coffee", "shop"),
		},
		{
			name: "CurrencyWithDigits",
			tx:   domain.NewTransaction(domain.KindIncome, domain.NewMoney("E1R", decimal.NewFromInt(5)), fixedNow, "coffee", "shop"),
		},
		{
			name: "ZeroKind",
			tx:   domain.Transaction{Date: fixedNow, Amount: entered, Category: "coffee", Destination: "shop"},
		},
	}

	p := New(fixedClock)

	for _, tc := range testCases {
		if got := Representable(tc.tx); got != tc.want {
			t.Errorf("%s: Representable(%v) = %v, want %v", tc.name, tc.tx, got, tc.want)
		}

		if !tc.want {
			continue
		}

		if _, err := p.Parse(Render(tc.tx)); err != nil {
			t.Errorf("%s: Parse(Render(tx)) returned error: %v", tc.name, err)
		}
	}
}

func ExampleRender() {
	tx := domain.NewTransaction(
		domain.KindExpense,
		domain.NewMoney("rub", decimal.NewFromInt(300)),
		fixedNow,
		"coffee",
		"shop0011",
	)

	fmt.Println(tx.Amount)
	fmt.Println(Render(tx))
	// Output:
	// -300.00 RUB
	// expense 300 RUB coffee shop0011
}
