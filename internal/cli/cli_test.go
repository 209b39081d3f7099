package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/go-petr/pet-ledger/internal/budgetservice"
	"github.com/go-petr/pet-ledger/internal/converter"
	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/internal/txparser"
	"github.com/go-petr/pet-ledger/internal/txrepo"
	"github.com/go-petr/pet-ledger/pkg/currencypkg"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)

func newService(t *testing.T) *budgetservice.Service {
	t.Helper()

	conv, err := converter.New(domain.RateTable{
		Base: currencypkg.EUR,
		Rates: map[string]decimal.Decimal{
			currencypkg.RUB: decimal.NewFromInt(90),
			currencypkg.USD: decimal.RequireFromString("1.1"),
		},
	})
	require.NoError(t, err)

	parser := txparser.New(func() time.Time { return testNow })

	return budgetservice.New(txrepo.NewMemoryRepo(), parser, conv, decimal.NewFromInt(5000))
}

func run(t *testing.T, input string) string {
	t.Helper()

	var out bytes.Buffer

	err := New(newService(t), strings.NewReader(input), &out).Run(context.Background())
	require.NoError(t, err)

	return out.String()
}

func TestRunSession(t *testing.T) {
	out := run(t, strings.Join([]string{
		"expense 300 rub coffee shop0011",
		"Expense 500 RUB buns shop0011",
		"expense 100 eur coffee 0011",
		"expense 400 eur coffee 0011",
		"expense 2000 usd coffee 0011",
		"expense 100 usd coffee 0011",
		"",
		"list",
		"balance eur",
		"balance usd",
		"exit",
		"balance rub",
	}, "\n"))

	require.True(t, strings.HasPrefix(out, welcome+"\n"))
	require.Contains(t, out, "Transaction added: Expense 2024-03-01T10:30:00Z -300 RUB coffee shop0011")
	require.Contains(t, out, "Transactions:\nExpense 2024-03-01T10:30:00Z -300 RUB coffee shop0011\nExpense 2024-03-01T10:30:00Z -500 RUB buns shop0011\n")
	require.Contains(t, out, "Balance: 2582.02 EUR\n")
	require.Contains(t, out, "Balance: 2840.22 USD\n")
	require.NotContains(t, out, "Balance: 232381.82 RUB")
	require.True(t, strings.HasSuffix(out, goodbye+"\n"))
}

func TestRunBadInput(t *testing.T) {
	out := run(t, "hello world\nexpense ten eur a b\nbalance\nbalance gbp\n")

	require.Contains(t, out, "Not a transaction: hello world")
	require.Contains(t, out, "Not a transaction: expense ten eur a b")
	require.Contains(t, out, "Usage: balance <currency>")
	require.Contains(t, out, "Cannot compute balance: currency not supported: GBP")
	require.True(t, strings.HasSuffix(out, goodbye+"\n"), "end of input acts like exit")
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer

	err := New(newService(t), strings.NewReader("list\n"), &out).Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestRunCanceledWhileReading(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loop := New(newService(t), pr, io.Discard)
	done := make(chan error, 1)

	go func() {
		done <- loop.Run(ctx)
	}()

	// Returns once the line has been read.
	_, err := io.WriteString(pw, "list\n")
	require.NoError(t, err)

	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after ctx was canceled")
	}
}
