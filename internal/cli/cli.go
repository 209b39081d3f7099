// Package cli runs the interactive ledger command loop.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-petr/pet-ledger/internal/budgetservice"
	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/rs/zerolog"
)

const (
	welcome = "Welcome to financial app!"
	prompt  = "Enter a transaction like 'expense 200 rub vacation coffee', 'list', 'balance rub/eur/usd' or 'exit'"
	goodbye = "Thanks for using our financial app!"
)

// Service provides service layer interface needed by the command loop.
type Service interface {
	AddRaw(ctx context.Context, input string) (domain.Transaction, error)
	List(ctx context.Context) ([]domain.Transaction, error)
	Balance(ctx context.Context, currency string) (domain.Money, error)
}

// Loop reads commands from in and writes results to out.
type Loop struct {
	service Service
	in      io.Reader
	out     io.Writer
}

// New returns command loop.
func New(s Service, in io.Reader, out io.Writer) *Loop {
	return &Loop{
		service: s,
		in:      in,
		out:     out,
	}
}

// Run processes commands until "exit", end of input or ctx is done.
//
// Input is read in a separate goroutine so that a done ctx interrupts a
// pending read. That goroutine exits once the reader returns.
func (c *Loop) Run(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)

	lines, readErr := c.readLines(done)

	c.println(welcome)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		c.println(prompt)

		var (
			line string
			ok   bool
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok = <-lines:
		}

		if !ok {
			c.println(goodbye)
			return <-readErr
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch strings.ToLower(fields[0]) {
		case "exit":
			c.println(goodbye)
			return nil
		case "list":
			c.list(ctx)
		case "balance":
			c.balance(ctx, fields[1:])
		default:
			c.add(ctx, strings.Join(fields, " "))
		}
	}
}

// readLines sends input lines until end of input or until done is closed.
// The read error, nil at end of input, is sent before lines is closed.
func (c *Loop) readLines(done <-chan struct{}) (<-chan string, <-chan error) {
	lines := make(chan string)
	readErr := make(chan error, 1)

	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(c.in)

		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}

		readErr <- scanner.Err()
	}()

	return lines, readErr
}

func (c *Loop) list(ctx context.Context) {
	txs, err := c.service.List(ctx)
	if err != nil {
		c.println("Cannot list transactions:", err)
		return
	}

	c.println("Transactions:")

	for _, tx := range txs {
		c.println(tx)
	}
}

func (c *Loop) balance(ctx context.Context, args []string) {
	if len(args) != 1 {
		c.println("Usage: balance <currency>")
		return
	}

	balance, err := c.service.Balance(ctx, args[0])
	if err != nil {
		if !errors.Is(err, domain.ErrUnsupportedCurrency) {
			zerolog.Ctx(ctx).Error().Err(err).Send()
		}

		c.println("Cannot compute balance:", err)

		return
	}

	c.println("Balance:", balance)
	c.println()
}

func (c *Loop) add(ctx context.Context, input string) {
	tx, err := c.service.AddRaw(ctx, input)
	if err != nil {
		if errors.Is(err, budgetservice.ErrParse) {
			c.println("Not a transaction:", input)
			return
		}

		c.println("Cannot add transaction:", err)

		return
	}

	c.println("Transaction added:", tx)
}

func (c *Loop) println(a ...any) {
	_, _ = fmt.Fprintln(c.out, a...)
}
