package txrepo

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/internal/txparser"
	"github.com/rs/zerolog"
)

// ErrNotPersistable indicates a transaction the line format cannot hold,
// e.g. a category with spaces.
var ErrNotPersistable = errors.New("transaction cannot be persisted")

// Parser turns a persisted line back into a transaction.
type Parser interface {
	Parse(input string) (domain.Transaction, error)
}

// FileRepo replays a line-oriented log at construction and appends new
// transactions to it. Reads are served from memory.
type FileRepo struct {
	path   string
	parser Parser

	// wmu serializes writes so that file order matches memory order.
	wmu    sync.Mutex
	ledger ledger
}

// NewFileRepo returns FileRepo filled with the transactions found in the file at path.
//
// A missing file, or a context that expires while reading, results in an
// empty repository. Lines that do not parse are skipped, whatever their length.
// A read error midway keeps the transactions replayed so far.
func NewFileRepo(ctx context.Context, path string, parser Parser) *FileRepo {
	r := &FileRepo{
		path:   path,
		parser: parser,
	}

	items, err := r.replay(ctx)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("path", path).Msg("cannot read transactions, starting empty")
		return r
	}

	r.ledger.items = items

	return r
}

func (r *FileRepo) replay(ctx context.Context) ([]domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	f, err := os.Open(r.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var items []domain.Transaction

	reader := bufio.NewReader(f)

	for lineNo := 1; ; lineNo++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		line, readErr := reader.ReadString('\n')

		if line != "" {
			tx, err := r.parser.Parse(line)
			if err != nil {
				l.Info().Err(err).Int("line", lineNo).Msg("skipping transaction line")
			} else {
				items = append(items, tx)
			}
		}

		if errors.Is(readErr, io.EOF) {
			break
		}

		if readErr != nil {
			l.Warn().Err(readErr).Int("line", lineNo).Str("path", r.path).Msg("cannot read the rest of transactions")
			break
		}
	}

	l.Info().Int("count", len(items)).Str("path", r.path).Msg("transactions loaded")

	return items, nil
}

// Append writes the transaction to the log and then adds it to memory.
func (r *FileRepo) Append(ctx context.Context, tx domain.Transaction) error {
	l := zerolog.Ctx(ctx)

	if !txparser.Representable(tx) {
		return fmt.Errorf("%w: need a known kind, a three letter currency and single word category and destination", ErrNotPersistable)
	}

	r.wmu.Lock()
	defer r.wmu.Unlock()

	if err := r.write(txparser.Render(tx)); err != nil {
		l.Error().Err(err).Str("path", r.path).Send()
		return err
	}

	r.ledger.append(tx)
	l.Debug().Stringer("transaction", tx).Msg("transaction added")

	return nil
}

func (r *FileRepo) write(line string) error {
	f, err := os.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return err
	}

	// A log edited by hand may lack the final newline.
	if info, err := f.Stat(); err == nil && info.Size() > 0 {
		last := make([]byte, 1)
		if _, err := f.ReadAt(last, info.Size()-1); err == nil && last[0] != '\n' {
			line = "\n" + line
		}
	}

	if _, err := f.WriteString(line + "\n"); err != nil {
		f.Close()
		return err
	}

	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

// List returns all transactions in insertion order.
func (r *FileRepo) List(ctx context.Context) ([]domain.Transaction, error) {
	return r.ledger.snapshot(), nil
}
