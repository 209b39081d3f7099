package txrepo

import (
	"context"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/dbpkg"
	"github.com/go-petr/pet-ledger/pkg/errorspkg"
	"github.com/rs/zerolog"
)

// SQLRepo facilitates transaction repository layer logic on top of database/sql.
type SQLRepo struct {
	db     dbpkg.SQLInterface
	driver string
}

var schema = map[string]string{
	dbpkg.DriverSQLite: `
CREATE TABLE IF NOT EXISTS transactions (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    kind        TEXT NOT NULL,
    amount      TEXT NOT NULL,
    currency    TEXT NOT NULL,
    category    TEXT NOT NULL,
    destination TEXT NOT NULL,
    created_at  TIMESTAMP NOT NULL
)`,
	dbpkg.DriverPostgres: `
CREATE TABLE IF NOT EXISTS transactions (
    id          BIGSERIAL PRIMARY KEY,
    kind        VARCHAR(16) NOT NULL,
    amount      NUMERIC NOT NULL,
    currency    CHAR(3) NOT NULL,
    category    TEXT NOT NULL,
    destination TEXT NOT NULL,
    created_at  TIMESTAMPTZ NOT NULL
)`,
}

// NewSQLRepo returns SQLRepo and creates the transactions table if needed.
func NewSQLRepo(ctx context.Context, db dbpkg.SQLInterface, driver string) (*SQLRepo, error) {
	l := zerolog.Ctx(ctx)

	query, ok := schema[driver]
	if !ok {
		l.Error().Str("driver", driver).Msg("unsupported db driver")
		return nil, errorspkg.ErrInternal
	}

	if _, err := db.ExecContext(ctx, query); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return &SQLRepo{
		db:     db,
		driver: driver,
	}, nil
}

const appendQuery = `
INSERT INTO
    transactions (kind, amount, currency, category, destination, created_at)
VALUES
    ($1, $2, $3, $4, $5, $6)
`

// Append stores the transaction.
func (r *SQLRepo) Append(ctx context.Context, tx domain.Transaction) error {
	l := zerolog.Ctx(ctx)

	kind, err := tx.Kind.MarshalText()
	if err != nil {
		l.Error().Err(err).Send()
		return err
	}

	_, err = r.db.ExecContext(ctx, dbpkg.Rebind(r.driver, appendQuery),
		string(kind),
		tx.Amount.Amount,
		tx.Amount.Currency,
		tx.Category,
		tx.Destination,
		tx.Date.UTC(),
	)
	if err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	return nil
}

const listQuery = `
SELECT
    kind, amount, currency, category, destination, created_at
FROM transactions
ORDER BY id
`

// List returns all transactions in insertion order.
func (r *SQLRepo) List(ctx context.Context) ([]domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listQuery)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Transaction{}

	for rows.Next() {
		var (
			tx   domain.Transaction
			kind string
		)

		if err := rows.Scan(
			&kind,
			&tx.Amount.Amount,
			&tx.Amount.Currency,
			&tx.Category,
			&tx.Destination,
			&tx.Date,
		); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		if tx.Kind, err = domain.ParseKind(kind); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, tx)
	}

	if err := rows.Close(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}
