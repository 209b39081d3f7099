// Package main runs the personal finance ledger.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-ledger/cmd/httpserver"
	"github.com/go-petr/pet-ledger/internal/budgetservice"
	"github.com/go-petr/pet-ledger/internal/cli"
	"github.com/go-petr/pet-ledger/internal/converter"
	"github.com/go-petr/pet-ledger/internal/middleware"
	"github.com/go-petr/pet-ledger/internal/ratesource"
	"github.com/go-petr/pet-ledger/internal/txparser"
	"github.com/go-petr/pet-ledger/internal/txrepo"
	"github.com/go-petr/pet-ledger/pkg/configpkg"
	"github.com/go-petr/pet-ledger/pkg/dbpkg"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

func main() {
	config, err := configpkg.Load("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	logger := middleware.GetLogger(config)

	if err := run(config, logger); err != nil {
		logger.Fatal().Err(err).Send()
	}
}

func run(config configpkg.Config, logger zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx = logger.WithContext(ctx)

	opening, err := decimal.NewFromString(config.OpeningBalance)
	if err != nil {
		return fmt.Errorf("invalid opening balance %q: %w", config.OpeningBalance, err)
	}

	src, err := newRateSource(config)
	if err != nil {
		return err
	}

	conv, err := converter.Load(ctx, src, config.RatesTimeout)
	if err != nil {
		return err
	}

	parser := txparser.New(nil)

	repo, closeRepo, err := newRepo(ctx, config, parser)
	if err != nil {
		return fmt.Errorf("cannot open %s storage: %w", config.StorageBackend, err)
	}
	defer closeRepo()

	service := budgetservice.New(repo, parser, conv, opening)

	switch config.Mode {
	case configpkg.ModeHTTP:
		server, err := httpserver.New(service, logger, config)
		if err != nil {
			return err
		}

		return server.Run(ctx)
	case configpkg.ModeCLI:
		err := cli.New(service, os.Stdin, os.Stdout).Run(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}

		return err
	default:
		return fmt.Errorf("unknown mode %q", config.Mode)
	}
}

func newRateSource(config configpkg.Config) (converter.RateSource, error) {
	if config.RatesStatic != "" {
		return ratesource.ParseStatic(config.RatesStatic)
	}

	return ratesource.NewHTTPSource(nil, config.RatesURL, config.RatesAccessKey, ratesource.DefaultDecodeOptions()), nil
}

func newRepo(ctx context.Context, config configpkg.Config, parser *txparser.Parser) (budgetservice.Repo, func(), error) {
	noop := func() {}

	switch config.StorageBackend {
	case configpkg.StorageMemory:
		return txrepo.NewMemoryRepo(), noop, nil
	case configpkg.StorageFile:
		loadCtx := ctx

		if config.StorageTimeout > 0 {
			var cancel context.CancelFunc
			loadCtx, cancel = context.WithTimeout(ctx, config.StorageTimeout)
			defer cancel()
		}

		return txrepo.NewFileRepo(loadCtx, config.LedgerFile, parser), noop, nil
	case configpkg.StorageBolt:
		repo, err := txrepo.NewBoltRepo(config.BoltPath, config.StorageTimeout)
		if err != nil {
			return nil, nil, err
		}

		return repo, closer(ctx, repo), nil
	case configpkg.StorageSQL:
		db, err := dbpkg.Setup(config.DBDriver, config.DBSource)
		if err != nil {
			return nil, nil, err
		}

		repo, err := txrepo.NewSQLRepo(ctx, db, config.DBDriver)
		if err != nil {
			db.Close()
			return nil, nil, err
		}

		return repo, closer(ctx, db), nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", config.StorageBackend)
	}
}

func closer(ctx context.Context, c io.Closer) func() {
	return func() {
		if err := c.Close(); err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Msg("cannot close storage")
		}
	}
}
