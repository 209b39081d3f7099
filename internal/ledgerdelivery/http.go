// Package ledgerdelivery manages delivery layer of the ledger.
package ledgerdelivery

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/internal/txrepo"
	"github.com/go-petr/pet-ledger/pkg/errorspkg"
	"github.com/go-petr/pet-ledger/pkg/web"
)

// ErrInvalidAmount indicates an amount that is not a decimal number.
var ErrInvalidAmount = errors.New("invalid amount")

// Service provides service layer interface needed by ledger delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package ledgerdelivery
type Service interface {
	AddTransaction(ctx context.Context, tx domain.Transaction) error
	List(ctx context.Context) ([]domain.Transaction, error)
	Balance(ctx context.Context, currency string) (domain.Money, error)
}

// Handler facilitates ledger delivery layer logic.
type Handler struct {
	service Service
	now     func() time.Time
}

// NewHandler returns ledger handler. A nil clock means time.Now.
func NewHandler(s Service, clock func() time.Time) *Handler {
	if clock == nil {
		clock = time.Now
	}

	return &Handler{
		service: s,
		now:     clock,
	}
}

func bindingErrorMsg(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		field := ve[0]
		return field.Field() + web.GetErrorMsg(field)
	}

	return err.Error()
}

type createRequest struct {
	Kind        string `json:"kind" binding:"required,oneof=expense transfer income"`
	Amount      string `json:"amount" binding:"required"`
	Currency    string `json:"currency" binding:"required,currency"`
	Category    string `json:"category" binding:"required"`
	Destination string `json:"destination" binding:"required"`
}

type transactionData struct {
	Transaction domain.Transaction `json:"transaction"`
}

// Create handles http request to add a transaction.
func (h *Handler) Create(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req createRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindingErrorMsg(err)})

		return
	}

	kind, err := domain.ParseKind(req.Kind)
	if err != nil {
		gctx.JSON(http.StatusBadRequest, web.Error(err))
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(ErrInvalidAmount))

		return
	}

	tx := domain.NewTransaction(kind, domain.NewMoney(req.Currency, amount), h.now(), req.Category, req.Destination)

	if err := h.service.AddTransaction(ctx, tx); err != nil {
		l.Info().Err(err).Send()

		if errors.Is(err, txrepo.ErrNotPersistable) {
			gctx.JSON(http.StatusBadRequest, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusCreated, web.Response{Data: transactionData{tx}})
}

type listData struct {
	Transactions []domain.Transaction `json:"transactions"`
}

// List handles http request to list all transactions.
func (h *Handler) List(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	txs, err := h.service.List(ctx)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Send()
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: listData{txs}})
}

type balanceRequest struct {
	Currency string `uri:"currency" binding:"required,currency"`
}

type balanceData struct {
	Balance domain.Money `json:"balance"`
}

// Balance handles http request to report the balance in the requested currency.
func (h *Handler) Balance(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req balanceRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindingErrorMsg(err)})

		return
	}

	balance, err := h.service.Balance(ctx, req.Currency)
	if err != nil {
		if errors.Is(err, domain.ErrUnsupportedCurrency) {
			gctx.JSON(http.StatusBadRequest, web.Error(err))
			return
		}

		l.Error().Err(err).Send()
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	balance.Amount = balance.Amount.Round(2)

	gctx.JSON(http.StatusOK, web.Response{Data: balanceData{balance}})
}
