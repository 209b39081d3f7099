package httpserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/internal/integrationtest"
)

func TestLedgerAPI(t *testing.T) {
	server := integrationtest.SetupServer(t)

	for _, body := range []string{
		`{"kind":"expense","amount":"300","currency":"rub","category":"coffee","destination":"shop0011"}`,
		`{"kind":"expense","amount":"500","currency":"rub","category":"buns","destination":"shop0011"}`,
		`{"kind":"expense","amount":"100","currency":"eur","category":"coffee","destination":"0011"}`,
		`{"kind":"expense","amount":"400","currency":"eur","category":"coffee","destination":"0011"}`,
		`{"kind":"expense","amount":"2000","currency":"usd","category":"coffee","destination":"0011"}`,
		`{"kind":"expense","amount":"100","currency":"usd","category":"coffee","destination":"0011"}`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/transactions", bytes.NewBufferString(body))
		recorder := httptest.NewRecorder()
		server.ServeHTTP(recorder, req)

		require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())
	}

	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/transactions", nil))
	require.Equal(t, http.StatusOK, recorder.Code)

	var list struct {
		Data struct {
			Transactions []domain.Transaction `json:"transactions"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &list))
	require.Len(t, list.Data.Transactions, 6)
	require.Equal(t, "coffee", list.Data.Transactions[0].Category)

	recorder = httptest.NewRecorder()
	server.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/balance/eur", nil))
	require.Equal(t, http.StatusOK, recorder.Code)

	var balance struct {
		Data struct {
			Balance domain.Money `json:"balance"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &balance))
	require.Equal(t, "2582.02 EUR", balance.Data.Balance.String())

	recorder = httptest.NewRecorder()
	server.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/balance/gbp", nil))
	require.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestRunStopsOnCancel(t *testing.T) {
	server := integrationtest.SetupServer(t)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- server.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server.Run did not return after cancel")
	}
}
