package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	var ctxLogged bool

	engine := gin.New()
	engine.Use(RequestLogger(logger))
	engine.GET("/ping", func(c *gin.Context) {
		zerolog.Ctx(c.Request.Context()).Info().Msg("inside handler")
		ctxLogged = true
		c.Status(http.StatusNoContent)
	})

	// Generated id.
	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/ping", nil))

	require.True(t, ctxLogged)
	require.Equal(t, http.StatusNoContent, recorder.Code)
	require.NotEmpty(t, recorder.Header().Get(RequestIDHeader))
	require.Contains(t, buf.String(), `"message":"inside handler"`)
	require.Contains(t, buf.String(), `"status_code":204`)

	// Propagated id.
	buf.Reset()

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "abc")

	recorder = httptest.NewRecorder()
	engine.ServeHTTP(recorder, req)

	require.Equal(t, "abc", recorder.Header().Get(RequestIDHeader))
	require.Contains(t, buf.String(), `"request_id":"abc"`)
}
