package transport

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObservabilityMiddleware(t *testing.T) {
	var seenID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = CorrelationID(r.Context())
		zerolog.Ctx(r.Context()).Info().Msg("dentro do handler")
		w.WriteHeader(http.StatusTeapot)
	})

	t.Run("Gera correlation id", func(t *testing.T) {
		var buf bytes.Buffer
		handler := ObservabilityMiddleware(zerolog.New(&buf))(next)

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/x", nil))

		assert.Equal(t, http.StatusTeapot, rr.Code)
		id := rr.Header().Get(HeaderCorrelationID)
		_, err := uuid.Parse(id)
		require.NoError(t, err)
		assert.Equal(t, id, seenID)
		assert.NotEmpty(t, rr.Header().Get(HeaderLatency))
		assert.Contains(t, buf.String(), `"correlation_id":"`+id+`"`)
	})

	t.Run("Propaga correlation id recebido", func(t *testing.T) {
		handler := ObservabilityMiddleware(zerolog.Nop())(next)

		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set(HeaderCorrelationID, "abc-123")
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, "abc-123", rr.Header().Get(HeaderCorrelationID))
		assert.Equal(t, "abc-123", seenID)
	})
}
