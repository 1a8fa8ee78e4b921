package dispatch

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/raywall/fast-mock-server/pkg/config"
	"github.com/raywall/fast-mock-server/pkg/metrics"
	"github.com/raywall/fast-mock-server/pkg/routes"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) Count(name string, value float64, tags []string) error {
	return m.Called(name, value, tags).Error(0)
}

func (m *mockProvider) Gauge(name string, value float64, tags []string) error {
	return m.Called(name, value, tags).Error(0)
}

func (m *mockProvider) Histogram(name string, value float64, tags []string) error {
	return m.Called(name, value, tags).Error(0)
}

var _ metrics.Provider = (*mockProvider)(nil)

func newEngine(t *testing.T, schema config.Schema, doc string, opts Options, options ...Option) *Engine {
	t.Helper()
	defs, err := config.NewValidator(schema).Validate([]byte(doc))
	require.NoError(t, err)
	return New(routes.NewTable(defs), opts, options...)
}

func serve(e *Engine, method, path string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	e.Handler().ServeHTTP(rr, httptest.NewRequest(method, path, nil))
	return rr
}

const pairDoc = `{
	"/boom": {"response": {"success": {"msg": "ok"}, "error": {"status": 503, "msg": "down"}}}
}`

func TestEngine_SingleSchema(t *testing.T) {
	var buf bytes.Buffer
	e := newEngine(t, config.SchemaSingle, `{
		"/ping": {"response": {"msg": "pong"}},
		"/users": {"method": "POST", "status": 201, "response": [{"b": 1, "a": 2}]},
		"/users/{id}": {"method": "DELETE", "status": 204, "response": null}
	}`, Options{}, WithLogger(zerolog.New(&buf)))

	t.Run("GET com defaults", func(t *testing.T) {
		rr := serve(e, http.MethodGet, "/ping")

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
		assert.Equal(t, `{"msg":"pong"}`, rr.Body.String())
		assert.NotEmpty(t, rr.Header().Get("x-correlation-id"))
		assert.Contains(t, buf.String(), "[200] GET /ping")
	})

	t.Run("Status e ordem das chaves", func(t *testing.T) {
		rr := serve(e, http.MethodPost, "/users")

		assert.Equal(t, http.StatusCreated, rr.Code)
		assert.Equal(t, `[{"b":1,"a":2}]`, rr.Body.String())
	})

	t.Run("Path com chaves e literal", func(t *testing.T) {
		assert.Equal(t, http.StatusNoContent, serve(e, http.MethodDelete, "/users/{id}").Code)
		assert.Equal(t, http.StatusNotFound, serve(e, http.MethodDelete, "/users/1").Code)
	})

	t.Run("Status sem corpo nao gera erro", func(t *testing.T) {
		buf.Reset()
		rr := serve(e, http.MethodDelete, "/users/{id}")

		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Empty(t, rr.Body.String())
		assert.NotContains(t, buf.String(), `"level":"error"`)
	})

	t.Run("Path nao registrado", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, serve(e, http.MethodGet, "/nope").Code)
	})

	t.Run("Metodo nao registrado", func(t *testing.T) {
		assert.Equal(t, http.StatusMethodNotAllowed, serve(e, http.MethodPost, "/ping").Code)
		assert.Equal(t, http.StatusMethodNotAllowed, serve(e, http.MethodGet, "/users").Code)
	})
}

func TestEngine_PairSchema(t *testing.T) {
	t.Run("Sem randomize sempre success", func(t *testing.T) {
		e := newEngine(t, config.SchemaPair, pairDoc, Options{},
			WithCoin(func() bool { t.Fatal("sorteio nao deveria ocorrer"); return false }))

		for i := 0; i < 100; i++ {
			rr := serve(e, http.MethodGet, "/boom")
			require.Equal(t, http.StatusOK, rr.Code)
			assert.JSONEq(t, `{"msg":"ok","status":200}`, rr.Body.String())
		}
	})

	t.Run("Moeda injetada escolhe error", func(t *testing.T) {
		e := newEngine(t, config.SchemaPair, pairDoc, Options{Randomize: true},
			WithCoin(func() bool { return false }))

		rr := serve(e, http.MethodGet, "/boom")
		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
		assert.Equal(t, `{"status":503,"msg":"down"}`, rr.Body.String())
	})

	t.Run("Moeda justa fica perto de 50%", func(t *testing.T) {
		e := newEngine(t, config.SchemaPair, pairDoc, Options{Randomize: true})

		errorsSeen := 0
		for i := 0; i < 1000; i++ {
			rr := serve(e, http.MethodGet, "/boom")
			switch rr.Code {
			case http.StatusServiceUnavailable:
				errorsSeen++
			case http.StatusOK:
			default:
				t.Fatalf("status inesperado %d", rr.Code)
			}
		}
		assert.InDelta(t, 500, errorsSeen, 100)
	})
}

func TestEngine_SingleRandomizeIgnored(t *testing.T) {
	e := newEngine(t, config.SchemaSingle, `{"/a": {"status": 202, "response": {}}}`,
		Options{Randomize: true}, WithCoin(func() bool { return false }))

	for i := 0; i < 20; i++ {
		assert.Equal(t, http.StatusAccepted, serve(e, http.MethodGet, "/a").Code)
	}
}

func TestEngine_StatusOnTheWire(t *testing.T) {
	var buf bytes.Buffer
	e := newEngine(t, config.SchemaSingle, `{
		"/created": {"method": "POST", "status": 201, "response": {"id": 1}},
		"/empty": {"status": 204, "response": {"ignored": true}},
		"/cached": {"status": 304, "response": null}
	}`, Options{}, WithLogger(zerolog.New(&buf)))
	srv := httptest.NewServer(e.Handler())

	tests := []struct {
		method string
		path   string
		status int
		body   string
	}{
		{http.MethodPost, "/created", http.StatusCreated, `{"id":1}`},
		{http.MethodGet, "/empty", http.StatusNoContent, ""},
		{http.MethodGet, "/cached", http.StatusNotModified, ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, srv.URL+tt.path, nil)
			require.NoError(t, err)
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()

			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.body, string(body))
		})
	}

	srv.Close()
	assert.NotContains(t, buf.String(), `"level":"error"`)
}

func TestEngine_Delay(t *testing.T) {
	e := newEngine(t, config.SchemaSingle, `{"/slow": {"delay": 100, "response": {"ok": true}}}`, Options{})
	srv := httptest.NewServer(e.Handler())
	defer srv.Close()

	t.Run("Resposta aguarda o delay", func(t *testing.T) {
		start := time.Now()
		resp, err := http.Get(srv.URL + "/slow")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.GreaterOrEqual(t, time.Since(start), 100*time.Millisecond)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("Delays nao bloqueiam outras requisicoes", func(t *testing.T) {
		const n = 5
		var wg sync.WaitGroup
		start := time.Now()
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				resp, err := http.Get(srv.URL + "/slow")
				if assert.NoError(t, err) {
					resp.Body.Close()
				}
			}()
		}
		wg.Wait()

		assert.Less(t, time.Since(start), n*100*time.Millisecond)
	})
}

func TestEngine_ClientGoneDuringDelay(t *testing.T) {
	provider := new(mockProvider)
	e := newEngine(t, config.SchemaSingle, `{"/slow": {"delay": 5000, "response": {}}}`, Options{},
		WithMetrics(provider))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	rr := httptest.NewRecorder()
	start := time.Now()
	e.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/slow", nil).WithContext(ctx))

	assert.Less(t, time.Since(start), time.Second)
	assert.Empty(t, rr.Body.String())
	provider.AssertNotCalled(t, "Count", mock.Anything, mock.Anything, mock.Anything)
}

func TestEngine_Metrics(t *testing.T) {
	provider := new(mockProvider)
	provider.On("Count", metrics.MetricRequests, float64(1),
		[]string{"path:/boom", "method:GET", "status:503", "outcome:error"}).Return(nil).Once()
	provider.On("Histogram", metrics.MetricDelay, float64(1), mock.Anything).Return(errors.New("agent down")).Once()

	e := newEngine(t, config.SchemaPair,
		`{"/boom": {"delay": 1, "response": {"success": {}, "error": {"status": 503}}}}`,
		Options{Randomize: true}, WithMetrics(provider), WithCoin(func() bool { return false }))

	rr := serve(e, http.MethodGet, "/boom")

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	provider.AssertExpectations(t)
}

func TestEngine_Start(t *testing.T) {
	t.Run("Porta ocupada retorna BindError", func(t *testing.T) {
		busy, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		defer busy.Close()

		port := busy.Addr().(*net.TCPAddr).Port
		e := New(routes.NewTable(nil), Options{Host: "127.0.0.1", Port: port})

		err = e.Start(context.Background())

		var bindErr *BindError
		require.True(t, errors.As(err, &bindErr), "esperado *BindError, recebido %T", err)
		assert.Equal(t, busy.Addr().String(), bindErr.Addr)
		assert.Contains(t, err.Error(), "failed to start server on")
	})

	t.Run("Serve encerra com o contexto", func(t *testing.T) {
		var buf bytes.Buffer
		e := newEngine(t, config.SchemaSingle, `{"/ping": {"response": "pong"}}`,
			Options{Host: "127.0.0.1"}, WithLogger(zerolog.New(&buf)))

		ln, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- e.Serve(ctx, ln) }()

		resp, err := http.Get("http://" + ln.Addr().String() + "/ping")
		require.NoError(t, err)
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		assert.Equal(t, `"pong"`, string(body))

		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("servidor nao encerrou")
		}
		assert.Contains(t, buf.String(), "Mock server running at http://"+ln.Addr().String())
	})
}

func TestEngine_ServeReportsRouteCount(t *testing.T) {
	provider := new(mockProvider)
	provider.On("Gauge", metrics.MetricRoutes, float64(2), []string(nil)).Return(errors.New("agent down")).Once()

	e := newEngine(t, config.SchemaSingle, `{"/a": {"response": 1}, "/b": {"method": "POST", "response": 2}}`,
		Options{Host: "127.0.0.1"}, WithMetrics(provider))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, e.Serve(ctx, ln))

	provider.AssertExpectations(t)
}
