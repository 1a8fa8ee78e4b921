package dispatch

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/raywall/fast-mock-server/pkg/config"
	"github.com/raywall/fast-mock-server/pkg/metrics"
	"github.com/raywall/fast-mock-server/pkg/routes"
	"github.com/raywall/fast-mock-server/pkg/transport"
	"github.com/rs/zerolog"
)

const defaultShutdownTimeout = 10 * time.Second

// Options são os parâmetros de inicialização, fixos durante a vida do servidor.
type Options struct {
	Host string
	Port int
	// Randomize sorteia success/error por requisição nas rotas com o par configurado.
	Randomize bool
	// ShutdownTimeout limita a espera pelas requisições em andamento (default 10s).
	ShutdownTimeout time.Duration
}

// Addr devolve host:port.
func (o Options) Addr() string {
	return net.JoinHostPort(o.Host, strconv.Itoa(o.Port))
}

// Option segue o padrão de functional options para os colaboradores opcionais.
type Option func(*Engine)

// WithLogger define o logger usado nas linhas de requisição e de ciclo de vida.
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMetrics define o provider que recebe os contadores por requisição.
func WithMetrics(provider metrics.Provider) Option {
	return func(e *Engine) {
		if provider != nil {
			e.metrics = provider
		}
	}
}

// WithCoin substitui o sorteio; true significa "success".
// A função pode ser chamada concorrentemente por várias requisições.
func WithCoin(coin func() bool) Option {
	return func(e *Engine) {
		if coin != nil {
			e.coin = coin
		}
	}
}

// Engine liga a tabela de rotas ao roteador HTTP.
type Engine struct {
	opts    Options
	table   *routes.Table
	router  *mux.Router
	handler http.Handler
	logger  zerolog.Logger
	metrics metrics.Provider
	coin    func() bool
}

// New registra um handler por rota da tabela. A tabela não é alterada depois disso.
func New(table *routes.Table, opts Options, options ...Option) *Engine {
	e := &Engine{
		opts:    opts,
		table:   table,
		logger:  zerolog.Nop(),
		metrics: &metrics.NoopProvider{},
		coin:    fairCoin,
	}
	for _, opt := range options {
		if opt != nil {
			opt(e)
		}
	}

	e.router = mux.NewRouter()
	for _, def := range table.Routes() {
		e.bind(def)
	}
	e.handler = transport.ObservabilityMiddleware(e.logger)(e.router)
	return e
}

// bind associa o path exato ao método da rota. O path é comparado literalmente,
// então "{...}" não vira variável do roteador.
func (e *Engine) bind(def config.RouteDefinition) {
	e.router.NewRoute().
		MatcherFunc(exactPath(def.Path)).
		Methods(def.Method.HTTP()).
		HandlerFunc(e.newHandler(def))

	e.logger.Debug().
		Str("method", string(def.Method)).
		Str("path", def.Path).
		Bool("paired", def.Paired()).
		Msg("rota registrada")
}

func exactPath(path string) mux.MatcherFunc {
	return func(r *http.Request, _ *mux.RouteMatch) bool {
		return r.URL.Path == path
	}
}

// Handler expõe o roteador já envolvido pelo middleware de observabilidade.
func (e *Engine) Handler() http.Handler {
	return e.handler
}

// Options devolve os parâmetros de inicialização.
func (e *Engine) Options() Options {
	return e.opts
}

// Table devolve a tabela servida.
func (e *Engine) Table() *routes.Table {
	return e.table
}

// Start ocupa host:port e serve até o contexto ser cancelado.
// Falha ao ocupar o endereço retorna *BindError uma única vez.
func (e *Engine) Start(ctx context.Context) error {
	addr := e.opts.Addr()
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		e.logger.Error().Err(err).Str("addr", addr).Msg("❌ Failed to start server")
		return &BindError{Addr: addr, Err: err}
	}
	return e.Serve(ctx, ln)
}

// Serve atende no listener recebido até o contexto ser cancelado e então
// encerra de forma graciosa, aguardando as requisições em andamento.
func (e *Engine) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           e.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if err := e.metrics.Gauge(metrics.MetricRoutes, float64(e.table.Len()), nil); err != nil {
		e.logger.Debug().Err(err).Msg("falha ao enviar métrica")
	}

	e.logger.Info().
		Int("routes", e.table.Len()).
		Bool("randomize", e.opts.Randomize).
		Msgf("✅ Mock server running at %s", listenURL(e.opts.Host, ln))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err

	case <-ctx.Done():
		timeout := e.opts.ShutdownTimeout
		if timeout <= 0 {
			timeout = defaultShutdownTimeout
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		e.logger.Info().Msg("Encerrando servidor mock")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("erro no shutdown: %w", err)
		}
		<-errCh
		return nil
	}
}

func listenURL(host string, ln net.Listener) string {
	if tcp, ok := ln.Addr().(*net.TCPAddr); ok && host != "" {
		return "http://" + net.JoinHostPort(host, strconv.Itoa(tcp.Port))
	}
	return "http://" + ln.Addr().String()
}

// fairCoin usa o gerador global de math/rand (auto-seeded desde Go 1.20), seguro para uso concorrente.
func fairCoin() bool {
	return rand.Intn(2) == 0
}
