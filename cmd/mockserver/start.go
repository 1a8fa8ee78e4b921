package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/raywall/fast-mock-server/pkg/config"
	"github.com/raywall/fast-mock-server/pkg/dispatch"
	"github.com/raywall/fast-mock-server/pkg/logger"
	"github.com/raywall/fast-mock-server/pkg/metrics"
	"github.com/raywall/fast-mock-server/pkg/routes"
	"github.com/raywall/fast-mock-server/pkg/transport"
	"github.com/spf13/cobra"
)

// Variáveis injetáveis para mocking
var (
	serverStarter = func(ctx context.Context, e *dispatch.Engine) error {
		return e.Start(ctx)
	}
	lambdaStarter = lambda.Start
)

var errNoConfig = errors.New("No config file provided. Use -c or --config to specify the path to the JSON config file.\nUse --help for more information.")

type startFlags struct {
	source    string
	host      string
	port      int
	randomize bool
	schema    string
	runtime   string
}

func newStartCmd(root *rootFlags) *cobra.Command {
	var flags startFlags

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Validate the config and start serving the mock routes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.source == "" {
				return errNoConfig
			}
			s, err := loadSettings(cmd, root)
			if err != nil {
				return err
			}
			applyStartFlags(cmd, &flags, &s)
			return runStart(cmd.Context(), s, flags.source)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.source, "config", "c", "", "path or URI of the routes document (file, s3, dynamodb, ssm, secret, redis)")
	f.StringVarP(&flags.host, "host", "H", "", "host to bind to (env MOCK_HOST, default localhost)")
	f.IntVarP(&flags.port, "port", "p", 0, "port to listen on (env MOCK_PORT, default 3000)")
	f.BoolVarP(&flags.randomize, "randomize", "r", false, "pick success or error at random per request (pair schema)")
	f.StringVar(&flags.schema, "schema", "", "route schema: single or pair (env MOCK_SCHEMA)")
	f.StringVar(&flags.runtime, "runtime", "", "runtime: local or lambda (env MOCK_RUNTIME)")
	return cmd
}

func applyStartFlags(cmd *cobra.Command, flags *startFlags, s *config.Settings) {
	f := cmd.Flags()
	if f.Changed("host") {
		s.Host = flags.host
	}
	if f.Changed("port") {
		s.Port = flags.port
	}
	if f.Changed("randomize") {
		s.Randomize = flags.randomize
	}
	if f.Changed("schema") {
		s.Schema = flags.schema
	}
	if f.Changed("runtime") {
		s.Runtime = flags.runtime
	}
}

// run contém a lógica de orquestração: settings -> loader -> tabela -> engine -> runtime.
func runStart(ctx context.Context, s config.Settings, source string) error {
	// 1. Configuração de runtime
	if err := s.Validate(); err != nil {
		return err
	}
	schema, err := s.RouteSchema()
	if err != nil {
		return err
	}

	log := logger.Configure(s.Logging)
	provider, err := metrics.Setup(s.Metrics)
	if err != nil {
		return err
	}

	// 2. Documento de rotas (nenhuma rota é registrada se houver erro)
	defs, err := newLoader(s, log).Load(ctx, source, schema)
	if err != nil {
		return err
	}

	// 3. Engine
	engine := dispatch.New(routes.NewTable(defs),
		dispatch.Options{Host: s.Host, Port: s.Port, Randomize: s.Randomize},
		dispatch.WithLogger(log),
		dispatch.WithMetrics(provider),
	)

	// 4. Seleciona Runtime Strategy
	switch s.Runtime {
	case "lambda":
		handler := transport.NewLambdaHandler(engine.Handler(), log)
		lambdaStarter(handler.Handle)
		return nil
	case "local":
		return serverStarter(ctx, engine)
	default:
		return fmt.Errorf("runtime desconhecido: %s", s.Runtime)
	}
}
