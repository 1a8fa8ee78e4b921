package main

import (
	"fmt"

	"github.com/raywall/fast-mock-server/pkg/config"
	"github.com/raywall/fast-mock-server/pkg/loader"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// version é sobrescrita no build via -ldflags "-X main.version=...".
var version = "dev"

// rootFlags valem para todos os subcomandos.
type rootFlags struct {
	logLevel  string
	logFormat string
	awsRegion string
}

func newRootCmd() *cobra.Command {
	var flags rootFlags

	root := &cobra.Command{
		Use:   "mockserver",
		Short: "Declarative mock HTTP server",
		Long: `mockserver serves canned HTTP responses described in a JSON (or YAML) document.

Each top-level key is a path; each value describes the method, status, delay
and response body. With --schema pair, every route carries a success and an
error response, and --randomize picks one of them per request.

Examples:
  mockserver start -c routes.json
  mockserver start -c routes.json --schema pair --randomize --port 8080
  mockserver start -c s3://bucket/routes.yaml --runtime lambda
  mockserver validate -c routes.json
  mockserver generate --endpoints 3 > routes.json`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn, error (env MOCK_LOG_LEVEL)")
	root.PersistentFlags().StringVar(&flags.logFormat, "log-format", "", "log format: console or json (env MOCK_LOG_FORMAT)")
	root.PersistentFlags().StringVar(&flags.awsRegion, "aws-region", "", "AWS region for s3, dynamodb, ssm and secret sources (env MOCK_AWS_REGION)")

	root.AddCommand(
		newStartCmd(&flags),
		newValidateCmd(&flags),
		newGenerateCmd(),
		newVersionCmd(),
	)
	return root
}

// loadSettings lê o ambiente e aplica as flags globais informadas.
func loadSettings(cmd *cobra.Command, flags *rootFlags) (config.Settings, error) {
	s, err := config.LoadSettings()
	if err != nil {
		return config.Settings{}, err
	}
	if cmd.Flags().Changed("log-level") {
		s.Logging.Level = flags.logLevel
	}
	if cmd.Flags().Changed("log-format") {
		s.Logging.Format = flags.logFormat
	}
	if cmd.Flags().Changed("aws-region") {
		s.AWSRegion = flags.awsRegion
	}
	s.Logging.Out = cmd.OutOrStdout()
	return s, nil
}

// newLoader cria o loader de fontes com a região e o logger das Settings.
func newLoader(s config.Settings, log zerolog.Logger) *loader.Loader {
	return loader.New(loader.WithRegion(s.AWSRegion), loader.WithLogger(log))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "mockserver version %s\n", version)
		},
	}
}
