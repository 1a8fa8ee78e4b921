package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Settings é a configuração de runtime do servidor mock. É montada uma única
// vez (ambiente + flags) e passada por argumento; nada aqui é global.
type Settings struct {
	Host      string      `env:"MOCK_HOST" envDefault:"localhost" validate:"required"`
	Port      int         `env:"MOCK_PORT" envDefault:"3000" validate:"gte=1,lte=65535"`
	Randomize bool        `env:"MOCK_RANDOMIZE"`
	Schema    string      `env:"MOCK_SCHEMA" envDefault:"single" validate:"oneof=single pair"`
	Runtime   string      `env:"MOCK_RUNTIME" envDefault:"local" validate:"oneof=local lambda"`
	// AWSRegion força a região das fontes s3://, dynamodb://, ssm:// e secret://.
	// Vazio usa a cadeia padrão do SDK (AWS_REGION, profile).
	AWSRegion string      `env:"MOCK_AWS_REGION"`
	Logging   LoggingConf
	Metrics   MetricsConf
}

// LoggingConf controla o logger zerolog.
type LoggingConf struct {
	Enabled bool   `env:"MOCK_LOG_ENABLED" envDefault:"true"`
	Level   string `env:"MOCK_LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
	Format  string `env:"MOCK_LOG_FORMAT" envDefault:"console" validate:"oneof=json console"`
	// Out substitui o stdout (usado em testes).
	Out io.Writer `validate:"-"`
}

// MetricsConf controla o envio de métricas por requisição.
type MetricsConf struct {
	Datadog DatadogConf
}

type DatadogConf struct {
	Enabled   bool   `env:"DD_ENABLED"`
	Addr      string `env:"DD_AGENT_HOST" validate:"required_if=Enabled true"`
	Namespace string `env:"DD_NAMESPACE" envDefault:"mockserver."`
}

// LoadSettings lê as variáveis de ambiente aplicando os defaults das tags.
func LoadSettings() (Settings, error) {
	var s Settings
	if err := loadEnv(&s); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// RouteSchema converte o nome configurado para Schema.
func (s Settings) RouteSchema() (Schema, error) {
	return ParseSchema(s.Schema)
}

// Validate aplica as regras das tags validate e agrega todas as falhas.
func (s Settings) Validate() error {
	if err := validator.New().Struct(s); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			var errMsgs []string
			for _, e := range validationErrors {
				errMsgs = append(errMsgs, fmt.Sprintf("Campo '%s' falhou na regra '%s'", e.Namespace(), e.Tag()))
			}
			return fmt.Errorf("erros de validação das configurações:\n- %s", strings.Join(errMsgs, "\n- "))
		}
		return fmt.Errorf("erro de validação das configurações: %w", err)
	}
	return nil
}
