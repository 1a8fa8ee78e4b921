// Package loader lê o documento de rotas de uma fonte (arquivo local, S3,
// DynamoDB, SSM, Secrets Manager ou Redis) e o entrega ao validador.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/raywall/fast-mock-server/pkg/config"
	"github.com/rs/zerolog"
)

// Loader resolve fontes no formato:
//
//	routes.json | file://routes.yaml
//	s3://bucket/key.json
//	dynamodb://tabela/chave?pk=id&col=config
//	ssm:///caminho/do/parametro
//	secret://id-do-segredo
//	redis://[:senha@]host:porta/chave?db=0
//
// Clientes AWS são criados sob demanda a partir da configuração padrão
// (env, profile ou IAM role), uma única vez por Loader.
type Loader struct {
	region string
	logger zerolog.Logger

	s3      S3Downloader
	dynamo  DynamoGetter
	ssm     SSMClient
	secrets SecretsClient
	redis   RedisFactory

	awsOnce sync.Once
	awsCfg  aws.Config
	awsErr  error
}

// Option configura o Loader.
type Option func(*Loader)

// WithRegion força a região AWS.
func WithRegion(region string) Option {
	return func(l *Loader) { l.region = region }
}

// WithLogger define o logger do carregamento.
func WithLogger(logger zerolog.Logger) Option {
	return func(l *Loader) { l.logger = logger }
}

func WithS3Client(c S3Downloader) Option {
	return func(l *Loader) { l.s3 = c }
}

func WithDynamoClient(c DynamoGetter) Option {
	return func(l *Loader) { l.dynamo = c }
}

func WithSSMClient(c SSMClient) Option {
	return func(l *Loader) { l.ssm = c }
}

func WithSecretsClient(c SecretsClient) Option {
	return func(l *Loader) { l.secrets = c }
}

// WithRedisFactory substitui a criação do cliente Redis.
func WithRedisFactory(f RedisFactory) Option {
	return func(l *Loader) { l.redis = f }
}

// New cria um Loader.
func New(opts ...Option) *Loader {
	l := &Loader{
		logger: zerolog.Nop(),
		redis:  newRedisClient,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load lê a fonte, converte YAML para JSON quando necessário e valida o
// documento com o schema informado.
func (l *Loader) Load(ctx context.Context, source string, schema config.Schema) ([]config.RouteDefinition, error) {
	raw, err := l.Read(ctx, source)
	if err != nil {
		return nil, err
	}

	if isYAML(source) {
		raw, err = yamlToJSON(raw)
		if err != nil {
			return nil, &config.ParseError{Err: err}
		}
	}

	validator := config.NewValidator(schema)
	defs, err := validator.Validate(raw)
	if err != nil {
		return nil, err
	}

	l.logger.Debug().
		Str("source", source).
		Str("schema", validator.Schema().String()).
		Int("routes", len(defs)).
		Msg("configuração carregada")
	return defs, nil
}

// Read devolve o conteúdo bruto da fonte.
func (l *Loader) Read(ctx context.Context, source string) ([]byte, error) {
	scheme, _, found := strings.Cut(source, "://")
	if !found {
		scheme = "file"
	}
	if scheme == "file" {
		return readFile(source)
	}

	var (
		data []byte
		err  error
	)
	switch scheme {
	case "s3":
		client := l.s3
		if client == nil {
			cfg, cfgErr := l.awsConfig(ctx)
			if cfgErr != nil {
				return nil, cfgErr
			}
			client = s3.NewFromConfig(cfg)
		}
		data, err = readS3(ctx, client, source)

	case "dynamodb":
		client := l.dynamo
		if client == nil {
			cfg, cfgErr := l.awsConfig(ctx)
			if cfgErr != nil {
				return nil, cfgErr
			}
			client = dynamodb.NewFromConfig(cfg)
		}
		data, err = readDynamoDB(ctx, client, source)

	case "ssm":
		client := l.ssm
		if client == nil {
			cfg, cfgErr := l.awsConfig(ctx)
			if cfgErr != nil {
				return nil, cfgErr
			}
			client = ssm.NewFromConfig(cfg)
		}
		data, err = readParameter(ctx, client, source)

	case "secret":
		client := l.secrets
		if client == nil {
			cfg, cfgErr := l.awsConfig(ctx)
			if cfgErr != nil {
				return nil, cfgErr
			}
			client = secretsmanager.NewFromConfig(cfg)
		}
		data, err = readSecret(ctx, client, source)

	case "redis":
		data, err = readRedis(ctx, l.redis, source)

	default:
		return nil, &UnsupportedSourceError{Scheme: scheme}
	}

	if err != nil {
		var nf *NotFoundError
		if errors.As(err, &nf) {
			return nil, err
		}
		return nil, fmt.Errorf("falha leitura config (%s): %w", source, err)
	}
	return data, nil
}

func (l *Loader) awsConfig(ctx context.Context) (aws.Config, error) {
	l.awsOnce.Do(func() {
		var opts []func(*awsconfig.LoadOptions) error
		if l.region != "" {
			opts = append(opts, awsconfig.WithRegion(l.region))
		}
		l.awsCfg, l.awsErr = awsconfig.LoadDefaultConfig(ctx, opts...)
	})
	if l.awsErr != nil {
		return aws.Config{}, fmt.Errorf("falha ao carregar configuração AWS: %w", l.awsErr)
	}
	return l.awsCfg, nil
}

func readFile(source string) ([]byte, error) {
	// Suporta tanto "file://routes.json" quanto apenas "routes.json"
	cleanPath := strings.TrimPrefix(source, "file://")
	data, err := os.ReadFile(cleanPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &NotFoundError{Source: cleanPath, Err: err}
	}
	if err != nil {
		return nil, fmt.Errorf("falha leitura config (%s): %w", cleanPath, err)
	}
	return data, nil
}

// isYAML decide pelo sufixo do caminho ou pelo parâmetro format=yaml.
func isYAML(source string) bool {
	u, err := url.Parse(source)
	if err != nil {
		ext := strings.ToLower(path.Ext(source))
		return ext == ".yaml" || ext == ".yml"
	}
	switch strings.ToLower(u.Query().Get("format")) {
	case "yaml", "yml":
		return true
	case "json":
		return false
	}
	p := u.Path
	if u.Scheme == "" || u.Scheme == "file" {
		p = strings.TrimPrefix(strings.SplitN(source, "?", 2)[0], "file://")
	}
	ext := strings.ToLower(path.Ext(p))
	return ext == ".yaml" || ext == ".yml"
}
