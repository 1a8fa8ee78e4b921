package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	dynamotypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	smtypes "github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	ssmtypes "github.com/aws/aws-sdk-go-v2/service/ssm/types"
)

// --- Interfaces para Mocking ---

type S3Downloader interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

type DynamoGetter interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
}

type SSMClient interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

type SecretsClient interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// readS3 lê s3://bucket/key.
func readS3(ctx context.Context, client S3Downloader, uri string) ([]byte, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("URL S3 inválida: %w", err)
	}
	bucket := u.Host
	key := strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return nil, fmt.Errorf("URL S3 inválida: esperado s3://bucket/key, recebido %s", uri)
	}

	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	})
	if err != nil {
		var noKey *s3types.NoSuchKey
		var noBucket *s3types.NoSuchBucket
		if errors.As(err, &noKey) || errors.As(err, &noBucket) {
			return nil, &NotFoundError{Source: uri, Err: err}
		}
		return nil, fmt.Errorf("erro ao baixar do S3: %w", err)
	}
	defer out.Body.Close()

	return io.ReadAll(out.Body)
}

// readDynamoDB lê dynamodb://tabela/chave?col=config&pk=id.
func readDynamoDB(ctx context.Context, client DynamoGetter, uri string) ([]byte, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("URL DynamoDB inválida: %w", err)
	}

	tableName := u.Host
	pkValue := strings.TrimPrefix(u.Path, "/")
	if tableName == "" || pkValue == "" {
		return nil, fmt.Errorf("URL DynamoDB inválida: esperado dynamodb://tabela/chave, recebido %s", uri)
	}

	colName := u.Query().Get("col")
	if colName == "" {
		colName = "config" // Coluna padrão onde o documento está salvo
	}

	pkName := u.Query().Get("pk")
	if pkName == "" {
		pkName = "id" // Nome padrão da Partition Key
	}

	out, err := client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &tableName,
		Key: map[string]dynamotypes.AttributeValue{
			pkName: &dynamotypes.AttributeValueMemberS{Value: pkValue},
		},
	})
	if err != nil {
		var noTable *dynamotypes.ResourceNotFoundException
		if errors.As(err, &noTable) {
			return nil, &NotFoundError{Source: uri, Err: err}
		}
		return nil, fmt.Errorf("erro no DynamoDB GetItem: %w", err)
	}

	if len(out.Item) == 0 {
		return nil, &NotFoundError{Source: uri}
	}

	var item map[string]interface{}
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, err
	}

	content, ok := item[colName].(string)
	if !ok {
		return nil, fmt.Errorf("coluna '%s' inválida ou vazia no DynamoDB", colName)
	}
	return []byte(content), nil
}

// readParameter lê ssm://<nome>; o nome é tudo após o esquema, sem a query.
func readParameter(ctx context.Context, client SSMClient, uri string) ([]byte, error) {
	name := stripQuery(strings.TrimPrefix(uri, "ssm://"))
	if name == "" {
		return nil, fmt.Errorf("parâmetro SSM vazio em %s", uri)
	}
	decrypt := true

	out, err := client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           &name,
		WithDecryption: &decrypt,
	})
	if err != nil {
		var notFound *ssmtypes.ParameterNotFound
		if errors.As(err, &notFound) {
			return nil, &NotFoundError{Source: uri, Err: err}
		}
		return nil, fmt.Errorf("erro no SSM GetParameter: %w", err)
	}
	if out.Parameter == nil || out.Parameter.Value == nil {
		return nil, &NotFoundError{Source: uri}
	}
	return []byte(*out.Parameter.Value), nil
}

// readSecret lê secret://<id>.
func readSecret(ctx context.Context, client SecretsClient, uri string) ([]byte, error) {
	secretID := stripQuery(strings.TrimPrefix(uri, "secret://"))
	if secretID == "" {
		return nil, fmt.Errorf("segredo vazio em %s", uri)
	}

	out, err := client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: &secretID,
	})
	if err != nil {
		var notFound *smtypes.ResourceNotFoundException
		if errors.As(err, &notFound) {
			return nil, &NotFoundError{Source: uri, Err: err}
		}
		return nil, fmt.Errorf("erro no SecretsManager: %w", err)
	}

	switch {
	case out.SecretString != nil:
		return []byte(*out.SecretString), nil
	case len(out.SecretBinary) > 0:
		return out.SecretBinary, nil
	default:
		return nil, &NotFoundError{Source: uri}
	}
}

func stripQuery(s string) string {
	before, _, _ := strings.Cut(s, "?")
	return before
}
