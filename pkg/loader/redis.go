package loader

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
)

// RedisClient é o subconjunto do go-redis usado pelo loader.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Close() error
}

// RedisFactory cria um cliente para as opções extraídas da URI.
type RedisFactory func(opts *redis.Options) RedisClient

func newRedisClient(opts *redis.Options) RedisClient {
	return redis.NewClient(opts)
}

// readRedis lê redis://[:senha@]host:porta/chave?db=N com GET.
func readRedis(ctx context.Context, factory RedisFactory, uri string) ([]byte, error) {
	opts, key, err := parseRedisURI(uri)
	if err != nil {
		return nil, err
	}

	client := factory(opts)
	defer client.Close()

	val, err := client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, &NotFoundError{Source: uri, Err: err}
	}
	if err != nil {
		return nil, fmt.Errorf("erro no Redis GET %s: %w", key, err)
	}
	return val, nil
}

func parseRedisURI(uri string) (*redis.Options, string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, "", fmt.Errorf("URL Redis inválida: %w", err)
	}

	key := strings.TrimPrefix(u.Path, "/")
	if u.Host == "" || key == "" {
		return nil, "", fmt.Errorf("URL Redis inválida: esperado redis://host:porta/chave, recebido %s", uri)
	}

	opts := &redis.Options{Addr: u.Host}
	if u.Port() == "" {
		opts.Addr = u.Host + ":6379"
	}
	if u.User != nil {
		opts.Username = u.User.Username()
		opts.Password, _ = u.User.Password()
	}
	if db := u.Query().Get("db"); db != "" {
		n, err := strconv.Atoi(db)
		if err != nil {
			return nil, "", fmt.Errorf("db Redis inválido %q: %w", db, err)
		}
		opts.DB = n
	}
	return opts, key, nil
}
