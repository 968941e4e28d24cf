package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"stock-screener/src/logger"
	"stock-screener/src/models"

	"github.com/redis/go-redis/v9"
)

const defaultRedisPrefix = "screener"

// -----------------------------------------------------------------------------

// RedisRepository stores the snapshot as a list of JSON documents under
// "<prefix>:quotes", replaced inside MULTI/EXEC.
type RedisRepository struct {
	Config *models.MConfig
	Client *redis.Client
	Logger *logger.Logger
	key    string
}

// -----------------------------------------------------------------------------

func NewRedisRepository(cfg *models.MConfig, log *logger.Logger) *RedisRepository {
	prefix := cfg.Storage.DBName
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &RedisRepository{
		Config: cfg,
		Logger: log,
		key:    quotesKey(prefix),
	}
}

func quotesKey(prefix string) string {
	return prefix + ":quotes"
}

// -----------------------------------------------------------------------------

// Initialize accepts a redis:// URL or a bare host:port.
func (d *RedisRepository) Initialize(ctx context.Context) error {
	opts, err := redis.ParseURL(d.Config.Storage.DBConnectionString)
	if err != nil {
		opts = &redis.Options{Addr: d.Config.Storage.DBConnectionString}
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return fmt.Errorf("redis ping: %w", err)
	}

	d.Client = client
	d.Logger.Info("Redis repository ready (key: %s)", d.key)
	return nil
}

// -----------------------------------------------------------------------------

func (d *RedisRepository) ReplaceAll(ctx context.Context, quotes []models.MQuote) error {
	members, err := encodeDocuments(quotes)
	if err != nil {
		return err
	}

	_, err = d.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, d.key)
		if len(members) > 0 {
			pipe.RPush(ctx, d.key, members...)
		}
		return nil
	})
	return err
}

// -----------------------------------------------------------------------------

func (d *RedisRepository) LoadAll(ctx context.Context) ([]models.MQuote, error) {
	raw, err := d.Client.LRange(ctx, d.key, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	return decodeDocuments(raw)
}

// -----------------------------------------------------------------------------

func (d *RedisRepository) Close() error {
	if d.Client != nil {
		return d.Client.Close()
	}
	return nil
}

// -----------------------------------------------------------------------------

func encodeDocuments(quotes []models.MQuote) ([]any, error) {
	members := make([]any, len(quotes))
	for i, q := range quotes {
		b, err := json.Marshal(toDocument(i, q))
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", q.Ticker, err)
		}
		members[i] = string(b)
	}
	return members, nil
}

func decodeDocuments(raw []string) ([]models.MQuote, error) {
	docs := make([]quoteDocument, len(raw))
	for i, s := range raw {
		if err := json.Unmarshal([]byte(s), &docs[i]); err != nil {
			return nil, fmt.Errorf("decode quote %d: %w", i, err)
		}
	}
	return fromDocuments(docs), nil
}
