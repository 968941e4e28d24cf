package storage

import (
	"strings"

	"stock-screener/src/helpers"
	"stock-screener/src/interfaces"
	"stock-screener/src/logger"
	"stock-screener/src/models"
)

// NewRepository picks the backend named by storage.db_type. The returned
// repository still needs Initialize.
func NewRepository(cfg *models.MConfig, log *logger.Logger) (interfaces.IQuoteRepository, error) {
	switch strings.ToLower(cfg.Storage.DBType) {
	case "sqlite", "":
		return NewSQLiteRepository(cfg, log.Named("SQLiteRepository")), nil
	case "postgres", "postgresql":
		return NewPostgresRepository(cfg, log.Named("PostgresRepository"))
	case "mysql":
		return NewMySQLRepository(cfg, log.Named("MySQLRepository")), nil
	case "mongo", "mongodb":
		return NewMongoRepository(cfg, log.Named("MongoRepository")), nil
	case "redis":
		return NewRedisRepository(cfg, log.Named("RedisRepository")), nil
	case "memory":
		return NewMemoryRepository(), nil
	default:
		return nil, helpers.NewConfigurationError("unsupported db_type %q", cfg.Storage.DBType)
	}
}
