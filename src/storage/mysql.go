package storage

import (
	"context"
	"fmt"

	"stock-screener/src/logger"
	"stock-screener/src/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const mysqlBatchSize = 100

// -----------------------------------------------------------------------------

type MySQLRepository struct {
	Config *models.MConfig
	DB     *gorm.DB
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

func NewMySQLRepository(cfg *models.MConfig, log *logger.Logger) *MySQLRepository {
	return &MySQLRepository{
		Config: cfg,
		Logger: log,
	}
}

// -----------------------------------------------------------------------------

func (d *MySQLRepository) Initialize(ctx context.Context) error {
	db, err := gorm.Open(mysql.New(mysql.Config{
		DriverName: "mysql",
		DSN:        d.Config.Storage.DBConnectionString,
	}), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	if err != nil {
		return fmt.Errorf("failed to open mysql: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return err
	}

	if err := db.WithContext(ctx).AutoMigrate(&quoteDocument{}); err != nil {
		return fmt.Errorf("failed to migrate quotes: %w", err)
	}

	d.DB = db
	d.Logger.Info("MySQL repository ready")
	return nil
}

// -----------------------------------------------------------------------------

func (d *MySQLRepository) ReplaceAll(ctx context.Context, quotes []models.MQuote) error {
	docs := toDocuments(quotes)
	return d.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&quoteDocument{}).Error; err != nil {
			return fmt.Errorf("failed to clear quotes: %w", err)
		}
		if len(docs) == 0 {
			return nil
		}
		return tx.CreateInBatches(docs, mysqlBatchSize).Error
	})
}

// -----------------------------------------------------------------------------

func (d *MySQLRepository) LoadAll(ctx context.Context) ([]models.MQuote, error) {
	var docs []quoteDocument
	if err := d.DB.WithContext(ctx).Order("position").Find(&docs).Error; err != nil {
		return nil, err
	}
	return fromDocuments(docs), nil
}

// -----------------------------------------------------------------------------

func (d *MySQLRepository) Close() error {
	if d.DB == nil {
		return nil
	}
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
