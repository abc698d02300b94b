package repository

import (
	"fmt"

	"github.com/alaaMelook/Nature-Hug-sub001/pkg/config"
	"github.com/alaaMelook/Nature-Hug-sub001/pkg/models"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// Store is the MySQL-backed storage layer. All order preconditions
// (cancellable, not yet packed, enough stock) are expressed as predicates
// of the mutating statements themselves so they hold under concurrency.
type Store struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewStore(cfg *config.MySQLConfig, logger *zap.Logger) (*Store, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MySQL: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	// Auto migrate
	if err := db.AutoMigrate(
		&models.Customer{},
		&models.Product{},
		&models.Material{},
		&models.ProductMaterial{},
		&models.PackagingMaterial{},
		&models.Supplier{},
		&models.Order{},
		&models.OrderItem{},
		&models.PromoCode{},
		&models.Member{},
		&models.Governorate{},
		&models.Review{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return &Store{db: db, logger: logger}, nil
}

// NewStoreWithDB wires an existing gorm handle; used by tests and tools.
func NewStoreWithDB(db *gorm.DB, logger *zap.Logger) *Store {
	return &Store{db: db, logger: logger}
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
