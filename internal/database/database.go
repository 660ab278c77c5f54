package database

import (
	"errors"
	"fmt"
	"time"

	"github.com/princeprakhar/shopfront-api/internal/config"
	"github.com/princeprakhar/shopfront-api/internal/store"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// CollectionDocument holds one whole collection as a JSON blob.
type CollectionDocument struct {
	Name      string    `gorm:"primaryKey;size:64"`
	Data      []byte    `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// SQLBackend is a store.Backend over a gorm connection.
type SQLBackend struct {
	db      *gorm.DB
	dialect string
}

func NewSQLBackend(db *gorm.DB) *SQLBackend {
	return &SQLBackend{db: db, dialect: db.Dialector.Name()}
}

func (b *SQLBackend) Name() string {
	return b.dialect
}

func (b *SQLBackend) Read(name string) ([]byte, error) {
	var doc CollectionDocument
	err := b.db.Where("name = ?", name).First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, store.ErrMissing
	}
	if err != nil {
		return nil, err
	}
	return doc.Data, nil
}

func (b *SQLBackend) Write(name string, data []byte) error {
	doc := CollectionDocument{
		Name:      name,
		Data:      data,
		UpdatedAt: time.Now(),
	}
	return b.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&doc).Error
}

// Init returns the storage backend selected by STORE_DRIVER.
func Init(cfg *config.Config) (store.Backend, error) {
	switch cfg.StoreDriver {
	case "", "file":
		return store.NewFileBackend(cfg.DataDir), nil
	case "memory":
		return store.NewMemoryBackend(), nil
	case "postgres", "mysql":
		db, err := open(cfg)
		if err != nil {
			return nil, err
		}
		return NewSQLBackend(db), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

func open(cfg *config.Config) (*gorm.DB, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required for the %s store driver", cfg.StoreDriver)
	}

	var dialector gorm.Dialector
	if cfg.StoreDriver == "mysql" {
		dialector = mysql.Open(cfg.DatabaseURL)
	} else {
		dialector = postgres.Open(cfg.DatabaseURL)
	}

	logLevel := gormlogger.Info
	if cfg.IsProduction() {
		logLevel = gormlogger.Warn
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&CollectionDocument{}); err != nil {
		return nil, err
	}
	return db, nil
}
