package document

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Row is the table layout used by PostgresBackend: one row per named document.
type Row struct {
	Name      string    `gorm:"primaryKey;size:64"`
	Body      string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Row) TableName() string {
	return "bringlist_documents"
}

// PostgresBackend keeps the same JSON document as FileBackend in a single
// table row. Update locks the row with SELECT ... FOR UPDATE.
type PostgresBackend struct {
	db   *gorm.DB
	name string
}

func NewPostgresBackend(ctx context.Context, db *gorm.DB, name string) (*PostgresBackend, error) {
	if name == "" {
		name = "default"
	}
	if err := db.WithContext(ctx).AutoMigrate(&Row{}); err != nil {
		return nil, fmt.Errorf("%w: migrate documents table: %v", ErrStorageUnavailable, err)
	}
	return &PostgresBackend{db: db, name: name}, nil
}

func (b *PostgresBackend) Read(ctx context.Context) ([]byte, error) {
	var row Row
	err := b.db.WithContext(ctx).Where("name = ?", b.name).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read document %q: %v", ErrStorageUnavailable, b.name, err)
	}
	return []byte(row.Body), nil
}

func (b *PostgresBackend) Update(ctx context.Context, fn UpdateFunc) error {
	var fnErr error
	err := b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row Row
		var current []byte
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("name = ?", b.name).First(&row).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
		case err != nil:
			return err
		default:
			current = []byte(row.Body)
		}

		next, err := fn(current)
		if err != nil {
			fnErr = err
			return err
		}
		if next == nil {
			return nil
		}

		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"body", "updated_at"}),
		}).Create(&Row{Name: b.name, Body: string(next)}).Error
	})
	if fnErr != nil {
		return fnErr
	}
	if err != nil {
		return fmt.Errorf("%w: update document %q: %v", ErrStorageUnavailable, b.name, err)
	}
	return nil
}

// Close is a no-op; the connection pool belongs to the caller.
func (b *PostgresBackend) Close() error {
	return nil
}
