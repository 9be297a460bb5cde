package docstore

import (
	"context"
	"strings"
	"time"

	"github.com/hashicorp/go-uuid"
	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DocumentRecord is the row layout shared by every collection.
type DocumentRecord struct {
	Collection string            `gorm:"primaryKey;size:128"`
	ID         string            `gorm:"primaryKey;size:64"`
	Body       datatypes.JSONMap `gorm:"not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (DocumentRecord) TableName() string {
	return "documents"
}

// GormStore keeps documents in a single SQL table with a JSON body column.
type GormStore struct {
	db      *gorm.DB
	txRetry int
}

func NewGormStore(db *gorm.DB, txRetry int) *GormStore {
	return &GormStore{db: db, txRetry: txRetry}
}

// Migrate creates or updates the documents table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&DocumentRecord{})
}

func (s *GormStore) List(ctx context.Context, collection string) ([]Document, error) {
	var records []DocumentRecord
	err := s.db.WithContext(ctx).Where("collection = ?", collection).Order("id").Find(&records).Error
	if err != nil {
		return nil, translateError(err, "list %s", collection)
	}

	return toDocuments(records), nil
}

func (s *GormStore) Get(ctx context.Context, collection, id string) (*Document, error) {
	var record DocumentRecord
	err := s.db.WithContext(ctx).Where("collection = ? AND id = ?", collection, id).First(&record).Error
	if err != nil {
		return nil, translateError(err, "get %s/%s", collection, id)
	}

	return &Document{ID: record.ID, Fields: map[string]any(record.Body)}, nil
}

func (s *GormStore) Create(ctx context.Context, collection string, fields map[string]any) (string, error) {
	id, err := uuid.GenerateUUID()
	if err != nil {
		return "", err
	}

	record := DocumentRecord{Collection: collection, ID: id, Body: datatypes.JSONMap(CloneFields(orEmpty(fields)))}
	err = s.withTxRetry(ctx, func(tx *gorm.DB) error {
		return tx.Create(&record).Error
	})
	if err != nil {
		return "", translateError(err, "create in %s", collection)
	}

	return id, nil
}

func (s *GormStore) Set(ctx context.Context, collection, id string, fields map[string]any) error {
	err := s.withTxRetry(ctx, func(tx *gorm.DB) error {
		var record DocumentRecord
		err := tx.Where("collection = ? AND id = ?", collection, id).First(&record).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			record = DocumentRecord{Collection: collection, ID: id, Body: datatypes.JSONMap(CloneFields(orEmpty(fields)))}
			return tx.Create(&record).Error
		case err != nil:
			return err
		}

		body := CloneFields(map[string]any(record.Body))
		if body == nil {
			body = make(map[string]any)
		}
		for k, v := range fields {
			body[k] = cloneValue(v)
		}

		return s.writeBody(tx, collection, id, body)
	})

	return translateError(err, "set %s/%s", collection, id)
}

func (s *GormStore) Update(ctx context.Context, collection, id string, patch map[string]any) error {
	err := s.withTxRetry(ctx, func(tx *gorm.DB) error {
		var record DocumentRecord
		if err := tx.Where("collection = ? AND id = ?", collection, id).First(&record).Error; err != nil {
			return err
		}

		return s.writeBody(tx, collection, id, ApplyPatch(map[string]any(record.Body), patch))
	})

	return translateError(err, "update %s/%s", collection, id)
}

func (s *GormStore) Delete(ctx context.Context, collection, id string) error {
	err := s.withTxRetry(ctx, func(tx *gorm.DB) error {
		result := tx.Where("collection = ? AND id = ?", collection, id).Delete(&DocumentRecord{})
		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return nil
	})

	return translateError(err, "delete %s/%s", collection, id)
}

func (s *GormStore) Query(ctx context.Context, collection, field string, value any) ([]Document, error) {
	var records []DocumentRecord
	err := s.db.WithContext(ctx).
		Where("collection = ?", collection).
		Where(datatypes.JSONQuery("body").Equals(value, strings.Split(field, ".")...)).
		Order("id").
		Find(&records).Error
	if err != nil {
		return nil, translateError(err, "query %s where %s", collection, field)
	}

	return toDocuments(records), nil
}

func (s *GormStore) writeBody(tx *gorm.DB, collection, id string, body map[string]any) error {
	return tx.Model(&DocumentRecord{}).
		Where("collection = ? AND id = ?", collection, id).
		Updates(map[string]any{"body": datatypes.JSONMap(body), "updated_at": time.Now()}).Error
}

// withTxRetry retries a transaction a few times; a missing row is final.
func (s *GormStore) withTxRetry(ctx context.Context, fn func(tx *gorm.DB) error) error {
	var err error

	retryCount := s.txRetry
	if retryCount < 3 {
		retryCount = 3
	}

	for i := 0; i < retryCount; i++ {
		err = s.db.WithContext(ctx).Transaction(fn)
		if err == nil || errors.Is(err, gorm.ErrRecordNotFound) || ctx.Err() != nil {
			break
		}
	}

	return err
}

func translateError(err error, format string, args ...any) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return errors.Wrapf(ErrUnavailable, format+": %s", append(args, err)...)
	}
}

func toDocuments(records []DocumentRecord) []Document {
	docs := make([]Document, 0, len(records))
	for _, r := range records {
		docs = append(docs, Document{ID: r.ID, Fields: map[string]any(r.Body)})
	}

	return docs
}

func orEmpty(fields map[string]any) map[string]any {
	if fields == nil {
		return map[string]any{}
	}

	return fields
}
