package store

import (
	"context"
	"encoding/json"
	"time"

	ierr "invoice-link-backend/internal/errors"
	"invoice-link-backend/internal/logger"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	// DefaultLimit applies when Find is called without a positive limit.
	DefaultLimit = 50

	// IDKey is where Find and FindOne place the document identifier.
	IDKey = "_id"

	CreatedAtKey = "created_at"
	UpdatedAtKey = "updated_at"

	defaultTable = "documents"
)

// Document is the schema-free shape the store reads and writes.
type Document map[string]any

// documentRow is the table layout backing every collection.
type documentRow struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Collection string         `gorm:"index;not null"`
	Body       datatypes.JSON `gorm:"not null"`
	CreatedAt  time.Time      `gorm:"index"`
}

// Store is the document store gateway. A Store without a database handle
// is valid: every operation then fails with ErrStoreUnavailable.
type Store struct {
	db     *gorm.DB
	table  string
	logger *logger.Logger
	now    func() time.Time
}

// NewWithDB wraps an already opened handle and migrates the documents table.
func NewWithDB(db *gorm.DB, table string, log *logger.Logger) (*Store, error) {
	if table == "" {
		table = defaultTable
	}
	s := &Store{db: db, table: table, logger: log, now: time.Now}
	if db == nil {
		return s, nil
	}
	if err := db.Table(table).AutoMigrate(&documentRow{}); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to prepare document table").
			Mark(ierr.ErrDatabase)
	}
	return s, nil
}

// Unavailable returns a store with no connection.
func Unavailable(log *logger.Logger) *Store {
	return &Store{table: defaultTable, logger: log, now: time.Now}
}

func (s *Store) Available() bool {
	return s.db != nil
}

// ParseID reports whether id is a well-formed document identifier and
// returns it in canonical form. It needs no connection.
func ParseID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil || len(id) != 36 {
		return uuid.Nil, ierr.NewError("malformed document id").
			WithHintf("Invalid id %q", id).
			Mark(ierr.ErrInvalidIdentifier)
	}
	return parsed, nil
}

func IsValidID(id string) bool {
	_, err := ParseID(id)
	return err == nil
}

// Insert stores doc in collection and returns its generated identifier.
// created_at and updated_at are stamped into the stored body.
func (s *Store) Insert(ctx context.Context, collection string, doc Document) (string, error) {
	if err := s.checkAvailable(); err != nil {
		return "", err
	}

	now := s.now().UTC()
	body := make(Document, len(doc)+2)
	for k, v := range doc {
		if k == IDKey {
			continue
		}
		body[k] = v
	}
	body[CreatedAtKey] = now.Format(time.RFC3339Nano)
	body[UpdatedAtKey] = now.Format(time.RFC3339Nano)

	raw, err := json.Marshal(body)
	if err != nil {
		return "", ierr.WithError(err).
			WithHint("Document could not be encoded").
			Mark(ierr.ErrSystem)
	}

	row := documentRow{
		ID:         uuid.New(),
		Collection: collection,
		Body:       datatypes.JSON(raw),
		CreatedAt:  now,
	}
	if err := s.db.WithContext(ctx).Table(s.table).Create(&row).Error; err != nil {
		return "", ierr.WithError(err).
			WithHint("Failed to store document").
			Mark(ierr.ErrDatabase)
	}

	s.logger.Debugw("document inserted", "collection", collection, "id", row.ID.String())
	return row.ID.String(), nil
}

// Find returns up to limit documents of collection whose top-level keys
// equal the filter values, in insertion order.
func (s *Store) Find(ctx context.Context, collection string, filter Document, limit int) ([]Document, error) {
	if err := s.checkAvailable(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	query := s.db.WithContext(ctx).Table(s.table).Where("collection = ?", collection)
	for key, value := range filter {
		query = query.Where(datatypes.JSONQuery("body").Equals(value, key))
	}

	var rows []documentRow
	if err := query.Order("created_at ASC").Order("id ASC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to read documents").
			Mark(ierr.ErrDatabase)
	}

	docs := make([]Document, 0, len(rows))
	for _, row := range rows {
		doc, err := row.document()
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// FindOne fetches a single document by identifier.
func (s *Store) FindOne(ctx context.Context, collection string, id string) (Document, error) {
	parsed, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	if err := s.checkAvailable(); err != nil {
		return nil, err
	}

	var rows []documentRow
	err = s.db.WithContext(ctx).Table(s.table).
		Where("collection = ? AND id = ?", collection, parsed).
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to read document").
			Mark(ierr.ErrDatabase)
	}
	if len(rows) == 0 {
		return nil, ierr.NewError("document not found").
			WithHintf("Document %s not found", parsed).
			Mark(ierr.ErrNotFound)
	}
	return rows[0].document()
}

// CollectionNames lists every collection holding at least one document.
func (s *Store) CollectionNames(ctx context.Context) ([]string, error) {
	if err := s.checkAvailable(); err != nil {
		return nil, err
	}

	names := []string{}
	err := s.db.WithContext(ctx).Table(s.table).
		Distinct("collection").
		Order("collection").
		Pluck("collection", &names).Error
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list collections").
			Mark(ierr.ErrDatabase)
	}
	return names, nil
}

// Ping checks the connection is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.checkAvailable(); err != nil {
		return err
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return ierr.WithError(err).Mark(ierr.ErrDatabase)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return ierr.WithError(err).
			WithHint("Database is not reachable").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) checkAvailable() error {
	if s.db == nil {
		return ierr.NewError("no store connection").
			WithHint("Database not available").
			Mark(ierr.ErrStoreUnavailable)
	}
	return nil
}

func (r documentRow) document() (Document, error) {
	doc := Document{}
	if len(r.Body) > 0 {
		if err := json.Unmarshal(r.Body, &doc); err != nil {
			return nil, ierr.WithError(err).
				WithHintf("Stored document %s is corrupt", r.ID).
				Mark(ierr.ErrDatabase)
		}
	}
	doc[IDKey] = r.ID.String()
	return doc, nil
}
