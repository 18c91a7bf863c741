// Package sqlite provides a SQLite-backed implementation of the storage.Store
// interface.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/snapsplit/snapsplit/internal/models"
	"github.com/snapsplit/snapsplit/internal/storage"
)

// Ensure SplitStore implements storage.Store
var _ storage.Store = (*SplitStore)(nil)

// SplitStore implements storage.Store using SQLite.
type SplitStore struct {
	db *sql.DB
}

// New creates a new SplitStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SplitStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SplitStore{db: db}, nil
}

// Close closes the database connection.
func (s *SplitStore) Close() error {
	return s.db.Close()
}

// CreateSplit persists a record keyed by its fingerprint. A fingerprint that
// already exists is left untouched: identical inputs produce identical
// records, so the first write wins and later ones are no-ops.
func (s *SplitStore) CreateSplit(ctx context.Context, record *models.SplitRecord) error {
	if record.ID == "" {
		return fmt.Errorf("split record has no fingerprint")
	}
	if record.CreatedAt == 0 {
		record.CreatedAt = time.Now().Unix()
	}

	receiptJSON, err := marshalNullable(record.Receipt)
	if err != nil {
		return fmt.Errorf("failed to encode receipt: %w", err)
	}
	peopleJSON, err := json.Marshal(record.People)
	if err != nil {
		return fmt.Errorf("failed to encode people: %w", err)
	}
	assignmentsJSON, err := json.Marshal(record.Assignments)
	if err != nil {
		return fmt.Errorf("failed to encode assignments: %w", err)
	}
	resultJSON, err := json.Marshal(record.Result)
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	paymentJSON, err := marshalNullable(record.PaymentDetails)
	if err != nil {
		return fmt.Errorf("failed to encode payment details: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO splits
		    (id, receipt_json, people_json, assignments_json, split_evenly,
		     discount, tax, tip, result_json, image_ref, share_link, notes,
		     payment_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO NOTHING`,
		record.ID, receiptJSON, string(peopleJSON), string(assignmentsJSON),
		boolToInt(record.SplitEvenly), record.Discount, record.Tax, record.Tip,
		string(resultJSON), record.ImageRef, record.ShareLink, record.Notes,
		paymentJSON, record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert split: %w", err)
	}
	return nil
}

// GetSplit retrieves a record by fingerprint.
func (s *SplitStore) GetSplit(ctx context.Context, id string) (*models.SplitRecord, error) {
	record := &models.SplitRecord{}
	var (
		receiptJSON     sql.NullString
		peopleJSON      string
		assignmentsJSON string
		splitEvenly     int
		resultJSON      string
		paymentJSON     sql.NullString
	)

	err := s.db.QueryRowContext(ctx,
		`SELECT id, receipt_json, people_json, assignments_json, split_evenly,
		        discount, tax, tip, result_json, image_ref, share_link, notes,
		        payment_json, created_at
		   FROM splits WHERE id = ?`,
		id,
	).Scan(&record.ID, &receiptJSON, &peopleJSON, &assignmentsJSON, &splitEvenly,
		&record.Discount, &record.Tax, &record.Tip, &resultJSON, &record.ImageRef,
		&record.ShareLink, &record.Notes, &paymentJSON, &record.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get split: %w", err)
	}

	record.SplitEvenly = splitEvenly != 0
	if receiptJSON.Valid {
		record.Receipt = &models.Receipt{}
		if err := json.Unmarshal([]byte(receiptJSON.String), record.Receipt); err != nil {
			return nil, fmt.Errorf("failed to decode receipt: %w", err)
		}
	}
	if err := json.Unmarshal([]byte(peopleJSON), &record.People); err != nil {
		return nil, fmt.Errorf("failed to decode people: %w", err)
	}
	if err := json.Unmarshal([]byte(assignmentsJSON), &record.Assignments); err != nil {
		return nil, fmt.Errorf("failed to decode assignments: %w", err)
	}
	if err := json.Unmarshal([]byte(resultJSON), &record.Result); err != nil {
		return nil, fmt.Errorf("failed to decode result: %w", err)
	}
	if paymentJSON.Valid {
		if err := json.Unmarshal([]byte(paymentJSON.String), &record.PaymentDetails); err != nil {
			return nil, fmt.Errorf("failed to decode payment details: %w", err)
		}
	}

	return record, nil
}

// marshalNullable encodes v as JSON, mapping nil pointers and nil maps to a
// SQL NULL.
func marshalNullable(v any) (any, error) {
	switch t := v.(type) {
	case *models.Receipt:
		if t == nil {
			return nil, nil
		}
	case map[string]string:
		if t == nil {
			return nil, nil
		}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
