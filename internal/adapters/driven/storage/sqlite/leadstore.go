package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/bfreelanceseo/MapScraperPro/internal/core/domain"
	"github.com/bfreelanceseo/MapScraperPro/internal/core/ports/driven"
)

// Ensure LeadStore implements the interface.
var _ driven.LeadStore = (*LeadStore)(nil)

// LeadStore implements driven.LeadStore on a private in-memory database.
// Appends and resets run in a transaction; order is the insertion sequence.
// The identifier lives in its own column and data holds only the fields.
type LeadStore struct {
	store *Store
}

// NewLeadStore opens a fresh database for one session.
func NewLeadStore() (*LeadStore, error) {
	store, err := NewStore()
	if err != nil {
		return nil, err
	}
	return &LeadStore{store: store}, nil
}

// NewLeadStoreFactory returns a factory producing independent stores.
func NewLeadStoreFactory() driven.LeadStoreFactory {
	return func() (driven.LeadStore, error) {
		return NewLeadStore()
	}
}

// Snapshot returns a copy of all leads in insertion order.
func (s *LeadStore) Snapshot(ctx context.Context) ([]domain.Lead, error) {
	rows, err := s.store.db.QueryContext(ctx, `SELECT id, data FROM leads ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("querying leads: %w", err)
	}
	defer rows.Close()

	leads := make([]domain.Lead, 0)
	for rows.Next() {
		var id, data string
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("scanning lead: %w", err)
		}
		lead := domain.NewLead(id)
		if err := json.Unmarshal([]byte(data), &lead.Fields); err != nil {
			return nil, fmt.Errorf("unmarshalling lead %s: %w", id, err)
		}
		leads = append(leads, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating leads: %w", err)
	}
	return leads, nil
}

// Append adds leads to the end of the collection in one transaction.
func (s *LeadStore) Append(ctx context.Context, leads []domain.Lead) error {
	if len(leads) == 0 {
		return nil
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO leads (id, data) VALUES (?, ?)`)
		if err != nil {
			return fmt.Errorf("preparing insert: %w", err)
		}
		defer stmt.Close()

		for i := range leads {
			data, err := json.Marshal(leads[i].Fields)
			if err != nil {
				return fmt.Errorf("marshalling lead %s: %w", leads[i].ID, err)
			}
			if _, err := stmt.ExecContext(ctx, leads[i].ID, string(data)); err != nil {
				return fmt.Errorf("inserting lead %s: %w", leads[i].ID, err)
			}
		}
		return nil
	})
}

// Reset removes all leads.
func (s *LeadStore) Reset(ctx context.Context) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM leads`); err != nil {
			return fmt.Errorf("deleting leads: %w", err)
		}
		return nil
	})
}

// Len returns the number of stored leads.
func (s *LeadStore) Len(ctx context.Context) (int, error) {
	var n int
	if err := s.store.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM leads`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting leads: %w", err)
	}
	return n, nil
}

// Close releases the database.
func (s *LeadStore) Close() error {
	return s.store.Close()
}

func (s *LeadStore) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
