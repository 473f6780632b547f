package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/stavsoft/boqflow/internal/common"
	"github.com/stavsoft/boqflow/internal/model"
	"github.com/stavsoft/boqflow/internal/normalize"
)

const overrideCacheTTL = 5 * time.Minute

// GetOverride retrieves an override entry by item code. A missing entry
// is not an error: the result is (nil, nil).
func (s *SQLiteStorage) GetOverride(ctx context.Context, code string) (*model.OverrideEntry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(code, "code"); err != nil {
		return nil, err
	}

	code = normalize.Code(code)

	if entry := s.getCachedOverride(code); entry != nil {
		return entry, nil
	}

	var entry model.OverrideEntry
	err := s.db.QueryRowContext(ctx, `
		SELECT code, category, last_updated, use_count
		FROM overrides
		WHERE code = ?
	`, code).Scan(
		&entry.Code,
		&entry.Category,
		&entry.LastUpdated,
		&entry.UseCount,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get override: %w", err)
	}

	s.cacheOverride(&entry)

	return &entry, nil
}

// SaveOverride stores or overwrites an override entry. Callers must have
// obtained explicit user consent before invoking this; the storage layer
// does not second-guess them.
func (s *SQLiteStorage) SaveOverride(ctx context.Context, entry *model.OverrideEntry) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateOverride(entry); err != nil {
		return err
	}

	entry.Code = normalize.Code(entry.Code)
	if entry.LastUpdated.IsZero() {
		entry.LastUpdated = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO overrides (code, category, last_updated, use_count)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(code) DO UPDATE SET
			category = excluded.category,
			last_updated = excluded.last_updated,
			use_count = excluded.use_count
	`, entry.Code, entry.Category, entry.LastUpdated, entry.UseCount)

	if err != nil {
		return fmt.Errorf("failed to save override: %w", err)
	}

	s.cacheOverride(entry)

	return nil
}

// GetAllOverrides retrieves all override entries ordered by code.
func (s *SQLiteStorage) GetAllOverrides(ctx context.Context) ([]model.OverrideEntry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT code, category, last_updated, use_count
		FROM overrides
		ORDER BY code
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query overrides: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []model.OverrideEntry
	for rows.Next() {
		var entry model.OverrideEntry
		err := rows.Scan(
			&entry.Code,
			&entry.Category,
			&entry.LastUpdated,
			&entry.UseCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan override: %w", err)
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// DeleteOverride deletes one override entry.
func (s *SQLiteStorage) DeleteOverride(ctx context.Context, code string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(code, "code"); err != nil {
		return err
	}

	code = normalize.Code(code)

	result, err := s.db.ExecContext(ctx, `DELETE FROM overrides WHERE code = ?`, code)
	if err != nil {
		return fmt.Errorf("failed to delete override: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}

	s.cacheMutex.Lock()
	delete(s.overrideCache, code)
	s.cacheMutex.Unlock()

	return nil
}

// ClearOverrides removes every override entry.
func (s *SQLiteStorage) ClearOverrides(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM overrides`); err != nil {
		return fmt.Errorf("failed to clear overrides: %w", err)
	}

	s.cacheMutex.Lock()
	s.overrideCache = make(map[string]*model.OverrideEntry)
	s.cacheMutex.Unlock()

	return nil
}

// CountOverrides reports the number of stored override entries.
func (s *SQLiteStorage) CountOverrides(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM overrides`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count overrides: %w", err)
	}
	return count, nil
}

// getCachedOverride retrieves an entry from the cache.
func (s *SQLiteStorage) getCachedOverride(code string) *model.OverrideEntry {
	s.cacheMutex.RLock()

	if time.Now().After(s.cacheExpiry) {
		s.cacheMutex.RUnlock()
		s.cacheMutex.Lock()
		defer s.cacheMutex.Unlock()

		// Double-check after acquiring the write lock.
		if time.Now().After(s.cacheExpiry) {
			s.overrideCache = make(map[string]*model.OverrideEntry)
		}
		return nil
	}

	entry := s.overrideCache[code]
	s.cacheMutex.RUnlock()
	return entry
}

// cacheOverride adds an entry to the cache.
func (s *SQLiteStorage) cacheOverride(entry *model.OverrideEntry) {
	s.cacheMutex.Lock()
	defer s.cacheMutex.Unlock()

	if len(s.overrideCache) == 0 {
		s.cacheExpiry = time.Now().Add(overrideCacheTTL)
	}
	s.overrideCache[entry.Code] = entry
}

// WarmOverrideCache loads all overrides into the cache ahead of a batch
// run, so per-item lookups stay off the database.
func (s *SQLiteStorage) WarmOverrideCache(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	entries, err := s.GetAllOverrides(ctx)
	if err != nil {
		return err
	}

	s.cacheMutex.Lock()
	defer s.cacheMutex.Unlock()

	s.overrideCache = make(map[string]*model.OverrideEntry)
	for i := range entries {
		s.overrideCache[entries[i].Code] = &entries[i]
	}

	s.cacheExpiry = time.Now().Add(overrideCacheTTL)
	return nil
}
