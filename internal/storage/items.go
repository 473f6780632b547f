package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/stavsoft/boqflow/internal/common"
	"github.com/stavsoft/boqflow/internal/model"
	"github.com/stavsoft/boqflow/internal/service"
)

// SaveItems inserts or replaces a batch of items in one transaction.
func (s *SQLiteStorage) SaveItems(ctx context.Context, items []model.Item) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateItems(items); err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO items (
			id, project, sheet, code, description, full_description, unit,
			quantity, unit_price, total_price, row_position, role,
			role_locked, category, category_source, confidence
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			code = excluded.code,
			description = excluded.description,
			full_description = excluded.full_description,
			unit = excluded.unit,
			quantity = excluded.quantity,
			unit_price = excluded.unit_price,
			total_price = excluded.total_price,
			row_position = excluded.row_position,
			role = excluded.role,
			role_locked = excluded.role_locked,
			category = excluded.category,
			category_source = excluded.category_source,
			confidence = excluded.confidence
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i := range items {
		it := &items[i]
		_, err = stmt.ExecContext(ctx,
			it.ID, it.Project, it.Sheet, it.Code, it.Description,
			it.FullDescription, it.Unit, it.Quantity, it.UnitPrice,
			it.TotalPrice, it.RowPosition, string(it.Role), it.RoleLocked,
			it.Category, string(it.CategorySource), it.Confidence,
		)
		if err != nil {
			return fmt.Errorf("failed to save item %s: %w", it.ID, err)
		}
	}

	return tx.Commit()
}

// GetItems retrieves items matching the filter, ordered by sheet and row
// position so the cascade propagator sees original sheet order.
func (s *SQLiteStorage) GetItems(ctx context.Context, filter service.ItemFilter) ([]model.Item, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, project, sheet, code, description, full_description, unit,
			quantity, unit_price, total_price, row_position, role,
			role_locked, category, category_source, confidence
		FROM items
		WHERE 1=1`
	var args []any

	if filter.Project != "" {
		query += " AND project = ?"
		args = append(args, filter.Project)
	}
	if filter.Sheet != "" {
		query += " AND sheet = ?"
		args = append(args, filter.Sheet)
	}
	if filter.Category != "" {
		query += " AND category = ?"
		args = append(args, filter.Category)
	}
	if filter.Unclassified {
		query += " AND (category IS NULL OR category = '')"
	}

	query += " ORDER BY sheet, row_position"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var items []model.Item
	for rows.Next() {
		item, scanErr := scanItem(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		items = append(items, *item)
	}

	return items, rows.Err()
}

// GetItemByID retrieves a single item.
func (s *SQLiteStorage) GetItemByID(ctx context.Context, id string) (*model.Item, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, project, sheet, code, description, full_description, unit,
			quantity, unit_price, total_price, row_position, role,
			role_locked, category, category_source, confidence
		FROM items
		WHERE id = ?
	`, id)

	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateItemClassification persists the engine-owned fields of one item
// and appends an audit record.
func (s *SQLiteStorage) UpdateItemClassification(ctx context.Context, item *model.Item) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if item == nil {
		return fmt.Errorf("%w: item", ErrNilParameter)
	}
	if err := validateString(item.ID, "item.ID"); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx, `
		UPDATE items
		SET role = ?, role_locked = ?, category = ?, category_source = ?, confidence = ?
		WHERE id = ?
	`, string(item.Role), item.RoleLocked, item.Category, string(item.CategorySource), item.Confidence, item.ID)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}

	if item.Category != "" {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO classification_history (item_id, category, category_source, confidence)
			VALUES (?, ?, ?, ?)
		`, item.ID, item.Category, string(item.CategorySource), item.Confidence)
		if err != nil {
			return fmt.Errorf("failed to record classification history: %w", err)
		}
	}

	return tx.Commit()
}

// DeleteProjectItems removes every item belonging to a project.
func (s *SQLiteStorage) DeleteProjectItems(ctx context.Context, project string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(project, "project"); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM items WHERE project = ?`, project); err != nil {
		return fmt.Errorf("failed to delete project items: %w", err)
	}
	return nil
}

// ListProjects returns the distinct project names in the store.
func (s *SQLiteStorage) ListProjects(ctx context.Context) ([]string, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT project FROM items ORDER BY project`)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var projects []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
	}

	return projects, rows.Err()
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*model.Item, error) {
	var it model.Item
	var role, source sql.NullString
	var code, description, fullDescription, unit sql.NullString
	var quantity, unitPrice, totalPrice sql.NullFloat64
	var category sql.NullString

	err := row.Scan(
		&it.ID, &it.Project, &it.Sheet, &code, &description,
		&fullDescription, &unit, &quantity, &unitPrice, &totalPrice,
		&it.RowPosition, &role, &it.RoleLocked, &category, &source,
		&it.Confidence,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan item: %w", err)
	}

	it.Code = code.String
	it.Description = description.String
	it.FullDescription = fullDescription.String
	it.Unit = unit.String
	it.Role = model.RowRole(role.String)
	it.Category = category.String
	it.CategorySource = model.CategorySource(source.String)

	if quantity.Valid {
		v := quantity.Float64
		it.Quantity = &v
	}
	if unitPrice.Valid {
		v := unitPrice.Float64
		it.UnitPrice = &v
	}
	if totalPrice.Valid {
		v := totalPrice.Float64
		it.TotalPrice = &v
	}

	return &it, nil
}
