package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type assetRepository struct {
	db *sql.DB
}

// Insert persists the record and writes the storage-assigned id back onto it.
// Any id supplied by the caller is ignored. No field validation happens here;
// that is the service layer's responsibility.
func (r *assetRepository) Insert(ctx context.Context, asset *Asset) (int64, error) {
	if asset == nil {
		return 0, fmt.Errorf("insert asset: asset is nil")
	}

	result, err := r.db.ExecContext(ctx, `
		INSERT INTO assets(name, category, location, quantity, condition, purchase_date, description)
		VALUES(?, ?, ?, ?, ?, ?, ?)
	`, asset.Name, asset.Category, asset.Location, asset.Quantity, asset.Condition, asset.PurchaseDate, asset.Description)
	if err != nil {
		if isConstraintError(err) {
			return 0, fmt.Errorf("insert asset: %w", ErrConstraint)
		}
		return 0, fmt.Errorf("insert asset: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert asset: last insert id: %w", err)
	}
	asset.ID = id
	return id, nil
}

// Update replaces every column of the row keyed by asset.ID. A missing id is
// a soft not-found: count 0, no error.
func (r *assetRepository) Update(ctx context.Context, asset *Asset) (int64, error) {
	if asset == nil {
		return 0, fmt.Errorf("update asset: asset is nil")
	}

	result, err := r.db.ExecContext(ctx, `
		UPDATE assets
		SET name = ?, category = ?, location = ?, quantity = ?, condition = ?, purchase_date = ?, description = ?
		WHERE id = ?
	`, asset.Name, asset.Category, asset.Location, asset.Quantity, asset.Condition, asset.PurchaseDate, asset.Description, asset.ID)
	if err != nil {
		return 0, fmt.Errorf("update asset: %w", err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("update asset: rows affected: %w", err)
	}
	return count, nil
}

func (r *assetRepository) Delete(ctx context.Context, id int64) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM assets WHERE id = ?`, id)
	if err != nil {
		return 0, fmt.Errorf("delete asset: %w", err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete asset: rows affected: %w", err)
	}
	return count, nil
}

func (r *assetRepository) Get(ctx context.Context, id int64) (*Asset, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, category, location, quantity, condition, purchase_date, description
		FROM assets
		WHERE id = ?
	`, id)

	asset, err := scanAsset(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get asset: %w", err)
	}
	return asset, nil
}

// List returns every asset ordered by id descending, newest first.
func (r *assetRepository) List(ctx context.Context) ([]Asset, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, category, location, quantity, condition, purchase_date, description
		FROM assets
		ORDER BY id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	defer rows.Close()

	return collectAssets(rows, "list assets")
}

// Search matches query as a case-insensitive substring of name, category, or
// location, ordered like List. An empty query matches every row.
func (r *assetRepository) Search(ctx context.Context, query string) ([]Asset, error) {
	if query == "" {
		return r.List(ctx)
	}

	pattern := "%" + query + "%"
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, category, location, quantity, condition, purchase_date, description
		FROM assets
		WHERE name LIKE ? OR category LIKE ? OR location LIKE ?
		ORDER BY id DESC
	`, pattern, pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("search assets: %w", err)
	}
	defer rows.Close()

	return collectAssets(rows, "search assets")
}

func collectAssets(rows *sql.Rows, op string) ([]Asset, error) {
	out := []Asset{}
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan row: %w", op, err)
		}
		out = append(out, *asset)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: iterate: %w", op, err)
	}
	return out, nil
}

func scanAsset(scanner rowScanner) (*Asset, error) {
	var (
		asset       Asset
		description sql.NullString
	)
	if err := scanner.Scan(
		&asset.ID,
		&asset.Name,
		&asset.Category,
		&asset.Location,
		&asset.Quantity,
		&asset.Condition,
		&asset.PurchaseDate,
		&description,
	); err != nil {
		return nil, err
	}
	asset.Description = description.String
	return &asset, nil
}
