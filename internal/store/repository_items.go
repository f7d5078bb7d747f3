package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-clip-sync/internal/logger"
	"github.com/MKhiriev/go-clip-sync/models"
)

// itemRepository is the sqlite-backed implementation of [ItemStore]. It
// executes all clipboard-item CRUD against the "items" table using the
// embedded [*DB] connection.
//
// Every public method obtains a context-scoped logger via
// [logger.FromContext] so that all database interactions are traced with
// structured fields (item id, row counts, etc.).
type itemRepository struct {
	*DB
	logger *logger.Logger
}

// NewItemRepository constructs an [ItemStore] backed by the provided database
// connection and logger.
func NewItemRepository(db *DB, logger *logger.Logger) ItemStore {
	return &itemRepository{
		DB:     db,
		logger: logger,
	}
}

func (r *itemRepository) List(ctx context.Context, limit int) ([]models.ClipItem, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildListItemsQuery(limit)
	if err != nil {
		log.Err(err).
			Str("func", "itemRepository.List").
			Int("limit", limit).
			Msg("failed to build query")
		return nil, err
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "itemRepository.List").
			Int("limit", limit).
			Msg("failed to execute query for listing items")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var items []models.ClipItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			log.Err(err).
				Str("func", "itemRepository.List").
				Msg("failed to scan item row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		log.Err(err).
			Str("func", "itemRepository.List").
			Msg("row iteration error")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return items, nil
}

func (r *itemRepository) Get(ctx context.Context, id string) (models.ClipItem, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildGetItemQuery(id)
	if err != nil {
		log.Err(err).
			Str("func", "itemRepository.Get").
			Str("item_id", id).
			Msg("failed to build query")
		return models.ClipItem{}, err
	}

	row := r.DB.QueryRowContext(ctx, query, args...)
	item, err := scanItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ClipItem{}, ErrItemNotFound
		}
		log.Err(err).
			Str("func", "itemRepository.Get").
			Str("item_id", id).
			Msg("failed to scan item row")
		return models.ClipItem{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return item, nil
}

func (r *itemRepository) Put(ctx context.Context, item models.ClipItem) error {
	log := logger.FromContext(ctx)

	query, args, err := buildUpsertItemQuery(item)
	if err != nil {
		log.Err(err).
			Str("func", "itemRepository.Put").
			Str("item_id", item.ID).
			Msg("failed to build query")
		return err
	}

	result, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "itemRepository.Put").
			Str("item_id", item.ID).
			Msg("failed to execute upsert")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		log.Err(err).
			Str("func", "itemRepository.Put").
			Str("item_id", item.ID).
			Msg("failed to read affected rows")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	if affected == 0 {
		return ErrItemNotSaved
	}

	return nil
}

func (r *itemRepository) Delete(ctx context.Context, id string) error {
	log := logger.FromContext(ctx)

	query, args, err := buildDeleteItemQuery(id)
	if err != nil {
		log.Err(err).
			Str("func", "itemRepository.Delete").
			Str("item_id", id).
			Msg("failed to build query")
		return err
	}

	// deleting an absent id is a no-op, not an error
	if _, err = r.DB.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).
			Str("func", "itemRepository.Delete").
			Str("item_id", id).
			Msg("failed to execute delete")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (models.ClipItem, error) {
	var item models.ClipItem
	err := row.Scan(
		&item.ID,
		&item.Kind,
		&item.Content,
		&item.Category,
		&item.Pinned,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	return item, err
}
