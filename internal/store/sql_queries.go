// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-clip-sync/models"
)

// itemColumns is the canonical column order used by every items query.
// Scan destinations in the repository must match this order.
var itemColumns = []string{
	"id",
	"kind",
	"content",
	"category",
	"pinned",
	"created_at",
	"updated_at",
}

// buildListItemsQuery selects items ordered by most recently updated first.
// A non-positive limit selects all rows.
func buildListItemsQuery(limit int) (string, []any, error) {
	builder := sq.
		Select(itemColumns...).
		From("items").
		OrderBy("updated_at DESC, id ASC")

	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}

	return builder.ToSql()
}

func buildGetItemQuery(id string) (string, []any, error) {
	return sq.
		Select(itemColumns...).
		From("items").
		Where(sq.Eq{"id": id}).
		ToSql()
}

// buildUpsertItemQuery inserts the item, replacing every mutable column when
// a row with the same id already exists.
func buildUpsertItemQuery(item models.ClipItem) (string, []any, error) {
	return sq.
		Insert("items").
		Columns(itemColumns...).
		Values(
			item.ID,
			item.Kind,
			item.Content,
			item.Category,
			item.Pinned,
			item.CreatedAt,
			item.UpdatedAt,
		).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			kind = excluded.kind,
			content = excluded.content,
			category = excluded.category,
			pinned = excluded.pinned,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at`).
		ToSql()
}

func buildDeleteItemQuery(id string) (string, []any, error) {
	return sq.
		Delete("items").
		Where(sq.Eq{"id": id}).
		ToSql()
}
