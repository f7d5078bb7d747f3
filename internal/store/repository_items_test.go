package store

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-clip-sync/internal/logger"
	"github.com/MKhiriev/go-clip-sync/models"
)

const selectItemsSQL = `SELECT id, kind, content, category, pinned, created_at, updated_at FROM items`

func newTestDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func newTestRepo(t *testing.T, db *sql.DB) ItemStore {
	t.Helper()
	storeDB := &DB{DB: db, logger: logger.Nop()}
	return NewItemRepository(storeDB, logger.Nop())
}

func testContext() context.Context {
	l := zerolog.Nop()
	return l.WithContext(context.Background())
}

func itemRows(items ...models.ClipItem) *sqlmock.Rows {
	rows := sqlmock.NewRows(itemColumns)
	for _, item := range items {
		rows.AddRow(item.ID, item.Kind, item.Content, item.Category, item.Pinned, item.CreatedAt, item.UpdatedAt)
	}
	return rows
}

func testItem(id string, updatedAt time.Time) models.ClipItem {
	return models.ClipItem{
		ID:        id,
		Kind:      models.ItemKindText,
		Content:   "content of " + id,
		Category:  "general",
		CreatedAt: updatedAt.Add(-time.Hour),
		UpdatedAt: updatedAt,
	}
}

// ─────────────────────────────── List ───────────────────────────────

func TestItemRepository_List(t *testing.T) {
	db, mock := newTestDB(t)
	repo := newTestRepo(t, db)

	now := time.Now().UTC()
	first := testItem("item-1", now)
	second := testItem("item-2", now.Add(-time.Minute))

	mock.ExpectQuery(regexp.QuoteMeta(selectItemsSQL)).
		WillReturnRows(itemRows(first, second))

	items, err := repo.List(testContext(), 10)
	require.NoError(t, err)

	require.Len(t, items, 2)
	assert.Equal(t, first, items[0])
	assert.Equal(t, second, items[1])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestItemRepository_List_Empty(t *testing.T) {
	db, mock := newTestDB(t)
	repo := newTestRepo(t, db)

	mock.ExpectQuery(regexp.QuoteMeta(selectItemsSQL)).
		WillReturnRows(itemRows())

	items, err := repo.List(testContext(), 0)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestItemRepository_List_QueryError(t *testing.T) {
	db, mock := newTestDB(t)
	repo := newTestRepo(t, db)

	mock.ExpectQuery(regexp.QuoteMeta(selectItemsSQL)).
		WillReturnError(errors.New("disk I/O error"))

	_, err := repo.List(testContext(), 10)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExecutingQuery)
}

func TestItemRepository_List_ScanError(t *testing.T) {
	db, mock := newTestDB(t)
	repo := newTestRepo(t, db)

	rows := sqlmock.NewRows(itemColumns).
		AddRow(nil, nil, nil, nil, "not-a-bool", time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta(selectItemsSQL)).
		WillReturnRows(rows)

	_, err := repo.List(testContext(), 10)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrScanningRow)
}

// ─────────────────────────────── Get ────────────────────────────────

func TestItemRepository_Get(t *testing.T) {
	db, mock := newTestDB(t)
	repo := newTestRepo(t, db)

	want := testItem("item-1", time.Now().UTC())

	mock.ExpectQuery(regexp.QuoteMeta(selectItemsSQL)).
		WithArgs(want.ID).
		WillReturnRows(itemRows(want))

	got, err := repo.Get(testContext(), want.ID)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestItemRepository_Get_NotFound(t *testing.T) {
	db, mock := newTestDB(t)
	repo := newTestRepo(t, db)

	mock.ExpectQuery(regexp.QuoteMeta(selectItemsSQL)).
		WithArgs("missing").
		WillReturnRows(itemRows())

	_, err := repo.Get(testContext(), "missing")
	assert.ErrorIs(t, err, ErrItemNotFound)
}

// ─────────────────────────────── Put ────────────────────────────────

func TestItemRepository_Put(t *testing.T) {
	db, mock := newTestDB(t)
	repo := newTestRepo(t, db)

	item := testItem("item-1", time.Now().UTC())

	mock.ExpectExec("INSERT INTO items").
		WithArgs(item.ID, item.Kind, item.Content, item.Category, item.Pinned, item.CreatedAt, item.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Put(testContext(), item)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestItemRepository_Put_NoRowsAffected(t *testing.T) {
	db, mock := newTestDB(t)
	repo := newTestRepo(t, db)

	mock.ExpectExec("INSERT INTO items").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Put(testContext(), testItem("item-1", time.Now()))
	assert.ErrorIs(t, err, ErrItemNotSaved)
}

func TestItemRepository_Put_ExecError(t *testing.T) {
	db, mock := newTestDB(t)
	repo := newTestRepo(t, db)

	mock.ExpectExec("INSERT INTO items").
		WillReturnError(errors.New("database is locked"))

	err := repo.Put(testContext(), testItem("item-1", time.Now()))
	assert.ErrorIs(t, err, ErrExecutingQuery)
}

// ────────────────────────────── Delete ──────────────────────────────

func TestItemRepository_Delete(t *testing.T) {
	db, mock := newTestDB(t)
	repo := newTestRepo(t, db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM items")).
		WithArgs("item-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Delete(testContext(), "item-1")
	require.NoError(t, err)
}

func TestItemRepository_Delete_AbsentIDIsNoError(t *testing.T) {
	db, mock := newTestDB(t)
	repo := newTestRepo(t, db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM items")).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(testContext(), "missing")
	assert.NoError(t, err)
}

func TestItemRepository_Delete_ExecError(t *testing.T) {
	db, mock := newTestDB(t)
	repo := newTestRepo(t, db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM items")).
		WillReturnError(errors.New("disk I/O error"))

	err := repo.Delete(testContext(), "item-1")
	assert.ErrorIs(t, err, ErrExecutingQuery)
}
