package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"docshare/internal/model"
	"docshare/internal/repository"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var columns = []string{
	"id", "file_uuid", "content_hash", "size_bytes", "mime_type", "filename", "storage_path",
	"owner_id", "is_public", "download_count", "created_at", "updated_at",
	"share_uuid", "share_type", "share_code", "share_expires_at", "is_shared",
}

func docRow(id int64, owner int64, hash string, now time.Time) []driver.Value {
	return []driver.Value{
		id, "f-uuid", hash, int64(11), "text/plain", "notes.txt", "documents/f-uuid.txt",
		owner, false, int64(0), now, now,
		nil, "none", nil, nil, false,
	}
}

func newRepo(t *testing.T) (*DocumentPostgres, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewDocumentPostgres(db), mock
}

func TestDocumentPostgres_Create(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()
	doc := &model.Document{
		FileUUID:    "f-uuid",
		ContentHash: "5eb63bbbe01eeed093cb22bb8f5acdc3",
		Size:        11,
		MimeType:    "text/plain",
		Filename:    "notes.txt",
		StoragePath: "documents/f-uuid.txt",
		OwnerID:     42,
		CreatedAt:   now,
	}

	t.Run("inserted", func(t *testing.T) {
		repo, mock := newRepo(t)
		mock.ExpectQuery("INSERT INTO documents (.+) ON CONFLICT \\(owner_id, content_hash\\) DO NOTHING").
			WithArgs(doc.FileUUID, doc.ContentHash, doc.Size, doc.MimeType, doc.Filename, doc.StoragePath, doc.OwnerID, doc.IsPublic, doc.CreatedAt).
			WillReturnRows(sqlmock.NewRows(columns).AddRow(docRow(1, 42, doc.ContentHash, now)...))

		out, err := repo.Create(ctx, doc)
		require.NoError(t, err)
		assert.Equal(t, int64(1), out.ID)
		assert.Equal(t, model.ShareNone, out.ShareType)
		assert.Nil(t, out.ShareUUID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("conflict yields no row", func(t *testing.T) {
		repo, mock := newRepo(t)
		mock.ExpectQuery("INSERT INTO documents").
			WillReturnRows(sqlmock.NewRows(columns))

		out, err := repo.Create(ctx, doc)
		assert.ErrorIs(t, err, repository.ErrDuplicate)
		assert.Nil(t, out)
	})

	t.Run("unique violation on another key", func(t *testing.T) {
		repo, mock := newRepo(t)
		mock.ExpectQuery("INSERT INTO documents").
			WillReturnError(&pgconn.PgError{Code: "23505"})

		_, err := repo.Create(ctx, doc)
		assert.ErrorIs(t, err, repository.ErrDuplicate)
	})

	t.Run("driver error passes through", func(t *testing.T) {
		repo, mock := newRepo(t)
		mock.ExpectQuery("INSERT INTO documents").
			WillReturnError(errors.New("connection reset"))

		_, err := repo.Create(ctx, doc)
		assert.EqualError(t, err, "connection reset")
	})
}

func TestDocumentPostgres_FindByID(t *testing.T) {
	ctx := context.Background()
	repo, mock := newRepo(t)

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM documents WHERE id = ?").
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows(columns).AddRow(docRow(7, 1, "h", time.Now())...))

		doc, err := repo.FindByID(ctx, 7)

		assert.NoError(t, err)
		require.NotNil(t, doc)
		assert.Equal(t, int64(7), doc.ID)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM documents WHERE id = ?").
			WithArgs(int64(8)).
			WillReturnError(sql.ErrNoRows)

		doc, err := repo.FindByID(ctx, 8)

		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.Nil(t, doc)
	})
}

func TestDocumentPostgres_FindByOwnerAndHash(t *testing.T) {
	ctx := context.Background()
	repo, mock := newRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM documents WHERE owner_id = \\$1 AND content_hash = \\$2").
		WithArgs(int64(42), "abc").
		WillReturnRows(sqlmock.NewRows(columns).AddRow(docRow(3, 42, "abc", time.Now())...))

	doc, err := repo.FindByOwnerAndHash(ctx, 42, "abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", doc.ContentHash)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_FindByShareUUID(t *testing.T) {
	ctx := context.Background()
	repo, mock := newRepo(t)
	now := time.Now().UTC()
	exp := now.Add(time.Hour)

	row := docRow(5, 42, "abc", now)
	row[12] = "share-1"
	row[13] = "with_password"
	row[14] = "7Q2x"
	row[15] = exp
	row[16] = true

	mock.ExpectQuery("SELECT (.+) FROM documents WHERE share_uuid = \\$1").
		WithArgs("share-1").
		WillReturnRows(sqlmock.NewRows(columns).AddRow(row...))

	doc, err := repo.FindByShareUUID(ctx, "share-1")
	require.NoError(t, err)
	require.NotNil(t, doc.ShareUUID)
	assert.Equal(t, "share-1", *doc.ShareUUID)
	assert.Equal(t, model.ShareWithPassword, doc.ShareType)
	require.NotNil(t, doc.ShareCode)
	assert.Equal(t, "7Q2x", *doc.ShareCode)
	require.NotNil(t, doc.ShareExpiresAt)
	assert.True(t, exp.Equal(*doc.ShareExpiresAt))
	assert.True(t, doc.IsShared)
}

func TestDocumentPostgres_IncrementDownloadCount(t *testing.T) {
	ctx := context.Background()
	repo, mock := newRepo(t)

	t.Run("incremented", func(t *testing.T) {
		mock.ExpectExec("UPDATE documents SET download_count = download_count \\+ 1").
			WithArgs(int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.IncrementDownloadCount(ctx, 1))
	})

	t.Run("missing row", func(t *testing.T) {
		mock.ExpectExec("UPDATE documents SET download_count").
			WithArgs(int64(2)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.IncrementDownloadCount(ctx, 2), repository.ErrNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_UpdateShare(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()
	exp := now.Add(24 * time.Hour)
	code := "7Q2x"

	t.Run("set password share", func(t *testing.T) {
		repo, mock := newRepo(t)
		row := docRow(5, 42, "abc", now)
		row[12], row[13], row[14], row[15], row[16] = "s-1", "with_password", code, exp, true

		mock.ExpectQuery("UPDATE documents (.+) WHERE id = \\$1 AND owner_id = \\$2").
			WithArgs(int64(5), int64(42), "s-1", "with_password", code, exp, true, now).
			WillReturnRows(sqlmock.NewRows(columns).AddRow(row...))

		doc, err := repo.UpdateShare(ctx, 5, 42, &model.Share{UUID: "s-1", Type: model.ShareWithPassword, Code: &code, ExpiresAt: &exp}, now)
		require.NoError(t, err)
		assert.Equal(t, "s-1", *doc.ShareUUID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no password share drops the code", func(t *testing.T) {
		repo, mock := newRepo(t)
		row := docRow(5, 42, "abc", now)
		row[12], row[13], row[16] = "s-2", "no_password", true

		mock.ExpectQuery("UPDATE documents").
			WithArgs(int64(5), int64(42), "s-2", "no_password", nil, nil, true, now).
			WillReturnRows(sqlmock.NewRows(columns).AddRow(row...))

		_, err := repo.UpdateShare(ctx, 5, 42, &model.Share{UUID: "s-2", Type: model.ShareNoPassword, Code: &code}, now)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("clear", func(t *testing.T) {
		repo, mock := newRepo(t)
		mock.ExpectQuery("UPDATE documents").
			WithArgs(int64(5), int64(42), nil, "none", nil, nil, false, now).
			WillReturnRows(sqlmock.NewRows(columns).AddRow(docRow(5, 42, "abc", now)...))

		doc, err := repo.UpdateShare(ctx, 5, 42, nil, now)
		require.NoError(t, err)
		assert.Nil(t, doc.ShareUUID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("wrong owner matches nothing", func(t *testing.T) {
		repo, mock := newRepo(t)
		mock.ExpectQuery("UPDATE documents").
			WillReturnRows(sqlmock.NewRows(columns))

		_, err := repo.UpdateShare(ctx, 5, 99, nil, now)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestDocumentPostgres_ListByOwner(t *testing.T) {
	ctx := context.Background()
	repo, mock := newRepo(t)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM documents WHERE owner_id = \\$1").
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	mock.ExpectQuery("SELECT (.+) FROM documents WHERE owner_id = \\$1 ORDER BY").
		WithArgs(int64(42), 10, 0).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(docRow(1, 42, "abc", time.Now())...))

	res, err := repo.ListByOwner(ctx, 42, repository.PageQuery{Limit: 10, Offset: 0})

	require.NoError(t, err)
	assert.Equal(t, 1, res.Total)
	assert.Len(t, res.Items, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_ListSharedByOwner(t *testing.T) {
	ctx := context.Background()
	repo, mock := newRepo(t)
	now := time.Now().UTC()

	row := docRow(9, 42, "abc", now)
	row[12], row[13], row[16] = "s-9", "no_password", true

	mock.ExpectQuery("SELECT (.+) FROM documents WHERE owner_id = \\$1 AND share_uuid IS NOT NULL").
		WithArgs(int64(42), now).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(row...))

	items, err := repo.ListSharedByOwner(ctx, 42, now)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "s-9", *items[0].ShareUUID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
