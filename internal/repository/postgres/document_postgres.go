package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"docshare/internal/model"
	"docshare/internal/repository"
)

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

const documentColumns = `id, file_uuid, content_hash, size_bytes, mime_type, filename, storage_path,
		owner_id, is_public, download_count, created_at, updated_at,
		share_uuid, share_type, share_code, share_expires_at, is_shared`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(s rowScanner) (*model.Document, error) {
	var d model.Document
	if err := s.Scan(
		&d.ID,
		&d.FileUUID,
		&d.ContentHash,
		&d.Size,
		&d.MimeType,
		&d.Filename,
		&d.StoragePath,
		&d.OwnerID,
		&d.IsPublic,
		&d.DownloadCount,
		&d.CreatedAt,
		&d.UpdatedAt,
		&d.ShareUUID,
		&d.ShareType,
		&d.ShareCode,
		&d.ShareExpiresAt,
		&d.IsShared,
	); err != nil {
		return nil, err
	}
	return &d, nil
}

// Create inserts a new document row unless (owner_id, content_hash) is taken.
// ON CONFLICT DO NOTHING yields no row for the losing insert, which is
// reported as repository.ErrDuplicate.
func (r *DocumentPostgres) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	const q = `
		INSERT INTO documents (file_uuid, content_hash, size_bytes, mime_type, filename, storage_path,
			owner_id, is_public, download_count, created_at, updated_at, share_type, is_shared)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0, $9, $9, 'none', FALSE)
		ON CONFLICT (owner_id, content_hash) DO NOTHING
		RETURNING ` + documentColumns
	row := r.db.QueryRowContext(ctx, q,
		doc.FileUUID,
		doc.ContentHash,
		doc.Size,
		doc.MimeType,
		doc.Filename,
		doc.StoragePath,
		doc.OwnerID,
		doc.IsPublic,
		doc.CreatedAt,
	)
	out, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrDuplicate
		}
		return nil, translate(err)
	}
	return out, nil
}

// FindByID fetches a single document by its ID.
func (r *DocumentPostgres) FindByID(ctx context.Context, id int64) (*model.Document, error) {
	const q = `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`
	d, err := scanDocument(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, translate(err)
	}
	return d, nil
}

// FindByOwnerAndHash fetches the owner's document with the given content hash.
func (r *DocumentPostgres) FindByOwnerAndHash(ctx context.Context, ownerID int64, contentHash string) (*model.Document, error) {
	const q = `SELECT ` + documentColumns + ` FROM documents WHERE owner_id = $1 AND content_hash = $2`
	d, err := scanDocument(r.db.QueryRowContext(ctx, q, ownerID, contentHash))
	if err != nil {
		return nil, translate(err)
	}
	return d, nil
}

// FindByShareUUID fetches the document carrying the given share UUID.
func (r *DocumentPostgres) FindByShareUUID(ctx context.Context, shareUUID string) (*model.Document, error) {
	const q = `SELECT ` + documentColumns + ` FROM documents WHERE share_uuid = $1`
	d, err := scanDocument(r.db.QueryRowContext(ctx, q, shareUUID))
	if err != nil {
		return nil, translate(err)
	}
	return d, nil
}

// IncrementDownloadCount bumps download_count server-side.
func (r *DocumentPostgres) IncrementDownloadCount(ctx context.Context, id int64) error {
	const q = `UPDATE documents SET download_count = download_count + 1, updated_at = now() WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return translate(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// UpdateShare overwrites every share column in one statement.
func (r *DocumentPostgres) UpdateShare(ctx context.Context, id, ownerID int64, share *model.Share, at time.Time) (*model.Document, error) {
	const q = `
		UPDATE documents
		SET share_uuid = $3, share_type = $4, share_code = $5, share_expires_at = $6, is_shared = $7, updated_at = $8
		WHERE id = $1 AND owner_id = $2
		RETURNING ` + documentColumns

	var (
		shareUUID *string
		shareType = model.ShareNone
		shareCode *string
		expiresAt *time.Time
		isShared  bool
	)
	if share != nil {
		shareUUID = &share.UUID
		shareType = share.Type
		if share.Type == model.ShareWithPassword {
			shareCode = share.Code
		}
		expiresAt = share.ExpiresAt
		isShared = true
	}

	row := r.db.QueryRowContext(ctx, q, id, ownerID, shareUUID, string(shareType), shareCode, expiresAt, isShared, at)
	d, err := scanDocument(row)
	if err != nil {
		return nil, translate(err)
	}
	return d, nil
}

// ListByOwner returns the owner's documents using LIMIT/OFFSET pagination and a total count.
func (r *DocumentPostgres) ListByOwner(ctx context.Context, ownerID int64, pq repository.PageQuery) (*repository.PageResult[model.Document], error) {
	const qCount = `SELECT COUNT(*) FROM documents WHERE owner_id = $1`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount, ownerID).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `SELECT ` + documentColumns + `
		FROM documents
		WHERE owner_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`
	items, err := r.query(ctx, qList, ownerID, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Document]{
		Items: items,
		Total: total,
	}, nil
}

// ListSharedByOwner returns the owner's documents with a share link that is live at now.
func (r *DocumentPostgres) ListSharedByOwner(ctx context.Context, ownerID int64, now time.Time) ([]model.Document, error) {
	const q = `SELECT ` + documentColumns + `
		FROM documents
		WHERE owner_id = $1 AND share_uuid IS NOT NULL
			AND (share_expires_at IS NULL OR share_expires_at > $2)
		ORDER BY updated_at DESC, id DESC`
	return r.query(ctx, q, ownerID, now)
}

func (r *DocumentPostgres) query(ctx context.Context, q string, args ...any) ([]model.Document, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
