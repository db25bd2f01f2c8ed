package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"

	"docshare/internal/model"
	"docshare/internal/repository"
	"docshare/internal/storage"
)

// UploadInput is one upload as received from the transport layer.
// ContentHash is the hex digest of Body computed by the caller.
type UploadInput struct {
	OwnerID     int64
	ContentHash string
	Size        int64
	MimeType    string
	Filename    string
	IsPublic    bool
	Body        io.Reader
}

func (in UploadInput) Validate() error {
	if in.Body == nil {
		return errors.New("body: is required")
	}
	return validation.ValidateStruct(&in,
		validation.Field(&in.OwnerID, validation.Required, validation.Min(int64(1))),
		validation.Field(&in.ContentHash, validation.Required, validation.Length(32, 64), is.Hexadecimal),
		validation.Field(&in.Filename, validation.Required, validation.Length(1, 255)),
		validation.Field(&in.Size, validation.Min(int64(0))),
	)
}

// DocumentListResult is the service-level DTO for paginated documents.
type DocumentListResult struct {
	Items []model.Document `json:"data"`
	Total int              `json:"total"`
}

// DocumentService defines the use cases for handling documents.
type DocumentService interface {
	// CreateOrReuse stores new content for the owner, or returns the owner's
	// existing document with the same hash. reused reports the latter; in that
	// case nothing is written to the object store.
	CreateOrReuse(ctx context.Context, in UploadInput) (doc *model.Document, reused bool, err error)

	// RecordDownload counts one completed download.
	RecordDownload(ctx context.Context, id int64) error

	// FetchForOwnerOrPublic returns the document if requester owns it or it is
	// public. requester 0 is an anonymous caller.
	FetchForOwnerOrPublic(ctx context.Context, id, requester int64) (*model.Document, error)

	// ListMine returns the owner's documents using limit/offset and a total count.
	ListMine(ctx context.Context, ownerID int64, limit, offset int) (*DocumentListResult, error)

	// Deliver streams the document bytes into w and counts the download once
	// the copy has completed.
	Deliver(ctx context.Context, doc *model.Document, w io.Writer) error

	// PresignURL returns a direct download URL. ttl 0 selects the configured default.
	PresignURL(ctx context.Context, doc *model.Document, ttl time.Duration) (string, error)
}

type documentService struct {
	store storage.Gateway
	repo  repository.DocumentRepository
	opts  options
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(store storage.Gateway, repo repository.DocumentRepository, opts ...Option) DocumentService {
	return &documentService{store: store, repo: repo, opts: buildOptions(opts)}
}

func (s *documentService) findByOwnerAndHash(ctx context.Context, ownerID int64, hash string) (*model.Document, error) {
	return query(ctx, s.opts.queryTimeout, func(ctx context.Context) (*model.Document, error) {
		return s.repo.FindByOwnerAndHash(ctx, ownerID, hash)
	})
}

func (s *documentService) findByID(ctx context.Context, id int64) (*model.Document, error) {
	return query(ctx, s.opts.queryTimeout, func(ctx context.Context) (*model.Document, error) {
		return s.repo.FindByID(ctx, id)
	})
}

func (s *documentService) CreateOrReuse(ctx context.Context, in UploadInput) (*model.Document, bool, error) {
	if err := in.Validate(); err != nil {
		return nil, false, invalid(err)
	}

	existing, err := s.findByOwnerAndHash(ctx, in.OwnerID, in.ContentHash)
	if err == nil {
		s.opts.metrics.Upload(true)
		s.opts.log.InfoContext(ctx, "document_reused",
			"document_id", existing.ID, "owner_id", in.OwnerID)
		return existing, true, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, false, translate("lookup document", err)
	}

	// Stored name is the file UUID plus the original extension.
	fileUUID := uuid.NewString()
	key := filepath.ToSlash(filepath.Join("documents", fileUUID+filepath.Ext(in.Filename)))

	if _, err := s.store.Put(ctx, key, in.Body, storage.PutObjectOptions{
		Size:        in.Size,
		ContentType: in.MimeType,
		Metadata: map[string]string{
			"original-filename": in.Filename,
		},
	}); err != nil {
		return nil, false, translate("upload to storage", err)
	}

	now := s.opts.now().UTC()
	doc := &model.Document{
		FileUUID:    fileUUID,
		ContentHash: in.ContentHash,
		Size:        in.Size,
		MimeType:    in.MimeType,
		Filename:    in.Filename,
		StoragePath: key,
		OwnerID:     in.OwnerID,
		IsPublic:    in.IsPublic,
		CreatedAt:   now,
		UpdatedAt:   now,
		ShareType:   model.ShareNone,
	}
	stored, err := query(ctx, s.opts.queryTimeout, func(ctx context.Context) (*model.Document, error) {
		return s.repo.Create(ctx, doc)
	})
	switch {
	case err == nil:
		s.opts.metrics.Upload(false)
		s.opts.log.InfoContext(ctx, "document_created",
			"document_id", stored.ID, "owner_id", stored.OwnerID, "storage_key", key, "size", stored.Size)
		return stored, false, nil

	case errors.Is(err, repository.ErrDuplicate):
		// A concurrent upload of the same content committed first.
		s.store.ReportOrphan(ctx, key, err)
		winner, ferr := s.findByOwnerAndHash(ctx, in.OwnerID, in.ContentHash)
		if ferr != nil {
			return nil, false, fmt.Errorf("%w: document for this content was created concurrently: %v", ErrConflict, ferr)
		}
		s.opts.metrics.Upload(true)
		return winner, true, nil

	default:
		s.store.ReportOrphan(ctx, key, err)
		if errors.Is(err, context.Canceled) {
			return nil, false, fmt.Errorf("save document: %w", err)
		}
		return nil, false, fmt.Errorf("save document: %w: %v", ErrUnavailable, err)
	}
}

func (s *documentService) RecordDownload(ctx context.Context, id int64) error {
	_, err := query(ctx, s.opts.queryTimeout, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.repo.IncrementDownloadCount(ctx, id)
	})
	if err != nil {
		return translate("record download", err)
	}
	s.opts.metrics.Download()
	return nil
}

func (s *documentService) FetchForOwnerOrPublic(ctx context.Context, id, requester int64) (*model.Document, error) {
	doc, err := s.findByID(ctx, id)
	if err != nil {
		return nil, translate("get document", err)
	}
	if doc.IsPublic || (requester != 0 && doc.OwnerID == requester) {
		return doc, nil
	}
	return nil, fmt.Errorf("document %d: %w", id, ErrForbidden)
}

func (s *documentService) ListMine(ctx context.Context, ownerID int64, limit, offset int) (*DocumentListResult, error) {
	if ownerID <= 0 {
		return nil, invalid(errors.New("owner is required"))
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	res, err := query(ctx, s.opts.queryTimeout, func(ctx context.Context) (*repository.PageResult[model.Document], error) {
		return s.repo.ListByOwner(ctx, ownerID, repository.PageQuery{Limit: limit, Offset: offset})
	})
	if err != nil {
		return nil, translate("list documents", err)
	}
	return &DocumentListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *documentService) Deliver(ctx context.Context, doc *model.Document, w io.Writer) error {
	rc, _, err := s.store.Get(ctx, doc.StoragePath)
	if err != nil {
		return translate("open document", err)
	}
	defer rc.Close()

	if _, err := io.Copy(w, rc); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("stream document %d: %w: %v", doc.ID, ErrUnavailable, err)
		}
		return fmt.Errorf("stream document %d: %w", doc.ID, err)
	}
	return s.RecordDownload(ctx, doc.ID)
}

func (s *documentService) PresignURL(ctx context.Context, doc *model.Document, ttl time.Duration) (string, error) {
	if ttl == 0 {
		ttl = s.opts.presignTTL
	}
	u, err := s.store.PresignGet(ctx, doc.StoragePath, ttl)
	if err != nil {
		return "", translate("presign document", err)
	}
	return u, nil
}
