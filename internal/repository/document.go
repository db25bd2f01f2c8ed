package repository

import (
	"context"
	"time"

	"docshare/internal/model"
)

// DocumentRepository defines data access for documents using SQL queries only.
// Implementations hold no business rules; ownership and expiry are decided by the services.
type DocumentRepository interface {
	// Create inserts a new document unless one already exists for the same
	// (OwnerID, ContentHash). It returns ErrDuplicate when the pair (or the
	// file UUID / storage path) is already taken, and the stored row otherwise.
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// FindByID returns a document by its ID or ErrNotFound.
	FindByID(ctx context.Context, id int64) (*model.Document, error)

	// FindByOwnerAndHash returns the owner's document with the given content hash or ErrNotFound.
	FindByOwnerAndHash(ctx context.Context, ownerID int64, contentHash string) (*model.Document, error)

	// FindByShareUUID returns the document currently carrying the share UUID or ErrNotFound.
	// Expiry is not evaluated here.
	FindByShareUUID(ctx context.Context, shareUUID string) (*model.Document, error)

	// IncrementDownloadCount adds one to download_count in a single statement.
	IncrementDownloadCount(ctx context.Context, id int64) error

	// UpdateShare overwrites the share sub-state of the owner's document; a nil
	// share clears it. Returns ErrNotFound if (id, ownerID) matches no row.
	UpdateShare(ctx context.Context, id, ownerID int64, share *model.Share, at time.Time) (*model.Document, error)

	// ListByOwner returns a paginated list of the owner's documents and the owner's total.
	ListByOwner(ctx context.Context, ownerID int64, pq PageQuery) (*PageResult[model.Document], error)

	// ListSharedByOwner returns the owner's documents whose share link is active at now.
	ListSharedByOwner(ctx context.Context, ownerID int64, now time.Time) ([]model.Document, error)
}

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}
