package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"docshare/internal/model"
	"docshare/internal/repository"
)

type ownerHash struct {
	owner int64
	hash  string
}

// DocumentRepository is an in-memory implementation of repository.DocumentRepository.
// It enforces the same uniqueness rules as the PostgreSQL schema and is safe
// for concurrent use.
type DocumentRepository struct {
	mu      sync.RWMutex
	nextID  int64
	byID    map[int64]*model.Document
	byHash  map[ownerHash]int64
	byShare map[string]int64
	byFile  map[string]int64
}

// NewDocumentRepository creates an empty in-memory document repository.
func NewDocumentRepository() *DocumentRepository {
	return &DocumentRepository{
		byID:    make(map[int64]*model.Document),
		byHash:  make(map[ownerHash]int64),
		byShare: make(map[string]int64),
		byFile:  make(map[string]int64),
	}
}

var _ repository.DocumentRepository = (*DocumentRepository)(nil)

func clone(d *model.Document) *model.Document {
	out := *d
	if d.ShareUUID != nil {
		v := *d.ShareUUID
		out.ShareUUID = &v
	}
	if d.ShareCode != nil {
		v := *d.ShareCode
		out.ShareCode = &v
	}
	if d.ShareExpiresAt != nil {
		v := *d.ShareExpiresAt
		out.ShareExpiresAt = &v
	}
	return &out
}

func (r *DocumentRepository) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	key := ownerHash{owner: doc.OwnerID, hash: doc.ContentHash}
	if _, exists := r.byHash[key]; exists {
		return nil, repository.ErrDuplicate
	}
	if _, exists := r.byFile[doc.FileUUID]; exists {
		return nil, repository.ErrDuplicate
	}

	r.nextID++
	stored := clone(doc)
	stored.ID = r.nextID
	stored.DownloadCount = 0
	stored.UpdatedAt = stored.CreatedAt
	stored.ShareUUID = nil
	stored.ShareType = model.ShareNone
	stored.ShareCode = nil
	stored.ShareExpiresAt = nil
	stored.IsShared = false

	r.byID[stored.ID] = stored
	r.byHash[key] = stored.ID
	r.byFile[stored.FileUUID] = stored.ID
	return clone(stored), nil
}

func (r *DocumentRepository) FindByID(ctx context.Context, id int64) (*model.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return clone(d), nil
}

func (r *DocumentRepository) FindByOwnerAndHash(ctx context.Context, ownerID int64, contentHash string) (*model.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byHash[ownerHash{owner: ownerID, hash: contentHash}]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return clone(r.byID[id]), nil
}

func (r *DocumentRepository) FindByShareUUID(ctx context.Context, shareUUID string) (*model.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byShare[shareUUID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return clone(r.byID[id]), nil
}

func (r *DocumentRepository) IncrementDownloadCount(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	d.DownloadCount++
	d.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *DocumentRepository) UpdateShare(ctx context.Context, id, ownerID int64, share *model.Share, at time.Time) (*model.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.byID[id]
	if !ok || d.OwnerID != ownerID {
		return nil, repository.ErrNotFound
	}
	if share != nil {
		if other, taken := r.byShare[share.UUID]; taken && other != id {
			return nil, repository.ErrDuplicate
		}
	}
	if d.ShareUUID != nil {
		delete(r.byShare, *d.ShareUUID)
	}
	d.ApplyShare(share, at)
	if share != nil {
		r.byShare[share.UUID] = id
	}
	return clone(d), nil
}

func (r *DocumentRepository) ListByOwner(ctx context.Context, ownerID int64, pq repository.PageQuery) (*repository.PageResult[model.Document], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	all := r.collect(func(d *model.Document) bool { return d.OwnerID == ownerID })
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID > all[j].ID
	})

	total := len(all)
	start := min(max(pq.Offset, 0), total)
	end := total
	if pq.Limit > 0 {
		end = min(start+pq.Limit, total)
	}
	return &repository.PageResult[model.Document]{
		Items: all[start:end],
		Total: total,
	}, nil
}

func (r *DocumentRepository) ListSharedByOwner(ctx context.Context, ownerID int64, now time.Time) ([]model.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := r.collect(func(d *model.Document) bool {
		return d.OwnerID == ownerID && d.ShareActive(now)
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *DocumentRepository) collect(keep func(*model.Document) bool) []model.Document {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Document, 0)
	for _, d := range r.byID {
		if keep(d) {
			out = append(out, *clone(d))
		}
	}
	return out
}
