package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"docshare/internal/model"
	"docshare/internal/repository"
)

const (
	// ShareCodeLength is the number of characters in an access code.
	ShareCodeLength = 4
	// MaxShareDays caps ExpireInDays at roughly a century.
	MaxShareDays = 36500
)

// ShareRequest describes the link an owner wants. ExpireInDays nil means the
// link never expires.
type ShareRequest struct {
	Type         model.ShareType `json:"share_type"`
	Code         *string         `json:"share_code,omitempty"`
	ExpireInDays *int            `json:"expire_days,omitempty"`
}

func (r ShareRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Type, validation.Required, validation.By(requestableShareType)),
		validation.Field(&r.Code, validation.When(r.Type == model.ShareWithPassword,
			validation.Required, validation.RuneLength(ShareCodeLength, ShareCodeLength))),
		validation.Field(&r.ExpireInDays, validation.When(r.ExpireInDays != nil,
			validation.Required, validation.Min(1), validation.Max(MaxShareDays))),
	)
}

func requestableShareType(v interface{}) error {
	if t, _ := v.(model.ShareType); !t.Valid() {
		return errors.New("must be no_password or with_password")
	}
	return nil
}

// ShareService manages the share link of a document.
type ShareService interface {
	// CreateOrReplace issues a fresh link for the owner's document, replacing any previous one.
	CreateOrReplace(ctx context.Context, docID, requester int64, req ShareRequest) (*model.ShareDescriptor, error)
	// Revoke clears the document's link. Revoking an unshared document succeeds.
	Revoke(ctx context.Context, docID, requester int64) error
	// Resolve returns the document behind an active link, checking the access code when required.
	Resolve(ctx context.Context, shareUUID string, code *string) (*model.Document, error)
	// Inspect describes an active link without requiring its code.
	Inspect(ctx context.Context, shareUUID string) (*model.ShareInfo, error)
	// Current returns the owner's view of the document's active link.
	Current(ctx context.Context, docID, requester int64) (*model.ShareDescriptor, error)
	// ListShared returns the owner's documents whose link is active.
	ListShared(ctx context.Context, ownerID int64) ([]model.ShareDescriptor, error)
}

type shareService struct {
	repo repository.DocumentRepository
	opts options
}

func NewShareService(repo repository.DocumentRepository, opts ...Option) ShareService {
	return &shareService{repo: repo, opts: buildOptions(opts)}
}

// ownedDocument loads a document and checks that requester owns it.
func (s *shareService) ownedDocument(ctx context.Context, docID, requester int64) (*model.Document, error) {
	doc, err := query(ctx, s.opts.queryTimeout, func(ctx context.Context) (*model.Document, error) {
		return s.repo.FindByID(ctx, docID)
	})
	if err != nil {
		return nil, translate("get document", err)
	}
	if requester == 0 || doc.OwnerID != requester {
		return nil, fmt.Errorf("document %d: %w", docID, ErrForbidden)
	}
	return doc, nil
}

func (s *shareService) updateShare(ctx context.Context, doc *model.Document, share *model.Share) (*model.Document, error) {
	return query(ctx, s.opts.queryTimeout, func(ctx context.Context) (*model.Document, error) {
		return s.repo.UpdateShare(ctx, doc.ID, doc.OwnerID, share, s.opts.now().UTC())
	})
}

func (s *shareService) CreateOrReplace(ctx context.Context, docID, requester int64, req ShareRequest) (*model.ShareDescriptor, error) {
	doc, err := s.ownedDocument(ctx, docID, requester)
	if err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, invalid(err)
	}

	share := &model.Share{UUID: uuid.NewString(), Type: req.Type}
	if req.Type == model.ShareWithPassword {
		code := *req.Code
		share.Code = &code
	}
	if req.ExpireInDays != nil {
		exp := s.opts.now().UTC().AddDate(0, 0, *req.ExpireInDays)
		share.ExpiresAt = &exp
	}

	updated, err := s.updateShare(ctx, doc, share)
	if err != nil {
		return nil, translate("create share", err)
	}
	s.opts.metrics.ShareOp("create")
	s.opts.log.InfoContext(ctx, "share_created",
		"document_id", updated.ID, "share_type", string(share.Type), "expires", share.ExpiresAt != nil)
	return model.DescribeShare(updated), nil
}

func (s *shareService) Revoke(ctx context.Context, docID, requester int64) error {
	doc, err := s.ownedDocument(ctx, docID, requester)
	if err != nil {
		return err
	}
	if _, err := s.updateShare(ctx, doc, nil); err != nil {
		return translate("revoke share", err)
	}
	s.opts.metrics.ShareOp("revoke")
	s.opts.log.InfoContext(ctx, "share_revoked", "document_id", doc.ID)
	return nil
}

// activeShare finds the document behind shareUUID. Unknown, cleared and
// expired links all yield ErrNotFound so callers cannot tell them apart.
func (s *shareService) activeShare(ctx context.Context, shareUUID string) (*model.Document, error) {
	if _, err := uuid.Parse(shareUUID); err != nil {
		return nil, fmt.Errorf("share link: %w", ErrNotFound)
	}
	doc, err := query(ctx, s.opts.queryTimeout, func(ctx context.Context) (*model.Document, error) {
		return s.repo.FindByShareUUID(ctx, shareUUID)
	})
	if err != nil {
		return nil, translate("share link", err)
	}
	if !doc.ShareActive(s.opts.now()) {
		return nil, fmt.Errorf("share link: %w", ErrNotFound)
	}
	return doc, nil
}

func (s *shareService) Resolve(ctx context.Context, shareUUID string, code *string) (*model.Document, error) {
	doc, err := s.activeShare(ctx, shareUUID)
	if err != nil {
		s.opts.metrics.ShareResolve(resolveOutcome(err))
		return nil, err
	}
	if doc.ShareType == model.ShareWithPassword && !codeMatches(doc.ShareCode, code) {
		s.opts.metrics.ShareResolve("forbidden")
		return nil, fmt.Errorf("share link: wrong access code: %w", ErrForbidden)
	}
	s.opts.metrics.ShareResolve("ok")
	return doc, nil
}

func (s *shareService) Inspect(ctx context.Context, shareUUID string) (*model.ShareInfo, error) {
	doc, err := s.activeShare(ctx, shareUUID)
	if err != nil {
		return nil, err
	}
	return &model.ShareInfo{
		Filename:         doc.Filename,
		ShareType:        doc.ShareType,
		RequiresPassword: doc.ShareType == model.ShareWithPassword,
		ExpiresAt:        doc.ShareExpiresAt,
	}, nil
}

func (s *shareService) Current(ctx context.Context, docID, requester int64) (*model.ShareDescriptor, error) {
	doc, err := s.ownedDocument(ctx, docID, requester)
	if err != nil {
		return nil, err
	}
	if !doc.ShareActive(s.opts.now()) {
		return nil, fmt.Errorf("document %d is not shared: %w", docID, ErrNotFound)
	}
	return model.DescribeShare(doc), nil
}

func (s *shareService) ListShared(ctx context.Context, ownerID int64) ([]model.ShareDescriptor, error) {
	if ownerID <= 0 {
		return nil, invalid(errors.New("owner is required"))
	}
	docs, err := query(ctx, s.opts.queryTimeout, func(ctx context.Context) ([]model.Document, error) {
		return s.repo.ListSharedByOwner(ctx, ownerID, s.opts.now())
	})
	if err != nil {
		return nil, translate("list shared documents", err)
	}
	out := make([]model.ShareDescriptor, 0, len(docs))
	for i := range docs {
		if d := model.DescribeShare(&docs[i]); d != nil {
			out = append(out, *d)
		}
	}
	return out, nil
}

func codeMatches(stored, given *string) bool {
	if stored == nil || given == nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(*stored), []byte(*given)) == 1
}

func resolveOutcome(err error) string {
	if errors.Is(err, ErrNotFound) {
		return "not_found"
	}
	return "error"
}
