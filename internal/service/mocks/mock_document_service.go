package mocks

import (
	"context"
	"io"
	"time"

	"docshare/internal/model"
	"docshare/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockDocumentService struct {
	mock.Mock
}

var _ service.DocumentService = (*MockDocumentService)(nil)

func (m *MockDocumentService) CreateOrReuse(ctx context.Context, in service.UploadInput) (*model.Document, bool, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*model.Document), args.Bool(1), args.Error(2)
}

func (m *MockDocumentService) RecordDownload(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDocumentService) FetchForOwnerOrPublic(ctx context.Context, id, requester int64) (*model.Document, error) {
	args := m.Called(ctx, id, requester)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) ListMine(ctx context.Context, ownerID int64, limit, offset int) (*service.DocumentListResult, error) {
	args := m.Called(ctx, ownerID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DocumentListResult), args.Error(1)
}

// Deliver writes the string given as the first return value to w.
func (m *MockDocumentService) Deliver(ctx context.Context, doc *model.Document, w io.Writer) error {
	args := m.Called(ctx, doc, w)
	if body, ok := args.Get(0).(string); ok {
		_, _ = io.WriteString(w, body)
	}
	return args.Error(1)
}

func (m *MockDocumentService) PresignURL(ctx context.Context, doc *model.Document, ttl time.Duration) (string, error) {
	args := m.Called(ctx, doc, ttl)
	return args.String(0), args.Error(1)
}
