package mocks

import (
	"context"

	"docshare/internal/model"
	"docshare/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockShareService struct {
	mock.Mock
}

var _ service.ShareService = (*MockShareService)(nil)

func (m *MockShareService) CreateOrReplace(ctx context.Context, docID, requester int64, req service.ShareRequest) (*model.ShareDescriptor, error) {
	args := m.Called(ctx, docID, requester, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ShareDescriptor), args.Error(1)
}

func (m *MockShareService) Revoke(ctx context.Context, docID, requester int64) error {
	args := m.Called(ctx, docID, requester)
	return args.Error(0)
}

func (m *MockShareService) Resolve(ctx context.Context, shareUUID string, code *string) (*model.Document, error) {
	args := m.Called(ctx, shareUUID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockShareService) Inspect(ctx context.Context, shareUUID string) (*model.ShareInfo, error) {
	args := m.Called(ctx, shareUUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ShareInfo), args.Error(1)
}

func (m *MockShareService) Current(ctx context.Context, docID, requester int64) (*model.ShareDescriptor, error) {
	args := m.Called(ctx, docID, requester)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ShareDescriptor), args.Error(1)
}

func (m *MockShareService) ListShared(ctx context.Context, ownerID int64) ([]model.ShareDescriptor, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ShareDescriptor), args.Error(1)
}
