package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"docshare/internal/model"
	"docshare/internal/repository"
	repoMocks "docshare/internal/repository/mocks"
	"docshare/internal/storage"
	storeMocks "docshare/internal/storage/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const helloHash = "5d41402abc4b2a76b9719d911017c592"

func TestDocumentService_CreateOrReuse(t *testing.T) {
	ctx := context.Background()
	anyArg := mock.Anything

	tests := []struct {
		name       string
		in         func() UploadInput
		setupMocks func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository)
		wantReused bool
		wantID     int64
		wantErr    error
	}{
		{
			name: "new content is stored then inserted",
			in: func() UploadInput {
				return UploadInput{OwnerID: 7, ContentHash: helloHash, Size: 5, MimeType: "text/plain", Filename: "hello.txt", Body: strings.NewReader("hello")}
			},
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("FindByOwnerAndHash", anyArg, int64(7), helloHash).Return(nil, repository.ErrNotFound).Once()
				mStore.On("Put", ctx, mock.MatchedBy(func(key string) bool {
					return strings.HasPrefix(key, "documents/") && strings.HasSuffix(key, ".txt")
				}), anyArg, storage.PutObjectOptions{
					Size:        5,
					ContentType: "text/plain",
					Metadata:    map[string]string{"original-filename": "hello.txt"},
				}).Return(storage.ObjectInfo{Size: 5}, nil)
				mRepo.On("Create", anyArg, mock.MatchedBy(func(doc *model.Document) bool {
					return doc.OwnerID == 7 && doc.ContentHash == helloHash &&
						doc.StoragePath == "documents/"+doc.FileUUID+".txt"
				})).Return(&model.Document{ID: 1, OwnerID: 7}, nil)
			},
			wantID: 1,
		},
		{
			name: "existing content is reused without a store write",
			in: func() UploadInput {
				return UploadInput{OwnerID: 7, ContentHash: helloHash, Size: 5, Filename: "again.txt", Body: strings.NewReader("hello")}
			},
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("FindByOwnerAndHash", anyArg, int64(7), helloHash).Return(&model.Document{ID: 3, OwnerID: 7}, nil)
			},
			wantReused: true,
			wantID:     3,
		},
		{
			name: "validation error - missing hash",
			in: func() UploadInput {
				return UploadInput{OwnerID: 7, Filename: "a.txt", Body: strings.NewReader("x")}
			},
			setupMocks: func(*storeMocks.MockStorage, *repoMocks.MockDocumentRepository) {},
			wantErr:    ErrInvalidArgument,
		},
		{
			name: "validation error - nil body",
			in: func() UploadInput {
				return UploadInput{OwnerID: 7, ContentHash: helloHash, Filename: "a.txt"}
			},
			setupMocks: func(*storeMocks.MockStorage, *repoMocks.MockDocumentRepository) {},
			wantErr:    ErrInvalidArgument,
		},
		{
			name: "validation error - anonymous owner",
			in: func() UploadInput {
				return UploadInput{ContentHash: helloHash, Filename: "a.txt", Body: strings.NewReader("x")}
			},
			setupMocks: func(*storeMocks.MockStorage, *repoMocks.MockDocumentRepository) {},
			wantErr:    ErrInvalidArgument,
		},
		{
			name: "storage failure leaves no row",
			in: func() UploadInput {
				return UploadInput{OwnerID: 7, ContentHash: helloHash, Size: 5, Filename: "a.txt", Body: strings.NewReader("hello")}
			},
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("FindByOwnerAndHash", anyArg, int64(7), helloHash).Return(nil, repository.ErrNotFound)
				mStore.On("Put", ctx, anyArg, anyArg, anyArg).Return(storage.ObjectInfo{}, storage.ErrUnavailable)
			},
			wantErr: ErrUnavailable,
		},
		{
			name: "lost insert race returns the winner and reports the orphan",
			in: func() UploadInput {
				return UploadInput{OwnerID: 7, ContentHash: helloHash, Size: 5, Filename: "a.txt", Body: strings.NewReader("hello")}
			},
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("FindByOwnerAndHash", anyArg, int64(7), helloHash).Return(nil, repository.ErrNotFound).Once()
				mStore.On("Put", ctx, anyArg, anyArg, anyArg).Return(storage.ObjectInfo{}, nil)
				mRepo.On("Create", anyArg, anyArg).Return(nil, repository.ErrDuplicate)
				mStore.On("ReportOrphan", ctx, anyArg, repository.ErrDuplicate).Return()
				mRepo.On("FindByOwnerAndHash", anyArg, int64(7), helloHash).Return(&model.Document{ID: 9, OwnerID: 7}, nil).Once()
			},
			wantReused: true,
			wantID:     9,
		},
		{
			name: "insert failure reports orphan and is unavailable",
			in: func() UploadInput {
				return UploadInput{OwnerID: 7, ContentHash: helloHash, Size: 5, Filename: "a.txt", Body: strings.NewReader("hello")}
			},
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) {
				dbErr := errors.New("connection reset by peer")
				mRepo.On("FindByOwnerAndHash", anyArg, int64(7), helloHash).Return(nil, repository.ErrNotFound)
				mStore.On("Put", ctx, anyArg, anyArg, anyArg).Return(storage.ObjectInfo{}, nil)
				mRepo.On("Create", anyArg, anyArg).Return(nil, dbErr)
				mStore.On("ReportOrphan", ctx, anyArg, dbErr).Return()
			},
			wantErr: ErrUnavailable,
		},
		{
			name: "lookup timeout is unavailable",
			in: func() UploadInput {
				return UploadInput{OwnerID: 7, ContentHash: helloHash, Size: 5, Filename: "a.txt", Body: strings.NewReader("hello")}
			},
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("FindByOwnerAndHash", anyArg, int64(7), helloHash).Return(nil, context.DeadlineExceeded)
			},
			wantErr: ErrUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mStore := new(storeMocks.MockStorage)
			mRepo := new(repoMocks.MockDocumentRepository)
			tt.setupMocks(mStore, mRepo)

			svc := NewDocumentService(mStore, mRepo)
			doc, reused, err := svc.CreateOrReuse(ctx, tt.in())

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, doc)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantID, doc.ID)
				assert.Equal(t, tt.wantReused, reused)
			}
			mStore.AssertExpectations(t)
			mRepo.AssertExpectations(t)
		})
	}
}

func TestDocumentService_FetchForOwnerOrPublic(t *testing.T) {
	ctx := context.Background()
	private := &model.Document{ID: 1, OwnerID: 7}
	public := &model.Document{ID: 2, OwnerID: 7, IsPublic: true}

	tests := []struct {
		name      string
		id        int64
		requester int64
		found     *model.Document
		findErr   error
		wantErr   error
	}{
		{name: "owner", id: 1, requester: 7, found: private},
		{name: "other user on private", id: 1, requester: 8, found: private, wantErr: ErrForbidden},
		{name: "anonymous on private", id: 1, requester: 0, found: private, wantErr: ErrForbidden},
		{name: "anonymous on public", id: 2, requester: 0, found: public},
		{name: "missing", id: 3, requester: 7, findErr: repository.ErrNotFound, wantErr: ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockDocumentRepository)
			if tt.found != nil {
				mRepo.On("FindByID", mock.Anything, tt.id).Return(tt.found, nil)
			} else {
				mRepo.On("FindByID", mock.Anything, tt.id).Return(nil, tt.findErr)
			}

			doc, err := NewDocumentService(new(storeMocks.MockStorage), mRepo).FetchForOwnerOrPublic(ctx, tt.id, tt.requester)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, doc)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.found.ID, doc.ID)
		})
	}
}

func TestDocumentService_RecordDownload(t *testing.T) {
	ctx := context.Background()

	mRepo := new(repoMocks.MockDocumentRepository)
	mRepo.On("IncrementDownloadCount", mock.Anything, int64(1)).Return(nil)
	mRepo.On("IncrementDownloadCount", mock.Anything, int64(2)).Return(repository.ErrNotFound)
	svc := NewDocumentService(new(storeMocks.MockStorage), mRepo)

	assert.NoError(t, svc.RecordDownload(ctx, 1))
	assert.ErrorIs(t, svc.RecordDownload(ctx, 2), ErrNotFound)
}

func TestDocumentService_ListMine(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name           string
		limit, offset  int
		expectedLimit  int
		expectedOffset int
	}{
		{"defaults", 0, -1, 10, 0},
		{"explicit", 5, 10, 5, 10},
		{"capped", 1000, 0, 100, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockDocumentRepository)
			mRepo.On("ListByOwner", mock.Anything, int64(7), repository.PageQuery{Limit: tt.expectedLimit, Offset: tt.expectedOffset}).
				Return(&repository.PageResult[model.Document]{Items: []model.Document{{ID: 1}}, Total: 1}, nil)

			res, err := NewDocumentService(new(storeMocks.MockStorage), mRepo).ListMine(ctx, 7, tt.limit, tt.offset)
			require.NoError(t, err)
			assert.Equal(t, 1, res.Total)
			assert.Len(t, res.Items, 1)
			mRepo.AssertExpectations(t)
		})
	}

	_, err := NewDocumentService(new(storeMocks.MockStorage), new(repoMocks.MockDocumentRepository)).ListMine(ctx, 0, 10, 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestDocumentService_Deliver(t *testing.T) {
	ctx := context.Background()
	doc := &model.Document{ID: 4, StoragePath: "documents/x.txt"}

	t.Run("complete copy counts once", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockDocumentRepository)
		mStore.On("Get", ctx, "documents/x.txt").Return(io.NopCloser(strings.NewReader("payload")), storage.ObjectInfo{}, nil)
		mRepo.On("IncrementDownloadCount", mock.Anything, int64(4)).Return(nil).Once()

		var buf bytes.Buffer
		require.NoError(t, NewDocumentService(mStore, mRepo).Deliver(ctx, doc, &buf))
		assert.Equal(t, "payload", buf.String())
		mRepo.AssertExpectations(t)
	})

	t.Run("interrupted copy does not count", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockDocumentRepository)
		mStore.On("Get", ctx, "documents/x.txt").Return(io.NopCloser(failingReader{}), storage.ObjectInfo{}, nil)

		err := NewDocumentService(mStore, mRepo).Deliver(ctx, doc, io.Discard)
		assert.Error(t, err)
		mRepo.AssertNotCalled(t, "IncrementDownloadCount", mock.Anything, mock.Anything)
	})

	t.Run("missing blob", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mStore.On("Get", ctx, "documents/x.txt").Return(nil, storage.ObjectInfo{}, storage.ErrObjectNotFound)

		err := NewDocumentService(mStore, new(repoMocks.MockDocumentRepository)).Deliver(ctx, doc, io.Discard)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestDocumentService_PresignURL(t *testing.T) {
	ctx := context.Background()
	doc := &model.Document{ID: 4, StoragePath: "documents/x.txt"}

	mStore := new(storeMocks.MockStorage)
	mStore.On("PresignGet", ctx, "documents/x.txt", 300*time.Second).Return("https://store/x?sig", nil)
	mStore.On("PresignGet", ctx, "documents/x.txt", 2*time.Hour).Return("", storage.ErrInvalidTTL)
	svc := NewDocumentService(mStore, new(repoMocks.MockDocumentRepository), WithPresignTTL(300*time.Second))

	u, err := svc.PresignURL(ctx, doc, 0)
	require.NoError(t, err)
	assert.Equal(t, "https://store/x?sig", u)

	_, err = svc.PresignURL(ctx, doc, 2*time.Hour)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
