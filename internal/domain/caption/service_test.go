package caption

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"captionstudio/internal/domain/upload"
	"captionstudio/internal/platform/apierr"
	"captionstudio/internal/platform/instagram"
	"captionstudio/internal/platform/openai"
)

// Mocks

type MockProfileFetcher struct {
	mock.Mock
}

func (m *MockProfileFetcher) GetProfile(ctx context.Context, handle string) (*instagram.Profile, error) {
	args := m.Called(ctx, handle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*instagram.Profile), args.Error(1)
}

func (m *MockProfileFetcher) GetRecentCaptions(ctx context.Context, handle string) ([]string, error) {
	args := m.Called(ctx, handle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockModel struct {
	mock.Mock
}

func (m *MockModel) GenerateTextWithImages(ctx context.Context, system, user string, images []openai.ImageInput) (string, error) {
	args := m.Called(ctx, system, user, images)
	return args.String(0), args.Error(1)
}

func (m *MockModel) GenerateJSON(ctx context.Context, system, user, schemaName string, schema map[string]any) (map[string]any, error) {
	args := m.Called(ctx, system, user, schemaName, schema)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]any), args.Error(1)
}

type MockUploadStore struct {
	mock.Mock
}

func (m *MockUploadStore) Save(ctx context.Context, handle string, fileHeader *multipart.FileHeader) (*upload.Upload, error) {
	args := m.Called(ctx, handle, fileHeader)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*upload.Upload), args.Error(1)
}

func (m *MockUploadStore) ReadBack(u *upload.Upload) ([]byte, error) {
	args := m.Called(u)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockUploadStore) Discard(ctx context.Context, u *upload.Upload) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

type MockRecords struct {
	mock.Mock
}

func (m *MockRecords) Create(ctx context.Context, rec *CaptionRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockRecords) ListByHandle(ctx context.Context, handle string, limit int) ([]*CaptionRecord, error) {
	args := m.Called(ctx, handle, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*CaptionRecord), args.Error(1)
}

// Fixtures

func aliceProfile() *instagram.Profile {
	return &instagram.Profile{
		FullName:      "Alice A",
		Gender:        "female",
		Biography:     "artist",
		Category:      "Personal",
		FollowerCount: 100,
	}
}

func savedUpload() *upload.Upload {
	return &upload.Upload{ID: "u-1", Handle: "alice", Path: "/photos/1-cat.jpg"}
}

func newServiceWithMocks() (*Service, *MockProfileFetcher, *MockModel, *MockUploadStore, *MockRecords) {
	profiles := &MockProfileFetcher{}
	model := &MockModel{}
	uploads := &MockUploadStore{}
	records := &MockRecords{}
	return NewService(profiles, model, uploads, records), profiles, model, uploads, records
}

func TestGenerateSuccess(t *testing.T) {
	svc, profiles, model, uploads, records := newServiceWithMocks()

	uploads.On("Save", mock.Anything, "alice", mock.Anything).Return(savedUpload(), nil)
	uploads.On("ReadBack", mock.Anything).Return([]byte("jpegbytes"), nil)
	uploads.On("Discard", mock.Anything, mock.Anything).Return(nil)

	profiles.On("GetProfile", mock.Anything, "alice").Return(aliceProfile(), nil)
	profiles.On("GetRecentCaptions", mock.Anything, "alice").Return([]string{"sunset!", "new piece #art"}, nil)

	model.On("GenerateTextWithImages", mock.Anything, "",
		mock.MatchedBy(func(prompt string) bool {
			return strings.Contains(prompt, "Account owned by a woman") &&
				strings.Contains(prompt, "1. sunset!") &&
				strings.Contains(prompt, "2. new piece #art")
		}),
		mock.MatchedBy(func(images []openai.ImageInput) bool {
			return len(images) == 1 &&
				strings.HasPrefix(images[0].ImageURL, "data:image/jpeg;base64,") &&
				images[0].Detail == "high"
		}),
	).Return("SHORT:\na\n\nMEDIUM:\nbb\n\nLONG:\nccc", nil)

	model.On("GenerateJSON", mock.Anything, structurerSystemPrompt,
		"SHORT:\na\n\nMEDIUM:\nbb\n\nLONG:\nccc", "captions", mock.Anything,
	).Return(map[string]any{
		"shortCaption":  "a",
		"mediumCaption": "bb",
		"longCaption":   "ccc",
	}, nil)

	records.On("Create", mock.Anything, mock.MatchedBy(func(rec *CaptionRecord) bool {
		return rec.Handle == "alice" && rec.UploadID == "u-1" && rec.ShortCaption == "a"
	})).Return(nil)

	result, err := svc.Generate(context.Background(), "alice", nil)
	require.NoError(t, err)
	require.Equal(t, &CaptionResult{ShortCaption: "a", MediumCaption: "bb", LongCaption: "ccc"}, result)

	profiles.AssertExpectations(t)
	model.AssertExpectations(t)
	uploads.AssertExpectations(t)
	records.AssertExpectations(t)
}

func TestGenerateProfileFailureAbortsChain(t *testing.T) {
	svc, profiles, model, uploads, records := newServiceWithMocks()

	uploads.On("Save", mock.Anything, "alice", mock.Anything).Return(savedUpload(), nil)
	uploads.On("ReadBack", mock.Anything).Return([]byte("jpegbytes"), nil)

	upstream := apierr.New(http.StatusNotFound, `{"message":"user not found"}`)
	profiles.On("GetProfile", mock.Anything, "alice").Return(nil, upstream)

	_, err := svc.Generate(context.Background(), "alice", nil)
	require.Error(t, err)

	var ae *apierr.Error
	require.True(t, errors.As(err, &ae))
	require.Equal(t, http.StatusNotFound, ae.Status)

	profiles.AssertNotCalled(t, "GetRecentCaptions", mock.Anything, mock.Anything)
	model.AssertNotCalled(t, "GenerateTextWithImages", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	records.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestGenerateStructurerFailure(t *testing.T) {
	svc, profiles, model, uploads, records := newServiceWithMocks()

	uploads.On("Save", mock.Anything, "alice", mock.Anything).Return(savedUpload(), nil)
	uploads.On("ReadBack", mock.Anything).Return([]byte("jpegbytes"), nil)
	profiles.On("GetProfile", mock.Anything, "alice").Return(aliceProfile(), nil)
	profiles.On("GetRecentCaptions", mock.Anything, "alice").Return([]string{}, nil)
	model.On("GenerateTextWithImages", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("raw text", nil)
	model.On("GenerateJSON", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("schema validation failed"))

	_, err := svc.Generate(context.Background(), "alice", nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "schema validation failed")

	records.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestGenerateIncompleteResult(t *testing.T) {
	svc, profiles, model, uploads, records := newServiceWithMocks()

	uploads.On("Save", mock.Anything, "alice", mock.Anything).Return(savedUpload(), nil)
	uploads.On("ReadBack", mock.Anything).Return([]byte("jpegbytes"), nil)
	profiles.On("GetProfile", mock.Anything, "alice").Return(aliceProfile(), nil)
	profiles.On("GetRecentCaptions", mock.Anything, "alice").Return([]string{}, nil)
	model.On("GenerateTextWithImages", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("raw text", nil)
	model.On("GenerateJSON", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(map[string]any{"shortCaption": "a", "mediumCaption": "bb", "longCaption": ""}, nil)

	_, err := svc.Generate(context.Background(), "alice", nil)
	require.ErrorIs(t, err, ErrIncompleteResult)

	records.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestGenerateMissingFile(t *testing.T) {
	svc, profiles, _, uploads, _ := newServiceWithMocks()

	uploads.On("Save", mock.Anything, "alice", mock.Anything).Return(savedUpload(), nil)
	uploads.On("ReadBack", mock.Anything).Return(nil, upload.ErrFileMissing)

	_, err := svc.Generate(context.Background(), "alice", nil)
	require.ErrorIs(t, err, upload.ErrFileMissing)

	profiles.AssertNotCalled(t, "GetProfile", mock.Anything, mock.Anything)
}

func TestGenerateDiscardFailureDoesNotFailRequest(t *testing.T) {
	svc, profiles, model, uploads, records := newServiceWithMocks()

	uploads.On("Save", mock.Anything, "alice", mock.Anything).Return(savedUpload(), nil)
	uploads.On("ReadBack", mock.Anything).Return([]byte("jpegbytes"), nil)
	uploads.On("Discard", mock.Anything, mock.Anything).Return(errors.New("disk error"))
	profiles.On("GetProfile", mock.Anything, "alice").Return(aliceProfile(), nil)
	profiles.On("GetRecentCaptions", mock.Anything, "alice").Return([]string{}, nil)
	model.On("GenerateTextWithImages", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("raw", nil)
	model.On("GenerateJSON", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(map[string]any{"shortCaption": "a", "mediumCaption": "b", "longCaption": "c"}, nil)
	records.On("Create", mock.Anything, mock.Anything).Return(nil)

	result, err := svc.Generate(context.Background(), "alice", nil)
	require.NoError(t, err)
	require.NotNil(t, result)
}
