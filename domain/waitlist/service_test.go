package waitlist

import (
	"context"
	"testing"
	"time"

	"github.com/danuarta/waitlist-api/internal/log"
	"github.com/danuarta/waitlist-api/internal/models"
	apperrors "github.com/danuarta/waitlist-api/pkg/errors"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestWaitlistService_CreateEntry(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := NewMockWaitlistRepository(ctrl)
	logger := log.NewLoggerWithJSONOutput()
	service := NewWaitlistService(logger, mockRepo)

	t.Run("successful creation", func(t *testing.T) {
		req := &CreateWaitlistEntryRequest{
			Name:  "Ada",
			Email: "ada@example.com",
			Phone: "6281234567",
		}

		expectedEntry := &models.WaitlistEntry{
			ID:        "5b2c8c0a-9a75-4a0c-9a35-b3a6f0a32f01",
			Name:      "Ada",
			Email:     "ada@example.com",
			Phone:     "6281234567",
			CreatedAt: time.Now(),
		}

		mockRepo.EXPECT().
			CreateEntry(gomock.Any(), gomock.Any()).
			Return(expectedEntry, nil)

		result, err := service.CreateEntry(context.Background(), req)

		assert.NoError(t, err)
		assert.NotNil(t, result)
		assert.Equal(t, expectedEntry.ID, result.ID)
		assert.Equal(t, req.Name, result.Name)
		assert.Equal(t, req.Email, result.Email)
		assert.Equal(t, req.Phone, result.Phone)
		assert.NotEmpty(t, result.CreatedAt)
	})

	t.Run("validation failure never touches storage", func(t *testing.T) {
		req := &CreateWaitlistEntryRequest{
			Name:  "   ",
			Email: "not-an-email",
			Phone: "123",
		}

		result, err := service.CreateEntry(context.Background(), req)

		assert.Error(t, err)
		assert.Nil(t, result)
		assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.GetErrorType(err))

		fields := apperrors.ValidationFields(err)
		assert.Len(t, fields, 3)

		byField := map[string]string{}
		for _, f := range fields {
			byField[f.Field] = f.Message
		}
		assert.Contains(t, byField, "name")
		assert.Contains(t, byField, "email")
		assert.Contains(t, byField, "phone")
	})

	t.Run("trims fields before validation and persistence", func(t *testing.T) {
		req := &CreateWaitlistEntryRequest{
			Name:  "  Ada  ",
			Email: " ada@example.com ",
			Phone: " 6281234567 ",
		}

		mockRepo.EXPECT().
			CreateEntry(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, entry *models.WaitlistEntry) (*models.WaitlistEntry, error) {
				assert.Equal(t, "Ada", entry.Name)
				assert.Equal(t, "ada@example.com", entry.Email)
				assert.Equal(t, "6281234567", entry.Phone)
				return entry, nil
			})

		result, err := service.CreateEntry(context.Background(), req)

		assert.NoError(t, err)
		assert.Equal(t, "Ada", result.Name)
	})

	t.Run("duplicate surfaces as conflict", func(t *testing.T) {
		req := &CreateWaitlistEntryRequest{
			Name:  "Ada",
			Email: "ada@example.com",
			Phone: "6281234567",
		}

		mockRepo.EXPECT().
			CreateEntry(gomock.Any(), gomock.Any()).
			Return(nil, apperrors.NewConflictError("Email or phone already in the waitlist", nil))

		result, err := service.CreateEntry(context.Background(), req)

		assert.Error(t, err)
		assert.Nil(t, result)
		assert.Equal(t, apperrors.ErrorTypeConflict, apperrors.GetErrorType(err))
		assert.Equal(t, apperrors.StatusConflict, apperrors.HTTPStatusCode(err))
	})

	t.Run("repository error", func(t *testing.T) {
		req := &CreateWaitlistEntryRequest{
			Name:  "Ada",
			Email: "ada@example.com",
			Phone: "6281234567",
		}

		mockRepo.EXPECT().
			CreateEntry(gomock.Any(), gomock.Any()).
			Return(nil, apperrors.NewDatabaseError("database error", nil))

		result, err := service.CreateEntry(context.Background(), req)

		assert.Error(t, err)
		assert.Nil(t, result)
		assert.Equal(t, apperrors.StatusInternalServerError, apperrors.HTTPStatusCode(err))
	})
}

func TestWaitlistService_ListEntries(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := NewMockWaitlistRepository(ctrl)
	logger := log.NewLoggerWithJSONOutput()
	service := NewWaitlistService(logger, mockRepo)

	entries := []*models.WaitlistEntry{
		{ID: "a", Name: "John", Email: "john@example.com", Phone: "1234567", CreatedAt: time.Now()},
		{ID: "b", Name: "Jane", Email: "jane@example.com", Phone: "7654321", CreatedAt: time.Now()},
	}

	t.Run("pagination metadata for a partial last page", func(t *testing.T) {
		mockRepo.EXPECT().
			ListEntries(gomock.Any(), ListWaitlistQuery{Page: 2}).
			Return(entries, int64(15), nil)

		result, pagination, err := service.ListEntries(context.Background(), ListWaitlistQuery{Page: 2})

		assert.NoError(t, err)
		assert.Len(t, result, 2)
		assert.Equal(t, 2, pagination.Page)
		assert.Equal(t, ItemsPerPage, pagination.Limit)
		assert.Equal(t, int64(15), pagination.TotalData)
		assert.Equal(t, 2, pagination.TotalPage)
	})

	t.Run("non-positive page defaults to 1", func(t *testing.T) {
		mockRepo.EXPECT().
			ListEntries(gomock.Any(), ListWaitlistQuery{Page: 1}).
			Return(entries, int64(2), nil)

		_, pagination, err := service.ListEntries(context.Background(), ListWaitlistQuery{Page: -3})

		assert.NoError(t, err)
		assert.Equal(t, 1, pagination.Page)
	})

	t.Run("export-all bypasses pagination", func(t *testing.T) {
		mockRepo.EXPECT().
			ListEntries(gomock.Any(), ListWaitlistQuery{Page: 1, All: true}).
			Return(entries, int64(2), nil)

		result, pagination, err := service.ListEntries(context.Background(), ListWaitlistQuery{All: true})

		assert.NoError(t, err)
		assert.Len(t, result, 2)
		assert.Equal(t, 1, pagination.Page)
		assert.Equal(t, 2, pagination.Limit)
		assert.Equal(t, int64(2), pagination.TotalData)
		assert.Equal(t, 1, pagination.TotalPage)
	})

	t.Run("empty result is not an error", func(t *testing.T) {
		mockRepo.EXPECT().
			ListEntries(gomock.Any(), gomock.Any()).
			Return(nil, int64(0), nil)

		result, pagination, err := service.ListEntries(context.Background(), ListWaitlistQuery{Search: "nobody"})

		assert.NoError(t, err)
		assert.NotNil(t, result)
		assert.Empty(t, result)
		assert.Equal(t, int64(0), pagination.TotalData)
	})

	t.Run("repository error is passed through", func(t *testing.T) {
		mockRepo.EXPECT().
			ListEntries(gomock.Any(), gomock.Any()).
			Return(nil, int64(0), apperrors.NewDatabaseError("unable to fetch waitlist entries", nil))

		result, _, err := service.ListEntries(context.Background(), ListWaitlistQuery{})

		assert.Error(t, err)
		assert.Nil(t, result)
	})
}
