package waitlist

import (
	"context"
	"math"

	"github.com/danuarta/waitlist-api/config/router"
	"github.com/danuarta/waitlist-api/internal/log"
	apperrors "github.com/danuarta/waitlist-api/pkg/errors"
)

type WaitlistService interface {
	// CreateEntry validates the submission and persists it. Validation
	// failures are reported before any storage call.
	CreateEntry(ctx context.Context, req *CreateWaitlistEntryRequest) (*WaitlistEntryResponse, error)

	// ListEntries returns the filtered page of entries plus the pagination
	// metadata computed against the same filter.
	ListEntries(ctx context.Context, query ListWaitlistQuery) ([]WaitlistEntryResponse, router.Pagination, error)
}

type waitlistService struct {
	logger     *log.Logger
	repository WaitlistRepository
}

func NewWaitlistService(logger *log.Logger, repository WaitlistRepository) WaitlistService {
	return &waitlistService{logger: logger, repository: repository}
}

func (s *waitlistService) CreateEntry(ctx context.Context, req *CreateWaitlistEntryRequest) (*WaitlistEntryResponse, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	if req == nil {
		logger.Error("CreateEntry received empty request")
		return nil, apperrors.NewInvalidRequestError("request cannot be nil", nil)
	}

	if fieldErrors := req.Validate(); len(fieldErrors) > 0 {
		logger.Info("Waitlist submission rejected by validation", "violations", len(fieldErrors))
		return nil, apperrors.NewValidationError("Failed to add you to the waitlist", fieldErrors)
	}

	entry, err := s.repository.CreateEntry(ctx, ToWaitlistEntryModel(req))
	if err != nil {
		logger.Error("Failed to create waitlist entry", "error", err)
		return nil, err
	}

	response := ToWaitlistEntryResponse(entry)
	return &response, nil
}

func (s *waitlistService) ListEntries(ctx context.Context, query ListWaitlistQuery) ([]WaitlistEntryResponse, router.Pagination, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	if query.Page < 1 {
		query.Page = 1
	}

	entries, total, err := s.repository.ListEntries(ctx, query)
	if err != nil {
		logger.Error("Failed to list waitlist entries", "error", err)
		return nil, router.Pagination{}, err
	}

	responses := make([]WaitlistEntryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, ToWaitlistEntryResponse(entry))
	}

	return responses, buildPagination(query, total), nil
}

func buildPagination(query ListWaitlistQuery, total int64) router.Pagination {
	if query.All {
		return router.Pagination{
			Page:      1,
			Limit:     int(total),
			TotalData: total,
			TotalPage: 1,
		}
	}

	return router.Pagination{
		Page:      query.Page,
		Limit:     ItemsPerPage,
		TotalData: total,
		TotalPage: int(math.Ceil(float64(total) / float64(ItemsPerPage))),
	}
}
