package waitlist

import (
	"github.com/danuarta/waitlist-api/internal/models"
	"github.com/danuarta/waitlist-api/pkg/constants"
)

// ItemsPerPage is the fixed page size for the admin listing.
const ItemsPerPage = 10

type CreateWaitlistEntryRequest struct {
	Name  string `json:"name" validate:"required,max=80"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"required,min=5,max=20"`
}

// ListWaitlistQuery carries the optional listing filters. Search matches
// name, email, or phone case-insensitively. All bypasses pagination and
// returns every matching row (the export mode).
type ListWaitlistQuery struct {
	Search string
	Page   int
	All    bool
}

type WaitlistEntryResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	CreatedAt string `json:"created_at"`
}

// ========================================
// Mappers
// ========================================

func ToWaitlistEntryModel(req *CreateWaitlistEntryRequest) *models.WaitlistEntry {
	if req == nil {
		return nil
	}
	return &models.WaitlistEntry{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	}
}

func ToWaitlistEntryResponse(entry *models.WaitlistEntry) WaitlistEntryResponse {
	if entry == nil {
		return WaitlistEntryResponse{}
	}
	return WaitlistEntryResponse{
		ID:        entry.ID,
		Name:      entry.Name,
		Email:     entry.Email,
		Phone:     entry.Phone,
		CreatedAt: entry.CreatedAt.Format(constants.RFC3339DateTimeFormat),
	}
}
