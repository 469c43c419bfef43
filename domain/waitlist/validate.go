package waitlist

import (
	"strings"

	apperrors "github.com/danuarta/waitlist-api/pkg/errors"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Normalize trims surrounding whitespace from every field. Validation and
// persistence both operate on the normalized values.
func (req *CreateWaitlistEntryRequest) Normalize() {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)
}

// Validate normalizes the request and returns one entry per violated
// constraint, not just the first. A nil result means the request is valid.
// Validation is deterministic and has no side effects beyond normalization.
func (req *CreateWaitlistEntryRequest) Validate() []apperrors.ValidationErrorResponse {
	req.Normalize()

	if err := validate.Struct(req); err != nil {
		return apperrors.FormatValidationErrors(err, req)
	}

	return nil
}
