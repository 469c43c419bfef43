package waitlist

import (
	"context"
	"errors"
	"strings"

	"github.com/danuarta/waitlist-api/internal/models"
	apperrors "github.com/danuarta/waitlist-api/pkg/errors"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type WaitlistRepository interface {
	// CreateEntry persists a new waitlist entry. A unique-constraint failure
	// on email or phone is returned as a conflict error.
	CreateEntry(ctx context.Context, entry *models.WaitlistEntry) (*models.WaitlistEntry, error)
	// ListEntries returns the matching entries plus the total matching count.
	ListEntries(ctx context.Context, query ListWaitlistQuery) ([]*models.WaitlistEntry, int64, error)
}

type waitlistRepository struct {
	db *gorm.DB
}

func NewWaitlistRepository(db *gorm.DB) WaitlistRepository {
	return &waitlistRepository{db: db}
}

func (wr *waitlistRepository) CreateEntry(ctx context.Context, entry *models.WaitlistEntry) (*models.WaitlistEntry, error) {
	if err := wr.db.WithContext(ctx).Create(entry).Error; err != nil {
		if isDuplicateKey(err) {
			// Duplicate classification relies on the storage layer's own
			// uniqueness signal rather than a pre-check query, so concurrent
			// submissions of the same email or phone cannot race past it.
			return nil, apperrors.NewConflictError("Email or phone already in the waitlist", err)
		}
		return nil, apperrors.NewDatabaseError("unable to create waitlist entry", err)
	}

	return entry, nil
}

// ListEntries issues the count query and the data query concurrently and joins
// the results. Both must succeed or the whole call fails.
func (wr *waitlistRepository) ListEntries(ctx context.Context, query ListWaitlistQuery) ([]*models.WaitlistEntry, int64, error) {
	var (
		entries []*models.WaitlistEntry
		total   int64
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		tx := wr.searchScope(gctx, query.Search).Order("created_at DESC")
		if !query.All {
			offset := (query.Page - 1) * ItemsPerPage
			tx = tx.Limit(ItemsPerPage).Offset(offset)
		}
		return tx.Find(&entries).Error
	})

	g.Go(func() error {
		return wr.searchScope(gctx, query.Search).Count(&total).Error
	})

	if err := g.Wait(); err != nil {
		return nil, 0, apperrors.NewDatabaseError("unable to fetch waitlist entries", err)
	}

	return entries, total, nil
}

// searchScope builds a fresh query with the shared filter predicate, so the
// count and data queries always see the same match set. LOWER(...) LIKE keeps
// the contains semantics portable across postgres and sqlite.
func (wr *waitlistRepository) searchScope(ctx context.Context, search string) *gorm.DB {
	tx := wr.db.WithContext(ctx).Model(&models.WaitlistEntry{})

	search = strings.TrimSpace(search)
	if search == "" {
		return tx
	}

	pattern := "%" + strings.ToLower(search) + "%"
	return tx.Where(
		"LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(phone) LIKE ?",
		pattern, pattern, pattern,
	)
}

func isDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) || apperrors.IsDuplicateKeyError(err)
}
