package account

import (
	"context"
	"time"

	"github.com/clipperhub/barbershop-platform/internal/models"
)

// Repository is the role-scoped query layer over accounts. Implementations
// must keep every "Owned" variant filtered by created_by so handlers never
// learn whether a foreign tenant's account exists.
type Repository interface {
	// -------- Accounts --------
	Create(ctx context.Context, a *models.Account) error
	Update(ctx context.Context, a *models.Account) error

	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	FindByID(ctx context.Context, id uint) (*models.Account, error)

	FindActive(ctx context.Context, id uint, role Role) (*models.Account, error)
	FindActiveOwned(ctx context.Context, id uint, role Role, ownerID uint) (*models.Account, error)
	FindDeleted(ctx context.Context, id uint, role Role) (*models.Account, error)
	FindDeletedOwned(ctx context.Context, id uint, role Role, ownerID uint) (*models.Account, error)

	ListActive(ctx context.Context, role Role) ([]models.Account, error)
	ListActiveOwned(ctx context.Context, role Role, ownerID uint) ([]models.Account, error)
	ListDeleted(ctx context.Context, role Role) ([]models.Account, error)
	ListDeletedOwned(ctx context.Context, role Role, ownerID uint) ([]models.Account, error)

	CountActiveOwned(ctx context.Context, role Role, ownerID uint) (int64, error)

	// -------- Lifecycle (guarded single-row updates) --------
	MarkDeleted(ctx context.Context, id uint, deletedBy uint, now time.Time) (bool, error)
	MarkRestored(ctx context.Context, id uint) (bool, error)
	Reassign(ctx context.Context, shopID uint, newOwnerID uint) (bool, error)
	ReassignAllOwned(ctx context.Context, fromOwnerID, toOwnerID uint) (int64, error)

	// -------- Subscription --------
	GetSubscription(ctx context.Context, accountID uint) (*models.Subscription, error)
	CreateSubscription(ctx context.Context, s *models.Subscription) error
	SaveSubscription(ctx context.Context, s *models.Subscription) error
	CreateSubscriptionHistory(ctx context.Context, h *models.SubscriptionHistory) error

	// -------- Activity --------
	CreateActivity(ctx context.Context, a *models.Activity) error

	// Transaction runs fn against a repository bound to one transaction;
	// any error rolls everything back.
	Transaction(ctx context.Context, fn func(Repository) error) error
}
