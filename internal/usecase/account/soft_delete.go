package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	domain "github.com/clipperhub/barbershop-platform/internal/domain/account"
	"github.com/clipperhub/barbershop-platform/internal/httperr"
	"github.com/clipperhub/barbershop-platform/internal/models"
)

type SoftDelete struct {
	repo domain.Repository
}

func NewSoftDelete(repo domain.Repository) *SoftDelete {
	return &SoftDelete{repo: repo}
}

// Execute archives target. Admin-tier preconditions (active subscription on a
// shop, owned shops on an admin) are checked first, then the guarded update
// and the activity record commit together.
func (uc *SoftDelete) Execute(ctx context.Context, actor *models.Account, targetID uint, targetRole domain.Role) (*models.Account, error) {
	target, err := uc.lookup(ctx, actor, targetID, targetRole)
	if err != nil {
		return nil, err
	}

	now := time.Now()

	var sub *models.Subscription
	if domain.Role(target.Role) == domain.RoleBarbershop {
		sub, err = uc.repo.GetSubscription(ctx, target.ID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	var ownedShops []string
	if domain.Role(target.Role) == domain.RoleAdmin {
		shops, err := uc.repo.ListActiveOwned(ctx, domain.RoleBarbershop, target.ID)
		if err != nil {
			return nil, err
		}
		for _, s := range shops {
			ownedShops = append(ownedShops, s.DisplayName())
		}
	}

	if err := domain.CanSoftDelete(actor, target, sub, ownedShops, now); err != nil {
		return nil, err
	}

	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		ok, err := tx.MarkDeleted(ctx, target.ID, actor.ID, now)
		if err != nil {
			return err
		}
		if !ok {
			// Lost the race with a concurrent delete.
			return httperr.ErrBusiness("already_archived")
		}

		if domain.Role(target.Role) == domain.RoleBarbershop {
			return tx.CreateActivity(ctx, &models.Activity{
				BarbershopID: target.ID,
				ActionType:   models.ActionShopArchived,
				Description:  fmt.Sprintf("Barbershop deactivated by %s", actor.FullName()),
				Metadata:     metadataJSON(map[string]any{"deactivated_by": actor.ID, "action": "deactivate"}),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	target.DeletedAt = &now
	target.DeletedByID = &actor.ID
	target.IsActive = false
	return target, nil
}

// lookup applies the actor's visibility scope, so an admin asking about a
// foreign shop gets the same not_found as for a shop that never existed.
func (uc *SoftDelete) lookup(ctx context.Context, actor *models.Account, targetID uint, targetRole domain.Role) (*models.Account, error) {
	var (
		target *models.Account
		err    error
	)
	switch domain.Role(actor.Role) {
	case domain.RoleSuperAdmin:
		target, err = uc.repo.FindActive(ctx, targetID, targetRole)
	case domain.RoleAdmin:
		if targetRole != domain.RoleBarbershop {
			return nil, httperr.ErrBusiness("forbidden")
		}
		target, err = uc.repo.FindActiveOwned(ctx, targetID, targetRole, actor.ID)
	default:
		return nil, httperr.ErrBusiness("forbidden")
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("not_found")
		}
		return nil, err
	}
	return target, nil
}
