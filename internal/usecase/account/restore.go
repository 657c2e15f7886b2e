package account

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"

	domain "github.com/clipperhub/barbershop-platform/internal/domain/account"
	"github.com/clipperhub/barbershop-platform/internal/httperr"
	"github.com/clipperhub/barbershop-platform/internal/models"
)

func metadataJSON(m map[string]any) string {
	b, err := json.Marshal(m)
	if err != nil {
		return ""
	}
	return string(b)
}

type Restore struct {
	repo domain.Repository
}

func NewRestore(repo domain.Repository) *Restore {
	return &Restore{repo: repo}
}

func (uc *Restore) Execute(ctx context.Context, actor *models.Account, targetID uint, targetRole domain.Role) (*models.Account, error) {
	target, err := uc.lookupDeleted(ctx, actor, targetID, targetRole)
	if err != nil {
		return nil, err
	}

	if err := domain.CanRestore(actor, target); err != nil {
		return nil, err
	}

	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		ok, err := tx.MarkRestored(ctx, target.ID)
		if err != nil {
			return err
		}
		if !ok {
			return httperr.ErrBusiness("already_active")
		}

		if domain.Role(target.Role) == domain.RoleBarbershop {
			return tx.CreateActivity(ctx, &models.Activity{
				BarbershopID: target.ID,
				ActionType:   models.ActionShopRestored,
				Description:  fmt.Sprintf("Barbershop restored by %s", actor.FullName()),
				Metadata:     metadataJSON(map[string]any{"restored_by": actor.ID}),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	target.DeletedAt = nil
	target.DeletedByID = nil
	target.IsActive = true
	return target, nil
}

// lookupDeleted searches the actor's archive scope; a target that is already
// active again reports already_active rather than not_found, so a repeated
// restore is a clear no-op.
func (uc *Restore) lookupDeleted(ctx context.Context, actor *models.Account, targetID uint, targetRole domain.Role) (*models.Account, error) {
	var (
		target *models.Account
		err    error
	)
	switch domain.Role(actor.Role) {
	case domain.RoleSuperAdmin:
		target, err = uc.repo.FindDeleted(ctx, targetID, targetRole)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if _, activeErr := uc.repo.FindActive(ctx, targetID, targetRole); activeErr == nil {
				return nil, httperr.ErrBusiness("already_active")
			}
			return nil, httperr.ErrBusiness("not_found")
		}
	case domain.RoleAdmin:
		if targetRole != domain.RoleBarbershop {
			return nil, httperr.ErrBusiness("forbidden")
		}
		target, err = uc.repo.FindDeletedOwned(ctx, targetID, targetRole, actor.ID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if _, activeErr := uc.repo.FindActiveOwned(ctx, targetID, targetRole, actor.ID); activeErr == nil {
				return nil, httperr.ErrBusiness("already_active")
			}
			return nil, httperr.ErrBusiness("not_found")
		}
	default:
		return nil, httperr.ErrBusiness("forbidden")
	}
	if err != nil {
		return nil, err
	}
	return target, nil
}
