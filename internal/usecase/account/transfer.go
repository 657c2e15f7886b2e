package account

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	domain "github.com/clipperhub/barbershop-platform/internal/domain/account"
	"github.com/clipperhub/barbershop-platform/internal/httperr"
	"github.com/clipperhub/barbershop-platform/internal/models"
)

type PartySnapshot struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type TransferResult struct {
	Barbershop PartySnapshot `json:"barbershop"`
	FromAdmin  PartySnapshot `json:"from_admin"`
	ToAdmin    PartySnapshot `json:"to_admin"`
}

type Transfer struct {
	repo domain.Repository
}

func NewTransfer(repo domain.Repository) *Transfer {
	return &Transfer{repo: repo}
}

// Execute moves one barbershop to another admin. The ownership update and the
// transfer_out activity commit together; the activity metadata snapshots both
// parties by value so the audit trail survives later renames or deletions.
func (uc *Transfer) Execute(ctx context.Context, actor *models.Account, shopID, toAdminID uint) (*TransferResult, error) {
	var (
		shop *models.Account
		err  error
	)
	switch domain.Role(actor.Role) {
	case domain.RoleSuperAdmin:
		shop, err = uc.repo.FindActive(ctx, shopID, domain.RoleBarbershop)
	case domain.RoleAdmin:
		shop, err = uc.repo.FindActiveOwned(ctx, shopID, domain.RoleBarbershop, actor.ID)
	default:
		return nil, httperr.ErrBusiness("forbidden")
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("not_found")
		}
		return nil, err
	}

	toAdmin, err := uc.repo.FindActive(ctx, toAdminID, domain.RoleAdmin)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("target_admin_not_found")
		}
		return nil, err
	}

	if err := domain.CanTransfer(actor, shop, toAdmin); err != nil {
		return nil, err
	}

	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		ok, err := tx.Reassign(ctx, shop.ID, toAdmin.ID)
		if err != nil {
			return err
		}
		if !ok {
			return httperr.ErrBusiness("not_found")
		}

		return tx.CreateActivity(ctx, &models.Activity{
			BarbershopID: shop.ID,
			ActionType:   models.ActionTransferOut,
			Description: fmt.Sprintf("Barbershop %q transferred from %s to %s",
				shop.DisplayName(), actor.FullName(), toAdmin.FullName()),
			Metadata: metadataJSON(map[string]any{
				"barbershop_id":   shop.ID,
				"barbershop_name": shop.ShopName,
				"from_admin_id":   actor.ID,
				"from_admin_email": actor.Email,
				"from_admin_name":  actor.FullName(),
				"to_admin_id":      toAdmin.ID,
				"to_admin_email":   toAdmin.Email,
				"to_admin_name":    toAdmin.FullName(),
				"transfer_type":    "ownership_change",
			}),
		})
	})
	if err != nil {
		return nil, err
	}

	return &TransferResult{
		Barbershop: PartySnapshot{ID: shop.ID, Name: shop.DisplayName(), Email: shop.Email},
		FromAdmin:  PartySnapshot{ID: actor.ID, Name: actor.FullName(), Email: actor.Email},
		ToAdmin:    PartySnapshot{ID: toAdmin.ID, Name: toAdmin.FullName(), Email: toAdmin.Email},
	}, nil
}

// TransferAll moves every active shop an admin owns to another admin in one
// transaction. Super-admin only; used before archiving the source admin.
type TransferAll struct {
	repo domain.Repository
}

func NewTransferAll(repo domain.Repository) *TransferAll {
	return &TransferAll{repo: repo}
}

type TransferAllResult struct {
	TransferredCount int64    `json:"transferred_count"`
	FromAdmin        string   `json:"from_admin"`
	ToAdmin          string   `json:"to_admin"`
	BarbershopNames  []string `json:"barbershop_names"`
}

func (uc *TransferAll) Execute(ctx context.Context, actor *models.Account, fromAdminID, toAdminID uint) (*TransferAllResult, error) {
	if domain.Role(actor.Role) != domain.RoleSuperAdmin {
		return nil, httperr.ErrBusiness("forbidden")
	}

	fromAdmin, err := uc.repo.FindActive(ctx, fromAdminID, domain.RoleAdmin)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("not_found")
		}
		return nil, err
	}
	toAdmin, err := uc.repo.FindActive(ctx, toAdminID, domain.RoleAdmin)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("target_admin_not_found")
		}
		return nil, err
	}
	if fromAdmin.ID == toAdmin.ID {
		return nil, httperr.ErrBusiness("self_transfer")
	}

	shops, err := uc.repo.ListActiveOwned(ctx, domain.RoleBarbershop, fromAdmin.ID)
	if err != nil {
		return nil, err
	}
	if len(shops) == 0 {
		return nil, httperr.ErrBusiness("no_barbershops")
	}

	var names []string
	for _, s := range shops {
		names = append(names, s.DisplayName())
	}

	var moved int64
	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		moved, err = tx.ReassignAllOwned(ctx, fromAdmin.ID, toAdmin.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &TransferAllResult{
		TransferredCount: moved,
		FromAdmin:        fromAdmin.Email,
		ToAdmin:          toAdmin.Email,
		BarbershopNames:  names,
	}, nil
}
