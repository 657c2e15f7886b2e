package account

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	domain "github.com/clipperhub/barbershop-platform/internal/domain/account"
	"github.com/clipperhub/barbershop-platform/internal/httperr"
	"github.com/clipperhub/barbershop-platform/internal/models"
)

type UpdateSubscriptionInput struct {
	Plan      *string
	Status    *string
	ExpiresAt *time.Time
	Notes     string
}

type UpdateSubscription struct {
	repo domain.Repository
}

func NewUpdateSubscription(repo domain.Repository) *UpdateSubscription {
	return &UpdateSubscription{repo: repo}
}

// Execute changes a shop's subscription; the change and its before/after
// history row commit together.
func (uc *UpdateSubscription) Execute(ctx context.Context, actor *models.Account, shopID uint, in UpdateSubscriptionInput) (*models.Subscription, error) {
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

	if in.Plan != nil && !models.ValidPlan(*in.Plan) {
		return nil, httperr.ErrBusinessWithDetails("validation", "Unknown subscription plan.",
			map[string]any{"plan": *in.Plan})
	}
	if in.Status != nil && !models.ValidSubscriptionStatus(*in.Status) {
		return nil, httperr.ErrBusinessWithDetails("validation", "Unknown subscription status.",
			map[string]any{"status": *in.Status})
	}

	sub, err := uc.repo.GetSubscription(ctx, shop.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("not_found")
		}
		return nil, err
	}

	oldPlan, oldStatus := sub.Plan, sub.Status
	if in.Plan != nil {
		sub.Plan = *in.Plan
	}
	if in.Status != nil {
		sub.Status = *in.Status
	}
	if in.ExpiresAt != nil {
		sub.ExpiresAt = *in.ExpiresAt
	}

	if sub.Plan == oldPlan && sub.Status == oldStatus && in.ExpiresAt == nil {
		return sub, nil
	}

	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		if err := tx.SaveSubscription(ctx, sub); err != nil {
			return err
		}
		if err := tx.CreateSubscriptionHistory(ctx, &models.SubscriptionHistory{
			SubscriptionID: sub.ID,
			Action:         historyAction(oldPlan, sub.Plan, oldStatus, sub.Status),
			OldPlan:        oldPlan,
			NewPlan:        sub.Plan,
			OldStatus:      oldStatus,
			NewStatus:      sub.Status,
			PerformedByID:  &actor.ID,
			Notes:          in.Notes,
		}); err != nil {
			return err
		}
		return tx.CreateActivity(ctx, &models.Activity{
			BarbershopID: shop.ID,
			ActionType:   models.ActionSubscriptionChanged,
			Description:  "Subscription updated by " + actor.FullName(),
			Metadata: metadataJSON(map[string]any{
				"old_plan": oldPlan, "new_plan": sub.Plan,
				"old_status": oldStatus, "new_status": sub.Status,
			}),
		})
	})
	if err != nil {
		return nil, err
	}
	return sub, nil
}

func planRank(p string) int {
	switch p {
	case models.PlanBasic:
		return 0
	case models.PlanPremium:
		return 1
	case models.PlanEnterprise:
		return 2
	}
	return -1
}

func historyAction(oldPlan, newPlan, oldStatus, newStatus string) string {
	switch {
	case planRank(newPlan) > planRank(oldPlan):
		return "upgraded"
	case planRank(newPlan) < planRank(oldPlan):
		return "downgraded"
	case newStatus == models.SubscriptionSuspended && oldStatus != models.SubscriptionSuspended:
		return "suspended"
	case newStatus == models.SubscriptionActive && oldStatus != models.SubscriptionActive:
		return "renewed"
	}
	return "updated"
}
