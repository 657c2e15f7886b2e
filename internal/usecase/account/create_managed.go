package account

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	domain "github.com/clipperhub/barbershop-platform/internal/domain/account"
	"github.com/clipperhub/barbershop-platform/internal/httperr"
	"github.com/clipperhub/barbershop-platform/internal/models"
)

type CreateManagedInput struct {
	Role          domain.Role
	Email         string
	PasswordHash  string
	FirstName     string
	LastName      string
	Phone         string
	ShopName      string
	ShopOwnerName string
}

type CreateManaged struct {
	repo domain.Repository
}

func NewCreateManaged(repo domain.Repository) *CreateManaged {
	return &CreateManaged{repo: repo}
}

// Execute creates an account under actor's ownership. Barbershops also get
// their default subscription (basic, active, one year) and its "created"
// history row, committed with the account.
func (uc *CreateManaged) Execute(ctx context.Context, actor *models.Account, in CreateManagedInput) (*models.Account, error) {
	if !domain.CanCreateRole(actor, in.Role) {
		return nil, httperr.ErrBusiness("forbidden")
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	if _, err := uc.repo.FindByEmail(ctx, email); err == nil {
		return nil, httperr.ErrBusiness("email_taken")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	acct := &models.Account{
		Email:        email,
		PasswordHash: in.PasswordHash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Phone:        in.Phone,
		Role:         in.Role.String(),
		IsActive:     true,
		// Accounts minted by a privileged actor skip email verification.
		IsEmailVerified: true,
		CreatedByID:     &actor.ID,
	}
	if in.Role == domain.RoleBarbershop {
		acct.ShopName = in.ShopName
		acct.ShopOwnerName = in.ShopOwnerName
	}

	err := uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		if err := tx.Create(ctx, acct); err != nil {
			return err
		}
		if in.Role != domain.RoleBarbershop {
			return nil
		}

		now := time.Now()
		sub := &models.Subscription{
			AccountID:       acct.ID,
			Plan:            models.PlanBasic,
			Status:          models.SubscriptionActive,
			StartedAt:       now,
			ExpiresAt:       now.AddDate(1, 0, 0),
			MaxAppointments: 100,
			MaxStaff:        5,
		}
		if err := tx.CreateSubscription(ctx, sub); err != nil {
			return err
		}
		return tx.CreateSubscriptionHistory(ctx, &models.SubscriptionHistory{
			SubscriptionID: sub.ID,
			Action:         "created",
			NewPlan:        sub.Plan,
			NewStatus:      sub.Status,
			PerformedByID:  &actor.ID,
		})
	})
	if err != nil {
		return nil, err
	}
	return acct, nil
}
