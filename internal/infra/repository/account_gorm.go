package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	domain "github.com/clipperhub/barbershop-platform/internal/domain/account"
	"github.com/clipperhub/barbershop-platform/internal/models"
)

type AccountGormRepository struct {
	db *gorm.DB
}

func NewAccountGormRepository(db *gorm.DB) *AccountGormRepository {
	return &AccountGormRepository{db: db}
}

// --------------------------------------------------
// Scopes
// --------------------------------------------------

func active(q *gorm.DB, role domain.Role) *gorm.DB {
	q = q.Where("deleted_at IS NULL")
	if role != "" {
		q = q.Where("role = ?", role.String())
	}
	return q
}

func deleted(q *gorm.DB, role domain.Role) *gorm.DB {
	q = q.Where("deleted_at IS NOT NULL")
	if role != "" {
		q = q.Where("role = ?", role.String())
	}
	return q
}

func (r *AccountGormRepository) accounts(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Account{})
}

// --------------------------------------------------
// Accounts
// --------------------------------------------------

func (r *AccountGormRepository) Create(ctx context.Context, a *models.Account) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *AccountGormRepository) Update(ctx context.Context, a *models.Account) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *AccountGormRepository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	var a models.Account
	if err := r.accounts(ctx).Where("email = ?", email).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AccountGormRepository) FindByID(ctx context.Context, id uint) (*models.Account, error) {
	var a models.Account
	if err := r.accounts(ctx).Where("id = ?", id).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AccountGormRepository) FindActive(ctx context.Context, id uint, role domain.Role) (*models.Account, error) {
	var a models.Account
	if err := active(r.accounts(ctx), role).Where("id = ?", id).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AccountGormRepository) FindActiveOwned(ctx context.Context, id uint, role domain.Role, ownerID uint) (*models.Account, error) {
	var a models.Account
	if err := active(r.accounts(ctx), role).
		Where("id = ? AND created_by_id = ?", id, ownerID).
		First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AccountGormRepository) FindDeleted(ctx context.Context, id uint, role domain.Role) (*models.Account, error) {
	var a models.Account
	if err := deleted(r.accounts(ctx), role).Where("id = ?", id).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AccountGormRepository) FindDeletedOwned(ctx context.Context, id uint, role domain.Role, ownerID uint) (*models.Account, error) {
	var a models.Account
	if err := deleted(r.accounts(ctx), role).
		Where("id = ? AND created_by_id = ?", id, ownerID).
		First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AccountGormRepository) ListActive(ctx context.Context, role domain.Role) ([]models.Account, error) {
	var out []models.Account
	err := active(r.accounts(ctx), role).Order("created_at DESC").Find(&out).Error
	return out, err
}

func (r *AccountGormRepository) ListActiveOwned(ctx context.Context, role domain.Role, ownerID uint) ([]models.Account, error) {
	var out []models.Account
	err := active(r.accounts(ctx), role).
		Where("created_by_id = ?", ownerID).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

func (r *AccountGormRepository) ListDeleted(ctx context.Context, role domain.Role) ([]models.Account, error) {
	var out []models.Account
	err := deleted(r.accounts(ctx), role).Order("deleted_at DESC").Find(&out).Error
	return out, err
}

func (r *AccountGormRepository) ListDeletedOwned(ctx context.Context, role domain.Role, ownerID uint) ([]models.Account, error) {
	var out []models.Account
	err := deleted(r.accounts(ctx), role).
		Where("created_by_id = ?", ownerID).
		Order("deleted_at DESC").
		Find(&out).Error
	return out, err
}

func (r *AccountGormRepository) CountActiveOwned(ctx context.Context, role domain.Role, ownerID uint) (int64, error) {
	var n int64
	err := active(r.accounts(ctx), role).Where("created_by_id = ?", ownerID).Count(&n).Error
	return n, err
}

// --------------------------------------------------
// Lifecycle
// --------------------------------------------------

// MarkDeleted archives the row only if it is still active, so two concurrent
// deletes cannot both report success.
func (r *AccountGormRepository) MarkDeleted(ctx context.Context, id uint, deletedBy uint, now time.Time) (bool, error) {
	res := r.accounts(ctx).
		Where("id = ? AND deleted_at IS NULL", id).
		Updates(map[string]any{
			"deleted_at":    now,
			"deleted_by_id": deletedBy,
			"is_active":     false,
		})
	return res.RowsAffected > 0, res.Error
}

func (r *AccountGormRepository) MarkRestored(ctx context.Context, id uint) (bool, error) {
	res := r.accounts(ctx).
		Where("id = ? AND deleted_at IS NOT NULL", id).
		Updates(map[string]any{
			"deleted_at":    nil,
			"deleted_by_id": nil,
			"is_active":     true,
		})
	return res.RowsAffected > 0, res.Error
}

func (r *AccountGormRepository) Reassign(ctx context.Context, shopID uint, newOwnerID uint) (bool, error) {
	res := r.accounts(ctx).
		Where("id = ? AND role = ? AND deleted_at IS NULL", shopID, domain.RoleBarbershop.String()).
		Update("created_by_id", newOwnerID)
	return res.RowsAffected > 0, res.Error
}

func (r *AccountGormRepository) ReassignAllOwned(ctx context.Context, fromOwnerID, toOwnerID uint) (int64, error) {
	res := r.accounts(ctx).
		Where("created_by_id = ? AND role = ? AND deleted_at IS NULL", fromOwnerID, domain.RoleBarbershop.String()).
		Update("created_by_id", toOwnerID)
	return res.RowsAffected, res.Error
}

// --------------------------------------------------
// Subscription
// --------------------------------------------------

func (r *AccountGormRepository) GetSubscription(ctx context.Context, accountID uint) (*models.Subscription, error) {
	var s models.Subscription
	if err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *AccountGormRepository) CreateSubscription(ctx context.Context, s *models.Subscription) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *AccountGormRepository) SaveSubscription(ctx context.Context, s *models.Subscription) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *AccountGormRepository) CreateSubscriptionHistory(ctx context.Context, h *models.SubscriptionHistory) error {
	return r.db.WithContext(ctx).Create(h).Error
}

// --------------------------------------------------
// Activity
// --------------------------------------------------

func (r *AccountGormRepository) CreateActivity(ctx context.Context, a *models.Activity) error {
	return r.db.WithContext(ctx).Create(a).Error
}

// --------------------------------------------------
// Transactions
// --------------------------------------------------

func (r *AccountGormRepository) Transaction(ctx context.Context, fn func(domain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&AccountGormRepository{db: tx})
	})
}
