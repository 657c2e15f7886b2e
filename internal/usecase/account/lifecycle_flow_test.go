package account

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	dbpkg "github.com/clipperhub/barbershop-platform/internal/db"
	domain "github.com/clipperhub/barbershop-platform/internal/domain/account"
	"github.com/clipperhub/barbershop-platform/internal/httperr"
	infraRepo "github.com/clipperhub/barbershop-platform/internal/infra/repository"
	"github.com/clipperhub/barbershop-platform/internal/models"
)

var emailSeq atomic.Uint64

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, dbpkg.Migrate(db))
	return db
}

func seed(t *testing.T, db *gorm.DB, role domain.Role, createdBy *uint) *models.Account {
	t.Helper()
	a := &models.Account{
		Email:        fmt.Sprintf("%s_%d@test.local", role, emailSeq.Add(1)),
		PasswordHash: "x",
		FirstName:    "Test",
		LastName:     string(role),
		Role:         role.String(),
		IsActive:     true,
		CreatedByID:  createdBy,
	}
	if role == domain.RoleBarbershop {
		a.ShopName = fmt.Sprintf("Shop %d", emailSeq.Add(1))
	}
	require.NoError(t, db.Create(a).Error)
	return a
}

func countActivities(t *testing.T, db *gorm.DB, shopID uint, action string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.Activity{}).
		Where("barbershop_id = ? AND action_type = ?", shopID, action).
		Count(&n).Error)
	return n
}

func TestSoftDeleteShopWritesArchiveActivity(t *testing.T) {
	db := newTestDB(t)
	repo := infraRepo.NewAccountGormRepository(db)
	ctx := context.Background()

	admin := seed(t, db, domain.RoleAdmin, nil)
	shop := seed(t, db, domain.RoleBarbershop, &admin.ID)

	got, err := NewSoftDelete(repo).Execute(ctx, admin, shop.ID, domain.RoleBarbershop)
	require.NoError(t, err)
	require.NotNil(t, got.DeletedAt)
	require.False(t, got.IsActive)

	var row models.Account
	require.NoError(t, db.First(&row, shop.ID).Error)
	require.NotNil(t, row.DeletedAt)
	require.EqualValues(t, 1, countActivities(t, db, shop.ID, models.ActionShopArchived))
}

func TestSoftDeleteBlockedByActiveSubscription(t *testing.T) {
	db := newTestDB(t)
	repo := infraRepo.NewAccountGormRepository(db)
	ctx := context.Background()

	admin := seed(t, db, domain.RoleAdmin, nil)
	shop := seed(t, db, domain.RoleBarbershop, &admin.ID)
	require.NoError(t, db.Create(&models.Subscription{
		AccountID: shop.ID,
		Plan:      models.PlanPremium,
		Status:    models.SubscriptionActive,
		StartedAt: time.Now(),
		ExpiresAt: time.Now().AddDate(0, 3, 0),
	}).Error)

	_, err := NewSoftDelete(repo).Execute(ctx, admin, shop.ID, domain.RoleBarbershop)
	require.True(t, httperr.IsBusiness(err, "active_subscription"))

	// Nothing changed and no audit row was written.
	var row models.Account
	require.NoError(t, db.First(&row, shop.ID).Error)
	require.Nil(t, row.DeletedAt)
	require.True(t, row.IsActive)
	require.EqualValues(t, 0, countActivities(t, db, shop.ID, models.ActionShopArchived))
}

func TestSoftDeleteAdminBlockedByOwnedShops(t *testing.T) {
	db := newTestDB(t)
	repo := infraRepo.NewAccountGormRepository(db)
	ctx := context.Background()

	super := seed(t, db, domain.RoleSuperAdmin, nil)
	admin := seed(t, db, domain.RoleAdmin, &super.ID)
	shop := seed(t, db, domain.RoleBarbershop, &admin.ID)

	_, err := NewSoftDelete(repo).Execute(ctx, super, admin.ID, domain.RoleAdmin)
	require.True(t, httperr.IsBusiness(err, "owns_active_barbershops"))

	be, _ := httperr.AsBusiness(err)
	require.Contains(t, be.Details["barbershop_names"], shop.ShopName)

	// Archiving the shop clears the block.
	_, err = NewSoftDelete(repo).Execute(ctx, super, shop.ID, domain.RoleBarbershop)
	require.NoError(t, err)
	_, err = NewSoftDelete(repo).Execute(ctx, super, admin.ID, domain.RoleAdmin)
	require.NoError(t, err)
}

func TestSoftDeleteForeignShopIsNotFound(t *testing.T) {
	db := newTestDB(t)
	repo := infraRepo.NewAccountGormRepository(db)
	ctx := context.Background()

	adminA := seed(t, db, domain.RoleAdmin, nil)
	adminB := seed(t, db, domain.RoleAdmin, nil)
	shopB := seed(t, db, domain.RoleBarbershop, &adminB.ID)

	_, err := NewSoftDelete(repo).Execute(ctx, adminA, shopB.ID, domain.RoleBarbershop)
	require.True(t, httperr.IsBusiness(err, "not_found"))
}

func TestRestoreReversesSoftDelete(t *testing.T) {
	db := newTestDB(t)
	repo := infraRepo.NewAccountGormRepository(db)
	ctx := context.Background()

	admin := seed(t, db, domain.RoleAdmin, nil)
	shop := seed(t, db, domain.RoleBarbershop, &admin.ID)

	_, err := NewSoftDelete(repo).Execute(ctx, admin, shop.ID, domain.RoleBarbershop)
	require.NoError(t, err)

	got, err := NewRestore(repo).Execute(ctx, admin, shop.ID, domain.RoleBarbershop)
	require.NoError(t, err)
	require.Nil(t, got.DeletedAt)
	require.True(t, got.IsActive)
	require.EqualValues(t, 1, countActivities(t, db, shop.ID, models.ActionShopRestored))

	// Restoring again reports the no-op explicitly.
	_, err = NewRestore(repo).Execute(ctx, admin, shop.ID, domain.RoleBarbershop)
	require.True(t, httperr.IsBusiness(err, "already_active"))
}

func TestTransferMovesOwnershipAtomically(t *testing.T) {
	db := newTestDB(t)
	repo := infraRepo.NewAccountGormRepository(db)
	ctx := context.Background()

	adminA := seed(t, db, domain.RoleAdmin, nil)
	adminB := seed(t, db, domain.RoleAdmin, nil)
	shop := seed(t, db, domain.RoleBarbershop, &adminA.ID)

	result, err := NewTransfer(repo).Execute(ctx, adminA, shop.ID, adminB.ID)
	require.NoError(t, err)
	require.Equal(t, adminB.ID, result.ToAdmin.ID)

	var row models.Account
	require.NoError(t, db.First(&row, shop.ID).Error)
	require.NotNil(t, row.CreatedByID)
	require.Equal(t, adminB.ID, *row.CreatedByID)

	// Exactly one audit record for the move.
	require.EqualValues(t, 1, countActivities(t, db, shop.ID, models.ActionTransferOut))

	// The old owner lost visibility entirely.
	_, err = NewTransfer(repo).Execute(ctx, adminA, shop.ID, adminA.ID)
	require.True(t, httperr.IsBusiness(err, "not_found"))
}

func TestTransferToSelfRejected(t *testing.T) {
	db := newTestDB(t)
	repo := infraRepo.NewAccountGormRepository(db)
	ctx := context.Background()

	adminA := seed(t, db, domain.RoleAdmin, nil)
	shop := seed(t, db, domain.RoleBarbershop, &adminA.ID)

	_, err := NewTransfer(repo).Execute(ctx, adminA, shop.ID, adminA.ID)
	require.True(t, httperr.IsBusiness(err, "self_transfer"))
	require.EqualValues(t, 0, countActivities(t, db, shop.ID, models.ActionTransferOut))
}

func TestTransferAllRequiresShops(t *testing.T) {
	db := newTestDB(t)
	repo := infraRepo.NewAccountGormRepository(db)
	ctx := context.Background()

	super := seed(t, db, domain.RoleSuperAdmin, nil)
	adminA := seed(t, db, domain.RoleAdmin, &super.ID)
	adminB := seed(t, db, domain.RoleAdmin, &super.ID)

	_, err := NewTransferAll(repo).Execute(ctx, super, adminA.ID, adminB.ID)
	require.True(t, httperr.IsBusiness(err, "no_barbershops"))

	seed(t, db, domain.RoleBarbershop, &adminA.ID)
	seed(t, db, domain.RoleBarbershop, &adminA.ID)

	result, err := NewTransferAll(repo).Execute(ctx, super, adminA.ID, adminB.ID)
	require.NoError(t, err)
	require.EqualValues(t, 2, result.TransferredCount)
	require.Len(t, result.BarbershopNames, 2)

	n, err := repo.CountActiveOwned(ctx, domain.RoleBarbershop, adminB.ID)
	require.NoError(t, err)
	require.EqualValues(t, 2, n)
}

func TestCreateManagedShopGetsDefaultSubscription(t *testing.T) {
	db := newTestDB(t)
	repo := infraRepo.NewAccountGormRepository(db)
	ctx := context.Background()

	admin := seed(t, db, domain.RoleAdmin, nil)

	shop, err := NewCreateManaged(repo).Execute(ctx, admin, CreateManagedInput{
		Role:         domain.RoleBarbershop,
		Email:        "NewShop@Test.Local",
		PasswordHash: "x",
		ShopName:     "Clean Cuts",
	})
	require.NoError(t, err)
	require.Equal(t, "newshop@test.local", shop.Email)
	require.True(t, shop.IsEmailVerified)
	require.NotNil(t, shop.CreatedByID)
	require.Equal(t, admin.ID, *shop.CreatedByID)

	sub, err := repo.GetSubscription(ctx, shop.ID)
	require.NoError(t, err)
	require.Equal(t, models.PlanBasic, sub.Plan)
	require.Equal(t, models.SubscriptionActive, sub.Status)
	require.Equal(t, 100, sub.MaxAppointments)
	require.Equal(t, 5, sub.MaxStaff)

	var hist []models.SubscriptionHistory
	require.NoError(t, db.Where("subscription_id = ?", sub.ID).Find(&hist).Error)
	require.Len(t, hist, 1)
	require.Equal(t, "created", hist[0].Action)

	// Duplicate email is rejected before any write.
	_, err = NewCreateManaged(repo).Execute(ctx, admin, CreateManagedInput{
		Role:  domain.RoleBarbershop,
		Email: "newshop@test.local",
	})
	require.True(t, httperr.IsBusiness(err, "email_taken"))
}

func TestCreateManagedRoleRules(t *testing.T) {
	db := newTestDB(t)
	repo := infraRepo.NewAccountGormRepository(db)
	ctx := context.Background()

	admin := seed(t, db, domain.RoleAdmin, nil)

	_, err := NewCreateManaged(repo).Execute(ctx, admin, CreateManagedInput{
		Role:  domain.RoleAdmin,
		Email: "escalation@test.local",
	})
	require.True(t, httperr.IsBusiness(err, "forbidden"))
}

func TestUpdateSubscriptionWritesHistory(t *testing.T) {
	db := newTestDB(t)
	repo := infraRepo.NewAccountGormRepository(db)
	ctx := context.Background()

	super := seed(t, db, domain.RoleSuperAdmin, nil)
	admin := seed(t, db, domain.RoleAdmin, &super.ID)

	shop, err := NewCreateManaged(repo).Execute(ctx, admin, CreateManagedInput{
		Role:     domain.RoleBarbershop,
		Email:    "subtest@test.local",
		ShopName: "Sub Test",
	})
	require.NoError(t, err)

	plan := models.PlanEnterprise
	sub, err := NewUpdateSubscription(repo).Execute(ctx, super, shop.ID, UpdateSubscriptionInput{
		Plan: &plan,
	})
	require.NoError(t, err)
	require.Equal(t, models.PlanEnterprise, sub.Plan)

	var hist []models.SubscriptionHistory
	require.NoError(t, db.Where("subscription_id = ?", sub.ID).Order("id ASC").Find(&hist).Error)
	require.Len(t, hist, 2)
	require.Equal(t, "upgraded", hist[1].Action)
	require.Equal(t, models.PlanBasic, hist[1].OldPlan)
	require.Equal(t, models.PlanEnterprise, hist[1].NewPlan)

	require.EqualValues(t, 1, countActivities(t, db, shop.ID, models.ActionSubscriptionChanged))

	bogus := "platinum"
	_, err = NewUpdateSubscription(repo).Execute(ctx, super, shop.ID, UpdateSubscriptionInput{
		Plan: &bogus,
	})
	require.True(t, httperr.IsBusiness(err, "validation"))
}
