package repository

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
	"github.com/clipperhub/barbershop-platform/internal/models"
)

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

var seedSeq atomic.Uint64

func seedAccount(t *testing.T, db *gorm.DB, role domain.Role, createdBy *uint) *models.Account {
	t.Helper()
	a := &models.Account{
		Email:        fmt.Sprintf("%s_%d@test.local", role, seedSeq.Add(1)),
		PasswordHash: "x",
		Role:         role.String(),
		IsActive:     true,
		CreatedByID:  createdBy,
	}
	require.NoError(t, db.Create(a).Error)
	return a
}

func TestOwnedScopeHidesForeignAccounts(t *testing.T) {
	db := newTestDB(t)
	repo := NewAccountGormRepository(db)
	ctx := context.Background()

	adminA := seedAccount(t, db, domain.RoleAdmin, nil)
	adminB := seedAccount(t, db, domain.RoleAdmin, nil)
	shopA := seedAccount(t, db, domain.RoleBarbershop, &adminA.ID)

	got, err := repo.FindActiveOwned(ctx, shopA.ID, domain.RoleBarbershop, adminA.ID)
	require.NoError(t, err)
	require.Equal(t, shopA.ID, got.ID)

	// Foreign owner sees the same error as for a missing row.
	_, err = repo.FindActiveOwned(ctx, shopA.ID, domain.RoleBarbershop, adminB.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestListActiveIgnoresArchived(t *testing.T) {
	db := newTestDB(t)
	repo := NewAccountGormRepository(db)
	ctx := context.Background()

	admin := seedAccount(t, db, domain.RoleAdmin, nil)
	shop1 := seedAccount(t, db, domain.RoleBarbershop, &admin.ID)
	shop2 := seedAccount(t, db, domain.RoleBarbershop, &admin.ID)

	ok, err := repo.MarkDeleted(ctx, shop2.ID, admin.ID, time.Now())
	require.NoError(t, err)
	require.True(t, ok)

	activeShops, err := repo.ListActiveOwned(ctx, domain.RoleBarbershop, admin.ID)
	require.NoError(t, err)
	require.Len(t, activeShops, 1)
	require.Equal(t, shop1.ID, activeShops[0].ID)

	archived, err := repo.ListDeletedOwned(ctx, domain.RoleBarbershop, admin.ID)
	require.NoError(t, err)
	require.Len(t, archived, 1)
	require.Equal(t, shop2.ID, archived[0].ID)
}

func TestMarkDeletedIsGuarded(t *testing.T) {
	db := newTestDB(t)
	repo := NewAccountGormRepository(db)
	ctx := context.Background()

	admin := seedAccount(t, db, domain.RoleAdmin, nil)
	shop := seedAccount(t, db, domain.RoleBarbershop, &admin.ID)

	ok, err := repo.MarkDeleted(ctx, shop.ID, admin.ID, time.Now())
	require.NoError(t, err)
	require.True(t, ok)

	// Second delete finds no active row.
	ok, err = repo.MarkDeleted(ctx, shop.ID, admin.ID, time.Now())
	require.NoError(t, err)
	require.False(t, ok)

	var row models.Account
	require.NoError(t, db.First(&row, shop.ID).Error)
	require.NotNil(t, row.DeletedAt)
	require.NotNil(t, row.DeletedByID)
	require.Equal(t, admin.ID, *row.DeletedByID)
	require.False(t, row.IsActive)
}

func TestMarkRestoredIsGuarded(t *testing.T) {
	db := newTestDB(t)
	repo := NewAccountGormRepository(db)
	ctx := context.Background()

	admin := seedAccount(t, db, domain.RoleAdmin, nil)
	shop := seedAccount(t, db, domain.RoleBarbershop, &admin.ID)

	ok, err := repo.MarkRestored(ctx, shop.ID)
	require.NoError(t, err)
	require.False(t, ok)

	_, err = repo.MarkDeleted(ctx, shop.ID, admin.ID, time.Now())
	require.NoError(t, err)

	ok, err = repo.MarkRestored(ctx, shop.ID)
	require.NoError(t, err)
	require.True(t, ok)

	var row models.Account
	require.NoError(t, db.First(&row, shop.ID).Error)
	require.Nil(t, row.DeletedAt)
	require.Nil(t, row.DeletedByID)
	require.True(t, row.IsActive)
}

func TestReassignOnlyActiveShops(t *testing.T) {
	db := newTestDB(t)
	repo := NewAccountGormRepository(db)
	ctx := context.Background()

	adminA := seedAccount(t, db, domain.RoleAdmin, nil)
	adminB := seedAccount(t, db, domain.RoleAdmin, nil)
	shop := seedAccount(t, db, domain.RoleBarbershop, &adminA.ID)

	ok, err := repo.Reassign(ctx, shop.ID, adminB.ID)
	require.NoError(t, err)
	require.True(t, ok)

	got, err := repo.FindActiveOwned(ctx, shop.ID, domain.RoleBarbershop, adminB.ID)
	require.NoError(t, err)
	require.Equal(t, shop.ID, got.ID)

	// Archived shops stay with their owner.
	_, err = repo.MarkDeleted(ctx, shop.ID, adminB.ID, time.Now())
	require.NoError(t, err)
	ok, err = repo.Reassign(ctx, shop.ID, adminA.ID)
	require.NoError(t, err)
	require.False(t, ok)

	// Reassign never touches non-shop rows.
	ok, err = repo.Reassign(ctx, adminA.ID, adminB.ID)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestReassignAllOwned(t *testing.T) {
	db := newTestDB(t)
	repo := NewAccountGormRepository(db)
	ctx := context.Background()

	adminA := seedAccount(t, db, domain.RoleAdmin, nil)
	adminB := seedAccount(t, db, domain.RoleAdmin, nil)
	seedAccount(t, db, domain.RoleBarbershop, &adminA.ID)
	seedAccount(t, db, domain.RoleBarbershop, &adminA.ID)
	archived := seedAccount(t, db, domain.RoleBarbershop, &adminA.ID)
	_, err := repo.MarkDeleted(ctx, archived.ID, adminA.ID, time.Now())
	require.NoError(t, err)

	moved, err := repo.ReassignAllOwned(ctx, adminA.ID, adminB.ID)
	require.NoError(t, err)
	require.EqualValues(t, 2, moved)

	n, err := repo.CountActiveOwned(ctx, domain.RoleBarbershop, adminB.ID)
	require.NoError(t, err)
	require.EqualValues(t, 2, n)
}

func TestTransactionRollsBack(t *testing.T) {
	db := newTestDB(t)
	repo := NewAccountGormRepository(db)
	ctx := context.Background()

	admin := seedAccount(t, db, domain.RoleAdmin, nil)
	shop := seedAccount(t, db, domain.RoleBarbershop, &admin.ID)

	boom := fmt.Errorf("boom")
	err := repo.Transaction(ctx, func(tx domain.Repository) error {
		ok, err := tx.MarkDeleted(ctx, shop.ID, admin.ID, time.Now())
		require.NoError(t, err)
		require.True(t, ok)
		return boom
	})
	require.ErrorIs(t, err, boom)

	// The delete rolled back with the transaction.
	got, err := repo.FindActive(ctx, shop.ID, domain.RoleBarbershop)
	require.NoError(t, err)
	require.Nil(t, got.DeletedAt)
}
