package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parkbooking/internal/domain"
	"parkbooking/internal/testutil"
)

func newTestItem(t *testing.T, name string, price int64) domain.CartItem {
	t.Helper()
	item, err := domain.NewCartItem(uuid.New(), name, 1, domain.USD(decimal.NewFromInt(price)))
	require.NoError(t, err)
	return item
}

func TestCartRepository_GetOrCreate_NilAllocatesID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewSQLCartRepository(db)
	ctx := context.Background()

	cart, err := repo.GetOrCreate(ctx, nil)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, cart.ID)

	again, err := repo.GetOrCreate(ctx, &cart.ID)
	require.NoError(t, err)
	assert.Equal(t, cart.ID, again.ID)
	assert.Equal(t, 0, again.Len())
}

func TestCartRepository_GetOrCreate_UnknownIDIsKept(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewSQLCartRepository(db)

	id := uuid.New()
	cart, err := repo.GetOrCreate(context.Background(), &id)
	require.NoError(t, err)
	assert.Equal(t, id, cart.ID)
}

func TestCartRepository_UpdatePersistsItemsAndHistory(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewSQLCartRepository(db)
	ctx := context.Background()

	cart, err := repo.GetOrCreate(ctx, nil)
	require.NoError(t, err)

	first := newTestItem(t, "Wild Ridge", 100)
	second := newTestItem(t, "Pine Valley", 50)
	cart.AddOrUpdateItem(first)
	cart.AddOrUpdateItem(second)
	require.NoError(t, repo.Update(ctx, cart))

	loaded, err := repo.GetOrCreate(ctx, &cart.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.Len())
	assert.Len(t, loaded.History(), 2)

	require.True(t, loaded.Undo())
	assert.Equal(t, 1, loaded.Len())
	got, ok := loaded.Item(first.BookingID)
	require.True(t, ok)
	assert.Equal(t, "Wild Ridge", got.ParkName)
	assert.True(t, first.UnitPrice.Equal(got.UnitPrice))

	require.True(t, loaded.Undo())
	assert.Equal(t, 0, loaded.Len())
	assert.False(t, loaded.Undo())
}

func TestCartRepository_GetAllAndRemove(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewSQLCartRepository(db)
	ctx := context.Background()

	a, err := repo.GetOrCreate(ctx, nil)
	require.NoError(t, err)
	_, err = repo.GetOrCreate(ctx, nil)
	require.NoError(t, err)

	carts, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, carts, 2)

	removed, err := repo.Remove(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.Remove(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, removed)

	carts, err = repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, carts, 1)
}

func TestCartRepository_GetByID_DoesNotCreate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewSQLCartRepository(db)
	ctx := context.Background()

	missing, err := repo.GetByID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)

	carts, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, carts)
}
