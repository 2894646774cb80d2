package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Congmoow/Campus-Market/models"
)

func TestProfileViewWithCounts(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	seller := e.createUser(t, "seller")
	buyer := e.createUser(t, "buyer")

	e.createProduct(t, seller.ID, "selling one", 10)
	e.createProduct(t, seller.ID, "selling two", 20)
	soldProduct := e.createProduct(t, seller.ID, "already gone", 30)
	order, err := e.orders.Create(ctx, buyer.ID, soldProduct.ID)
	require.NoError(t, err)
	_, err = e.orders.ConfirmReceive(ctx, buyer.ID, order.ID)
	require.NoError(t, err)

	view, err := e.users.Profile(ctx, seller.ID)
	require.NoError(t, err)
	assert.Equal(t, "seller", view.Username)
	assert.Equal(t, "seller", view.Nickname)
	assert.Equal(t, models.DefaultCredit, view.Credit)
	assert.Equal(t, int64(2), view.SellingCount)
	assert.Equal(t, int64(1), view.SoldCount)

	_, err = e.users.Profile(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateProfilePartial(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	user := e.createUser(t, "zhangwei")

	nickname := "Wei"
	major := "Computer Science"
	view, err := e.users.UpdateProfile(ctx, user.ID, UpdateProfileInput{
		Nickname: &nickname,
		Major:    &major,
	})
	require.NoError(t, err)
	assert.Equal(t, "Wei", view.Nickname)
	assert.Equal(t, "Computer Science", view.Major)
	assert.Equal(t, models.DefaultCredit, view.Credit)

	// Untouched fields survive a later partial edit.
	bio := "selling my dorm stuff before graduation"
	view, err = e.users.UpdateProfile(ctx, user.ID, UpdateProfileInput{Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "Wei", view.Nickname)
	assert.Equal(t, "Computer Science", view.Major)
	assert.Equal(t, bio, view.Bio)

	// A blank nickname is ignored rather than applied.
	blank := "  "
	view, err = e.users.UpdateProfile(ctx, user.ID, UpdateProfileInput{Nickname: &blank})
	require.NoError(t, err)
	assert.Equal(t, "Wei", view.Nickname)
}

func TestUpdateProfileCreatesRowOnFirstUse(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	// A user without a profile row yet.
	user := models.User{Username: "bare", Password: "hashed", Role: models.RoleUser, Enabled: true}
	require.NoError(t, e.store.CreateUser(ctx, &user))

	view, err := e.users.Profile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "bare", view.Nickname)

	campus := "East Campus"
	view, err = e.users.UpdateProfile(ctx, user.ID, UpdateProfileInput{Campus: &campus})
	require.NoError(t, err)
	assert.Equal(t, "bare", view.Nickname)
	assert.Equal(t, "East Campus", view.Campus)
	assert.Equal(t, models.DefaultCredit, view.Credit)
}
