package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Congmoow/Campus-Market/models"
	"github.com/Congmoow/Campus-Market/store"
)

// env bundles the services wired onto a fresh in-memory store, the way
// main wires them against MySQL.
type env struct {
	store     *store.Memory
	users     *UserService
	products  *ProductService
	favorites *FavoriteService
	chats     *ChatService
	orders    *OrderService
}

func newEnv() *env {
	mem := store.NewMemory()
	products := NewProductService(mem)
	chats := NewChatService(mem, products)
	return &env{
		store:     mem,
		users:     NewUserService(mem, products),
		products:  products,
		favorites: NewFavoriteService(mem, products),
		chats:     chats,
		orders:    NewOrderService(mem, chats),
	}
}

func (e *env) createUser(t *testing.T, username string) models.User {
	t.Helper()
	user := models.User{
		Username: username,
		Password: "hashed",
		Role:     models.RoleUser,
		Enabled:  true,
	}
	require.NoError(t, e.store.CreateUser(context.Background(), &user))
	profile := models.UserProfile{
		UserID:   user.ID,
		Nickname: username,
		Credit:   models.DefaultCredit,
	}
	require.NoError(t, e.store.CreateProfile(context.Background(), &profile))
	return user
}

func (e *env) createProduct(t *testing.T, sellerID uint, title string, price float64) ProductDetail {
	t.Helper()
	detail, err := e.products.Create(context.Background(), sellerID, CreateProductInput{
		Title:     title,
		Price:     price,
		Location:  "library entrance",
		ImageURLs: []string{"/uploads/products/" + title + ".jpg"},
	})
	require.NoError(t, err)
	return detail
}
