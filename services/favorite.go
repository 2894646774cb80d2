package services

import (
	"context"
	"errors"

	"github.com/Congmoow/Campus-Market/models"
	"github.com/Congmoow/Campus-Market/store"
)

type FavoriteService struct {
	store    store.Store
	products *ProductService
}

func NewFavoriteService(st store.Store, products *ProductService) *FavoriteService {
	return &FavoriteService{store: st, products: products}
}

// Add bookmarks a product. Re-favoriting an already-favorited product is a
// no-op, not an error; favoriting a deleted product is rejected.
func (s *FavoriteService) Add(ctx context.Context, userID, productID uint) error {
	return s.store.Transact(ctx, func(tx store.Store) error {
		if _, err := tx.FavoriteByUserProduct(ctx, userID, productID); err == nil {
			return nil
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		product, err := tx.ProductByID(ctx, productID)
		if errors.Is(err, store.ErrNotFound) {
			return notFound("product does not exist")
		}
		if err != nil {
			return err
		}
		if product.Status == models.ProductDeleted {
			return validation("product has been deleted")
		}

		return tx.CreateFavorite(ctx, &models.Favorite{UserID: userID, ProductID: productID})
	})
}

// Remove drops the bookmark; removing a non-existent one is a no-op.
func (s *FavoriteService) Remove(ctx context.Context, userID, productID uint) error {
	return s.store.DeleteFavorite(ctx, userID, productID)
}

// ListMine returns the user's favorited products as list items, skipping
// products that have since been deleted.
func (s *FavoriteService) ListMine(ctx context.Context, userID uint) ([]ProductListItem, error) {
	favorites, err := s.store.FavoritesByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	items := make([]ProductListItem, 0, len(favorites))
	for _, favorite := range favorites {
		product, err := s.store.ProductByID(ctx, favorite.ProductID)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if product.Status == models.ProductDeleted {
			continue
		}
		item, err := s.products.ListItem(ctx, product)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}
