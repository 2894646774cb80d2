package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Congmoow/Campus-Market/models"
	"github.com/Congmoow/Campus-Market/store"
)

// ProfileView is the public account card: profile fields plus simple
// selling/sold statistics.
type ProfileView struct {
	ID           uint      `json:"id"`
	Username     string    `json:"username"`
	Nickname     string    `json:"nickname"`
	AvatarURL    string    `json:"avatar_url,omitempty"`
	Major        string    `json:"major,omitempty"`
	Grade        string    `json:"grade,omitempty"`
	Campus       string    `json:"campus,omitempty"`
	Credit       int       `json:"credit"`
	Bio          string    `json:"bio,omitempty"`
	JoinedAt     time.Time `json:"joined_at"`
	SellingCount int64     `json:"selling_count"`
	SoldCount    int64     `json:"sold_count"`
}

// UpdateProfileInput carries a partial profile edit; nil fields stay
// untouched.
type UpdateProfileInput struct {
	Nickname  *string
	AvatarURL *string
	Major     *string
	Grade     *string
	Campus    *string
	Bio       *string
}

type UserService struct {
	store    store.Store
	products *ProductService
}

func NewUserService(st store.Store, products *ProductService) *UserService {
	return &UserService{store: st, products: products}
}

// Profile returns a user's public card.
func (s *UserService) Profile(ctx context.Context, userID uint) (ProfileView, error) {
	user, err := s.store.UserByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return ProfileView{}, notFound("user does not exist")
	}
	if err != nil {
		return ProfileView{}, err
	}
	return s.buildView(ctx, user)
}

// UpdateProfile applies a partial edit, creating the profile row on first
// use (nickname defaults to the username).
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, input UpdateProfileInput) (ProfileView, error) {
	user, err := s.store.UserByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return ProfileView{}, notFound("user does not exist")
	}
	if err != nil {
		return ProfileView{}, err
	}

	err = s.store.Transact(ctx, func(tx store.Store) error {
		profile, err := tx.ProfileByUserID(ctx, userID)
		isNew := false
		if errors.Is(err, store.ErrNotFound) {
			profile = models.UserProfile{
				UserID:   userID,
				Nickname: user.Username,
				Credit:   models.DefaultCredit,
			}
			isNew = true
		} else if err != nil {
			return err
		}

		if input.Nickname != nil && strings.TrimSpace(*input.Nickname) != "" {
			profile.Nickname = *input.Nickname
		}
		if input.AvatarURL != nil {
			profile.AvatarURL = *input.AvatarURL
		}
		if input.Major != nil {
			profile.Major = *input.Major
		}
		if input.Grade != nil {
			profile.Grade = *input.Grade
		}
		if input.Campus != nil {
			profile.Campus = *input.Campus
		}
		if input.Bio != nil {
			profile.Bio = *input.Bio
		}

		if isNew {
			return tx.CreateProfile(ctx, &profile)
		}
		return tx.UpdateProfile(ctx, &profile)
	})
	if err != nil {
		return ProfileView{}, err
	}
	return s.buildView(ctx, user)
}

func (s *UserService) buildView(ctx context.Context, user models.User) (ProfileView, error) {
	view := ProfileView{
		ID:       user.ID,
		Username: user.Username,
		Nickname: user.Username,
		JoinedAt: user.CreatedAt,
	}

	profile, err := s.store.ProfileByUserID(ctx, user.ID)
	if err == nil {
		view.Nickname = profile.Nickname
		view.AvatarURL = profile.AvatarURL
		view.Major = profile.Major
		view.Grade = profile.Grade
		view.Campus = profile.Campus
		view.Credit = profile.Credit
		view.Bio = profile.Bio
		view.JoinedAt = profile.CreatedAt
	} else if !errors.Is(err, store.ErrNotFound) {
		return view, err
	}

	selling, err := s.products.CountBySeller(ctx, user.ID, models.ProductOnSale)
	if err != nil {
		return view, err
	}
	sold, err := s.products.CountBySeller(ctx, user.ID, models.ProductSold)
	if err != nil {
		return view, err
	}
	view.SellingCount = selling
	view.SoldCount = sold
	return view, nil
}
