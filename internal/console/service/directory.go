package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/waypointhq/console/internal/console/domain"
	"github.com/waypointhq/console/internal/console/identity"
	"github.com/waypointhq/console/internal/console/store"
	"github.com/waypointhq/console/pkg/idx"
	"github.com/waypointhq/console/pkg/slogx"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrShopNotFound    = errors.New("shop not found")
	ErrMissingShopName = errors.New("shop name is required")
)

// DirectoryService backs the console's user and shop tables.
type DirectoryService struct {
	Store    store.Store
	Provider identity.Provider
}

// ListUsers returns all console user records, newest first.
func (s *DirectoryService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.Store.Users().List(ctx)
}

// CountByRole tallies user records per role for the dashboard header.
func (s *DirectoryService) CountByRole(ctx context.Context) (map[string]int, error) {
	users, err := s.Store.Users().List(ctx)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, u := range users {
		counts[u.Role]++
	}
	return counts, nil
}

// DeleteUser removes the console record and the provider account behind it.
// This is also the cleanup path for provider accounts orphaned by a
// rejection.
func (s *DirectoryService) DeleteUser(ctx context.Context, uid string) error {
	log := slogx.FromContext(ctx)

	if _, err := s.Store.Users().GetByUID(ctx, uid); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := s.Store.Users().Delete(ctx, uid); err != nil {
		return err
	}

	if err := s.Provider.DeleteAccount(ctx, uid); err != nil && !errors.Is(err, identity.ErrUserNotFound) {
		log.Error("failed to delete provider account",
			slog.String("uid", uid),
			slog.Any("error", err),
		)
		return err
	}

	log.Info("user deleted", slog.String("uid", uid))
	return nil
}

// CreateShop adds a shop to the directory.
func (s *DirectoryService) CreateShop(ctx context.Context, name, openingTime, closingTime string) (domain.Shop, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Shop{}, ErrMissingShopName
	}

	now := time.Now().UTC()
	shop := domain.Shop{
		ID:          idx.New().String(),
		Name:        name,
		OpeningTime: openingTime,
		ClosingTime: closingTime,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Store.Shops().Create(ctx, shop); err != nil {
		return domain.Shop{}, err
	}

	slogx.FromContext(ctx).Info("shop created", slog.String("shop_id", shop.ID))
	return shop, nil
}

// ListShops returns shops ordered by name, optionally filtered by a
// case-insensitive name substring.
func (s *DirectoryService) ListShops(ctx context.Context, query string) ([]domain.Shop, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.Store.Shops().List(ctx)
	}
	return s.Store.Shops().SearchByName(ctx, query)
}

// UpdateShop rewrites a shop's name and hours.
func (s *DirectoryService) UpdateShop(ctx context.Context, id, name, openingTime, closingTime string) (domain.Shop, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Shop{}, ErrMissingShopName
	}

	shop, err := s.Store.Shops().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Shop{}, ErrShopNotFound
		}
		return domain.Shop{}, err
	}

	shop.Name = name
	shop.OpeningTime = openingTime
	shop.ClosingTime = closingTime
	if err := s.Store.Shops().Update(ctx, shop); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Shop{}, ErrShopNotFound
		}
		return domain.Shop{}, err
	}
	return shop, nil
}

// DeleteShop removes a shop from the directory.
func (s *DirectoryService) DeleteShop(ctx context.Context, id string) error {
	err := s.Store.Shops().Delete(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrShopNotFound
	}
	return err
}
