// Package authz is the admin authorization gate. Destructive and
// role-changing operations call it immediately before acting so a role change
// between page load and action can never be missed.
package authz

import (
	"context"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/devtogether/platform-api/internal/model"
	"github.com/devtogether/platform-api/internal/repository"
	apperrors "github.com/devtogether/platform-api/pkg/errors"
)

const (
	roleCacheTTL     = 30 * time.Second
	roleCacheCleanup = 5 * time.Minute
)

type Service struct {
	accountRepo  repository.AccountRepository
	superAdminID uuid.UUID
	roleCache    *gocache.Cache
}

func NewService(accountRepo repository.AccountRepository, superAdminID uuid.UUID) *Service {
	return &Service{
		accountRepo:  accountRepo,
		superAdminID: superAdminID,
		roleCache:    gocache.New(roleCacheTTL, roleCacheCleanup),
	}
}

// IsAdmin re-reads the persisted role. Destructive callers must use this, not
// a session flag and not the cached variant.
func (s *Service) IsAdmin(ctx context.Context, accountID uuid.UUID) (bool, error) {
	role, err := s.accountRepo.GetRole(ctx, accountID)
	if err != nil {
		return false, err
	}
	s.roleCache.Set(accountID.String(), role, gocache.DefaultExpiration)
	return role == model.RoleAdmin, nil
}

// IsAdminCached answers from a short-TTL cache, falling back to the store.
// Only for read-path gating (listing moderation queues); never for
// destructive operations.
func (s *Service) IsAdminCached(ctx context.Context, accountID uuid.UUID) (bool, error) {
	if v, ok := s.roleCache.Get(accountID.String()); ok {
		if role, ok := v.(model.Role); ok {
			return role == model.RoleAdmin, nil
		}
	}
	return s.IsAdmin(ctx, accountID)
}

// RequireAdmin returns a typed authorization error unless the account holds
// the admin role right now.
func (s *Service) RequireAdmin(ctx context.Context, accountID uuid.UUID) error {
	isAdmin, err := s.IsAdmin(ctx, accountID)
	if err != nil {
		return err
	}
	if !isAdmin {
		return apperrors.Forbidden("administrator privilege required")
	}
	return nil
}

// SuperAdminID returns the designated identity allowed to grant and revoke
// the admin role.
func (s *Service) SuperAdminID() uuid.UUID {
	return s.superAdminID
}

// RequireSuperAdmin verifies both the admin role and the super-admin
// identity.
func (s *Service) RequireSuperAdmin(ctx context.Context, accountID uuid.UUID) error {
	if err := s.RequireAdmin(ctx, accountID); err != nil {
		return err
	}
	if accountID != s.superAdminID {
		return apperrors.Forbidden("super administrator privilege required")
	}
	return nil
}
