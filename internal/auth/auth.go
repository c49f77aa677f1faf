// Package auth resolves bearer tokens to staff identities and answers
// capability questions about them.
package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/Aladin-0/RM-Backend/internal/domain"
	apperrors "github.com/Aladin-0/RM-Backend/internal/errors"
)

// Authenticator verifies opaque staff tokens. Tokens are stored hashed,
// so a database leak does not leak credentials.
type Authenticator struct {
	store domain.StaffStore
}

func NewAuthenticator(store domain.StaffStore) *Authenticator {
	return &Authenticator{store: store}
}

// Authenticate resolves a bearer token to the staff identity it belongs to.
func (a *Authenticator) Authenticate(ctx context.Context, token string) (*domain.Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, apperrors.ForbiddenError("authentication required")
	}

	identity, err := a.store.GetStaffByTokenHash(ctx, HashToken(token))
	if err != nil {
		if errors.Is(err, domain.ErrTokenNotFound) {
			return nil, apperrors.ForbiddenError("invalid token")
		}
		return nil, apperrors.InternalError("failed to authenticate", err)
	}
	return identity, nil
}

// HashToken derives the stored lookup key for a raw token.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// Permissions implements domain.PermissionChecker over staff roles.
type Permissions struct{}

// HasKitchenCapability reports whether the identity may manage orders of
// the given restaurant. Chefs and admins qualify, and only for their own
// restaurant.
func (Permissions) HasKitchenCapability(identity domain.Identity, restaurantID uuid.UUID) bool {
	if identity.RestaurantID == uuid.Nil || identity.RestaurantID != restaurantID {
		return false
	}
	return identity.Role == domain.RoleChef || identity.Role == domain.RoleAdmin
}
