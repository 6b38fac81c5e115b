package account

import (
	"context"
	"time"

	"github.com/BruksfildServices01/psi-scheduler/internal/models"
)

// Repository is the persistence port for authentication. Missing users are
// reported as httperr NotFound.
type Repository interface {
	GetUser(ctx context.Context, id uint) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)

	// CreateUser stores the account and, when patient is non-nil, its
	// clinical profile in the same transaction. A taken email is a Conflict.
	CreateUser(ctx context.Context, u *models.User, patient *models.Patient) error
	UpdatePassword(ctx context.Context, userID uint, hash string) error

	StoreRefreshToken(ctx context.Context, t *models.RefreshToken) error

	// RotateRefreshToken consumes the token with oldHash and stores next in
	// one transaction. It fails with Unauthorized unless exactly one live
	// token was consumed. next.UserID is filled from the consumed token.
	RotateRefreshToken(ctx context.Context, oldHash string, next *models.RefreshToken, now time.Time) error

	// RevokeRefreshToken is idempotent.
	RevokeRefreshToken(ctx context.Context, hash string) error
}
