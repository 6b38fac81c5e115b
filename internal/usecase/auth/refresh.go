package auth

import (
	"context"
	"time"

	"github.com/BruksfildServices01/psi-scheduler/internal/auth"
	"github.com/BruksfildServices01/psi-scheduler/internal/domain/account"
	"github.com/BruksfildServices01/psi-scheduler/internal/httperr"
)

type Refresh struct {
	sessions
}

func NewRefresh(repo account.Repository, tokens *auth.TokenIssuer, refreshTTL time.Duration) *Refresh {
	return &Refresh{sessions: newSessions(repo, tokens, refreshTTL)}
}

// Execute exchanges a refresh token for a new pair. The presented token is
// consumed; presenting it again fails with Unauthorized.
func (uc *Refresh) Execute(ctx context.Context, refreshToken string) (*Session, error) {
	if refreshToken == "" {
		return nil, httperr.Unauthorized("invalid_refresh_token", "Invalid or expired refresh token.")
	}

	plain, next, err := uc.newRefresh(0)
	if err != nil {
		return nil, err
	}

	if err := uc.repo.RotateRefreshToken(ctx, auth.HashRefreshToken(refreshToken), next, uc.now()); err != nil {
		return nil, err
	}

	u, err := uc.repo.GetUser(ctx, next.UserID)
	if err != nil {
		return nil, httperr.Unauthorized("invalid_refresh_token", "Invalid or expired refresh token.")
	}

	return uc.build(u, plain)
}

type Logout struct {
	repo account.Repository
}

func NewLogout(repo account.Repository) *Logout {
	return &Logout{repo: repo}
}

// Execute revokes the token if it exists. Unknown tokens are not an error.
func (uc *Logout) Execute(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return uc.repo.RevokeRefreshToken(ctx, auth.HashRefreshToken(refreshToken))
}
