package auth

import (
	"context"
	"time"

	"github.com/BruksfildServices01/psi-scheduler/internal/auth"
	"github.com/BruksfildServices01/psi-scheduler/internal/domain/account"
	"github.com/BruksfildServices01/psi-scheduler/internal/models"
)

// Session is what login, register and refresh return to the client.
type Session struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int          `json:"expires_in"`
	User         *models.User `json:"user"`
}

// sessions mints token pairs. Refresh tokens are persisted by hash only.
type sessions struct {
	repo       account.Repository
	tokens     *auth.TokenIssuer
	refreshTTL time.Duration
	now        func() time.Time
}

func newSessions(repo account.Repository, tokens *auth.TokenIssuer, refreshTTL time.Duration) sessions {
	return sessions{repo: repo, tokens: tokens, refreshTTL: refreshTTL, now: time.Now}
}

func (s sessions) newRefresh(userID uint) (string, *models.RefreshToken, error) {
	plain, hash, err := auth.NewRefreshToken()
	if err != nil {
		return "", nil, err
	}
	return plain, &models.RefreshToken{
		UserID:    userID,
		TokenHash: hash,
		ExpiresAt: s.now().Add(s.refreshTTL),
	}, nil
}

func (s sessions) open(ctx context.Context, u *models.User) (*Session, error) {
	plain, row, err := s.newRefresh(u.ID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.StoreRefreshToken(ctx, row); err != nil {
		return nil, err
	}
	return s.build(u, plain)
}

func (s sessions) build(u *models.User, refresh string) (*Session, error) {
	access, err := s.tokens.IssueAccess(u.ID)
	if err != nil {
		return nil, err
	}
	return &Session{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    int(s.tokens.AccessTTL().Seconds()),
		User:         u,
	}, nil
}
