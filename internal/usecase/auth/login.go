package auth

import (
	"context"
	"time"

	"github.com/BruksfildServices01/psi-scheduler/internal/audit"
	"github.com/BruksfildServices01/psi-scheduler/internal/auth"
	"github.com/BruksfildServices01/psi-scheduler/internal/domain/account"
	"github.com/BruksfildServices01/psi-scheduler/internal/httperr"
	"github.com/BruksfildServices01/psi-scheduler/internal/validators"
)

type LoginInput struct {
	Email    string
	Password string
	Origin   audit.Origin
}

type Login struct {
	sessions
	audit *audit.Dispatcher
}

func NewLogin(
	repo account.Repository,
	tokens *auth.TokenIssuer,
	refreshTTL time.Duration,
	audit *audit.Dispatcher,
) *Login {
	return &Login{
		sessions: newSessions(repo, tokens, refreshTTL),
		audit:    audit,
	}
}

func (uc *Login) Execute(ctx context.Context, in LoginInput) (*Session, error) {
	invalid := httperr.Unauthorized("invalid_credentials", "Invalid email or password.")

	u, err := uc.repo.FindUserByEmail(ctx, validators.NormalizeEmail(in.Email))
	if err != nil {
		if kind, ok := httperr.KindOf(err); ok && kind == httperr.KindNotFound {
			return nil, invalid
		}
		return nil, err
	}

	if !auth.CheckPassword(u.PasswordHash, in.Password) {
		return nil, invalid
	}

	session, err := uc.open(ctx, u)
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(in.Origin.Event(u.ID, "login", "user", u.ID))
	return session, nil
}
