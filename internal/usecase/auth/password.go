package auth

import (
	"context"
	"strings"

	"github.com/BruksfildServices01/psi-scheduler/internal/auth"
	"github.com/BruksfildServices01/psi-scheduler/internal/domain/account"
	"github.com/BruksfildServices01/psi-scheduler/internal/httperr"
	"github.com/BruksfildServices01/psi-scheduler/internal/validators"
)

// ResetMailer delivers the password reset link.
type ResetMailer interface {
	PasswordReset(name, email, link string)
}

type ForgotPassword struct {
	repo        account.Repository
	tokens      *auth.TokenIssuer
	mail        ResetMailer
	frontendURL string
}

func NewForgotPassword(
	repo account.Repository,
	tokens *auth.TokenIssuer,
	mail ResetMailer,
	frontendURL string,
) *ForgotPassword {
	return &ForgotPassword{
		repo:        repo,
		tokens:      tokens,
		mail:        mail,
		frontendURL: strings.TrimRight(frontendURL, "/"),
	}
}

// Execute never reveals whether the email is registered.
func (uc *ForgotPassword) Execute(ctx context.Context, email string) error {
	u, err := uc.repo.FindUserByEmail(ctx, validators.NormalizeEmail(email))
	if err != nil {
		if kind, ok := httperr.KindOf(err); ok && kind == httperr.KindNotFound {
			return nil
		}
		return err
	}

	token, err := uc.tokens.IssueReset(u.ID)
	if err != nil {
		return err
	}

	uc.mail.PasswordReset(u.Name, u.Email, uc.frontendURL+"/reset-password?token="+token)
	return nil
}

type ResetPasswordInput struct {
	Token           string
	Password        string
	ConfirmPassword string
}

type ResetPassword struct {
	repo   account.Repository
	tokens *auth.TokenIssuer
}

func NewResetPassword(repo account.Repository, tokens *auth.TokenIssuer) *ResetPassword {
	return &ResetPassword{repo: repo, tokens: tokens}
}

func (uc *ResetPassword) Execute(ctx context.Context, in ResetPasswordInput) error {
	if in.Password != in.ConfirmPassword {
		return httperr.Validation("password_mismatch", "Passwords do not match.")
	}
	if len(in.Password) < minPasswordLength {
		return httperr.Validation("weak_password", "Password must have at least 6 characters.")
	}

	userID, err := uc.tokens.ParseReset(in.Token)
	if err != nil {
		return httperr.Unauthorized("invalid_reset_token", "Invalid or expired reset token.")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return err
	}

	return uc.repo.UpdatePassword(ctx, userID, hash)
}
