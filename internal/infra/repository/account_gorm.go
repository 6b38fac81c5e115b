package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/psi-scheduler/internal/domain/account"
	"github.com/BruksfildServices01/psi-scheduler/internal/httperr"
	"github.com/BruksfildServices01/psi-scheduler/internal/models"
)

type AccountGormRepository struct {
	db *gorm.DB
}

func NewAccountGormRepository(db *gorm.DB) *AccountGormRepository {
	return &AccountGormRepository{db: db}
}

func invalidRefreshToken() error {
	return httperr.Unauthorized("invalid_refresh_token", "Invalid or expired refresh token.")
}

// --------------------------------------------------
// Users
// --------------------------------------------------

func (r *AccountGormRepository) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, notFound(err, "user_not_found", "User not found.")
	}
	return &u, nil
}

func (r *AccountGormRepository) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, notFound(err, "user_not_found", "User not found.")
	}
	return &u, nil
}

func (r *AccountGormRepository) CreateUser(ctx context.Context, u *models.User, patient *models.Patient) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(u).Error; err != nil {
			return err
		}
		if patient != nil {
			return tx.Create(patient).Error
		}
		return nil
	})

	if httperr.IsUniqueViolation(err) {
		return httperr.Conflict("email_already_registered", "Email already registered.")
	}
	return err
}

func (r *AccountGormRepository) UpdatePassword(ctx context.Context, userID uint, hash string) error {
	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Update("password_hash", hash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return httperr.NotFound("user_not_found", "User not found.")
	}
	return nil
}

// --------------------------------------------------
// Refresh tokens
// --------------------------------------------------

func (r *AccountGormRepository) StoreRefreshToken(ctx context.Context, t *models.RefreshToken) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *AccountGormRepository) RotateRefreshToken(
	ctx context.Context,
	oldHash string,
	next *models.RefreshToken,
	now time.Time,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.RefreshToken
		if err := tx.Where("token_hash = ?", oldHash).First(&current).Error; err != nil {
			return invalidRefreshToken()
		}

		res := tx.Model(&models.RefreshToken{}).
			Where("id = ? AND revoked = ? AND expires_at > ?", current.ID, false, now).
			Update("revoked", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != 1 {
			return invalidRefreshToken()
		}

		next.UserID = current.UserID
		return tx.Create(next).Error
	})
}

func (r *AccountGormRepository) RevokeRefreshToken(ctx context.Context, hash string) error {
	return r.db.WithContext(ctx).
		Model(&models.RefreshToken{}).
		Where("token_hash = ? AND revoked = ?", hash, false).
		Update("revoked", true).Error
}

// --------------------------------------------------
// Profile
// --------------------------------------------------

// SetAvatar stores the new avatar URL and returns the one it replaced.
func (r *AccountGormRepository) SetAvatar(ctx context.Context, userID uint, url string) (string, error) {
	var previous string

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u models.User
		if err := tx.Select("id", "avatar").First(&u, userID).Error; err != nil {
			return notFound(err, "user_not_found", "User not found.")
		}
		previous = u.Avatar
		return tx.Model(&models.User{}).Where("id = ?", userID).Update("avatar", url).Error
	})

	return previous, err
}

var _ account.Repository = (*AccountGormRepository)(nil)
