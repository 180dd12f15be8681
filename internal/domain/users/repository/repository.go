package repository

import (
	"context"
	"errors"

	"github.com/vroomprestige/vroom-api/internal/domain/reservations"
	"github.com/vroomprestige/vroom-api/internal/domain/users"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *users.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*users.User, error) {
	var user users.User
	err := r.db.WithContext(ctx).Where("Email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, userID string) (*users.User, error) {
	var user users.User
	err := r.db.WithContext(ctx).Where("IdUser = ?", userID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// EmailTakenByOther reports whether another account already owns the email.
func (r *UserRepository) EmailTakenByOther(ctx context.Context, email string, excludeID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&users.User{}).
		Where("Email = ? AND IdUser <> ?", email, excludeID).
		Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) FindAllSummaries(ctx context.Context) ([]users.Summary, error) {
	var summaries []users.Summary
	err := r.db.WithContext(ctx).
		Table("Users").
		Select("IdUser, Nom, Prenom, Email, Tel, Role, DateInscription").
		Find(&summaries).Error
	if err != nil {
		return nil, err
	}
	return summaries, nil
}

// UpdateFields applies a column→value map built by the usecase.
func (r *UserRepository) UpdateFields(ctx context.Context, userID string, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&users.User{}).
		Where("IdUser = ?", userID).
		Updates(updates).Error
}

// DeleteCascade removes the user's reservations first, then the user row,
// inside one transaction so no orphan reservations can remain.
func (r *UserRepository) DeleteCascade(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("IdUser = ?", userID).Delete(&reservations.Reservation{}).Error; err != nil {
			return err
		}
		return tx.Where("IdUser = ?", userID).Delete(&users.User{}).Error
	})
}
