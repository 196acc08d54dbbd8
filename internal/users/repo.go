package users

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/karimfahmy/sofra-backend/pkg/db/models"
)

// Repository exposes read access to user accounts. Orders copy the
// customer name and phone from here at submission time.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a user repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetByID loads a user by id.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
