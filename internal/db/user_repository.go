package db

import (
	"github.com/billow-app/billow/internal/models"
	"gorm.io/gorm"
)

type UserRepository struct {
	database *gorm.DB
}

func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{database: database}
}

func (repo *UserRepository) CountUsers() (int64, error) {
	var count int64
	if err := repo.database.Model(&models.User{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (repo *UserRepository) FindByID(userID string) (models.User, bool, error) {
	user := models.User{}
	result := repo.database.
		Where("id = ?", userID).
		Limit(1).
		Find(&user)
	if result.Error != nil {
		return models.User{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.User{}, false, nil
	}
	return user, true, nil
}

// FindByNormalizedEmail matches against the lowercased trimmed email,
// so lookups agree with the normalization applied at registration.
func (repo *UserRepository) FindByNormalizedEmail(email string) (models.User, bool, error) {
	user := models.User{}
	result := repo.database.
		Where("lower(trim(email)) = ?", email).
		Limit(1).
		Find(&user)
	if result.Error != nil {
		return models.User{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.User{}, false, nil
	}
	return user, true, nil
}

func (repo *UserRepository) Create(user *models.User) error {
	return repo.database.Create(user).Error
}
