package dao

import (
	"context"

	"Campus/models"

	"gorm.io/gorm"
)

type UserDAO struct {
	db *gorm.DB
}

func NewUserDAO(db *gorm.DB) *UserDAO {
	return &UserDAO{db: db}
}

func (d *UserDAO) Create(ctx context.Context, user *models.User) error {
	return d.db.WithContext(ctx).Create(user).Error
}

func (d *UserDAO) GetByID(ctx context.Context, userID int64) (*models.User, error) {
	var user models.User
	err := d.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (d *UserDAO) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := d.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// BatchGetByIDs 批量查用户，组装读模型时用，避免逐行回表
func (d *UserDAO) BatchGetByIDs(ctx context.Context, userIDs []int64) (map[int64]models.User, error) {
	result := make(map[int64]models.User)
	if len(userIDs) == 0 {
		return result, nil
	}

	var users []models.User
	err := d.db.WithContext(ctx).Where("id IN ?", userIDs).Find(&users).Error
	if err != nil {
		return nil, err
	}

	for _, u := range users {
		result[u.ID] = u
	}
	return result, nil
}

// Search 私信收件人搜索，排除自己，只要活跃用户
func (d *UserDAO) Search(ctx context.Context, query string, excludeID int64, limit int) ([]models.User, error) {
	var users []models.User
	err := d.db.WithContext(ctx).
		Where("id <> ? AND is_active = ?", excludeID, true).
		Where("name LIKE ?", "%"+EscapeLike(query)+"%").
		Limit(limit).
		Find(&users).Error
	return users, err
}

func (d *UserDAO) UpdatePrefs(ctx context.Context, userID int64, prefs []byte) error {
	return d.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Update("notification_prefs", prefs).Error
}

// ListActiveByIDs 广播/课程更新通知圈人
func (d *UserDAO) ListActiveByIDs(ctx context.Context, userIDs []int64) ([]models.User, error) {
	var users []models.User
	if len(userIDs) == 0 {
		return users, nil
	}
	err := d.db.WithContext(ctx).
		Where("id IN ? AND is_active = ?", userIDs, true).
		Find(&users).Error
	return users, err
}

func (d *UserDAO) ListActive(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := d.db.WithContext(ctx).Where("is_active = ?", true).Find(&users).Error
	return users, err
}
