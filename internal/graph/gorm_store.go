package graph

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/despensa/backend/internal/models"
)

// GormStore keeps edges in the follows table
type GormStore struct {
	db *gorm.DB
}

var _ Store = (*GormStore)(nil)

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Toggle(ctx context.Context, follower, followee uuid.UUID) (bool, error) {
	following := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("follower_id = ? AND followee_id = ?", follower, followee).Delete(&models.Follow{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}
		following = true
		return tx.Create(&models.Follow{FollowerID: follower, FolloweeID: followee}).Error
	})
	if err != nil {
		return false, err
	}
	return following, nil
}

func (s *GormStore) IsFollowing(ctx context.Context, follower, followee uuid.UUID) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND followee_id = ?", follower, followee).
		Count(&count).Error
	return count > 0, err
}

func (s *GormStore) Followers(ctx context.Context, userID uuid.UUID, offset, limit int) ([]uuid.UUID, int64, error) {
	return s.page(ctx, "followee_id", "follower_id", userID, offset, limit)
}

func (s *GormStore) Following(ctx context.Context, userID uuid.UUID, offset, limit int) ([]uuid.UUID, int64, error) {
	return s.page(ctx, "follower_id", "followee_id", userID, offset, limit)
}

func (s *GormStore) page(ctx context.Context, matchCol, selectCol string, userID uuid.UUID, offset, limit int) ([]uuid.UUID, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.Follow{}).Where(matchCol+" = ?", userID).Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ids []uuid.UUID
	err := q.Order("created_at DESC").Order(selectCol).
		Offset(offset).Limit(limit).
		Pluck(selectCol, &ids).Error
	if err != nil {
		return nil, 0, err
	}
	return ids, total, nil
}

func (s *GormStore) Counts(ctx context.Context, userID uuid.UUID) (int64, int64, error) {
	var followers, following int64
	db := s.db.WithContext(ctx)
	if err := db.Model(&models.Follow{}).Where("followee_id = ?", userID).Count(&followers).Error; err != nil {
		return 0, 0, err
	}
	if err := db.Model(&models.Follow{}).Where("follower_id = ?", userID).Count(&following).Error; err != nil {
		return 0, 0, err
	}
	return followers, following, nil
}
