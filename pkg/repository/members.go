package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alaaMelook/Nature-Hug-sub001/pkg/models"
	"gorm.io/gorm"
)

func (s *Store) GetMember(ctx context.Context, id string) (*models.Member, error) {
	var member models.Member
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	return &member, nil
}

func (s *Store) ListMembers(ctx context.Context) ([]models.Member, error) {
	var members []models.Member
	if err := s.db.WithContext(ctx).Find(&members).Error; err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return members, nil
}

func (s *Store) CreateMember(ctx context.Context, m *models.Member) error {
	return s.db.WithContext(ctx).Create(m).Error
}

// SetMemberPermissions replaces the whole permission map; per-flag edits
// happen client-side against a copy.
func (s *Store) SetMemberPermissions(ctx context.Context, id string, perms models.Permissions) error {
	res := s.db.WithContext(ctx).Model(&models.Member{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"permissions": perms,
			"updated_at":  time.Now(),
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update member permissions: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
