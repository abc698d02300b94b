package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alaaMelook/Nature-Hug-sub001/pkg/models"
	"gorm.io/gorm"
)

// GetPromoCode looks a code up case-insensitively; codes are stored
// uppercased at creation.
func (s *Store) GetPromoCode(ctx context.Context, code string) (*models.PromoCode, error) {
	var promo models.PromoCode
	err := s.db.WithContext(ctx).
		Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).
		First(&promo).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get promo code: %w", err)
	}
	return &promo, nil
}

// CreatePromoCode validates and persists a new code. Promo codes are
// immutable once created; there is no update path.
func (s *Store) CreatePromoCode(ctx context.Context, promo *models.PromoCode) error {
	promo.Normalize()
	if err := promo.Validate(); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Create(promo).Error
}

func (s *Store) ListPromoCodes(ctx context.Context) ([]models.PromoCode, error) {
	var promos []models.PromoCode
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&promos).Error; err != nil {
		return nil, fmt.Errorf("failed to list promo codes: %w", err)
	}
	return promos, nil
}

func (s *Store) DeletePromoCode(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.PromoCode{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete promo code: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
