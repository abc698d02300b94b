package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/alaaMelook/Nature-Hug-sub001/pkg/models"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("record not found")

func (s *Store) ListProducts(ctx context.Context, page, pageSize int) ([]models.Product, int64, error) {
	var products []models.Product
	var total int64

	query := s.db.WithContext(ctx).Model(&models.Product{})
	query.Count(&total)

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize
	if err := query.Offset(offset).Limit(pageSize).Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	return products, total, nil
}

func (s *Store) GetProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &product, nil
}

func (s *Store) GetProducts(ctx context.Context, ids []uint) ([]models.Product, error) {
	var products []models.Product
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get products: %w", err)
	}
	return products, nil
}

func (s *Store) CreateProduct(ctx context.Context, p *models.Product) error {
	return s.db.WithContext(ctx).Create(p).Error
}

func (s *Store) UpdateProduct(ctx context.Context, p *models.Product) error {
	return s.db.WithContext(ctx).Save(p).Error
}

func (s *Store) ListMaterials(ctx context.Context) ([]models.Material, error) {
	var materials []models.Material
	if err := s.db.WithContext(ctx).Find(&materials).Error; err != nil {
		return nil, fmt.Errorf("failed to list materials: %w", err)
	}
	return materials, nil
}

func (s *Store) CreateMaterial(ctx context.Context, m *models.Material) error {
	return s.db.WithContext(ctx).Create(m).Error
}

func (s *Store) UpdateMaterial(ctx context.Context, m *models.Material) error {
	return s.db.WithContext(ctx).Save(m).Error
}

func (s *Store) DeleteMaterial(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Material{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete material: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) ListSuppliers(ctx context.Context) ([]models.Supplier, error) {
	var suppliers []models.Supplier
	if err := s.db.WithContext(ctx).Find(&suppliers).Error; err != nil {
		return nil, fmt.Errorf("failed to list suppliers: %w", err)
	}
	return suppliers, nil
}

func (s *Store) CreateSupplier(ctx context.Context, sp *models.Supplier) error {
	return s.db.WithContext(ctx).Create(sp).Error
}

func (s *Store) DeleteSupplier(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Supplier{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete supplier: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) ListGovernorates(ctx context.Context) ([]models.Governorate, error) {
	var govs []models.Governorate
	if err := s.db.WithContext(ctx).Find(&govs).Error; err != nil {
		return nil, fmt.Errorf("failed to list governorates: %w", err)
	}
	return govs, nil
}

func (s *Store) GetGovernorate(ctx context.Context, id uint) (*models.Governorate, error) {
	var gov models.Governorate
	err := s.db.WithContext(ctx).First(&gov, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get governorate: %w", err)
	}
	return &gov, nil
}

func (s *Store) UpsertGovernorate(ctx context.Context, gov *models.Governorate) error {
	return s.db.WithContext(ctx).Save(gov).Error
}
