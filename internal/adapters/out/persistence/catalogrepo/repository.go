// Package catalogrepo reads users and products. Both tables are written only by
// the seeding tool.
package catalogrepo

import (
	"context"
	"errors"
	"time"

	"orders/internal/core/domain/model/catalog"
	"orders/internal/core/domain/model/kernel"
	"orders/internal/pkg/errs"

	"gorm.io/gorm"
)

type UserDTO struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	Email     string `gorm:"size:255;not null;uniqueIndex"`
	Role      string `gorm:"size:32;not null;default:customer"`
	CreatedAt time.Time
}

func (UserDTO) TableName() string {
	return "users"
}

type ProductDTO struct {
	ID         int64  `gorm:"primaryKey;autoIncrement"`
	Name       string `gorm:"size:255;not null"`
	PriceCents int64  `gorm:"not null"`
	CreatedAt  time.Time
}

func (ProductDTO) TableName() string {
	return "products"
}

type GormProductRepository struct {
	db *gorm.DB
}

func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) Get(ctx context.Context, id int64) (*catalog.Product, error) {
	var dto ProductDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("product", id)
		}
		return nil, errs.NewUnavailableErrorWithCause("get product", err)
	}
	return catalog.NewProduct(dto.ID, dto.Name, kernel.Cents(dto.PriceCents))
}

func (r *GormProductRepository) GetMany(ctx context.Context, ids []int64) ([]*catalog.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var dtos []ProductDTO
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&dtos).Error; err != nil {
		return nil, errs.NewUnavailableErrorWithCause("get products", err)
	}

	products := make([]*catalog.Product, 0, len(dtos))
	for _, dto := range dtos {
		p, err := catalog.NewProduct(dto.ID, dto.Name, kernel.Cents(dto.PriceCents))
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}

type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&UserDTO{}).Where("id = ?", id).Limit(1).Count(&count).Error; err != nil {
		return false, errs.NewUnavailableErrorWithCause("get user", err)
	}
	return count > 0, nil
}
