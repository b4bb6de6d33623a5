package persistence

import (
	"context"
	"fmt"
	"math/rand/v2"

	"orders/internal/adapters/out/persistence/catalogrepo"

	"gorm.io/gorm"
)

// SeedConfig controls how many catalog rows are inserted.
type SeedConfig struct {
	Users     int
	Products  int
	BatchSize int
	Seed      uint64
}

// CatalogIDs lists the rows available after seeding.
type CatalogIDs struct {
	UserIDs    []int64
	ProductIDs []int64
}

var roles = []string{"customer", "customer", "customer", "admin"}

// SeedCatalog tops users and products up to the configured counts with
// deterministic synthetic data and returns every id present afterwards.
func SeedCatalog(ctx context.Context, db *gorm.DB, cfg SeedConfig) (CatalogIDs, error) {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 500
	}
	rnd := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))

	if err := seedUsers(ctx, db, cfg, rnd); err != nil {
		return CatalogIDs{}, err
	}
	if err := seedProducts(ctx, db, cfg, rnd); err != nil {
		return CatalogIDs{}, err
	}

	var ids CatalogIDs
	if err := db.WithContext(ctx).Model(&catalogrepo.UserDTO{}).Order("id").Pluck("id", &ids.UserIDs).Error; err != nil {
		return CatalogIDs{}, err
	}
	if err := db.WithContext(ctx).Model(&catalogrepo.ProductDTO{}).Order("id").Pluck("id", &ids.ProductIDs).Error; err != nil {
		return CatalogIDs{}, err
	}
	return ids, nil
}

func seedUsers(ctx context.Context, db *gorm.DB, cfg SeedConfig, rnd *rand.Rand) error {
	var existing int64
	if err := db.WithContext(ctx).Model(&catalogrepo.UserDTO{}).Count(&existing).Error; err != nil {
		return err
	}

	batch := make([]catalogrepo.UserDTO, 0, cfg.BatchSize)
	for i := int(existing); i < cfg.Users; i++ {
		batch = append(batch, catalogrepo.UserDTO{
			Email: fmt.Sprintf("user%06d@example.com", i+1),
			Role:  roles[rnd.IntN(len(roles))],
		})
		if len(batch) == cfg.BatchSize || i == cfg.Users-1 {
			if err := db.WithContext(ctx).Create(&batch).Error; err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	return nil
}

func seedProducts(ctx context.Context, db *gorm.DB, cfg SeedConfig, rnd *rand.Rand) error {
	var existing int64
	if err := db.WithContext(ctx).Model(&catalogrepo.ProductDTO{}).Count(&existing).Error; err != nil {
		return err
	}

	batch := make([]catalogrepo.ProductDTO, 0, cfg.BatchSize)
	for i := int(existing); i < cfg.Products; i++ {
		batch = append(batch, catalogrepo.ProductDTO{
			Name:       fmt.Sprintf("Product %d", i+1),
			PriceCents: int64(100 + rnd.IntN(9901)),
		})
		if len(batch) == cfg.BatchSize || i == cfg.Products-1 {
			if err := db.WithContext(ctx).Create(&batch).Error; err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	return nil
}
