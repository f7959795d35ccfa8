package catalog

import (
	"context"

	"gorm.io/gorm"

	"github.com/tafelzeven/backoffice/internal/models"
)

type CatalogService struct {
	DB *gorm.DB
}

type categoryRow struct {
	ID               uint
	Name             string
	Description      string
	ImageURL         string
	NumberOfProducts int64
}

// ListCategories left-joins products so empty categories still list with a
// zero count.
func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	var rows []categoryRow
	err := s.DB.WithContext(ctx).Table("categories").
		Select("categories.id, categories.name, categories.description, categories.image_url, count(products.id) AS number_of_products").
		Joins("LEFT JOIN products ON products.category_id = categories.id").
		Group("categories.id, categories.name, categories.description, categories.image_url").
		Order("categories.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	cats := make([]models.Category, len(rows))
	for i, r := range rows {
		cats[i] = models.Category{
			ID:               r.ID,
			Name:             r.Name,
			Description:      r.Description,
			ImageURL:         r.ImageURL,
			NumberOfProducts: r.NumberOfProducts,
		}
	}
	return cats, nil
}

func (s *CatalogService) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	var cat models.Category
	if err := s.DB.WithContext(ctx).First(&cat, id).Error; err != nil {
		return nil, err
	}
	return &cat, nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, cat *models.Category) error {
	return s.DB.WithContext(ctx).Create(cat).Error
}

func (s *CatalogService) UpdateCategory(ctx context.Context, cat *models.Category) error {
	return s.DB.WithContext(ctx).Model(&models.Category{ID: cat.ID}).
		Select("name", "description", "image_url").
		Updates(map[string]any{
			"name":        cat.Name,
			"description": cat.Description,
			"image_url":   cat.ImageURL,
		}).Error
}

// DeleteCategory fails with a foreign-key violation while products still
// reference the category; the handler surfaces that instead of cascading.
func (s *CatalogService) DeleteCategory(ctx context.Context, id uint) error {
	res := s.DB.WithContext(ctx).Delete(&models.Category{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *CatalogService) ListIngredients(ctx context.Context) ([]models.Ingredient, error) {
	var ingredients []models.Ingredient
	if err := s.DB.WithContext(ctx).Order("id ASC").Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

func (s *CatalogService) GetIngredient(ctx context.Context, id uint) (*models.Ingredient, error) {
	var ing models.Ingredient
	if err := s.DB.WithContext(ctx).First(&ing, id).Error; err != nil {
		return nil, err
	}
	return &ing, nil
}

func (s *CatalogService) CreateIngredient(ctx context.Context, ing *models.Ingredient) error {
	return s.DB.WithContext(ctx).Create(ing).Error
}

func (s *CatalogService) UpdateIngredient(ctx context.Context, ing *models.Ingredient) error {
	return s.DB.WithContext(ctx).Model(&models.Ingredient{ID: ing.ID}).
		Select("name", "type", "price", "image_url").
		Updates(map[string]any{
			"name":      ing.Name,
			"type":      ing.Type,
			"price":     ing.Price,
			"image_url": ing.ImageURL,
		}).Error
}

func (s *CatalogService) DeleteIngredient(ctx context.Context, id uint) error {
	res := s.DB.WithContext(ctx).Delete(&models.Ingredient{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListProducts keeps the storefront contract: a product appears with its
// category name and its variants ordered by variant id. Products without
// variants (not creatable through the app) are omitted.
func (s *CatalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := s.DB.WithContext(ctx).Table("products").
		Select("products.*, categories.name AS category_name").
		Joins("JOIN categories ON categories.id = products.category_id").
		Order("products.id ASC").
		Scan(&products).Error
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return []models.Product{}, nil
	}

	ids := make([]uint, len(products))
	byID := make(map[uint]*models.Product, len(products))
	for i := range products {
		ids[i] = products[i].ID
		byID[products[i].ID] = &products[i]
	}

	var variants []models.ProductVariant
	if err := s.DB.WithContext(ctx).Where("product_id IN ?", ids).Order("id ASC").Find(&variants).Error; err != nil {
		return nil, err
	}
	for _, v := range variants {
		p := byID[v.ProductID]
		p.Variants = append(p.Variants, v)
	}

	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if len(p.Variants) > 0 {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var prod models.Product
	err := s.DB.WithContext(ctx).Table("products").
		Select("products.*, categories.name AS category_name").
		Joins("JOIN categories ON categories.id = products.category_id").
		Where("products.id = ?", id).
		Take(&prod).Error
	if err != nil {
		return nil, err
	}
	if err := s.DB.WithContext(ctx).Where("product_id = ?", id).Order("id ASC").Find(&prod.Variants).Error; err != nil {
		return nil, err
	}
	return &prod, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, prod *models.Product) error {
	return s.DB.WithContext(ctx).Create(prod).Error
}

// UpdateProduct full-replaces the variant set inside one transaction. Order
// lines snapshot what they need, so losing the old variant rows is safe.
func (s *CatalogService) UpdateProduct(ctx context.Context, prod *models.Product) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.Product{ID: prod.ID}).
			Select("category_id", "name", "description", "image_url").
			Updates(map[string]any{
				"category_id": prod.CategoryID,
				"name":        prod.Name,
				"description": prod.Description,
				"image_url":   prod.ImageURL,
			}).Error
		if err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", prod.ID).Delete(&models.ProductVariant{}).Error; err != nil {
			return err
		}
		if len(prod.Variants) == 0 {
			return nil
		}
		for i := range prod.Variants {
			prod.Variants[i].ID = 0
			prod.Variants[i].ProductID = prod.ID
		}
		return tx.Create(&prod.Variants).Error
	})
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uint) error {
	res := s.DB.WithContext(ctx).Delete(&models.Product{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
