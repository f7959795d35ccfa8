package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/tafelzeven/backoffice/internal/models"
	"github.com/tafelzeven/backoffice/internal/transport"
)

var (
	ErrValidation = errors.New("validation") // 400
	ErrNotFound   = errors.New("not found")  // 404
)

type OrderService struct {
	DB *gorm.DB
}

// Create persists an order with its items and item-ingredients in a single
// transaction; a failure anywhere rolls back every row. The submitted
// total_price is stored as-is, the POS terminal owns that number.
func (svc *OrderService) Create(ctx context.Context, req transport.CreateOrderRequest) (*models.Order, error) {
	if req.TotalPrice == nil || req.IsTakeaway == nil {
		return nil, fmt.Errorf("%w: total_price and is_takeaway required", ErrValidation)
	}
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: items required", ErrValidation)
	}

	createdAt := time.Now().UTC()
	if req.CreatedAt != "" {
		t, err := time.Parse(time.RFC3339, req.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("%w: created_at must be RFC3339: %v", ErrValidation, err)
		}
		createdAt = t
	}

	for i := range req.Items {
		it := &req.Items[i]
		if it.ProductVariantID == nil || it.Quantity == nil || it.Price == nil {
			return nil, fmt.Errorf("%w: item %d incomplete", ErrValidation, i)
		}
		if *it.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity must be > 0", ErrValidation)
		}
		if *it.Price < 0 {
			return nil, fmt.Errorf("%w: price must be >= 0", ErrValidation)
		}
		for j := range it.Ingredients {
			ing := &it.Ingredients[j]
			if ing.IngredientID == nil || ing.Quantity == nil {
				return nil, fmt.Errorf("%w: ingredient %d of item %d incomplete", ErrValidation, j, i)
			}
			if *ing.Quantity <= 0 {
				return nil, fmt.Errorf("%w: ingredient quantity must be > 0", ErrValidation)
			}
		}
	}

	order := &models.Order{
		CreatedAt:  createdAt,
		TotalPrice: *req.TotalPrice,
		IsTakeaway: *req.IsTakeaway,
	}

	err := svc.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, it := range req.Items {
			// Snapshot the product name and size so the line item stays
			// readable after the variant row is replaced by a product edit.
			var variant struct {
				Size        string
				ProductName string
			}
			err := tx.Table("product_variants").
				Select("product_variants.size, products.name AS product_name").
				Joins("JOIN products ON products.id = product_variants.product_id").
				Where("product_variants.id = ?", *it.ProductVariantID).
				Take(&variant).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: unknown product_variant_id %d", ErrValidation, *it.ProductVariantID)
			}
			if err != nil {
				return err
			}

			item := models.OrderItem{
				ProductVariantID: *it.ProductVariantID,
				ProductName:      variant.ProductName,
				VariantSize:      variant.Size,
				Quantity:         uint(*it.Quantity),
				Price:            *it.Price,
			}
			for _, ing := range it.Ingredients {
				var count int64
				if err := tx.Model(&models.Ingredient{}).Where("id = ?", *ing.IngredientID).Count(&count).Error; err != nil {
					return err
				}
				if count == 0 {
					return fmt.Errorf("%w: unknown ingredient_id %d", ErrValidation, *ing.IngredientID)
				}
				item.Ingredients = append(item.Ingredients, models.OrderItemIngredient{
					IngredientID: *ing.IngredientID,
					Quantity:     uint(*ing.Quantity),
				})
			}
			order.Items = append(order.Items, item)
		}

		return tx.Create(order).Error
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// List reassembles the full order tree, ascending by id at every level.
func (svc *OrderService) List(ctx context.Context) ([]transport.OrderResponse, error) {
	return svc.fetch(ctx, nil)
}

func (svc *OrderService) Get(ctx context.Context, id uint) (*transport.OrderResponse, error) {
	orders, err := svc.fetch(ctx, &id)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, fmt.Errorf("%w: order %d", ErrNotFound, id)
	}
	return &orders[0], nil
}

func (svc *OrderService) Delete(ctx context.Context, id uint) error {
	res := svc.DB.WithContext(ctx).Delete(&models.Order{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: order %d", ErrNotFound, id)
	}
	return nil
}

// Stats summarizes the orders table for the dashboard.
type Stats struct {
	Orders   int64
	Takeaway int64
	DineIn   int64
	Revenue  float64
}

func (svc *OrderService) Stats(ctx context.Context) (Stats, error) {
	db := svc.DB.WithContext(ctx)

	var s Stats
	if err := db.Model(&models.Order{}).Count(&s.Orders).Error; err != nil {
		return Stats{}, err
	}
	if err := db.Model(&models.Order{}).Where("is_takeaway = ?", true).Count(&s.Takeaway).Error; err != nil {
		return Stats{}, err
	}
	s.DineIn = s.Orders - s.Takeaway
	if err := db.Model(&models.Order{}).Select("COALESCE(SUM(total_price), 0)").Scan(&s.Revenue).Error; err != nil {
		return Stats{}, err
	}
	return s, nil
}

type ingredientRow struct {
	ID             uint
	OrderItemID    uint
	IngredientID   uint
	IngredientName string
	Quantity       uint
}

// fetch runs three flat queries (orders, items, item-ingredients) and stitches
// the tree together in memory, ascending by id at every level.
func (svc *OrderService) fetch(ctx context.Context, id *uint) ([]transport.OrderResponse, error) {
	db := svc.DB.WithContext(ctx)

	var orders []models.Order
	q := db.Model(&models.Order{}).Order("id ASC")
	if id != nil {
		q = q.Where("id = ?", *id)
	}
	if err := q.Find(&orders).Error; err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return []transport.OrderResponse{}, nil
	}

	orderIDs := make([]uint, len(orders))
	for i, o := range orders {
		orderIDs[i] = o.ID
	}

	var items []models.OrderItem
	if err := db.Where("order_id IN ?", orderIDs).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}

	ingredientsByItem := map[uint][]transport.OrderItemIngredientResponse{}
	if len(items) > 0 {
		itemIDs := make([]uint, len(items))
		for i, it := range items {
			itemIDs[i] = it.ID
		}
		var rows []ingredientRow
		err := db.Table("order_item_ingredients").
			Select("order_item_ingredients.id, order_item_ingredients.order_item_id, order_item_ingredients.ingredient_id, ingredients.name AS ingredient_name, order_item_ingredients.quantity").
			Joins("JOIN ingredients ON ingredients.id = order_item_ingredients.ingredient_id").
			Where("order_item_ingredients.order_item_id IN ?", itemIDs).
			Order("order_item_ingredients.id ASC").
			Scan(&rows).Error
		if err != nil {
			return nil, err
		}
		for _, r := range rows {
			ingredientsByItem[r.OrderItemID] = append(ingredientsByItem[r.OrderItemID], transport.OrderItemIngredientResponse{
				OrderItemIngredientID: r.ID,
				IngredientID:          r.IngredientID,
				IngredientName:        r.IngredientName,
				Quantity:              r.Quantity,
			})
		}
	}

	itemsByOrder := map[uint][]transport.OrderItemResponse{}
	for _, it := range items {
		itemsByOrder[it.OrderID] = append(itemsByOrder[it.OrderID], transport.OrderItemResponse{
			OrderItemID:        it.ID,
			ProductVariantID:   it.ProductVariantID,
			ProductVariantName: fmt.Sprintf("%s (%s)", it.ProductName, it.VariantSize),
			Quantity:           it.Quantity,
			Price:              it.Price,
			Ingredients:        ingredientsByItem[it.ID],
		})
	}

	out := make([]transport.OrderResponse, len(orders))
	for i, o := range orders {
		out[i] = transport.OrderResponse{
			ID:         o.ID,
			CreatedAt:  o.CreatedAt,
			TotalPrice: o.TotalPrice,
			IsTakeaway: o.IsTakeaway,
			Items:      itemsByOrder[o.ID],
		}
	}
	return out, nil
}
