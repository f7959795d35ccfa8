package transport

import "time"

// CreateOrderRequest is the POST /api/orders body. Required scalars are
// pointers so a missing field is distinguishable from a zero value.
type CreateOrderRequest struct {
	CreatedAt  string                   `json:"created_at"`
	TotalPrice *float64                 `json:"total_price"`
	IsTakeaway *bool                    `json:"is_takeaway"`
	Items      []CreateOrderItemRequest `json:"items"`
}

type CreateOrderItemRequest struct {
	ProductVariantID *uint                          `json:"product_variant_id"`
	Quantity         *int                           `json:"quantity"`
	Price            *float64                       `json:"price"`
	Ingredients      []CreateOrderIngredientRequest `json:"ingredients"`
}

type CreateOrderIngredientRequest struct {
	IngredientID *uint `json:"ingredient_id"`
	Quantity     *int  `json:"quantity"`
}

type OrderResponse struct {
	ID         uint                `json:"id"`
	CreatedAt  time.Time           `json:"created_at"`
	TotalPrice float64             `json:"total_price"`
	IsTakeaway bool                `json:"is_takeaway"`
	Items      []OrderItemResponse `json:"items"`
}

type OrderItemResponse struct {
	OrderItemID        uint                          `json:"order_item_id"`
	ProductVariantID   uint                          `json:"product_variant_id"`
	ProductVariantName string                        `json:"product_variant_name"`
	Quantity           uint                          `json:"quantity"`
	Price              float64                       `json:"price"`
	Ingredients        []OrderItemIngredientResponse `json:"ingredients"`
}

type OrderItemIngredientResponse struct {
	OrderItemIngredientID uint   `json:"order_item_ingredient_id"`
	IngredientID          uint   `json:"ingredient_id"`
	IngredientName        string `json:"ingredient_name"`
	Quantity              uint   `json:"quantity"`
}
