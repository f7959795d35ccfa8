package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tafelzeven/backoffice/internal/logging"
	"github.com/tafelzeven/backoffice/internal/mykafka"
	"github.com/tafelzeven/backoffice/internal/service/order"
	"github.com/tafelzeven/backoffice/internal/transport"
)

type OrderHandler struct {
	Svc      *order.OrderService
	Producer *mykafka.Producer
}

// CreateOrder serves POST /api/orders, the endpoint the POS terminal calls.
func (h *OrderHandler) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create_order")

	var req transport.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_order_failed", "status", 400, "reason", "invalid body", "error", err)
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid order format"})
	}

	ord, err := h.Svc.Create(ctx, req)
	if err != nil {
		if errors.Is(err, order.ErrValidation) {
			l.Warn("create_order_failed", "status", 400, "reason", "validation", "error", err)
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid order format"})
		}
		l.Error("create_order_failed", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create order"})
	}

	publish(c, h.Producer, OrderTopic, map[string]any{
		"type":        "order_created",
		"order_id":    ord.ID,
		"total_price": ord.TotalPrice,
		"is_takeaway": ord.IsTakeaway,
		"items":       len(ord.Items),
	})

	l.Info("create_order_success", "order_id", ord.ID)
	return c.JSON(http.StatusCreated, echo.Map{"message": "Order created successfully"})
}

// GetOrders serves GET /api/orders.
func (h *OrderHandler) GetOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_orders")

	orders, err := h.Svc.List(ctx)
	if err != nil {
		l.Error("get_orders_failed", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to fetch orders"})
	}
	return c.JSON(http.StatusOK, orders)
}

// GetOrder serves GET /api/orders/:id.
func (h *OrderHandler) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_order")

	id, err := parseID(c)
	if err != nil {
		l.Warn("get_order_failed", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid order id"})
	}

	ord, err := h.Svc.Get(ctx, id)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			l.Warn("get_order_failed", "status", 404, "order_id", id)
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Order not found"})
		}
		l.Error("get_order_failed", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to fetch order"})
	}
	return c.JSON(http.StatusOK, ord)
}

func (h *OrderHandler) DashboardPage(c echo.Context) error {
	ctx := c.Request().Context()

	stats, err := h.Svc.Stats(ctx)
	errorMessage := ""
	if err != nil {
		logging.FromContext(ctx).Error("dashboard_failed", "error", err)
		errorMessage = "Something went wrong fetching the dashboard. Try again."
	}
	return c.Render(http.StatusOK, "dashboard.html", echo.Map{
		"Title":        "Dashboard",
		"Stats":        stats,
		"ErrorMessage": errorMessage,
	})
}

func (h *OrderHandler) ListPage(c echo.Context) error {
	return h.renderList(c, "")
}

func (h *OrderHandler) renderList(c echo.Context, errorMessage string) error {
	orders, err := h.Svc.List(c.Request().Context())
	if err != nil {
		logging.FromContext(c.Request().Context()).Error("list_orders_failed", "error", err)
		errorMessage = "Something went wrong fetching the orders. Try again."
	}
	return c.Render(http.StatusOK, "orders.html", echo.Map{
		"Title":        "Orders",
		"Orders":       orders,
		"ErrorMessage": errorMessage,
	})
}

func (h *OrderHandler) ViewPage(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := parseID(c)
	if err != nil {
		return h.renderList(c, "Error fetching order details. Please try again.")
	}

	ord, err := h.Svc.Get(ctx, id)
	if err != nil {
		logging.FromContext(ctx).Warn("view_order_failed", "order_id", id, "error", err)
		return h.renderList(c, "Error fetching order details. Please try again.")
	}

	return c.Render(http.StatusOK, "view-order.html", echo.Map{
		"Title": "Order details",
		"Order": ord,
	})
}

func (h *OrderHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.delete")

	id, err := parseID(c)
	if err != nil {
		return h.renderList(c, "Something went wrong deleting the order. Try again.")
	}

	if err := h.Svc.Delete(ctx, id); err != nil {
		l.Warn("delete_order_failed", "order_id", id, "error", err)
		return h.renderList(c, "Something went wrong deleting the order. Try again.")
	}

	publish(c, h.Producer, OrderTopic, map[string]any{
		"type":     "order_deleted",
		"order_id": id,
	})

	return c.Redirect(http.StatusFound, "/orders")
}
