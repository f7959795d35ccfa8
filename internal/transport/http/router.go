package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/tafelzeven/backoffice/internal/handlers"
)

type Deps struct {
	DB                *gorm.DB
	CategoryHandler   *handlers.CategoryHandler
	IngredientHandler *handlers.IngredientHandler
	ProductHandler    *handlers.ProductHandler
	OrderHandler      *handlers.OrderHandler
	SearchHandler     *handlers.SearchHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	api := e.Group("/api")

	api.GET("/products", d.ProductHandler.GetProducts)
	api.GET("/products/search", d.SearchHandler.Search)
	api.GET("/categories", d.CategoryHandler.GetCategories)
	api.GET("/ingredients", d.IngredientHandler.GetIngredients)
	api.GET("/orders", d.OrderHandler.GetOrders)
	api.GET("/orders/:id", d.OrderHandler.GetOrder)
	api.POST("/orders", d.OrderHandler.CreateOrder)

	// Admin UI, server-rendered.
	e.GET("/", func(c echo.Context) error { return c.Redirect(http.StatusFound, "/dashboard") })
	e.GET("/dashboard", d.OrderHandler.DashboardPage)

	e.GET("/products", d.ProductHandler.ListPage)
	e.GET("/add-product", d.ProductHandler.AddPage)
	e.POST("/add-product", d.ProductHandler.Add)
	e.GET("/edit-product/:id", d.ProductHandler.EditPage)
	e.POST("/edit-product/:id", d.ProductHandler.Edit)
	e.POST("/delete-product/:id", d.ProductHandler.Delete)

	e.GET("/categories", d.CategoryHandler.ListPage)
	e.GET("/add-category", d.CategoryHandler.AddPage)
	e.POST("/add-category", d.CategoryHandler.Add)
	e.GET("/edit-category/:id", d.CategoryHandler.EditPage)
	e.POST("/edit-category/:id", d.CategoryHandler.Edit)
	e.POST("/delete-category/:id", d.CategoryHandler.Delete)

	e.GET("/ingredients", d.IngredientHandler.ListPage)
	e.GET("/add-ingredient", d.IngredientHandler.AddPage)
	e.POST("/add-ingredient", d.IngredientHandler.Add)
	e.GET("/edit-ingredient/:id", d.IngredientHandler.EditPage)
	e.POST("/edit-ingredient/:id", d.IngredientHandler.Edit)
	e.POST("/delete-ingredient/:id", d.IngredientHandler.Delete)

	e.GET("/orders", d.OrderHandler.ListPage)
	e.GET("/view-order/:id", d.OrderHandler.ViewPage)
	e.POST("/delete-order/:id", d.OrderHandler.Delete)
}
