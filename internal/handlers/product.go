package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/tafelzeven/backoffice/internal/imagestore"
	"github.com/tafelzeven/backoffice/internal/logging"
	"github.com/tafelzeven/backoffice/internal/models"
	"github.com/tafelzeven/backoffice/internal/mykafka"
	"github.com/tafelzeven/backoffice/internal/service/catalog"
)

type ProductHandler struct {
	Svc      *catalog.CatalogService
	Images   *imagestore.Store
	Producer *mykafka.Producer
}

// GetProducts serves GET /api/products.
func (h *ProductHandler) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_products")

	products, err := h.Svc.ListProducts(ctx)
	if err != nil {
		l.Error("get_products_failed", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to fetch products"})
	}
	return c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) ListPage(c echo.Context) error {
	return h.renderList(c, "")
}

func (h *ProductHandler) renderList(c echo.Context, errorMessage string) error {
	products, err := h.Svc.ListProducts(c.Request().Context())
	if err != nil {
		logging.FromContext(c.Request().Context()).Error("list_products_failed", "error", err)
		errorMessage = "Something went wrong fetching the products. Try again."
	}
	return c.Render(http.StatusOK, "products.html", echo.Map{
		"Title":        "Products",
		"Products":     products,
		"ErrorMessage": errorMessage,
	})
}

func (h *ProductHandler) AddPage(c echo.Context) error {
	categories, err := h.Svc.ListCategories(c.Request().Context())
	if err != nil {
		return h.renderList(c, "Something went wrong fetching the categories. Try again.")
	}
	return c.Render(http.StatusOK, "add-product.html", echo.Map{
		"Title":      "Add New Product",
		"Categories": categories,
	})
}

func (h *ProductHandler) Add(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.add")

	categories, err := h.Svc.ListCategories(ctx)
	if err != nil {
		l.Error("add_product_failed", "error", err)
		return h.renderList(c, "Something went wrong while trying to add the product. Try again.")
	}

	prod := models.Product{
		Name:        c.FormValue("name"),
		Description: c.FormValue("description"),
	}

	renderError := func(msg string) error {
		return c.Render(http.StatusOK, "add-product.html", echo.Map{
			"Title":        "Add New Product",
			"ErrorMessage": msg,
			"Categories":   categories,
			"FormData":     prod,
		})
	}

	categoryID, err := strconv.Atoi(c.FormValue("category_id"))
	if err != nil {
		return renderError("Pick a category.")
	}
	prod.CategoryID = uint(categoryID)

	category, err := h.Svc.GetCategory(ctx, prod.CategoryID)
	if err != nil {
		l.Warn("add_product_failed", "reason", "unknown category", "error", err)
		return renderError("Something went wrong while trying to add the product. Try again.")
	}

	price, err := strconv.ParseFloat(c.FormValue("price"), 64)
	if err != nil {
		return renderError("Price must be a number.")
	}
	size := c.FormValue("size")
	if size == "" {
		size = "Default"
	}
	prod.Variants = []models.ProductVariant{{Size: size, Price: price}}

	if file, err := c.FormFile("image"); err == nil {
		prod.ImageURL = h.Images.URLFor("products", category.Name, prod.Name)
		if err := h.Images.Save(file, prod.ImageURL); err != nil {
			l.Warn("add_product_image_failed", "error", err)
			return renderError("Something went wrong while trying to add the product. Try again.")
		}
	}

	if err := h.Svc.CreateProduct(ctx, &prod); err != nil {
		l.Error("add_product_failed", "error", err)
		return renderError("Something went wrong while trying to add the product. Try again.")
	}

	publish(c, h.Producer, CatalogTopic, map[string]any{
		"type":       "product_created",
		"product_id": prod.ID,
		"name":       prod.Name,
	})

	return c.Redirect(http.StatusFound, "/products")
}

func (h *ProductHandler) EditPage(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := parseID(c)
	if err != nil {
		return h.renderList(c, "Error fetching product. Try again.")
	}

	prod, err := h.Svc.GetProduct(ctx, id)
	if err != nil {
		logging.FromContext(ctx).Warn("edit_product_page_failed", "error", err)
		return h.renderList(c, "Error fetching product. Try again.")
	}

	categories, err := h.Svc.ListCategories(ctx)
	if err != nil {
		return h.renderList(c, "Something went wrong fetching the categories. Try again.")
	}

	return c.Render(http.StatusOK, "edit-product.html", echo.Map{
		"Title":      "Edit Product",
		"Product":    prod,
		"Categories": categories,
	})
}

// Edit full-replaces the variant set from the form (one or two size/price
// rows). The previous image is kept unless a new file is uploaded.
func (h *ProductHandler) Edit(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.edit")

	id, err := parseID(c)
	if err != nil {
		return h.renderList(c, "Error fetching product. Try again.")
	}

	existing, err := h.Svc.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return h.renderList(c, "Product not found.")
		}
		l.Error("edit_product_failed", "error", err)
		return h.renderList(c, "Error fetching product. Try again.")
	}

	categories, err := h.Svc.ListCategories(ctx)
	if err != nil {
		return h.renderList(c, "Something went wrong fetching the categories. Try again.")
	}

	prod := models.Product{
		ID:          id,
		Name:        c.FormValue("name"),
		Description: c.FormValue("description"),
		ImageURL:    existing.ImageURL,
	}

	renderError := func(msg string) error {
		return c.Render(http.StatusOK, "edit-product.html", echo.Map{
			"Title":        "Edit Product",
			"ErrorMessage": msg,
			"Product":      existing,
			"Categories":   categories,
		})
	}

	categoryID, err := strconv.Atoi(c.FormValue("category_id"))
	if err != nil {
		return renderError("Pick a category.")
	}
	prod.CategoryID = uint(categoryID)

	category, err := h.Svc.GetCategory(ctx, prod.CategoryID)
	if err != nil {
		l.Warn("edit_product_failed", "reason", "unknown category", "error", err)
		return renderError("Something went wrong while trying to edit the product. Try again.")
	}

	price1, err := strconv.ParseFloat(c.FormValue("price1"), 64)
	if err != nil {
		return renderError("Price must be a number.")
	}
	prod.Variants = []models.ProductVariant{{Size: c.FormValue("size1"), Price: price1}}

	if size2 := c.FormValue("size2"); size2 != "" && c.FormValue("price2") != "" {
		price2, err := strconv.ParseFloat(c.FormValue("price2"), 64)
		if err != nil {
			return renderError("Price must be a number.")
		}
		prod.Variants = append(prod.Variants, models.ProductVariant{Size: size2, Price: price2})
	}

	if file, err := c.FormFile("image"); err == nil {
		prod.ImageURL = h.Images.URLFor("products", category.Name, prod.Name)
		if err := h.Images.Save(file, prod.ImageURL); err != nil {
			l.Warn("edit_product_image_failed", "error", err)
			return renderError("Something went wrong while trying to edit the product. Try again.")
		}
	}

	if err := h.Svc.UpdateProduct(ctx, &prod); err != nil {
		l.Error("edit_product_failed", "error", err)
		return renderError("Something went wrong while trying to edit the product. Try again.")
	}

	publish(c, h.Producer, CatalogTopic, map[string]any{
		"type":       "product_updated",
		"product_id": prod.ID,
		"name":       prod.Name,
	})

	return c.Redirect(http.StatusFound, "/products")
}

func (h *ProductHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete")

	id, err := parseID(c)
	if err != nil {
		return h.renderList(c, "Something went wrong while trying to remove the product. Try again.")
	}

	if err := h.Svc.DeleteProduct(ctx, id); err != nil {
		l.Warn("delete_product_failed", "product_id", id, "error", err)
		return h.renderList(c, "Something went wrong while trying to remove the product. Try again.")
	}

	publish(c, h.Producer, CatalogTopic, map[string]any{
		"type":       "product_deleted",
		"product_id": id,
	})

	return c.Redirect(http.StatusFound, "/products")
}
