package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/tafelzeven/backoffice/internal/imagestore"
	"github.com/tafelzeven/backoffice/internal/logging"
	"github.com/tafelzeven/backoffice/internal/models"
	"github.com/tafelzeven/backoffice/internal/mykafka"
	"github.com/tafelzeven/backoffice/internal/service/catalog"
)

type CategoryHandler struct {
	Svc      *catalog.CatalogService
	Images   *imagestore.Store
	Producer *mykafka.Producer
}

// GetCategories serves GET /api/categories.
func (h *CategoryHandler) GetCategories(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.get_categories")

	cats, err := h.Svc.ListCategories(ctx)
	if err != nil {
		l.Error("get_categories_failed", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to fetch categories"})
	}
	return c.JSON(http.StatusOK, cats)
}

func (h *CategoryHandler) ListPage(c echo.Context) error {
	return h.renderList(c, "")
}

func (h *CategoryHandler) renderList(c echo.Context, errorMessage string) error {
	cats, err := h.Svc.ListCategories(c.Request().Context())
	if err != nil {
		logging.FromContext(c.Request().Context()).Error("list_categories_failed", "error", err)
		errorMessage = "Something went wrong fetching the categories. Try again."
	}
	return c.Render(http.StatusOK, "categories.html", echo.Map{
		"Title":        "Categories",
		"Categories":   cats,
		"ErrorMessage": errorMessage,
	})
}

func (h *CategoryHandler) AddPage(c echo.Context) error {
	return c.Render(http.StatusOK, "add-category.html", echo.Map{
		"Title": "Add New Category",
	})
}

func (h *CategoryHandler) Add(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.add")

	cat := models.Category{
		Name:        c.FormValue("name"),
		Description: c.FormValue("description"),
	}

	renderError := func(msg string) error {
		return c.Render(http.StatusOK, "add-category.html", echo.Map{
			"Title":        "Add New Category",
			"ErrorMessage": msg,
			"FormData":     cat,
		})
	}

	if file, err := c.FormFile("image"); err == nil {
		cat.ImageURL = h.Images.URLFor("categories", cat.Name, cat.Name)
		if err := h.Images.Save(file, cat.ImageURL); err != nil {
			l.Warn("add_category_image_failed", "error", err)
			return renderError("Something went wrong trying to add the category. Try again.")
		}
	}

	if err := h.Svc.CreateCategory(ctx, &cat); err != nil {
		l.Error("add_category_failed", "error", err)
		return renderError("Something went wrong trying to add the category. Try again.")
	}

	publish(c, h.Producer, CatalogTopic, map[string]any{
		"type":        "category_created",
		"category_id": cat.ID,
		"name":        cat.Name,
	})

	return c.Redirect(http.StatusFound, "/categories")
}

func (h *CategoryHandler) EditPage(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return h.renderList(c, "Error fetching category. Try again.")
	}

	cat, err := h.Svc.GetCategory(c.Request().Context(), id)
	if err != nil {
		logging.FromContext(c.Request().Context()).Warn("edit_category_page_failed", "error", err)
		return h.renderList(c, "Error fetching category. Try again.")
	}

	return c.Render(http.StatusOK, "edit-category.html", echo.Map{
		"Title":    "Edit Category",
		"Category": cat,
	})
}

func (h *CategoryHandler) Edit(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.edit")

	id, err := parseID(c)
	if err != nil {
		return h.renderList(c, "Error fetching category. Try again.")
	}

	existing, err := h.Svc.GetCategory(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return h.renderList(c, "Category not found.")
		}
		l.Error("edit_category_failed", "error", err)
		return h.renderList(c, "Error fetching category. Try again.")
	}

	cat := models.Category{
		ID:          id,
		Name:        c.FormValue("name"),
		Description: c.FormValue("description"),
		ImageURL:    existing.ImageURL,
	}

	renderError := func(msg string) error {
		return c.Render(http.StatusOK, "edit-category.html", echo.Map{
			"Title":        "Edit Category",
			"ErrorMessage": msg,
			"Category":     cat,
		})
	}

	if file, err := c.FormFile("image"); err == nil {
		cat.ImageURL = h.Images.URLFor("categories", cat.Name, cat.Name)
		if err := h.Images.Save(file, cat.ImageURL); err != nil {
			l.Warn("edit_category_image_failed", "error", err)
			return renderError("Something went wrong while trying to edit the category. Try again.")
		}
	}

	if err := h.Svc.UpdateCategory(ctx, &cat); err != nil {
		l.Error("edit_category_failed", "error", err)
		return renderError("Something went wrong while trying to edit the category. Try again.")
	}

	publish(c, h.Producer, CatalogTopic, map[string]any{
		"type":        "category_updated",
		"category_id": cat.ID,
		"name":        cat.Name,
	})

	return c.Redirect(http.StatusFound, "/categories")
}

func (h *CategoryHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.delete")

	id, err := parseID(c)
	if err != nil {
		return h.renderList(c, "Something went wrong trying to delete the category. Try again.")
	}

	// Fails on the products foreign key while the category is still in use.
	if err := h.Svc.DeleteCategory(ctx, id); err != nil {
		l.Warn("delete_category_failed", "category_id", id, "error", err)
		return h.renderList(c, "Something went wrong trying to delete the category. Try again.")
	}

	publish(c, h.Producer, CatalogTopic, map[string]any{
		"type":        "category_deleted",
		"category_id": id,
	})

	return c.Redirect(http.StatusFound, "/categories")
}
