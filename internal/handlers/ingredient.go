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

type IngredientHandler struct {
	Svc      *catalog.CatalogService
	Images   *imagestore.Store
	Producer *mykafka.Producer
}

// GetIngredients serves GET /api/ingredients.
func (h *IngredientHandler) GetIngredients(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "ingredient.get_ingredients")

	ingredients, err := h.Svc.ListIngredients(ctx)
	if err != nil {
		l.Error("get_ingredients_failed", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to fetch ingredients"})
	}
	return c.JSON(http.StatusOK, ingredients)
}

func (h *IngredientHandler) ListPage(c echo.Context) error {
	return h.renderList(c, "")
}

func (h *IngredientHandler) renderList(c echo.Context, errorMessage string) error {
	ingredients, err := h.Svc.ListIngredients(c.Request().Context())
	if err != nil {
		logging.FromContext(c.Request().Context()).Error("list_ingredients_failed", "error", err)
		errorMessage = "Something went wrong fetching the ingredients. Try again."
	}
	return c.Render(http.StatusOK, "ingredients.html", echo.Map{
		"Title":        "Ingredients",
		"Ingredients":  ingredients,
		"ErrorMessage": errorMessage,
	})
}

func (h *IngredientHandler) AddPage(c echo.Context) error {
	return c.Render(http.StatusOK, "add-ingredient.html", echo.Map{
		"Title": "Add New Ingredient",
	})
}

func (h *IngredientHandler) Add(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "ingredient.add")

	ing := models.Ingredient{
		Name: c.FormValue("name"),
		Type: c.FormValue("type"),
	}

	renderError := func(msg string) error {
		return c.Render(http.StatusOK, "add-ingredient.html", echo.Map{
			"Title":        "Add New Ingredient",
			"ErrorMessage": msg,
			"FormData":     ing,
		})
	}

	price, err := strconv.ParseFloat(c.FormValue("price"), 64)
	if err != nil {
		return renderError("Price must be a number.")
	}
	ing.Price = price

	if file, err := c.FormFile("image"); err == nil {
		ing.ImageURL = h.Images.URLFor("ingredients", ing.Type, ing.Name)
		if err := h.Images.Save(file, ing.ImageURL); err != nil {
			l.Warn("add_ingredient_image_failed", "error", err)
			return renderError("Something went wrong while trying to add the ingredient. Try again.")
		}
	}

	if err := h.Svc.CreateIngredient(ctx, &ing); err != nil {
		l.Error("add_ingredient_failed", "error", err)
		return renderError("Something went wrong while trying to add the ingredient. Try again.")
	}

	publish(c, h.Producer, CatalogTopic, map[string]any{
		"type":          "ingredient_created",
		"ingredient_id": ing.ID,
		"name":          ing.Name,
	})

	return c.Redirect(http.StatusFound, "/ingredients")
}

func (h *IngredientHandler) EditPage(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return h.renderList(c, "Error fetching ingredient. Try again.")
	}

	ing, err := h.Svc.GetIngredient(c.Request().Context(), id)
	if err != nil {
		logging.FromContext(c.Request().Context()).Warn("edit_ingredient_page_failed", "error", err)
		return h.renderList(c, "Error fetching ingredient. Try again.")
	}

	return c.Render(http.StatusOK, "edit-ingredient.html", echo.Map{
		"Title":      "Edit Ingredient",
		"Ingredient": ing,
	})
}

func (h *IngredientHandler) Edit(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "ingredient.edit")

	id, err := parseID(c)
	if err != nil {
		return h.renderList(c, "Error fetching ingredient. Try again.")
	}

	existing, err := h.Svc.GetIngredient(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return h.renderList(c, "Ingredient not found.")
		}
		l.Error("edit_ingredient_failed", "error", err)
		return h.renderList(c, "Error fetching ingredient. Try again.")
	}

	ing := models.Ingredient{
		ID:       id,
		Name:     c.FormValue("name"),
		Type:     c.FormValue("type"),
		ImageURL: existing.ImageURL,
	}

	renderError := func(msg string) error {
		return c.Render(http.StatusOK, "edit-ingredient.html", echo.Map{
			"Title":        "Edit Ingredient",
			"ErrorMessage": msg,
			"Ingredient":   ing,
		})
	}

	price, err := strconv.ParseFloat(c.FormValue("price"), 64)
	if err != nil {
		return renderError("Price must be a number.")
	}
	ing.Price = price

	if file, err := c.FormFile("image"); err == nil {
		ing.ImageURL = h.Images.URLFor("ingredients", ing.Type, ing.Name)
		if err := h.Images.Save(file, ing.ImageURL); err != nil {
			l.Warn("edit_ingredient_image_failed", "error", err)
			return renderError("Something went wrong while trying to edit the ingredient. Try again.")
		}
	}

	if err := h.Svc.UpdateIngredient(ctx, &ing); err != nil {
		l.Error("edit_ingredient_failed", "error", err)
		return renderError("Something went wrong while trying to edit the ingredient. Try again.")
	}

	publish(c, h.Producer, CatalogTopic, map[string]any{
		"type":          "ingredient_updated",
		"ingredient_id": ing.ID,
		"name":          ing.Name,
	})

	return c.Redirect(http.StatusFound, "/ingredients")
}

func (h *IngredientHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "ingredient.delete")

	id, err := parseID(c)
	if err != nil {
		return h.renderList(c, "Something went wrong while trying to remove the ingredient. Try again.")
	}

	// Fails on the order_item_ingredients foreign key while referenced.
	if err := h.Svc.DeleteIngredient(ctx, id); err != nil {
		l.Warn("delete_ingredient_failed", "ingredient_id", id, "error", err)
		return h.renderList(c, "Something went wrong while trying to remove the ingredient. Try again.")
	}

	publish(c, h.Producer, CatalogTopic, map[string]any{
		"type":          "ingredient_deleted",
		"ingredient_id": id,
	})

	return c.Redirect(http.StatusFound, "/ingredients")
}
