package handlers

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tafelzeven/backoffice/internal/models"
)

func TestGetCategoriesAPI(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.DB.Create(&models.Category{Name: "Pizzas", Description: "Wood oven"}).Error)

	rec, c := env.doJSONRequest(http.MethodGet, "/api/categories", nil)
	require.NoError(t, env.Category.GetCategories(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var cats []models.Category
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cats))
	require.Len(t, cats, 1)
	require.Equal(t, "Pizzas", cats[0].Name)
	require.EqualValues(t, 0, cats[0].NumberOfProducts)
}

func TestAddCategoryForm(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doFormRequest("/add-category", map[string]string{
		"name":        "Pizzas",
		"description": "Wood oven",
	}, false)
	require.NoError(t, env.Category.Add(c))
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/categories", rec.Header().Get("Location"))

	var cat models.Category
	require.NoError(t, env.DB.First(&cat).Error)
	require.Equal(t, "Pizzas", cat.Name)
	require.Empty(t, cat.ImageURL)
}

func TestAddCategoryFormWithImage(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doFormRequest("/add-category", map[string]string{
		"name":        "Spicy Pizzas!",
		"description": "",
	}, true)
	require.NoError(t, env.Category.Add(c))
	require.Equal(t, http.StatusFound, rec.Code)

	var cat models.Category
	require.NoError(t, env.DB.First(&cat).Error)
	require.Equal(t, "images/categories/spicy-pizzas/spicy-pizzas.webp", cat.ImageURL)

	onDisk := filepath.Join(env.Category.Images.PublicDir, filepath.FromSlash(cat.ImageURL))
	info, err := os.Stat(onDisk)
	require.NoError(t, err)
	require.NotZero(t, info.Size())
}

func TestDeleteCategoryInUseRendersError(t *testing.T) {
	env := newTestEnv(t)

	cat := models.Category{Name: "Pizzas"}
	require.NoError(t, env.DB.Create(&cat).Error)
	require.NoError(t, env.DB.Create(&models.Product{
		CategoryID: cat.ID,
		Name:       "Margherita",
		Variants:   []models.ProductVariant{{Size: "Default", Price: 10}},
	}).Error)

	rec, c := env.doFormRequest("/delete-category/1", nil, false)
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, env.Category.Delete(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Something went wrong trying to delete the category")

	var n int64
	env.DB.Model(&models.Category{}).Count(&n)
	require.EqualValues(t, 1, n)
}

func TestAddProductForm(t *testing.T) {
	env := newTestEnv(t)

	cat := models.Category{Name: "Pizzas"}
	require.NoError(t, env.DB.Create(&cat).Error)

	rec, c := env.doFormRequest("/add-product", map[string]string{
		"category_id": "1",
		"name":        "Margherita",
		"description": "Tomato, mozzarella, basil",
		"size":        "",
		"price":       "9.50",
	}, true)
	require.NoError(t, env.Product.Add(c))
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/products", rec.Header().Get("Location"))

	var prod models.Product
	require.NoError(t, env.DB.Preload("Variants").First(&prod).Error)
	require.Equal(t, "Margherita", prod.Name)
	require.Equal(t, "images/products/pizzas/margherita.webp", prod.ImageURL)
	require.Len(t, prod.Variants, 1)
	require.Equal(t, "Default", prod.Variants[0].Size)
	require.Equal(t, 9.5, prod.Variants[0].Price)
}

func TestAddProductFormBadPrice(t *testing.T) {
	env := newTestEnv(t)

	cat := models.Category{Name: "Pizzas"}
	require.NoError(t, env.DB.Create(&cat).Error)

	rec, c := env.doFormRequest("/add-product", map[string]string{
		"category_id": "1",
		"name":        "Margherita",
		"price":       "cheap",
	}, false)
	require.NoError(t, env.Product.Add(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Price must be a number")

	var n int64
	env.DB.Model(&models.Product{}).Count(&n)
	require.EqualValues(t, 0, n)
}

func TestEditProductFormReplacesVariants(t *testing.T) {
	env := newTestEnv(t)

	cat := models.Category{Name: "Pizzas"}
	require.NoError(t, env.DB.Create(&cat).Error)
	prod := models.Product{
		CategoryID: cat.ID,
		Name:       "Margherita",
		ImageURL:   "images/products/pizzas/margherita.webp",
		Variants:   []models.ProductVariant{{Size: "Small", Price: 9.5}},
	}
	require.NoError(t, env.DB.Create(&prod).Error)

	rec, c := env.doFormRequest("/edit-product/1", map[string]string{
		"category_id": "1",
		"name":        "Margherita",
		"description": "Updated",
		"size1":       "Small",
		"price1":      "10.00",
		"size2":       "Large",
		"price2":      "14.00",
	}, false)
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, env.Product.Edit(c))
	require.Equal(t, http.StatusFound, rec.Code)

	var got models.Product
	require.NoError(t, env.DB.Preload("Variants").First(&got, prod.ID).Error)
	require.Equal(t, "Updated", got.Description)
	// No new upload, so the previous image sticks.
	require.Equal(t, "images/products/pizzas/margherita.webp", got.ImageURL)
	require.Len(t, got.Variants, 2)
}

func TestGetProductsAPI(t *testing.T) {
	env := newTestEnv(t)

	cat := models.Category{Name: "Pizzas"}
	require.NoError(t, env.DB.Create(&cat).Error)
	require.NoError(t, env.DB.Create(&models.Product{
		CategoryID: cat.ID,
		Name:       "Margherita",
		Variants:   []models.ProductVariant{{Size: "Small", Price: 9.5}},
	}).Error)

	rec, c := env.doJSONRequest(http.MethodGet, "/api/products", nil)
	require.NoError(t, env.Product.GetProducts(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var products []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &products))
	require.Len(t, products, 1)
	require.Equal(t, "Pizzas", products[0]["category"])

	variants, ok := products[0]["variants"].([]any)
	require.True(t, ok)
	require.Len(t, variants, 1)
}

func TestGetIngredientsAPI(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.DB.Create(&models.Ingredient{Name: "Olives", Type: "Topping", Price: 1.5}).Error)

	rec, c := env.doJSONRequest(http.MethodGet, "/api/ingredients", nil)
	require.NoError(t, env.Ingredient.GetIngredients(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var ingredients []models.Ingredient
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ingredients))
	require.Len(t, ingredients, 1)
	require.Equal(t, "Olives", ingredients[0].Name)
}

func TestAddIngredientForm(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doFormRequest("/add-ingredient", map[string]string{
		"name":  "Hot Sauce",
		"type":  "Sauce",
		"price": "0.75",
	}, true)
	require.NoError(t, env.Ingredient.Add(c))
	require.Equal(t, http.StatusFound, rec.Code)

	var ing models.Ingredient
	require.NoError(t, env.DB.First(&ing).Error)
	require.Equal(t, "images/ingredients/sauce/hot-sauce.webp", ing.ImageURL)
	require.Equal(t, 0.75, ing.Price)
}
