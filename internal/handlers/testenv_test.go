package handlers

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tafelzeven/backoffice/internal/config"
	"github.com/tafelzeven/backoffice/internal/imagestore"
	"github.com/tafelzeven/backoffice/internal/service/catalog"
	"github.com/tafelzeven/backoffice/internal/service/order"
	"github.com/tafelzeven/backoffice/internal/web"
)

type testEnv struct {
	T          *testing.T
	E          *echo.Echo
	DB         *gorm.DB
	Category   *CategoryHandler
	Ingredient *IngredientHandler
	Product    *ProductHandler
	Order      *OrderHandler
}

func newTestEnv(t *testing.T) *testEnv {
	db, err := gorm.Open(sqlite.Open("file::memory:?_pragma=foreign_keys(1)"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, config.Migrate(db))

	e := echo.New()
	renderer, err := web.NewRenderer("../../web/templates")
	require.NoError(t, err)
	e.Renderer = renderer

	svc := &catalog.CatalogService{DB: db}
	images := &imagestore.Store{PublicDir: t.TempDir()}

	return &testEnv{
		T:          t,
		E:          e,
		DB:         db,
		Category:   &CategoryHandler{Svc: svc, Images: images},
		Ingredient: &IngredientHandler{Svc: svc, Images: images},
		Product:    &ProductHandler{Svc: svc, Images: images},
		Order:      &OrderHandler{Svc: &order.OrderService{DB: db}},
	}
}

func (env *testEnv) doJSONRequest(method, path string, body interface{}) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

func (env *testEnv) doRawJSONRequest(method, path, body string) (*httptest.ResponseRecorder, echo.Context) {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

// doFormRequest builds a multipart form submission, optionally attaching a
// generated PNG under the "image" field.
func (env *testEnv) doFormRequest(path string, fields map[string]string, withImage bool) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(env.T, w.WriteField(k, v))
	}
	if withImage {
		hdr := make(textproto.MIMEHeader)
		hdr.Set("Content-Disposition", `form-data; name="image"; filename="upload.png"`)
		hdr.Set("Content-Type", "image/png")
		part, err := w.CreatePart(hdr)
		require.NoError(env.T, err)
		require.NoError(env.T, png.Encode(part, testImage(500, 300)))
	}
	require.NoError(env.T, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

func testImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	return img
}
