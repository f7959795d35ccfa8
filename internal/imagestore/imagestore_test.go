package imagestore

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chai2010/webp"
	"github.com/stretchr/testify/require"
)

func multipartFile(t *testing.T, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", `form-data; name="image"; filename="upload.bin"`)
	hdr.Set("Content-Type", contentType)
	part, err := w.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))

	return req.MultipartForm.File["image"][0]
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestSaveResizesAndTranscodes(t *testing.T) {
	store := &Store{PublicDir: t.TempDir()}
	file := multipartFile(t, "image/png", pngBytes(t, 500, 300))

	url := store.URLFor("products", "Pizzas", "Margherita")
	require.NoError(t, store.Save(file, url))

	f, err := os.Open(filepath.Join(store.PublicDir, filepath.FromSlash(url)))
	require.NoError(t, err)
	defer f.Close()

	img, err := webp.Decode(f)
	require.NoError(t, err)
	require.Equal(t, 250, img.Bounds().Dx())
	require.Equal(t, 150, img.Bounds().Dy())
}

func TestSaveRejectsNonImageContentType(t *testing.T) {
	store := &Store{PublicDir: t.TempDir()}
	file := multipartFile(t, "text/plain", []byte("not an image"))

	err := store.Save(file, store.URLFor("products", "Pizzas", "Margherita"))
	require.ErrorIs(t, err, ErrNotImage)
}

func TestSaveRejectsCorruptImage(t *testing.T) {
	store := &Store{PublicDir: t.TempDir()}
	file := multipartFile(t, "image/png", []byte("garbage bytes"))

	err := store.Save(file, store.URLFor("products", "Pizzas", "Margherita"))
	require.ErrorIs(t, err, ErrNotImage)

	entries, err := os.ReadDir(store.PublicDir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestURLForSlugs(t *testing.T) {
	store := &Store{}

	url := store.URLFor("ingredients", "Hot & Spicy", "Jalapeño Sauce!")
	require.Equal(t, "images/ingredients/hot-and-spicy/jalapeno-sauce.webp", url)
	require.False(t, strings.ContainsAny(url, " !&ñ"))
}
