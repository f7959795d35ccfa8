package imagestore

import (
	"errors"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/gosimple/slug"
)

// Uploaded catalog images are resized to a fixed width and re-encoded as
// lossy webp, mirroring what the storefront expects to serve.
const (
	targetWidth = 250
	webpQuality = 80
)

var ErrNotImage = errors.New("only images are allowed")

// Store writes processed uploads under PublicDir. The path of an image is
// derived from entity names, so re-uploading for the same names overwrites.
type Store struct {
	PublicDir string
}

// URLFor derives the relative URL an image is stored under, e.g.
// images/products/pizzas/margherita.webp.
func (s *Store) URLFor(entityType, parent, name string) string {
	return fmt.Sprintf("images/%s/%s/%s.webp", entityType, slug.Make(parent), slug.Make(name))
}

// Save validates, resizes and transcodes the upload, then writes it to the
// on-disk path matching imageURL. The database row referencing imageURL is
// written by the caller; a failure here keeps the old file and row intact.
func (s *Store) Save(file *multipart.FileHeader, imageURL string) error {
	if !strings.HasPrefix(file.Header.Get("Content-Type"), "image/") {
		return ErrNotImage
	}

	src, err := file.Open()
	if err != nil {
		return fmt.Errorf("imagestore: open upload: %w", err)
	}
	defer src.Close()

	img, err := imaging.Decode(src, imaging.AutoOrientation(true))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotImage, err)
	}

	resized := imaging.Resize(img, targetWidth, 0, imaging.Lanczos)

	outputPath := filepath.Join(s.PublicDir, filepath.FromSlash(imageURL))
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("imagestore: mkdir: %w", err)
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("imagestore: create file: %w", err)
	}
	defer out.Close()

	if err := webp.Encode(out, resized, &webp.Options{Quality: webpQuality}); err != nil {
		return fmt.Errorf("imagestore: webp encode: %w", err)
	}
	return nil
}
