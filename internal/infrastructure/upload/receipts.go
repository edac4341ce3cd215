// Package upload stores uploaded receipt images on local disk.
// Images are decoded in memory, downscaled and re-encoded as JPEG, so the
// stored file never carries the client's original bytes or metadata.
package upload

import (
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/disintegration/imaging"

	"bizerp/internal/core/apperror"
	"bizerp/internal/core/id"
	"bizerp/pkg/logger"
)

const (
	receiptsDir = "receipts"

	// URLPrefix is where the upload directory is served.
	URLPrefix = "/uploads"

	// MaxBytes bounds the accepted upload size.
	MaxBytes = 10 << 20
)

// Config configures a Store.
type Config struct {
	Dir      string
	MaxWidth int
	Quality  int
}

// Store writes receipt images below Dir/receipts.
type Store struct {
	cfg Config
}

// NewStore creates the receipts directory if needed.
func NewStore(cfg Config) (*Store, error) {
	if cfg.MaxWidth <= 0 {
		cfg.MaxWidth = 1600
	}
	if cfg.Quality <= 0 || cfg.Quality > 100 {
		cfg.Quality = 80
	}
	if err := os.MkdirAll(filepath.Join(cfg.Dir, receiptsDir), 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{cfg: cfg}, nil
}

// Dir is the root directory served under URLPrefix.
func (s *Store) Dir() string {
	return s.cfg.Dir
}

// SaveReceipt decodes r as an image, fits it to the configured width and
// writes it as JPEG. It returns the public URL of the stored file.
func (s *Store) SaveReceipt(ctx context.Context, r io.Reader) (string, error) {
	img, err := imaging.Decode(io.LimitReader(r, MaxBytes), imaging.AutoOrientation(true))
	if err != nil {
		return "", apperror.NewValidation("file is not a supported image").WithCause(err)
	}

	img = s.fit(img)

	name := id.New().String() + ".jpg"
	dst := filepath.Join(s.cfg.Dir, receiptsDir, name)
	if err := imaging.Save(img, dst, imaging.JPEGQuality(s.cfg.Quality)); err != nil {
		return "", apperror.NewInternal(fmt.Errorf("save receipt: %w", err))
	}

	logger.Debug(ctx, "receipt stored", "file", name, "width", img.Bounds().Dx(), "height", img.Bounds().Dy())
	return path.Join(URLPrefix, receiptsDir, name), nil
}

// fit downscales wider images, keeping the aspect ratio.
func (s *Store) fit(img image.Image) image.Image {
	if img.Bounds().Dx() <= s.cfg.MaxWidth {
		return img
	}
	return imaging.Resize(img, s.cfg.MaxWidth, 0, imaging.Lanczos)
}

// Remove deletes a file previously returned by SaveReceipt. Unknown or
// foreign URLs are ignored.
func (s *Store) Remove(url string) error {
	dir, name := path.Split(url)
	if path.Clean(dir) != path.Join(URLPrefix, receiptsDir) || name == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.cfg.Dir, receiptsDir, name))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
