package otp

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/pquerna/otp"
)

// QRSize is the edge length in pixels of enrollment images.
const QRSize = 256

type pngWriter struct {
	size int
}

// NewImageWriter returns an [ImageWriter] producing PNG QR codes.
func NewImageWriter() ImageWriter {
	return &pngWriter{size: QRSize}
}

func (w *pngWriter) WriteImage(uri, path string) (string, error) {
	key, err := otp.NewKeyFromURL(uri)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidURI, err)
	}
	if key.Type() != "totp" || key.Secret() == "" {
		return "", ErrInvalidURI
	}

	img, err := key.Image(w.size, w.size)
	if err != nil {
		return "", fmt.Errorf("failed to render qr code: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return "", fmt.Errorf("failed to create image directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return "", fmt.Errorf("failed to create image file: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return "", fmt.Errorf("failed to encode png: %w", err)
	}

	return path, nil
}
