package barcode

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	bc "github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"go.uber.org/zap"
)

const (
	artifactWidth  = 300
	artifactHeight = 120
)

// Code128Generator renders Code 128 symbols as PNG files under dir.
type Code128Generator struct {
	dir string
	log *zap.Logger
}

func NewCode128Generator(dir string, log *zap.Logger) *Code128Generator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Code128Generator{
		dir: dir,
		log: log.Named("barcode"),
	}
}

func (g *Code128Generator) Available() bool { return true }

func (g *Code128Generator) ArtifactPath(barcodeID string) string {
	return filepath.Join(g.dir, sanitizeID(barcodeID)+".png")
}

func (g *Code128Generator) Generate(barcodeID, name string) (string, error) {
	id := sanitizeID(barcodeID)
	if !ValidateFormat(id) {
		return "", ErrInvalidFormat
	}

	encoded, err := code128.Encode(id)
	if err != nil {
		return "", fmt.Errorf("barcode: encode %s: %w", id, err)
	}
	scaled, err := bc.Scale(encoded, artifactWidth, artifactHeight)
	if err != nil {
		return "", fmt.Errorf("barcode: scale %s: %w", id, err)
	}

	if err := os.MkdirAll(g.dir, 0o755); err != nil {
		return "", fmt.Errorf("barcode: create dir: %w", err)
	}

	path := g.ArtifactPath(id)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("barcode: create %s: %w", path, err)
	}
	encodeErr := png.Encode(f, scaled)
	if closeErr := f.Close(); encodeErr == nil {
		encodeErr = closeErr
	}
	if encodeErr != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("barcode: write %s: %w", path, encodeErr)
	}

	g.log.Debug("barcode generated",
		zap.String("barcode_id", id),
		zap.String("name", name),
		zap.String("path", path),
	)
	return path, nil
}

func (g *Code128Generator) Remove(barcodeID string) error {
	path := g.ArtifactPath(barcodeID)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("barcode: remove %s: %w", path, err)
	}
	return nil
}
