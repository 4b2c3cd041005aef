package barcode

import (
	"errors"
	"strings"
	"unicode"

	"github.com/smallbiznis/kantin/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ErrUnavailable is returned by the no-op backend for every generate call.
var ErrUnavailable = errors.New("barcode_unavailable")

// ErrInvalidFormat marks a barcode identifier the encoder will not accept.
var ErrInvalidFormat = errors.New("invalid_barcode_format")

// Generator produces scannable barcode image artifacts keyed by barcode ID.
// Callers must work identically whether or not a real backend is present.
type Generator interface {
	Available() bool
	// Generate writes the artifact and returns its path.
	Generate(barcodeID, name string) (string, error)
	// Remove deletes the artifact for barcodeID if it exists.
	Remove(barcodeID string) error
	// ArtifactPath returns the path the artifact for barcodeID would live at,
	// whether or not it exists.
	ArtifactPath(barcodeID string) string
}

// ValidateFormat checks the canonical barcode ID shape: at least three
// characters, no whitespace.
func ValidateFormat(barcodeID string) bool {
	if len(barcodeID) < 3 {
		return false
	}
	for _, r := range barcodeID {
		if unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// Item pairs a barcode ID with the product name printed under the symbol.
type Item struct {
	BarcodeID string
	Name      string
}

// BatchItemResult reports one item's outcome in a batch generation run.
type BatchItemResult struct {
	BarcodeID string `json:"barcode_id"`
	Path      string `json:"path,omitempty"`
	Error     string `json:"error,omitempty"`
}

// BatchResult summarizes a batch generation run.
type BatchResult struct {
	Generated int               `json:"generated"`
	Failed    int               `json:"failed"`
	Items     []BatchItemResult `json:"items"`
}

// GenerateBatch generates artifacts for every item, collecting per-item
// outcomes instead of stopping on the first failure.
func GenerateBatch(gen Generator, items []Item) BatchResult {
	result := BatchResult{Items: make([]BatchItemResult, 0, len(items))}
	for _, item := range items {
		path, err := gen.Generate(item.BarcodeID, item.Name)
		if err != nil {
			result.Failed++
			result.Items = append(result.Items, BatchItemResult{BarcodeID: item.BarcodeID, Error: err.Error()})
			continue
		}
		result.Generated++
		result.Items = append(result.Items, BatchItemResult{BarcodeID: item.BarcodeID, Path: path})
	}
	return result
}

// NewGenerator selects the backend at startup: a Code 128 encoder when
// enabled, otherwise the no-op backend.
func NewGenerator(cfg config.Config, log *zap.Logger) Generator {
	if !cfg.BarcodeEnabled {
		log.Named("barcode").Info("barcode generation disabled, using no-op backend")
		return NoOpGenerator{}
	}
	return NewCode128Generator(cfg.BarcodeDir, log)
}

var Module = fx.Module("barcode",
	fx.Provide(NewGenerator),
)

// NoOpGenerator satisfies Generator without producing artifacts.
type NoOpGenerator struct{}

func (NoOpGenerator) Available() bool { return false }

func (NoOpGenerator) Generate(barcodeID, name string) (string, error) {
	_ = barcodeID
	_ = name
	return "", ErrUnavailable
}

func (NoOpGenerator) Remove(barcodeID string) error {
	_ = barcodeID
	return nil
}

func (NoOpGenerator) ArtifactPath(barcodeID string) string {
	_ = barcodeID
	return ""
}

func sanitizeID(barcodeID string) string {
	return strings.TrimSpace(barcodeID)
}
