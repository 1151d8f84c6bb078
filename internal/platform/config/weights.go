package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nkotelnikov/fanpulse/internal/core/domain"
)

// Weights holds the per-source weight tables: love weights scale sentiment
// contribution, fame weights scale engagement contribution, and queue base
// weights scale resolve-queue impact. Sources absent from a table weigh 1.0.
type Weights struct {
	SourceWeights struct {
		Love map[string]float64 `yaml:"love"`
		Fame map[string]float64 `yaml:"fame"`
	} `yaml:"source_weights"`
	QueueBaseWeights map[string]float64 `yaml:"queue_base_weights"`
}

// DefaultWeights returns the compiled-in weight tables used when no YAML
// file is present.
func DefaultWeights() *Weights {
	w := &Weights{}
	w.SourceWeights.Love = map[string]float64{}
	w.SourceWeights.Fame = map[string]float64{}
	w.QueueBaseWeights = map[string]float64{
		"editorial": 2.0,
		"news":      1.3,
		"reddit":    1.2,
		"youtube":   1.1,
	}

	return w
}

// LoadWeights reads the weight tables from path, falling back to defaults
// when the file does not exist.
func LoadWeights(path string) (*Weights, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultWeights(), nil
		}

		return nil, fmt.Errorf("read weights file: %w", err)
	}

	w := DefaultWeights()
	if err := yaml.Unmarshal(data, w); err != nil {
		return nil, fmt.Errorf("parse weights file: %w", err)
	}

	return w, nil
}

func lookup(table map[string]float64, src domain.Source) float64 {
	if v, ok := table[strings.ToLower(string(src))]; ok {
		return v
	}

	return 1.0
}

// Love returns the love weight for a source.
func (w *Weights) Love(src domain.Source) float64 {
	return lookup(w.SourceWeights.Love, src)
}

// Fame returns the fame weight for a source.
func (w *Weights) Fame(src domain.Source) float64 {
	return lookup(w.SourceWeights.Fame, src)
}

// QueueBase returns the resolve-queue base weight for a source.
func (w *Weights) QueueBase(src domain.Source) float64 {
	return lookup(w.QueueBaseWeights, src)
}
