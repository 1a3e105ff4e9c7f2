package quotes

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// BarsFile is the on-disk layout of a bar dataset:
//
//	{"symbol": "MSFT", "bars": [{"date": "2019-04-25", "open": 130.06, ...}]}
type BarsFile struct {
	Symbol string     `json:"symbol"`
	Bars   []PriceBar `json:"bars"`
}

// yamlBar keeps prices as text so decimals never pass through float64.
type yamlBar struct {
	Date  string `yaml:"date"`
	Open  string `yaml:"open"`
	High  string `yaml:"high"`
	Low   string `yaml:"low"`
	Close string `yaml:"close"`
}

type yamlBarsFile struct {
	Symbol string    `yaml:"symbol"`
	Bars   []yamlBar `yaml:"bars"`
}

// LoadBars reads a dataset from a .json, .yaml or .yml file.
func LoadBars(path string) (*BarsFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read bars file: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		var file BarsFile
		if err := json.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse bars JSON %s: %w", path, err)
		}
		return &file, nil
	case ".yaml", ".yml":
		return decodeYAML(path, data)
	default:
		return nil, fmt.Errorf("unsupported bars file extension %q (want .json, .yaml or .yml)", ext)
	}
}

func decodeYAML(path string, data []byte) (*BarsFile, error) {
	var raw yamlBarsFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse bars YAML %s: %w", path, err)
	}

	file := &BarsFile{Symbol: raw.Symbol, Bars: make([]PriceBar, 0, len(raw.Bars))}
	for i, rb := range raw.Bars {
		bar := PriceBar{Date: rb.Date}
		fields := []struct {
			name string
			text string
			dst  *decimal.Decimal
		}{
			{"open", rb.Open, &bar.Open},
			{"high", rb.High, &bar.High},
			{"low", rb.Low, &bar.Low},
			{"close", rb.Close, &bar.Close},
		}
		for _, f := range fields {
			d, err := decimal.NewFromString(f.text)
			if err != nil {
				return nil, fmt.Errorf("bar %d (%s): invalid %s %q: %w", i, rb.Date, f.name, f.text, err)
			}
			*f.dst = d
		}
		file.Bars = append(file.Bars, bar)
	}
	return file, nil
}
