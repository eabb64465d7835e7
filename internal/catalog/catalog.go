// Package catalog holds the fixed reference data used by the simulator: the
// strategy catalog, the candidate coin pool and the synthetic failure texts.
package catalog

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"TradeConsole/internal/model"
)

//go:embed catalog.yaml
var raw []byte

// Candidate is a coin the discovery step may add to the target list.
type Candidate struct {
	Symbol string `yaml:"symbol"`
	Name   string `yaml:"name"`
}

// Catalog is the parsed reference data.
type Catalog struct {
	Strategies []model.Strategy `yaml:"strategies"`
	Candidates []Candidate      `yaml:"candidates"`
	Failures   []string         `yaml:"failures"`
}

// Parse decodes a catalog document and checks it is usable.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(c.Strategies) == 0 {
		return nil, fmt.Errorf("catalog: no strategies")
	}
	if len(c.Candidates) == 0 {
		return nil, fmt.Errorf("catalog: no candidate coins")
	}
	seen := make(map[string]bool, len(c.Candidates))
	for _, cand := range c.Candidates {
		if seen[cand.Symbol] {
			return nil, fmt.Errorf("catalog: duplicate candidate %s", cand.Symbol)
		}
		seen[cand.Symbol] = true
	}
	return &c, nil
}

// Default returns the embedded catalog. It panics only if the embedded
// document is broken, which the package tests rule out.
func Default() *Catalog {
	c, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return c
}
