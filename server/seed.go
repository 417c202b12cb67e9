package server

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/afero"

	"github.com/retailcat/catalogadmin/pkg/catalog"
)

// Seed is the on-disk fixture format for the dev backend.
type Seed struct {
	Products []catalog.Product `json:"products"`
	Brands   []catalog.Brand   `json:"brands"`
}

func LoadSeed(fs afero.Fs, path string) (*Seed, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	var seed Seed
	if err := json.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}
	return &seed, nil
}

// Reseed replaces both collections with the fixture contents.
func (s *Server) Reseed(seed *Seed) {
	s.Products.Replace(seed.Products...)
	s.Brands.Replace(seed.Brands...)
	s.Metrics.SetItems(catalog.Products.Name, s.Products.Len())
	s.Metrics.SetItems(catalog.Brands.Name, s.Brands.Len())
	s.log.Info("Backend reseeded", "products", s.Products.Len(), "brands", s.Brands.Len())
}
