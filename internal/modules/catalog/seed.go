package catalog

import (
	"context"
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/indiestorelabs/indiestore-backend/internal/docstore"
)

//go:embed seed.yaml
var seedYAML []byte

type seedFile struct {
	Products []CreateProductRequest `yaml:"products"`
}

// Seed inserts the embedded sample catalog if, and only if, the product
// collection is empty. Returns the number of products inserted, zero
// when the catalog already had entries.
func (s *service) Seed(ctx context.Context) (int, error) {
	existing, err := s.repo.List(ctx, docstore.Filter{}, 1)
	if err != nil {
		return 0, fmt.Errorf("check catalog: %w", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}

	var seed seedFile
	if err := yaml.Unmarshal(seedYAML, &seed); err != nil {
		return 0, fmt.Errorf("parse seed catalog: %w", err)
	}

	inserted := 0
	for _, req := range seed.Products {
		if _, err := s.CreateProduct(ctx, req); err != nil {
			return inserted, fmt.Errorf("seed %q: %w", req.Name, err)
		}
		inserted++
	}
	return inserted, nil
}
