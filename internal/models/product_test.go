package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"katalog/internal/models"
)

func strPtr(s string) *string   { return &s }
func numPtr(f float64) *float64 { return &f }

func TestProductApplyPatch(t *testing.T) {
	base := models.Product{ID: 7, Name: "Widget", Price: 19.99, Category: "Tools"}

	tests := []struct {
		name  string
		patch models.ProductPatch
		want  models.Product
	}{
		{
			name:  "empty patch leaves everything untouched",
			patch: models.ProductPatch{},
			want:  base,
		},
		{
			name:  "price only",
			patch: models.ProductPatch{Price: numPtr(24.99)},
			want:  models.Product{ID: 7, Name: "Widget", Price: 24.99, Category: "Tools"},
		},
		{
			name:  "name and category",
			patch: models.ProductPatch{Name: strPtr("Gadget"), Category: strPtr("Hardware")},
			want:  models.Product{ID: 7, Name: "Gadget", Price: 19.99, Category: "Hardware"},
		},
		{
			name:  "explicit zero price is applied",
			patch: models.ProductPatch{Price: numPtr(0)},
			want:  models.Product{ID: 7, Name: "Widget", Price: 0, Category: "Tools"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := base.ApplyPatch(tt.patch)
			assert.Equal(t, tt.want, got)
		})
	}

	// The receiver must never be mutated.
	assert.Equal(t, models.Product{ID: 7, Name: "Widget", Price: 19.99, Category: "Tools"}, base)
}

func TestProductView(t *testing.T) {
	p := models.Product{ID: 3, Name: "Product 1", Price: 19.99, Category: "Electronics"}
	view := p.View()

	assert.Equal(t, models.ProductView{Name: "Product 1", Price: 19.99, Category: "Electronics"}, view)
}
