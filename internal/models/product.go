package models

import "time"

// Product represents a catalog record. IDs are assigned by the database
// and never change after creation.
type Product struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"type:varchar(255)"`
	Price     float64   `json:"price"`
	Category  string    `json:"category" gorm:"type:varchar(255)"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProductView is the read projection of a product: name, price and
// category only, no ID.
type ProductView struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
}

// View projects a product to its read shape.
func (p Product) View() ProductView {
	return ProductView{
		Name:     p.Name,
		Price:    p.Price,
		Category: p.Category,
	}
}

// ProductPatch is a partial update: nil fields are left untouched.
type ProductPatch struct {
	Name     *string  `json:"name"`
	Price    *float64 `json:"price"`
	Category *string  `json:"category"`
}

// ApplyPatch merges a patch onto a product and returns the result. It is a
// pure function so the merge semantics can be tested without a store.
func (p Product) ApplyPatch(patch ProductPatch) Product {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	return p
}
