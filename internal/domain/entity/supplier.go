package entity

// Supplier proveedor de inventario.
type Supplier struct {
	Meta
	Name          string   `json:"name" validate:"required"`
	ContactPerson string   `json:"contactPerson,omitempty"`
	Email         string   `json:"email,omitempty" validate:"omitempty,email"`
	Phone         string   `json:"phone,omitempty"`
	Address       string   `json:"address,omitempty"`
	Products      []string `json:"products,omitempty"`
}

// Resource implementa Record.
func (Supplier) Resource() Resource { return ResourceSuppliers }
