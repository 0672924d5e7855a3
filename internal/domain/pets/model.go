package pets

import (
	"github.com/shopspring/decimal"

	"pet-adoption-store/internal/domain/tags"
)

// Status define el estado de inventario de la mascota.
// La transición AVAILABLE -> SOLD ocurre únicamente dentro de la
// transacción de adopción; nunca se revierte por ese camino.
// @Enum AVAILABLE, SOLD
type Status string

const (
	StatusAvailable Status = "AVAILABLE"
	StatusSold      Status = "SOLD"
)

func (s Status) Valid() bool { return s == StatusAvailable || s == StatusSold }

// DefaultImageURL se usa cuando el alta no trae imagen.
const DefaultImageURL = "https://via.placeholder.com/150"

// Pet representa una mascota del inventario.
type Pet struct {
	ID       int64
	Name     string
	Species  string
	Price    decimal.Decimal
	Age      int
	ImageURL string
	Status   Status
	Tags     []tags.Tag
}
