package tags

// Tag es una etiqueta de inventario asignable a mascotas (p.ej. "vacunado").
type Tag struct {
	ID   int64
	Name string
}
