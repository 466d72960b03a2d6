package entity

// Client representa un cliente del negocio (solo lectura para el núcleo).
type Client struct {
	ID       int64
	Name     string
	Email    string
	Phone    string
	Document string // cédula o RNC
}
