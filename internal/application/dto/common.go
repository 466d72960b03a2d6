package dto

import (
	"bytes"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestion-ventas/pkg/numfmt"
)

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string        `json:"code"`
	Message string        `json:"message"`
	Details []ErrorDetail `json:"details,omitempty"`
}

// ErrorDetail una regla incumplida o una línea sin stock.
type ErrorDetail struct {
	Field     string `json:"field,omitempty"`
	Message   string `json:"message"`
	ProductID int64  `json:"product_id,omitempty"`
	Available *int   `json:"available,omitempty"`
	Requested *int   `json:"requested,omitempty"`
}

// Amount número de entrada: acepta un número JSON (18.5) o texto en formato
// español ("1.234,56"). Se serializa como decimal canónico.
type Amount struct {
	decimal.Decimal
}

// NewAmount atajo para tests y respuestas.
func NewAmount(d decimal.Decimal) *Amount { return &Amount{Decimal: d} }

func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		a.Decimal = decimal.Zero
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		s := string(bytes.Trim(b, `"`))
		if !numfmt.IsValid(s) {
			return fmt.Errorf("número inválido: %q", s)
		}
		d, err := numfmt.Parse(s)
		if err != nil {
			return fmt.Errorf("número inválido: %q", s)
		}
		a.Decimal = d
		return nil
	}
	d, err := decimal.NewFromString(string(b))
	if err != nil {
		return fmt.Errorf("número inválido: %s", b)
	}
	a.Decimal = d
	return nil
}
