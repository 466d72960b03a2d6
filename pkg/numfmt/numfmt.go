// Package numfmt convierte números en formato español (punto como separador de miles,
// coma como decimal) hacia y desde valores decimales canónicos.
// El formato local solo existe en los bordes: entrada del usuario y presentación.
package numfmt

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// ErrInvalidNumber el texto no representa un número.
var ErrInvalidNumber = errors.New("número inválido")

// Ejemplos válidos: "1234", "1.234", "1.234,56", "1234,56".
var spanishNumberRe = regexp.MustCompile(`^(\d{1,3}(\.\d{3})*|\d+)(,\d{0,2})?$`)

var printer = message.NewPrinter(language.Spanish)

// Parse convierte "8.083,50" en 8083.50. Quita todos los puntos y cambia la coma por punto.
// Texto vacío equivale a 0.
func Parse(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	normalized := strings.ReplaceAll(strings.ReplaceAll(s, ".", ""), ",", ".")
	d, err := decimal.NewFromString(normalized)
	if err != nil || strings.ContainsAny(normalized, "eE+-") {
		return decimal.Zero, ErrInvalidNumber
	}
	if neg {
		d = d.Neg()
	}
	return d, nil
}

// ParseOrZero igual que Parse pero devuelve 0 ante texto inválido.
func ParseOrZero(s string) decimal.Decimal {
	d, err := Parse(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// IsValid indica si s es un número válido en formato español (vacío es válido).
func IsValid(s string) bool {
	if s == "" {
		return true
	}
	return spanishNumberRe.MatchString(s)
}

// Format presenta d con el número fijo de decimales en locale es (ej. "1.234.567,89").
// Parte de la representación exacta del decimal; ningún importe pasa por float64.
func Format(d decimal.Decimal, decimals int) string {
	if decimals < 0 {
		decimals = 0
	}
	s := d.StringFixed(int32(decimals))
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	intPart, frac, _ := strings.Cut(s, ".")

	out := groupThousands(intPart)
	if frac != "" {
		out += "," + frac
	}
	if neg {
		out = "-" + out
	}
	return out
}

// groupThousands agrupa los dígitos de la parte entera con el separador del locale.
// Más allá de int64 se agrupa a mano con el mismo separador.
func groupThousands(digits string) string {
	if n, err := strconv.ParseInt(digits, 10, 64); err == nil {
		return printer.Sprint(number.Decimal(n))
	}
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FormatForInput presenta d para edición: sin separador de miles y con coma decimal.
func FormatForInput(d decimal.Decimal) string {
	return strings.Replace(d.String(), ".", ",", 1)
}

// SanitizeInput deja solo dígitos, puntos y una coma decimal mientras el usuario escribe.
func SanitizeInput(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	parts := strings.Split(cleaned, ",")
	if len(parts) > 2 {
		cleaned = parts[0] + "," + strings.Join(parts[1:], "")
	}
	return cleaned
}
