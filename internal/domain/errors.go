package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrSubmission        = errors.New("el servidor rechazó el envío")
)

// InsufficientStockError indica que la cantidad solicitada supera el stock disponible.
// Requested es el total solicitado (lo ya agregado más lo nuevo).
type InsufficientStockError struct {
	ProductID   int64
	ProductName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	if e.Available <= 0 {
		return fmt.Sprintf("El producto %q no tiene stock disponible", e.ProductName)
	}
	return fmt.Sprintf("Stock insuficiente para %q. Disponible: %d, Solicitado: %d", e.ProductName, e.Available, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// StockViolationsError agrupa todas las líneas que exceden el stock al momento de enviar.
type StockViolationsError struct {
	Violations []*InsufficientStockError
}

func (e *StockViolationsError) Error() string {
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		msgs = append(msgs, v.Error())
	}
	return strings.Join(msgs, "; ")
}

func (e *StockViolationsError) Unwrap() []error {
	errs := make([]error, 0, len(e.Violations))
	for _, v := range e.Violations {
		errs = append(errs, v)
	}
	return errs
}

// ValidationError es una regla incumplida del borrador (cliente, fechas, ítems, números).
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// NewValidationError construye un ValidationError.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// ValidationErrors es la lista de reglas incumplidas; un mensaje por regla.
type ValidationErrors []*ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, v := range e {
		msgs = append(msgs, v.Error())
	}
	return strings.Join(msgs, "; ")
}

func (e ValidationErrors) Unwrap() []error {
	errs := make([]error, 0, len(e))
	for _, v := range e {
		errs = append(errs, v)
	}
	return errs
}

// OrNil devuelve nil si no hay errores (evita el nil tipado en interfaces error).
func (e ValidationErrors) OrNil() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// SubmissionError envuelve un rechazo del servicio externo de pedidos
// (red, autenticación o validación del servidor). No se reintenta.
type SubmissionError struct {
	StatusCode int      // 0 si no hubo respuesta HTTP
	Messages   []string // mensajes legibles derivados del campo detail
	Err        error
}

func (e *SubmissionError) Error() string {
	if len(e.Messages) > 0 {
		return strings.Join(e.Messages, "\n")
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return ErrSubmission.Error()
}

func (e *SubmissionError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrSubmission, e.Err}
	}
	return []error{ErrSubmission}
}
