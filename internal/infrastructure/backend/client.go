// Package backend adaptador REST del backend de gestión: catálogo (productos y clientes)
// y servicio de pedidos (cotizaciones, ventas y alquileres).
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestion-ventas/internal/domain"
	"github.com/jhoicas/gestion-ventas/pkg/jwt"
	"github.com/jhoicas/gestion-ventas/pkg/logger"
)

const maxBodySize = 4 << 20

// Client cliente HTTP del backend. El token del llamador (en el contexto) tiene
// prioridad sobre el token de servicio configurado.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	log        *logger.Logger
}

// New construye el cliente. baseURL incluye el prefijo /api.
func New(baseURL, serviceToken string, timeout time.Duration, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Nop()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      serviceToken,
		httpClient: &http.Client{Timeout: timeout},
		log:        log.Component("backend"),
	}
}

// do ejecuta la petición y decodifica la respuesta 2xx en out (si no es nil).
// Cualquier otro resultado se devuelve como *domain.SubmissionError.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("backend: serializar request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("backend: crear request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := c.tokenFor(ctx); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			err = ctx.Err()
		}
		return &domain.SubmissionError{Messages: []string{"No se pudo contactar al servidor"}, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return &domain.SubmissionError{StatusCode: resp.StatusCode, Err: fmt.Errorf("leer respuesta: %w", err)}
	}
	c.log.Debug().Str("method", method).Str("path", path).Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).Msg("backend")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp.StatusCode, raw)
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("backend: deserializar %s: %w", path, err)
	}
	return nil
}

func (c *Client) tokenFor(ctx context.Context) string {
	if tok := jwt.TokenFromContext(ctx); tok != "" {
		return tok
	}
	return c.token
}

func statusError(status int, raw []byte) *domain.SubmissionError {
	e := &domain.SubmissionError{StatusCode: status, Messages: detailMessages(raw)}
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		e.Err = domain.ErrUnauthorized
	case status == http.StatusNotFound:
		e.Err = domain.ErrNotFound
	default:
		e.Err = fmt.Errorf("HTTP %d", status)
	}
	if len(e.Messages) == 0 {
		e.Messages = []string{fmt.Sprintf("Error del servidor (HTTP %d)", status)}
	}
	return e
}

// detailMessages interpreta el campo detail: texto, o lista de {loc, msg}
// que se presenta como "<último loc>: <msg>".
func detailMessages(raw []byte) []string {
	var body struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(raw, &body); err != nil || len(body.Detail) == 0 {
		return nil
	}

	var text string
	if err := json.Unmarshal(body.Detail, &text); err == nil {
		return []string{text}
	}

	var items []struct {
		Loc []any  `json:"loc"`
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(body.Detail, &items); err == nil {
		out := make([]string, 0, len(items))
		for _, it := range items {
			if len(it.Loc) == 0 {
				out = append(out, it.Msg)
				continue
			}
			out = append(out, fmt.Sprintf("%v: %s", it.Loc[len(it.Loc)-1], it.Msg))
		}
		return out
	}
	return []string{string(body.Detail)}
}

// number serializa un decimal como número JSON (sin comillas).
type number decimal.Decimal

func (n number) MarshalJSON() ([]byte, error) {
	return []byte(decimal.Decimal(n).String()), nil
}
