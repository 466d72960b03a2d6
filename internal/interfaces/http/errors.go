package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gestion-ventas/internal/application/dto"
	"github.com/jhoicas/gestion-ventas/internal/domain"
)

// writeError traduce los errores de dominio a respuestas HTTP.
func writeError(c *fiber.Ctx, err error) error {
	var (
		verrs      domain.ValidationErrors
		verr       *domain.ValidationError
		violations *domain.StockViolationsError
		stockErr   *domain.InsufficientStockError
		subErr     *domain.SubmissionError
	)

	switch {
	case errors.As(err, &verrs):
		details := make([]dto.ErrorDetail, 0, len(verrs))
		for _, v := range verrs {
			details = append(details, dto.ErrorDetail{Field: v.Field, Message: v.Message})
		}
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: verrs.Error(), Details: details})

	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "VALIDATION", Message: verr.Message,
			Details: []dto.ErrorDetail{{Field: verr.Field, Message: verr.Message}},
		})

	case errors.As(err, &violations):
		details := make([]dto.ErrorDetail, 0, len(violations.Violations))
		for _, v := range violations.Violations {
			details = append(details, stockDetail(v))
		}
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: violations.Error(), Details: details})

	case errors.As(err, &stockErr):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code: "INSUFFICIENT_STOCK", Message: stockErr.Error(),
			Details: []dto.ErrorDetail{stockDetail(stockErr)},
		})

	case errors.As(err, &subErr):
		status := fiber.StatusBadGateway
		if subErr.StatusCode >= 400 && subErr.StatusCode < 500 {
			status = subErr.StatusCode
		}
		details := make([]dto.ErrorDetail, 0, len(subErr.Messages))
		for _, m := range subErr.Messages {
			details = append(details, dto.ErrorDetail{Message: m})
		}
		return c.Status(status).JSON(dto.ErrorResponse{Code: "SUBMISSION", Message: subErr.Error(), Details: details})

	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "borrador no encontrado"})

	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

func stockDetail(e *domain.InsufficientStockError) dto.ErrorDetail {
	available, requested := e.Available, e.Requested
	return dto.ErrorDetail{
		Field:     "quantity",
		Message:   e.Error(),
		ProductID: e.ProductID,
		Available: &available,
		Requested: &requested,
	}
}

func badBody(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido: " + err.Error()})
}
