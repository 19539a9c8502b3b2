package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/invoicer/internal/application/billing"
	"github.com/jhoicas/invoicer/internal/application/dto"
)

// InvoiceHandler endpoints de facturas del formulario web.
type InvoiceHandler struct {
	web   *billing.WebUseCase
	query *billing.QueryUseCase
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(web *billing.WebUseCase, query *billing.QueryUseCase) *InvoiceHandler {
	return &InvoiceHandler{web: web, query: query}
}

// Generate valida, guarda y devuelve el PDF como adjunto.
// POST /api/generate-invoice
func (h *InvoiceHandler) Generate(c *fiber.Ctx) error {
	var in dto.GenerateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body", Code: "INVALID_BODY"})
	}
	out, err := h.web.Generate(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+out.Filename+`"`)
	c.Set("X-Invoice-Id", strconv.FormatInt(out.ID, 10))
	c.Set("X-Invoice-Number", out.Number)
	return c.Status(fiber.StatusOK).Send(out.PDF)
}

// List facturas almacenadas, más recientes primero.
// GET /api/invoices?limit=&client=
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	q := dto.ListQuery{
		Limit:  c.QueryInt("limit", 10),
		Client: c.Query("client"),
	}
	out, err := h.query.List(c.UserContext(), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID detalle de una factura con totales.
// GET /api/invoices/:id
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "id must be a positive integer", Code: "VALIDATION"})
	}
	out, err := h.query.Get(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// PreviewNumber siguiente número para la plantilla indicada (o la configurada).
// GET /api/invoice-number/preview?template=
func (h *InvoiceHandler) PreviewNumber(c *fiber.Ctx) error {
	out, err := h.web.PreviewNumber(c.UserContext(), c.Query("template"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
