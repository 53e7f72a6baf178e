package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campus-helpdesk/helpdesk-service/internal/api/dto"
	"github.com/campus-helpdesk/helpdesk-service/internal/auth"
	"github.com/campus-helpdesk/helpdesk-service/internal/domain"
	"github.com/campus-helpdesk/helpdesk-service/internal/repository"
	"github.com/campus-helpdesk/helpdesk-service/internal/service"
	apperrors "github.com/campus-helpdesk/helpdesk-service/pkg/util/errorutil"
)

// PaymentsHandler serves the business-office payment portal.
type PaymentsHandler struct {
	payments *service.PaymentService
}

// NewPaymentsHandler constructs handler.
func NewPaymentsHandler(payments *service.PaymentService) *PaymentsHandler {
	return &PaymentsHandler{payments: payments}
}

// Create POST /payments.
func (h *PaymentsHandler) Create(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	var req dto.CreateTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	txn, err := h.payments.CreateTransaction(c.Context(), service.TransactionInput{
		StudentName:  req.StudentName,
		StudentID:    req.StudentID,
		StudentEmail: req.StudentEmail,
		CategoryID:   req.CategoryID,
		Amount:       req.Amount,
		Method:       req.Method,
	}, principal.User.Name)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": transactionResponse(txn)})
}

// List GET /payments.
func (h *PaymentsHandler) List(c *fiber.Ctx) error {
	filter := repository.TransactionFilter{
		Limit:  parseIntQuery(c, "limit", 20),
		Offset: parseIntQuery(c, "offset", 0),
	}
	if status, ok := domain.ParseTransactionStatus(c.Query("status")); ok {
		filter.Status = &status
	}
	if studentID := c.Query("student_id"); studentID != "" {
		filter.StudentID = &studentID
	}
	if search := c.Query("search"); search != "" {
		filter.Search = &search
	}

	txns, err := h.payments.List(c.Context(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.TransactionResponse, 0, len(txns))
	for i := range txns {
		items = append(items, transactionResponse(&txns[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /payments/:id.
func (h *PaymentsHandler) Get(c *fiber.Ctx) error {
	txn, err := h.payments.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": transactionResponse(txn)})
}

// Verify POST /payments/:id/verify records the caller's final decision
// alongside the strategy recommendation.
func (h *PaymentsHandler) Verify(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	var req dto.VerifyTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	txn, recommendation, err := h.payments.VerifyTransaction(c.Context(), c.Params("id"), req.Approved, principal.User.Name)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.VerificationResponse{
		Transaction:    transactionResponse(txn),
		Recommendation: recommendation,
	}})
}

// UpdateStatus PATCH /payments/:id/status.
func (h *PaymentsHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	var req dto.UpdateTransactionStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	txn, err := h.payments.UpdateStatus(c.Context(), c.Params("id"), req.Status, principal.User.Name)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": transactionResponse(txn)})
}

// Delete DELETE /payments/:id, admin only.
func (h *PaymentsHandler) Delete(c *fiber.Ctx) error {
	if err := h.payments.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Stats GET /payments/stats.
func (h *PaymentsHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.payments.Stats(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": stats})
}

func transactionResponse(txn *domain.PaymentTransaction) dto.TransactionResponse {
	return dto.TransactionResponse{
		ID:                txn.ID,
		TransactionNumber: txn.TransactionNumber,
		StudentName:       txn.StudentName,
		StudentID:         txn.StudentID,
		StudentEmail:      txn.StudentEmail,
		CategoryID:        txn.CategoryID,
		Amount:            txn.Amount,
		Method:            txn.Method,
		Status:            string(txn.Status),
		Verified:          txn.Verified,
		VerifiedBy:        txn.VerifiedBy,
		VerifiedAt:        txn.VerifiedAt,
		CreatedAt:         txn.CreatedAt,
		UpdatedAt:         txn.UpdatedAt,
	}
}
