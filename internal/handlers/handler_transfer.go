package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/NovaBankHQ/nova_banking_app/internal/core/ports/services"
	"github.com/NovaBankHQ/nova_banking_app/internal/dto"
	"github.com/NovaBankHQ/nova_banking_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// transferHandler exposes the transfer engine operations.
type transferHandler struct {
	transferService portssvc.TransferSvcFacade
}

// newTransferHandler creates a new transferHandler.
func newTransferHandler(ts portssvc.TransferSvcFacade) *transferHandler {
	return &transferHandler{transferService: ts}
}

// registerTransferRoutes registers the money movement routes.
func registerTransferRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := newTransferHandler(services.Transfer)

	transfers := rg.Group("/transfers")
	{
		transfers.POST("/deposit", h.deposit)
		transfers.POST("/withdraw", h.withdraw)
		transfers.POST("/internal", h.transferInternal)
		transfers.POST("/external", h.transferExternal)
	}
}

func toTransferResponse(result *portssvc.TransferResult) dto.TransferResponse {
	return dto.TransferResponse{
		Transaction: dto.ToTransactionResponse(&result.Transaction),
		Flagged:     result.Flagged,
	}
}

// deposit godoc
// @Summary Deposit into an account
// @Tags transfers
// @Accept json
// @Produce json
// @Param deposit body dto.DepositRequest true "Deposit details"
// @Success 201 {object} dto.TransferResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /transfers/deposit [post]
func (h *transferHandler) deposit(c *gin.Context) {
	var req dto.DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := callerID(c)
	if !ok {
		return
	}

	result, err := h.transferService.Deposit(c.Request.Context(), userID, req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toTransferResponse(result))
}

// withdraw godoc
// @Summary Withdraw from an account
// @Tags transfers
// @Accept json
// @Produce json
// @Param withdraw body dto.WithdrawRequest true "Withdrawal details"
// @Success 201 {object} dto.TransferResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse "Insufficient balance"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /transfers/withdraw [post]
func (h *transferHandler) withdraw(c *gin.Context) {
	var req dto.WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := callerID(c)
	if !ok {
		return
	}

	result, err := h.transferService.Withdraw(c.Request.Context(), userID, req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toTransferResponse(result))
}

// transferInternal godoc
// @Summary Transfer between own accounts
// @Tags transfers
// @Accept json
// @Produce json
// @Param transfer body dto.InternalTransferRequest true "Transfer details"
// @Success 201 {object} dto.TransferResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse "Insufficient balance"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /transfers/internal [post]
func (h *transferHandler) transferInternal(c *gin.Context) {
	var req dto.InternalTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := callerID(c)
	if !ok {
		return
	}

	result, err := h.transferService.TransferInternal(c.Request.Context(), userID, req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toTransferResponse(result))
}

// transferExternal godoc
// @Summary Transfer to another customer
// @Description Resolves the receiver's public account number and moves money atomically.
// @Tags transfers
// @Accept json
// @Produce json
// @Param transfer body dto.ExternalTransferRequest true "Transfer details"
// @Success 201 {object} dto.TransferResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Receiver not found"
// @Failure 422 {object} ErrorResponse "Insufficient balance"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /transfers/external [post]
func (h *transferHandler) transferExternal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ExternalTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := callerID(c)
	if !ok {
		return
	}

	result, err := h.transferService.TransferExternal(c.Request.Context(), userID, req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if result.Flagged {
		logger.Warn("Transfer completed but flagged", slog.String("transaction_id", result.Transaction.TransactionID))
	}
	c.JSON(http.StatusCreated, toTransferResponse(result))
}
