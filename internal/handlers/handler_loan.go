package handlers

import (
	"net/http"

	portssvc "github.com/NovaBankHQ/nova_banking_app/internal/core/ports/services"
	"github.com/NovaBankHQ/nova_banking_app/internal/dto"
	"github.com/gin-gonic/gin"
)

// loanHandler exposes the loan application workflow.
type loanHandler struct {
	loanService portssvc.LoanSvcFacade
}

// newLoanHandler creates a new loanHandler.
func newLoanHandler(ls portssvc.LoanSvcFacade) *loanHandler {
	return &loanHandler{loanService: ls}
}

// registerLoanRoutes registers the customer-facing loan routes.
func registerLoanRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := newLoanHandler(services.Loan)

	loans := rg.Group("/loans")
	{
		loans.POST("", h.submitLoan)
		loans.GET("", h.listLoans)
		loans.GET("/:id", h.getLoan)
	}
}

// registerAdminLoanRoutes registers the admin decision surface.
func registerAdminLoanRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := newLoanHandler(services.Loan)

	loans := rg.Group("/loans")
	{
		loans.GET("/pending", h.listPendingLoans)
		loans.POST("/:id/approve", h.approveLoan)
		loans.POST("/:id/reject", h.rejectLoan)
	}
}

// submitLoan godoc
// @Summary Submit a loan application
// @Tags loans
// @Accept json
// @Produce json
// @Param loan body dto.SubmitLoanRequest true "Loan application"
// @Success 201 {object} dto.LoanResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /loans [post]
func (h *loanHandler) submitLoan(c *gin.Context) {
	var req dto.SubmitLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := callerID(c)
	if !ok {
		return
	}

	loan, err := h.loanService.SubmitLoan(c.Request.Context(), userID, req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToLoanResponse(loan))
}

// listLoans godoc
// @Summary List the caller's loan applications
// @Tags loans
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} dto.ListLoansResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /loans [get]
func (h *loanHandler) listLoans(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var params dto.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters"})
		return
	}

	loans, err := h.loanService.ListLoansForUser(c.Request.Context(), userID, params.Limit, params.Offset)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToListLoansResponse(loans))
}

// getLoan godoc
// @Summary Get a loan application
// @Tags loans
// @Produce json
// @Param id path string true "Loan ID"
// @Success 200 {object} dto.LoanResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /loans/{id} [get]
func (h *loanHandler) getLoan(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	loan, err := h.loanService.GetLoan(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToLoanResponse(loan))
}

// listPendingLoans godoc
// @Summary List pending loan applications (admin)
// @Tags admin
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} dto.ListLoansResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/loans/pending [get]
func (h *loanHandler) listPendingLoans(c *gin.Context) {
	var params dto.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters"})
		return
	}

	loans, err := h.loanService.ListPendingLoans(c.Request.Context(), params.Limit, params.Offset)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToListLoansResponse(loans))
}

// approveLoan godoc
// @Summary Approve a pending loan (admin)
// @Tags admin
// @Produce json
// @Param id path string true "Loan ID"
// @Success 200 {object} dto.LoanResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Already decided"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/loans/{id}/approve [post]
func (h *loanHandler) approveLoan(c *gin.Context) {
	adminID, ok := callerID(c)
	if !ok {
		return
	}

	loan, err := h.loanService.ApproveLoan(c.Request.Context(), c.Param("id"), adminID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToLoanResponse(loan))
}

// rejectLoan godoc
// @Summary Reject a pending loan (admin)
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Loan ID"
// @Param rejection body dto.RejectLoanRequest true "Rejection reason"
// @Success 200 {object} dto.LoanResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Already decided"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/loans/{id}/reject [post]
func (h *loanHandler) rejectLoan(c *gin.Context) {
	adminID, ok := callerID(c)
	if !ok {
		return
	}

	var req dto.RejectLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	loan, err := h.loanService.RejectLoan(c.Request.Context(), c.Param("id"), adminID, req.Reason)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToLoanResponse(loan))
}
