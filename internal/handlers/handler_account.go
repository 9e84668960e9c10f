package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/NovaBankHQ/nova_banking_app/internal/core/ports/services"
	"github.com/NovaBankHQ/nova_banking_app/internal/dto"
	"github.com/NovaBankHQ/nova_banking_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// accountHandler handles HTTP requests related to accounts and the directory.
type accountHandler struct {
	transferService portssvc.TransferSvcFacade
	accountService  portssvc.AccountSvcFacade
	ledgerService   portssvc.LedgerSvcFacade
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(ts portssvc.TransferSvcFacade, as portssvc.AccountSvcFacade, ls portssvc.LedgerSvcFacade) *accountHandler {
	return &accountHandler{
		transferService: ts,
		accountService:  as,
		ledgerService:   ls,
	}
}

// RegisterAccountRoutes registers routes related to accounts. Exported so the
// handler tests can mount the routes with mocked services.
func RegisterAccountRoutes(rg *gin.RouterGroup, ts portssvc.TransferSvcFacade, as portssvc.AccountSvcFacade, ls portssvc.LedgerSvcFacade) {
	h := newAccountHandler(ts, as, ls)

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.POST("/bootstrap", h.bootstrapAccounts)
		accounts.GET("", h.listAccounts)
		accounts.GET("/:id", h.getAccount)
		accounts.GET("/:id/balance", h.getAccountBalance)
		accounts.GET("/:id/transactions", h.listAccountTransactions)
	}

	rg.GET("/directory/:accountNumber", h.resolveAccountNumber)
}

// createAccount godoc
// @Summary Create a new account
// @Description Opens a zero-balance account with a freshly generated account number
// @Tags accounts
// @Accept json
// @Produce json
// @Param account body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /accounts [post]
func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	ownerID, ok := callerID(c)
	if !ok {
		return
	}

	newAccount, err := h.transferService.CreateAccount(c.Request.Context(), ownerID, req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	logger.Info("Account created", slog.String("account_id", newAccount.AccountID))
	c.JSON(http.StatusCreated, dto.ToAccountResponse(newAccount))
}

// bootstrapAccounts godoc
// @Summary Provision first-time accounts
// @Description Runs the first-time bootstrap: a pre-funded checking account and a savings account. Idempotent.
// @Tags accounts
// @Produce json
// @Success 200 {object} dto.ListAccountsResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /accounts/bootstrap [post]
func (h *accountHandler) bootstrapAccounts(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	accounts, err := h.transferService.EnsureWelcomeAccounts(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToListAccountsResponse(accounts))
}

// listAccounts godoc
// @Summary List the caller's accounts
// @Tags accounts
// @Produce json
// @Success 200 {object} dto.ListAccountsResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	accounts, err := h.accountService.ListAccountsForUser(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToListAccountsResponse(accounts))
}

// getAccount godoc
// @Summary Get an account by ID
// @Tags accounts
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /accounts/{id} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	account, err := h.accountService.GetAccountByID(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// getAccountBalance godoc
// @Summary Get an account's balance
// @Tags accounts
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} dto.AccountBalanceResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /accounts/{id}/balance [get]
func (h *accountHandler) getAccountBalance(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	account, err := h.accountService.GetAccountByID(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.AccountBalanceResponse{
		AccountID: account.AccountID,
		Balance:   account.Balance,
	})
}

// listAccountTransactions godoc
// @Summary List an account's ledger entries
// @Tags accounts
// @Produce json
// @Param id path string true "Account ID"
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /accounts/{id}/transactions [get]
func (h *accountHandler) listAccountTransactions(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var params dto.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters"})
		return
	}

	txns, err := h.ledgerService.ListAccountTransactions(c.Request.Context(), userID, c.Param("id"), params.Limit, params.Offset)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToListTransactionsResponse(txns, ""))
}

// resolveAccountNumber godoc
// @Summary Resolve a public account number
// @Description Resolves an account number to its owner for the transfer confirmation step.
// @Tags directory
// @Produce json
// @Param accountNumber path string true "Public account number"
// @Success 200 {object} dto.DirectoryLookupResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /directory/{accountNumber} [get]
func (h *accountHandler) resolveAccountNumber(c *gin.Context) {
	if _, ok := callerID(c); !ok {
		return
	}

	entry, err := h.accountService.ResolveAccountNumber(c.Request.Context(), c.Param("accountNumber"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.DirectoryLookupResponse{
		AccountNumber: entry.AccountNumber,
		OwnerID:       entry.OwnerID,
		DisplayName:   entry.DisplayName,
	})
}
