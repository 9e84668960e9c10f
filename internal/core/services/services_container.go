package services

import (
	portsrepo "github.com/NovaBankHQ/nova_banking_app/internal/core/ports/repositories"
	portssvc "github.com/NovaBankHQ/nova_banking_app/internal/core/ports/services"
	"github.com/NovaBankHQ/nova_banking_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, notifier portssvc.Notifier) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Fraud first: the transfer engine consults it before every mutation.
	container.Fraud = NewFraudService(repos.FraudAlertRepo, repos.TransactionRepo, notifier, cfg)

	container.Transfer = NewTransferService(
		repos.AccountRepo,
		repos.TransactionRepo,
		repos.UserRepo,
		container.Fraud,
		notifier,
		cfg,
	)

	container.Account = NewAccountService(repos.AccountRepo, repos.UserRepo)
	container.Ledger = NewLedgerService(repos.TransactionRepo, repos.AccountRepo, repos.UserRepo)
	container.Loan = NewLoanService(repos.LoanRepo, repos.UserRepo, notifier, cfg)
	container.User = NewUserService(repos.UserRepo)

	container.TokenService = NewTokenService(cfg, container.User)
	container.GoogleOAuth = NewGoogleOAuthService(cfg)

	return container
}
