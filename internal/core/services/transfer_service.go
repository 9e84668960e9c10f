package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/NovaBankHQ/nova_banking_app/internal/apperrors"
	"github.com/NovaBankHQ/nova_banking_app/internal/core/domain"
	portsrepo "github.com/NovaBankHQ/nova_banking_app/internal/core/ports/repositories"
	portssvc "github.com/NovaBankHQ/nova_banking_app/internal/core/ports/services"
	"github.com/NovaBankHQ/nova_banking_app/internal/dto"
	"github.com/NovaBankHQ/nova_banking_app/internal/middleware"
	"github.com/NovaBankHQ/nova_banking_app/internal/platform/config"
	"github.com/NovaBankHQ/nova_banking_app/internal/utils"
	"github.com/shopspring/decimal"
)

const maxAccountNumberAttempts = 100

// transferService is the transfer engine: the only writer of account balances.
// Every operation validates first, then commits the balance mutation and its
// ledger entries in one database transaction.
type transferService struct {
	accountRepo portsrepo.AccountRepositoryFacade
	txnRepo     portsrepo.TransactionRepositoryFacade
	userRepo    portsrepo.UserRepositoryFacade
	fraudSvc    portssvc.FraudSvcFacade
	notifier    portssvc.Notifier

	welcomeBonus  decimal.Decimal
	commitRetries int
	fraudBlocking bool
}

// NewTransferService creates a new TransferService.
func NewTransferService(
	accountRepo portsrepo.AccountRepositoryFacade,
	txnRepo portsrepo.TransactionRepositoryFacade,
	userRepo portsrepo.UserRepositoryFacade,
	fraudSvc portssvc.FraudSvcFacade,
	notifier portssvc.Notifier,
	cfg *config.Config,
) portssvc.TransferSvcFacade {
	retries := cfg.CommitRetries
	if retries < 1 {
		retries = 1
	}
	return &transferService{
		accountRepo:   accountRepo,
		txnRepo:       txnRepo,
		userRepo:      userRepo,
		fraudSvc:      fraudSvc,
		notifier:      notifier,
		welcomeBonus:  cfg.WelcomeBonusAmount,
		commitRetries: retries,
		fraudBlocking: cfg.FraudBlocking,
	}
}

var _ portssvc.TransferSvcFacade = (*transferService)(nil)

// commitBalanced runs one attempt of the lock-check-mutate-append sequence.
// buildEntries receives the locked account rows and may reject the operation
// (e.g. insufficient balance) before any write happens.
func (s *transferService) commitBalanced(
	ctx context.Context,
	actorID string,
	accountIDs []string,
	deltas map[string]decimal.Decimal,
	buildEntries func(accounts map[string]domain.Account, now time.Time) ([]domain.Transaction, error),
) ([]domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	var entries []domain.Transaction
	var lastErr error
	for attempt := 0; attempt < s.commitRetries; attempt++ {
		entries, lastErr = s.commitBalancedOnce(ctx, actorID, accountIDs, deltas, buildEntries)
		if lastErr == nil {
			return entries, nil
		}
		if !errors.Is(lastErr, apperrors.ErrCommitConflict) {
			return nil, lastErr
		}
		logger.Warn("Commit conflict, retrying transfer", slog.Int("attempt", attempt+1))
	}
	return nil, lastErr
}

func (s *transferService) commitBalancedOnce(
	ctx context.Context,
	actorID string,
	accountIDs []string,
	deltas map[string]decimal.Decimal,
	buildEntries func(accounts map[string]domain.Account, now time.Time) ([]domain.Transaction, error),
) ([]domain.Transaction, error) {
	tx, err := s.accountRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transfer transaction: %w", err)
	}
	defer func() {
		_ = s.accountRepo.Rollback(ctx, tx)
	}()

	accounts, err := s.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, accountIDs)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, err
	}

	now := time.Now().UTC()
	entries, err := buildEntries(accounts, now)
	if err != nil {
		return nil, err
	}

	if err := s.accountRepo.UpdateAccountBalancesInTx(ctx, tx, deltas, actorID, now); err != nil {
		return nil, err
	}
	if err := s.txnRepo.SaveTransactionsInTx(ctx, tx, entries); err != nil {
		return nil, err
	}

	if err := s.accountRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return entries, nil
}

// screen consults the fraud sentinel before a mutation. The verdict is
// advisory unless blocking mode is enabled.
func (s *transferService) screen(ctx context.Context, userID string, amount decimal.Decimal, txnType domain.TransactionType) (bool, error) {
	flagged, err := s.fraudSvc.EvaluateTransaction(ctx, userID, amount, txnType)
	if err != nil {
		// Fail closed: the sentinel has already recorded a CHECK_ERROR alert.
		flagged = true
	}
	if flagged && s.fraudBlocking {
		return true, apperrors.ErrTransactionBlocked
	}
	return flagged, nil
}

func (s *transferService) notifyOutcome(ctx context.Context, userID string, operation string, amount decimal.Decimal, txn *domain.Transaction, opErr error) {
	event := portssvc.OperationEvent{
		UserID:    userID,
		Operation: operation,
		Amount:    amount,
		Succeeded: opErr == nil,
		Timestamp: time.Now().UTC(),
	}
	if opErr != nil {
		event.Message = opErr.Error()
	} else if txn != nil {
		event.TransactionID = txn.TransactionID
		event.Message = fmt.Sprintf("%s of %s completed", operation, amount.String())
	}
	s.notifier.NotifyOperation(ctx, event)
}

// ownedActiveAccount loads an account and verifies it is active and owned by
// the caller. Foreign accounts surface as not found rather than forbidden.
func (s *transferService) ownedActiveAccount(ctx context.Context, userID string, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, err
	}
	if account.OwnerID != userID || !account.IsActive {
		return nil, apperrors.ErrAccountNotFound
	}
	return account, nil
}

// Deposit credits an account.
func (s *transferService) Deposit(ctx context.Context, userID string, req dto.DepositRequest) (*portssvc.TransferResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, apperrors.ErrInvalidAmount
	}
	account, err := s.ownedActiveAccount(ctx, userID, req.AccountID)
	if err != nil {
		return nil, err
	}

	flagged, err := s.screen(ctx, userID, req.Amount, domain.Deposit)
	if err != nil {
		s.notifyOutcome(ctx, userID, string(domain.Deposit), req.Amount, nil, err)
		return nil, err
	}

	entries, err := s.commitBalanced(ctx, userID,
		[]string{account.AccountID},
		map[string]decimal.Decimal{account.AccountID: req.Amount},
		func(accounts map[string]domain.Account, now time.Time) ([]domain.Transaction, error) {
			return []domain.Transaction{{
				TransactionID: uuid.NewString(),
				UserID:        userID,
				AccountID:     account.AccountID,
				Type:          domain.Deposit,
				Direction:     domain.Credit,
				Amount:        req.Amount,
				ToAccount:     account.AccountNumber,
				Description:   req.Description,
				Status:        domain.TxnCompleted,
				CreatedAt:     now,
			}}, nil
		})
	if err != nil {
		logger.Error("Deposit failed", slog.String("account_id", req.AccountID), slog.String("error", err.Error()))
		s.notifyOutcome(ctx, userID, string(domain.Deposit), req.Amount, nil, err)
		return nil, err
	}

	s.notifyOutcome(ctx, userID, string(domain.Deposit), req.Amount, &entries[0], nil)
	return &portssvc.TransferResult{Transaction: entries[0], Flagged: flagged}, nil
}

// Withdraw debits an account after checking the locked balance covers it.
func (s *transferService) Withdraw(ctx context.Context, userID string, req dto.WithdrawRequest) (*portssvc.TransferResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, apperrors.ErrInvalidAmount
	}
	account, err := s.ownedActiveAccount(ctx, userID, req.AccountID)
	if err != nil {
		return nil, err
	}

	flagged, err := s.screen(ctx, userID, req.Amount, domain.Withdrawal)
	if err != nil {
		s.notifyOutcome(ctx, userID, string(domain.Withdrawal), req.Amount, nil, err)
		return nil, err
	}

	entries, err := s.commitBalanced(ctx, userID,
		[]string{account.AccountID},
		map[string]decimal.Decimal{account.AccountID: req.Amount.Neg()},
		func(accounts map[string]domain.Account, now time.Time) ([]domain.Transaction, error) {
			locked := accounts[account.AccountID]
			if locked.Balance.LessThan(req.Amount) {
				return nil, apperrors.ErrInsufficientBalance
			}
			return []domain.Transaction{{
				TransactionID: uuid.NewString(),
				UserID:        userID,
				AccountID:     account.AccountID,
				Type:          domain.Withdrawal,
				Direction:     domain.Debit,
				Amount:        req.Amount,
				FromAccount:   account.AccountNumber,
				Description:   req.Description,
				Status:        domain.TxnCompleted,
				CreatedAt:     now,
			}}, nil
		})
	if err != nil {
		if !errors.Is(err, apperrors.ErrInsufficientBalance) {
			logger.Error("Withdrawal failed", slog.String("account_id", req.AccountID), slog.String("error", err.Error()))
		}
		s.notifyOutcome(ctx, userID, string(domain.Withdrawal), req.Amount, nil, err)
		return nil, err
	}

	s.notifyOutcome(ctx, userID, string(domain.Withdrawal), req.Amount, &entries[0], nil)
	return &portssvc.TransferResult{Transaction: entries[0], Flagged: flagged}, nil
}

// TransferInternal atomically moves money between two of the caller's own
// accounts, appending a debit and a credit entry sharing a transfer reference.
func (s *transferService) TransferInternal(ctx context.Context, userID string, req dto.InternalTransferRequest) (*portssvc.TransferResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, apperrors.ErrInvalidAmount
	}
	if req.FromAccountID == req.ToAccountID {
		return nil, fmt.Errorf("%w: cannot transfer to the same account", apperrors.ErrValidation)
	}

	fromAccount, err := s.ownedActiveAccount(ctx, userID, req.FromAccountID)
	if err != nil {
		return nil, err
	}
	toAccount, err := s.ownedActiveAccount(ctx, userID, req.ToAccountID)
	if err != nil {
		return nil, err
	}

	flagged, err := s.screen(ctx, userID, req.Amount, domain.InternalTransfer)
	if err != nil {
		s.notifyOutcome(ctx, userID, string(domain.InternalTransfer), req.Amount, nil, err)
		return nil, err
	}

	transferRef := uuid.NewString()
	entries, err := s.commitBalanced(ctx, userID,
		[]string{fromAccount.AccountID, toAccount.AccountID},
		map[string]decimal.Decimal{
			fromAccount.AccountID: req.Amount.Neg(),
			toAccount.AccountID:   req.Amount,
		},
		func(accounts map[string]domain.Account, now time.Time) ([]domain.Transaction, error) {
			locked := accounts[fromAccount.AccountID]
			if locked.Balance.LessThan(req.Amount) {
				return nil, apperrors.ErrInsufficientBalance
			}
			return []domain.Transaction{
				{
					TransactionID: uuid.NewString(),
					UserID:        userID,
					AccountID:     fromAccount.AccountID,
					Type:          domain.InternalTransfer,
					Direction:     domain.Debit,
					Amount:        req.Amount,
					FromAccount:   fromAccount.AccountNumber,
					ToAccount:     toAccount.AccountNumber,
					TransferRef:   transferRef,
					Description:   req.Description,
					Status:        domain.TxnCompleted,
					CreatedAt:     now,
				},
				{
					TransactionID: uuid.NewString(),
					UserID:        userID,
					AccountID:     toAccount.AccountID,
					Type:          domain.InternalTransfer,
					Direction:     domain.Credit,
					Amount:        req.Amount,
					FromAccount:   fromAccount.AccountNumber,
					ToAccount:     toAccount.AccountNumber,
					TransferRef:   transferRef,
					Description:   req.Description,
					Status:        domain.TxnCompleted,
					CreatedAt:     now,
				},
			}, nil
		})
	if err != nil {
		if !errors.Is(err, apperrors.ErrInsufficientBalance) {
			logger.Error("Internal transfer failed", slog.String("from", req.FromAccountID), slog.String("to", req.ToAccountID), slog.String("error", err.Error()))
		}
		s.notifyOutcome(ctx, userID, string(domain.InternalTransfer), req.Amount, nil, err)
		return nil, err
	}

	s.notifyOutcome(ctx, userID, string(domain.InternalTransfer), req.Amount, &entries[0], nil)
	return &portssvc.TransferResult{Transaction: entries[0], Flagged: flagged}, nil
}

// TransferExternal resolves the receiver through the account directory, then
// debits the sender's checking account and credits the receiver's checking
// account, appending one entry per party's own history.
func (s *transferService) TransferExternal(ctx context.Context, senderUserID string, req dto.ExternalTransferRequest) (*portssvc.TransferResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, apperrors.ErrInvalidAmount
	}

	receiver, err := s.accountRepo.FindOwnerByAccountNumber(ctx, req.ReceiverAccountNumber)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrReceiverNotFound
		}
		return nil, err
	}

	senderAccount, err := s.accountRepo.FindAccountByOwnerAndType(ctx, senderUserID, domain.Checking)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, err
	}
	receiverAccount, err := s.accountRepo.FindAccountByOwnerAndType(ctx, receiver.OwnerID, domain.Checking)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrReceiverNotFound
		}
		return nil, err
	}
	if senderAccount.AccountID == receiverAccount.AccountID {
		return nil, fmt.Errorf("%w: cannot transfer to the same account", apperrors.ErrValidation)
	}

	flagged, err := s.screen(ctx, senderUserID, req.Amount, domain.ExternalTransfer)
	if err != nil {
		s.notifyOutcome(ctx, senderUserID, string(domain.ExternalTransfer), req.Amount, nil, err)
		return nil, err
	}

	transferRef := uuid.NewString()
	entries, err := s.commitBalanced(ctx, senderUserID,
		[]string{senderAccount.AccountID, receiverAccount.AccountID},
		map[string]decimal.Decimal{
			senderAccount.AccountID:   req.Amount.Neg(),
			receiverAccount.AccountID: req.Amount,
		},
		func(accounts map[string]domain.Account, now time.Time) ([]domain.Transaction, error) {
			locked := accounts[senderAccount.AccountID]
			if locked.Balance.LessThan(req.Amount) {
				return nil, apperrors.ErrInsufficientBalance
			}
			return []domain.Transaction{
				{
					TransactionID: uuid.NewString(),
					UserID:        senderUserID,
					AccountID:     senderAccount.AccountID,
					Type:          domain.ExternalTransfer,
					Direction:     domain.Debit,
					Amount:        req.Amount,
					FromAccount:   senderAccount.AccountNumber,
					ToAccount:     req.ReceiverAccountNumber,
					TransferRef:   transferRef,
					Description:   req.Note,
					Status:        domain.TxnCompleted,
					CreatedAt:     now,
				},
				{
					TransactionID: uuid.NewString(),
					UserID:        receiver.OwnerID,
					AccountID:     receiverAccount.AccountID,
					Type:          domain.ExternalTransfer,
					Direction:     domain.Credit,
					Amount:        req.Amount,
					FromAccount:   senderAccount.AccountNumber,
					ToAccount:     req.ReceiverAccountNumber,
					TransferRef:   transferRef,
					Description:   req.Note,
					Status:        domain.TxnCompleted,
					CreatedAt:     now,
				},
			}, nil
		})
	if err != nil {
		if !errors.Is(err, apperrors.ErrInsufficientBalance) {
			logger.Error("External transfer failed", slog.String("receiver", req.ReceiverAccountNumber), slog.String("error", err.Error()))
		}
		s.notifyOutcome(ctx, senderUserID, string(domain.ExternalTransfer), req.Amount, nil, err)
		return nil, err
	}

	s.notifyOutcome(ctx, senderUserID, string(domain.ExternalTransfer), req.Amount, &entries[0], nil)
	return &portssvc.TransferResult{Transaction: entries[0], Flagged: flagged}, nil
}

// generateAccountNumber draws candidates until one is free of directory
// collisions, bounded so a saturated number space surfaces as an error.
func (s *transferService) generateAccountNumber(ctx context.Context) (string, error) {
	for i := 0; i < maxAccountNumberAttempts; i++ {
		candidate, err := utils.GenerateAccountNumberCandidate()
		if err != nil {
			return "", fmt.Errorf("failed to generate account number: %w", err)
		}
		taken, err := s.accountRepo.AccountNumberExists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check account number: %w", err)
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", apperrors.ErrAccountNumberExhausted
}

// CreateAccount opens a zero-balance account with a fresh account number.
func (s *transferService) CreateAccount(ctx context.Context, ownerID string, req dto.CreateAccountRequest) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	accountNumber, err := s.generateAccountNumber(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:     uuid.NewString(),
		OwnerID:       ownerID,
		AccountNumber: accountNumber,
		Name:          req.Name,
		AccountType:   req.AccountType,
		Balance:       decimal.Zero,
		IsActive:      true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     ownerID,
			LastUpdatedAt: now,
			LastUpdatedBy: ownerID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			// Lost a race on the account number; the caller can simply retry.
			return nil, apperrors.ErrCommitConflict
		}
		logger.Error("Failed to create account", slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Account created", slog.String("account_id", account.AccountID), slog.String("account_type", string(account.AccountType)))
	return &account, nil
}

// EnsureWelcomeAccounts runs the first-time-user bootstrap: a checking account
// pre-funded with the welcome bonus and a zero-balance savings account. The
// permanent welcome_bonus_granted flag is claimed in the same transaction that
// creates the accounts, so concurrent calls grant the bonus at most once.
func (s *transferService) EnsureWelcomeAccounts(ctx context.Context, userID string) ([]domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.WelcomeBonusGranted {
		return s.accountRepo.FindAccountsByOwner(ctx, userID)
	}

	checkingNumber, err := s.generateAccountNumber(ctx)
	if err != nil {
		return nil, err
	}
	savingsNumber, err := s.generateAccountNumber(ctx)
	if err != nil {
		return nil, err
	}

	tx, err := s.accountRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin welcome bootstrap: %w", err)
	}
	defer func() {
		_ = s.accountRepo.Rollback(ctx, tx)
	}()

	now := time.Now().UTC()
	claimed, err := s.userRepo.ClaimWelcomeBonusInTx(ctx, tx, userID, now)
	if err != nil {
		return nil, err
	}
	if !claimed {
		// Another request won the claim; nothing to create here.
		return s.accountRepo.FindAccountsByOwner(ctx, userID)
	}

	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     userID,
		LastUpdatedAt: now,
		LastUpdatedBy: userID,
	}
	checking := domain.Account{
		AccountID:     uuid.NewString(),
		OwnerID:       userID,
		AccountNumber: checkingNumber,
		Name:          "Checking",
		AccountType:   domain.Checking,
		Balance:       s.welcomeBonus,
		IsActive:      true,
		AuditFields:   audit,
	}
	savings := domain.Account{
		AccountID:     uuid.NewString(),
		OwnerID:       userID,
		AccountNumber: savingsNumber,
		Name:          "Savings",
		AccountType:   domain.Savings,
		Balance:       decimal.Zero,
		IsActive:      true,
		AuditFields:   audit,
	}

	if err := s.accountRepo.SaveAccountInTx(ctx, tx, checking); err != nil {
		return nil, err
	}
	if err := s.accountRepo.SaveAccountInTx(ctx, tx, savings); err != nil {
		return nil, err
	}

	bonusEntry := domain.Transaction{
		TransactionID: uuid.NewString(),
		UserID:        userID,
		AccountID:     checking.AccountID,
		Type:          domain.Deposit,
		Direction:     domain.Credit,
		Amount:        s.welcomeBonus,
		ToAccount:     checking.AccountNumber,
		Description:   "Welcome bonus",
		Status:        domain.TxnCompleted,
		CreatedAt:     now,
	}
	if err := s.txnRepo.SaveTransactionsInTx(ctx, tx, []domain.Transaction{bonusEntry}); err != nil {
		return nil, err
	}

	if err := s.accountRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	logger.Info("Welcome accounts provisioned", slog.String("user_id", userID), slog.String("bonus", s.welcomeBonus.String()))
	return []domain.Account{checking, savings}, nil
}
