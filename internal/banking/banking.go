package banking

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// newTransactionID генерирует идентификатор транзакции (UUIDv4).
var newTransactionID = uuid.NewString

// CreateAccount проверяет предлагаемый счёт перед сохранением.
// На успешном пути возвращает тот же указатель без изменений.
func CreateAccount(account *Account) (*Account, error) {
	if account == nil {
		return nil, newError(CodeInvalidAmount, "Account is required")
	}

	if account.Balance.IsNegative() {
		return nil, newError(CodeInvalidAmount, "Account balance cannot be negative")
	}

	if account.Balance.IsZero() {
		return nil, newError(CodeInvalidAmount, "Initial account balance must be positive")
	}

	return account, nil
}

// ProcessWithdrawal проверяет запрос на списание и, если все проверки пройдены,
// уменьшает баланс переданного счёта и возвращает запись о транзакции.
// При любой ошибке счёт остаётся неизменным.
func ProcessWithdrawal(account *Account, withdrawal WithdrawalRequest) (*WithdrawalResult, error) {
	if account == nil || account.ID != withdrawal.AccountID {
		return nil, newError(CodeAccountNotFound, "Account ID does not match withdrawal request")
	}

	if withdrawal.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, newError(CodeInvalidAmount, "Withdrawal amount must be positive")
	}

	if account.Currency != withdrawal.Currency {
		return nil, newError(CodeInvalidAmount,
			"Currency mismatch: account is %s, withdrawal is %s", account.Currency, withdrawal.Currency)
	}

	if withdrawal.Amount.GreaterThan(account.Balance) {
		return nil, newError(CodeInsufficientFunds,
			"Insufficient funds: balance %s, withdrawal %s", formatAmount(account.Balance), formatAmount(withdrawal.Amount))
	}

	newBalance := account.Balance.Sub(withdrawal.Amount)
	transaction := Transaction{
		ID:               newTransactionID(),
		Kind:             TransactionKindWithdrawal,
		Amount:           withdrawal.Amount,
		Currency:         withdrawal.Currency,
		Timestamp:        withdrawal.Timestamp,
		RemainingBalance: newBalance,
	}

	account.Balance = newBalance

	return &WithdrawalResult{
		Success:     true,
		Message:     "Withdrawal processed successfully",
		Transaction: transaction,
	}, nil
}

// ProcessDeposit зеркален ProcessWithdrawal, но увеличивает баланс
// и не проверяет достаточность средств.
func ProcessDeposit(account *Account, deposit DepositRequest) (*DepositResult, error) {
	if account == nil || account.ID != deposit.AccountID {
		return nil, newError(CodeAccountNotFound, "Account ID does not match deposit request")
	}

	if deposit.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, newError(CodeInvalidAmount, "Deposit amount must be positive")
	}

	if account.Currency != deposit.Currency {
		return nil, newError(CodeInvalidAmount,
			"Currency mismatch: account is %s, deposit is %s", account.Currency, deposit.Currency)
	}

	newBalance := account.Balance.Add(deposit.Amount)
	transaction := Transaction{
		ID:               newTransactionID(),
		Kind:             TransactionKindDeposit,
		Amount:           deposit.Amount,
		Currency:         deposit.Currency,
		Timestamp:        deposit.Timestamp,
		RemainingBalance: newBalance,
	}

	account.Balance = newBalance

	return &DepositResult{
		Success:     true,
		Message:     "Deposit processed successfully",
		Transaction: transaction,
	}, nil
}

// formatAmount печатает сумму с тем же числом знаков после запятой,
// с которым она была получена: 1000.00 остаётся "1000.00".
func formatAmount(d decimal.Decimal) string {
	if exp := d.Exponent(); exp < 0 {
		return d.StringFixed(-exp)
	}
	return d.String()
}
