package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/agamariel/bankdash/internal/auth"
	"github.com/agamariel/bankdash/internal/models"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// MockUserService - мок для тестирования handlers
type MockUserService struct {
	RegisterFunc       func(ctx context.Context, req models.RegisterRequest) (*models.User, string, error)
	LoginFunc          func(ctx context.Context, username, password string) (*models.User, string, error)
	GetUserFunc        func(ctx context.Context, id uuid.UUID) (*models.User, error)
	ListUsersFunc      func(ctx context.Context) ([]*models.User, error)
	ChangePasswordFunc func(ctx context.Context, id uuid.UUID, oldPassword, newPassword string) error
	SetActiveFunc      func(ctx context.Context, actorID, userID uuid.UUID, active bool) error
	DeleteUserFunc     func(ctx context.Context, actorID, userID uuid.UUID) error
}

func (m *MockUserService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, string, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, req)
	}
	return nil, "", nil
}

func (m *MockUserService) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, username, password)
	}
	return nil, "", nil
}

func (m *MockUserService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if m.GetUserFunc != nil {
		return m.GetUserFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockUserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	if m.ListUsersFunc != nil {
		return m.ListUsersFunc(ctx)
	}
	return nil, nil
}

func (m *MockUserService) ChangePassword(ctx context.Context, id uuid.UUID, oldPassword, newPassword string) error {
	if m.ChangePasswordFunc != nil {
		return m.ChangePasswordFunc(ctx, id, oldPassword, newPassword)
	}
	return nil
}

func (m *MockUserService) SetActive(ctx context.Context, actorID, userID uuid.UUID, active bool) error {
	if m.SetActiveFunc != nil {
		return m.SetActiveFunc(ctx, actorID, userID, active)
	}
	return nil
}

func (m *MockUserService) DeleteUser(ctx context.Context, actorID, userID uuid.UUID) error {
	if m.DeleteUserFunc != nil {
		return m.DeleteUserFunc(ctx, actorID, userID)
	}
	return nil
}

// MockAccountService - мок сервиса счетов
type MockAccountService struct {
	CreateAccountFunc func(ctx context.Context, req models.CreateAccountRequest) (*models.Account, error)
	GetAccountFunc    func(ctx context.Context, id uuid.UUID) (*models.Account, error)
	ListAccountsFunc  func(ctx context.Context) ([]*models.Account, error)
	DeleteAccountFunc func(ctx context.Context, id uuid.UUID) error
}

func (m *MockAccountService) CreateAccount(ctx context.Context, req models.CreateAccountRequest) (*models.Account, error) {
	if m.CreateAccountFunc != nil {
		return m.CreateAccountFunc(ctx, req)
	}
	return &models.Account{}, nil
}

func (m *MockAccountService) GetAccount(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	if m.GetAccountFunc != nil {
		return m.GetAccountFunc(ctx, id)
	}
	return &models.Account{ID: id}, nil
}

func (m *MockAccountService) ListAccounts(ctx context.Context) ([]*models.Account, error) {
	if m.ListAccountsFunc != nil {
		return m.ListAccountsFunc(ctx)
	}
	return nil, nil
}

func (m *MockAccountService) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	if m.DeleteAccountFunc != nil {
		return m.DeleteAccountFunc(ctx, id)
	}
	return nil
}

// MockMoneyService - мок сервиса движения средств
type MockMoneyService struct {
	WithdrawFunc func(ctx context.Context, accountID uuid.UUID, req models.MoneyRequest) (*models.Transaction, error)
	DepositFunc  func(ctx context.Context, accountID uuid.UUID, req models.MoneyRequest) (*models.Transaction, error)
}

func (m *MockMoneyService) Withdraw(ctx context.Context, accountID uuid.UUID, req models.MoneyRequest) (*models.Transaction, error) {
	if m.WithdrawFunc != nil {
		return m.WithdrawFunc(ctx, accountID, req)
	}
	return &models.Transaction{AccountID: accountID}, nil
}

func (m *MockMoneyService) Deposit(ctx context.Context, accountID uuid.UUID, req models.MoneyRequest) (*models.Transaction, error) {
	if m.DepositFunc != nil {
		return m.DepositFunc(ctx, accountID, req)
	}
	return &models.Transaction{AccountID: accountID}, nil
}

// MockTransactionService - мок сервиса истории
type MockTransactionService struct {
	ListTransactionsFunc func(ctx context.Context, accountID *uuid.UUID, limit int) ([]*models.Transaction, error)
}

func (m *MockTransactionService) ListTransactions(ctx context.Context, accountID *uuid.UUID, limit int) ([]*models.Transaction, error) {
	if m.ListTransactionsFunc != nil {
		return m.ListTransactionsFunc(ctx, accountID, limit)
	}
	return nil, nil
}

// MockDashboardService - мок сервиса дашборда
type MockDashboardService struct {
	SummaryFunc   func(ctx context.Context) (*models.DashboardResponse, error)
	SnapshotsFunc func(ctx context.Context, days int) ([]*models.BalanceSnapshot, error)
}

func (m *MockDashboardService) Summary(ctx context.Context) (*models.DashboardResponse, error) {
	if m.SummaryFunc != nil {
		return m.SummaryFunc(ctx)
	}
	return &models.DashboardResponse{}, nil
}

func (m *MockDashboardService) Snapshots(ctx context.Context, days int) ([]*models.BalanceSnapshot, error) {
	if m.SnapshotsFunc != nil {
		return m.SnapshotsFunc(ctx, days)
	}
	return nil, nil
}

// newContext создаёт echo.Context с JSON-телом и параметром :id.
func newContext(method, target, body, id string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if id != "" {
		c.SetParamNames("id")
		c.SetParamValues(id)
	}
	return c, rec
}

func withUser(c echo.Context, userID uuid.UUID) {
	c.Set(string(auth.UserIDKey), userID)
}

// assertStatus проверяет код ответа или код возвращённой HTTP-ошибки.
func assertStatus(t *testing.T, err error, rec *httptest.ResponseRecorder, want int) *echo.HTTPError {
	t.Helper()

	if want < http.StatusBadRequest {
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if rec.Code != want {
			t.Errorf("Expected status %d, got %d", want, rec.Code)
		}
		return nil
	}

	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("Expected *echo.HTTPError, got %v", err)
	}
	if he.Code != want {
		t.Errorf("Expected status %d, got %d", want, he.Code)
	}
	return he
}
