package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"invoice_reminder_service/internal/app"
	"invoice_reminder_service/internal/domain/reminder"
	idb "invoice_reminder_service/internal/infra/database"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockRuleRepository struct {
	mock.Mock
}

func (m *MockRuleRepository) Create(ctx context.Context, rule *reminder.Rule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

func (m *MockRuleRepository) GetByID(ctx context.Context, id int32) (*reminder.Rule, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reminder.Rule), args.Error(1)
}

func (m *MockRuleRepository) Update(ctx context.Context, rule *reminder.Rule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

func (m *MockRuleRepository) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRuleRepository) ListEnabled(ctx context.Context) ([]*reminder.Rule, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*reminder.Rule), args.Error(1)
}

func (m *MockRuleRepository) ListAll(ctx context.Context) ([]*reminder.Rule, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*reminder.Rule), args.Error(1)
}

func newRuleTestRouter(ruleRepo *MockRuleRepository) *chi.Mux {
	svc := app.NewRuleService(ruleRepo, testLogger())
	handler := NewRuleHandler(svc, testLogger(), validator.New())

	r := chi.NewRouter()
	r.Get("/api/reminder-rules", handler.List)
	r.Post("/api/reminder-rules", handler.Create)
	r.Put("/api/reminder-rules/{ruleID}", handler.Update)
	r.Delete("/api/reminder-rules/{ruleID}", handler.Delete)
	return r
}

func TestCreateRuleHandler_Valid(t *testing.T) {
	ruleRepo := new(MockRuleRepository)
	ruleRepo.On("ListEnabled", mock.Anything).Return([]*reminder.Rule{}, nil)
	ruleRepo.On("Create", mock.Anything, mock.MatchedBy(func(rule *reminder.Rule) bool {
		return rule.ThresholdDays == 7 && rule.Enabled
	})).Return(nil)

	router := newRuleTestRouter(ruleRepo)
	req := httptest.NewRequest(http.MethodPost, "/api/reminder-rules", strings.NewReader(`{"thresholdDays":7,"enabled":true}`))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	ruleRepo.AssertExpectations(t)
}

func TestCreateRuleHandler_MissingFieldsRejected(t *testing.T) {
	ruleRepo := new(MockRuleRepository)
	router := newRuleTestRouter(ruleRepo)

	req := httptest.NewRequest(http.MethodPost, "/api/reminder-rules", strings.NewReader(`{"thresholdDays":7}`))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	ruleRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateRuleHandler_DuplicateThresholdConflict(t *testing.T) {
	ruleRepo := new(MockRuleRepository)
	ruleRepo.On("ListEnabled", mock.Anything).Return([]*reminder.Rule{
		{ID: 1, ThresholdDays: 7, Enabled: true},
	}, nil)

	router := newRuleTestRouter(ruleRepo)
	req := httptest.NewRequest(http.MethodPost, "/api/reminder-rules", strings.NewReader(`{"thresholdDays":7,"enabled":true}`))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestUpdateRuleHandler_NotFound(t *testing.T) {
	ruleRepo := new(MockRuleRepository)
	ruleRepo.On("GetByID", mock.Anything, int32(42)).Return(nil, idb.ErrRuleNotFound)

	router := newRuleTestRouter(ruleRepo)
	req := httptest.NewRequest(http.MethodPut, "/api/reminder-rules/42", strings.NewReader(`{"thresholdDays":10,"enabled":false}`))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteRuleHandler_NoContent(t *testing.T) {
	ruleRepo := new(MockRuleRepository)
	ruleRepo.On("Delete", mock.Anything, int32(3)).Return(nil)

	router := newRuleTestRouter(ruleRepo)
	req := httptest.NewRequest(http.MethodDelete, "/api/reminder-rules/3", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}
