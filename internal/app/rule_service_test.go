package app

import (
	"context"
	"testing"

	"invoice_reminder_service/internal/domain/reminder"
	idb "invoice_reminder_service/internal/infra/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestCreateRule_RejectsNegativeThreshold(t *testing.T) {
	ruleRepo := new(MockRuleRepository)
	svc := NewRuleService(ruleRepo, testLogger())

	rule, err := svc.CreateRule(context.Background(), -1, true)

	assert.ErrorIs(t, err, ErrNegativeThreshold)
	assert.Nil(t, rule)
	ruleRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateRule_RejectsDuplicateEnabledThreshold(t *testing.T) {
	ruleRepo := new(MockRuleRepository)
	ruleRepo.On("ListEnabled", mock.Anything).Return(enabledRules(7), nil)
	svc := NewRuleService(ruleRepo, testLogger())

	rule, err := svc.CreateRule(context.Background(), 7, true)

	assert.ErrorIs(t, err, ErrDuplicateThreshold)
	assert.Nil(t, rule)
	ruleRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateRule_AllowsDisabledDuplicate(t *testing.T) {
	// A disabled rule may share a threshold with an enabled one; uniqueness
	// only applies within the enabled set.
	ruleRepo := new(MockRuleRepository)
	ruleRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	svc := NewRuleService(ruleRepo, testLogger())

	rule, err := svc.CreateRule(context.Background(), 7, false)

	assert.NoError(t, err)
	assert.Equal(t, 7, rule.ThresholdDays)
	assert.False(t, rule.Enabled)
	ruleRepo.AssertNotCalled(t, "ListEnabled", mock.Anything)
}

func TestUpdateRule_PropagatesNotFound(t *testing.T) {
	ruleRepo := new(MockRuleRepository)
	ruleRepo.On("GetByID", mock.Anything, int32(42)).Return(nil, idb.ErrRuleNotFound)
	svc := NewRuleService(ruleRepo, testLogger())

	rule, err := svc.UpdateRule(context.Background(), 42, 7, true)

	assert.ErrorIs(t, err, idb.ErrRuleNotFound)
	assert.Nil(t, rule)
}

func TestUpdateRule_IgnoresOwnThresholdOnDuplicateCheck(t *testing.T) {
	ruleRepo := new(MockRuleRepository)
	existing := &reminder.Rule{ID: 1, ThresholdDays: 7, Enabled: false}
	ruleRepo.On("GetByID", mock.Anything, int32(1)).Return(existing, nil)
	ruleRepo.On("ListEnabled", mock.Anything).Return([]*reminder.Rule{
		{ID: 1, ThresholdDays: 7, Enabled: true},
	}, nil)
	ruleRepo.On("Update", mock.Anything, mock.Anything).Return(nil)
	svc := NewRuleService(ruleRepo, testLogger())

	rule, err := svc.UpdateRule(context.Background(), 1, 7, true)

	assert.NoError(t, err)
	assert.True(t, rule.Enabled)
}

func TestDeleteRule_PropagatesNotFound(t *testing.T) {
	ruleRepo := new(MockRuleRepository)
	ruleRepo.On("Delete", mock.Anything, int32(9)).Return(idb.ErrRuleNotFound)
	svc := NewRuleService(ruleRepo, testLogger())

	err := svc.DeleteRule(context.Background(), 9)

	assert.ErrorIs(t, err, idb.ErrRuleNotFound)
}
