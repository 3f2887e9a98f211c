package app

import (
	"context"
	"fmt"

	"invoice_reminder_service/internal/domain/reminder"
	idb "invoice_reminder_service/internal/infra/database"

	"github.com/sirupsen/logrus"
)

// Custom application-level errors for rule administration.
var ErrNegativeThreshold = fmt.Errorf("reminder threshold must be a non-negative number of days")
var ErrDuplicateThreshold = fmt.Errorf("an enabled reminder rule with this threshold already exists")

// RuleService handles administrator CRUD over reminder rules. The dispatcher
// only ever reads the enabled set.
type RuleService struct {
	ruleRepo reminder.RuleRepository
	logger   *logrus.Entry
}

func NewRuleService(rr reminder.RuleRepository, logger *logrus.Entry) *RuleService {
	return &RuleService{ruleRepo: rr, logger: logger}
}

// CreateRule adds a new reminder tier.
func (s *RuleService) CreateRule(ctx context.Context, thresholdDays int, enabled bool) (*reminder.Rule, error) {
	if thresholdDays < 0 {
		return nil, ErrNegativeThreshold
	}

	if enabled {
		if err := s.checkThresholdFree(ctx, thresholdDays, 0); err != nil {
			return nil, err
		}
	}

	rule := &reminder.Rule{
		ThresholdDays: thresholdDays,
		Enabled:       enabled,
	}
	if err := s.ruleRepo.Create(ctx, rule); err != nil {
		return nil, fmt.Errorf("failed to create reminder rule: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"rule_id":        rule.ID,
		"threshold_days": rule.ThresholdDays,
		"enabled":        rule.Enabled,
	}).Info("Reminder rule created")
	return rule, nil
}

// UpdateRule changes a rule's threshold and/or enabled flag.
func (s *RuleService) UpdateRule(ctx context.Context, id int32, thresholdDays int, enabled bool) (*reminder.Rule, error) {
	if thresholdDays < 0 {
		return nil, ErrNegativeThreshold
	}

	rule, err := s.ruleRepo.GetByID(ctx, id)
	if err != nil {
		if err == idb.ErrRuleNotFound {
			return nil, idb.ErrRuleNotFound
		}
		return nil, fmt.Errorf("failed to get reminder rule for update: %w", err)
	}

	if enabled {
		if err := s.checkThresholdFree(ctx, thresholdDays, id); err != nil {
			return nil, err
		}
	}

	rule.ThresholdDays = thresholdDays
	rule.Enabled = enabled
	if err := s.ruleRepo.Update(ctx, rule); err != nil {
		return nil, fmt.Errorf("failed to update reminder rule: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"rule_id":        rule.ID,
		"threshold_days": rule.ThresholdDays,
		"enabled":        rule.Enabled,
	}).Info("Reminder rule updated")
	return rule, nil
}

// DeleteRule removes a rule entirely. Existing ledger records for its
// threshold stay untouched.
func (s *RuleService) DeleteRule(ctx context.Context, id int32) error {
	if err := s.ruleRepo.Delete(ctx, id); err != nil {
		if err == idb.ErrRuleNotFound {
			return idb.ErrRuleNotFound
		}
		return fmt.Errorf("failed to delete reminder rule: %w", err)
	}
	s.logger.WithField("rule_id", id).Info("Reminder rule deleted")
	return nil
}

// ListRules returns all rules, enabled or not, for the admin UI.
func (s *RuleService) ListRules(ctx context.Context) ([]*reminder.Rule, error) {
	rules, err := s.ruleRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list reminder rules: %w", err)
	}
	return rules, nil
}

// checkThresholdFree enforces threshold uniqueness within the enabled set.
// excludeID skips the rule being updated.
func (s *RuleService) checkThresholdFree(ctx context.Context, thresholdDays int, excludeID int32) error {
	enabled, err := s.ruleRepo.ListEnabled(ctx)
	if err != nil {
		return fmt.Errorf("failed to check enabled reminder rules: %w", err)
	}
	for _, r := range enabled {
		if r.ThresholdDays == thresholdDays && r.ID != excludeID {
			return ErrDuplicateThreshold
		}
	}
	return nil
}
