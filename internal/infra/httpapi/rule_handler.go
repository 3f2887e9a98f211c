package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"invoice_reminder_service/internal/app"
	"invoice_reminder_service/internal/domain/reminder"
	idb "invoice_reminder_service/internal/infra/database"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

// RuleRequestDTO is the create/update payload for a reminder rule.
type RuleRequestDTO struct {
	ThresholdDays *int  `json:"thresholdDays" validate:"required,gte=0"`
	Enabled       *bool `json:"enabled" validate:"required"`
}

// RuleResponseDTO is the wire representation of a reminder rule.
type RuleResponseDTO struct {
	ID            int32     `json:"id"`
	ThresholdDays int       `json:"thresholdDays"`
	Enabled       bool      `json:"enabled"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func toRuleResponseDTO(rule *reminder.Rule) RuleResponseDTO {
	return RuleResponseDTO{
		ID:            rule.ID,
		ThresholdDays: rule.ThresholdDays,
		Enabled:       rule.Enabled,
		CreatedAt:     rule.CreatedAt,
		UpdatedAt:     rule.UpdatedAt,
	}
}

// RuleHandler exposes administrator CRUD over reminder rules.
type RuleHandler struct {
	ruleService *app.RuleService
	logger      *logrus.Entry
	validate    *validator.Validate
}

func NewRuleHandler(rs *app.RuleService, logger *logrus.Entry, validate *validator.Validate) *RuleHandler {
	return &RuleHandler{ruleService: rs, logger: logger, validate: validate}
}

func (h *RuleHandler) List(w http.ResponseWriter, r *http.Request) {
	rules, err := h.ruleService.ListRules(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to list reminder rules")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	dtos := make([]RuleResponseDTO, 0, len(rules))
	for _, rule := range rules {
		dtos = append(dtos, toRuleResponseDTO(rule))
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *RuleHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var reqDTO RuleRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&reqDTO); err != nil {
		h.logger.WithError(err).Warn("Failed to decode create rule request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.StructCtx(ctx, reqDTO); err != nil {
		h.logger.WithError(err).Warn("Validation failed for create rule request")
		http.Error(w, fmt.Sprintf("Validation error: %s", err.Error()), http.StatusBadRequest)
		return
	}

	rule, err := h.ruleService.CreateRule(ctx, *reqDTO.ThresholdDays, *reqDTO.Enabled)
	if err != nil {
		h.mapRuleServiceError(w, err, "create")
		return
	}
	writeJSON(w, http.StatusCreated, toRuleResponseDTO(rule))
}

func (h *RuleHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ruleID, err := parseRuleID(r)
	if err != nil {
		http.Error(w, "Invalid rule ID", http.StatusBadRequest)
		return
	}

	var reqDTO RuleRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&reqDTO); err != nil {
		h.logger.WithError(err).Warn("Failed to decode update rule request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.StructCtx(ctx, reqDTO); err != nil {
		h.logger.WithError(err).Warn("Validation failed for update rule request")
		http.Error(w, fmt.Sprintf("Validation error: %s", err.Error()), http.StatusBadRequest)
		return
	}

	rule, err := h.ruleService.UpdateRule(ctx, ruleID, *reqDTO.ThresholdDays, *reqDTO.Enabled)
	if err != nil {
		h.mapRuleServiceError(w, err, "update")
		return
	}
	writeJSON(w, http.StatusOK, toRuleResponseDTO(rule))
}

func (h *RuleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ruleID, err := parseRuleID(r)
	if err != nil {
		http.Error(w, "Invalid rule ID", http.StatusBadRequest)
		return
	}

	if err := h.ruleService.DeleteRule(r.Context(), ruleID); err != nil {
		h.mapRuleServiceError(w, err, "delete")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *RuleHandler) mapRuleServiceError(w http.ResponseWriter, err error, operation string) {
	switch {
	case errors.Is(err, app.ErrNegativeThreshold):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, app.ErrDuplicateThreshold):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, idb.ErrRuleNotFound):
		http.Error(w, "Reminder rule not found", http.StatusNotFound)
	default:
		h.logger.WithError(err).Errorf("Failed to %s reminder rule", operation)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func parseRuleID(r *http.Request) (int32, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "ruleID"), 10, 32)
	if err != nil {
		return 0, err
	}
	return int32(id), nil
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
