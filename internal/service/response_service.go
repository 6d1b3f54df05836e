package service

import (
	"context"
	"errors"
	"fmt"

	"accord/internal/cache"
	"accord/internal/engine"
	"accord/internal/model"
	"accord/internal/repository"
)

// ErrValidationFailed signals that the answer set broke a blocking rule; the
// accompanying ValidationReport carries the details.
var ErrValidationFailed = errors.New("validation failed")

// ResponseService handles saving and submitting one partner's answers
type ResponseService struct {
	responseRepo  repository.ResponseRepo
	sessionCache  cache.SessionCache
	reportCache   cache.ReportCache
	templateSvc   *TemplateService
	comparisonSvc *ComparisonService
	broadcaster   Broadcaster
}

// NewResponseService creates a new response service
func NewResponseService(
	responseRepo repository.ResponseRepo,
	sessionCache cache.SessionCache,
	reportCache cache.ReportCache,
	templateSvc *TemplateService,
	comparisonSvc *ComparisonService,
) *ResponseService {
	return &ResponseService{
		responseRepo:  responseRepo,
		sessionCache:  sessionCache,
		reportCache:   reportCache,
		templateSvc:   templateSvc,
		comparisonSvc: comparisonSvc,
	}
}

// SetBroadcaster sets the broadcaster for WebSocket events
func (s *ResponseService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// SaveResponses validates and persists a partner's answer set. Validation
// errors block the save; warnings are returned with the report either way.
func (s *ResponseService) SaveResponses(ctx context.Context, sessionCode string, role model.PartnerRole, responses model.ResponseSet) (*model.ValidationReport, error) {
	meta, err := s.sessionCache.GetMeta(ctx, sessionCode)
	if err != nil {
		return nil, fmt.Errorf("failed to get session meta: %w", err)
	}
	if meta == nil {
		return nil, fmt.Errorf("session not found")
	}

	tpl, err := s.templateSvc.GetNormalized(ctx, meta.TemplateID)
	if err != nil {
		return nil, fmt.Errorf("failed to load template: %w", err)
	}
	if tpl == nil {
		return nil, fmt.Errorf("template not found")
	}

	report := engine.Validate(tpl, responses)
	if len(report.Errors) > 0 {
		return report, ErrValidationFailed
	}

	pr := &model.PartnerResponses{
		SessionCode: sessionCode,
		Role:        role,
		TemplateID:  meta.TemplateID,
		Responses:   responses,
	}
	if err := s.responseRepo.Upsert(ctx, pr); err != nil {
		return nil, fmt.Errorf("failed to save responses: %w", err)
	}

	// Answers changed, so any existing report is stale.
	if err := s.reportCache.Invalidate(ctx, sessionCode); err != nil {
		return nil, fmt.Errorf("failed to invalidate report: %w", err)
	}

	// Only the other partner needs to hear about progress; answer content
	// itself is never broadcast.
	if s.broadcaster != nil {
		other := model.RoleA
		if role == model.RoleA {
			other = model.RoleB
		}
		s.broadcaster.BroadcastToPartner(sessionCode, other, "responses_saved", map[string]interface{}{
			"role":     role,
			"answered": len(responses),
		})
	}
	return report, nil
}

// GetResponses retrieves one partner's saved answer set
func (s *ResponseService) GetResponses(ctx context.Context, sessionCode string, role model.PartnerRole) (*model.PartnerResponses, error) {
	return s.responseRepo.Get(ctx, sessionCode, role)
}

// Submit finalizes a partner's answers. When both partners have submitted,
// the comparison report is generated and both sides are notified.
func (s *ResponseService) Submit(ctx context.Context, sessionCode string, role model.PartnerRole) error {
	pr, err := s.responseRepo.Get(ctx, sessionCode, role)
	if err != nil {
		return fmt.Errorf("failed to get responses: %w", err)
	}
	if pr == nil {
		return fmt.Errorf("no saved responses to submit")
	}

	if err := s.responseRepo.MarkSubmitted(ctx, sessionCode, role); err != nil {
		return fmt.Errorf("failed to mark submitted: %w", err)
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastToSession(sessionCode, "responses_submitted", map[string]interface{}{
			"role": role,
		})
	}

	other := model.RoleB
	if role == model.RoleB {
		other = model.RoleA
	}
	otherPr, err := s.responseRepo.Get(ctx, sessionCode, other)
	if err != nil {
		return fmt.Errorf("failed to get partner responses: %w", err)
	}
	if otherPr == nil || !otherPr.Submitted {
		return nil
	}

	if err := s.sessionCache.SetStatus(ctx, sessionCode, model.SessionComplete); err != nil {
		return fmt.Errorf("failed to update session status: %w", err)
	}
	if _, err := s.comparisonSvc.GenerateReport(ctx, sessionCode); err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}
	return nil
}
