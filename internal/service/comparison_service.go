package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"accord/internal/cache"
	"accord/internal/engine"
	"accord/internal/model"
	"accord/internal/repository"
)

// ComparisonService runs the comparison engine over both partners' submitted
// answers and manages report persistence
type ComparisonService struct {
	responseRepo repository.ResponseRepo
	reportRepo   repository.ReportRepo
	reportCache  cache.ReportCache
	sessionCache cache.SessionCache
	templateSvc  *TemplateService
	broadcaster  Broadcaster
}

// NewComparisonService creates a new comparison service
func NewComparisonService(
	responseRepo repository.ResponseRepo,
	reportRepo repository.ReportRepo,
	reportCache cache.ReportCache,
	sessionCache cache.SessionCache,
	templateSvc *TemplateService,
) *ComparisonService {
	return &ComparisonService{
		responseRepo: responseRepo,
		reportRepo:   reportRepo,
		reportCache:  reportCache,
		sessionCache: sessionCache,
		templateSvc:  templateSvc,
	}
}

// SetBroadcaster sets the broadcaster for WebSocket events
func (s *ComparisonService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// GenerateReport compares both partners' answers, persists the result, and
// notifies the session
func (s *ComparisonService) GenerateReport(ctx context.Context, sessionCode string) (*model.StoredReport, error) {
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

	prA, err := s.responseRepo.Get(ctx, sessionCode, model.RoleA)
	if err != nil {
		return nil, fmt.Errorf("failed to get responses for a: %w", err)
	}
	prB, err := s.responseRepo.Get(ctx, sessionCode, model.RoleB)
	if err != nil {
		return nil, fmt.Errorf("failed to get responses for b: %w", err)
	}

	responsesA := model.ResponseSet{}
	if prA != nil {
		responsesA = prA.Responses
	}
	responsesB := model.ResponseSet{}
	if prB != nil {
		responsesB = prB.Responses
	}

	catalog, err := s.templateSvc.Scenarios(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load scenarios: %w", err)
	}

	report := engine.Compare(tpl, responsesA, responsesB, catalog)

	stored := &model.StoredReport{
		ID:          uuid.NewString(),
		SessionCode: sessionCode,
		TemplateID:  meta.TemplateID,
		Report:      *report,
	}
	if err := s.reportRepo.Save(ctx, stored); err != nil {
		return nil, fmt.Errorf("failed to save report: %w", err)
	}
	if err := s.reportCache.Set(ctx, sessionCode, stored); err != nil {
		return nil, fmt.Errorf("failed to cache report: %w", err)
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastToSession(sessionCode, "report_ready", map[string]interface{}{
			"items":      len(stored.Report.Items),
			"actionPlan": stored.Report.ActionPlan,
		})
	}
	return stored, nil
}

// GetReport retrieves the latest report for a session, cache first
func (s *ComparisonService) GetReport(ctx context.Context, sessionCode string) (*model.StoredReport, error) {
	if stored, err := s.reportCache.Get(ctx, sessionCode); err == nil && stored != nil {
		return stored, nil
	}

	stored, err := s.reportRepo.GetBySessionCode(ctx, sessionCode)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, nil
	}
	if err := s.reportCache.Set(ctx, sessionCode, stored); err != nil {
		return nil, fmt.Errorf("failed to cache report: %w", err)
	}
	return stored, nil
}
