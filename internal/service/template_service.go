package service

import (
	"context"
	"fmt"

	"accord/internal/cache"
	"accord/internal/engine"
	"accord/internal/model"
	"accord/internal/repository"
)

// TemplateService handles template CRUD and normalization. The raw payload
// lives in Mongo; the canonical form is normalized once and cached in Redis
// with explicit invalidation on every write.
type TemplateService struct {
	templateRepo  repository.TemplateRepo
	scenarioRepo  repository.ScenarioRepo
	templateCache cache.TemplateCache
}

// NewTemplateService creates a new template service
func NewTemplateService(
	templateRepo repository.TemplateRepo,
	scenarioRepo repository.ScenarioRepo,
	templateCache cache.TemplateCache,
) *TemplateService {
	return &TemplateService{
		templateRepo:  templateRepo,
		scenarioRepo:  scenarioRepo,
		templateCache: templateCache,
	}
}

// Create normalizes and stores a new raw template. Structurally invalid
// payloads are rejected before anything is persisted.
func (s *TemplateService) Create(ctx context.Context, ownerID string, payload map[string]any) (string, error) {
	if _, err := engine.Normalize(payload); err != nil {
		return "", err
	}
	return s.templateRepo.Create(ctx, &model.RawTemplate{
		OwnerID: ownerID,
		Payload: payload,
	})
}

// GetRaw retrieves the stored raw payload
func (s *TemplateService) GetRaw(ctx context.Context, id string) (*model.RawTemplate, error) {
	return s.templateRepo.GetByID(ctx, id)
}

// GetByOwnerID retrieves all raw templates for an owner
func (s *TemplateService) GetByOwnerID(ctx context.Context, ownerID string) ([]*model.RawTemplate, error) {
	return s.templateRepo.GetByOwnerID(ctx, ownerID)
}

// GetNormalized returns the canonical template, from cache when warm
func (s *TemplateService) GetNormalized(ctx context.Context, id string) (*model.Template, error) {
	if tpl, err := s.templateCache.Get(ctx, id); err == nil && tpl != nil {
		return tpl, nil
	}

	raw, err := s.templateRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get template: %w", err)
	}
	if raw == nil {
		return nil, nil
	}

	tpl, err := engine.Normalize(raw.Payload)
	if err != nil {
		return nil, err
	}
	tpl.ID = id

	if err := s.templateCache.Set(ctx, id, tpl); err != nil {
		return nil, fmt.Errorf("failed to cache template: %w", err)
	}
	return tpl, nil
}

// Update replaces a template's payload and invalidates its cached form
func (s *TemplateService) Update(ctx context.Context, tpl *model.RawTemplate) error {
	if _, err := engine.Normalize(tpl.Payload); err != nil {
		return err
	}
	if err := s.templateRepo.Update(ctx, tpl); err != nil {
		return err
	}
	return s.templateCache.Invalidate(ctx, tpl.ID)
}

// Delete removes a template and its cached form
func (s *TemplateService) Delete(ctx context.Context, id string) error {
	if err := s.templateRepo.Delete(ctx, id); err != nil {
		return err
	}
	return s.templateCache.Invalidate(ctx, id)
}

// Scenarios loads the full scenario catalog
func (s *TemplateService) Scenarios(ctx context.Context) (model.ScenarioCatalog, error) {
	return s.scenarioRepo.GetAll(ctx)
}

// UpsertScenario stores one catalog entry
func (s *TemplateService) UpsertScenario(ctx context.Context, scenario *model.Scenario) error {
	return s.scenarioRepo.Upsert(ctx, scenario)
}
