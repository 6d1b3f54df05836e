package service

import (
	"context"
	"crypto/rand"
	"fmt"

	"github.com/google/uuid"

	"accord/internal/cache"
	"accord/internal/model"
	"accord/internal/repository"
)

// SessionService handles pair-session lifecycle operations
type SessionService struct {
	sessionRepo  repository.SessionRepo
	templateRepo repository.TemplateRepo
	sessionCache cache.SessionCache
	authSvc      *AuthService
	broadcaster  Broadcaster
}

// NewSessionService creates a new session service
func NewSessionService(
	sessionRepo repository.SessionRepo,
	templateRepo repository.TemplateRepo,
	sessionCache cache.SessionCache,
	authSvc *AuthService,
) *SessionService {
	return &SessionService{
		sessionRepo:  sessionRepo,
		templateRepo: templateRepo,
		sessionCache: sessionCache,
		authSvc:      authSvc,
	}
}

// SetBroadcaster sets the broadcaster for WebSocket events
func (s *SessionService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// CreateSession creates a new pair session for a template
func (s *SessionService) CreateSession(ctx context.Context, templateID, ownerID string) (*model.Session, error) {
	tpl, err := s.templateRepo.GetByID(ctx, templateID)
	if err != nil {
		return nil, fmt.Errorf("failed to get template: %w", err)
	}
	if tpl == nil {
		return nil, fmt.Errorf("template not found")
	}

	code, err := s.generateSessionCode(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate session code: %w", err)
	}

	session := &model.Session{
		Code:       code,
		TemplateID: templateID,
		OwnerID:    ownerID,
		Status:     model.SessionWaiting,
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	meta := &model.SessionMeta{
		TemplateID: templateID,
		Status:     model.SessionWaiting,
		CreatedAt:  session.CreatedAt,
	}
	if err := s.sessionCache.SetMeta(ctx, code, meta); err != nil {
		return nil, fmt.Errorf("failed to cache session: %w", err)
	}
	return session, nil
}

// Join adds a partner to a session. The first joiner takes role "a", the
// second "b"; a full session rejects further joins.
func (s *SessionService) Join(ctx context.Context, code string) (*model.PartnerJoinResponse, error) {
	session, err := s.sessionRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, fmt.Errorf("session not found")
	}

	var role model.PartnerRole
	switch {
	case !session.RoleTaken(model.RoleA):
		role = model.RoleA
	case !session.RoleTaken(model.RoleB):
		role = model.RoleB
	default:
		return nil, fmt.Errorf("session already has two partners")
	}

	partnerID := "partner_" + uuid.NewString()[:8]
	if err := s.sessionRepo.SetPartner(ctx, code, role, partnerID); err != nil {
		return nil, fmt.Errorf("failed to join session: %w", err)
	}

	meta, err := s.sessionCache.GetMeta(ctx, code)
	if err != nil || meta == nil {
		meta = &model.SessionMeta{TemplateID: session.TemplateID, Status: session.Status, CreatedAt: session.CreatedAt}
	}
	if role == model.RoleA {
		meta.PartnerA = partnerID
	} else {
		meta.PartnerB = partnerID
	}
	if meta.PartnerA != "" && meta.PartnerB != "" {
		meta.Status = model.SessionActive
		if err := s.sessionRepo.SetStatus(ctx, code, model.SessionActive); err != nil {
			return nil, fmt.Errorf("failed to activate session: %w", err)
		}
	}
	if err := s.sessionCache.SetMeta(ctx, code, meta); err != nil {
		return nil, fmt.Errorf("failed to cache session: %w", err)
	}

	token, err := s.authSvc.GeneratePartnerToken(code, partnerID, role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastToSession(code, "partner_joined", map[string]interface{}{
			"role":   role,
			"status": meta.Status,
		})
	}

	return &model.PartnerJoinResponse{
		PartnerID: partnerID,
		Role:      role,
		Token:     token,
		Meta:      meta,
	}, nil
}

// GetSession retrieves a session by code
func (s *SessionService) GetSession(ctx context.Context, code string) (*model.Session, error) {
	return s.sessionRepo.GetByCode(ctx, code)
}

// GetMeta retrieves session metadata from Redis
func (s *SessionService) GetMeta(ctx context.Context, code string) (*model.SessionMeta, error) {
	return s.sessionCache.GetMeta(ctx, code)
}

// generateSessionCode produces a unique 6-character join code
func (s *SessionService) generateSessionCode(ctx context.Context) (string, error) {
	const charset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	for attempt := 0; attempt < 10; attempt++ {
		buf := make([]byte, 6)
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		for i := range buf {
			buf[i] = charset[int(buf[i])%len(charset)]
		}
		code := string(buf)

		existing, err := s.sessionRepo.GetByCode(ctx, code)
		if err != nil {
			return "", err
		}
		if existing == nil {
			return code, nil
		}
	}
	return "", fmt.Errorf("could not generate unique session code")
}
