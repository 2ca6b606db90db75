package participant

import (
	"context"
	"errors"

	"github.com/akyildz/divvy/internal/expense/split"
)

// Common errors
var (
	ErrParticipantNotFound = errors.New("participant not found")
	ErrEmailAlreadyInUse   = errors.New("email already in use")
)

// Service handles participant business logic.
type Service struct {
	repo *Repository
}

// NewService creates a new participant service.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Create registers a new participant.
func (s *Service) Create(ctx context.Context, req *CreateParticipantRequest) (*Participant, error) {
	existing, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyInUse
	}
	return s.repo.Create(ctx, req)
}

// GetByID retrieves a participant by id.
func (s *Service) GetByID(ctx context.Context, id split.ParticipantID) (*Participant, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrParticipantNotFound
	}
	return p, nil
}

// List retrieves all participants with pagination.
func (s *Service) List(ctx context.Context, page, perPage int) ([]*Participant, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	offset := (page - 1) * perPage
	return s.repo.List(ctx, perPage, offset)
}

// Update modifies an existing participant.
func (s *Service) Update(ctx context.Context, id split.ParticipantID, req *UpdateParticipantRequest) (*Participant, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrParticipantNotFound
	}
	return s.repo.Update(ctx, id, req)
}

// Delete removes a participant.
func (s *Service) Delete(ctx context.Context, id split.ParticipantID) error {
	return s.repo.Delete(ctx, id)
}
