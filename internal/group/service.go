package group

import (
	"context"
	"errors"
	"slices"

	"github.com/akyildz/divvy/internal/expense/split"
)

// Common errors
var (
	ErrGroupNotFound       = errors.New("group not found")
	ErrMemberNotFound      = errors.New("member not found")
	ErrMemberAlreadyExists = errors.New("participant is already a member of this group")
)

// Notifier tells a participant they were added to a group. A nil
// Notifier disables delivery.
type Notifier interface {
	NotifyAddedToGroup(ctx context.Context, recipientID split.ParticipantID, groupName, groupID string)
}

// Service handles group business logic.
type Service struct {
	repo     *Repository
	notifier Notifier
}

// NewService creates a new group service.
func NewService(repo *Repository, notifier Notifier) *Service {
	return &Service{repo: repo, notifier: notifier}
}

// Create creates a new group and adds the creator as its first member.
func (s *Service) Create(ctx context.Context, creatorID split.ParticipantID, req *CreateGroupRequest) (*Group, error) {
	g, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.AddMember(ctx, g.ID, creatorID); err != nil {
		return nil, err
	}
	return g, nil
}

// GetByID retrieves a group by its id.
func (s *Service) GetByID(ctx context.Context, id string) (*Group, error) {
	g, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, ErrGroupNotFound
	}
	return g, nil
}

// GetByIDWithMembers retrieves a group with all its members.
func (s *Service) GetByIDWithMembers(ctx context.Context, id string) (*Group, []*Member, error) {
	g, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	members, err := s.repo.GetMembers(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return g, members, nil
}

// ParticipantIDs returns the group's member set in canonical order, for
// seeding a split.
func (s *Service) ParticipantIDs(ctx context.Context, groupID string) ([]split.ParticipantID, error) {
	members, err := s.repo.GetMembers(ctx, groupID)
	if err != nil {
		return nil, err
	}
	ids := make([]split.ParticipantID, len(members))
	for i, m := range members {
		ids[i] = m.ParticipantID
	}
	slices.Sort(ids)
	return ids, nil
}

// ListByParticipant retrieves all groups a participant belongs to.
func (s *Service) ListByParticipant(ctx context.Context, id split.ParticipantID, page, perPage int) ([]*Group, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	offset := (page - 1) * perPage
	return s.repo.ListByParticipant(ctx, id, perPage, offset)
}

// Update modifies an existing group.
func (s *Service) Update(ctx context.Context, id string, req *UpdateGroupRequest) (*Group, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrGroupNotFound
	}
	return s.repo.Update(ctx, id, req)
}

// Delete removes a group.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// AddMember adds a participant to a group.
func (s *Service) AddMember(ctx context.Context, groupID string, id split.ParticipantID) (*Member, error) {
	g, err := s.repo.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, ErrGroupNotFound
	}

	existing, err := s.repo.GetMember(ctx, groupID, id)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrMemberAlreadyExists
	}

	member, err := s.repo.AddMember(ctx, groupID, id)
	if err != nil {
		return nil, err
	}
	if s.notifier != nil {
		s.notifier.NotifyAddedToGroup(ctx, id, g.Name, g.ID)
	}
	return member, nil
}

// GetMembers retrieves all members of a group.
func (s *Service) GetMembers(ctx context.Context, groupID string) ([]*Member, error) {
	g, err := s.repo.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, ErrGroupNotFound
	}
	return s.repo.GetMembers(ctx, groupID)
}

// RemoveMember removes a participant from a group.
func (s *Service) RemoveMember(ctx context.Context, groupID string, id split.ParticipantID) error {
	existing, err := s.repo.GetMember(ctx, groupID, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrMemberNotFound
	}
	return s.repo.RemoveMember(ctx, groupID, id)
}
