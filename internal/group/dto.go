package group

// CreateGroupRequest represents the request to create a group.
type CreateGroupRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
	IsTemporary bool    `json:"is_temporary"`
}

// UpdateGroupRequest represents the request to update a group.
type UpdateGroupRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
}

// AddMemberRequest represents the request to add a participant to a group.
type AddMemberRequest struct {
	ParticipantID string `json:"participant_id" validate:"required"`
}

// GroupResponse represents the response for a group.
type GroupResponse struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description *string           `json:"description,omitempty"`
	IsTemporary bool              `json:"is_temporary"`
	CreatedAt   string            `json:"created_at"`
	Members     []*MemberResponse `json:"members,omitempty"`
}

// MemberResponse represents a group member.
type MemberResponse struct {
	ParticipantID string `json:"participant_id"`
	DisplayName   string `json:"display_name,omitempty"`
	JoinedAt      string `json:"joined_at"`
}

// ToResponse converts a Group model to a GroupResponse DTO.
func (g *Group) ToResponse() *GroupResponse {
	return &GroupResponse{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		IsTemporary: g.IsTemporary,
		CreatedAt:   g.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// ToResponse converts a Member model to a MemberResponse DTO.
func (m *Member) ToResponse() *MemberResponse {
	return &MemberResponse{
		ParticipantID: string(m.ParticipantID),
		DisplayName:   m.DisplayName,
		JoinedAt:      m.JoinedAt.Format("2006-01-02T15:04:05Z"),
	}
}
