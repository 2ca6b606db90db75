package participant

// CreateParticipantRequest represents the request body for creating a participant.
type CreateParticipantRequest struct {
	DisplayName string  `json:"display_name" validate:"required,min=1,max=100"`
	Email       string  `json:"email" validate:"required,email"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
}

// UpdateParticipantRequest represents the request body for updating a participant.
type UpdateParticipantRequest struct {
	DisplayName *string `json:"display_name,omitempty" validate:"omitempty,min=1,max=100"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
}

// ParticipantResponse represents a participant as seen by a requester.
// IsCurrentUser is resolved against the requesting participant explicitly,
// never against any global profile.
type ParticipantResponse struct {
	ID            string  `json:"id"`
	DisplayName   string  `json:"display_name"`
	Email         string  `json:"email"`
	AvatarURL     *string `json:"avatar_url,omitempty"`
	IsCurrentUser bool    `json:"is_current_user"`
	CreatedAt     string  `json:"created_at"`
}

// ToResponse converts a Participant to a response DTO from the requester's
// point of view.
func (p *Participant) ToResponse(requesterID string) *ParticipantResponse {
	return &ParticipantResponse{
		ID:            string(p.ID),
		DisplayName:   p.DisplayName,
		Email:         p.Email,
		AvatarURL:     p.AvatarURL,
		IsCurrentUser: string(p.ID) == requesterID,
		CreatedAt:     p.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
