package participant

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/akyildz/divvy/internal/expense/split"
)

// Repository handles participant data persistence.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new participant repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new participant with a fresh id.
func (r *Repository) Create(ctx context.Context, req *CreateParticipantRequest) (*Participant, error) {
	query := `
		INSERT INTO participants (id, display_name, email, avatar_url)
		VALUES ($1, $2, $3, $4)
		RETURNING id, display_name, email, avatar_url, created_at
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query,
		uuid.NewString(),
		req.DisplayName,
		req.Email,
		req.AvatarURL,
	))
}

// GetByID retrieves a participant by id, or nil when absent.
func (r *Repository) GetByID(ctx context.Context, id split.ParticipantID) (*Participant, error) {
	query := `
		SELECT id, display_name, email, avatar_url, created_at
		FROM participants
		WHERE id = $1
	`
	p, err := r.scanOne(r.db.QueryRowContext(ctx, query, string(id)))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return p, err
}

// GetByEmail retrieves a participant by email, or nil when absent.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*Participant, error) {
	query := `
		SELECT id, display_name, email, avatar_url, created_at
		FROM participants
		WHERE email = $1
	`
	p, err := r.scanOne(r.db.QueryRowContext(ctx, query, email))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return p, err
}

// List retrieves a page of participants ordered by display name.
func (r *Repository) List(ctx context.Context, limit, offset int) ([]*Participant, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM participants`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count participants: %w", err)
	}

	query := `
		SELECT id, display_name, email, avatar_url, created_at
		FROM participants
		ORDER BY display_name, id
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	var participants []*Participant
	for rows.Next() {
		p := &Participant{}
		var id string
		if err := rows.Scan(&id, &p.DisplayName, &p.Email, &p.AvatarURL, &p.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan participant: %w", err)
		}
		p.ID = split.ParticipantID(id)
		participants = append(participants, p)
	}
	return participants, total, rows.Err()
}

// Update modifies display name and avatar; nil fields are left unchanged.
func (r *Repository) Update(ctx context.Context, id split.ParticipantID, req *UpdateParticipantRequest) (*Participant, error) {
	query := `
		UPDATE participants
		SET display_name = COALESCE($2, display_name),
		    avatar_url = COALESCE($3, avatar_url)
		WHERE id = $1
		RETURNING id, display_name, email, avatar_url, created_at
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, string(id), req.DisplayName, req.AvatarURL))
}

// Delete removes a participant.
func (r *Repository) Delete(ctx context.Context, id split.ParticipantID) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM participants WHERE id = $1`, string(id)); err != nil {
		return fmt.Errorf("failed to delete participant: %w", err)
	}
	return nil
}

func (r *Repository) scanOne(row *sql.Row) (*Participant, error) {
	p := &Participant{}
	var id string
	err := row.Scan(&id, &p.DisplayName, &p.Email, &p.AvatarURL, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan participant: %w", err)
	}
	p.ID = split.ParticipantID(id)
	return p, nil
}
