package group

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/akyildz/divvy/internal/expense/split"
)

// Repository handles group data persistence.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new group repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new group.
func (r *Repository) Create(ctx context.Context, req *CreateGroupRequest) (*Group, error) {
	query := `
		INSERT INTO groups (id, name, description, is_temporary)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, description, is_temporary, created_at
	`
	g := &Group{}
	err := r.db.QueryRowContext(ctx, query, uuid.NewString(), req.Name, req.Description, req.IsTemporary).
		Scan(&g.ID, &g.Name, &g.Description, &g.IsTemporary, &g.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}
	return g, nil
}

// GetByID retrieves a group by id, or nil when absent.
func (r *Repository) GetByID(ctx context.Context, id string) (*Group, error) {
	query := `
		SELECT id, name, description, is_temporary, created_at
		FROM groups
		WHERE id = $1
	`
	g := &Group{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&g.ID, &g.Name, &g.Description, &g.IsTemporary, &g.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	return g, nil
}

// ListByParticipant retrieves a page of groups the participant belongs to.
func (r *Repository) ListByParticipant(ctx context.Context, id split.ParticipantID, limit, offset int) ([]*Group, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM group_members WHERE participant_id = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, string(id)).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count groups: %w", err)
	}

	query := `
		SELECT g.id, g.name, g.description, g.is_temporary, g.created_at
		FROM groups g
		JOIN group_members gm ON gm.group_id = g.id
		WHERE gm.participant_id = $1
		ORDER BY g.created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.QueryContext(ctx, query, string(id), limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []*Group
	for rows.Next() {
		g := &Group{}
		if err := rows.Scan(&g.ID, &g.Name, &g.Description, &g.IsTemporary, &g.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, g)
	}
	return groups, total, rows.Err()
}

// Update modifies a group; nil fields are left unchanged.
func (r *Repository) Update(ctx context.Context, id string, req *UpdateGroupRequest) (*Group, error) {
	query := `
		UPDATE groups
		SET name = COALESCE($2, name),
		    description = COALESCE($3, description)
		WHERE id = $1
		RETURNING id, name, description, is_temporary, created_at
	`
	g := &Group{}
	err := r.db.QueryRowContext(ctx, query, id, req.Name, req.Description).
		Scan(&g.ID, &g.Name, &g.Description, &g.IsTemporary, &g.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to update group: %w", err)
	}
	return g, nil
}

// Delete removes a group.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM groups WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	return nil
}

// AddMember adds a participant to a group.
func (r *Repository) AddMember(ctx context.Context, groupID string, id split.ParticipantID) (*Member, error) {
	query := `
		INSERT INTO group_members (group_id, participant_id)
		VALUES ($1, $2)
		RETURNING group_id, participant_id, joined_at
	`
	m := &Member{}
	var pid string
	err := r.db.QueryRowContext(ctx, query, groupID, string(id)).
		Scan(&m.GroupID, &pid, &m.JoinedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}
	m.ParticipantID = split.ParticipantID(pid)
	return m, nil
}

// GetMember retrieves one membership, or nil when absent.
func (r *Repository) GetMember(ctx context.Context, groupID string, id split.ParticipantID) (*Member, error) {
	query := `
		SELECT gm.group_id, gm.participant_id, gm.joined_at, p.display_name
		FROM group_members gm
		JOIN participants p ON p.id = gm.participant_id
		WHERE gm.group_id = $1 AND gm.participant_id = $2
	`
	m := &Member{}
	var pid string
	err := r.db.QueryRowContext(ctx, query, groupID, string(id)).
		Scan(&m.GroupID, &pid, &m.JoinedAt, &m.DisplayName)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	m.ParticipantID = split.ParticipantID(pid)
	return m, nil
}

// GetMembers retrieves all members of a group in canonical participant order.
func (r *Repository) GetMembers(ctx context.Context, groupID string) ([]*Member, error) {
	query := `
		SELECT gm.group_id, gm.participant_id, gm.joined_at, p.display_name
		FROM group_members gm
		JOIN participants p ON p.id = gm.participant_id
		WHERE gm.group_id = $1
		ORDER BY gm.participant_id
	`
	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to get members: %w", err)
	}
	defer rows.Close()

	var members []*Member
	for rows.Next() {
		m := &Member{}
		var pid string
		if err := rows.Scan(&m.GroupID, &pid, &m.JoinedAt, &m.DisplayName); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		m.ParticipantID = split.ParticipantID(pid)
		members = append(members, m)
	}
	return members, rows.Err()
}

// RemoveMember removes a participant from a group.
func (r *Repository) RemoveMember(ctx context.Context, groupID string, id split.ParticipantID) error {
	query := `DELETE FROM group_members WHERE group_id = $1 AND participant_id = $2`
	if _, err := r.db.ExecContext(ctx, query, groupID, string(id)); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}
	return nil
}
