package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/ledger/internal/models"
	"github.com/mmynk/ledger/internal/storage"
)

const groupColumns = "g.id, g.name, g.description, g.created_by, g.version, g.created_at, g.updated_at"

func scanGroup(row rowScanner) (*models.Group, error) {
	g := &models.Group{}
	var createdAt, updatedAt int64
	if err := row.Scan(&g.ID, &g.Name, &g.Description, &g.CreatedBy, &g.Version, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	g.CreatedAt = fromMillis(createdAt)
	g.UpdatedAt = fromMillis(updatedAt)
	g.Members = []models.UserRef{}
	return g, nil
}

// CreateGroup persists a new group. group.Members is written in order; the
// caller is responsible for putting the creator in it.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt.IsZero() {
		group.CreatedAt = time.Now()
	}
	group.UpdatedAt = group.CreatedAt
	group.Version = 1

	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO expense_groups (id, name, description, created_by, version, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
			group.ID, group.Name, group.Description, group.CreatedBy, group.Version,
			toMillis(group.CreatedAt), toMillis(group.UpdatedAt),
		)
		if err != nil {
			return fmt.Errorf("failed to insert group: %w", err)
		}

		for i, m := range group.Members {
			_, err = tx.ExecContext(ctx,
				"INSERT INTO group_members (group_id, user_id, position, joined_at) VALUES (?, ?, ?, ?)",
				group.ID, m.ID, i+1, toMillis(group.CreatedAt),
			)
			if err != nil {
				return fmt.Errorf("failed to insert group member: %w", err)
			}
		}
		return nil
	})
}

// GetGroup retrieves a group with its members in insertion order.
func (s *SQLiteStore) GetGroup(ctx context.Context, id string) (*models.Group, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+groupColumns+" FROM expense_groups g WHERE g.id = ?", id)
	group, err := scanGroup(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("group %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	members, err := s.loadMembers(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	group.Members = append(group.Members, members[id]...)
	return group, nil
}

// ListGroupsForUser returns every group userID belongs to, newest first.
func (s *SQLiteStore) ListGroupsForUser(ctx context.Context, userID string) ([]models.Group, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+groupColumns+`
		FROM expense_groups g
		JOIN group_members m ON m.group_id = g.id
		WHERE m.user_id = ?
		ORDER BY g.created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	groups := []models.Group{}
	var ids []string
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, *g)
		ids = append(ids, g.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}

	members, err := s.loadMembers(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range groups {
		groups[i].Members = append(groups[i].Members, members[groups[i].ID]...)
	}
	return groups, nil
}

// loadMembers returns member refs keyed by group ID, each list in insertion order.
func (s *SQLiteStore) loadMembers(ctx context.Context, groupIDs []string) (map[string][]models.UserRef, error) {
	members := make(map[string][]models.UserRef, len(groupIDs))
	if len(groupIDs) == 0 {
		return members, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT m.group_id, u.id, u.name, u.email, u.profile_picture
		FROM group_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.group_id IN (`+repeatPlaceholder(len(groupIDs))+`)
		ORDER BY m.group_id, m.position
	`, stringArgs(groupIDs)...)
	if err != nil {
		return nil, fmt.Errorf("failed to get group members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var groupID string
		var ref models.UserRef
		if err := rows.Scan(&groupID, &ref.ID, &ref.Name, &ref.Email, &ref.ProfilePicture); err != nil {
			return nil, fmt.Errorf("failed to scan group member: %w", err)
		}
		members[groupID] = append(members[groupID], ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate group members: %w", err)
	}
	return members, nil
}

// UpdateGroup writes name and description when the stored version still
// matches group.Version. On success group.Version is advanced.
func (s *SQLiteStore) UpdateGroup(ctx context.Context, group *models.Group) error {
	if group.UpdatedAt.IsZero() {
		group.UpdatedAt = time.Now()
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE expense_groups
		SET name = ?, description = ?, version = version + 1, updated_at = ?
		WHERE id = ? AND version = ?
	`, group.Name, group.Description, toMillis(group.UpdatedAt), group.ID, group.Version)
	if err != nil {
		return fmt.Errorf("failed to update group: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		var exists int
		err := s.db.QueryRowContext(ctx, "SELECT 1 FROM expense_groups WHERE id = ?", group.ID).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("group %s: %w", group.ID, storage.ErrNotFound)
		}
		return fmt.Errorf("group %s changed concurrently: %w", group.ID, storage.ErrConflict)
	}

	group.Version++
	return nil
}

// DeleteGroup removes the group's expenses (and their splits) and then the group.
func (s *SQLiteStore) DeleteGroup(ctx context.Context, id string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM group_expenses WHERE group_id = ?", id); err != nil {
			return fmt.Errorf("failed to delete group expenses: %w", err)
		}
		res, err := tx.ExecContext(ctx, "DELETE FROM expense_groups WHERE id = ?", id)
		if err != nil {
			return fmt.Errorf("failed to delete group: %w", err)
		}
		return checkAffected(res, "group "+id)
	})
}

// AddMember appends userID to the end of the member list. The existence check
// and the insert are a single statement, so concurrent adds cannot both win
// or lose each other's member.
func (s *SQLiteStore) AddMember(ctx context.Context, groupID, userID string, at time.Time) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO group_members (group_id, user_id, position, joined_at)
			SELECT ?, ?, COALESCE(MAX(position), 0) + 1, ?
			FROM group_members
			WHERE group_id = ?
			ON CONFLICT (group_id, user_id) DO NOTHING
		`, groupID, userID, toMillis(at), groupID)
		if err != nil {
			return fmt.Errorf("failed to add group member: %w", err)
		}

		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read affected rows: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("user %s already in group %s: %w", userID, groupID, storage.ErrConflict)
		}

		_, err = tx.ExecContext(ctx, "UPDATE expense_groups SET updated_at = ? WHERE id = ?", toMillis(at), groupID)
		if err != nil {
			return fmt.Errorf("failed to touch group: %w", err)
		}
		return nil
	})
}

// RemoveMember deletes userID from the group's member list.
func (s *SQLiteStore) RemoveMember(ctx context.Context, groupID, userID string, at time.Time) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			"DELETE FROM group_members WHERE group_id = ? AND user_id = ?",
			groupID, userID,
		)
		if err != nil {
			return fmt.Errorf("failed to remove group member: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return nil
		}

		_, err = tx.ExecContext(ctx, "UPDATE expense_groups SET updated_at = ? WHERE id = ?", toMillis(at), groupID)
		if err != nil {
			return fmt.Errorf("failed to touch group: %w", err)
		}
		return nil
	})
}
