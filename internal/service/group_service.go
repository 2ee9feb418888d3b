package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/mmynk/ledger/internal/events"
	"github.com/mmynk/ledger/internal/models"
	"github.com/mmynk/ledger/internal/storage"
)

// GroupService manages groups and their membership.
type GroupService struct {
	store storage.Store
	options
}

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store, opts ...Option) *GroupService {
	return &GroupService{store: store, options: buildOptions(opts)}
}

// GroupPatch holds the editable group fields. Nil fields are left unchanged.
type GroupPatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	// Version, when set, must match the stored version.
	Version *int64 `json:"version"`
}

// CreateGroup creates a group whose only member is the creator.
func (s *GroupService) CreateGroup(ctx context.Context, creatorID, name, description string) (*models.Group, error) {
	slog.InfoContext(ctx, "CreateGroup request received", "user_id", creatorID, "name", name)

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, Errorf(CodeInvalidArgument, "Group name is required")
	}

	creator, err := s.store.GetUserByID(ctx, creatorID)
	if err != nil {
		slog.ErrorContext(ctx, "CreateGroup failed to load creator", "user_id", creatorID, "error", err)
		return nil, storeError(err, "User not found")
	}

	group := &models.Group{
		Name:        name,
		Description: strings.TrimSpace(description),
		CreatedBy:   creator.ID,
		Members:     []models.UserRef{creator.Ref()},
		CreatedAt:   s.clock.Now(),
	}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		slog.ErrorContext(ctx, "CreateGroup failed", "error", err)
		return nil, NewError(CodeInternal, err)
	}

	slog.InfoContext(ctx, "Group created", "group_id", group.ID)
	return group, nil
}

// ListGroups returns the groups userID belongs to, newest first.
func (s *GroupService) ListGroups(ctx context.Context, userID string) ([]models.Group, error) {
	groups, err := s.store.ListGroupsForUser(ctx, userID)
	if err != nil {
		slog.ErrorContext(ctx, "ListGroups failed", "user_id", userID, "error", err)
		return nil, NewError(CodeInternal, err)
	}
	return groups, nil
}

// GetGroup returns group details to members only.
func (s *GroupService) GetGroup(ctx context.Context, groupID, requesterID string) (*models.Group, error) {
	return s.loadForMember(ctx, groupID, requesterID, "User not authorized to view this group")
}

// EditGroup applies patch. Only the creator may edit.
func (s *GroupService) EditGroup(ctx context.Context, groupID, requesterID string, patch GroupPatch) (*models.Group, error) {
	slog.InfoContext(ctx, "EditGroup request received", "group_id", groupID, "user_id", requesterID)

	group, err := s.loadForCreator(ctx, groupID, requesterID, "User not authorized to edit this group")
	if err != nil {
		return nil, err
	}

	if patch.Version != nil && *patch.Version != group.Version {
		return nil, Errorf(CodeAborted, "Group was modified by someone else, reload and retry")
	}
	if patch.Name != nil {
		if name := strings.TrimSpace(*patch.Name); name != "" {
			group.Name = name
		}
	}
	if patch.Description != nil {
		if description := strings.TrimSpace(*patch.Description); description != "" {
			group.Description = description
		}
	}
	group.UpdatedAt = s.clock.Now()

	if err := s.store.UpdateGroup(ctx, group); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			slog.WarnContext(ctx, "EditGroup lost a concurrent update", "group_id", groupID)
			return nil, Errorf(CodeAborted, "Group was modified by someone else, reload and retry")
		}
		slog.ErrorContext(ctx, "EditGroup failed", "group_id", groupID, "error", err)
		return nil, storeError(err, "Group not found")
	}

	slog.InfoContext(ctx, "Group updated", "group_id", groupID, "version", group.Version)
	return group, nil
}

// DeleteGroup removes a group and all of its expenses. Only the creator may delete.
func (s *GroupService) DeleteGroup(ctx context.Context, groupID, requesterID string) error {
	slog.InfoContext(ctx, "DeleteGroup request received", "group_id", groupID, "user_id", requesterID)

	if _, err := s.loadForCreator(ctx, groupID, requesterID, "User not authorized to delete this group"); err != nil {
		return err
	}

	if err := s.store.DeleteGroup(ctx, groupID); err != nil {
		slog.ErrorContext(ctx, "DeleteGroup failed", "group_id", groupID, "error", err)
		return storeError(err, "Group not found")
	}

	publish(ctx, s.publisher, events.Event{
		Type:       events.GroupDeleted,
		GroupID:    groupID,
		ActorID:    requesterID,
		OccurredAt: s.clock.Now(),
	})
	slog.InfoContext(ctx, "Group deleted", "group_id", groupID)
	return nil
}

// AddMember adds the user registered under email. Any member may add.
func (s *GroupService) AddMember(ctx context.Context, groupID, requesterID, email string) (*models.Group, error) {
	slog.InfoContext(ctx, "AddMember request received", "group_id", groupID, "user_id", requesterID)

	if _, err := s.loadForMember(ctx, groupID, requesterID, "User not authorized to add members"); err != nil {
		return nil, err
	}

	email = models.NormalizeEmail(email)
	if email == "" {
		return nil, Errorf(CodeInvalidArgument, "Email is required")
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, storeError(err, "User with this email not found")
	}

	if err := s.store.AddMember(ctx, groupID, user.ID, s.clock.Now()); err != nil {
		if !errors.Is(err, storage.ErrConflict) {
			slog.ErrorContext(ctx, "AddMember failed", "group_id", groupID, "error", err)
		}
		return nil, storeError(err, "User is already a member of this group")
	}

	publish(ctx, s.publisher, events.Event{
		Type:       events.MemberAdded,
		GroupID:    groupID,
		ActorID:    requesterID,
		SubjectID:  user.ID,
		OccurredAt: s.clock.Now(),
	})
	slog.InfoContext(ctx, "Member added", "group_id", groupID, "member_id", user.ID)

	return s.reload(ctx, groupID)
}

// RemoveMember removes memberID. Only the creator may remove, and the creator
// cannot be removed. Removing a non-member succeeds without change.
func (s *GroupService) RemoveMember(ctx context.Context, groupID, requesterID, memberID string) (*models.Group, error) {
	slog.InfoContext(ctx, "RemoveMember request received", "group_id", groupID, "user_id", requesterID, "member_id", memberID)

	group, err := s.loadForCreator(ctx, groupID, requesterID, "User not authorized to remove members")
	if err != nil {
		return nil, err
	}
	if memberID == group.CreatedBy {
		return nil, Errorf(CodeInvalidArgument, "Group creator cannot be removed")
	}
	if !group.HasMember(memberID) {
		return group, nil
	}

	if err := s.store.RemoveMember(ctx, groupID, memberID, s.clock.Now()); err != nil {
		slog.ErrorContext(ctx, "RemoveMember failed", "group_id", groupID, "error", err)
		return nil, NewError(CodeInternal, err)
	}

	publish(ctx, s.publisher, events.Event{
		Type:       events.MemberRemoved,
		GroupID:    groupID,
		ActorID:    requesterID,
		SubjectID:  memberID,
		OccurredAt: s.clock.Now(),
	})
	slog.InfoContext(ctx, "Member removed", "group_id", groupID, "member_id", memberID)

	return s.reload(ctx, groupID)
}

func (s *GroupService) reload(ctx context.Context, groupID string) (*models.Group, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, storeError(err, "Group not found")
	}
	return group, nil
}

func (s *GroupService) loadForMember(ctx context.Context, groupID, userID, denied string) (*models.Group, error) {
	group, err := s.reload(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.HasMember(userID) {
		return nil, Errorf(CodePermissionDenied, "%s", denied)
	}
	return group, nil
}

func (s *GroupService) loadForCreator(ctx context.Context, groupID, userID, denied string) (*models.Group, error) {
	group, err := s.reload(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group.CreatedBy != userID {
		return nil, Errorf(CodePermissionDenied, "%s", denied)
	}
	return group, nil
}
