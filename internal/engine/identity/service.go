package identity

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"filedrive/internal/pkg/errors"
	"filedrive/internal/platform/models"
	"filedrive/internal/platform/repositories"
)

// Event types pushed by the identity provider's webhook.
const (
	EventUserCreated       = "user.created"
	EventUserUpdated       = "user.updated"
	EventMembershipCreated = "membership.created"
	EventMembershipUpdated = "membership.updated"
)

// Event is the envelope of an identity-provider webhook call.
type Event struct {
	Type string    `json:"type"`
	Data EventData `json:"data"`
}

type EventData struct {
	TokenIdentifier string `json:"token_identifier"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	AvatarURL       string `json:"avatar_url"`
	OrgID           string `json:"org_id"`
	Role            string `json:"role"`
}

// Service keeps local user records in sync with the identity provider.
type Service struct {
	users *repositories.UserRepository
}

func NewService(users *repositories.UserRepository) *Service {
	return &Service{users: users}
}

// Apply dispatches a webhook event to the matching mutation.
func (s *Service) Apply(event *Event) error {
	switch event.Type {
	case EventUserCreated:
		return s.createUser(&event.Data)
	case EventUserUpdated:
		return s.updateUser(&event.Data)
	case EventMembershipCreated:
		return s.addMembership(&event.Data)
	case EventMembershipUpdated:
		return s.updateRole(&event.Data)
	default:
		return fmt.Errorf("%w: unknown event type %q", errors.ErrInvalidInput, event.Type)
	}
}

func (s *Service) createUser(data *EventData) error {
	existing, err := s.users.GetByTokenIdentifier(data.TokenIdentifier)
	if err != nil {
		return err
	}
	if existing != nil {
		// Provider retried delivery; create is idempotent on the token.
		log.Debug().Str("token", data.TokenIdentifier).Msg("user already exists, skipping create")
		return nil
	}

	now := time.Now().Unix()
	user := &models.User{
		ID:              uuid.New().String(),
		TokenIdentifier: data.TokenIdentifier,
		PersonalOrgID:   personalOrgID(data.TokenIdentifier),
		Name:            displayName(data),
		AvatarURL:       data.AvatarURL,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	return s.users.Create(user)
}

func (s *Service) updateUser(data *EventData) error {
	user, err := s.users.GetByTokenIdentifier(data.TokenIdentifier)
	if err != nil {
		return err
	}
	if user == nil {
		return errors.ErrNotFound
	}

	return s.users.UpdateProfile(user.ID, displayName(data), data.AvatarURL)
}

func (s *Service) addMembership(data *EventData) error {
	if err := validRole(data.Role); err != nil {
		return err
	}

	user, err := s.users.GetByTokenIdentifier(data.TokenIdentifier)
	if err != nil {
		return err
	}
	if user == nil {
		return errors.ErrNotFound
	}

	now := time.Now().Unix()
	return s.users.AddMembership(&models.OrgMembership{
		UserID:    user.ID,
		OrgID:     data.OrgID,
		Role:      data.Role,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (s *Service) updateRole(data *EventData) error {
	if err := validRole(data.Role); err != nil {
		return err
	}

	user, err := s.users.GetByTokenIdentifier(data.TokenIdentifier)
	if err != nil {
		return err
	}
	if user == nil {
		return errors.ErrNotFound
	}

	err = s.users.UpdateMembershipRole(user.ID, data.OrgID, data.Role)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%w: user is not a member of the organization", errors.ErrInvalidInput)
	}
	return err
}

// GetMe resolves the current principal's user record.
func (s *Service) GetMe(tokenIdentifier string) (*models.User, error) {
	user, err := s.users.GetByTokenIdentifier(tokenIdentifier)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.ErrNotFound
	}
	return user, nil
}

// Profile is the public subset other members can see.
type Profile struct {
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

func (s *Service) GetProfile(userID string) (*Profile, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.ErrNotFound
	}
	return &Profile{Name: user.Name, AvatarURL: user.AvatarURL}, nil
}

// displayName falls back to the email when the provider sends a blank
// name.
func displayName(data *EventData) string {
	if strings.TrimSpace(data.Name) == "" {
		return data.Email
	}
	return data.Name
}

// personalOrgID derives the principal's personal namespace from its
// token identifier. Provider tokens look like "issuer|user_xxx"; the
// user part doubles as the org id of the personal namespace.
func personalOrgID(tokenIdentifier string) string {
	if idx := strings.LastIndex(tokenIdentifier, "|"); idx >= 0 {
		return tokenIdentifier[idx+1:]
	}
	return tokenIdentifier
}

func validRole(role string) error {
	if role != models.RoleAdmin && role != models.RoleMember {
		return fmt.Errorf("%w: role must be admin or member", errors.ErrInvalidInput)
	}
	return nil
}
