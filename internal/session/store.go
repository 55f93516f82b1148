package session

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/wisetech/console/internal/models"
)

// Session field names. The scalar duplicates exist for readers that predate
// the structured record; every write keeps all copies consistent and logout
// clears them together.
const (
	fieldToken           = "access_token"
	fieldUserInfo        = "user_info"
	fieldUserID          = "user_id"
	fieldUserEmail       = "user_email"
	fieldUserRole        = "user_role"
	fieldUserName        = "user_name"
	fieldUserIsAdmin     = "user_is_admin"
	fieldIsAuthenticated = "is_authenticated"
	fieldAdminLastLogin  = "admin_last_login"
	fieldUserLastLogin   = "user_last_login"
)

var userFields = []string{
	fieldUserInfo,
	fieldUserID,
	fieldUserEmail,
	fieldUserRole,
	fieldUserName,
	fieldUserIsAdmin,
}

// Store manages the per-session token and cached identity. It only touches
// its Storage backend; no network calls happen here.
type Store struct {
	storage Storage
}

// NewStore creates a session store over the given backend.
func NewStore(storage Storage) *Store {
	return &Store{storage: storage}
}

// SetToken stores the bearer token for a session.
func (s *Store) SetToken(ctx context.Context, sid, token string) error {
	return s.storage.SetAll(ctx, sid, map[string]string{fieldToken: token})
}

// Token returns the stored bearer token, or "" when absent.
func (s *Store) Token(ctx context.Context, sid string) string {
	token, err := s.storage.Get(ctx, sid, fieldToken)
	if err != nil {
		return ""
	}
	return token
}

// RemoveToken deletes the bearer token, leaving cached identity in place.
func (s *Store) RemoveToken(ctx context.Context, sid string) error {
	return s.storage.Delete(ctx, sid, fieldToken)
}

// IsAuthenticated reports whether a token is present. Cached user data alone
// never counts as authenticated.
func (s *Store) IsAuthenticated(ctx context.Context, sid string) bool {
	return s.Token(ctx, sid) != ""
}

// SetUserInfo persists the full user record plus the denormalized scalar
// copies in a single storage write, so no partial state is ever observable.
func (s *Store) SetUserInfo(ctx context.Context, sid string, user models.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return s.storage.SetAll(ctx, sid, map[string]string{
		fieldUserInfo:    string(raw),
		fieldUserID:      strconv.Itoa(user.ID),
		fieldUserEmail:   user.Email,
		fieldUserRole:    user.Role(),
		fieldUserName:    user.DisplayName(),
		fieldUserIsAdmin: strconv.FormatBool(user.IsAdmin),
	})
}

// UserInfo returns the cached user record. When the structured record is
// missing or unreadable it reconstructs a best-effort record from the scalar
// fields; after ClearUserInfo every field comes back zero-valued.
func (s *Store) UserInfo(ctx context.Context, sid string) models.User {
	if raw, err := s.storage.Get(ctx, sid, fieldUserInfo); err == nil {
		var user models.User
		if err := json.Unmarshal([]byte(raw), &user); err == nil {
			return user
		}
	}

	// Degraded read from the scalar duplicates.
	fields, err := s.storage.GetAll(ctx, sid)
	if err != nil {
		return models.User{}
	}
	id, _ := strconv.Atoi(fields[fieldUserID])
	return models.User{
		ID:       id,
		Email:    fields[fieldUserEmail],
		FullName: fields[fieldUserName],
		IsAdmin:  fields[fieldUserIsAdmin] == "true",
	}
}

// IsAdmin reads the cached admin flag, preferring the structured record and
// falling back to the scalar copy. It deliberately does not re-verify against
// the token; gating a route additionally requires IsAuthenticated.
func (s *Store) IsAdmin(ctx context.Context, sid string) bool {
	if raw, err := s.storage.Get(ctx, sid, fieldUserInfo); err == nil {
		var user models.User
		if err := json.Unmarshal([]byte(raw), &user); err == nil {
			return user.IsAdmin
		}
	}
	flag, err := s.storage.Get(ctx, sid, fieldUserIsAdmin)
	return err == nil && flag == "true"
}

// ClearUserInfo removes the structured record and every scalar duplicate.
func (s *Store) ClearUserInfo(ctx context.Context, sid string) error {
	return s.storage.Delete(ctx, sid, userFields...)
}

// RecordLogin sets the legacy authenticated flag and the per-role last-login
// marker.
func (s *Store) RecordLogin(ctx context.Context, sid string, isAdmin bool, at time.Time) error {
	marker := fieldUserLastLogin
	if isAdmin {
		marker = fieldAdminLastLogin
	}
	return s.storage.SetAll(ctx, sid, map[string]string{
		fieldIsAuthenticated: "true",
		marker:               at.UTC().Format(time.RFC3339),
	})
}

// Logout removes the token, the cached identity, and the legacy flags.
func (s *Store) Logout(ctx context.Context, sid string) error {
	fields := append([]string{fieldToken, fieldIsAuthenticated}, userFields...)
	return s.storage.Delete(ctx, sid, fields...)
}

// Destroy is an alias kept next to Logout for callers that tear sessions
// down without the logout flow (e.g. expired cookies).
func (s *Store) Destroy(ctx context.Context, sid string) error {
	fields, err := s.storage.GetAll(ctx, sid)
	if err != nil {
		return s.Logout(ctx, sid)
	}
	if len(fields) == 0 {
		return nil
	}
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	return s.storage.Delete(ctx, sid, names...)
}
