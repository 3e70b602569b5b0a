package handler

import (
	"strings"
	"time"

	"github.com/OscarGAV/eventrely-backend/internal/errs"
	"github.com/OscarGAV/eventrely-backend/internal/model"
)

// ----- requests -----

type signUpReq struct {
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Role     string  `json:"role"`
	FullName *string `json:"full_name"`
}

type signInReq struct {
	UsernameOrEmail string `json:"username_or_email"`
	Password        string `json:"password"`
}

type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

type changePasswordReq struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

type updateProfileReq struct {
	FullName *string `json:"full_name"`
	Email    *string `json:"email"`
}

type createEventReq struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	EventDate   string  `json:"event_date"`
}

type updateEventReq struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	EventDate   *string `json:"event_date"`
}

// ----- responses -----

type userResp struct {
	ID        uint64    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FullName  *string   `json:"full_name"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type authResp struct {
	User         userResp `json:"user"`
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	TokenType    string   `json:"token_type"`
}

type tokenResp struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type eventResp struct {
	ID          uint64    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	EventDate   time.Time `json:"event_date"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type eventListResp struct {
	Events []eventResp `json:"events"`
	Total  int         `json:"total"`
}

const tokenTypeBearer = "Bearer"

func toUserResp(u *model.User) userResp {
	return userResp{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FullName:  u.FullName,
		Role:      u.Role.String(),
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt.UTC(),
		UpdatedAt: u.UpdatedAt.UTC(),
	}
}

func toEventResp(e *model.Event) eventResp {
	return eventResp{
		ID:          e.ID,
		UserID:      e.UserID,
		Title:       e.Title,
		Description: e.Description,
		EventDate:   e.EventDate.UTC(),
		Status:      string(e.Status),
		CreatedAt:   e.CreatedAt.UTC(),
		UpdatedAt:   e.UpdatedAt.UTC(),
	}
}

func toEventList(events []*model.Event) eventListResp {
	out := eventListResp{Events: make([]eventResp, 0, len(events)), Total: len(events)}
	for _, e := range events {
		out.Events = append(out.Events, toEventResp(e))
	}
	return out
}

// naiveLayouts are accepted when the client sends no zone; they read as UTC.
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// parseEventDate accepts RFC 3339 or a zone-less timestamp.
func parseEventDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errs.Validation("event_date is required")
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errs.Validation("event_date must be an ISO 8601 timestamp")
}

// parseDay reads a YYYY-MM-DD path segment as a UTC day.
func parseDay(s string) (time.Time, error) {
	t, err := time.ParseInLocation(time.DateOnly, s, time.UTC)
	if err != nil {
		return time.Time{}, errs.Validation("date must be formatted as YYYY-MM-DD")
	}
	return t, nil
}
