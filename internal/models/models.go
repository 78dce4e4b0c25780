package models

import (
	"strings"
	"time"
)

// Roles checked by the authorization guards.
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
)

// Translation holds the localized text of an activity.
type Translation struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Translations carries one Translation per supported locale.
type Translations struct {
	EN *Translation `json:"en,omitempty"`
	AR *Translation `json:"ar,omitempty"`
}

// Activity is the bilingual dated record managed by the API.
type Activity struct {
	ID           string       `json:"_id"`
	Date         string       `json:"date"`
	Pics         []string     `json:"pics"`
	Translations Translations `json:"translations"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// User represents an account allowed to manage activities
type User struct {
	ID        string    `json:"_id"`
	Username  string    `json:"username"`
	Password  string    `json:"-"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// HasRole reports whether the user's role is one of roles.
func (u *User) HasRole(roles ...string) bool {
	if u == nil {
		return false
	}
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}

// Normalize makes sure pics is a list, never nil.
func (a *Activity) Normalize() {
	if a.Pics == nil {
		a.Pics = []string{}
	}
}

// Validate checks the fields the store requires on every save.
func (a *Activity) Validate() error {
	return a.validate(true)
}

// ValidateUpdate checks an activity after a PUT merge. A locale may be absent,
// but one that is present still needs its title and description.
func (a *Activity) ValidateUpdate() error {
	return a.validate(false)
}

func (a *Activity) validate(bothLocales bool) error {
	var missing []string
	if a.Date == "" {
		missing = append(missing, "date")
	}
	for _, l := range []struct {
		t      *Translation
		prefix string
	}{
		{a.Translations.EN, "translations.en"},
		{a.Translations.AR, "translations.ar"},
	} {
		if l.t == nil && !bothLocales {
			continue
		}
		missing = append(missing, l.t.missing(l.prefix)...)
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}

func (t *Translation) missing(prefix string) []string {
	if t == nil {
		return []string{prefix}
	}
	var out []string
	if strings.TrimSpace(t.Title) == "" {
		out = append(out, prefix+".title")
	}
	if strings.TrimSpace(t.Description) == "" {
		out = append(out, prefix+".description")
	}
	return out
}

// ValidationError lists the required fields missing from a document.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "validation failed: missing " + strings.Join(e.Fields, ", ")
}
