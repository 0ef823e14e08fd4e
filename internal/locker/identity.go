package locker

import "strings"

// UserMatch is one search result: a registered email and a display name.
type UserMatch struct {
	Email    string `json:"email"`
	Username string `json:"username"`
}

// SearchUsers matches the query as a case-insensitive substring against all
// registered emails. An empty query yields an empty result, never the full
// registration list.
func (s *Store) SearchUsers(query string) []UserMatch {
	out := []UserMatch{}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return out
	}
	s.View(func(d *Document) {
		for _, reg := range d.Registrations {
			if !strings.Contains(strings.ToLower(reg.Email), q) {
				continue
			}
			out = append(out, UserMatch{
				Email:    reg.Email,
				Username: d.usernameFor(reg.Email),
			})
		}
	})
	return out
}

// usernameFor prefers the settings-stored username and falls back to the
// local part of the email.
func (d *Document) usernameFor(email string) string {
	if st, ok := d.Settings[email]; ok {
		if name, ok := st["username"].(string); ok && name != "" {
			return name
		}
	}
	if i := strings.Index(email, "@"); i > 0 {
		return email[:i]
	}
	return email
}
