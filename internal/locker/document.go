package locker

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/google/uuid"
)

// SchemaVersion is stamped on the document by the load-time normalize pass.
const SchemaVersion = 1

// Unclaimed is the usedBy value of a key that no email has logged in with yet.
const Unclaimed = "Unclaimed"

// MasterKeyMarker is recorded as the key of registrations created through a
// master-key login, instead of the configured master key value itself.
const MasterKeyMarker = "MASTER_KEY"

// DeveloperRole is the single role granted on any successful login.
const DeveloperRole = "Developer Access"

// AccessKey is a bearer credential with an expiry. usedBy transitions from
// Unclaimed to exactly one email on first login and never changes again;
// expiresAt is rewritten by the admin expire/extend operations.
type AccessKey struct {
	Key       string     `json:"key"`
	ExpiresAt time.Time  `json:"expiresAt"`
	Duration  int        `json:"duration"`
	UsedBy    string     `json:"usedBy"`
	CreatedAt time.Time  `json:"createdAt"`
	UsedDate  *time.Time `json:"usedDate,omitempty"`
}

// Registration records the first successful login of an email. There is at
// most one entry per email, ever; repeat logins do not add more.
type Registration struct {
	Email    string    `json:"email"`
	Key      string    `json:"key"`
	UsedDate time.Time `json:"usedDate"`
}

// File is a single stored file inside a project. PublicID is the opaque
// identifier used by the raw-content link.
type File struct {
	Name     string            `json:"name"`
	Content  string            `json:"content"`
	PublicID string            `json:"publicId"`
	History  []json.RawMessage `json:"history"`
}

// Project lives in exactly one owner's collection; collaborators reference
// it by email without owning it. ID is the client-assigned internal id used
// for reconciliation; PublicID is the stable random identifier used in
// public links.
type Project struct {
	ID            string   `json:"id"`
	PublicID      string   `json:"publicId"`
	Name          string   `json:"name"`
	Owner         string   `json:"owner"`
	Collaborators []string `json:"collaborators"`
	Files         []File   `json:"files"`
}

// Settings is the free-form per-user settings object. It is replaced
// wholesale on save, never merged.
type Settings map[string]any

// Document is the sole persisted aggregate; it owns all entities
// transitively and is rewritten through the store backend on every mutation.
type Document struct {
	SchemaVersion int                  `json:"schemaVersion"`
	APIKeys       []AccessKey          `json:"apiKeys"`
	Projects      map[string][]Project `json:"projects"`
	Settings      map[string]Settings  `json:"settings"`
	Registrations []Registration       `json:"registrations"`
}

// NewDocument returns an empty document with all containers initialized.
func NewDocument() *Document {
	return &Document{
		SchemaVersion: SchemaVersion,
		APIKeys:       []AccessKey{},
		Projects:      map[string][]Project{},
		Settings:      map[string]Settings{},
		Registrations: []Registration{},
	}
}

// normalize is the one-time migration run after load. It initializes missing
// containers and backfills identifiers that older documents lack: project
// publicId and owner, file publicId and history. Reports whether anything
// changed so the caller can persist the migrated document.
func (d *Document) normalize() bool {
	changed := false
	if d.APIKeys == nil {
		d.APIKeys = []AccessKey{}
		changed = true
	}
	if d.Projects == nil {
		d.Projects = map[string][]Project{}
		changed = true
	}
	if d.Settings == nil {
		d.Settings = map[string]Settings{}
		changed = true
	}
	if d.Registrations == nil {
		d.Registrations = []Registration{}
		changed = true
	}
	for email, list := range d.Projects {
		for i := range list {
			if list[i].Owner == "" {
				list[i].Owner = email
				changed = true
			}
			if list[i].backfill() {
				changed = true
			}
		}
	}
	if d.SchemaVersion != SchemaVersion {
		d.SchemaVersion = SchemaVersion
		changed = true
	}
	return changed
}

// backfill assigns missing public identifiers and history containers.
// It does not touch Owner; ownership stamping is context-dependent.
func (p *Project) backfill() bool {
	changed := false
	if p.PublicID == "" {
		p.PublicID = uuid.NewString()
		changed = true
	}
	for i := range p.Files {
		f := &p.Files[i]
		if f.PublicID == "" {
			f.PublicID = uuid.NewString()
			changed = true
		}
		if f.History == nil {
			f.History = []json.RawMessage{}
			changed = true
		}
	}
	return changed
}

func (p Project) hasCollaborator(email string) bool {
	for _, c := range p.Collaborators {
		if c == email {
			return true
		}
	}
	return false
}

// clone returns a deep enough copy that callers can hold it outside the
// store lock without observing later mutations. Empty slices stay empty
// rather than collapsing to nil, so the backfilled "history": [] survives
// serialization.
func (p Project) clone() Project {
	out := p
	if p.Collaborators != nil {
		out.Collaborators = append(make([]string, 0, len(p.Collaborators)), p.Collaborators...)
	}
	if p.Files != nil {
		out.Files = append(make([]File, 0, len(p.Files)), p.Files...)
	}
	for i := range out.Files {
		if h := p.Files[i].History; h != nil {
			out.Files[i].History = append(make([]json.RawMessage, 0, len(h)), h...)
		}
	}
	return out
}

func (d *Document) findKey(key string) *AccessKey {
	for i := range d.APIKeys {
		if d.APIKeys[i].Key == key {
			return &d.APIKeys[i]
		}
	}
	return nil
}

// ensureRegistration records the first login of an email. Idempotent.
func (d *Document) ensureRegistration(email, key string, now time.Time) bool {
	for _, reg := range d.Registrations {
		if reg.Email == email {
			return false
		}
	}
	d.Registrations = append(d.Registrations, Registration{
		Email:    email,
		Key:      key,
		UsedDate: now,
	})
	return true
}

// sortedProjectEmails returns the project-collection emails in a stable
// order. The document's map has no inherent order, so "as stored" iteration
// is pinned to sorted emails.
func (d *Document) sortedProjectEmails() []string {
	emails := make([]string, 0, len(d.Projects))
	for email := range d.Projects {
		emails = append(emails, email)
	}
	sort.Strings(emails)
	return emails
}
