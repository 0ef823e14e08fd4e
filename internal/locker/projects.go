package locker

import (
	"log"
	"maps"
)

// UserData is the merged view a client works against: the email's own
// projects followed by projects shared with it, plus its settings.
type UserData struct {
	Projects []Project `json:"projects"`
	Settings Settings  `json:"settings"`
}

// UserData returns the union of the email's own projects (owner-stamped)
// and every other user's project that lists the email as a collaborator,
// each tagged with the true owner. Own projects come first; shared projects
// follow in sorted order of the owning emails. Settings are returned
// verbatim, an empty object if none. An empty email yields empty data.
func (s *Store) UserData(email string) UserData {
	out := UserData{Projects: []Project{}, Settings: Settings{}}
	if email == "" {
		return out
	}
	s.View(func(d *Document) {
		for _, p := range d.Projects[email] {
			own := p.clone()
			own.Owner = email
			out.Projects = append(out.Projects, own)
		}
		for _, other := range d.sortedProjectEmails() {
			if other == email {
				continue
			}
			for _, p := range d.Projects[other] {
				if !p.hasCollaborator(email) {
					continue
				}
				shared := p.clone()
				shared.Owner = other
				out.Projects = append(out.Projects, shared)
			}
		}
		if st, ok := d.Settings[email]; ok {
			out.Settings = maps.Clone(st)
		}
	})
	return out
}

// SaveUserData pushes a client's merged local view back into the document.
//
// Settings, if present, replace the stored settings wholesale. Incoming
// projects are backfilled, then partitioned: projects with no owner or
// owned by the email replace the email's entire collection; foreign-owned
// projects are written back into the true owner's collection, matched by
// internal id. A nil projects slice leaves the stored projects untouched.
func (s *Store) SaveUserData(email string, projects []Project, settings Settings) error {
	if email == "" {
		return ErrBadRequest
	}
	return s.Update(func(d *Document) error {
		if settings != nil {
			d.Settings[email] = settings
		}
		if projects == nil {
			return nil
		}

		for i := range projects {
			projects[i].backfill()
		}

		owned := []Project{}
		for _, p := range projects {
			if p.Owner == "" || p.Owner == email {
				p.Owner = email
				owned = append(owned, p)
				continue
			}
			d.reconcileShared(p)
		}
		d.Projects[email] = owned
		return nil
	})
}

// reconcileShared writes a collaborator's copy of a foreign-owned project
// back into the owner's stored collection. A missing collection or an
// unmatched id is repaired by upserting so the collaborator's edit is never
// dropped.
func (d *Document) reconcileShared(p Project) {
	list := d.Projects[p.Owner]
	for i := range list {
		if list[i].ID == p.ID {
			list[i] = p
			return
		}
	}
	if len(list) == 0 {
		log.Printf("locker: recreating missing project collection for owner %s", p.Owner)
	} else {
		log.Printf("locker: project %s not found in collection of %s, appending", p.ID, p.Owner)
	}
	d.Projects[p.Owner] = append(list, p)
}
