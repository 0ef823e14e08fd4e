package locker

// ResolveRawFile looks a file up by its public link pair across all users'
// project collections and returns the exact stored content. Matching is by
// opaque public IDs only; names play no part.
func (s *Store) ResolveRawFile(projectPublicID, filePublicID string) (string, bool) {
	var content string
	found := false
	s.View(func(d *Document) {
		content, found = d.findRawFile(projectPublicID, filePublicID)
	})
	return content, found
}

func (d *Document) findRawFile(projectPublicID, filePublicID string) (string, bool) {
	for _, email := range d.sortedProjectEmails() {
		for _, p := range d.Projects[email] {
			if p.PublicID != projectPublicID {
				continue
			}
			for _, f := range p.Files {
				if f.PublicID == filePublicID {
					return f.Content, true
				}
			}
		}
	}
	return "", false
}
