package locker

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"
)

const keyPrefix = "sk_live_"

// maxKeyAttempts bounds the retry loop when a freshly generated key string
// collides with an existing one.
const maxKeyAttempts = 5

func newKeyString() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return keyPrefix + base64.URLEncoding.EncodeToString(b), nil
}

// GenerateKey creates an unclaimed access key valid for durationDays from
// now and returns it together with the full key list.
func (s *Store) GenerateKey(durationDays int) (AccessKey, []AccessKey, error) {
	if durationDays <= 0 {
		return AccessKey{}, nil, ErrBadRequest
	}

	var created AccessKey
	var all []AccessKey
	err := s.Update(func(d *Document) error {
		var key string
		for attempt := 0; attempt < maxKeyAttempts; attempt++ {
			k, err := newKeyString()
			if err != nil {
				return err
			}
			if d.findKey(k) == nil {
				key = k
				break
			}
		}
		if key == "" {
			return errors.New("could not generate a unique key")
		}

		now := time.Now()
		created = AccessKey{
			Key:       key,
			ExpiresAt: now.Add(time.Duration(durationDays) * 24 * time.Hour),
			Duration:  durationDays,
			UsedBy:    Unclaimed,
			CreatedAt: now,
		}
		d.APIKeys = append(d.APIKeys, created)
		all = append([]AccessKey(nil), d.APIKeys...)
		return nil
	})
	return created, all, err
}

// ExpireKey invalidates a key immediately by moving its expiry to yesterday.
func (s *Store) ExpireKey(key string) error {
	return s.Update(func(d *Document) error {
		rec := d.findKey(key)
		if rec == nil {
			return ErrNotFound
		}
		rec.ExpiresAt = time.Now().Add(-24 * time.Hour)
		return nil
	})
}

// ExtendKey recomputes the expiry as durationDays from now, overwriting the
// stored duration.
func (s *Store) ExtendKey(key string, durationDays int) error {
	if durationDays <= 0 {
		return ErrBadRequest
	}
	return s.Update(func(d *Document) error {
		rec := d.findKey(key)
		if rec == nil {
			return ErrNotFound
		}
		rec.ExpiresAt = time.Now().Add(time.Duration(durationDays) * 24 * time.Hour)
		rec.Duration = durationDays
		return nil
	})
}

// ValidateLogin resolves a presented key+email pair to a claim and returns
// the granted role.
//
// The master key always succeeds, for any number of distinct emails, and
// never expires. A regular key binds to the first email that logs in with
// it; later logins must present the same email. Either path records a
// registration for the email at most once.
func (s *Store) ValidateLogin(key, email string) (string, error) {
	if email == "" {
		return "", ErrBadRequest
	}
	if key == "" {
		return "", ErrInvalidKey
	}

	err := s.Update(func(d *Document) error {
		now := time.Now()

		if s.masterKey != "" && key == s.masterKey {
			d.ensureRegistration(email, MasterKeyMarker, now)
			return nil
		}

		rec := d.findKey(key)
		if rec == nil {
			return ErrInvalidKey
		}
		if now.After(rec.ExpiresAt) {
			return ErrKeyExpired
		}

		switch rec.UsedBy {
		case Unclaimed:
			rec.UsedBy = email
			used := now
			rec.UsedDate = &used
			d.ensureRegistration(email, key, now)
		case email:
			// idempotent re-login
		default:
			return ErrKeyMismatch
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return DeveloperRole, nil
}

// Keys returns a copy of the full key list.
func (s *Store) Keys() []AccessKey {
	var out []AccessKey
	s.View(func(d *Document) {
		out = append([]AccessKey{}, d.APIKeys...)
	})
	return out
}

// Registrations returns a copy of the full registration list.
func (s *Store) Registrations() []Registration {
	var out []Registration
	s.View(func(d *Document) {
		out = append([]Registration{}, d.Registrations...)
	})
	return out
}
