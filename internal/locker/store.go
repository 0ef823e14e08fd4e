package locker

import (
	"log"
	"sync"
)

// Backend persists the whole document. Implementations must make Save
// atomic with respect to crashes: either the previous document or the new
// one is readable afterwards, never a torn write.
type Backend interface {
	Load() (*Document, error)
	Save(*Document) error
	Close() error
}

// Store owns the in-process document and enforces a single-writer
// discipline: every read and mutation runs under one mutex, and a mutation
// and its persist happen inside the same critical section. Handlers never
// touch the document directly.
type Store struct {
	mu        sync.Mutex
	doc       *Document
	backend   Backend
	masterKey string
}

// Open loads the document from the backend and runs the normalize
// migration. An unreadable document is discarded and replaced with an empty
// one; the master key stays valid either way.
func Open(backend Backend, masterKey string) *Store {
	doc, err := backend.Load()
	if err != nil {
		log.Printf("locker: discarding unreadable document, starting fresh: %v", err)
		doc = NewDocument()
	}
	if doc.normalize() {
		if err := backend.Save(doc); err != nil {
			log.Printf("locker: failed to persist migrated document: %v", err)
		}
	}
	return &Store{doc: doc, backend: backend, masterKey: masterKey}
}

// View runs fn with read access to the document under the store lock.
// fn must not retain references into the document.
func (s *Store) View(fn func(d *Document)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.doc)
}

// Update runs fn under the store lock and persists the document if fn
// succeeds. A failed persist is logged and swallowed: the in-memory
// document remains authoritative for the life of the process.
func (s *Store) Update(fn func(d *Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := fn(s.doc); err != nil {
		return err
	}
	if err := s.backend.Save(s.doc); err != nil {
		log.Printf("locker: persist failed, in-memory and on-disk state may diverge: %v", err)
	}
	return nil
}

// Close releases the backend.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.backend.Close()
}
