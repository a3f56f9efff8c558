// Package staging holds registration payloads between form submission and OTP
// confirmation. Entries are ephemeral: they live in process memory with a TTL
// and are deleted once a registration finalizes. Nothing here ever reaches
// the database.
package staging

import (
	"time"

	"github.com/bridgeit/bridgeit-api/internal/models"
	gocache "github.com/patrickmn/go-cache"
)

const cleanupInterval = time.Minute

// PendingStore is a TTL store for pending registrations, keyed by the
// role-derived staging key plus the applicant's email. The role-specific key
// prefix keeps concurrent registrations for different roles isolated: a
// student submission and a faculty submission for the same email occupy
// different slots and never overwrite each other.
type PendingStore struct {
	cache *gocache.Cache
	ttl   time.Duration
}

// NewPendingStore creates a store whose entries expire after ttl.
func NewPendingStore(ttlMinutes int) *PendingStore {
	ttl := time.Duration(ttlMinutes) * time.Minute
	return &PendingStore{
		cache: gocache.New(ttl, cleanupInterval),
		ttl:   ttl,
	}
}

// Put stages a payload, overwriting any previous pending registration under
// the same role and email.
func (s *PendingStore) Put(pending *models.PendingRegistration) {
	pending.StagedAt = time.Now()
	s.cache.Set(key(pending.Role, pending.Email), pending, s.ttl)
}

// Get returns the staged payload for a role and email, if one is live.
func (s *PendingStore) Get(role models.Role, email string) (*models.PendingRegistration, bool) {
	val, found := s.cache.Get(key(role, email))
	if !found {
		return nil, false
	}
	pending, ok := val.(*models.PendingRegistration)
	if !ok {
		return nil, false
	}
	return pending, true
}

// Delete removes a staged payload. Called on successful finalize; a failed
// finalize leaves the entry in place until its TTL runs out so the user can
// retry after a fresh OTP round.
func (s *PendingStore) Delete(role models.Role, email string) {
	s.cache.Delete(key(role, email))
}

// Len returns the number of live entries, expired ones included until the
// janitor sweeps them.
func (s *PendingStore) Len() int {
	return s.cache.ItemCount()
}

func key(role models.Role, email string) string {
	return role.StagingKeyPrefix() + ":" + email
}
