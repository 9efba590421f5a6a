package service

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/dkhmelev/storefront/internal/logger"
	"github.com/dkhmelev/storefront/internal/model"
)

// ProfileUpdate carries a partial edit. Nil fields keep their prior
// values.
type ProfileUpdate struct {
	Name           *string
	Email          *string
	Phone          *string
	Address        *string
	Gender         *string
	ProfilePicture *string
}

// ProfileEditor mutates the logged-in user's profile. Writes are
// optimistic: memory updates first and always, the snapshot and the
// account set are persisted best-effort, so the store can briefly lag
// what screens show.
type ProfileEditor struct {
	mu      sync.Mutex
	current model.Profile
	active  bool

	kv        model.KV
	persister *Persister
	logger    *logger.Logger
}

// NewProfileEditor creates a ProfileEditor with no active profile.
func NewProfileEditor(kv model.KV, persister *Persister, l *logger.Logger) *ProfileEditor {
	return &ProfileEditor{kv: kv, persister: persister, logger: l}
}

// SetCurrent installs the active profile. Called on login.
func (e *ProfileEditor) SetCurrent(p model.Profile) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.current = p
	e.active = true
}

// Clear drops the active profile. Called on logout.
func (e *ProfileEditor) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.current = model.Profile{}
	e.active = false
}

// Current returns the active profile, if any.
func (e *ProfileEditor) Current() (model.Profile, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.current, e.active
}

// Update merges the supplied fields into the active profile, persists
// the merged snapshot as the new logged-in user and overwrites the
// matching account (by its pre-edit email) in the stored set. The
// merged profile is returned; storage failures are logged, never
// surfaced, and never block the in-memory update.
func (e *ProfileEditor) Update(ctx context.Context, update ProfileUpdate) (model.Profile, bool) {
	e.mu.Lock()
	if !e.active {
		e.mu.Unlock()
		return model.Profile{}, false
	}

	prevEmail := e.current.Email
	applyUpdate(&e.current, update)
	merged := e.current
	e.persister.Enqueue(model.KeyLoggedInUser, merged)
	e.mu.Unlock()

	e.syncAccount(ctx, prevEmail, merged)

	return merged, true
}

// SetPicture stores a new opaque picture reference on the profile.
func (e *ProfileEditor) SetPicture(ctx context.Context, ref string) (model.Profile, bool) {
	return e.Update(ctx, ProfileUpdate{ProfilePicture: &ref})
}

// syncAccount rewrites the account entry matching prevEmail with the
// merged profile fields. The read is synchronous, the write goes
// through the background queue like every other mutation.
func (e *ProfileEditor) syncAccount(ctx context.Context, prevEmail string, merged model.Profile) {
	value, ok, err := e.kv.Get(ctx, model.KeyUsers)
	if err != nil {
		e.logger.Error("failed to read users for profile sync", "error", err.Error())
		return
	}
	if !ok {
		e.logger.Warn("no stored users to sync profile into", "email", prevEmail)
		return
	}

	var users []model.User
	if err := json.Unmarshal([]byte(value), &users); err != nil {
		e.logger.Error("failed to decode users for profile sync", "error", err.Error())
		return
	}

	for i := range users {
		if users[i].Email != prevEmail {
			continue
		}
		users[i].Email = merged.Email
		users[i].Name = merged.Name
		users[i].Phone = merged.Phone
		users[i].Address = merged.Address
		users[i].Gender = merged.Gender
		users[i].ProfilePicture = merged.ProfilePicture
		e.persister.Enqueue(model.KeyUsers, users)
		return
	}

	e.logger.Warn("no account matched profile email", "email", prevEmail)
}

func applyUpdate(p *model.Profile, u ProfileUpdate) {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Email != nil {
		p.Email = *u.Email
	}
	if u.Phone != nil {
		p.Phone = *u.Phone
	}
	if u.Address != nil {
		p.Address = *u.Address
	}
	if u.Gender != nil {
		p.Gender = *u.Gender
	}
	if u.ProfilePicture != nil {
		p.ProfilePicture = *u.ProfilePicture
	}
}
