// Package models defines server-side data models persisted in the database.
package models

import "time"

// Ring is owned by its Bearer and attributed to the user who forged it.
// ID and the timestamps are assigned by the store.
type Ring struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Power     string    `json:"power"`
	Bearer    string    `json:"bearer"`
	ForgedBy  string    `json:"forgedBy"`
	Image     string    `json:"image"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// RingChanges are the fields a full-field update replaces. Authorship is
// immutable, so ForgedBy is not among them.
type RingChanges struct {
	Name   string
	Power  string
	Bearer string
	Image  string
}

// Apply copies the changes onto r, leaving identity, authorship and
// timestamps alone.
func (c RingChanges) Apply(r *Ring) {
	r.Name = c.Name
	r.Power = c.Power
	r.Bearer = c.Bearer
	r.Image = c.Image
}
