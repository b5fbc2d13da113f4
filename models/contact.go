package models

import "time"

// SelfContactNickname is the nickname of the synthetic self entry returned
// first by contact listings. The self entry is always mutual and is never
// stored as a row.
const SelfContactNickname = "Moi"

// Contact is a one-directional address-book entry: the owner knows the
// target under a nickname. The pair (owner, target) is unique.
//
// Mutuality is derived, never stored: a contact is mutual iff the reverse
// row (target → owner) also exists at the moment of the check.
type Contact struct {
	ContactID     int64     `json:"id"`
	OwnerID       int64     `json:"user_id"`
	ContactUserID int64     `json:"contact_user_id"`
	Nickname      string    `json:"nickname"`
	Action        string    `json:"action,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the Contact model.
func (c Contact) TableName() string {
	return "contacts"
}

// ContactUpdate carries a partial update of a contact. Only the nickname
// and the free-text action are mutable; the (owner, target) pair is fixed
// for the lifetime of the row.
type ContactUpdate struct {
	ContactID int64   `json:"id"`
	Nickname  *string `json:"nickname,omitempty"`
	Action    *string `json:"action,omitempty"`
}

// ContactView is a contact annotated with its derived mutuality, as
// returned by contact listings.
type ContactView struct {
	Contact
	IsMutual bool `json:"is_mutual"`
	IsSelf   bool `json:"is_self,omitempty"`
}
