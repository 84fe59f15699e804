package domain

import "github.com/google/uuid"

// EntityKind discriminates the entity a task or activity is attached to.
type EntityKind string

const (
	EntityKindNone         EntityKind = ""
	EntityKindContact      EntityKind = "contact"
	EntityKindDeal         EntityKind = "deal"
	EntityKindOrganization EntityKind = "organization"
)

// EntityRef is a tagged reference to a contact, deal, or organization.
// It replaces the source schema's free-form entity_type/entity_id pair so
// that consumers switch on a closed kind set instead of raw strings. The
// zero value means "not attached to anything".
type EntityRef struct {
	Kind EntityKind `gorm:"type:varchar(50);column:entity_type" json:"entityType,omitempty"`
	ID   *uuid.UUID `gorm:"type:uuid;column:entity_id" json:"entityId,omitempty"`
}

// NoRef returns the empty reference.
func NoRef() EntityRef {
	return EntityRef{}
}

// ContactRef returns a reference to a contact.
func ContactRef(id uuid.UUID) EntityRef {
	return EntityRef{Kind: EntityKindContact, ID: &id}
}

// DealRef returns a reference to a deal.
func DealRef(id uuid.UUID) EntityRef {
	return EntityRef{Kind: EntityKindDeal, ID: &id}
}

// OrganizationRef returns a reference to an organization.
func OrganizationRef(id uuid.UUID) EntityRef {
	return EntityRef{Kind: EntityKindOrganization, ID: &id}
}

// IsZero reports whether the reference points at nothing.
func (r EntityRef) IsZero() bool {
	return r.Kind == EntityKindNone || r.ID == nil
}

// Valid reports whether the reference is either empty or a known kind
// with an id.
func (r EntityRef) Valid() bool {
	switch r.Kind {
	case EntityKindNone:
		return r.ID == nil
	case EntityKindContact, EntityKindDeal, EntityKindOrganization:
		return r.ID != nil
	}
	return false
}
