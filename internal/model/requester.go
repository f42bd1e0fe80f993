package model

import "github.com/google/uuid"

// Requester is the resolved identity a request runs on behalf of.
// A nil *Requester means the request is anonymous.
type Requester struct {
	ID       uuid.UUID
	AdminOf  IDSet
	MemberOf IDSet
}

func (c CachedUser) Requester() *Requester {
	return &Requester{
		ID:       c.ID,
		AdminOf:  c.AdminOf.Clone(),
		MemberOf: c.JoinedClubs.Clone(),
	}
}

func (r *Requester) Authenticated() bool {
	return r != nil && r.ID != uuid.Nil
}

func (r *Requester) Is(id uuid.UUID) bool {
	return r.Authenticated() && r.ID == id
}
