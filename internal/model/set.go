package model

import (
	"encoding/json"
	"sort"

	"github.com/google/uuid"
)

// IDSet is an unordered set of identifiers. It travels as a JSON array.
type IDSet map[uuid.UUID]struct{}

func NewIDSet(ids ...uuid.UUID) IDSet {
	set := make(IDSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func (s IDSet) Has(id uuid.UUID) bool {
	_, ok := s[id]
	return ok
}

// Add reports whether id was absent before the call.
func (s IDSet) Add(id uuid.UUID) bool {
	if s.Has(id) {
		return false
	}
	s[id] = struct{}{}
	return true
}

// Remove reports whether id was present before the call.
func (s IDSet) Remove(id uuid.UUID) bool {
	if !s.Has(id) {
		return false
	}
	delete(s, id)
	return true
}

func (s IDSet) Len() int {
	return len(s)
}

// Slice returns the members sorted by their string form so output is stable.
func (s IDSet) Slice() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return ids[i].String() < ids[j].String()
	})
	return ids
}

func (s IDSet) Strings() []string {
	ids := s.Slice()
	result := make([]string, len(ids))
	for i, id := range ids {
		result[i] = id.String()
	}
	return result
}

func (s IDSet) Clone() IDSet {
	clone := make(IDSet, len(s))
	for id := range s {
		clone[id] = struct{}{}
	}
	return clone
}

func (s IDSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Slice())
}

func (s *IDSet) UnmarshalJSON(data []byte) error {
	var ids []uuid.UUID
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	*s = NewIDSet(ids...)
	return nil
}
