package model

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
)

var ErrInvalidRef = errors.New("reference must be an id or an object with an id")

// Referable is implemented by the summaries a Ref can expand into.
type Referable interface {
	RefID() uuid.UUID
}

// Ref points at another entity. On the wire it is either a bare id or the
// expanded entity; everything past decoding works with ID only.
type Ref[T Referable] struct {
	ID       uuid.UUID
	Expanded *T
}

func RefTo[T Referable](id uuid.UUID) Ref[T] {
	return Ref[T]{ID: id}
}

func ExpandedRef[T Referable](entity T) Ref[T] {
	return Ref[T]{ID: entity.RefID(), Expanded: &entity}
}

func (r Ref[T]) IsExpanded() bool {
	return r.Expanded != nil
}

func (r Ref[T]) MarshalJSON() ([]byte, error) {
	if r.Expanded != nil {
		return json.Marshal(r.Expanded)
	}
	return json.Marshal(r.ID)
}

func (r *Ref[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = Ref[T]{}
		return nil
	}

	if data[0] == '"' {
		var id uuid.UUID
		if err := json.Unmarshal(data, &id); err != nil {
			return ErrInvalidRef
		}
		*r = Ref[T]{ID: id}
		return nil
	}

	var entity T
	if err := json.Unmarshal(data, &entity); err != nil {
		return ErrInvalidRef
	}
	if entity.RefID() == uuid.Nil {
		return ErrInvalidRef
	}
	*r = ExpandedRef(entity)
	return nil
}
