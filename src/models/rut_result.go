package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// RutResult is a stored outcome of a RUT lookup
type RutResult struct {
	ID        uuid.UUID       `json:"_id"`
	Rut       string          `json:"rut"`
	CreatedBy uuid.UUID       `json:"createdBy"`
	Data      json.RawMessage `json:"data"` // any JSON value; null when absent
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// RutResultUpdate is a partial update; nil fields are left untouched
type RutResultUpdate struct {
	Rut  *string
	Data json.RawMessage
}

// IsEmpty reports whether the update changes nothing
func (u RutResultUpdate) IsEmpty() bool {
	return u.Rut == nil && u.Data == nil
}
