package session

import "github.com/google/uuid"

// IDGenerator produces session ids.
type IDGenerator interface {
	Generate() string
}

// UUIDv7Generator produces time-sortable UUIDv7 session ids, so journal
// sessions list in creation order.
type UUIDv7Generator struct{}

// Generate returns a new hyphenated UUIDv7.
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}
