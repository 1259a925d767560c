package testutil

// FixedSessionIDs hands out the same session id on every call, so journal rows
// and golden output do not depend on the wall clock.
type FixedSessionIDs struct {
	id string
}

// NewFixedSessionIDs returns a generator for id, or "test-session" when id is
// empty.
func NewFixedSessionIDs(id string) *FixedSessionIDs {
	if id == "" {
		id = "test-session"
	}
	return &FixedSessionIDs{id: id}
}

// Generate returns the fixed id.
func (g *FixedSessionIDs) Generate() string {
	return g.id
}
