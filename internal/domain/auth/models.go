package auth

// Actor is a resolved, authenticated identity. The zero Actor means "no
// identity"; guarded operations translate it to an unauthorized failure.
type Actor struct {
	ID       int64
	Username string
	IsAdmin  bool
}

// Resolved reports whether the actor carries a real identity.
func (a Actor) Resolved() bool {
	return a.ID > 0
}
