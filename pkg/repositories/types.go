package repositories

// ErrNotFound reports a game record that does not exist. The HTTP API
// maps it to a 404 instead of a server error.
type ErrNotFound struct {
}

func (e *ErrNotFound) Error() string {
	return "not found"
}

// IsNotFound reports whether an error is an ErrNotFound.
func IsNotFound(err error) bool {
	_, ok := err.(*ErrNotFound)
	return ok
}
