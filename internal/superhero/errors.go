package superhero

import "errors"

var (
	// ErrDuplicateName is returned by the repository when the unique name index rejects an insert.
	ErrDuplicateName = errors.New("superhero name already exists")
)

// Client-facing messages.
const (
	MsgCreated          = "A new humble hero joins the ranks!"
	MsgDuplicateName    = "A superhero with this name already exists"
	MsgNoMatches        = "No superheroes found matching your criteria"
	MsgNotFound         = "Superhero not found"
	MsgValidationFailed = "Validation failed"
	MsgDatabaseError    = "Internal database error"
)
