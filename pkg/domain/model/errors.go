package model

import "github.com/m-mizutani/goerr/v2"

// ErrNotFound is the sentinel for any lookup of a missing record. Repository
// implementations wrap it with entity context; callers check it with
// errors.Is regardless of backend.
var ErrNotFound = goerr.New("record not found")

// ErrValidation is the sentinel for rejected input. The bot gateway maps it
// to a re-prompt without a state transition.
var ErrValidation = goerr.New("validation failed")
