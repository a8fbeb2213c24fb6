package usecase

import "github.com/m-mizutani/goerr/v2"

var (
	// ErrUnauthenticated means no valid session token was presented
	ErrUnauthenticated = goerr.New("authentication required")
	// ErrPermissionDenied means the user is not allowed to touch the board
	ErrPermissionDenied = goerr.New("permission denied")
	// ErrInvalidCredentials means the username/password pair did not match
	ErrInvalidCredentials = goerr.New("invalid username or password")
)
