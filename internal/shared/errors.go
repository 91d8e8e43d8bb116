package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrAuthFailed = fmt.Errorf("authentication failed")

	// API and service errors
	ErrAPIRequest       = fmt.Errorf("API request failed")
	ErrPlaylistNotFound = fmt.Errorf("playlist not found")
	ErrRunNotFound      = fmt.Errorf("run not found")

	// Pipeline errors
	ErrNoCandidates   = fmt.Errorf("no search candidates")
	ErrDownloadFailed = fmt.Errorf("download failed")
	ErrNoThumbnail    = fmt.Errorf("no thumbnail available")
	ErrTaskPanic      = fmt.Errorf("task panicked")

	// Input validation errors
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
