package apperror

import "errors"

var (
	ErrInvalidCell = errors.New("invalid cell index")

	ErrMarkerNotFound   = errors.New("marker not found")
	ErrDrawingNotFound  = errors.New("drawing not found")
	ErrUnknownMode      = errors.New("unknown map mode")
	ErrUnknownLayer     = errors.New("unknown base layer")
	ErrUnknownDirection = errors.New("unknown pan direction")

	ErrEmptyQuery             = errors.New("search query is empty")
	ErrLocationNotFound       = errors.New("location not found")
	ErrSearchInProgress       = errors.New("search already in progress")
	ErrGeolocationUnavailable = errors.New("geolocation is not supported")

	ErrUnknownCommand = errors.New("unknown command")
)
