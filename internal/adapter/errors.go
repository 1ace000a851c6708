package adapter

import "errors"

var (
	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("client unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
	ErrTooManyRequests     = errors.New("too many requests")
	ErrBadGateway          = errors.New("bad gateway")
	ErrInternalServerError = errors.New("internal server error")

	ErrMissingAPIKey       = errors.New("summarizer api key is not configured")
	ErrTranscriberDisabled = errors.New("transcriber url is not configured")
	ErrEmptyInput          = errors.New("nothing to process")
	ErrEmptyResponse       = errors.New("service returned no content")
	ErrAudioFileNotFound   = errors.New("audio file not found")
)
