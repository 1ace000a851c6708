package crypto

import "errors"

var (
	// ErrUnrecognizedHashFormat is returned when a stored hash was not
	// produced by the verifier it was handed to.
	ErrUnrecognizedHashFormat = errors.New("unrecognized password hash format")

	// ErrInvalidSealKey is returned when a sealer key is not 32 bytes long.
	ErrInvalidSealKey = errors.New("seal key must be 32 bytes")

	// ErrSealedDataCorrupted is returned when a sealed blob fails to decode
	// or its authentication tag does not match.
	ErrSealedDataCorrupted = errors.New("sealed data is corrupted or was not produced by this key")
)
