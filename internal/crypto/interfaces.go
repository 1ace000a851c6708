package crypto

//go:generate mockgen -source=interfaces.go -destination=../mock/crypto_mock.go -package=mock

// PasswordHasher turns plaintext passwords into self-describing one-way
// hashes and checks candidates against them.
type PasswordHasher interface {
	// Hash returns an encoded hash of plaintext with a fresh random salt.
	Hash(plaintext string) (string, error)

	// Verify reports whether plaintext matches encodedHash. A mismatch is
	// (false, nil). A hash produced by some other algorithm is reported as
	// [ErrUnrecognizedHashFormat] so the caller can try a legacy verifier.
	Verify(encodedHash, plaintext string) (bool, error)

	// NeedsRehash reports whether encodedHash was produced with parameters
	// weaker than the ones currently configured, or is not a hash of this
	// algorithm at all.
	NeedsRehash(encodedHash string) bool
}

// LegacyVerifier checks passwords against hashes of an algorithm that is
// kept only so existing accounts can still sign in and be upgraded.
type LegacyVerifier interface {
	// Recognizes reports whether encodedHash looks like a hash this verifier
	// understands.
	Recognizes(encodedHash string) bool

	// Verify has the same contract as [PasswordHasher.Verify].
	Verify(encodedHash, plaintext string) (bool, error)
}

// Sealer encrypts and authenticates small values that are handed to an
// untrusted holder and must come back unmodified.
type Sealer interface {
	// Seal serializes data to JSON and returns the encrypted blob as
	// URL-safe base64.
	Seal(data any) (string, error)

	// Open decrypts a blob produced by Seal into target, which must be a
	// non-nil pointer.
	Open(sealed string, target any) error
}
