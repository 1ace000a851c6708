package models

// Account is a registered VaultScribe user as stored in the accounts table.
type Account struct {
	// ID is assigned by the database on insert.
	ID int64 `json:"id"`

	// Email is unique across all accounts and compared case-sensitively.
	Email string `json:"email"`

	// PasswordHash is the encoded hasher output. It is never plaintext and
	// never leaves the process through JSON.
	PasswordHash string `json:"-"`

	// TOTPSecret is the base32 second-factor secret. Nil until enrollment
	// completes (only possible for accounts created by older versions).
	TOTPSecret *string `json:"-"`
}

// HasSecondFactor reports whether the account has a usable TOTP secret.
func (a Account) HasSecondFactor() bool {
	return a.TOTPSecret != nil && *a.TOTPSecret != ""
}

// TableName returns the name of the database table associated with Account.
func (a Account) TableName() string {
	return "accounts"
}
