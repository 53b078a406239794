package sqids

import "errors"

// Configuration errors. New wraps each of these in ErrInvalidConfig.
var (
	// ErrInvalidConfig is returned by New for any rejected Options.
	ErrInvalidConfig = errors.New("invalid sqids configuration")

	// ErrAlphabetMultibyte is returned when the alphabet holds a multi-byte character.
	ErrAlphabetMultibyte = errors.New("alphabet cannot contain multibyte characters")

	// ErrAlphabetTooShort is returned when the alphabet has fewer than 3 symbols.
	ErrAlphabetTooShort = errors.New("alphabet length must be at least 3")

	// ErrAlphabetNotUnique is returned when a symbol appears more than once.
	ErrAlphabetNotUnique = errors.New("alphabet must contain unique characters")

	// ErrMinLengthRange is returned when MinLength is outside [0, 255].
	ErrMinLengthRange = errors.New("minimum length has to be between 0 and 255")
)

// Encoding errors.
var (
	// ErrOutOfRange is returned when a number cannot be represented, such as a
	// negative input to EncodeInt64.
	ErrOutOfRange = errors.New("number out of encodable range")

	// ErrMaxAttempts is returned when every rotation of the alphabet produced a
	// blocked id.
	ErrMaxAttempts = errors.New("reached max attempts to re-generate the id")
)
