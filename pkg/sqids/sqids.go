// Package sqids generates short, non-sequential ids from sequences of
// non-negative integers and decodes them back.
//
// Ids are not encrypted: anyone holding the alphabet can decode them. They are
// meant for hiding row numbers and counters in public URLs, not for secrets.
package sqids

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"
)

const (
	// defaultAlphabet holds the 62 ASCII letters and digits.
	defaultAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	minAlphabetLength = 3
	maxMinLength      = 255
)

// Options configures a Sqids instance. The zero value selects the default
// alphabet, no minimum length and the default blocklist.
type Options struct {
	// Alphabet lists the symbols ids are built from. Empty means the default.
	Alphabet string

	// MinLength pads ids to at least this many characters. Range [0, 255].
	MinLength int

	// Blocklist holds words ids must avoid. Nil means DefaultBlocklist;
	// a non-nil empty slice disables blocking.
	Blocklist []string
}

// Sqids encodes and decodes ids. It is immutable once built by New and safe
// for concurrent use.
type Sqids struct {
	alphabet  []byte
	index     *symbolIndex
	minLength int
	blocklist *blocklist
}

// DefaultAlphabet returns the alphabet used when Options.Alphabet is empty.
func DefaultAlphabet() string {
	return defaultAlphabet
}

// DefaultBlocklist returns a copy of the built-in blocklist.
func DefaultBlocklist() []string {
	words := make([]string, len(defaultBlocklist))
	copy(words, defaultBlocklist)
	return words
}

// New validates opts and returns a ready encoder. Errors wrap ErrInvalidConfig
// together with the specific reason.
func New(opts Options) (*Sqids, error) {
	alphabet := opts.Alphabet
	if alphabet == "" {
		alphabet = defaultAlphabet
	}
	words := opts.Blocklist
	if words == nil {
		words = defaultBlocklist
	}

	if err := validate(alphabet, opts.MinLength); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	shuffled := []byte(alphabet)
	shuffle(shuffled)

	return &Sqids{
		alphabet:  shuffled,
		index:     newSymbolIndex(shuffled),
		minLength: opts.MinLength,
		blocklist: newBlocklist(words, alphabet),
	}, nil
}

func validate(alphabet string, minLength int) error {
	for i := 0; i < len(alphabet); i++ {
		if alphabet[i] >= utf8.RuneSelf {
			return ErrAlphabetMultibyte
		}
	}
	if len(alphabet) < minAlphabetLength {
		return ErrAlphabetTooShort
	}

	var seen [256]bool
	for i := 0; i < len(alphabet); i++ {
		if seen[alphabet[i]] {
			return ErrAlphabetNotUnique
		}
		seen[alphabet[i]] = true
	}

	if minLength < 0 || minLength > maxMinLength {
		return ErrMinLengthRange
	}
	return nil
}

// Alphabet returns the shuffled alphabet ids are built from.
func (s *Sqids) Alphabet() string {
	return string(s.alphabet)
}

// MinLength returns the configured minimum id length.
func (s *Sqids) MinLength() int {
	return s.minLength
}

// BlocklistSize returns how many blocklist words survived filtering against
// the alphabet.
func (s *Sqids) BlocklistSize() int {
	return s.blocklist.size()
}

// IsBlocked reports whether id would be rejected by the blocklist.
func (s *Sqids) IsBlocked(id string) bool {
	return s.blocklist.isBlocked(id)
}

// Encode turns numbers into an id. An empty slice yields an empty id.
// ErrMaxAttempts is returned when every alphabet rotation was blocked.
func (s *Sqids) Encode(numbers []uint64) (string, error) {
	if len(numbers) == 0 {
		return "", nil
	}

	for attempt := 0; attempt <= len(s.alphabet); attempt++ {
		id := s.encode(numbers, attempt)
		if !s.blocklist.isBlocked(id) {
			return id, nil
		}
	}
	return "", ErrMaxAttempts
}

// EncodeInt64 is Encode for signed input. Negative numbers fail with
// ErrOutOfRange and no id is produced.
func (s *Sqids) EncodeInt64(numbers []int64) (string, error) {
	unsigned := make([]uint64, len(numbers))
	for i, n := range numbers {
		if n < 0 {
			return "", fmt.Errorf("%w: %d is negative", ErrOutOfRange, n)
		}
		unsigned[i] = uint64(n)
	}
	return s.Encode(unsigned)
}

// encode builds one candidate id. attempt shifts the alphabet rotation so
// that each retry explores a different id for the same numbers.
func (s *Sqids) encode(numbers []uint64, attempt int) string {
	size := len(s.alphabet)

	offset := len(numbers)
	for i, n := range numbers {
		offset += int(s.alphabet[n%uint64(size)]) + i
	}
	offset = (offset%size + attempt) % size

	// The prefix records offset so Decode can rebuild the same alphabet.
	alphabet := rotateReversed(s.alphabet, offset)
	id := make([]byte, 0, max(s.minLength, 1+len(numbers)*2))
	id = append(id, s.alphabet[offset])

	for i, n := range numbers {
		id = append(id, toID(n, alphabet[1:])...)
		if i < len(numbers)-1 {
			id = append(id, alphabet[0])
			shuffle(alphabet)
		}
	}

	if s.minLength > len(id) {
		id = append(id, alphabet[0])
		for s.minLength-len(id) > 0 {
			shuffle(alphabet)
			id = append(id, alphabet[:min(s.minLength-len(id), len(alphabet))]...)
		}
	}

	return string(id)
}

// Decode turns an id back into numbers. It never fails: an empty id, or one
// holding any character outside the alphabet, yields an empty slice, and
// decoding stops early at the first empty chunk.
func (s *Sqids) Decode(id string) []uint64 {
	numbers := []uint64{}
	if id == "" || !s.index.containsAll(id) {
		return numbers
	}

	alphabet := rotateReversed(s.alphabet, s.index[id[0]])
	rest := id[1:]

	for rest != "" {
		chunk, after, found := strings.Cut(rest, string(alphabet[0]))
		if chunk == "" {
			return numbers
		}
		numbers = append(numbers, toNumber(chunk, alphabet[1:]))
		if found {
			shuffle(alphabet)
		}
		rest = after
	}

	return numbers
}

// DecodeInt64 is Decode for signed output. A number above math.MaxInt64
// fails with ErrOutOfRange.
func (s *Sqids) DecodeInt64(id string) ([]int64, error) {
	numbers := s.Decode(id)
	signed := make([]int64, len(numbers))
	for i, n := range numbers {
		if n > math.MaxInt64 {
			return nil, fmt.Errorf("%w: %d exceeds int64", ErrOutOfRange, n)
		}
		signed[i] = int64(n)
	}
	return signed, nil
}
