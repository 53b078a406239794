package sqids

import "strings"

// minBlockedWordLength is the shortest word kept in a filtered blocklist.
const minBlockedWordLength = 3

// blocklist holds lowercased words an id must not match.
type blocklist struct {
	words []string
}

// newBlocklist keeps only words that could ever appear in an id built from
// alphabet: at least three characters long, every character (lowercased)
// present in the lowercased alphabet.
func newBlocklist(words []string, alphabet string) *blocklist {
	lowerAlphabet := strings.ToLower(alphabet)
	seen := make(map[string]struct{}, len(words))
	filtered := make([]string, 0, len(words))

	for _, word := range words {
		if len(word) < minBlockedWordLength {
			continue
		}
		lower := strings.ToLower(word)
		if !containsOnly(lower, lowerAlphabet) {
			continue
		}
		if _, dup := seen[lower]; dup {
			continue
		}
		seen[lower] = struct{}{}
		filtered = append(filtered, lower)
	}

	return &blocklist{words: filtered}
}

// isBlocked reports whether id matches any word. Short ids and short words
// must match exactly, all-digit words only block as a prefix or suffix, and
// any other word blocks anywhere inside the id.
func (b *blocklist) isBlocked(id string) bool {
	lower := strings.ToLower(id)

	for _, word := range b.words {
		if len(word) > len(lower) {
			continue
		}
		switch {
		case len(lower) <= 3 || len(word) <= 3:
			if lower == word {
				return true
			}
		case isDigits(word):
			if strings.HasPrefix(lower, word) || strings.HasSuffix(lower, word) {
				return true
			}
		case strings.Contains(lower, word):
			return true
		}
	}
	return false
}

// size returns the number of words kept after filtering.
func (b *blocklist) size() int {
	return len(b.words)
}

func containsOnly(s, set string) bool {
	for _, r := range s {
		if !strings.ContainsRune(set, r) {
			return false
		}
	}
	return true
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}
