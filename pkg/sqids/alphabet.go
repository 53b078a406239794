package sqids

// shuffle permutes symbols in place. The permutation depends only on the
// content of symbols, so the same input always yields the same output.
func shuffle(symbols []byte) {
	n := len(symbols)
	for i, j := 0, n-1; j > 0; i, j = i+1, j-1 {
		r := (i*j + int(symbols[i]) + int(symbols[j])) % n
		symbols[i], symbols[r] = symbols[r], symbols[i]
	}
}

// rotateReversed returns a new buffer holding symbols rotated left by offset
// and then reversed. The input is not modified.
func rotateReversed(symbols []byte, offset int) []byte {
	n := len(symbols)
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		out[n-1-i] = symbols[(offset+i)%n]
	}
	return out
}

// symbolIndex maps a byte to its position in an alphabet, or -1 when absent.
type symbolIndex [256]int

func newSymbolIndex(symbols []byte) *symbolIndex {
	var idx symbolIndex
	for i := range idx {
		idx[i] = -1
	}
	for i, c := range symbols {
		idx[c] = i
	}
	return &idx
}

// containsAll reports whether every byte of s is in the index.
func (idx *symbolIndex) containsAll(s string) bool {
	for i := 0; i < len(s); i++ {
		if idx[s[i]] == -1 {
			return false
		}
	}
	return true
}
