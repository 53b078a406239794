package sqids

// toID writes value in the positional numeral system whose digits are
// alphabet, most significant digit first. Zero is alphabet[0].
func toID(value uint64, alphabet []byte) []byte {
	base := uint64(len(alphabet))

	// 64 digits cover uint64 in the smallest allowed base.
	var buf [64]byte
	pos := len(buf)
	for {
		pos--
		buf[pos] = alphabet[value%base]
		value /= base
		if value == 0 {
			break
		}
	}

	out := make([]byte, len(buf)-pos)
	copy(out, buf[pos:])
	return out
}

// toNumber is the inverse of toID. Every byte of id must occur in alphabet.
// Values wider than 64 bits wrap.
func toNumber(id string, alphabet []byte) uint64 {
	base := uint64(len(alphabet))
	var value uint64
	for i := 0; i < len(id); i++ {
		value = value*base + uint64(indexOf(alphabet, id[i]))
	}
	return value
}

func indexOf(alphabet []byte, c byte) int {
	for i, s := range alphabet {
		if s == c {
			return i
		}
	}
	return -1
}
