package dbase

// trimField returns the part of raw between the first and the last byte that is
// neither a space nor a null byte. A null byte ends the field.
func trimField(raw []byte) []byte {
	first, last := -1, -1
	for i, b := range raw {
		if b == byte(Null) {
			break
		}
		if b == byte(Blank) {
			continue
		}
		if first < 0 {
			first = i
		}
		last = i
	}
	if first < 0 {
		return raw[:0]
	}
	return raw[first : last+1]
}

func isOverflow(raw []byte) bool {
	if len(raw) == 0 {
		return false
	}
	for _, b := range raw {
		if b != byte(Overflow) {
			return false
		}
	}
	return true
}
