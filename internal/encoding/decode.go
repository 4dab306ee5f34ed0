package encoding

// readLen decodes a length prefix at i.
func readLen(s string, i int) (n, next int, ok bool) {
	if i >= len(s) {
		return 0, i, false
	}
	b := s[i]
	switch {
	case b == longEscape:
		if i+2 >= len(s) {
			return 0, i, false
		}
		return int(s[i+1])<<8 | int(s[i+2]), i + 3, true
	case b >= lenBase:
		return int(b) - lenBase, i + 1, true
	}
	return 0, i, false
}

// skipName returns the end of the name (simple, template or qualified) at i.
func skipName(s string, i int) (int, bool) {
	if i >= len(s) {
		return i, false
	}
	switch s[i] {
	case 'T':
		end, ok := skipName(s, i+1)
		if !ok {
			return end, false
		}
		n, next, ok := readLen(s, end)
		if !ok || next+n > len(s) {
			return end, false
		}
		return next + n, true
	case 'Q':
		n, next, ok := readLen(s, i+1)
		if !ok {
			return i, false
		}
		for k := 0; k < n; k++ {
			next, ok = skipName(s, next)
			if !ok {
				return next, false
			}
		}
		return next, true
	}
	n, next, ok := readLen(s, i)
	if !ok || next+n > len(s) {
		return i, false
	}
	return next + n, true
}

// skipType returns the end of the type at i.
func skipType(s string, i int) (int, bool) {
	if i >= len(s) {
		return i, false
	}
	switch c := s[i]; c {
	case 'v', 'b', 'c', 'w', 's', 'i', 'l', 'j', 'f', 'd', 'r', 'e', '?', '*':
		return i + 1, true
	case 'C', 'V', 'S', 'U', 'P', 'R':
		return skipType(s, i+1)
	case 'A':
		j := i + 1
		for j < len(s) && s[j] >= '0' && s[j] <= '9' {
			j++
		}
		if j >= len(s) || s[j] != '_' {
			return j, false
		}
		return skipType(s, j+1)
	case 'M':
		end, ok := skipName(s, i+1)
		if !ok {
			return end, false
		}
		return skipType(s, end)
	case 'F':
		j := i + 1
		for j < len(s) && s[j] != '_' {
			end, ok := skipType(s, j)
			if !ok {
				return end, false
			}
			j = end
		}
		if j >= len(s) {
			return j, false
		}
		return skipType(s, j+1)
	case 'K':
		n, next, ok := readLen(s, i+1)
		if !ok || next+n > len(s) {
			return i, false
		}
		return next + n, true
	}
	return skipName(s, i)
}
