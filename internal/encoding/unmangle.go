package encoding

import "strings"

var builtinNames = map[byte]string{
	'v': "void", 'b': "bool", 'c': "char", 'w': "wchar_t", 's': "short",
	'i': "int", 'l': "long", 'j': "long long", 'f': "float", 'd': "double",
	'r': "long double", 'e': "...", '?': "?", '*': "<dependent>",
}

// Unmangled renders e the way it would be spelled in source. Malformed
// fragments render as "?".
func (e Encoding) Unmangled() string {
	if len(e) == 0 {
		return ""
	}
	var sb strings.Builder
	s := string(e)
	end := writeType(&sb, s, 0)
	if end < len(s) {
		sb.WriteString("?")
	}
	return sb.String()
}

func writeName(sb *strings.Builder, s string, i int) int {
	if i >= len(s) {
		sb.WriteString("?")
		return i
	}
	switch s[i] {
	case 'Q':
		n, next, ok := readLen(s, i+1)
		if !ok {
			sb.WriteString("?")
			return len(s)
		}
		for k := 0; k < n; k++ {
			if k > 0 {
				sb.WriteString("::")
			}
			next = writeName(sb, s, next)
		}
		return next
	case 'T':
		next := writeName(sb, s, i+1)
		n, start, ok := readLen(s, next)
		if !ok || start+n > len(s) {
			sb.WriteString("<?>")
			return len(s)
		}
		sb.WriteByte('<')
		for j, first := start, true; j < start+n; first = false {
			if !first {
				sb.WriteString(", ")
			}
			j = writeType(sb, s[:start+n], j)
		}
		sb.WriteByte('>')
		return start + n
	}
	n, next, ok := readLen(s, i)
	if !ok || next+n > len(s) {
		sb.WriteString("?")
		return len(s)
	}
	name := s[next : next+n]
	if len(name) > 0 && name[0] == markerByte {
		name = "{" + name[1:] + "}"
	}
	sb.WriteString(name)
	return next + n
}

// writeType renders the type at i and returns the end offset.
func writeType(sb *strings.Builder, s string, i int) int {
	if i >= len(s) {
		sb.WriteString("?")
		return i
	}
	c := s[i]
	if name, ok := builtinNames[c]; ok {
		sb.WriteString(name)
		return i + 1
	}
	switch c {
	case 'C', 'V', 'S', 'U':
		word := map[byte]string{'C': "const", 'V': "volatile", 'S': "signed", 'U': "unsigned"}[c]
		var inner strings.Builder
		end := writeType(&inner, s, i+1)
		if next := i + 1; next < len(s) && (s[next] == 'P' || s[next] == 'R' || s[next] == 'M') {
			sb.WriteString(inner.String() + " " + word)
		} else {
			sb.WriteString(word + " " + inner.String())
		}
		return end
	case 'P', 'R':
		end := writeType(sb, s, i+1)
		if c == 'P' {
			sb.WriteByte('*')
		} else {
			sb.WriteByte('&')
		}
		return end
	case 'A':
		j := i + 1
		for j < len(s) && s[j] >= '0' && s[j] <= '9' {
			j++
		}
		bound := s[i+1 : j]
		if j >= len(s) || s[j] != '_' {
			sb.WriteString("?")
			return len(s)
		}
		end := writeType(sb, s, j+1)
		sb.WriteString("[" + bound + "]")
		return end
	case 'M':
		var class strings.Builder
		next := writeName(&class, s, i+1)
		end := writeType(sb, s, next)
		sb.WriteString(" " + class.String() + "::*")
		return end
	case 'F':
		var params []string
		j := i + 1
		for j < len(s) && s[j] != '_' {
			var p strings.Builder
			end := writeType(&p, s, j)
			if end <= j {
				end = len(s)
			}
			params = append(params, p.String())
			j = end
		}
		if j >= len(s) {
			sb.WriteString("?(" + strings.Join(params, ", ") + ")")
			return len(s)
		}
		end := writeType(sb, s, j+1)
		sb.WriteString("(" + strings.Join(params, ", ") + ")")
		return end
	case 'K':
		n, next, ok := readLen(s, i+1)
		if !ok || next+n > len(s) {
			sb.WriteString("?")
			return len(s)
		}
		sb.WriteString(s[next : next+n])
		return next + n
	}
	return writeName(sb, s, i)
}
