package encoding

import (
	"strconv"
	"strings"
)

// Encoding is an immutable name or type key.
type Encoding string

const (
	lenBase    = 0x80
	maxShort   = 126
	longEscape = 0xFF

	// Unknown marks a type the encoder could not resolve.
	Unknown Encoding = "?"
	// Dependent marks a template-dependent type.
	Dependent Encoding = "*"

	markerByte = '@'
)

// Global is the qualifier component written for a leading "::".
const Global Encoding = "\x80"

// Builtin type encodings.
const (
	Void       Encoding = "v"
	Bool       Encoding = "b"
	Char       Encoding = "c"
	WChar      Encoding = "w"
	Short      Encoding = "s"
	Int        Encoding = "i"
	Long       Encoding = "l"
	LongLong   Encoding = "j"
	Float      Encoding = "f"
	Double     Encoding = "d"
	LongDouble Encoding = "r"
	Ellipsis   Encoding = "e"
)

func appendLen(b []byte, n int) []byte {
	if n <= maxShort {
		return append(b, byte(lenBase+n))
	}
	if n > MaxNameLen {
		n = MaxNameLen
	}
	return append(b, longEscape, byte(n>>8), byte(n))
}

// SimpleName encodes an unqualified identifier.
func SimpleName(name string) Encoding {
	return AppendWithLength("", name)
}

// MaxNameLen is the longest component a length prefix can carry.
const MaxNameLen = 0xFFFF

// AppendWithLength returns e followed by the length-prefixed bytes of s.
// Components longer than MaxNameLen are cut to MaxNameLen bytes; the lexer
// reports such identifiers before they reach here.
func AppendWithLength(e Encoding, s string) Encoding {
	if len(s) > MaxNameLen {
		s = s[:MaxNameLen]
	}
	b := make([]byte, 0, len(e)+len(s)+3)
	b = append(b, e...)
	b = appendLen(b, len(s))
	b = append(b, s...)
	return Encoding(b)
}

// Qualified joins name components. A single component is returned unchanged.
func Qualified(parts ...Encoding) Encoding {
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	}
	var flat []Encoding
	for _, p := range parts {
		if p.IsQualified() {
			flat = append(flat, p.Components()...)
			continue
		}
		flat = append(flat, p)
	}
	b := []byte{'Q'}
	b = appendLen(b, len(flat))
	for _, p := range flat {
		b = append(b, p...)
	}
	return Encoding(b)
}

// Template encodes name<args...>.
func Template(name string, args ...Encoding) Encoding {
	var body []byte
	for _, a := range args {
		body = append(body, a...)
	}
	b := []byte{'T'}
	b = append(b, SimpleName(name)...)
	b = appendLen(b, len(body))
	b = append(b, body...)
	return Encoding(b)
}

// ValueArg encodes a non-type template argument by its spelling.
func ValueArg(text string) Encoding {
	return AppendWithLength("K", text)
}

func Pointer(t Encoding) Encoding   { return "P" + t }
func Reference(t Encoding) Encoding { return "R" + t }
func Const(t Encoding) Encoding     { return "C" + t }
func Volatile(t Encoding) Encoding  { return "V" + t }
func Signed(t Encoding) Encoding    { return "S" + t }
func Unsigned(t Encoding) Encoding  { return "U" + t }

// Array encodes t[bound]; a negative bound means unknown.
func Array(bound int64, t Encoding) Encoding {
	if bound < 0 {
		return "A_" + t
	}
	return "A" + Encoding(strconv.FormatInt(bound, 10)) + "_" + t
}

// MemberPointer encodes "t class::*".
func MemberPointer(class, t Encoding) Encoding {
	return "M" + class + t
}

// Function encodes a function type.
func Function(params []Encoding, ret Encoding) Encoding {
	var sb strings.Builder
	sb.WriteByte('F')
	for _, p := range params {
		sb.WriteString(string(p))
	}
	sb.WriteByte('_')
	sb.WriteString(string(ret))
	return Encoding(sb.String())
}

// AnonymousNamespace is shared by every unnamed namespace of one scope.
func AnonymousNamespace() Encoding {
	return SimpleName(string(markerByte) + "anonymous")
}

// Anonymous names an unnamed class, enum or union; id keeps distinct entities apart.
func Anonymous(kind string, id uint32) Encoding {
	return SimpleName(string(markerByte) + kind + "#" + strconv.FormatUint(uint64(id), 10))
}

func (e Encoding) Empty() bool { return len(e) == 0 }

func (e Encoding) IsSimpleName() bool { return len(e) > 0 && e[0] >= lenBase }

func (e Encoding) IsQualified() bool { return len(e) > 0 && e[0] == 'Q' }

func (e Encoding) IsTemplate() bool { return len(e) > 0 && e[0] == 'T' }

// IsGlobal reports the "::" qualifier component.
func (e Encoding) IsGlobal() bool { return e == Global }

// IsFunction looks through cv-qualifiers for a function type.
func (e Encoding) IsFunction() bool {
	for i := 0; i < len(e); i++ {
		switch e[i] {
		case 'C', 'V':
			continue
		case 'F':
			return true
		}
		return false
	}
	return false
}

// IsAnonymous reports marker names of unnamed entities, looking at the last component.
func (e Encoding) IsAnonymous() bool {
	last := e
	if e.IsQualified() {
		comps := e.Components()
		if len(comps) == 0 {
			return false
		}
		last = comps[len(comps)-1]
	}
	name, ok := last.Identifier()
	return ok && len(name) > 0 && name[0] == markerByte
}

// Identifier returns the spelling of a simple name, or the template name of a template-id.
func (e Encoding) Identifier() (string, bool) {
	switch {
	case e.IsSimpleName():
		n, next, ok := readLen(string(e), 0)
		if !ok || next+n > len(e) {
			return "", false
		}
		return string(e[next : next+n]), true
	case e.IsTemplate():
		return Encoding(e[1:]).Identifier()
	}
	return "", false
}

// TemplateName strips template arguments: T name args -> name.
func (e Encoding) TemplateName() Encoding {
	if !e.IsTemplate() {
		return e
	}
	end, ok := skipName(string(e), 1)
	if !ok {
		return Unknown
	}
	return e[1:end]
}

// Components splits a qualified name. Other encodings yield themselves.
func (e Encoding) Components() []Encoding {
	if !e.IsQualified() {
		return []Encoding{e}
	}
	s := string(e)
	n, i, ok := readLen(s, 1)
	if !ok {
		return []Encoding{Unknown}
	}
	out := make([]Encoding, 0, n)
	for k := 0; k < n; k++ {
		end, ok := skipName(s, i)
		if !ok {
			return append(out, Unknown)
		}
		out = append(out, Encoding(s[i:end]))
		i = end
	}
	return out
}

// GetSymbol strips the outermost qualifier: A::B::x -> B::x, A::x -> x.
func (e Encoding) GetSymbol() Encoding {
	if !e.IsQualified() {
		return e
	}
	comps := e.Components()
	if len(comps) < 2 {
		return Unknown
	}
	return Qualified(comps[1:]...)
}

// BaseName returns the final component of a possibly qualified name.
func (e Encoding) BaseName() Encoding {
	comps := e.Components()
	return comps[len(comps)-1]
}

// GetBaseName decomposes a qualified name. visit is called for every qualifier
// component in order (Global for a leading "::") and may stop the walk by
// returning false, in which case ok is false.
func (e Encoding) GetBaseName(visit func(qualifier Encoding) bool) (base Encoding, ok bool) {
	comps := e.Components()
	for _, c := range comps[:len(comps)-1] {
		if visit != nil && !visit(c) {
			return comps[len(comps)-1], false
		}
	}
	return comps[len(comps)-1], true
}

// FunctionSignature splits a function type into parameter types and result.
func (e Encoding) FunctionSignature() (params []Encoding, ret Encoding, ok bool) {
	s := string(e)
	i := 0
	for i < len(s) && (s[i] == 'C' || s[i] == 'V') {
		i++
	}
	if i >= len(s) || s[i] != 'F' {
		return nil, "", false
	}
	i++
	for i < len(s) && s[i] != '_' {
		end, ok := skipType(s, i)
		if !ok {
			return params, Unknown, false
		}
		params = append(params, Encoding(s[i:end]))
		i = end
	}
	if i >= len(s) {
		return params, Unknown, false
	}
	return params, Encoding(s[i+1:]), true
}

// TemplateArgs returns the argument encodings of a template-id.
func (e Encoding) TemplateArgs() []Encoding {
	if !e.IsTemplate() {
		return nil
	}
	s := string(e)
	i, ok := skipName(s, 1)
	if !ok {
		return nil
	}
	n, start, ok := readLen(s, i)
	if !ok || start+n > len(s) {
		return nil
	}
	var out []Encoding
	for j := start; j < start+n; {
		end, ok := skipType(s, j)
		if !ok || end > start+n {
			return append(out, Unknown)
		}
		out = append(out, Encoding(s[j:end]))
		j = end
	}
	return out
}

func Compare(a, b Encoding) int { return strings.Compare(string(a), string(b)) }

func (e Encoding) String() string { return e.Unmangled() }

// ParseQualified encodes a spelled name such as "A::B::x" or "::x".
// Template arguments are not supported. Empty inner components are dropped.
func ParseQualified(s string) Encoding {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	var parts []Encoding
	if strings.HasPrefix(s, "::") {
		parts = append(parts, Global)
		s = s[2:]
	}
	for _, p := range strings.Split(s, "::") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, SimpleName(p))
		}
	}
	return Qualified(parts...)
}
