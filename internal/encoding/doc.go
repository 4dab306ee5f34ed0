// Package encoding implements the compact byte keys used for names and types.
//
// Layout:
//
//	name      := len bytes            len = 0x80+n, or 0xFF hi lo for n > 126
//	qualified := 'Q' len component*   a zero-length component is the global scope
//	template  := 'T' name len args
//	type      := builtin | modifier type | 'A' digits '_' type | 'M' name type
//	           | 'F' type* '_' type | name | qualified | template | '?' | '*'
//
// Builtins are v b c w s i l j f d r e; modifiers are C (const), V (volatile),
// S (signed), U (unsigned), P (pointer) and R (reference). A non-type template
// argument is 'K' followed by its length-prefixed spelling.
//
// Encodings are plain strings, so they compare byte-wise and work as map keys.
package encoding
