package trace

import (
	"fmt"
	"strings"
)

// Level selects how deep into a run a tracer looks.
type Level uint8

const (
	LevelOff   Level = iota
	LevelError       // nothing is streamed; rings are dumped on failure
	LevelUnit        // driver runs and translation units
	LevelPass        // plus lex, parse and walk of each unit
	LevelTable       // plus every symbol table operation
)

var levelNames = [...]string{
	LevelOff:   "off",
	LevelError: "error",
	LevelUnit:  "unit",
	LevelPass:  "pass",
	LevelTable: "table",
}

// deepest scope let through by each level
var levelScopes = [...]Scope{
	LevelUnit:  ScopeUnit,
	LevelPass:  ScopePass,
	LevelTable: ScopeTable,
}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel accepts level names in any case; "debug" means "table".
func ParseLevel(s string) (Level, error) {
	s = strings.ToLower(s)
	if s == "debug" {
		return LevelTable, nil
	}
	for l, name := range levelNames {
		if name == s {
			return Level(l), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: off|error|unit|pass|table)", s)
}

// ShouldEmit reports whether events of scope pass l. Heartbeats bypass
// this check in every tracer.
func (l Level) ShouldEmit(scope Scope) bool {
	if int(l) >= len(levelScopes) {
		return scope != 0
	}
	return scope != 0 && scope <= levelScopes[l]
}
