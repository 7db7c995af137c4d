package maven

import "strings"

// Scope is the closed set of Maven dependency scopes. Unknown strings map
// to ScopeInvalid.
type Scope int

const (
	ScopeNone Scope = iota
	ScopeCompile
	ScopeProvided
	ScopeRuntime
	ScopeTest
	ScopeSystem
	ScopeInvalid
)

func (s Scope) String() string {
	switch s {
	case ScopeNone:
		return "none"
	case ScopeCompile:
		return "compile"
	case ScopeProvided:
		return "provided"
	case ScopeRuntime:
		return "runtime"
	case ScopeTest:
		return "test"
	case ScopeSystem:
		return "system"
	default:
		return "invalid"
	}
}

// ScopeFromName maps a POM <scope> value to a Scope. An empty string is
// the Maven default, compile.
func ScopeFromName(scope string) Scope {
	if scope == "" {
		return ScopeCompile
	}
	switch strings.ToLower(scope) {
	case "compile":
		return ScopeCompile
	case "provided":
		return ScopeProvided
	case "runtime":
		return ScopeRuntime
	case "test":
		return ScopeTest
	case "system":
		return ScopeSystem
	default:
		return ScopeInvalid
	}
}

// transitivityTable[parentScope][childScope] is the scope a dependency
// declared with childScope has when reached by traversing an edge whose
// own scope is parentScope. This is the fixed table from the Maven
// dependency-scope documentation; it is a constant of the system and is
// never made overridable.
//
// Grounded on rewrite-maven's tree.Scope.transitiveOf, reshaped from
// nested switch statements to a flat lookup table.
var transitivityTable = buildTransitivityTable()

func buildTransitivityTable() map[[2]Scope]Scope {
	t := make(map[[2]Scope]Scope)
	for _, child := range []Scope{ScopeCompile, ScopeProvided, ScopeRuntime, ScopeTest, ScopeSystem} {
		t[[2]Scope{ScopeNone, child}] = child
	}
	t[[2]Scope{ScopeCompile, ScopeCompile}] = ScopeCompile
	t[[2]Scope{ScopeCompile, ScopeRuntime}] = ScopeRuntime
	t[[2]Scope{ScopeCompile, ScopeProvided}] = ScopeProvided
	t[[2]Scope{ScopeCompile, ScopeTest}] = ScopeTest
	t[[2]Scope{ScopeRuntime, ScopeCompile}] = ScopeRuntime
	t[[2]Scope{ScopeRuntime, ScopeRuntime}] = ScopeRuntime
	t[[2]Scope{ScopeRuntime, ScopeProvided}] = ScopeProvided
	t[[2]Scope{ScopeRuntime, ScopeTest}] = ScopeTest
	t[[2]Scope{ScopeTest, ScopeTest}] = ScopeTest
	return t
}

// TransitiveOf returns the scope a dependency declared with childScope
// ends up having when reached transitively through an edge of
// parentScope, and whether it is transitively visible at all.
func TransitiveOf(parentScope, childScope Scope) (Scope, bool) {
	result, ok := transitivityTable[[2]Scope{parentScope, childScope}]
	if !ok {
		return ScopeInvalid, false
	}
	return result, true
}

// IsInClasspathOf reports whether a dependency in scope would be in the
// classpath of a dependency requested with queryScope.
func IsInClasspathOf(scope, queryScope Scope) bool {
	result, ok := TransitiveOf(scope, queryScope)
	return ok && result == queryScope
}
