// Package safe provides a debug-only assertion mechanism for internal
// self-consistency checks, adapted from the teacher's txguard pattern: a
// distinguished panic message caught by a matching recover, so a real bug
// elsewhere never gets silently swallowed (spec.md §7: "the core never
// panics on external-state input; only debug-only assertions may check
// internal self-consistency").
package safe

import "fmt"

const assertionPanicPrefix = "clientupdate: assertion failed: "

// Assert panics with a distinguished, recognizable message if cond is false.
// It is for invariants the engine itself must never violate (e.g. a chunk
// position appearing in both an unload and a load batch for the same tick),
// not for validating external state, which must always be handled with a
// returned error instead.
func Assert(cond bool, format string, args ...any) {
	if cond {
		return
	}
	panic(assertionPanicPrefix + fmt.Sprintf(format, args...))
}

// Check runs fn and reports whether it completed without an Assert panic
// firing. Any other panic propagates unchanged.
func Check(fn func()) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			msg, isStr := r.(string)
			if isStr && len(msg) >= len(assertionPanicPrefix) && msg[:len(assertionPanicPrefix)] == assertionPanicPrefix {
				ok = false
				return
			}
			panic(r)
		}
	}()
	fn()
	return true
}
