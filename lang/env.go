package lang

// This file defines the lexical environment. Scopes live in a single arena
// owned by [Env] and are addressed by [Scope] handles. Each scope records the
// handle of its enclosing scope, so lookups walk a singly-linked chain toward
// the root. Blocks push a scope on entry and pop it on exit; because nothing
// retains a scope after its block returns, the arena behaves as a stack.

import "sort"

// Scope is a handle to a scope in an [Env] arena.
type Scope int

// NoScope is the enclosing handle of the root scope.
const NoScope Scope = -1

type frame struct {
	vars   map[string]Value
	parent Scope
}

// Env is an arena of scopes. The root scope, created by [NewEnv], lives for
// as long as the Env.
type Env struct {
	frames []frame
}

// NewEnv returns an environment holding only an empty root scope.
func NewEnv() *Env {
	return &Env{
		frames: []frame{{parent: NoScope}},
	}
}

// Root returns the handle of the root scope.
func (*Env) Root() Scope { return 0 }

// Depth returns the number of live scopes, including the root.
func (e *Env) Depth() int { return len(e.frames) }

// Push creates a scope enclosed by parent and returns its handle.
func (e *Env) Push(parent Scope) Scope {
	e.frames = append(e.frames, frame{parent: parent})

	return Scope(len(e.frames) - 1)
}

// Pop discards s and every scope pushed after it. The root scope is never
// discarded.
func (e *Env) Pop(s Scope) {
	if s <= e.Root() || int(s) >= len(e.frames) {
		return
	}

	clear(e.frames[s:])
	e.frames = e.frames[:s]
}

// Define binds name in scope s, replacing any binding of the same name in s.
// Enclosing scopes are never consulted.
func (e *Env) Define(s Scope, name string, v Value) {
	f := &e.frames[s]
	if f.vars == nil {
		f.vars = make(map[string]Value)
	}

	f.vars[name] = v
}

// Lookup walks outward from s and returns the innermost binding of name.
func (e *Env) Lookup(s Scope, name string) (Value, bool) {
	for ; s != NoScope; s = e.frames[s].parent {
		if v, ok := e.frames[s].vars[name]; ok {
			return v, true
		}
	}

	return Null, false
}

// Assign walks outward from s and replaces the innermost existing binding of
// name. It reports false, and binds nothing, when name is undefined.
func (e *Env) Assign(s Scope, name string, v Value) bool {
	for ; s != NoScope; s = e.frames[s].parent {
		if _, ok := e.frames[s].vars[name]; ok {
			e.frames[s].vars[name] = v

			return true
		}
	}

	return false
}

// Names returns the sorted names visible from s, innermost shadowing
// outermost.
func (e *Env) Names(s Scope) []string {
	seen := make(map[string]struct{})

	for ; s != NoScope; s = e.frames[s].parent {
		for name := range e.frames[s].vars {
			seen[name] = struct{}{}
		}
	}

	if len(seen) == 0 {
		return nil
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Reset discards every binding and every scope except an empty root.
func (e *Env) Reset() {
	clear(e.frames)
	e.frames = e.frames[:1]
	e.frames[0] = frame{parent: NoScope}
}
