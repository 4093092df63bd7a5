package interp

import (
	"fmt"
	"strings"
)

// ScopeHint selects how a variable lookup or assignment walks the scope
// chain.
type ScopeHint int

// Scope hints.
const (
	// ScopeDynamic walks frames innermost-first.
	ScopeDynamic ScopeHint = iota
	// ScopeGlobalOnly reads or writes the outermost frame directly.
	ScopeGlobalOnly
	// ScopeLocalOnly reads or writes the innermost frame directly.
	ScopeLocalOnly
)

// ReadOnlyError reports an assignment or unset of a readonly binding.
// Callers treat it as a nonzero exit, never a crash.
type ReadOnlyError struct {
	Name string
}

func (e *ReadOnlyError) Error() string {
	return fmt.Sprintf("%s: readonly variable", e.Name)
}

type frame struct {
	vars map[string]*binding
}

func newFrame() *frame {
	return &frame{vars: make(map[string]*binding)}
}

// Mem is the variable store: an innermost-first chain of scope frames plus
// the positional parameters. The outermost (global) frame always exists
// and is never popped. Mem is accessed strictly sequentially by the one
// evaluation thread; no locking.
type Mem struct {
	frames []*frame // frames[0] is global
	argv   []string
}

// NewMem creates a store with the global frame, importing environ
// ("K=V" pairs) as exported globals.
func NewMem(environ []string) *Mem {
	m := &Mem{frames: []*frame{newFrame()}}
	for _, kv := range environ {
		name, val, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		m.frames[0].vars[name] = &binding{val: Str(val), flags: FlagExported}
	}
	return m
}

// PushScope adds a function-local frame.
func (m *Mem) PushScope() {
	m.frames = append(m.frames, newFrame())
}

// PopScope removes the innermost frame. The global frame is never popped.
func (m *Mem) PopScope() {
	if len(m.frames) == 1 {
		panic(Fatalf("popped the global scope frame"))
	}
	m.frames = m.frames[:len(m.frames)-1]
}

func (m *Mem) find(name string, hint ScopeHint) *binding {
	switch hint {
	case ScopeGlobalOnly:
		return m.frames[0].vars[name]
	case ScopeLocalOnly:
		return m.frames[len(m.frames)-1].vars[name]
	default:
		for i := len(m.frames) - 1; i >= 0; i-- {
			if b := m.frames[i].vars[name]; b != nil {
				return b
			}
		}
		return nil
	}
}

// GetVar looks a name up dynamically. A name absent in all frames yields
// Undef, never an error.
func (m *Mem) GetVar(name string) Value {
	return m.GetVarScope(name, ScopeDynamic)
}

// GetVarScope looks a name up under an explicit scope hint.
func (m *Mem) GetVarScope(name string, hint ScopeHint) Value {
	if b := m.find(name, hint); b != nil {
		return b.val
	}
	return Undef()
}

// SetVar creates or overwrites a binding. Overwriting a readonly binding
// fails with ReadOnlyError; callers that mean it must ClearFlag first.
func (m *Mem) SetVar(name string, val Value, flags VarFlags, hint ScopeHint) error {
	b := m.find(name, hint)
	if b != nil {
		if b.flags&FlagReadOnly != 0 {
			return &ReadOnlyError{Name: name}
		}
		b.val = val
		b.flags |= flags
		return nil
	}
	f := m.frames[0]
	if hint == ScopeLocalOnly {
		f = m.frames[len(m.frames)-1]
	}
	f.vars[name] = &binding{val: val, flags: flags}
	return nil
}

// SetFlag adds a flag to an existing binding, creating an unset binding if
// the name is absent (export NAME with no value).
func (m *Mem) SetFlag(name string, flag VarFlags, hint ScopeHint) {
	if b := m.find(name, hint); b != nil {
		b.flags |= flag
		return
	}
	m.frames[0].vars[name] = &binding{val: Undef(), flags: flag}
}

// ClearFlag removes a flag from a binding; reports whether the binding
// existed.
func (m *Mem) ClearFlag(name string, flag VarFlags, hint ScopeHint) bool {
	b := m.find(name, hint)
	if b == nil {
		return false
	}
	b.flags &^= flag
	return true
}

// Unset removes a binding. ok=false signals a readonly violation; found
// distinguishes "nothing to remove" for callers that fall through from
// variable-unset to function-unset.
func (m *Mem) Unset(name string, hint ScopeHint) (ok, found bool) {
	switch hint {
	case ScopeGlobalOnly:
		return m.unsetIn(m.frames[0], name)
	case ScopeLocalOnly:
		return m.unsetIn(m.frames[len(m.frames)-1], name)
	default:
		for i := len(m.frames) - 1; i >= 0; i-- {
			if _, present := m.frames[i].vars[name]; present {
				return m.unsetIn(m.frames[i], name)
			}
		}
		return true, false
	}
}

func (m *Mem) unsetIn(f *frame, name string) (ok, found bool) {
	b, present := f.vars[name]
	if !present {
		return true, false
	}
	if b.flags&FlagReadOnly != 0 {
		return false, true
	}
	delete(f.vars, name)
	return true, true
}

// SetArgv replaces the positional parameters.
func (m *Mem) SetArgv(argv []string) {
	m.argv = append([]string(nil), argv...)
}

// Argv returns the positional parameters.
func (m *Mem) Argv() []string { return m.argv }

// GetArgNum returns $1-based positional parameter i, or Undef past the
// end.
func (m *Mem) GetArgNum(i int) Value {
	if i < 1 || i > len(m.argv) {
		return Undef()
	}
	return Str(m.argv[i-1])
}

// Shift rotates the positional parameters left by n. Returns a shell exit
// status: 1 when n exceeds the parameter count.
func (m *Mem) Shift(n int) int {
	if n < 0 || n > len(m.argv) {
		return 1
	}
	m.argv = m.argv[n:]
	return 0
}

// ExportedEnv materializes the exported bindings as "K=V" pairs for a
// child process. The snapshot is one-way: later mutations in the parent
// are invisible to already-spawned children.
func (m *Mem) ExportedEnv() []string {
	seen := make(map[string]bool)
	var env []string
	for i := len(m.frames) - 1; i >= 0; i-- {
		for name, b := range m.frames[i].vars {
			if seen[name] {
				continue
			}
			seen[name] = true
			if b.flags&FlagExported == 0 || b.val.Kind != ValStr {
				continue
			}
			env = append(env, name+"="+b.val.Str)
		}
	}
	return env
}
