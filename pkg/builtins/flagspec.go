package builtins

import "fmt"

// FlagSpec describes one builtin's short flags. Each builtin owns exactly
// one spec, registered once and reused on every invocation.
type FlagSpec struct {
	name    string
	letters map[byte]bool // letter -> takes an argument
}

// NewFlagSpec creates an empty spec for the named builtin.
func NewFlagSpec(name string) *FlagSpec {
	return &FlagSpec{name: name, letters: make(map[byte]bool)}
}

// ShortFlag registers a boolean flag like -r.
func (s *FlagSpec) ShortFlag(letter byte) *FlagSpec {
	s.letters[letter] = false
	return s
}

// ShortArgFlag registers a flag that takes an argument, like -n N.
func (s *FlagSpec) ShortArgFlag(letter byte) *FlagSpec {
	s.letters[letter] = true
	return s
}

// FlagValues is the result of one parse.
type FlagValues struct {
	set  map[byte]bool
	args map[byte]string
}

// Bool reports whether a boolean flag was given.
func (v *FlagValues) Bool(letter byte) bool { return v.set[letter] }

// Arg returns an argument flag's value.
func (v *FlagValues) Arg(letter byte) (string, bool) {
	s, ok := v.args[letter]
	return s, ok
}

func newFlagValues() *FlagValues {
	return &FlagValues{set: make(map[byte]bool), args: make(map[byte]string)}
}

// Parse consumes leading flags from argv and returns the values plus the
// index of the first operand. "--" ends flag parsing. An unregistered
// letter or a missing argument is an error.
func (s *FlagSpec) Parse(argv []string) (*FlagValues, int, error) {
	v := newFlagValues()
	i := 0
	for i < len(argv) {
		a := argv[i]
		if a == "--" {
			i++
			break
		}
		if len(a) < 2 || a[0] != '-' {
			break
		}
		i++
		for j := 1; j < len(a); j++ {
			c := a[j]
			takesArg, ok := s.letters[c]
			if !ok {
				return nil, 0, fmt.Errorf("%s: invalid option -%c", s.name, c)
			}
			if !takesArg {
				v.set[c] = true
				continue
			}
			// Argument is the rest of this token, or the next one.
			if j+1 < len(a) {
				v.args[c] = a[j+1:]
			} else {
				if i >= len(argv) {
					return nil, 0, fmt.Errorf("%s: option -%c requires an argument", s.name, c)
				}
				v.args[c] = argv[i]
				i++
			}
			break
		}
	}
	return v, i, nil
}

// ParseLikeEcho consumes a token as flags only when every letter in it is
// a registered boolean flag; the first token that is not stops parsing.
// There is no "--" and no error: echo -c prints -c.
func (s *FlagSpec) ParseLikeEcho(argv []string) (*FlagValues, int) {
	v := newFlagValues()
	i := 0
	for i < len(argv) {
		a := argv[i]
		if len(a) < 2 || a[0] != '-' || !s.allBoolFlags(a[1:]) {
			break
		}
		for j := 1; j < len(a); j++ {
			v.set[a[j]] = true
		}
		i++
	}
	return v, i
}

func (s *FlagSpec) allBoolFlags(letters string) bool {
	for j := 0; j < len(letters); j++ {
		takesArg, ok := s.letters[letters[j]]
		if !ok || takesArg {
			return false
		}
	}
	return true
}
