package interp

import (
	"fmt"

	"github.com/rcarmo/gosh/pkg/core"
)

// ExecOpts holds the shell options toggled by set -o and shopt.
type ExecOpts struct {
	ErrExit  bool // -e
	NoUnset  bool // -u
	NoExec   bool // -n
	XTrace   bool // -x
	Verbose  bool // -v
	NoGlob   bool // -f
	PipeFail bool

	// shopt namespace
	NullGlob bool
	FailGlob bool
	DotGlob  bool
}

func NewExecOpts() *ExecOpts {
	return &ExecOpts{}
}

// setOptNames is the set -o namespace (also reachable via shopt -o).
var setOptNames = []string{
	"errexit", "nounset", "noexec", "xtrace", "verbose", "noglob", "pipefail",
}

// shoptNames is the shopt namespace.
var shoptNames = []string{"nullglob", "failglob", "dotglob"}

func (o *ExecOpts) setOptPtr(name string) *bool {
	switch name {
	case "errexit":
		return &o.ErrExit
	case "nounset":
		return &o.NoUnset
	case "noexec":
		return &o.NoExec
	case "xtrace":
		return &o.XTrace
	case "verbose":
		return &o.Verbose
	case "noglob":
		return &o.NoGlob
	case "pipefail":
		return &o.PipeFail
	}
	return nil
}

func (o *ExecOpts) shoptPtr(name string) *bool {
	switch name {
	case "nullglob":
		return &o.NullGlob
	case "failglob":
		return &o.FailGlob
	case "dotglob":
		return &o.DotGlob
	}
	return nil
}

// SetOption applies a set -o style change.
func (o *ExecOpts) SetOption(name string, on bool) error {
	p := o.setOptPtr(name)
	if p == nil {
		return fmt.Errorf("invalid option %q", name)
	}
	*p = on
	return nil
}

// SetShortOption applies a single-letter set flag, e.g. -e or +x.
func (o *ExecOpts) SetShortOption(letter byte, on bool) error {
	name := ""
	switch letter {
	case 'e':
		name = "errexit"
	case 'u':
		name = "nounset"
	case 'n':
		name = "noexec"
	case 'x':
		name = "xtrace"
	case 'v':
		name = "verbose"
	case 'f':
		name = "noglob"
	default:
		return fmt.Errorf("invalid option -%c", letter)
	}
	return o.SetOption(name, on)
}

// SetShoptOption applies a shopt -s/-u style change.
func (o *ExecOpts) SetShoptOption(name string, on bool) error {
	p := o.shoptPtr(name)
	if p == nil {
		return fmt.Errorf("invalid shopt option %q", name)
	}
	*p = on
	return nil
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// ShowOptions prints set -o options, all of them when names is empty.
func (o *ExecOpts) ShowOptions(stdio *core.Stdio, names []string) error {
	if len(names) == 0 {
		names = setOptNames
	}
	for _, name := range names {
		p := o.setOptPtr(name)
		if p == nil {
			return fmt.Errorf("invalid option %q", name)
		}
		stdio.Printf("%-15s %s\n", name, onOff(*p))
	}
	return nil
}

// ShowShoptOptions prints shopt options in re-sourceable form.
func (o *ExecOpts) ShowShoptOptions(stdio *core.Stdio, names []string) error {
	if len(names) == 0 {
		names = shoptNames
	}
	for _, name := range names {
		p := o.shoptPtr(name)
		if p == nil {
			return fmt.Errorf("invalid shopt option %q", name)
		}
		flag := "-u"
		if *p {
			flag = "-s"
		}
		stdio.Printf("shopt %s %s\n", flag, name)
	}
	return nil
}
