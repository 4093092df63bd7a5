package interp

import "os"

// DirStack is the pushd/popd directory stack. The bottom entry is the
// directory the stack was last reset in; it is never popped.
type DirStack struct {
	stack []string
}

func NewDirStack() *DirStack {
	d := &DirStack{}
	d.Reset()
	return d
}

// Reset clears the stack down to the current working directory, as a
// plain cd does.
func (d *DirStack) Reset() {
	wd, err := os.Getwd()
	if err != nil {
		wd = ""
	}
	d.stack = append(d.stack[:0], wd)
}

// Push records a directory just entered by pushd.
func (d *DirStack) Push(dir string) {
	d.stack = append(d.stack, dir)
}

// Pop removes and returns the most recent entry, or ok=false when only
// the bottom entry remains.
func (d *DirStack) Pop() (string, bool) {
	if len(d.stack) <= 1 {
		return "", false
	}
	top := d.stack[len(d.stack)-1]
	d.stack = d.stack[:len(d.stack)-1]
	return top, true
}

// Iter returns the entries newest-first, the order dirs prints them.
func (d *DirStack) Iter() []string {
	out := make([]string, 0, len(d.stack))
	for i := len(d.stack) - 1; i >= 0; i-- {
		out = append(out, d.stack[i])
	}
	return out
}
