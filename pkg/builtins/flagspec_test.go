package builtins

import "testing"

func TestFlagSpecParse(t *testing.T) {
	spec := NewFlagSpec("demo").ShortFlag('r').ShortArgFlag('n')

	fv, i, err := spec.Parse([]string{"-r", "-n", "3", "rest"})
	if err != nil {
		t.Fatal(err)
	}
	if !fv.Bool('r') {
		t.Error("-r not set")
	}
	if got, ok := fv.Arg('n'); !ok || got != "3" {
		t.Errorf("-n = (%q, %v)", got, ok)
	}
	if i != 3 {
		t.Errorf("operand index = %d, want 3", i)
	}

	// Attached argument.
	fv, i, err = spec.Parse([]string{"-n5", "x"})
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := fv.Arg('n'); got != "5" {
		t.Errorf("-n5 = %q", got)
	}
	if i != 1 {
		t.Errorf("operand index = %d, want 1", i)
	}

	// Grouped bools with a trailing arg flag.
	fv, _, err = spec.Parse([]string{"-rn", "7"})
	if err != nil {
		t.Fatal(err)
	}
	if !fv.Bool('r') {
		t.Error("-r not set in group")
	}
	if got, _ := fv.Arg('n'); got != "7" {
		t.Errorf("grouped -n = %q", got)
	}

	// -- ends flags.
	fv, i, err = spec.Parse([]string{"--", "-r"})
	if err != nil {
		t.Fatal(err)
	}
	if fv.Bool('r') {
		t.Error("-r set past --")
	}
	if i != 1 {
		t.Errorf("operand index = %d, want 1", i)
	}

	if _, _, err := spec.Parse([]string{"-q"}); err == nil {
		t.Error("unknown flag accepted")
	}
	if _, _, err := spec.Parse([]string{"-n"}); err == nil {
		t.Error("missing argument accepted")
	}
}

func TestFlagSpecParseLikeEcho(t *testing.T) {
	spec := NewFlagSpec("echo").ShortFlag('e').ShortFlag('n')

	fv, i := spec.ParseLikeEcho([]string{"-en", "text"})
	if !fv.Bool('e') || !fv.Bool('n') {
		t.Error("-en not recognized")
	}
	if i != 1 {
		t.Errorf("operand index = %d, want 1", i)
	}

	// A token with any unknown letter is an operand, whole.
	_, i = spec.ParseLikeEcho([]string{"-ec", "x"})
	if i != 0 {
		t.Errorf("operand index = %d, want 0", i)
	}
	_, i = spec.ParseLikeEcho([]string{"--"})
	if i != 0 {
		t.Errorf("-- index = %d, want 0", i)
	}
}
