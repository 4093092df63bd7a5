package builtins

import (
	"strconv"

	"github.com/rcarmo/gosh/pkg/core"
	"github.com/rcarmo/gosh/pkg/interp"
)

// optSpec maps "-x" option strings to whether the option takes an
// argument.
type optSpec map[string]bool

// parseOptSpec reads a getopts spec string like "xy:z" once.
func parseOptSpec(s string) optSpec {
	spec := make(optSpec)
	for i := 0; i < len(s); {
		key := "-" + string(s[i])
		spec[key] = false
		i++
		if i < len(s) && s[i] == ':' {
			spec[key] = true
			i++
		}
	}
	return spec
}

// spec lookups go through the registry's cache so each distinct spec
// string is parsed once.
func (r *Registry) optSpec(s string) optSpec {
	spec, ok := r.optSpecs[s]
	if !ok {
		spec = parseOptSpec(s)
		r.optSpecs[s] = spec
	}
	return spec
}

// getoptsStep advances one option. Status 1 means "no more options";
// status 0 with optChar "?" covers both an invalid flag (soft mismatch,
// OPTIND advanced) and a missing required argument.
func getoptsStep(spec optSpec, mem *interp.Mem, optind int, stdio *core.Stdio) (status int, optChar, optarg string, newOptind int) {
	v := mem.GetArgNum(optind)
	if v.Kind == interp.ValUndef { // no more arguments
		return 1, "?", "", optind
	}
	current := v.Str

	if len(current) == 0 || current[0] != '-' {
		return 1, "?", "", optind
	}

	needsArg, known := spec[current]
	if !known {
		optind++
		return 0, "?", "", optind
	}

	optind++
	optChar = current[len(current)-1:]

	if needsArg {
		v2 := mem.GetArgNum(optind)
		if v2.Kind == interp.ValUndef {
			stdio.Errorf("getopts: option %q requires an argument\n", current)
			return 0, "?", "", optind
		}
		optarg = v2.Str
		optind++
	}
	return 0, optChar, optarg, optind
}

// getoptsBuiltin parses one option from the positional parameters per
// call, driving OPTIND and OPTARG. A corrupt OPTIND is an interpreter
// invariant violation, not a builtin failure.
func getoptsBuiltin(sh *Shell, stdio *core.Stdio, argv []string) int {
	if len(argv) < 2 {
		return core.UsageError(stdio, "getopts", "usage: getopts optstring name [arg]")
	}
	spec := sh.Reg.optSpec(argv[0])
	varName := argv[1]

	v := sh.Mem.GetVar("OPTIND")
	if v.Kind != interp.ValStr {
		panic(interp.Fatalf("OPTIND should be a string, got kind %d", v.Kind))
	}
	optind, err := strconv.Atoi(v.Str)
	if err != nil {
		panic(interp.Fatalf("OPTIND doesn't look like an integer, got %q", v.Str))
	}

	status, optChar, optarg, optind := getoptsStep(spec, sh.Mem, optind, stdio)

	sh.setGlobal(varName, optChar)
	sh.setGlobal("OPTARG", optarg)
	sh.setGlobal("OPTIND", strconv.Itoa(optind))
	return status
}
