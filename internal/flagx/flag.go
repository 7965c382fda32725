// Package flagx lets several loaders parse their own flags out of one
// command line without tripping over each other's.
package flagx

import (
	"flag"
	"io"
	"strings"
)

// flagName returns the bare name of a flag argument ("--config=x" gives
// "config") and whether the value is inline. ok is false for non-flags.
func flagName(arg string) (name string, inline, ok bool) {
	if len(arg) < 2 || arg[0] != '-' {
		return "", false, false
	}
	name = strings.TrimPrefix(arg[1:], "-")
	name, _, inline = strings.Cut(name, "=")
	return name, inline, name != ""
}

// FilterArgs keeps only the flags listed in allowed, together with their
// values, in their original order.
//
// Names in allowed may carry dashes or not; "-c", "--c" and "c" are the same
// flag, as with package flag. A value is either inline (-c=conf.json) or the
// next argument when that does not start with a dash. Filtering stops at
// "--".
func FilterArgs(args []string, allowed []string) []string {
	keep := make(map[string]struct{}, len(allowed))
	for _, f := range allowed {
		keep[strings.TrimLeft(f, "-")] = struct{}{}
	}

	filtered := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			break
		}

		name, inline, ok := flagName(arg)
		if !ok {
			continue
		}
		if _, want := keep[name]; !want {
			continue
		}

		filtered = append(filtered, arg)
		if !inline && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}

	return filtered
}

// ConfigPath returns the JSON config file named by -c or -config in args,
// or "" when neither is given. The last occurrence wins.
func ConfigPath(args []string) string {
	var path string

	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&path, "config", "", "Path to config file")
	fs.StringVar(&path, "c", "", "Path to config file (short)")
	_ = fs.Parse(FilterArgs(args, []string{"c", "config"}))

	return path
}
