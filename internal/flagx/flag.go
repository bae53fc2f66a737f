// Package flagx lets several packages share one command line: each of them
// picks out only the flags it owns before handing the result to a FlagSet.
package flagx

import (
	"flag"
	"strings"
)

// FilterArgs keeps the flags named in valueFlags and boolFlags, dropping
// everything else.
//
// A value flag may be written as "-f value" or "-f=value"; in the first form
// the following token is kept as its value unless it starts with "-".
// A bool flag never takes the following token, so "-strict-pin login" keeps
// only "-strict-pin". The result is never nil.
func FilterArgs(args []string, valueFlags []string, boolFlags ...string) []string {
	kinds := make(map[string]bool, len(valueFlags)+len(boolFlags))
	for _, f := range valueFlags {
		kinds[f] = true
	}
	for _, f := range boolFlags {
		kinds[f] = false
	}

	filtered := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			continue
		}

		name, _, inline := strings.Cut(arg, "=")
		takesValue, ok := kinds[name]
		if !ok {
			continue
		}
		filtered = append(filtered, arg)

		if inline || !takesValue {
			continue
		}
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}
	return filtered
}

// ConfigPath returns the JSON config file named by -c or -config in args
// (typically os.Args[1:]), or "" when neither is present. The last
// occurrence wins.
func ConfigPath(args []string) string {
	var path string

	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	fs.StringVar(&path, "config", "", "path to config file")
	fs.StringVar(&path, "c", "", "path to config file (short)")
	_ = fs.Parse(FilterArgs(args, []string{"-c", "-config"}))

	return path
}
