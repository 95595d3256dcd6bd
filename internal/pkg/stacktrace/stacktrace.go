// Package stacktrace trims runtime stacks down to this module's frames.
package stacktrace

import "strings"

// InternalPaths returns "internal/...go:line" locations found in a raw
// runtime stack, in stack order.
func InternalPaths(stack []byte) []string {
	var paths []string
	for line := range strings.Lines(string(stack)) {
		line = strings.TrimSpace(line)

		file, _, ok := strings.Cut(line, " +0x")
		if !ok {
			file = line
		}
		if !strings.Contains(file, ".go:") {
			continue
		}

		if i := strings.Index(file, "/internal/"); i != -1 {
			paths = append(paths, file[i+1:])
		}
	}
	return paths
}
