package util

import (
	"path/filepath"
	"strconv"
	"strings"
)

// Mnemonics derives a unique short name for each database path from its file
// basename. Colliding basenames get numeric suffixes in input order.
func Mnemonics(paths []string) []string {
	names := make([]string, len(paths))
	counts := make(map[string]int, len(paths))
	for i, p := range paths {
		base := filepath.Base(p)
		if ext := filepath.Ext(base); ext != "" {
			base = strings.TrimSuffix(base, ext)
		}
		names[i] = base
		counts[base]++
	}

	seen := make(map[string]int, len(counts))
	for i, name := range names {
		if counts[name] > 1 {
			names[i] = name + strconv.Itoa(seen[name])
			seen[name]++
		}
	}
	return names
}
