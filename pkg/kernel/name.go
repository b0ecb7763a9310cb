// SPDX-License-Identifier: Apache-2.0

package kernel

import "strings"

// CanonicalName returns the spelling the kernel reports for a module name.
// The kernel treats '-' and '_' in module names as the same character and lists them as '_'.
func CanonicalName(name string) string {
	return strings.ReplaceAll(name, "-", "_")
}

// CanonicalNames maps names to their canonical spelling, dropping duplicates and keeping order
func CanonicalNames(names []string) []string {
	if names == nil {
		return nil
	}

	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		c := CanonicalName(name)
		if seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}
