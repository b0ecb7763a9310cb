// SPDX-License-Identifier: Apache-2.0

package sanity

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/joomcode/errorx"
)

// maxModuleNameLen is MODULE_NAME_LEN minus the terminating NUL
const maxModuleNameLen = 55

const confSuffix = ".conf"

// confStemChars matches the part of a modules-load.d file name before the suffix
var confStemChars = regexp.MustCompile(`^[a-zA-Z0-9_\-][a-zA-Z0-9_.\-]*$`)

// moduleNameChars matches the characters the kernel accepts in a module name
var moduleNameChars = regexp.MustCompile(`^[a-zA-Z0-9_\-]+$`)

// Security validation patterns for paths
var (
	// shellMetachars contains dangerous shell metacharacters that should be rejected
	shellMetachars = regexp.MustCompile(`[;&|$\x60<>(){}[\]*?~]`)

	// validPathChars ensures paths only contain safe characters
	// Allows: alphanumeric, forward slash, dash, underscore, dot
	validPathChars = regexp.MustCompile(`^[a-zA-Z0-9/_.\-]+$`)
)

// ConfFile validates the name of a modules-load.d file such as 99-cluster.conf.
// The name must be a bare file name ending in ".conf" with a non-empty stem.
func ConfFile(name string) error {
	stem, ok := strings.CutSuffix(name, confSuffix)
	if !ok {
		return errorx.IllegalArgument.New("file name must end in %s: %s", confSuffix, name)
	}

	if !confStemChars.MatchString(stem) {
		return errorx.IllegalArgument.New("file name must be a plain <name>%s: %s", confSuffix, name)
	}

	return nil
}

// SanitizePath validates and sanitizes the given path according to strict security rules.
//
// Specifically, it:
//  1. Rejects paths containing shell metacharacters (e.g., ; & | $ ` < > ( ) { } [ ] * ? ~).
//  2. Rejects path traversal attempts (e.g., segments like "../", "/..", or paths ending with "..").
//  3. Requires the input path to be absolute.
//  4. Normalizes the path by removing redundant slashes and dot directories (using filepath.Clean).
//  5. May return a cleaned version of the input path that differs from the original.
//
// Returns the sanitized (cleaned) path, or an error if the input is invalid or unsafe.
func SanitizePath(path string) (string, error) {
	if path == "" {
		return "", errorx.IllegalArgument.New("path cannot be empty")
	}

	// Ensure it's an absolute path
	if !filepath.IsAbs(path) {
		return "", errorx.IllegalArgument.New("path must be absolute: %s", path)
	}

	// Check for path traversal patterns BEFORE cleaning
	// This catches patterns like "../", "/..", and paths ending with ".."
	// which could allow escaping the intended directory structure
	// Check for ".." as a path segment
	for _, segment := range strings.Split(path, "/") {
		if segment == ".." {
			return "", errorx.IllegalArgument.New("path cannot contain '..' segments: %s", path)
		}
	}

	// Check for shell metacharacters in the original path
	if shellMetachars.MatchString(path) {
		return "", errorx.IllegalArgument.New("path contains shell metacharacters: %s", path)
	}

	// Check for valid characters in the original path
	if !validPathChars.MatchString(path) {
		return "", errorx.IllegalArgument.New("path contains invalid characters: %s", path)
	}

	return filepath.Clean(path), nil
}

// ModuleName validates a kernel module name such as br_netfilter or snd-hda-intel.
// It rejects empty names, paths and anything outside [a-zA-Z0-9_-].
func ModuleName(name string) error {
	if name == "" {
		return errorx.IllegalArgument.New("module name cannot be empty")
	}

	if len(name) > maxModuleNameLen {
		return errorx.IllegalArgument.New("module name is longer than %d characters: %s", maxModuleNameLen, name)
	}

	if !moduleNameChars.MatchString(name) {
		return errorx.IllegalArgument.New("module name contains invalid characters: %s", name)
	}

	return nil
}
