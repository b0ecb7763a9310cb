// SPDX-License-Identifier: Apache-2.0

package kernel

import "fmt"

// ResultKind tags the variant held by a Result
type ResultKind int

const (
	// KindChanged means the operation ran; Modules lists what it affected and may be empty.
	KindChanged ResultKind = iota
	// KindUnavailable means the module could not be found on this host.
	KindUnavailable
	// KindFailed means the operation returned an error.
	KindFailed
)

func (k ResultKind) String() string {
	switch k {
	case KindChanged:
		return "changed"
	case KindUnavailable:
		return "unavailable"
	case KindFailed:
		return "failed"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Result is the outcome of a single Load or Unload call.
type Result struct {
	Kind    ResultKind
	Modules []string
	Err     error
}

// Changed returns a result listing the modules affected by the operation.
func Changed(modules ...string) Result {
	return Result{Kind: KindChanged, Modules: modules}
}

// Unavailable returns a result for a module that does not exist on this host.
func Unavailable() Result {
	return Result{Kind: KindUnavailable}
}

// Failed returns a result carrying err.
func Failed(err error) Result {
	return Result{Kind: KindFailed, Err: err}
}

// Message returns the error text of a failed result, or an empty string.
func (r Result) Message() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}
