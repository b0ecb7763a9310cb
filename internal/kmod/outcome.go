// SPDX-License-Identifier: Apache-2.0

package kmod

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Status is the tri-state result of a convergence run
type Status int

const (
	StatusSuccess Status = iota
	StatusFailure
	// StatusPending means changes are required but dry-run suppressed them
	StatusPending
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusFailure:
		return "failure"
	case StatusPending:
		return "pending"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// value maps the status onto true, false and nil (null)
func (s Status) value() interface{} {
	switch s {
	case StatusSuccess:
		return true
	case StatusFailure:
		return false
	default:
		return nil
	}
}

func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.value())
}

func (s Status) MarshalYAML() (interface{}, error) {
	return s.value(), nil
}

// Action records what happened to a module
type Action string

const (
	ActionLoaded  Action = "loaded"
	ActionRemoved Action = "removed"
)

// Outcome is the structured result handed back to the state engine
type Outcome struct {
	Name    string            `yaml:"name" json:"name"`
	Result  Status            `yaml:"result" json:"result"`
	Changes map[string]Action `yaml:"changes" json:"changes"`
	Comment string            `yaml:"comment" json:"comment"`
}

func newOutcome(name string) *Outcome {
	return &Outcome{
		Name:    name,
		Result:  StatusSuccess,
		Changes: map[string]Action{},
	}
}

// Succeeded reports whether the run completed without failures; a pending dry-run counts as success.
func (o *Outcome) Succeeded() bool {
	return o.Result != StatusFailure
}

// appendComment adds a line to the comment, trimming trailing whitespace of what is already there
func (o *Outcome) appendComment(line string) {
	if o.Comment == "" {
		o.Comment = line
		return
	}
	o.Comment = strings.TrimRight(o.Comment, " \t\r\n") + "\n" + line
}

// describe renders "Kernel module a <singular>" or "Kernel modules a, b <plural>"
func describe(mods []string, singular string, plural string) string {
	if len(mods) == 1 {
		return fmt.Sprintf("Kernel module %s %s", mods[0], singular)
	}
	return fmt.Sprintf("Kernel modules %s %s", strings.Join(mods, ", "), plural)
}

type moduleFailure struct {
	module  string
	message string
}

// tally collects per-module results of a load or unload pass
type tally struct {
	done    []string
	notDone []string
	failed  []moduleFailure
}

// summarize appends the aggregate comment lines, e.g. verb "load" and past "Loaded"
func (t *tally) summarize(o *Outcome, verb string, past string) {
	switch len(t.done) {
	case 0:
	case 1:
		o.appendComment(fmt.Sprintf("%s kernel module %s", past, t.done[0]))
	default:
		o.appendComment(fmt.Sprintf("%s kernel modules %s", past, strings.Join(t.done, ", ")))
	}

	switch len(t.notDone) {
	case 0:
	case 1:
		o.appendComment(fmt.Sprintf("Failed to %s kernel module %s", verb, t.notDone[0]))
	default:
		o.appendComment(fmt.Sprintf("Failed to %s kernel modules %s", verb, strings.Join(t.notDone, ", ")))
	}

	for _, f := range t.failed {
		o.appendComment(fmt.Sprintf("Failed to %s kernel module %s: %s", verb, f.module, f.message))
	}
}
