// SPDX-License-Identifier: Apache-2.0

// Package state reads declarative kernel module state files.
//
// A state file is a TOML document with [[present]] and [[absent]] tables:
//
//	[[present]]
//	id = "add_kvm"
//	name = "kvm_amd"
//	persist = true
//
//	[[absent]]
//	id = "remove_beep"
//	name = "beep"
//	mods = ["pcspkr", "snd_pcsp"]
//	comment = false
package state

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/hashgraph/kmod-weaver/internal/kmod"
	"github.com/hashgraph/kmod-weaver/pkg/sanity"
	"github.com/joomcode/errorx"
)

// Kind tells whether a declaration loads or unloads modules
type Kind string

const (
	KindPresent Kind = "present"
	KindAbsent  Kind = "absent"
)

// PresentDeclaration is one [[present]] table
type PresentDeclaration struct {
	ID      string   `toml:"id"`
	Name    string   `toml:"name"`
	Mods    []string `toml:"mods"`
	Persist bool     `toml:"persist"`
}

// AbsentDeclaration is one [[absent]] table. Comment defaults to true when omitted.
type AbsentDeclaration struct {
	ID      string   `toml:"id"`
	Name    string   `toml:"name"`
	Mods    []string `toml:"mods"`
	Persist bool     `toml:"persist"`
	Comment *bool    `toml:"comment"`
}

// File is a decoded state file
type File struct {
	Present []PresentDeclaration `toml:"present"`
	Absent  []AbsentDeclaration  `toml:"absent"`
}

// Declaration is a validated entry ready to be handed to the reconciler.
// Exactly one of PresentRequest and AbsentRequest is set, matching Kind.
type Declaration struct {
	ID      string
	Kind    Kind
	Present *kmod.PresentRequest
	Absent  *kmod.AbsentRequest
}

// LoadFile reads and validates the state file at path
func LoadFile(path string) ([]Declaration, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, FileNotFoundError.Wrap(err, "state file not found: %s", path).
			WithProperty(errorx.PropertyPayload(), path)
	}
	if err != nil {
		return nil, ParseError.Wrap(err, "failed to read state file %s", path).
			WithProperty(errorx.PropertyPayload(), path)
	}

	return decode(string(data), path)
}

// Parse decodes and validates a state document held in memory
func Parse(data string) ([]Declaration, error) {
	return decode(data, "state document")
}

// decode applies the same checks to every document, naming it by source in errors
func decode(data string, source string) ([]Declaration, error) {
	var f File
	md, err := toml.Decode(data, &f)
	if err != nil {
		return nil, ParseError.Wrap(err, "failed to parse %s", source).
			WithProperty(errorx.PropertyPayload(), source)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, ParseError.New("unknown keys in %s: %s", source, strings.Join(keys, ", ")).
			WithProperty(errorx.PropertyPayload(), source)
	}

	return f.Declarations()
}

// Declarations validates the file and returns its entries, presents first, each in file order.
func (f *File) Declarations() ([]Declaration, error) {
	ids := map[string]bool{}
	decls := make([]Declaration, 0, len(f.Present)+len(f.Absent))

	for i, p := range f.Present {
		id, err := checkEntry(ids, KindPresent, i, p.ID, p.Name, p.Mods)
		if err != nil {
			return nil, err
		}
		decls = append(decls, Declaration{
			ID:   id,
			Kind: KindPresent,
			Present: &kmod.PresentRequest{
				Name:    p.Name,
				Mods:    p.Mods,
				Persist: p.Persist,
			},
		})
	}

	for i, a := range f.Absent {
		id, err := checkEntry(ids, KindAbsent, i, a.ID, a.Name, a.Mods)
		if err != nil {
			return nil, err
		}
		comment := true
		if a.Comment != nil {
			comment = *a.Comment
		}
		decls = append(decls, Declaration{
			ID:   id,
			Kind: KindAbsent,
			Absent: &kmod.AbsentRequest{
				Name:    a.Name,
				Mods:    a.Mods,
				Persist: a.Persist,
				Comment: comment,
			},
		})
	}

	return decls, nil
}

// checkEntry validates one declaration and returns its id, which defaults to the name
func checkEntry(ids map[string]bool, kind Kind, index int, id, name string, mods []string) (string, error) {
	if name == "" {
		return "", InvalidDeclarationError.New("%s declaration #%d has no name", kind, index+1)
	}

	if id == "" {
		id = name
	}
	if ids[id] {
		return "", InvalidDeclarationError.New("duplicate declaration id %q", id).
			WithProperty(errorx.PropertyPayload(), id)
	}
	ids[id] = true

	// the name is only a label when mods are given
	toCheck := mods
	if len(toCheck) == 0 {
		toCheck = []string{name}
	}
	for _, mod := range toCheck {
		if err := sanity.ModuleName(mod); err != nil {
			return "", InvalidDeclarationError.Wrap(err, "%s declaration %q is invalid", kind, id).
				WithProperty(errorx.PropertyPayload(), id)
		}
	}

	return id, nil
}
