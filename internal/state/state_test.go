// SPDX-License-Identifier: Apache-2.0

package state

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hashgraph/kmod-weaver/internal/kmod"
	"github.com/joomcode/errorx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleState = `
[[present]]
id = "add_kvm"
name = "kvm_amd"
persist = true

[[absent]]
id = "remove_beep"
name = "beep"
mods = ["pcspkr", "snd_pcsp"]
comment = false

[[absent]]
name = "floppy"
persist = true
`

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.toml")
	require.NoError(t, os.WriteFile(path, []byte(sampleState), 0o644))

	decls, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, decls, 3)

	assert.Equal(t, "add_kvm", decls[0].ID)
	assert.Equal(t, KindPresent, decls[0].Kind)
	assert.Nil(t, decls[0].Absent)
	assert.Equal(t, &kmod.PresentRequest{Name: "kvm_amd", Persist: true}, decls[0].Present)

	assert.Equal(t, "remove_beep", decls[1].ID)
	assert.Equal(t, KindAbsent, decls[1].Kind)
	assert.Equal(t, &kmod.AbsentRequest{
		Name:    "beep",
		Mods:    []string{"pcspkr", "snd_pcsp"},
		Comment: false,
	}, decls[1].Absent)

	// id falls back to the name and comment defaults to true
	assert.Equal(t, "floppy", decls[2].ID)
	assert.Equal(t, &kmod.AbsentRequest{Name: "floppy", Persist: true, Comment: true}, decls[2].Absent)
}

func TestLoadFile_PresentBeforeAbsent(t *testing.T) {
	decls, err := Parse(`
[[absent]]
name = "pcspkr"

[[present]]
name = "dummy"
`)
	require.NoError(t, err)
	require.Len(t, decls, 2)
	assert.Equal(t, KindPresent, decls[0].Kind)
	assert.Equal(t, KindAbsent, decls[1].Kind)
}

func TestLoadFile_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
		errType *errorx.Type
	}{
		{
			name:    "malformed toml",
			content: "[[present]\nname = ",
			errType: ParseError,
		},
		{
			name:    "unknown key",
			content: "[[present]]\nname = \"dummy\"\npersistent = true\n",
			errType: ParseError,
		},
		{
			name:    "missing name",
			content: "[[present]]\nid = \"x\"\n",
			errType: InvalidDeclarationError,
		},
		{
			name:    "duplicate id across sections",
			content: "[[present]]\nid = \"x\"\nname = \"dummy\"\n[[absent]]\nid = \"x\"\nname = \"pcspkr\"\n",
			errType: InvalidDeclarationError,
		},
		{
			name:    "invalid module name",
			content: "[[present]]\nname = \"../dummy\"\n",
			errType: InvalidDeclarationError,
		},
		{
			name:    "invalid module in mods",
			content: "[[absent]]\nname = \"beep\"\nmods = [\"pcspkr\", \"snd pcsp\"]\n",
			errType: InvalidDeclarationError,
		},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, "state"+string(rune('a'+i))+".toml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			_, err := LoadFile(path)
			require.Error(t, err)
			assert.True(t, errorx.IsOfType(err, tt.errType), "unexpected error: %v", err)
		})
	}
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
	assert.True(t, errorx.IsOfType(err, FileNotFoundError))
	assert.True(t, errorx.HasTrait(err, errorx.NotFound()))
}

func TestParse_NameIsLabelWhenModsGiven(t *testing.T) {
	decls, err := Parse(`
[[present]]
name = "network filtering"
mods = ["br_netfilter", "overlay"]
`)
	require.NoError(t, err)
	require.Len(t, decls, 1)
	assert.Equal(t, "network filtering", decls[0].ID)
	assert.Equal(t, []string{"br_netfilter", "overlay"}, decls[0].Present.Mods)
}

func TestParse_RejectsUnknownKeys(t *testing.T) {
	_, err := Parse(`
[[absent]]
name = "pcspkr"
coment = false
`)
	require.Error(t, err)
	assert.True(t, errorx.IsOfType(err, ParseError))
	assert.Contains(t, err.Error(), "absent.coment")
}
