// Copyright 2025 The FerroSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package menu

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/kballard/go-shellquote"

	"github.com/ferrostor/ferret/internal/cli"
	"github.com/ferrostor/ferret/pkg/errors"
	"github.com/ferrostor/ferret/pkg/foundry"
)

type formKind int

const (
	formCreatePool formKind = iota
	formCreateDataset
	formSetProperties
	formCreateSnapshot
)

// formField is one labelled input row.
type formField struct {
	label string
	hint  string
	input textinput.Model
}

// form is an in-flight create/edit flow. Field values are read only at
// submit; until then the form owns all keystrokes.
type form struct {
	kind    formKind
	title   string
	target  string // pool or dataset the form acts on, when applicable
	fields  []formField
	focused int
	problem string // local validation failure shown under the fields
}

func newField(label, hint, placeholder string) formField {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Placeholder = placeholder
	return formField{label: label, hint: hint, input: ti}
}

func newForm(kind formKind, title, target string, fields ...formField) *form {
	f := &form{kind: kind, title: title, target: target, fields: fields}
	if len(f.fields) > 0 {
		f.fields[0].input.Focus()
	}
	return f
}

func newCreatePoolForm() *form {
	return newForm(formCreatePool, "Create Pool", "",
		newField("Name", "", "tank"),
		newField("Disks", "space-separated paths, quotes allowed", "/dev/sda /dev/sdb"),
		newField("Raid", "single  mirror  raidz  raidz2  raidz3 (empty = single)", "single"),
	)
}

func newCreateDatasetForm(pool string) *form {
	return newForm(formCreateDataset, "Create Dataset", pool,
		newField("Path under "+pool+"/", "", "data"),
		newField("Kind", "filesystem  volume (empty = filesystem)", "filesystem"),
		newField("Properties", "key=value pairs, space-separated", "compression=zstd atime=off"),
	)
}

func newSetPropertiesForm(dataset string) *form {
	return newForm(formSetProperties, "Set Properties on "+dataset, dataset,
		newField("Properties", "key=value pairs, space-separated", "compression=zstd"),
	)
}

func newCreateSnapshotForm(dataset string) *form {
	return newForm(formCreateSnapshot, "Create Snapshot of "+dataset, dataset,
		newField("Label", "", "before-upgrade"),
	)
}

// next moves focus down, wrapping. prev is its inverse.
func (f *form) next() {
	f.fields[f.focused].input.Blur()
	f.focused = (f.focused + 1) % len(f.fields)
	f.fields[f.focused].input.Focus()
}

func (f *form) prev() {
	f.fields[f.focused].input.Blur()
	f.focused = (f.focused - 1 + len(f.fields)) % len(f.fields)
	f.fields[f.focused].input.Focus()
}

func (f *form) onLastField() bool {
	return f.focused == len(f.fields)-1
}

// update forwards a message to the focused text input.
func (f *form) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.fields[f.focused].input, cmd = f.fields[f.focused].input.Update(msg)
	return cmd
}

func (f *form) value(i int) string {
	return f.fields[i].input.Value()
}

// submit validates field values and builds the agent call. A nil command
// means validation failed and f.problem explains why; the form stays up.
func (f *form) submit(c *foundry.Client) tea.Cmd {
	f.problem = ""

	switch f.kind {
	case formCreatePool:
		name := f.value(0)
		if name == "" {
			f.problem = "pool name cannot be empty"
			return nil
		}
		disks, err := shellquote.Split(f.value(1))
		if err != nil {
			f.problem = "disks: " + err.Error()
			return nil
		}
		if len(disks) == 0 {
			f.problem = "at least one disk is required"
			return nil
		}
		raid, err := foundry.ParseRaidType(f.value(2))
		if err != nil {
			f.problem = problemText(err)
			return nil
		}
		return createPoolCmd(c, name, disks, raid)

	case formCreateDataset:
		path := f.value(0)
		if path == "" {
			f.problem = "dataset path cannot be empty"
			return nil
		}
		kindInput := f.value(1)
		if kindInput == "" {
			kindInput = "filesystem"
		}
		kind, err := foundry.ParseDatasetKind(kindInput)
		if err != nil {
			f.problem = problemText(err)
			return nil
		}
		props, err := parseProps(f.value(2))
		if err != nil {
			f.problem = problemText(err)
			return nil
		}
		return createDatasetCmd(c, f.target+"/"+path, kind, props)

	case formSetProperties:
		props, err := parseProps(f.value(0))
		if err != nil {
			f.problem = problemText(err)
			return nil
		}
		if len(props) == 0 {
			f.problem = "no properties specified"
			return nil
		}
		return setPropertiesCmd(c, f.target, props)

	case formCreateSnapshot:
		label := f.value(0)
		if label == "" {
			f.problem = "snapshot label cannot be empty"
			return nil
		}
		return createSnapshotCmd(c, f.target, label)
	}

	return nil
}

// parseProps splits a shell-quoted list of key=value words into a map.
func parseProps(s string) (map[string]string, error) {
	words, err := shellquote.Split(s)
	if err != nil {
		return nil, errors.New(errors.RequestInvalid, "properties: "+err.Error())
	}
	if len(words) == 0 {
		return nil, nil
	}
	return cli.ParseProperties(words)
}

// problemText prefers the structured detail over the full bracketed form.
func problemText(err error) string {
	if fe, ok := errors.AsFerretError(err); ok && fe.Details != "" {
		return fe.Details
	}
	return err.Error()
}
