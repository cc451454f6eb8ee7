// Copyright 2025 The FerroSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

// Package names validates pool, dataset, and snapshot names before they are
// sent to the storage agent, and handles the canonical snapshot reference
// form "dataset@label". The grammar follows OpenZFS zfs_namecheck.c; the
// agent performs the authoritative validation, these checks only reject
// requests that could never be valid.
package names

import (
	"net/url"
	"strings"

	"github.com/ferrostor/ferret/pkg/errors"
)

// Maximum lengths and limits, per OpenZFS
const (
	MaxNameLen    = 256 // ZFS_MAX_DATASET_NAME_LEN
	MaxNesting    = 50  // zfs_max_dataset_nesting default value
	maxPoolPflags = 2 + len("$ORIGIN")*2
)

// isValidChar follows the valid_char() logic from zfs_namecheck.c
func isValidChar(c rune) bool {
	return (c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9') ||
		c == '-' || c == '_' || c == '.' || c == ':' || c == ' '
}

// Depth returns the nesting depth of a dataset name, not counting anything
// past the snapshot delimiter.
func Depth(name string) int {
	depth := 0
	for i := 0; i < len(name); i++ {
		if name[i] == '/' {
			depth++
		}
		if name[i] == '@' {
			break
		}
	}
	return depth
}

// entityCheck walks the '/'-separated components of a name and validates
// each one, allowing at most a single '@' delimiter.
func entityCheck(name string) error {
	if len(name) >= MaxNameLen {
		return errors.New(errors.NameTooLong, "name too long: "+name)
	}

	if len(name) == 0 {
		return errors.New(errors.NameEmptyComponent, "name is empty")
	}

	if name[0] == '/' {
		return errors.New(errors.NameLeadingSlash, "name cannot start with '/': "+name)
	}

	if name[len(name)-1] == '/' {
		return errors.New(errors.NameTrailingSlash, "trailing slash: "+name)
	}

	foundDelim := false
	start := 0

	for start < len(name) {
		end := start
		for end < len(name) && name[end] != '/' && name[end] != '@' {
			end++
		}

		// Zero-length components are not allowed
		if start == end {
			return errors.New(errors.NameEmptyComponent,
				"empty component after '/' or '@': "+name)
		}

		component := name[start:end]
		for _, c := range component {
			// '%' passes here for the same reason it does in OpenZFS:
			// it appears in internal dataset names.
			if !isValidChar(c) && c != '%' {
				return errors.New(errors.NameInvalidChar, "invalid character: "+name)
			}
		}

		if component == "." {
			return errors.New(errors.NameSelfRef, "self reference: "+name)
		}
		if component == ".." {
			return errors.New(errors.NameParentRef, "parent reference: "+name)
		}

		if end == len(name) {
			break
		}

		if name[end] == '@' {
			if foundDelim {
				return errors.New(errors.NameMultipleDelimiters,
					"multiple '@' delimiters: "+name)
			}
			foundDelim = true

			if end+1 >= len(name) {
				return errors.New(errors.NameEmptyComponent,
					"empty component after delimiter: "+name)
			}
		}

		if name[end] == '/' && foundDelim {
			return errors.New(errors.NameTrailingSlash, "slash after delimiter: "+name)
		}

		start = end + 1
	}

	if Depth(name) >= MaxNesting {
		return errors.New(errors.NameTooNested, "nesting too deep: "+name)
	}

	return nil
}

// PoolCheck validates a pool name.
func PoolCheck(name string) error {
	if len(name) >= MaxNameLen-maxPoolPflags {
		return errors.New(errors.NameTooLong, "pool name too long: "+name)
	}

	// Must begin with a letter
	if len(name) == 0 ||
		!((name[0] >= 'a' && name[0] <= 'z') || (name[0] >= 'A' && name[0] <= 'Z')) {
		return errors.New(errors.NameNoLetter, "pool name must begin with a letter: "+name)
	}

	for _, c := range name {
		if !isValidChar(c) {
			return errors.New(errors.NameInvalidChar, "invalid character in pool name: "+name)
		}
	}

	if name == "mirror" || name == "raidz" || name == "draid" {
		return errors.New(errors.NameReserved, "internally reserved name: "+name)
	}

	return nil
}

// DatasetCheck validates a full dataset name of the form pool/path. The
// owning pool prefix is mandatory: the agent addresses datasets by their
// complete name and a bare pool name is a pool, not a dataset.
func DatasetCheck(name string) error {
	if err := entityCheck(name); err != nil {
		return err
	}

	if strings.ContainsRune(name, '@') {
		return errors.New(errors.NameInvalidChar,
			"dataset name cannot contain snapshot delimiter: "+name)
	}

	slash := strings.IndexByte(name, '/')
	if slash < 0 {
		return errors.New(errors.NameMissingPoolPrefix,
			"dataset name must be of the form pool/path: "+name)
	}

	return PoolCheck(name[:slash])
}

// LabelCheck validates a bare snapshot label (the part after '@').
func LabelCheck(label string) error {
	if len(label) == 0 {
		return errors.New(errors.NameEmptyComponent, "snapshot label is empty")
	}
	if len(label) >= MaxNameLen {
		return errors.New(errors.NameTooLong, "snapshot label too long: "+label)
	}
	for _, c := range label {
		if !isValidChar(c) {
			return errors.New(errors.NameInvalidChar,
				"invalid character in snapshot label: "+label)
		}
	}
	return nil
}

// PoolOf returns the owning pool of a dataset or snapshot name.
func PoolOf(name string) string {
	end := len(name)
	if i := strings.IndexByte(name, '@'); i >= 0 {
		end = i
	}
	if i := strings.IndexByte(name[:end], '/'); i >= 0 {
		end = i
	}
	return name[:end]
}

// SnapshotRef is the parsed form of the agent's canonical "dataset@label"
// snapshot identity. The textual form is always derived from the pair,
// never stored.
type SnapshotRef struct {
	Dataset string
	Label   string
}

// ParseSnapshotRef splits a canonical "dataset@label" string.
func ParseSnapshotRef(ref string) (SnapshotRef, error) {
	if err := entityCheck(ref); err != nil {
		return SnapshotRef{}, err
	}

	at := strings.IndexByte(ref, '@')
	if at < 0 {
		return SnapshotRef{}, errors.New(errors.NameNoAtSign,
			"snapshot reference is missing '@': "+ref)
	}

	return SnapshotRef{Dataset: ref[:at], Label: ref[at+1:]}, nil
}

// String returns the canonical wire form.
func (r SnapshotRef) String() string {
	return r.Dataset + "@" + r.Label
}

// EncodeName percent-encodes each '/'-separated component of a resource
// name individually, keeping the separators literal. Reserved characters
// inside a component (space, ':') must not be misread by the transport,
// while the slashes of a dataset path stay path separators.
func EncodeName(name string) string {
	parts := strings.Split(name, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
