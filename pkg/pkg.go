//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
)

// Version is the semantic version of the module, embedded at build time.
//
//go:embed VERSION
var Version string

const (
	// Name is the command name. It also names the per-user configuration
	// and cache directories.
	Name = "minilang"
	// Description is the one-line summary shown in help output.
	Description = "A small imperative scripting language"
)

// AuthorInfo is an author's name and email address.
type AuthorInfo struct {
	Name  string
	Email string
}

// Author lists the primary author(s) of the project.
var Author = []AuthorInfo{
	{"ardnew", "andrew@ardnew.com"},
}
