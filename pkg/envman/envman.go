// Package envman wraps the conda and pip command line tools behind a
// Manager interface.
//
// The shell scripts this tool replaces toggled a process-wide "activated"
// environment. Here activation is an explicit Session handle instead:
// a Session is bound to one environment prefix and addresses that
// environment's own pip directly, so no global state changes hands.
package envman

import (
	"context"
)

// Environment is a runtime environment known to the manager.
type Environment struct {
	Name   string // Name of the environment, e.g. pax_head or pax_v6.8.0
	Prefix string // Prefix is the filesystem root of the environment
}

// Manager lists, creates and opens isolated runtime environments.
type Manager interface {
	// List returns all environments in the manager's registry.
	List(ctx context.Context) ([]Environment, error)

	// Exists reports whether an environment with the given name is registered.
	Exists(ctx context.Context, name string) (bool, error)

	// Clone creates a new environment as a copy of an existing one.
	Clone(ctx context.Context, src, dst string) error

	// Session opens a handle on a named environment. It fails when the
	// environment does not exist.
	Session(ctx context.Context, name string) (Session, error)
}

// Session is a handle on one environment, the explicit replacement for the
// shell's "currently activated environment".
type Session interface {
	// Name of the environment this session is bound to.
	Name() string

	// Root is the filesystem prefix of the environment.
	Root() string

	// Install installs the package rooted at workdir into the environment.
	Install(ctx context.Context, workdir string) error

	// Uninstall removes a package from the environment. Removing a package
	// that is not installed is not an error.
	Uninstall(ctx context.Context, pkg string) error
}
