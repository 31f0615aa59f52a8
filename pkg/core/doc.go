// Package core implements the environment provisioner: the versioned
// deployment workflow for analysis packages on a shared cluster.
//
// A single invocation reinstalls a package's head environment and, for the
// primary package, brings the environment for its latest released tag into
// existence: clone of the head environment, tagged install, companion
// installs, activation hook links and output directory provisioning.
//
// Every step is idempotent and reports an explicit outcome (done,
// already-done, failed), so a run interrupted part-way can simply be
// repeated. Existing environments are never recreated and never deleted.
package core
