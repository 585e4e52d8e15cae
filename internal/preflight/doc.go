// Package preflight provides readiness checks for the filesystem paths and
// external binaries parley depends on.
//
// `parley play` runs the binary checks before touching the audio device so a
// missing ffplay fails fast with a readable message; `parley doctor` prints
// every check. Checks are gated by configuration: the ffplay binaries are
// only required when the ffplay transport is selected and the journal is only
// opened when it is enabled.
package preflight
