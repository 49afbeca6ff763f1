// Package preflight provides readiness checks for the external tools and
// filesystem paths that Dialogger depends on.
//
// The convert command runs RunAll before starting Whisper so a missing log
// directory or an unwritable output directory fails fast. The status command
// renders CheckSystemDeps and ProbeGPU as tables.
package preflight
