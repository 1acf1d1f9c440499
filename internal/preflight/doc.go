// Package preflight provides readiness checks for the filesystem paths and
// external binaries a pipeline run depends on.
//
// The checks run in two contexts:
//   - The generate command calls RunAll before starting a run, failing fast
//     on unwritable directories instead of wasting minutes of model time.
//   - The deps command uses CheckSystemDeps to display binary availability.
//
// Provider-key checks always pass; missing keys only narrow the background
// provider chain.
package preflight
