// Package preflight provides readiness checks for the player mount and the
// local paths iriverpla depends on.
//
// The CLI "iriverpla check" command runs RunAll and renders the results;
// "iriverpla generate" runs the same checks first and aborts when a required
// one fails. Checks for optional features are skipped when the feature is not
// configured.
package preflight
