// Package workflow sequences playlist generation.
//
// Manager.DoWork runs the steps in order: check the playlist destination,
// reconcile against the music destination, copy missing files, encode the
// PLA file and report it ready. The first failing step ends the run. Every
// call delivers exactly one terminal event to its Listener: OnError on
// failure or OnReady on success.
//
// Failures are returned as *StepError values whose Kind classifies the
// underlying sentinel error. Entries skipped because their device path is
// too long are logged and reported in the Result but do not fail the run.
package workflow
