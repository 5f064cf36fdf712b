// Package main hosts the iriverpla CLI entrypoint and command graph.
//
// The Cobra command tree edits stored playlists (add, remove, move, set),
// reports what a generation would do (plan, check), writes PLA files to the
// player (generate, watch) and inspects the results (inspect, logs). It
// centralizes configuration resolution, store access and logger setup in
// commandContext so subcommands stay small.
//
// Playlist logic lives in the internal packages; commands here only parse
// arguments, call into them and render the results.
package main
