// Package playlist owns the ordered list of source songs and the generation
// settings for one PLA playlist.
//
// Besides the Playlist model it exposes the two pure helpers the model is
// composed from: FilterSupported, which keeps the file types the player can
// decode, and ComputeOutputPath, which maps a host source path to the
// backslash-separated path written into the playlist together with the
// 1-based index at which the file's own name starts. Row helpers (MoveUp,
// MoveDown, Remove, Unique) implement the list editing the CLI offers without
// mutating the model directly; callers apply their result with SetFiles.
package playlist
