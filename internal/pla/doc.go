// Package pla reads and writes iriver UMS playlist files.
//
// A file is a sequence of 512-byte frames with big-endian integers. The
// header frame holds a 4-byte signed song count followed by the ASCII tag
// "iriver UMS PLA". Each song frame holds a 2-byte name index followed by the
// device path as UTF-16BE code units and zero padding; the path must leave
// room for a terminating zero unit.
//
// Encoder turns a playlist.Playlist into a Document, skipping entries whose
// device path does not fit a frame, and writes it atomically. Decode reads a
// file back for inspection.
package pla
