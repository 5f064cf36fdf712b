// Package device watches for the player being plugged in.
//
// Monitor listens on the udev netlink socket for block devices carrying a
// vfat filesystem. When one appears (optionally restricted to a filesystem
// label) it waits for the configured settle time so the desktop automounter
// can mount it, then calls the handler with the partition details.
// MountPoint resolves where a partition ended up in the host filesystem.
package device
