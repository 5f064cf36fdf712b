package preflight

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"iriverpla/internal/pla"
	"iriverpla/internal/playlist"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	return checkDirectory(name, path, unix.R_OK|unix.W_OK|unix.X_OK, "read/write ok")
}

// CheckDirectoryReadable verifies that the directory exists and can be listed.
func CheckDirectoryReadable(name, path string) Result {
	return checkDirectory(name, path, unix.R_OK|unix.X_OK, "readable")
}

func checkDirectory(name, path string, mode uint32, ok string) Result {
	if strings.TrimSpace(path) == "" {
		return Result{Name: name, Detail: "not configured"}
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, mode); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s)", path, ok)}
}

// CheckFATFilesystem verifies that path lives on a FAT (vfat/msdos) volume,
// the only filesystem the player reads.
func CheckFATFilesystem(name, path string) Result {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: statfs: %v)", path, err)}
	}
	if int64(st.Type) != unix.MSDOS_SUPER_MAGIC {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not a FAT filesystem, type 0x%x)", path, st.Type)}
	}
	free := uint64(st.Bavail) * uint64(st.Bsize)
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (FAT, %d MiB free)", path, free>>20)}
}

// CheckEntries verifies that every playlist entry can be encoded and reports
// entries that will be skipped because their device path is too long.
func CheckEntries(name string, p *playlist.Playlist) Result {
	doc, err := pla.NewEncoder(nil).Prepare(p)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	if p.Len() == 0 {
		return Result{Name: name, Detail: "playlist is empty"}
	}
	if len(doc.Skipped) > 0 {
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%d encodable, %d too long (will be skipped)", len(doc.Songs), len(doc.Skipped))}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%d encodable", len(doc.Songs))}
}

// CheckNtfy verifies that the ntfy topic URL answers.
func CheckNtfy(ctx context.Context, topic string) Result {
	const name = "ntfy"

	topic = strings.TrimRight(strings.TrimSpace(topic), "/")
	if topic == "" {
		return Result{Name: name, Detail: "missing topic"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	client := &http.Client{Timeout: 5 * time.Second}
	req, err := http.NewRequestWithContext(checkCtx, http.MethodGet, topic+"/json?poll=1", nil)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("check failed (%v)", err)}
	}

	resp, err := client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return Result{Name: name, Detail: "check timed out"}
		}
		return Result{Name: name, Detail: fmt.Sprintf("check failed (%v)", err)}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return Result{Name: name, Passed: true, Detail: "Reachable"}
	case http.StatusUnauthorized, http.StatusForbidden:
		return Result{Name: name, Detail: "access denied (topic protected)"}
	default:
		return Result{Name: name, Detail: fmt.Sprintf("check failed (%d)", resp.StatusCode)}
	}
}
