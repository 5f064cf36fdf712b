package device

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ErrNotMounted reports a device with no entry in the mount table.
var ErrNotMounted = errors.New("device not mounted")

const mountTable = "/proc/self/mounts"

// MountPoint returns where devName is mounted.
func MountPoint(devName string) (string, error) {
	f, err := os.Open(mountTable)
	if err != nil {
		return "", fmt.Errorf("open mount table: %w", err)
	}
	defer f.Close()
	return findMountPoint(f, devName)
}

func findMountPoint(r io.Reader, devName string) (string, error) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}
		if unescapeMountField(fields[0]) == devName {
			return unescapeMountField(fields[1]), nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("read mount table: %w", err)
	}
	return "", fmt.Errorf("%w: %s", ErrNotMounted, devName)
}

// unescapeMountField decodes the octal escapes (\040 for space) used in the
// kernel mount table.
func unescapeMountField(field string) string {
	if !strings.Contains(field, `\`) {
		return field
	}
	var b strings.Builder
	for i := 0; i < len(field); i++ {
		if field[i] == '\\' && i+3 < len(field) {
			if v, err := strconv.ParseUint(field[i+1:i+4], 8, 8); err == nil {
				b.WriteByte(byte(v))
				i += 3
				continue
			}
		}
		b.WriteByte(field[i])
	}
	return b.String()
}
