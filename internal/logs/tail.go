package logs

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

const (
	// DefaultPoll is the interval Follow checks for new lines.
	DefaultPoll = 250 * time.Millisecond

	maxLineSize = 1024 * 1024
)

// Options selects log lines.
type Options struct {
	// Lines limits Read to the last N matching lines. Zero or less returns
	// every matching line.
	Lines int
	// CorrelationID keeps only lines logged by one generation run.
	CorrelationID string
}

func (o Options) matches(line string) bool {
	id := strings.TrimSpace(o.CorrelationID)
	return id == "" || strings.Contains(line, id)
}

// Read returns the last matching lines of path and the offset just past the
// end of the file. A missing file yields no lines and offset zero.
func Read(path string, opts Options) ([]string, int64, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, 0, nil
		}
		return nil, 0, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, 0, fmt.Errorf("stat log file: %w", err)
	}
	if info.IsDir() {
		return nil, 0, fmt.Errorf("log path %q is a directory", path)
	}

	var (
		ring  []string
		count int
		idx   int
		all   []string
	)
	if opts.Lines > 0 {
		ring = make([]string, opts.Lines)
	}

	scanner := newScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if !opts.matches(line) {
			continue
		}
		if ring == nil {
			all = append(all, line)
			continue
		}
		ring[idx] = line
		idx = (idx + 1) % len(ring)
		if count < len(ring) {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, fmt.Errorf("read log file: %w", err)
	}

	offset, err := file.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, 0, fmt.Errorf("determine log offset: %w", err)
	}

	if ring == nil {
		return all, offset, nil
	}
	lines := make([]string, count)
	if count == len(ring) {
		for i := range count {
			lines[i] = ring[(idx+i)%len(ring)]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, offset, nil
}

// Follow calls emit for every matching line appended to path after offset
// until ctx is done. It returns nil when ctx is canceled.
func Follow(ctx context.Context, path string, offset int64, opts Options, poll time.Duration, emit func(line string)) error {
	if poll <= 0 {
		poll = DefaultPoll
	}
	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for {
		lines, next, err := readFrom(path, offset)
		if err != nil {
			return err
		}
		for _, line := range lines {
			if opts.matches(line) {
				emit(line)
			}
		}
		offset = next

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// readFrom returns the complete lines written after offset. A file shorter
// than offset was truncated and is read from the start.
func readFrom(path string, offset int64) ([]string, int64, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, 0, nil
		}
		return nil, offset, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, offset, fmt.Errorf("stat log file: %w", err)
	}
	if offset < 0 || offset > info.Size() {
		offset = 0
	}
	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return nil, offset, fmt.Errorf("seek log file: %w", err)
	}

	reader := bufio.NewReaderSize(file, 64*1024)
	var lines []string
	for {
		chunk, err := reader.ReadString('\n')
		if errors.Is(err, io.EOF) {
			// Partial line; pick it up once the writer finishes it.
			break
		}
		if err != nil {
			return nil, offset, fmt.Errorf("read log file: %w", err)
		}
		offset += int64(len(chunk))
		lines = append(lines, strings.TrimRight(chunk, "\r\n"))
	}
	return lines, offset, nil
}

func newScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return scanner
}
