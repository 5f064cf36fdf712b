package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// parseRows converts 1-based row arguments to 0-based indices.
func parseRows(args []string, count int) ([]int, error) {
	rows := make([]int, 0, len(args))
	for _, arg := range args {
		n, err := strconv.Atoi(strings.TrimSpace(arg))
		if err != nil {
			return nil, fmt.Errorf("invalid row %q", arg)
		}
		if n < 1 || n > count {
			return nil, fmt.Errorf("row %d out of range (playlist has %d entries)", n, count)
		}
		rows = append(rows, n-1)
	}
	return rows, nil
}

func formatRows(rows []int) string {
	parts := make([]string, len(rows))
	for i, row := range rows {
		parts[i] = strconv.Itoa(row + 1)
	}
	return strings.Join(parts, ", ")
}

func formatBytes(size int64) string {
	if size < 0 {
		size = 0
	}
	return fmt.Sprintf("%s (%d bytes)", humanize.IBytes(uint64(size)), size)
}

func pluralize(n int, singular, plural string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}
	return fmt.Sprintf("%d %s", n, plural)
}
