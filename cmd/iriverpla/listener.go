package main

import (
	"fmt"
	"io"

	"iriverpla/internal/workflow"
)

// consoleListener prints generation events as log lines.
type consoleListener struct {
	out      io.Writer
	colorize bool
}

func newConsoleListener(out io.Writer, colorize bool) *consoleListener {
	return &consoleListener{out: out, colorize: colorize}
}

func (l *consoleListener) OnError(event workflow.Event) {
	line := event.String()
	if l.colorize {
		line = ansiRed + line + ansiReset
	}
	fmt.Fprintln(l.out, line)
}

func (l *consoleListener) OnFileCopied(event workflow.Event) {
	fmt.Fprintln(l.out, event.String())
}

func (l *consoleListener) OnReady(result *workflow.Result) {
	if result == nil {
		return
	}
	fmt.Fprintln(l.out, renderStatusLine("Playlist", statusOK,
		fmt.Sprintf("%s written with %s", result.PlaylistPath, pluralize(len(result.Songs), "song", "songs")), l.colorize))
	if len(result.Duplicates) > 0 {
		fmt.Fprintln(l.out, renderStatusLine("Already on player", statusInfo,
			pluralize(len(result.Duplicates), "file", "files"), l.colorize))
	}
	for _, skipped := range result.Skipped {
		fmt.Fprintln(l.out, renderStatusLine("Skipped", statusWarn,
			fmt.Sprintf("%s: %v", skipped.Source, skipped.Err), l.colorize))
	}
	fmt.Fprintln(l.out, renderStatusLine("Size", statusInfo, formatBytes(result.Size), l.colorize))
	if result.CorrelationID != "" {
		fmt.Fprintln(l.out, renderStatusLine("Run", statusInfo, result.CorrelationID, l.colorize))
	}
}
