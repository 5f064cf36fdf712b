package workflow

import "context"

// Copier transfers source files into the music directory. It calls copied
// with the file name of every file it transfers.
type Copier interface {
	Copy(ctx context.Context, sources []string, musicDir string, copied func(name string)) error
}

// NoopCopier copies nothing and always succeeds. Files that are not on the
// player yet must be transferred by other means.
type NoopCopier struct{}

func (NoopCopier) Copy(context.Context, []string, string, func(string)) error { return nil }
