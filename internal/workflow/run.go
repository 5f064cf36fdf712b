package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"iriverpla/internal/fileutil"
	"iriverpla/internal/logging"
	"iriverpla/internal/playlist"
	"iriverpla/internal/reconcile"
)

// DoWork generates the playlist file for p. It returns the (possibly
// partial) result and, when a step failed, a *StepError. listener may be nil.
func (m *Manager) DoWork(ctx context.Context, p *playlist.Playlist, listener Listener) (*Result, error) {
	if listener == nil {
		listener = NopListener{}
	}
	id := m.newID()
	ctx = logging.WithCorrelationID(ctx, id)
	result := &Result{CorrelationID: id, Started: m.now()}
	if p == nil {
		return result, m.fail(ctx, listener, result, newStepError(StepCheckPlaylistDestination, errors.New("no playlist")))
	}
	result.PlaylistName = p.FileName()
	result.PlaylistPath = p.PlaylistFilePath()
	result.MusicDir = p.MusicDirectory()

	logger := logging.WithContext(ctx, m.logger).With(logging.String(logging.FieldPlaylist, result.PlaylistName))
	logger.Info("playlist generation started",
		logging.Int("entries", p.Len()),
		logging.String("playlist_path", result.PlaylistPath),
		logging.String("music_dir", result.MusicDir),
	)

	if err := m.checkPlaylistDestination(ctx, p); err != nil {
		return result, m.fail(ctx, listener, result, err)
	}
	if err := m.reconcile(ctx, p, result); err != nil {
		return result, m.fail(ctx, listener, result, err)
	}
	if err := m.copyMissing(ctx, listener, result); err != nil {
		return result, m.fail(ctx, listener, result, err)
	}
	if err := m.encode(ctx, p, result); err != nil {
		return result, m.fail(ctx, listener, result, err)
	}

	m.ready(ctx, listener, result)
	return result, nil
}

// Plan reconciles and encodes p in memory without touching the player. No
// listener events or notifications are produced.
func (m *Manager) Plan(ctx context.Context, p *playlist.Playlist) (*Result, error) {
	if p == nil {
		return nil, newStepError(StepReconcile, errors.New("no playlist"))
	}
	ctx = logging.WithCorrelationID(ctx, m.newID())
	result := &Result{
		PlaylistName: p.FileName(),
		PlaylistPath: p.PlaylistFilePath(),
		MusicDir:     p.MusicDirectory(),
		Started:      m.now(),
	}
	if err := m.reconcile(ctx, p, result); err != nil {
		return result, err
	}
	doc, err := m.encoder.Prepare(p)
	if err != nil {
		return result, newStepError(StepEncode, err)
	}
	result.Songs = doc.Songs
	result.Skipped = doc.Skipped
	result.Size = doc.Size()
	result.Finished = m.now()
	return result, nil
}

// ContentSize returns the byte size the encoded file for p would have.
func (m *Manager) ContentSize(p *playlist.Playlist) (int64, error) {
	doc, err := m.encoder.Prepare(p)
	if err != nil {
		return 0, err
	}
	return doc.Size(), nil
}

func (m *Manager) stepLogger(ctx context.Context, step Step) (context.Context, *slog.Logger) {
	ctx = logging.WithStep(ctx, string(step))
	return ctx, logging.WithContext(ctx, m.logger)
}

func (m *Manager) checkPlaylistDestination(ctx context.Context, p *playlist.Playlist) error {
	ctx, logger := m.stepLogger(ctx, StepCheckPlaylistDestination)
	if err := ctx.Err(); err != nil {
		return newStepError(StepCheckPlaylistDestination, err)
	}
	dir := p.PlaylistDirectory()
	if !fileutil.DirExists(dir) {
		return newStepError(StepCheckPlaylistDestination,
			fmt.Errorf("%w: playlist destination %q", reconcile.ErrDirectoryNotFound, dir))
	}
	logger.Debug("playlist destination available", logging.String("dir", dir))
	return nil
}

func (m *Manager) reconcile(ctx context.Context, p *playlist.Playlist, result *Result) error {
	ctx, logger := m.stepLogger(ctx, StepReconcile)
	if err := ctx.Err(); err != nil {
		return newStepError(StepReconcile, err)
	}
	outcome, snapshot, err := reconcile.Playlist(p, m.lister)
	if err != nil {
		return newStepError(StepReconcile, fmt.Errorf("music destination: %w", err))
	}
	result.Duplicates = outcome.Duplicates
	result.ToCopy = outcome.ToCopy
	for _, dup := range outcome.Duplicates {
		logger.Debug("playlist item already exists in destination", logging.String("source", dup))
	}
	logger.Info("destination reconciled",
		logging.Int("present_files", snapshot.Len()),
		logging.Int("duplicates", len(outcome.Duplicates)),
		logging.Int("to_copy", len(outcome.ToCopy)),
	)
	return nil
}

func (m *Manager) copyMissing(ctx context.Context, listener Listener, result *Result) error {
	ctx, logger := m.stepLogger(ctx, StepCopyMissing)
	if err := ctx.Err(); err != nil {
		return newStepError(StepCopyMissing, err)
	}
	err := m.copier.Copy(ctx, result.ToCopy, result.MusicDir, func(name string) {
		result.Copied = append(result.Copied, name)
		listener.OnFileCopied(Event{Time: m.now(), Category: CategoryCopy, Message: name})
	})
	if err != nil {
		return newStepError(StepCopyMissing, err)
	}
	logger.Debug("copy step finished", logging.Int("copied", len(result.Copied)))
	return nil
}

func (m *Manager) encode(ctx context.Context, p *playlist.Playlist, result *Result) error {
	ctx, logger := m.stepLogger(ctx, StepEncode)
	if err := ctx.Err(); err != nil {
		return newStepError(StepEncode, err)
	}
	doc, err := m.encoder.Prepare(p)
	if err != nil {
		return newStepError(StepEncode, err)
	}
	result.Skipped = doc.Skipped
	if err := m.encoder.WriteFile(result.PlaylistPath, doc); err != nil {
		return newStepError(StepEncode, err)
	}
	result.Songs = doc.Songs
	result.Size = doc.Size()
	logger.Info("playlist file written",
		logging.String("path", result.PlaylistPath),
		logging.Int("songs", len(doc.Songs)),
		logging.Int("skipped", len(doc.Skipped)),
		logging.Int64("bytes", result.Size),
	)
	return nil
}

func (m *Manager) ready(ctx context.Context, listener Listener, result *Result) {
	ctx, logger := m.stepLogger(ctx, StepReady)
	result.Finished = m.now()
	logger.Info("playlist ready",
		logging.String(logging.FieldEventType, "playlist_ready"),
		logging.Int("songs", len(result.Songs)),
		logging.Duration("duration", result.Duration()),
	)
	listener.OnReady(result)
	if err := m.notifier.NotifyReady(ctx, result.PlaylistName, len(result.Songs)); err != nil {
		m.logNotifyFailure(ctx, logger, err)
	}
}

func (m *Manager) fail(ctx context.Context, listener Listener, result *Result, stepErr *StepError) error {
	ctx, logger := m.stepLogger(ctx, stepErr.Step)
	result.Finished = m.now()
	logging.ErrorWithContext(logger, "playlist generation failed", "generation_failed",
		logging.String("error_kind", string(stepErr.Kind)),
		logging.String(logging.FieldErrorHint, hintFor(stepErr.Kind)),
		logging.Error(stepErr.Err),
	)
	listener.OnError(Event{
		Time:     result.Finished,
		Category: CategoryError,
		Kind:     stepErr.Kind,
		Message:  stepErr.Error(),
	})
	label := string(stepErr.Step)
	if result.PlaylistName != "" {
		label = fmt.Sprintf("%s (%s)", result.PlaylistName, stepErr.Step)
	}
	if err := m.notifier.NotifyError(ctx, stepErr, label); err != nil {
		m.logNotifyFailure(ctx, logger, err)
	}
	return stepErr
}

func (m *Manager) logNotifyFailure(ctx context.Context, logger *slog.Logger, err error) {
	if errors.Is(err, context.Canceled) || ctx.Err() != nil {
		logger.Debug("run canceled, notification not sent")
		return
	}
	logging.WarnWithContext(logger, "notification delivery failed", "notification_failed",
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "check ntfy_topic and network access"),
		logging.String(logging.FieldImpact, "push notification was not delivered"),
	)
}

func hintFor(kind Kind) string {
	switch kind {
	case KindDirectoryNotFound:
		return "mount the player or fix music_destination, playlist_destination and device_root"
	case KindUnencodablePath:
		return "remove the listed entry from the playlist"
	case KindFileWriteFailure:
		return "check the playlist destination is writable and has free space"
	case KindCanceled:
		return "run generate again"
	default:
		return "check logs for details"
	}
}
