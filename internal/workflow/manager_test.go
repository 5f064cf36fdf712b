package workflow_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"iriverpla/internal/logging"
	"iriverpla/internal/pla"
	"iriverpla/internal/playlist"
	"iriverpla/internal/reconcile"
	"iriverpla/internal/workflow"
)

type recordingListener struct {
	errors []workflow.Event
	copied []workflow.Event
	ready  []*workflow.Result
}

func (l *recordingListener) OnError(e workflow.Event)      { l.errors = append(l.errors, e) }
func (l *recordingListener) OnFileCopied(e workflow.Event) { l.copied = append(l.copied, e) }
func (l *recordingListener) OnReady(r *workflow.Result)    { l.ready = append(l.ready, r) }

func (l *recordingListener) terminal() int { return len(l.errors) + len(l.ready) }

type recordingNotifier struct {
	mu     sync.Mutex
	ready  []string
	errors []string
}

func (n *recordingNotifier) NotifyReady(_ context.Context, name string, songs int) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.ready = append(n.ready, name)
	return nil
}

func (n *recordingNotifier) NotifyError(_ context.Context, err error, label string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, label+": "+err.Error())
	return nil
}

func (n *recordingNotifier) TestNotification(context.Context) error { return nil }

type deviceLayout struct {
	root      string
	musicDir  string
	listsDir  string
	sourceDir string
}

func newDevice(t *testing.T) deviceLayout {
	t.Helper()
	base := t.TempDir()
	layout := deviceLayout{
		root:      filepath.Join(base, "player"),
		musicDir:  filepath.Join(base, "player", "Music"),
		listsDir:  filepath.Join(base, "player", "Playlists"),
		sourceDir: filepath.Join(base, "library", "Rock"),
	}
	for _, dir := range []string{layout.musicDir, layout.listsDir, layout.sourceDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}
	return layout
}

func (d deviceLayout) playlist(names ...string) *playlist.Playlist {
	p := playlist.New()
	p.Name = "road"
	p.DeviceRoot = d.root
	p.MusicDestination = `\Music`
	p.PlaylistDestination = "Playlists"
	for _, name := range names {
		p.AddFile(filepath.Join(d.sourceDir, name))
	}
	return p
}

var fixedTime = time.Date(2024, 3, 9, 14, 5, 7, 123_000_000, time.UTC)

func newManager(notifier *recordingNotifier, opts ...workflow.ManagerOption) *workflow.Manager {
	opts = append([]workflow.ManagerOption{
		workflow.WithNotifier(notifier),
		workflow.WithClock(func() time.Time { return fixedTime }),
	}, opts...)
	return workflow.NewManager(logging.NewNop(), opts...)
}

func TestDoWorkWritesPlaylist(t *testing.T) {
	device := newDevice(t)
	p := device.playlist("a.mp3", "b.flac", "c.ogg")
	notifier := &recordingNotifier{}
	listener := &recordingListener{}

	result, err := newManager(notifier).DoWork(context.Background(), p, listener)
	if err != nil {
		t.Fatalf("DoWork: %v", err)
	}
	if listener.terminal() != 1 || len(listener.ready) != 1 {
		t.Fatalf("expected exactly one ready event, got %d ready %d errors", len(listener.ready), len(listener.errors))
	}
	if result.CorrelationID == "" {
		t.Fatal("expected correlation id")
	}

	path := filepath.Join(device.listsDir, "road.pla")
	if result.PlaylistPath != path {
		t.Fatalf("unexpected playlist path %q", result.PlaylistPath)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat playlist: %v", err)
	}
	if info.Size() != 512*4 {
		t.Fatalf("expected %d bytes, got %d", 512*4, info.Size())
	}
	file, err := pla.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if file.Count != 3 {
		t.Fatalf("expected song count 3, got %d", file.Count)
	}
	if file.Songs[0].Path != `\Music\Rock\a.mp3` || file.Songs[0].NameIndex != 13 {
		t.Fatalf("unexpected first song %+v", file.Songs[0])
	}
	if len(notifier.ready) != 1 || notifier.ready[0] != "road.pla" {
		t.Fatalf("unexpected ready notifications %v", notifier.ready)
	}
}

func TestDoWorkMissingMusicDestination(t *testing.T) {
	device := newDevice(t)
	if err := os.RemoveAll(device.musicDir); err != nil {
		t.Fatal(err)
	}
	p := device.playlist("a.mp3")
	notifier := &recordingNotifier{}
	listener := &recordingListener{}

	_, err := newManager(notifier).DoWork(context.Background(), p, listener)
	if err == nil {
		t.Fatal("expected failure")
	}
	var stepErr *workflow.StepError
	if !errors.As(err, &stepErr) || stepErr.Step != workflow.StepReconcile {
		t.Fatalf("expected reconcile step error, got %v", err)
	}
	if workflow.Classify(err) != workflow.KindDirectoryNotFound {
		t.Fatalf("expected DirectoryNotFound, got %s", workflow.Classify(err))
	}
	if !errors.Is(err, reconcile.ErrDirectoryNotFound) {
		t.Fatalf("expected wrapped ErrDirectoryNotFound, got %v", err)
	}
	if len(listener.errors) != 1 || listener.terminal() != 1 {
		t.Fatalf("expected one error event, got %d errors %d ready", len(listener.errors), len(listener.ready))
	}
	event := listener.errors[0]
	if event.Kind != workflow.KindDirectoryNotFound || event.Category != workflow.CategoryError {
		t.Fatalf("unexpected event %+v", event)
	}
	if !strings.HasPrefix(event.String(), "09.03.2024 14:05:07.123 - ERROR: ") {
		t.Fatalf("unexpected event line %q", event.String())
	}
	if _, err := os.Stat(filepath.Join(device.listsDir, "road.pla")); !os.IsNotExist(err) {
		t.Fatalf("expected no playlist file, stat returned %v", err)
	}
	if len(notifier.errors) != 1 || len(notifier.ready) != 0 {
		t.Fatalf("unexpected notifications ready=%v errors=%v", notifier.ready, notifier.errors)
	}
}

func TestDoWorkMissingPlaylistDestination(t *testing.T) {
	device := newDevice(t)
	if err := os.RemoveAll(device.listsDir); err != nil {
		t.Fatal(err)
	}
	listener := &recordingListener{}
	_, err := newManager(&recordingNotifier{}).DoWork(context.Background(), device.playlist("a.mp3"), listener)

	var stepErr *workflow.StepError
	if !errors.As(err, &stepErr) || stepErr.Step != workflow.StepCheckPlaylistDestination {
		t.Fatalf("expected destination check failure, got %v", err)
	}
	if stepErr.Kind != workflow.KindDirectoryNotFound {
		t.Fatalf("expected DirectoryNotFound, got %s", stepErr.Kind)
	}
	if listener.terminal() != 1 {
		t.Fatalf("expected one terminal event, got %d", listener.terminal())
	}
}

func TestDoWorkKeepsDuplicatesInPlaylist(t *testing.T) {
	device := newDevice(t)
	if err := os.WriteFile(filepath.Join(device.musicDir, "a.mp3"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	p := device.playlist("a.mp3", "b.mp3")
	listener := &recordingListener{}

	result, err := newManager(&recordingNotifier{}).DoWork(context.Background(), p, listener)
	if err != nil {
		t.Fatalf("DoWork: %v", err)
	}
	if len(result.Duplicates) != 1 || filepath.Base(result.Duplicates[0]) != "a.mp3" {
		t.Fatalf("unexpected duplicates %v", result.Duplicates)
	}
	if len(result.ToCopy) != 1 {
		t.Fatalf("unexpected to-copy %v", result.ToCopy)
	}
	if len(result.Songs) != 2 || result.Size != 512*3 {
		t.Fatalf("duplicate must still be encoded, got %d songs size %d", len(result.Songs), result.Size)
	}
	if len(listener.ready) != 1 {
		t.Fatal("expected ready event")
	}
}

func TestDoWorkUnencodableEntryWritesNothing(t *testing.T) {
	device := newDevice(t)
	p := device.playlist("a.mp3")
	p.AddFile("")
	listener := &recordingListener{}

	_, err := newManager(&recordingNotifier{}).DoWork(context.Background(), p, listener)
	if workflow.Classify(err) != workflow.KindUnencodablePath {
		t.Fatalf("expected UnencodablePath, got %v", err)
	}
	if len(listener.errors) != 1 || len(listener.ready) != 0 {
		t.Fatalf("expected one error event, got %+v", listener)
	}
	entries, err := os.ReadDir(device.listsDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty playlist directory, found %d entries", len(entries))
	}
}

func TestDoWorkSkipsLongPathsWithoutFailing(t *testing.T) {
	device := newDevice(t)
	p := device.playlist("a.mp3", strings.Repeat("y", 300)+".mp3")
	result, err := newManager(&recordingNotifier{}).DoWork(context.Background(), p, nil)
	if err != nil {
		t.Fatalf("DoWork: %v", err)
	}
	if len(result.Songs) != 1 || len(result.Skipped) != 1 {
		t.Fatalf("expected 1 song and 1 skipped, got %d and %d", len(result.Songs), len(result.Skipped))
	}
	if p.Len() != 2 {
		t.Fatalf("long entry must remain in the playlist")
	}
}

type fakeCopier struct {
	sources []string
	dest    string
	err     error
}

func (c *fakeCopier) Copy(_ context.Context, sources []string, dest string, copied func(string)) error {
	c.sources = sources
	c.dest = dest
	if c.err != nil {
		return c.err
	}
	for _, src := range sources {
		copied(filepath.Base(src))
	}
	return nil
}

func TestDoWorkReportsCopiedFiles(t *testing.T) {
	device := newDevice(t)
	copier := &fakeCopier{}
	listener := &recordingListener{}
	result, err := newManager(&recordingNotifier{}, workflow.WithCopier(copier)).
		DoWork(context.Background(), device.playlist("a.mp3", "b.mp3"), listener)
	if err != nil {
		t.Fatalf("DoWork: %v", err)
	}
	if copier.dest != device.musicDir || len(copier.sources) != 2 {
		t.Fatalf("copier got dest %q sources %v", copier.dest, copier.sources)
	}
	if len(listener.copied) != 2 || listener.copied[0].Message != "a.mp3" || listener.copied[0].Category != workflow.CategoryCopy {
		t.Fatalf("unexpected copy events %+v", listener.copied)
	}
	if len(result.Copied) != 2 {
		t.Fatalf("unexpected copied list %v", result.Copied)
	}
}

func TestDoWorkCopyFailureStopsBeforeEncode(t *testing.T) {
	device := newDevice(t)
	copier := &fakeCopier{err: errors.New("device full")}
	listener := &recordingListener{}
	_, err := newManager(&recordingNotifier{}, workflow.WithCopier(copier)).
		DoWork(context.Background(), device.playlist("a.mp3"), listener)

	var stepErr *workflow.StepError
	if !errors.As(err, &stepErr) || stepErr.Step != workflow.StepCopyMissing || stepErr.Kind != workflow.KindUnknown {
		t.Fatalf("unexpected error %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(device.listsDir, "road.pla")); !os.IsNotExist(statErr) {
		t.Fatal("playlist must not be written after a copy failure")
	}
	if listener.terminal() != 1 {
		t.Fatalf("expected one terminal event, got %d", listener.terminal())
	}
}

func TestDoWorkCanceledContext(t *testing.T) {
	device := newDevice(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	listener := &recordingListener{}
	_, err := newManager(&recordingNotifier{}).DoWork(ctx, device.playlist("a.mp3"), listener)
	if workflow.Classify(err) != workflow.KindCanceled {
		t.Fatalf("expected Canceled, got %v", err)
	}
	if listener.terminal() != 1 {
		t.Fatalf("expected one terminal event, got %d", listener.terminal())
	}
}

func TestDoWorkNilPlaylist(t *testing.T) {
	listener := &recordingListener{}
	_, err := newManager(&recordingNotifier{}).DoWork(context.Background(), nil, listener)
	if err == nil || len(listener.errors) != 1 {
		t.Fatalf("expected error event for nil playlist, got %v", err)
	}
}

func TestPlanDoesNotWrite(t *testing.T) {
	device := newDevice(t)
	if err := os.WriteFile(filepath.Join(device.musicDir, "b.mp3"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	notifier := &recordingNotifier{}
	mgr := newManager(notifier)
	p := device.playlist("a.mp3", "b.mp3", "c.mp3")

	result, err := mgr.Plan(context.Background(), p)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(result.Duplicates) != 1 || len(result.ToCopy) != 2 || result.Size != 512*4 {
		t.Fatalf("unexpected plan %+v", result)
	}
	if _, err := os.Stat(filepath.Join(device.listsDir, "road.pla")); !os.IsNotExist(err) {
		t.Fatal("Plan must not write the playlist")
	}
	if len(notifier.ready)+len(notifier.errors) != 0 {
		t.Fatal("Plan must not notify")
	}

	size, err := mgr.ContentSize(p)
	if err != nil || size != 512*4 {
		t.Fatalf("ContentSize = %d, %v", size, err)
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		err  error
		want workflow.Kind
	}{
		{nil, ""},
		{reconcile.ErrDirectoryNotFound, workflow.KindDirectoryNotFound},
		{playlist.ErrUnencodablePath, workflow.KindUnencodablePath},
		{pla.ErrPathTooLong, workflow.KindPathTooLong},
		{pla.ErrFileWrite, workflow.KindFileWriteFailure},
		{context.DeadlineExceeded, workflow.KindCanceled},
		{errors.New("other"), workflow.KindUnknown},
		{&workflow.StepError{Step: workflow.StepEncode, Kind: workflow.KindFileWriteFailure, Err: errors.New("x")}, workflow.KindFileWriteFailure},
	}
	for _, tc := range cases {
		if got := workflow.Classify(tc.err); got != tc.want {
			t.Fatalf("Classify(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}
