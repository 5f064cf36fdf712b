package workflow

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"iriverpla/internal/fileutil"
	"iriverpla/internal/logging"
	"iriverpla/internal/notifications"
	"iriverpla/internal/pla"
	"iriverpla/internal/playlist"
)

// Step names a generation step.
type Step string

const (
	StepCheckPlaylistDestination Step = "check_playlist_destination"
	StepReconcile                Step = "reconcile"
	StepCopyMissing              Step = "copy_missing"
	StepEncode                   Step = "encode"
	StepReady                    Step = "ready"
)

// Manager runs playlist generation. A Manager holds no per-run state and may
// be reused, but concurrent runs on the same playlist must be serialized by
// the caller.
type Manager struct {
	logger   *slog.Logger
	lister   playlist.Lister
	copier   Copier
	notifier notifications.Service
	encoder  *pla.Encoder
	now      func() time.Time
	newID    func() string
}

// ManagerOption configures optional Manager behavior.
type ManagerOption func(*Manager)

// WithLister replaces the directory listing capability.
func WithLister(lister playlist.Lister) ManagerOption {
	return func(m *Manager) {
		if lister != nil {
			m.lister = lister
		}
	}
}

// WithCopier sets the copier used for files missing from the player.
func WithCopier(copier Copier) ManagerOption {
	return func(m *Manager) {
		if copier != nil {
			m.copier = copier
		}
	}
}

// WithNotifier sets the push notification service.
func WithNotifier(notifier notifications.Service) ManagerOption {
	return func(m *Manager) {
		if notifier != nil {
			m.notifier = notifier
		}
	}
}

// WithClock overrides the event clock (used in tests).
func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// NewManager constructs a workflow manager.
func NewManager(logger *slog.Logger, opts ...ManagerOption) *Manager {
	logger = logging.NewComponentLogger(logger, "workflow")
	m := &Manager{
		logger:   logger,
		lister:   playlist.ListFunc(fileutil.ListFiles),
		copier:   NoopCopier{},
		notifier: notifications.NewService(nil),
		encoder:  pla.NewEncoder(logger),
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}
