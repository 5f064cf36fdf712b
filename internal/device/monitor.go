package device

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/pilebones/go-udev/netlink"

	"iriverpla/internal/config"
	"iriverpla/internal/logging"
)

// Partition describes a block device reported by udev.
type Partition struct {
	DevName string
	Label   string
	FSType  string
	UUID    string
	Action  string
}

// Handler is called for every matching partition after the settle delay.
type Handler func(ctx context.Context, part Partition) error

// Monitor listens for udev netlink events announcing vfat partitions.
type Monitor struct {
	logger  *slog.Logger
	handler Handler
	label   string
	settle  time.Duration

	mu      sync.Mutex
	conn    *netlink.UEventConn
	quit    chan struct{}
	done    chan struct{}
	running bool
}

// NewMonitor creates a monitor using the [device] config section.
func NewMonitor(cfg *config.Config, logger *slog.Logger, handler Handler) *Monitor {
	m := &Monitor{
		logger:  logging.NewComponentLogger(logger, "device-monitor"),
		handler: handler,
	}
	if cfg != nil {
		m.label = strings.TrimSpace(cfg.Device.WatchLabel)
		m.settle = time.Duration(cfg.Device.SettleSeconds) * time.Second
	}
	return m
}

// Start connects to the udev netlink socket and begins listening.
func (m *Monitor) Start(ctx context.Context) error {
	if m == nil {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return nil
	}

	conn := new(netlink.UEventConn)
	if err := conn.Connect(netlink.UdevEvent); err != nil {
		return fmt.Errorf("connect udev netlink socket: %w", err)
	}

	m.conn = conn
	m.quit = make(chan struct{})
	m.done = make(chan struct{})
	m.running = true

	quit, done := m.quit, m.done
	go m.monitorLoop(ctx, conn, quit, done)

	m.logger.Info("device monitor started",
		logging.String(logging.FieldEventType, "device_monitor_started"),
		logging.String("label", m.label),
		logging.Duration("settle", m.settle),
	)
	return nil
}

// Stop shuts down the monitor and waits for the event loop to exit.
func (m *Monitor) Stop() {
	if m == nil {
		return
	}

	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	close(m.quit)
	done := m.done
	m.quit = nil
	m.running = false
	m.mu.Unlock()

	<-done

	m.mu.Lock()
	if m.conn != nil {
		_ = m.conn.Close()
		m.conn = nil
	}
	m.mu.Unlock()

	m.logger.Info("device monitor stopped",
		logging.String(logging.FieldEventType, "device_monitor_stopped"),
	)
}

// Running reports whether the monitor is active.
func (m *Monitor) Running() bool {
	if m == nil {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

func (m *Monitor) monitorLoop(ctx context.Context, conn *netlink.UEventConn, quit <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	queue := make(chan netlink.UEvent)
	errs := make(chan error)
	monitorQuit := conn.Monitor(queue, errs, buildMatcher())

	for {
		select {
		case <-ctx.Done():
			close(monitorQuit)
			return
		case <-quit:
			close(monitorQuit)
			return
		case uevent := <-queue:
			m.handleEvent(ctx, uevent)
		case err := <-errs:
			logging.WarnWithContext(m.logger, "udev monitor error", "device_monitor_error",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check kernel netlink subsystem"),
				logging.String(logging.FieldImpact, "player detection may be affected"),
			)
		}
	}
}

// buildMatcher matches: ACTION=add, SUBSYSTEM=block, ID_FS_TYPE=vfat
func buildMatcher() netlink.Matcher {
	action := "add"
	rules := &netlink.RuleDefinitions{}
	rules.AddRule(netlink.RuleDefinition{
		Action: &action,
		Env: map[string]string{
			"SUBSYSTEM":  "block",
			"ID_FS_TYPE": "vfat",
		},
	})
	return rules
}

func (m *Monitor) handleEvent(ctx context.Context, uevent netlink.UEvent) {
	part := PartitionFromEvent(uevent)
	if part.DevName == "" {
		m.logger.Debug("ignoring event without device name",
			logging.String("action", part.Action),
			logging.String("kobj", uevent.KObj),
		)
		return
	}
	if !m.Matches(part) {
		m.logger.Debug("ignoring partition with other label",
			logging.String("device", part.DevName),
			logging.String("label", part.Label),
			logging.String("watch_label", m.label),
		)
		return
	}

	m.logger.Info("player partition detected",
		logging.String(logging.FieldEventType, "device_detected"),
		logging.String("device", part.DevName),
		logging.String("label", part.Label),
	)

	if m.settle > 0 {
		timer := time.NewTimer(m.settle)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
	}

	if m.handler == nil {
		return
	}
	if err := m.handler(ctx, part); err != nil {
		logging.WarnWithContext(m.logger, "device handler failed", "device_handler_failed",
			logging.Error(err),
			logging.String("device", part.DevName),
			logging.String(logging.FieldErrorHint, "run iriverpla generate manually for details"),
			logging.String(logging.FieldImpact, "playlist not generated for this insertion"),
		)
	}
}

// Matches reports whether part passes the configured label filter. Labels
// compare case-insensitively since FAT stores them upper-cased.
func (m *Monitor) Matches(part Partition) bool {
	if m == nil || m.label == "" {
		return true
	}
	return strings.EqualFold(part.Label, m.label)
}

// PartitionFromEvent extracts partition details from a uevent.
func PartitionFromEvent(uevent netlink.UEvent) Partition {
	return Partition{
		DevName: deviceName(uevent),
		Label:   uevent.Env["ID_FS_LABEL"],
		FSType:  uevent.Env["ID_FS_TYPE"],
		UUID:    uevent.Env["ID_FS_UUID"],
		Action:  string(uevent.Action),
	}
}

func deviceName(uevent netlink.UEvent) string {
	if devname := uevent.Env["DEVNAME"]; devname != "" {
		return devname
	}

	// DEVPATH looks like /devices/pci.../block/sdb/sdb1
	devpath := uevent.Env["DEVPATH"]
	if devpath == "" {
		return ""
	}
	parts := strings.Split(devpath, "/")
	return "/dev/" + parts[len(parts)-1]
}
