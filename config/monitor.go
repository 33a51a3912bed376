package config

import (
	"log"
	"sync"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// Monitor polls the database connection on a fixed schedule and keeps a
// process-wide healthy flag. It is injected where needed instead of living
// as a package-level singleton, and exposes an explicit Start/Stop
// lifecycle plus a subscription channel for listeners interested in state
// changes.
type Monitor struct {
	db        *gorm.DB
	cron      *cron.Cron
	threshold int

	mu       sync.RWMutex
	healthy  bool
	failures int
	subs     []chan bool
}

// NewMonitor builds a monitor that flips unhealthy after threshold
// consecutive ping failures.
func NewMonitor(db *gorm.DB, threshold int) *Monitor {
	if threshold < 1 {
		threshold = 3
	}
	return &Monitor{
		db:        db,
		cron:      cron.New(),
		threshold: threshold,
		healthy:   true,
	}
}

// Start schedules the 30s poll. Safe to call once.
func (m *Monitor) Start() error {
	if _, err := m.cron.AddFunc("@every 30s", m.Check); err != nil {
		return err
	}
	m.cron.Start()
	log.Println("[MONITOR] Database health monitor started")
	return nil
}

func (m *Monitor) Stop() {
	ctx := m.cron.Stop()
	<-ctx.Done()

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ch := range m.subs {
		close(ch)
	}
	m.subs = nil
}

// Healthy reports the current flag.
func (m *Monitor) Healthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.healthy
}

// Subscribe returns a channel receiving the flag each time it changes. The
// channel is closed by Stop.
func (m *Monitor) Subscribe() <-chan bool {
	ch := make(chan bool, 1)
	m.mu.Lock()
	m.subs = append(m.subs, ch)
	m.mu.Unlock()
	return ch
}

// Check pings the database once and updates the flag. Exported so the
// health endpoint can force an immediate probe.
func (m *Monitor) Check() {
	err := m.ping()

	m.mu.Lock()
	defer m.mu.Unlock()

	if err != nil {
		m.failures++
		log.Printf("[MONITOR] Database ping failed (%d/%d): %v", m.failures, m.threshold, err)
		if m.failures >= m.threshold && m.healthy {
			m.healthy = false
			m.notifyLocked()
		}
		return
	}

	m.failures = 0
	if !m.healthy {
		m.healthy = true
		log.Println("[MONITOR] Database connection recovered")
		m.notifyLocked()
	}
}

func (m *Monitor) ping() error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func (m *Monitor) notifyLocked() {
	for _, ch := range m.subs {
		select {
		case ch <- m.healthy:
		default:
		}
	}
}
