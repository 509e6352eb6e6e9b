// Package printer keeps a single fragile Bluetooth link to a thermal
// printer alive across print jobs and renders the receipt layouts that
// go over it.
package printer

import (
	"fmt"
	"io"
	"log"
	"sync"
	"time"
)

// SPPUUID is the serial port profile under which thermal printers expose
// their RFCOMM channel. It is used for both the secure and the insecure
// connection attempt.
const SPPUUID = "00001101-0000-1000-8000-00805F9B34FB"

const (
	// settleDelay absorbs stack-level races after a raw connect; the
	// socket is not considered usable before it has passed.
	settleDelay = time.Second

	// PrintAttempts and RetryBackoff are the caller-side retry policy
	// for prints that must not be lost.
	PrintAttempts = 3
	RetryBackoff  = time.Second
)

// Conn is one open link to a physical printer.
type Conn interface {
	io.WriteCloser
	Connected() bool
}

// Dialer resolves a printer by its paired-device name and opens a
// connection to it.
type Dialer interface {
	Dial(name string) (Conn, error)
}

// Manager owns the single printer connection slot. At most one
// connection is open at a time; the mutex makes concurrent Print calls
// safe by serializing them.
type Manager struct {
	ErrorLog *log.Logger

	// Settle is the post-connect delay. Overridable so tests do not
	// sleep.
	Settle time.Duration

	dialer Dialer

	mu   sync.Mutex
	conn Conn
}

func NewManager(d Dialer, errorLog *log.Logger) *Manager {
	return &Manager{
		ErrorLog: errorLog,
		Settle:   settleDelay,
		dialer:   d,
	}
}

// ensure reuses a connection that still reports itself connected;
// otherwise it discards the stale handle and dials from scratch. On any
// failure the slot is left empty, never holding a leaked handle.
func (m *Manager) ensure(name string) error {
	if m.conn != nil && m.conn.Connected() {
		return nil
	}

	m.reset()

	conn, err := m.dialer.Dial(name)
	if err != nil {
		return fmt.Errorf("printer: connect %s: %w", name, err)
	}

	time.Sleep(m.Settle)
	m.conn = conn
	return nil
}

func (m *Manager) reset() {
	if m.conn != nil {
		m.conn.Close()
		m.conn = nil
	}
}

// Print renders the document and writes it to the named printer. It
// never fails past this boundary: every error is logged, the shared
// connection is reset so the next call starts clean, and false comes
// back.
func (m *Manager) Print(name string, doc Document) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ensure(name); err != nil {
		m.logError(err)
		m.reset()
		return false
	}

	if _, err := io.WriteString(m.conn, doc.Render()); err != nil {
		m.logError(fmt.Errorf("printer: write %s: %w", name, err))
		m.reset()
		return false
	}

	return true
}

// Close discards the current connection, if any.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reset()
}

func (m *Manager) logError(err error) {
	if m.ErrorLog != nil {
		m.ErrorLog.Print(err)
	}
}

// PrintWithRetry is the caller-side retry policy for receipts that must
// come out: each attempt is fully independent, since a failed print
// always resets the manager's connection.
func PrintWithRetry(m *Manager, name string, doc Document, attempts int, backoff time.Duration) bool {
	for i := 0; i < attempts; i++ {
		if i > 0 {
			time.Sleep(backoff)
		}
		if m.Print(name, doc) {
			return true
		}
	}
	return false
}
