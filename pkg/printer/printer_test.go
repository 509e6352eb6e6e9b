package printer

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	wrote     []byte
	writeErr  error
	connected bool
	closed    bool
}

func (c *fakeConn) Write(p []byte) (int, error) {
	if c.writeErr != nil {
		return 0, c.writeErr
	}
	c.wrote = append(c.wrote, p...)
	return len(p), nil
}

func (c *fakeConn) Close() error {
	c.closed = true
	c.connected = false
	return nil
}

func (c *fakeConn) Connected() bool { return c.connected }

type fakeDialer struct {
	dials     int
	err       error
	failFirst int
	conns     []*fakeConn
}

func (d *fakeDialer) Dial(name string) (Conn, error) {
	d.dials++
	if d.err != nil {
		return nil, d.err
	}
	if d.dials <= d.failFirst {
		return nil, errors.New("connection refused")
	}
	c := &fakeConn{connected: true}
	d.conns = append(d.conns, c)
	return c, nil
}

func newTestManager(d Dialer) *Manager {
	m := NewManager(d, nil)
	m.Settle = 0
	return m
}

func TestPrintWritesDocument(t *testing.T) {
	d := &fakeDialer{}
	m := newTestManager(d)

	doc := PaymentReceipt{CompanyName: "Crediruta S.A.", ClientName: "Maria Lopez", LoanID: "L1", Installment: 1, InstallmentCount: 4, Amount: 300, Day: 1, Month: 9, Year: 2026, Hour: 10, Minute: 30}
	require.True(t, m.Print("POS-5805", doc))
	require.Equal(t, 1, d.dials)
	require.Equal(t, doc.Render(), string(d.conns[0].wrote))
}

func TestPrintReusesLiveConnection(t *testing.T) {
	d := &fakeDialer{}
	m := newTestManager(d)

	doc := DayClose{CompanyName: "Crediruta S.A."}
	require.True(t, m.Print("POS-5805", doc))
	require.True(t, m.Print("POS-5805", doc))
	require.Equal(t, 1, d.dials)
}

func TestPrintRedialsDeadConnection(t *testing.T) {
	d := &fakeDialer{}
	m := newTestManager(d)

	doc := DayClose{CompanyName: "Crediruta S.A."}
	require.True(t, m.Print("POS-5805", doc))

	// Link drops between jobs; the stale handle is discarded.
	d.conns[0].connected = false

	require.True(t, m.Print("POS-5805", doc))
	require.Equal(t, 2, d.dials)
	require.True(t, d.conns[0].closed)
}

func TestPrintConnectFailure(t *testing.T) {
	d := &fakeDialer{err: errors.New("host is down")}
	m := newTestManager(d)

	require.False(t, m.Print("POS-5805", DayClose{}))
	require.Equal(t, 1, d.dials)
}

func TestPrintWriteFailureResetsConnection(t *testing.T) {
	d := &fakeDialer{}
	m := newTestManager(d)

	require.True(t, m.Print("POS-5805", DayClose{}))
	d.conns[0].writeErr = errors.New("broken pipe")
	d.conns[0].connected = true

	require.False(t, m.Print("POS-5805", DayClose{}))
	require.True(t, d.conns[0].closed)

	// Next print starts clean with a fresh connection.
	require.True(t, m.Print("POS-5805", DayClose{}))
	require.Equal(t, 2, d.dials)
}

func TestPrintWithRetryBound(t *testing.T) {
	d := &fakeDialer{err: errors.New("host is down")}
	m := newTestManager(d)

	start := time.Now()
	ok := PrintWithRetry(m, "POS-5805", DayClose{}, 3, 10*time.Millisecond)

	require.False(t, ok)
	require.Equal(t, 3, d.dials)
	require.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestPrintWithRetryStopsOnSuccess(t *testing.T) {
	d := &fakeDialer{failFirst: 1}
	m := newTestManager(d)

	ok := PrintWithRetry(m, "POS-5805", DayClose{}, 3, time.Millisecond)
	require.True(t, ok)
	require.Equal(t, 2, d.dials)
}
