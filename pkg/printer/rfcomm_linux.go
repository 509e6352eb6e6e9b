//go:build linux

package printer

import (
	"golang.org/x/sys/unix"
)

// BT_SECURITY socket option and level values from the kernel's
// bluetooth.h; x/sys/unix does not export them.
const (
	btSecurity     = 4
	btSecurityHigh = 3
)

// Dial resolves the named printer and connects over RFCOMM, preferring a
// secure link and falling back to an insecure one.
func (d *RFCOMMDialer) Dial(name string) (Conn, error) {
	addrStr, err := d.Devices.Resolve(name)
	if err != nil {
		return nil, err
	}

	addr, err := parseBTAddr(addrStr)
	if err != nil {
		return nil, err
	}

	fd, err := connectRFCOMM(addr, d.channel(), true)
	if err != nil {
		fd, err = connectRFCOMM(addr, d.channel(), false)
		if err != nil {
			return nil, err
		}
	}

	return &rfcommConn{fd: fd}, nil
}

func connectRFCOMM(addr [6]byte, channel uint8, secure bool) (int, error) {
	fd, err := unix.Socket(unix.AF_BLUETOOTH, unix.SOCK_STREAM, unix.BTPROTO_RFCOMM)
	if err != nil {
		return -1, err
	}

	if secure {
		// struct bt_security{level, key_size}
		sec := string([]byte{btSecurityHigh, 0})
		if err := unix.SetsockoptString(fd, unix.SOL_BLUETOOTH, btSecurity, sec); err != nil {
			unix.Close(fd)
			return -1, err
		}
	}

	if err := unix.Connect(fd, &unix.SockaddrRFCOMM{Addr: addr, Channel: channel}); err != nil {
		unix.Close(fd)
		return -1, err
	}

	return fd, nil
}

type rfcommConn struct {
	fd     int
	closed bool
}

func (c *rfcommConn) Write(p []byte) (int, error) {
	return unix.Write(c.fd, p)
}

func (c *rfcommConn) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	return unix.Close(c.fd)
}

// Connected reports whether the socket still looks healthy. A pending
// socket error means the link dropped since the last write.
func (c *rfcommConn) Connected() bool {
	if c.closed {
		return false
	}
	soerr, err := unix.GetsockoptInt(c.fd, unix.SOL_SOCKET, unix.SO_ERROR)
	return err == nil && soerr == 0
}
