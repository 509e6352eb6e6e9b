package printer

import (
	"fmt"
	"strconv"
	"strings"
)

// sppChannel is the RFCOMM channel printers publish under SPPUUID.
const sppChannel = 1

// PairedDevices resolves a printer name against the adapter's
// paired-device list.
type PairedDevices interface {
	// Resolve returns the Bluetooth address ("AA:BB:CC:DD:EE:FF") of the
	// first paired device whose name matches, case-insensitively.
	Resolve(name string) (string, error)
}

// RFCOMMDialer opens RFCOMM sockets to printers paired with the local
// adapter. A secure (authenticated, encrypted) connect is attempted
// first, then a plain one.
type RFCOMMDialer struct {
	Devices PairedDevices
	Channel uint8
}

func (d *RFCOMMDialer) channel() uint8 {
	if d.Channel == 0 {
		return sppChannel
	}
	return d.Channel
}

// parseBTAddr converts a colon-separated Bluetooth address into the
// byte-reversed form the RFCOMM sockaddr expects.
func parseBTAddr(s string) ([6]byte, error) {
	var addr [6]byte
	parts := strings.Split(s, ":")
	if len(parts) != 6 {
		return addr, fmt.Errorf("printer: bad bluetooth address %q", s)
	}
	for i, p := range parts {
		b, err := strconv.ParseUint(p, 16, 8)
		if err != nil {
			return addr, fmt.Errorf("printer: bad bluetooth address %q", s)
		}
		addr[5-i] = byte(b)
	}
	return addr, nil
}
