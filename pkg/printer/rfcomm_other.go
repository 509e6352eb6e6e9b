//go:build !linux

package printer

import "errors"

// Dial is only implemented over BlueZ RFCOMM sockets.
func (d *RFCOMMDialer) Dial(name string) (Conn, error) {
	return nil, errors.New("printer: rfcomm connections require linux")
}
