//go:build linux

package printer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDialUnknownPrinter(t *testing.T) {
	d := &RFCOMMDialer{Devices: &BlueZRegistry{Root: t.TempDir()}}

	_, err := d.Dial("POS-5805")
	require.Error(t, err)
}

func TestDialBadAddress(t *testing.T) {
	d := &RFCOMMDialer{Devices: fixedAddress("not-an-address")}

	_, err := d.Dial("POS-5805")
	require.Error(t, err)
}

type fixedAddress string

func (a fixedAddress) Resolve(name string) (string, error) { return string(a), nil }
