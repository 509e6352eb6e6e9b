package printer

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var btAddrDir = regexp.MustCompile(`^([0-9A-F]{2}:){5}[0-9A-F]{2}$`)

// BlueZRegistry resolves printer names from the BlueZ pairing registry
// on disk: /var/lib/bluetooth/<adapter>/<device>/info, one directory per
// paired device, named by its address.
type BlueZRegistry struct {
	Root string
}

func (r *BlueZRegistry) root() string {
	if r.Root == "" {
		return "/var/lib/bluetooth"
	}
	return r.Root
}

// Resolve walks every adapter's paired devices and returns the address
// of the first whose stored name matches, case-insensitively. Two paired
// devices sharing a name are not disambiguated.
func (r *BlueZRegistry) Resolve(name string) (string, error) {
	adapters, err := os.ReadDir(r.root())
	if err != nil {
		return "", fmt.Errorf("printer: bluetooth registry: %w", err)
	}

	for _, adapter := range adapters {
		if !adapter.IsDir() {
			continue
		}

		devices, err := os.ReadDir(filepath.Join(r.root(), adapter.Name()))
		if err != nil {
			continue
		}

		for _, dev := range devices {
			if !dev.IsDir() || !btAddrDir.MatchString(dev.Name()) {
				continue
			}

			devName, err := deviceName(filepath.Join(r.root(), adapter.Name(), dev.Name(), "info"))
			if err != nil {
				continue
			}

			if strings.EqualFold(devName, name) {
				return dev.Name(), nil
			}
		}
	}

	return "", fmt.Errorf("printer: no paired device named %q", name)
}

// deviceName pulls Name= out of the [General] section of a BlueZ info
// file.
func deviceName(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	section := ""
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = line
			continue
		}
		if section == "[General]" && strings.HasPrefix(line, "Name=") {
			return strings.TrimPrefix(line, "Name="), nil
		}
	}

	return "", fmt.Errorf("printer: no device name in %s", path)
}
