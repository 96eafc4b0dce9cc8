package env

import (
	"os"

	"github.com/denisbrodbeck/machineid"
)

// MachineID retrieves the unique ID identifying the machine.
// It falls back to the host name, then "sabertooth".
func MachineID() string {
	if id, err := machineid.ID(); err == nil && id != "" {
		return id
	}
	if name, err := os.Hostname(); err == nil && name != "" {
		return name
	}
	return "sabertooth"
}
