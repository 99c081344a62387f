// Package config loads the TOML address-map descriptor consumed by
// cmd/vm32run: a list of named memory regions to create and map before a
// program image is loaded. Parsing uses BurntSushi/toml, the decoder the
// rest of the retrieved emulator corpus reaches for.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Region describes one device to create and place in the guest address
// space. Only "ram" is implemented today; Kind is a string (not an enum) so
// new device kinds can be added without a breaking config change.
type Region struct {
	Name     string `toml:"name"`
	Kind     string `toml:"kind"`
	Base     uint32 `toml:"base"`
	SizeByte uint32 `toml:"size_bytes"`
}

// AddressMap is the top-level document: an ordered list of regions, placed
// in file order.
type AddressMap struct {
	Region []Region `toml:"region"`
}

// Load parses a TOML address-map document from path.
func Load(path string) (AddressMap, error) {
	var m AddressMap
	if _, err := toml.DecodeFile(path, &m); err != nil {
		return AddressMap{}, fmt.Errorf("config: decode %s: %w", path, err)
	}
	for _, r := range m.Region {
		if r.SizeByte == 0 || r.SizeByte%4 != 0 {
			return AddressMap{}, fmt.Errorf("config: region %q has invalid size_bytes %d", r.Name, r.SizeByte)
		}
		if r.Base%4 != 0 {
			return AddressMap{}, fmt.Errorf("config: region %q has misaligned base 0x%x", r.Name, r.Base)
		}
	}
	return m, nil
}
