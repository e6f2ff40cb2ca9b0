// bios.go - Boot ROM loading for MasterEngine

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/MasterEngine
License: GPLv3 or later
*/

package main

import (
	"fmt"
	"os"
	"path/filepath"
)

var biosSearchNames = []string{"bios13fx.sms", "bios.sms"}

// LoadBIOS reads a boot ROM image. An empty path searches the working
// directory for the usual names and reports absence without an error, since
// the machine boots straight into the cartridge without one.
func LoadBIOS(path string) ([]byte, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("bios: reading %s: %w", path, err)
		}
		return data, nil
	}
	for _, name := range biosSearchNames {
		data, err := os.ReadFile(filepath.Join(".", name))
		if err == nil {
			return data, nil
		}
	}
	return nil, nil
}
