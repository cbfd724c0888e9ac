// Package gateways provides adapter implementations for external tools and file formats.
package gateways

import (
	"bytes"
	"debug/elf"
	"debug/macho"
	"debug/pe"
	"encoding/binary"
	"fmt"

	"github.com/ochairo/lambda-build/internal/domain/entities"
)

// objectInspector recovers the target architecture of a compiled binary
// using debug/elf, debug/macho and debug/pe - no external tools required
type objectInspector struct{}

// NewArchitectureInspector creates a new object file inspector
//
//nolint:revive // unexported-return: Intentionally returns concrete type for testability
func NewArchitectureInspector() *objectInspector {
	return &objectInspector{}
}

// Architecture maps the machine field of an object file to a Lambda architecture
func (i *objectInspector) Architecture(data []byte) (string, error) {
	switch {
	case bytes.HasPrefix(data, []byte(elf.ELFMAG)):
		return i.elfArchitecture(data)
	case isMachO(data):
		return i.machoArchitecture(data)
	case bytes.HasPrefix(data, []byte("MZ")):
		return i.peArchitecture(data)
	default:
		return "", fmt.Errorf("%w: unknown object format", entities.ErrUnsupportedArchitecture)
	}
}

func (i *objectInspector) elfArchitecture(data []byte) (string, error) {
	f, err := elf.NewFile(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: failed to parse ELF file: %v", entities.ErrUnsupportedArchitecture, err)
	}
	//nolint:errcheck // Close on in-memory reader
	defer f.Close()

	switch f.Machine {
	case elf.EM_AARCH64:
		return entities.ArchARM64, nil
	case elf.EM_X86_64:
		return entities.ArchX86_64, nil
	default:
		return "", fmt.Errorf("%w: %s", entities.ErrUnsupportedArchitecture, f.Machine)
	}
}

func (i *objectInspector) machoArchitecture(data []byte) (string, error) {
	f, err := macho.NewFile(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: failed to parse Mach-O file: %v", entities.ErrUnsupportedArchitecture, err)
	}
	//nolint:errcheck // Close on in-memory reader
	defer f.Close()

	switch f.Cpu {
	case macho.CpuArm64:
		return entities.ArchARM64, nil
	case macho.CpuAmd64:
		return entities.ArchX86_64, nil
	default:
		return "", fmt.Errorf("%w: %s", entities.ErrUnsupportedArchitecture, f.Cpu)
	}
}

func (i *objectInspector) peArchitecture(data []byte) (string, error) {
	f, err := pe.NewFile(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: failed to parse PE file: %v", entities.ErrUnsupportedArchitecture, err)
	}
	//nolint:errcheck // Close on in-memory reader
	defer f.Close()

	switch f.Machine {
	case pe.IMAGE_FILE_MACHINE_ARM64:
		return entities.ArchARM64, nil
	case pe.IMAGE_FILE_MACHINE_AMD64:
		return entities.ArchX86_64, nil
	default:
		return "", fmt.Errorf("%w: PE machine %#x", entities.ErrUnsupportedArchitecture, f.Machine)
	}
}

func isMachO(data []byte) bool {
	if len(data) < 4 {
		return false
	}
	switch binary.LittleEndian.Uint32(data) {
	case macho.Magic32, macho.Magic64:
		return true
	}
	switch binary.BigEndian.Uint32(data) {
	case macho.Magic32, macho.Magic64:
		return true
	}
	return false
}
