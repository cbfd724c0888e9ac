// Package testutil builds synthetic binaries for packaging tests.
package testutil

import (
	"bytes"
	"debug/elf"
	"debug/macho"
	"encoding/binary"
)

// ELF returns a minimal little-endian ELF64 executable for machine,
// followed by payload. It carries no sections or program headers.
func ELF(machine elf.Machine, payload []byte) []byte {
	var ident [elf.EI_NIDENT]byte
	copy(ident[:], elf.ELFMAG)
	ident[elf.EI_CLASS] = byte(elf.ELFCLASS64)
	ident[elf.EI_DATA] = byte(elf.ELFDATA2LSB)
	ident[elf.EI_VERSION] = byte(elf.EV_CURRENT)

	hdr := elf.Header64{
		Ident:   ident,
		Type:    uint16(elf.ET_EXEC),
		Machine: uint16(machine),
		Version: uint32(elf.EV_CURRENT),
		Ehsize:  64,
	}

	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.LittleEndian, hdr)
	buf.Write(payload)
	return buf.Bytes()
}

// MachO returns a minimal 64-bit Mach-O executable header for cpu,
// followed by payload.
func MachO(cpu macho.Cpu, payload []byte) []byte {
	hdr := macho.FileHeader{
		Magic: macho.Magic64,
		Cpu:   cpu,
		Type:  macho.TypeExec,
	}

	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.LittleEndian, hdr)
	// 64-bit headers carry a reserved word after the flags.
	_ = binary.Write(&buf, binary.LittleEndian, uint32(0))
	buf.Write(payload)
	return buf.Bytes()
}
