package gateways

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zip"

	"github.com/ochairo/lambda-build/internal/domain/entities"
	"github.com/ochairo/lambda-build/internal/domain/interfaces"
	"github.com/ochairo/lambda-build/internal/domain/interfaces/gateways"
)

const (
	bootstrapMode os.FileMode = 0755
	archiveMode   os.FileMode = 0644
	dirMode       os.FileMode = 0755
)

// Packager turns compiled binaries into Lambda deployment artifacts
type Packager struct {
	inspector gateways.ArchitectureInspector
	checksum  *checksummer
	logger    interfaces.Logger
}

// NewPackager creates a new packager
func NewPackager(inspector gateways.ArchitectureInspector, logger interfaces.Logger) *Packager {
	if inspector == nil {
		inspector = NewArchitectureInspector()
	}
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	return &Packager{
		inspector: inspector,
		checksum:  NewChecksummer(),
		logger:    logger,
	}
}

// Package inspects the binary at binaryPath and writes it into destDir
// as bootstrap (OutputBinary) or bootstrap.zip (OutputZip).
//
// The architecture and checksum are recovered before anything is written,
// so a rejected binary never leaves an archive behind.
func (p *Packager) Package(
	_ context.Context,
	name, binaryPath, destDir string,
	format entities.OutputFormat,
) (*entities.BuildArtifact, error) {
	if _, err := os.Stat(binaryPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s does not exist, run `lambda-build build` to create it",
				entities.ErrBinaryNotFound, binaryPath)
		}
		return nil, fmt.Errorf("%w: failed to stat %s: %v", entities.ErrIO, binaryPath, err)
	}

	//nolint:gosec // G304: binaryPath is the compiler output chosen by the pipeline
	data, err := os.ReadFile(binaryPath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %v", entities.ErrIO, binaryPath, err)
	}

	arch, err := p.inspector.Architecture(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", binaryPath, err)
	}
	sum := p.checksum.Sum(data)

	if err := os.MkdirAll(destDir, dirMode); err != nil {
		return nil, fmt.Errorf("%w: failed to create %s: %v", entities.ErrIO, destDir, err)
	}

	var path string
	switch format {
	case entities.OutputZip:
		path, err = p.writeZip(data, destDir)
	case entities.OutputBinary, "":
		format = entities.OutputBinary
		path, err = p.moveBinary(binaryPath, destDir, sum)
	default:
		return nil, fmt.Errorf("unsupported output format %q", format)
	}
	if err != nil {
		return nil, err
	}

	p.logger.Debug("packaged binary",
		interfaces.F("name", name),
		interfaces.F("architecture", arch),
		interfaces.F("path", path))

	return &entities.BuildArtifact{
		Name:         name,
		Architecture: arch,
		SHA256:       sum,
		Path:         path,
		Format:       format,
	}, nil
}

// writeZip writes a single-entry archive to a temporary file and renames it
// into place, so a partially written bootstrap.zip is never visible
func (p *Packager) writeZip(data []byte, destDir string) (path string, err error) {
	final := filepath.Join(destDir, entities.BootstrapZipName)

	tmp, err := os.CreateTemp(destDir, ".bootstrap-*.zip")
	if err != nil {
		return "", fmt.Errorf("%w: failed to create archive: %v", entities.ErrIO, err)
	}
	defer func() {
		if err != nil {
			//nolint:errcheck // Best effort cleanup of the temporary archive
			tmp.Close()
			//nolint:errcheck // Best effort cleanup of the temporary archive
			os.Remove(tmp.Name())
		}
	}()

	zw := zip.NewWriter(tmp)
	header := &zip.FileHeader{
		Name:   entities.BootstrapName,
		Method: zip.Deflate,
	}
	header.SetMode(bootstrapMode)

	w, err := zw.CreateHeader(header)
	if err != nil {
		return "", fmt.Errorf("%w: failed to add bootstrap entry: %v", entities.ErrIO, err)
	}
	if _, err = w.Write(data); err != nil {
		return "", fmt.Errorf("%w: failed to write bootstrap entry: %v", entities.ErrIO, err)
	}
	if err = zw.Close(); err != nil {
		return "", fmt.Errorf("%w: failed to finish archive: %v", entities.ErrIO, err)
	}
	if err = tmp.Close(); err != nil {
		return "", fmt.Errorf("%w: failed to close archive: %v", entities.ErrIO, err)
	}
	if err = os.Chmod(tmp.Name(), archiveMode); err != nil {
		return "", fmt.Errorf("%w: failed to set archive permissions: %v", entities.ErrIO, err)
	}
	if err = os.Rename(tmp.Name(), final); err != nil {
		return "", fmt.Errorf("%w: failed to move archive into place: %v", entities.ErrIO, err)
	}

	return final, nil
}

// moveBinary renames the binary to <destDir>/bootstrap, copying when the
// rename crosses file systems
func (p *Packager) moveBinary(binaryPath, destDir, sum string) (string, error) {
	final := filepath.Join(destDir, entities.BootstrapName)

	if err := os.Rename(binaryPath, final); err != nil {
		p.logger.Debug("rename failed, copying binary", interfaces.F("error", err.Error()))
		if err := p.copyBinary(binaryPath, final, sum); err != nil {
			return "", err
		}
	}

	if err := os.Chmod(final, bootstrapMode); err != nil {
		return "", fmt.Errorf("%w: failed to set bootstrap permissions: %v", entities.ErrIO, err)
	}

	return final, nil
}

func (p *Packager) copyBinary(src, dst, sum string) (err error) {
	//nolint:gosec // G304: src is the compiler output chosen by the pipeline
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("%w: failed to read %s: %v", entities.ErrIO, src, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".bootstrap-*")
	if err != nil {
		return fmt.Errorf("%w: failed to create bootstrap: %v", entities.ErrIO, err)
	}
	defer func() {
		if err != nil {
			//nolint:errcheck // Best effort cleanup of the temporary binary
			tmp.Close()
			//nolint:errcheck // Best effort cleanup of the temporary binary
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("%w: failed to write bootstrap: %v", entities.ErrIO, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("%w: failed to close bootstrap: %v", entities.ErrIO, err)
	}
	if err = p.checksum.VerifyChecksum(tmp.Name(), sum); err != nil {
		return fmt.Errorf("%w: copied bootstrap differs from %s: %v", entities.ErrIO, src, err)
	}
	if err = os.Rename(tmp.Name(), dst); err != nil {
		return fmt.Errorf("%w: failed to move bootstrap into place: %v", entities.ErrIO, err)
	}
	if err = os.Remove(src); err != nil {
		return fmt.Errorf("%w: failed to remove %s: %v", entities.ErrIO, src, err)
	}

	return nil
}
