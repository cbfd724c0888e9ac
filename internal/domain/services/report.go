package services

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ochairo/lambda-build/internal/domain/entities"
)

// ReportService writes machine-readable summaries of a build run
type ReportService struct {
	now func() time.Time
}

// NewReportService creates a new report service
func NewReportService() *ReportService {
	return &ReportService{now: time.Now}
}

// BuildReport is the JSON document written by --report
type BuildReport struct {
	Target      string           `json:"target"`
	Profile     string           `json:"profile"`
	GeneratedAt string           `json:"generated_at"`
	Artifacts   []ArtifactReport `json:"artifacts"`
}

// ArtifactReport describes one packaged function
type ArtifactReport struct {
	Name         string `json:"name"`
	Architecture string `json:"architecture"`
	SHA256       string `json:"sha256"`
	Path         string `json:"path"`
	Format       string `json:"format"`
	Signature    string `json:"signature,omitempty"`
}

// NewBuildReport assembles a report for the given target and artifacts.
// signatures maps artifact paths to detached signature paths.
func (s *ReportService) NewBuildReport(target entities.ResolvedTarget, artifacts []*entities.BuildArtifact, signatures map[string]string) BuildReport {
	report := BuildReport{
		Target:      target.Triple,
		Profile:     target.ProfileDir,
		GeneratedAt: s.now().UTC().Format(time.RFC3339),
		Artifacts:   make([]ArtifactReport, 0, len(artifacts)),
	}

	for _, a := range artifacts {
		report.Artifacts = append(report.Artifacts, ArtifactReport{
			Name:         a.Name,
			Architecture: a.Architecture,
			SHA256:       a.SHA256,
			Path:         a.Path,
			Format:       a.Format.String(),
			Signature:    signatures[a.Path],
		})
	}

	return report
}

// WriteReport writes the report as indented JSON
func (s *ReportService) WriteReport(path string, report BuildReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal build report: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("%w: failed to create report directory: %v", entities.ErrIO, err)
		}
	}

	if err := os.WriteFile(path, append(data, '\n'), 0600); err != nil {
		return fmt.Errorf("%w: failed to write build report: %v", entities.ErrIO, err)
	}

	return nil
}

// ReadReport loads a report written by WriteReport
func (s *ReportService) ReadReport(path string) (BuildReport, error) {
	//nolint:gosec // G304: path is a report file chosen by the user
	data, err := os.ReadFile(path)
	if err != nil {
		return BuildReport{}, fmt.Errorf("%w: failed to read build report: %v", entities.ErrIO, err)
	}

	var report BuildReport
	if err := json.Unmarshal(data, &report); err != nil {
		return BuildReport{}, fmt.Errorf("failed to parse build report %s: %w", path, err)
	}
	return report, nil
}

// Find returns the entry recorded for an artifact path
func (r BuildReport) Find(artifactPath string) (ArtifactReport, bool) {
	want := filepath.Clean(artifactPath)
	for _, a := range r.Artifacts {
		if filepath.Clean(a.Path) == want {
			return a, true
		}
	}
	return ArtifactReport{}, false
}
