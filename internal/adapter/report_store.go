package adapter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goccy/go-json"

	m "gooze.dev/pkg/playground/internal/model"
)

// LatestReport is the file name under which the most recent report is kept.
const LatestReport = "latest.json"

// ErrReportNotFound is returned when no saved report matches a lookup.
var ErrReportNotFound = errors.New("report not found")

// ReportStore persists mutation testing reports in a directory.
type ReportStore interface {
	// SaveReport writes report under dir and marks it as the latest one.
	SaveReport(dir m.Path, report m.Report) error
	// LoadReport reads the report of sessionID, or the latest one when
	// sessionID is empty.
	LoadReport(dir m.Path, sessionID string) (m.Report, error)
	// LoadReports reads every saved report, oldest first.
	LoadReports(dir m.Path) ([]m.Report, error)
}

type reportStore struct{}

// NewReportStore constructs a JSON file backed ReportStore.
func NewReportStore() ReportStore {
	return &reportStore{}
}

func (s *reportStore) SaveReport(dir m.Path, report m.Report) error {
	if report.SessionID == "" {
		return fmt.Errorf("report has no session id")
	}

	if err := os.MkdirAll(string(dir), 0o755); err != nil {
		return fmt.Errorf("failed to create reports dir: %w", err)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	for _, name := range []string{report.SessionID + ".json", LatestReport} {
		if err := writeFileAtomic(filepath.Join(string(dir), name), data); err != nil {
			return err
		}
	}

	return nil
}

func (s *reportStore) LoadReport(dir m.Path, sessionID string) (m.Report, error) {
	name := LatestReport
	if sessionID != "" {
		name = sessionID + ".json"
	}

	report, err := readReport(filepath.Join(string(dir), name))
	if errors.Is(err, os.ErrNotExist) {
		return m.Report{}, fmt.Errorf("%w: %s", ErrReportNotFound, name)
	}

	return report, err
}

func (s *reportStore) LoadReports(dir m.Path) ([]m.Report, error) {
	entries, err := os.ReadDir(string(dir))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	var reports []m.Report

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || name == LatestReport || !strings.HasSuffix(name, ".json") {
			continue
		}

		report, err := readReport(filepath.Join(string(dir), name))
		if err != nil {
			return nil, err
		}

		reports = append(reports, report)
	}

	sort.SliceStable(reports, func(i, j int) bool {
		return reports[i].CreatedAt.Before(reports[j].CreatedAt)
	})

	return reports, nil
}

func readReport(path string) (m.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return m.Report{}, err
	}

	var report m.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return m.Report{}, fmt.Errorf("failed to decode report %s: %w", path, err)
	}

	return report, nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".report-*")
	if err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())

		return fmt.Errorf("failed to write report: %w", err)
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to write report: %w", err)
	}

	return os.Rename(tmp.Name(), path)
}
