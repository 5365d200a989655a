// Package artifact keeps the latest diagnostic report of each module on disk
// so it can be read back after the program exits.
package artifact

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ReportsDir is the archive directory under the mintdeck home.
const ReportsDir = "reports"

// Store reads and writes report markdown.
// Layout: <home>/reports/<module>.md
type Store struct {
	baseDir string
}

// NewStore creates a store under home (see config.HomeDir).
func NewStore(home string) *Store {
	return &Store{baseDir: filepath.Join(home, ReportsDir)}
}

// BaseDir returns the archive directory.
func (s *Store) BaseDir() string {
	return s.baseDir
}

// ReportPath returns the file for a module.
func (s *Store) ReportPath(module string) string {
	// Normalize: lowercase, replace spaces with hyphens
	normalized := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(module), " ", "-"))
	return filepath.Join(s.baseDir, normalized+".md")
}

// Save replaces the stored report for module.
func (s *Store) Save(module, markdown string) error {
	if strings.TrimSpace(module) == "" {
		return errors.New("save report: module name is required")
	}
	if err := os.MkdirAll(s.baseDir, 0755); err != nil {
		return fmt.Errorf("create reports dir: %w", err)
	}
	path := s.ReportPath(module)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(markdown), 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// Load returns the stored report for module.
// A missing report yields an empty string and no error.
func (s *Store) Load(module string) string {
	b, err := os.ReadFile(s.ReportPath(module))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}

// Modules lists the modules that have a stored report, sorted by name.
func (s *Store) Modules() ([]string, error) {
	entries, err := os.ReadDir(s.baseDir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".md" {
			continue
		}
		out = append(out, strings.TrimSuffix(e.Name(), ".md"))
	}
	sort.Strings(out)
	return out, nil
}

// Summary returns the first non-heading line of a report for display
// (e.g. "3 NFT(s) owned by 0x…" or "no report yet").
func Summary(markdown string) string {
	for _, line := range strings.Split(markdown, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if len(line) > 60 {
			line = line[:57] + "..."
		}
		return line
	}
	return "no report yet"
}
