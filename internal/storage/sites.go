package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/dotcommander/sitegen/internal/domain/site"
)

// ManifestFile is written next to the generated files of every site
const ManifestFile = "sitegen.json"

const slugMaxLen = 30

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Manifest describes one generated site
type Manifest struct {
	RequestID  string         `json:"request_id"`
	Prompt     string         `json:"prompt"`
	Archetype  site.Archetype `json:"archetype"`
	Components []string       `json:"components,omitempty"`
	Features   []string       `json:"features,omitempty"`
	Files      []string       `json:"files"`
	CreatedAt  time.Time      `json:"created_at"`
}

// SitePath names the directory of a generated site,
// e.g. sites/2025-07-16_1530_create-a-modern-landing-page_82f06b15
func SitePath(requestID, prompt string, created time.Time) string {
	shortID := requestID
	if len(shortID) > 8 {
		shortID = shortID[:8]
	}
	name := fmt.Sprintf("%s_%s_%s", created.Format("2006-01-02_1504"), slugify(prompt, slugMaxLen), shortID)
	return path.Join("sites", name)
}

// slugify lowercases s and collapses every run of other characters into a
// single hyphen
func slugify(s string, maxLen int) string {
	s = nonSlug.ReplaceAllString(strings.ToLower(s), "-")
	s = strings.Trim(s, "-")

	if len(s) > maxLen {
		s = strings.TrimRight(s[:maxLen], "-")
	}
	if s == "" {
		s = "site"
	}
	return s
}

// SiteWriter lays generated file sets out under a Storage
type SiteWriter struct {
	store  Storage
	logger *slog.Logger
}

func NewSiteWriter(store Storage, logger *slog.Logger) *SiteWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SiteWriter{
		store:  store,
		logger: logger.With("component", "site_writer"),
	}
}

// Write stores files and the manifest under a new site directory and
// returns that directory relative to the storage root
func (w *SiteWriter) Write(ctx context.Context, m Manifest, files site.FileSet) (string, error) {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	m.Files = files.Paths()

	dir := SitePath(m.RequestID, m.Prompt, m.CreatedAt)

	for _, p := range m.Files {
		if err := w.store.Save(ctx, path.Join(dir, p), []byte(files[p])); err != nil {
			return "", fmt.Errorf("writing %s: %w", p, err)
		}
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding manifest: %w", err)
	}
	if err := w.store.Save(ctx, path.Join(dir, ManifestFile), data); err != nil {
		return "", fmt.Errorf("writing manifest: %w", err)
	}

	w.logger.Info("site written", "dir", dir, "files", len(m.Files), "request_id", m.RequestID)
	return dir, nil
}

// Manifests returns the manifest of every stored site, oldest first
func (w *SiteWriter) Manifests(ctx context.Context) ([]Manifest, error) {
	paths, err := w.store.List(ctx, path.Join("sites", "*", ManifestFile))
	if err != nil {
		return nil, err
	}

	out := make([]Manifest, 0, len(paths))
	for _, p := range paths {
		data, err := w.store.Load(ctx, p)
		if err != nil {
			return nil, err
		}
		var m Manifest
		if err := json.Unmarshal(data, &m); err != nil {
			w.logger.Warn("skipping unreadable manifest", "path", p, "error", err)
			continue
		}
		out = append(out, m)
	}
	return out, nil
}
