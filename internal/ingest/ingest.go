// Package ingest reads static-analysis report documents into issue sets.
package ingest

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/dshills/issuegate/internal/issues"
)

// Document is one analysis report as written by a tool adapter.
type Document struct {
	Path   string   `json:"-" yaml:"-"`
	Hash   string   `json:"-" yaml:"-"`
	Tool   string   `json:"tool" yaml:"tool"`
	Issues []Entry  `json:"issues" yaml:"issues"`
	Errors []string `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// Entry is a raw finding. Origin defaults to the document tool.
type Entry struct {
	Origin   string `json:"origin,omitempty" yaml:"origin,omitempty"`
	File     string `json:"file" yaml:"file"`
	Line     int    `json:"line" yaml:"line"`
	Category string `json:"category,omitempty" yaml:"category,omitempty"`
	Type     string `json:"type,omitempty" yaml:"type,omitempty"`
	Severity string `json:"severity,omitempty" yaml:"severity,omitempty"`
	Message  string `json:"message,omitempty" yaml:"message,omitempty"`
}

// Load reads a report document and computes its SHA-256 hash. The format
// follows the extension: .json, .yaml or .yml.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ingest.Load: %w", err)
	}
	doc, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("ingest.Load: %s: %w", path, err)
	}
	h := sha256.Sum256(data)
	doc.Path = path
	doc.Hash = fmt.Sprintf("sha256:%x", h)
	return doc, nil
}

// Parse decodes a document in the format named by ext.
func Parse(data []byte, ext string) (*Document, error) {
	var doc Document
	switch strings.ToLower(ext) {
	case ".json":
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported report format %q", ext)
	}
	return &doc, nil
}

// Glob expands doublestar patterns relative to root. The result is sorted
// and free of duplicates; patterns without matches are not an error.
func Glob(root string, patterns []string) ([]string, error) {
	fsys := os.DirFS(root)
	seen := make(map[string]bool)
	var out []string
	for _, pattern := range patterns {
		pattern = filepath.ToSlash(strings.TrimPrefix(pattern, "./"))
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("ingest.Glob: invalid pattern %q", pattern)
		}
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("ingest.Glob: %q: %w", pattern, err)
		}
		for _, m := range matches {
			p := filepath.Join(root, filepath.FromSlash(m))
			if !seen[p] {
				seen[p] = true
				out = append(out, p)
			}
		}
	}
	sort.Strings(out)
	return out, nil
}

// MergeOptions tune how documents are combined.
type MergeOptions struct {
	// Redact scrubs secrets from issue messages.
	Redact bool
}

// Merge combines documents into one issue set and the list of tool
// errors. Error messages are kept verbatim and in document order.
func Merge(docs []*Document, opts MergeOptions) (issues.Set, []string) {
	var all []issues.Issue
	errs := []string{}
	for _, doc := range docs {
		for _, e := range doc.Issues {
			origin := e.Origin
			if origin == "" {
				origin = doc.Tool
			}
			sev, ok := issues.ParseSeverity(e.Severity)
			if !ok {
				sev = issues.SeverityNormal
			}
			msg := e.Message
			if opts.Redact {
				msg = Redact(msg)
			}
			all = append(all, issues.Issue{
				Origin:   origin,
				File:     filepath.ToSlash(e.File),
				Line:     e.Line,
				Category: e.Category,
				Type:     e.Type,
				Severity: sev,
				Message:  msg,
			})
		}
		errs = append(errs, doc.Errors...)
	}
	return issues.NewSet(all...), errs
}
