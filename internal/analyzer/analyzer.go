// Package analyzer walks an extracted project tree and derives its Analysis:
// file counts, detected technologies and entry points. It also serves file
// content and keyword search for the chat context pipeline.
package analyzer

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"codechat/internal/apperrors"
)

const (
	// maxSearchFileSize caps how much of a file is scanned during search.
	maxSearchFileSize = 1 * 1024 * 1024
)

// Analysis is the derived summary of a project, computed once at upload time.
type Analysis struct {
	FileCount   int      `json:"fileCount"`
	TechStack   []string `json:"techStack"`
	EntryPoints []string `json:"entryPoints"`
	Summary     Summary  `json:"summary"`
}

// Summary aggregates per-type file counts. The counts sum to FileCount.
type Summary struct {
	FilesByType map[string]int `json:"filesByType"`
}

// Analyzer is bound to one extracted project directory.
type Analyzer struct {
	root   string
	ignore *ignoreList
}

// New creates an Analyzer for the project rooted at root.
func New(root string) *Analyzer {
	return &Analyzer{
		root:   root,
		ignore: loadIgnoreList(root),
	}
}

// Root returns the project root directory.
func (a *Analyzer) Root() string {
	return a.root
}

// Analyze recursively lists every regular file under the root, excluding
// conventionally ignored directories, and builds the Analysis. Per-file
// filesystem errors are skipped; they never abort the whole walk.
func (a *Analyzer) Analyze() (*Analysis, error) {
	analysis := &Analysis{
		TechStack:   []string{},
		EntryPoints: []string{},
		Summary:     Summary{FilesByType: make(map[string]int)},
	}
	seenTech := make(map[string]bool)

	err := a.walk(func(relPath string, d fs.DirEntry) {
		analysis.FileCount++

		ext := strings.ToLower(filepath.Ext(relPath))
		typeKey := ext
		if typeKey == "" {
			typeKey = "none"
		}
		analysis.Summary.FilesByType[typeKey]++

		name := strings.ToLower(filepath.Base(relPath))
		if tech, ok := markerTechnologies[name]; ok && !seenTech[tech] {
			seenTech[tech] = true
			analysis.TechStack = append(analysis.TechStack, tech)
		}
		if tech, ok := extensionTechnologies[ext]; ok && !seenTech[tech] {
			seenTech[tech] = true
			analysis.TechStack = append(analysis.TechStack, tech)
		}

		if isEntryPoint(relPath) {
			analysis.EntryPoints = append(analysis.EntryPoints, relPath)
		}
	})
	if err != nil {
		return nil, apperrors.Filesystem("failed to walk project directory", err)
	}

	return analysis, nil
}

// FileContent returns the UTF-8 text content of a file inside the project
// root. Paths resolving outside the root and missing files both fail with a
// NotFound error.
func (a *Analyzer) FileContent(relPath string) (string, error) {
	absPath, err := a.resolve(relPath)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return "", apperrors.NotFound("file not found: " + relPath)
	}

	return string(data), nil
}

// SearchFiles returns the relative paths of files whose path or content
// contains any keyword token of query. Ordering follows the filesystem walk,
// so identical inputs produce identical results.
func (a *Analyzer) SearchFiles(query string) ([]string, error) {
	tokens := searchTokens(query)
	if len(tokens) == 0 {
		return nil, nil
	}

	var matches []string
	err := a.walk(func(relPath string, d fs.DirEntry) {
		lowerPath := strings.ToLower(relPath)
		for _, token := range tokens {
			if strings.Contains(lowerPath, token) {
				matches = append(matches, relPath)
				return
			}
		}

		info, err := d.Info()
		if err != nil || info.Size() > maxSearchFileSize {
			return
		}

		data, err := os.ReadFile(filepath.Join(a.root, relPath))
		if err != nil {
			return
		}
		content := strings.ToLower(string(data))
		for _, token := range tokens {
			if strings.Contains(content, token) {
				matches = append(matches, relPath)
				return
			}
		}
	})
	if err != nil {
		return nil, apperrors.Filesystem("failed to search project directory", err)
	}

	return matches, nil
}

// walk visits every regular file under the root, pruning ignored directories.
// fn receives slash-normalized paths relative to the root.
func (a *Analyzer) walk(fn func(relPath string, d fs.DirEntry)) error {
	return filepath.WalkDir(a.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Skip files/directories we can't read
			return nil
		}

		relPath, err := filepath.Rel(a.root, path)
		if err != nil || relPath == "." {
			return nil
		}
		relPath = filepath.ToSlash(relPath)

		if d.IsDir() {
			if ignoredDirectories[strings.ToLower(d.Name())] || a.ignore.ignored(relPath, true) {
				return fs.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}
		if a.ignore.ignored(relPath, false) {
			return nil
		}

		fn(relPath, d)
		return nil
	})
}

// resolve maps a client-supplied relative path to an absolute path inside
// the project root. Paths escaping the root are rejected, never rewritten;
// a request for "../main.go" must not be served even when "main.go" exists
// inside the root.
func (a *Analyzer) resolve(relPath string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(relPath))
	if filepath.IsAbs(cleaned) || cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(os.PathSeparator)) {
		return "", apperrors.NotFound("file not found: " + relPath)
	}

	return filepath.Join(a.root, cleaned), nil
}

// isEntryPoint flags conventionally-named top-level files.
func isEntryPoint(relPath string) bool {
	if strings.ContainsRune(relPath, '/') {
		return false
	}

	name := strings.ToLower(relPath)
	for _, prefix := range entryPointPrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

// searchTokens extracts lowercase keyword tokens from a chat message:
// alphanumeric runs of at least 3 characters, stopword-filtered.
func searchTokens(query string) []string {
	fields := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})

	var tokens []string
	seen := make(map[string]bool)
	for _, field := range fields {
		if len(field) < 3 || searchStopwords[field] || seen[field] {
			continue
		}
		seen[field] = true
		tokens = append(tokens, field)
	}

	return tokens
}

// RedactSecrets replaces the values of obvious credential assignments before
// file content is embedded in a prompt.
func RedactSecrets(content string) string {
	lower := strings.ToLower(content)
	if !strings.Contains(lower, "api_key") && !strings.Contains(lower, "password") &&
		!strings.Contains(lower, "secret") && !strings.Contains(lower, "token") {
		return content
	}

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lowerLine := strings.ToLower(line)
		if !strings.Contains(lowerLine, "api_key") && !strings.Contains(lowerLine, "password") &&
			!strings.Contains(lowerLine, "secret") && !strings.Contains(lowerLine, "token") {
			continue
		}

		if idx := strings.IndexByte(line, ':'); idx >= 0 {
			lines[i] = line[:idx+1] + " [REDACTED]"
		} else if idx := strings.IndexByte(line, '='); idx >= 0 {
			lines[i] = line[:idx+1] + " [REDACTED]"
		}
	}

	return strings.Join(lines, "\n")
}
