package prompt

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codechat/internal/analyzer"
	"codechat/internal/store"
)

// newProject builds a Project over a temp tree of relative path -> content.
func newProject(t *testing.T, files map[string]string) *store.Project {
	t.Helper()

	root := t.TempDir()
	for relPath, content := range files {
		path := filepath.Join(root, filepath.FromSlash(relPath))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}

	a := analyzer.New(root)
	analysis, err := a.Analyze()
	require.NoError(t, err)

	return &store.Project{
		ID:       "p1",
		Name:     "demo",
		Path:     root,
		Analysis: analysis,
		Analyzer: a,
	}
}

func TestAssembleGenericWithoutProject(t *testing.T) {
	result := Assemble(nil, "hello there", nil)

	assert.Contains(t, result, "helpful software engineering assistant")
	assert.NotContains(t, result, "Project:")
	assert.True(t, strings.HasSuffix(result, "User: hello there\nAssistant:"))
}

func TestAssembleProjectContext(t *testing.T) {
	project := newProject(t, map[string]string{
		"package.json": `{"name":"demo"}`,
		"index.js":     "console.log('hi')",
	})

	result := Assemble(project, "hello", nil)

	assert.Contains(t, result, "Project: demo")
	assert.Contains(t, result, "Files: 2")
	assert.Contains(t, result, "JavaScript/Node.js")
	assert.Contains(t, result, "Entry points: index.js")
	assert.Contains(t, result, ".js: 1")
	assert.Contains(t, result, "Mermaid")
	assert.True(t, strings.HasSuffix(result, "User: hello\nAssistant:"))
}

func TestExcerptsIncludedForSingleMatch(t *testing.T) {
	project := newProject(t, map[string]string{
		"billing.go": "package billing",
		"other.md":   "unrelated",
	})

	result := Assemble(project, "explain billing", nil)

	assert.Contains(t, result, "--- billing.go ---")
	assert.Contains(t, result, "package billing")
}

func TestExcerptsIncludedForThreeMatches(t *testing.T) {
	project := newProject(t, map[string]string{
		"billing1.go": "package one",
		"billing2.go": "package two",
		"billing3.go": "package three",
		"other.md":    "unrelated",
	})

	result := Assemble(project, "explain billing", nil)

	assert.Contains(t, result, "--- billing1.go ---")
	assert.Contains(t, result, "--- billing2.go ---")
	assert.Contains(t, result, "--- billing3.go ---")
}

func TestExcerptsOmittedForZeroMatches(t *testing.T) {
	project := newProject(t, map[string]string{
		"main.go": "package main",
	})

	result := Assemble(project, "explain billing", nil)

	assert.NotContains(t, result, "---")
}

func TestExcerptsOmittedForFourMatches(t *testing.T) {
	project := newProject(t, map[string]string{
		"billing1.go": "package one",
		"billing2.go": "package two",
		"billing3.go": "package three",
		"billing4.go": "package four",
	})

	result := Assemble(project, "explain billing", nil)

	// Four or more matches means the query was too broad; nothing is quoted.
	assert.NotContains(t, result, "--- billing1.go ---")
	assert.NotContains(t, result, "package one")
}

func TestExcerptsTruncatedTo500Lines(t *testing.T) {
	var b strings.Builder
	for i := 1; i <= 600; i++ {
		fmt.Fprintf(&b, "line%d\n", i)
	}
	project := newProject(t, map[string]string{
		"billing.txt": b.String(),
	})

	result := Assemble(project, "explain billing", nil)

	assert.Contains(t, result, "line500")
	assert.NotContains(t, result, "line501")
}

func TestExcerptsRedactSecrets(t *testing.T) {
	project := newProject(t, map[string]string{
		"billing.env": "api_key: super-secret-value",
	})

	result := Assemble(project, "explain billing", nil)

	assert.Contains(t, result, "--- billing.env ---")
	assert.NotContains(t, result, "super-secret-value")
}

func TestHistoryLimitedToLastFive(t *testing.T) {
	var history []store.Message
	for i := 1; i <= 7; i++ {
		role := "user"
		if i%2 == 0 {
			role = "assistant"
		}
		history = append(history, store.Message{
			Role:      role,
			Content:   fmt.Sprintf("message %d", i),
			Timestamp: time.Now(),
		})
	}

	result := Assemble(nil, "current question", history)

	assert.NotContains(t, result, "message 1")
	assert.NotContains(t, result, "message 2")
	assert.Contains(t, result, "user: message 3")
	assert.Contains(t, result, "assistant: message 4")
	assert.Contains(t, result, "user: message 7")

	// Chronological order is preserved.
	assert.Less(t, strings.Index(result, "message 3"), strings.Index(result, "message 7"))
}

func TestMissingProjectFallsBackToGeneric(t *testing.T) {
	// A chat naming an unknown project passes nil here; the generic
	// preamble must be used.
	result := Assemble(nil, "what is this project", nil)

	assert.Contains(t, result, "helpful software engineering assistant")
}
