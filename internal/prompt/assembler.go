// Package prompt builds the text sent to the language model. Assembly is a
// pure function of the project context, the conversation history and the
// incoming message; there is no hidden state.
package prompt

import (
	"fmt"
	"sort"
	"strings"

	"codechat/internal/analyzer"
	"codechat/internal/store"
)

const (
	// maxExcerptFiles bounds how many matched files are quoted. Excerpts are
	// only included when the search yields between 1 and maxExcerptFiles
	// matches; more matches means the query was too broad to be useful.
	maxExcerptFiles = 3

	// maxExcerptLines truncates each quoted file.
	maxExcerptLines = 500

	// maxHistoryMessages bounds how much prior conversation is replayed.
	maxHistoryMessages = 5
)

const projectInstructions = `You are a senior software engineer helping a developer understand this codebase.
Ground every answer in the project context above. When describing architecture,
data flow or request handling, include a Mermaid diagram (graph TD or
sequenceDiagram) - prefer a diagram plus a short explanation over long prose.
If the answer is not derivable from the project, say so.`

const genericInstructions = `You are a helpful software engineering assistant.
Answer clearly and concisely, with code examples where they help. When a
diagram would clarify structure or flow, include one in Mermaid syntax.`

// Assemble produces the single prompt string for a chat turn. project may be
// nil, in which case the generic preamble is used. history holds the prior
// messages of the conversation, excluding the current turn.
func Assemble(project *store.Project, message string, history []store.Message) string {
	var b strings.Builder

	if project != nil {
		writeProjectContext(&b, project)
		writeFileExcerpts(&b, project.Analyzer, message)
	} else {
		b.WriteString(genericInstructions)
		b.WriteString("\n\n")
	}

	writeHistory(&b, history)

	fmt.Fprintf(&b, "User: %s\nAssistant:", message)

	return b.String()
}

// writeProjectContext renders the project preamble from its Analysis.
func writeProjectContext(b *strings.Builder, project *store.Project) {
	a := project.Analysis

	fmt.Fprintf(b, "Project: %s\n", project.Name)
	fmt.Fprintf(b, "Files: %d\n", a.FileCount)
	fmt.Fprintf(b, "Tech stack: %s\n", strings.Join(a.TechStack, ", "))
	fmt.Fprintf(b, "Entry points: %s\n", strings.Join(a.EntryPoints, ", "))

	b.WriteString("Files by type:\n")
	types := make([]string, 0, len(a.Summary.FilesByType))
	for t := range a.Summary.FilesByType {
		types = append(types, t)
	}
	sort.Strings(types)
	for _, t := range types {
		fmt.Fprintf(b, "  %s: %d\n", t, a.Summary.FilesByType[t])
	}

	b.WriteString("\n")
	b.WriteString(projectInstructions)
	b.WriteString("\n\n")
}

// writeFileExcerpts quotes matched files when the search is selective enough:
// exactly 1 to 3 matches. Zero matches has nothing to quote; four or more
// means the keywords were too generic, and quoting would only add noise.
func writeFileExcerpts(b *strings.Builder, a *analyzer.Analyzer, message string) {
	if a == nil {
		return
	}

	matches, err := a.SearchFiles(message)
	if err != nil || len(matches) == 0 || len(matches) > maxExcerptFiles {
		return
	}

	for _, relPath := range matches {
		content, err := a.FileContent(relPath)
		if err != nil {
			continue
		}
		fmt.Fprintf(b, "--- %s ---\n%s\n\n", relPath, analyzer.RedactSecrets(truncateLines(content, maxExcerptLines)))
	}
}

// writeHistory replays up to the last 5 prior messages in chronological order.
func writeHistory(b *strings.Builder, history []store.Message) {
	if len(history) > maxHistoryMessages {
		history = history[len(history)-maxHistoryMessages:]
	}

	for _, msg := range history {
		fmt.Fprintf(b, "%s: %s\n", msg.Role, msg.Content)
	}
}

// truncateLines keeps the first n lines of content.
func truncateLines(content string, n int) string {
	lines := strings.Split(content, "\n")
	if len(lines) <= n {
		return content
	}
	return strings.Join(lines[:n], "\n")
}
