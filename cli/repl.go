package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"codechat/config"
	"codechat/internal/analyzer"
	"codechat/internal/ollama"
	"codechat/internal/prompt"
	"codechat/internal/store"
)

// REPL analyzes a local directory and chats about it in the terminal, using
// the same analyzer, prompt assembler and model gateway as the HTTP API.
type REPL struct {
	scanner *bufio.Scanner
	config  *config.Config
	llm     *ollama.Client
	running bool

	project *store.Project
	history []store.Message
}

func NewREPL(cfg *config.Config) *REPL {
	return &REPL{
		scanner: bufio.NewScanner(os.Stdin),
		config:  cfg,
		llm:     ollama.NewClient(cfg.OllamaURL, cfg.DefaultModel, cfg.RequestTimeout),
		running: true,
	}
}

func (r *REPL) Start() {
	fmt.Println("🚀 codechat CLI started")

	if !r.promptForPath() {
		return
	}

	fmt.Println("Ask anything about the project. Type '/end' to exit.")
	fmt.Print("> ")

	for r.running && r.scanner.Scan() {
		input := strings.TrimSpace(r.scanner.Text())
		r.processInput(input)

		if r.running {
			fmt.Print("> ")
		}
	}

	if err := r.scanner.Err(); err != nil {
		fmt.Printf("Error reading input: %v\n", err)
	}
}

func (r *REPL) promptForPath() bool {
	fmt.Print("Please enter the path to a project folder: ")

	if !r.scanner.Scan() {
		return false
	}

	input := strings.TrimSpace(r.scanner.Text())
	if input == "" {
		fmt.Println("Path cannot be empty")
		return false
	}

	expandedPath, err := expandPath(input)
	if err != nil {
		fmt.Printf("Invalid path: %v\n", err)
		return false
	}

	absPath, err := filepath.Abs(expandedPath)
	if err != nil {
		fmt.Printf("Invalid path: %v\n", err)
		return false
	}

	info, err := os.Stat(absPath)
	if err != nil {
		fmt.Printf("Path does not exist: %v\n", err)
		return false
	}
	if !info.IsDir() {
		fmt.Printf("Path is not a directory: %s\n", absPath)
		return false
	}

	fmt.Println("\n🔍 Analyzing project...")
	startTime := time.Now()

	projectAnalyzer := analyzer.New(absPath)
	analysis, err := projectAnalyzer.Analyze()
	if err != nil {
		fmt.Printf("Error analyzing project: %v\n", err)
		return false
	}

	r.project = &store.Project{
		ID:         "local",
		Name:       filepath.Base(absPath),
		Path:       absPath,
		Analysis:   analysis,
		Analyzer:   projectAnalyzer,
		UploadedAt: time.Now(),
	}

	fmt.Printf("⏱️  Analysis completed in %.2f seconds\n", time.Since(startTime).Seconds())
	r.displayAnalysis(analysis)

	return true
}

func (r *REPL) displayAnalysis(analysis *analyzer.Analysis) {
	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Printf("📊 %s\n", r.project.Name)
	fmt.Println(strings.Repeat("=", 60))

	fmt.Printf("\n📈 Files analyzed: %d\n", analysis.FileCount)

	if len(analysis.TechStack) > 0 {
		fmt.Printf("🛠  Tech stack: %s\n", strings.Join(analysis.TechStack, ", "))
	}
	if len(analysis.EntryPoints) > 0 {
		fmt.Printf("🚪 Entry points: %s\n", strings.Join(analysis.EntryPoints, ", "))
	}

	if len(analysis.Summary.FilesByType) > 0 {
		fmt.Println("📁 File types:")
		types := make([]string, 0, len(analysis.Summary.FilesByType))
		for t := range analysis.Summary.FilesByType {
			types = append(types, t)
		}
		sort.Strings(types)
		for _, t := range types {
			fmt.Printf("   • %s: %d\n", t, analysis.Summary.FilesByType[t])
		}
	}

	fmt.Println(strings.Repeat("=", 60) + "\n")
}

func (r *REPL) processInput(input string) {
	switch input {
	case "":
		// Do nothing for empty input
	case "/end":
		fmt.Println("Goodbye! 👋")
		r.running = false
	default:
		r.chat(input)
	}
}

// chat runs one turn against the model, mirroring the HTTP chat flow: the
// user message joins the history before the call, even when the call fails.
func (r *REPL) chat(message string) {
	assembled := prompt.Assemble(r.project, message, r.history)
	r.history = append(r.history, store.Message{
		Role:      "user",
		Content:   message,
		Timestamp: time.Now(),
	})

	ctx, cancel := context.WithTimeout(context.Background(), r.config.RequestTimeout)
	defer cancel()

	result, err := r.llm.Generate(ctx, r.config.DefaultModel, assembled)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	r.history = append(r.history, store.Message{
		Role:      "assistant",
		Content:   result.Response,
		Timestamp: time.Now(),
		Model:     result.Model,
	})

	fmt.Println("\n" + result.Response + "\n")
}

// expandPath handles tilde expansion for home directories.
func expandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~") {
		usr, err := user.Current()
		if err != nil {
			return "", fmt.Errorf("failed to get current user: %v", err)
		}

		if path == "~" {
			return usr.HomeDir, nil
		}
		if strings.HasPrefix(path, "~/") {
			return filepath.Join(usr.HomeDir, path[2:]), nil
		}
	}

	return path, nil
}
