package main

import (
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"codechat/cli"
	"codechat/config"
	"codechat/controllers"
	"codechat/internal/ollama"
	"codechat/internal/store"
	"codechat/routes"
)

func main() {
	mode := flag.String("mode", "server", "Mode to run: 'server' or 'cli'")
	configPath := flag.String("config", "config.yaml", "Path to config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	switch *mode {
	case "server":
		runServer(cfg)
	case "cli":
		runCLI(cfg)
	default:
		fmt.Printf("Unknown mode: %s\n", *mode)
		fmt.Println("Available modes: server, cli")
		os.Exit(1)
	}
}

func runServer(cfg *config.Config) {
	e := echo.New()

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.HTTPErrorHandler = newErrorHandler(cfg)

	projects := store.NewMemoryProjectRepository()
	conversations := store.NewMemoryConversationRepository()
	llm := ollama.NewClient(cfg.OllamaURL, cfg.DefaultModel, cfg.RequestTimeout)

	// Initialize controllers
	healthController := controllers.NewHealthController(cfg)
	projectController := controllers.NewProjectController(cfg, projects)
	chatController := controllers.NewChatController(cfg, projects, conversations, llm)

	// Setup routes
	routes.SetupRoutes(e, healthController, projectController, chatController)

	// Start server
	e.Logger.Fatal(e.Start(fmt.Sprintf(":%d", cfg.Port)))
}

func runCLI(cfg *config.Config) {
	repl := cli.NewREPL(cfg)
	repl.Start()
}

// newErrorHandler renders unmatched routes and uncaught errors as the JSON
// envelopes the API promises. Error details are withheld in production.
func newErrorHandler(cfg *config.Config) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			if httpErr.Code == http.StatusNotFound {
				c.JSON(http.StatusNotFound, map[string]interface{}{
					"error":  "Route not found",
					"path":   c.Request().URL.Path,
					"method": c.Request().Method,
				})
				return
			}
			c.JSON(httpErr.Code, map[string]interface{}{
				"error": fmt.Sprint(httpErr.Message),
			})
			return
		}

		body := map[string]interface{}{
			"error": "Internal server error",
		}
		if !cfg.IsProduction() {
			body["details"] = err.Error()
		}
		c.JSON(http.StatusInternalServerError, body)
	}
}
