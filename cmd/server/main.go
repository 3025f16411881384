package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	zerologlog "github.com/rs/zerolog/log"

	"github.com/kiliankoe/mafia/internal/ai"
	"github.com/kiliankoe/mafia/internal/ai/ollama"
	"github.com/kiliankoe/mafia/internal/ai/openai"
	"github.com/kiliankoe/mafia/internal/archive"
	"github.com/kiliankoe/mafia/internal/config"
	"github.com/kiliankoe/mafia/internal/game"
	"github.com/kiliankoe/mafia/internal/ws"
	staticserver "github.com/kiliankoe/mafia/static"
)

const version = "v1.0.0-dev"

func main() {
	var (
		showHelp    = flag.Bool("help", false, "Show help message")
		showVersion = flag.Bool("version", false, "Show version information")
		portFlag    = flag.String("port", "", "Port to listen on (overrides PORT env var)")
	)
	flag.BoolVar(showHelp, "h", false, "Show help message (shorthand)")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	flag.Parse()

	if *showHelp {
		fmt.Printf(`Mafia - Real-time social deduction game server

Usage: %s [options]

Options:
  -h, --help      Show this help message
  -v, --version   Show version information
  --port PORT     Port to listen on (default: 8080 or PORT env var)

Environment Variables:
  PORT                Port to listen on (default: 8080)
  NIGHT_SECONDS       Night voting window in seconds (default: 60)
  DAY_SECONDS         Day voting window in seconds (default: 60)
  DAWN_PAUSE_SECONDS  Pause between dawn report and day vote (default: 5)
  TIE_BREAK           Tie handling: arbitrary, random or none (default: arbitrary)
  ARCHIVE_DB          SQLite file for finished games (default: mafia.db)
  EXPORT_ENABLED      Append finished game transcripts to a file (default: false)
  EXPORT_FILE         Transcript file path (default: games.txt)
  NARRATOR_PROVIDER   Optional narrator: "openai" or "ollama" (default: off)
  NARRATOR_MODEL      Model for the narrator
  OPENAI_API_KEY      OpenAI API key (required for the openai narrator)
  OPENAI_BASE_URL     Custom OpenAI API base URL (optional)
  OLLAMA_HOST         Ollama host URL (default: http://localhost:11434)

Examples:
  %s                  Start server with default settings
  %s --port 3000      Start server on port 3000

Visit http://localhost:8080 after starting the server.
`, os.Args[0], os.Args[0], os.Args[0])
		return
	}

	if *showVersion {
		fmt.Printf("Mafia %s\n", version)
		return
	}

	// .env is optional, env vars win either way
	_ = godotenv.Load()

	// zerolog setup (human-friendly console)
	zerolog.TimeFieldFormat = time.RFC3339
	cw := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	zerologlog.Logger = zerologlog.Output(cw)

	cfg := config.FromEnv()

	port := *portFlag
	if port == "" {
		port = cfg.Port
	}

	// Gin setup with custom logger (skip /socket.io noise)
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/socket.io") {
			return
		}
		status := c.Writer.Status()
		dur := time.Since(start)
		zerologlog.Info().Str("path", path).Int("status", status).Dur("dur", dur).Msg("http")
	})

	// Healthcheck
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "time": time.Now().UTC()})
	})

	// Gateway and game manager depend on each other, wire in two steps.
	gateway := ws.New()
	defaults := game.SessionConfig{
		NightWindow: time.Duration(cfg.NightSeconds) * time.Second,
		DayWindow:   time.Duration(cfg.DaySeconds) * time.Second,
		DawnPause:   time.Duration(cfg.DawnPauseSeconds) * time.Second,
		TieBreak:    game.TieBreak(cfg.TieBreak),
	}
	mgr := game.NewManager(gateway, defaults)
	gateway.SetManager(mgr)

	// Optional narrator
	switch cfg.NarratorProvider {
	case "openai":
		mgr.SetNarrator(ai.NewNarrator(openai.New(cfg.OpenAIKey, cfg.OpenAIBaseURL), cfg.NarratorModel))
	case "ollama":
		mgr.SetNarrator(ai.NewNarrator(ollama.New(cfg.OllamaHost), cfg.NarratorModel))
	}

	// Results archive
	store, err := archive.Open(cfg.ArchiveDB)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	mgr.OnResult(func(res game.Result) {
		if err := store.Record(res); err != nil {
			zerologlog.Error().Err(err).Str("channel", res.ChannelID).Msg("failed to archive game")
		}
		if cfg.ExportEnabled {
			if err := game.ExportResult(res, cfg.ExportFile); err != nil {
				zerologlog.Error().Err(err).Str("channel", res.ChannelID).Msg("failed to export transcript")
			}
		}
	})

	io := gateway.Mount(r)
	defer io.Close()

	// Recently finished games
	r.GET("/api/results", func(c *gin.Context) {
		entries, err := store.Recent(20)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "archive_unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"results": entries})
	})

	// Serve frontend (if embedded build is present) for all other routes
	r.NoRoute(func(c *gin.Context) {
		staticserver.Handler().ServeHTTP(c.Writer, c.Request)
	})

	log.Printf("listening on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
