package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port string

	// Session defaults, applied to every channel at create time.
	NightSeconds     int
	DaySeconds       int
	DawnPauseSeconds int
	TieBreak         string

	ArchiveDB     string
	ExportEnabled bool
	ExportFile    string

	// Narrator settings. An empty provider disables narration entirely.
	NarratorProvider string
	NarratorModel    string
	OpenAIKey        string
	OpenAIBaseURL    string
	OllamaHost       string
}

func FromEnv() Config {
	c := Config{}
	c.Port = getenv("PORT", "8080")
	c.NightSeconds = getenvInt("NIGHT_SECONDS", 60)
	c.DaySeconds = getenvInt("DAY_SECONDS", 60)
	c.DawnPauseSeconds = getenvInt("DAWN_PAUSE_SECONDS", 5)
	c.TieBreak = getenv("TIE_BREAK", "arbitrary")
	c.ArchiveDB = getenv("ARCHIVE_DB", "mafia.db")
	c.ExportEnabled = getenv("EXPORT_ENABLED", "false") == "true"
	c.ExportFile = getenv("EXPORT_FILE", "games.txt")
	c.NarratorProvider = os.Getenv("NARRATOR_PROVIDER")
	c.NarratorModel = os.Getenv("NARRATOR_MODEL")
	c.OpenAIKey = os.Getenv("OPENAI_API_KEY")
	c.OpenAIBaseURL = os.Getenv("OPENAI_BASE_URL")
	c.OllamaHost = getenv("OLLAMA_HOST", "http://localhost:11434")
	return c
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}
