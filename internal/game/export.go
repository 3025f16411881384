package game

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ExportResult appends a finished game's transcript to a text file: header,
// player list, the public report history and the winner. Games from any
// channel share one file, separated by rulers.
func ExportResult(res Result, filename string) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Mafia game - channel %s\n", res.ChannelID))
	sb.WriteString(fmt.Sprintf("Started: %s\n", res.StartedAt.Format("2006-01-02 15:04:05")))
	sb.WriteString(strings.Repeat("=", 50) + "\n")

	sb.WriteString("Players: " + strings.Join(res.Players, ", ") + "\n\n")

	for _, line := range res.History {
		sb.WriteString(line + "\n")
	}

	sb.WriteString(fmt.Sprintf("\nWinner: %s (%d rounds)\n", res.Winner, res.Rounds))
	ended := res.EndedAt
	if ended.IsZero() {
		ended = time.Now().UTC()
	}
	sb.WriteString(fmt.Sprintf("Ended: %s\n", ended.Format("2006-01-02 15:04:05")))
	sb.WriteString(strings.Repeat("=", 50) + "\n\n")

	if _, err := file.WriteString(sb.String()); err != nil {
		return fmt.Errorf("failed to write to file: %w", err)
	}
	return nil
}
