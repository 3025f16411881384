package ai

import (
	"context"
	"fmt"
	"strings"
)

// Provider is a chat-completion backend for the narrator.
type Provider interface {
	Generate(ctx context.Context, model, systemPrompt, prompt string) (string, error)
}

const narratorSystem = `You are the narrator of a Mafia party game set in a small town.
Retell the latest public events in 2-3 atmospheric sentences.
Only use what the report says. Never invent deaths or reveal hidden roles.`

// Narrator turns the public report history into flavor text. It only ever
// sees what every player already saw; hidden information stays out of the
// prompt by construction.
type Narrator struct {
	provider Provider
	model    string
}

func NewNarrator(p Provider, model string) *Narrator {
	return &Narrator{provider: p, model: model}
}

func (n *Narrator) Narrate(ctx context.Context, history []string) (string, error) {
	prompt := fmt.Sprintf("Public game log so far:\n%s\n\nNarrate the most recent events.",
		strings.Join(history, "\n"))
	return n.provider.Generate(ctx, n.model, narratorSystem, prompt)
}
