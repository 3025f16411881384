package game

import (
	"strings"
	"sync"
	"time"

	"github.com/kiliankoe/mafia/internal/chat"
)

type sentMessage struct {
	Text    string
	Choices []chat.Choice
}

// fakeTransport records everything a session sends. Sends arrive from the
// phase-loop goroutine and DM fan-out workers, so access is locked.
type fakeTransport struct {
	mu      sync.Mutex
	channel []sentMessage
	dms     map[string][]sentMessage
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{dms: make(map[string][]sentMessage)}
}

func (f *fakeTransport) SendChannelMessage(channelID, text string, choices []chat.Choice) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.channel = append(f.channel, sentMessage{Text: text, Choices: choices})
}

func (f *fakeTransport) SendDirectMessage(playerID, text string, choices []chat.Choice) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dms[playerID] = append(f.dms[playerID], sentMessage{Text: text, Choices: choices})
}

// waitForDMChoices polls for a direct message to playerID whose text contains
// the given fragment and that carries choices. Returns nil on timeout.
func (f *fakeTransport) waitForDMChoices(playerID, contains string, timeout time.Duration) []chat.Choice {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		f.mu.Lock()
		for _, m := range f.dms[playerID] {
			if strings.Contains(m.Text, contains) && len(m.Choices) > 0 {
				choices := m.Choices
				f.mu.Unlock()
				return choices
			}
		}
		f.mu.Unlock()
		time.Sleep(5 * time.Millisecond)
	}
	return nil
}

func (f *fakeTransport) waitForChannelChoices(contains string, timeout time.Duration) []chat.Choice {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		f.mu.Lock()
		for _, m := range f.channel {
			if strings.Contains(m.Text, contains) && len(m.Choices) > 0 {
				choices := m.Choices
				f.mu.Unlock()
				return choices
			}
		}
		f.mu.Unlock()
		time.Sleep(5 * time.Millisecond)
	}
	return nil
}

func (f *fakeTransport) waitForChannelText(contains string, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if f.channelContains(contains) {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return false
}

func (f *fakeTransport) channelContains(contains string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.channel {
		if strings.Contains(m.Text, contains) {
			return true
		}
	}
	return false
}

func (f *fakeTransport) dmContains(playerID, contains string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.dms[playerID] {
		if strings.Contains(m.Text, contains) {
			return true
		}
	}
	return false
}

func choiceFor(choices []chat.Choice, targetID string) (chat.Choice, bool) {
	for _, c := range choices {
		if c.TargetID == targetID {
			return c, true
		}
	}
	return chat.Choice{}, false
}
