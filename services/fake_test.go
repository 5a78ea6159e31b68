package services

import (
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/Dosada05/tournament-brackets/metrics"
	"github.com/Dosada05/tournament-brackets/realtime"
)

type recordedMessage struct {
	room    string
	message realtime.Message
}

type fakeBroadcaster struct {
	mu       sync.Mutex
	messages []recordedMessage
	// onBroadcast runs after a message is recorded, outside the lock.
	onBroadcast func(realtime.Message)
}

func (f *fakeBroadcaster) BroadcastToRoom(roomID string, message realtime.Message) {
	f.mu.Lock()
	f.messages = append(f.messages, recordedMessage{room: roomID, message: message})
	hook := f.onBroadcast
	f.mu.Unlock()
	if hook != nil {
		hook(message)
	}
}

func (f *fakeBroadcaster) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.messages))
	for i, m := range f.messages {
		out[i] = m.message.Type
	}
	return out
}

type fixture struct {
	registry    *TournamentRegistry
	tournaments TournamentService
	matches     MatchService
	broadcaster *fakeBroadcaster
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	registry := NewTournamentRegistry()
	broadcaster := &fakeBroadcaster{}
	return &fixture{
		registry:    registry,
		tournaments: NewTournamentService(registry, Limits{MaxEntrants: 64, MaxFieldSize: 256}, metrics.NoOpMetrics{}, broadcaster, logger),
		matches:     NewMatchService(registry, metrics.NoOpMetrics{}, broadcaster, logger),
		broadcaster: broadcaster,
	}
}
