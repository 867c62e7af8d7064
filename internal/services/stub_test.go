package services

import (
	"context"
	"sync"

	"github.com/currilab/curricula-backend/internal/clients/yandexgpt"
	"github.com/currilab/curricula-backend/internal/pkg/logger"
)

// stubLLM replays canned replies in call order. An empty queue repeats
// the last reply.
type stubLLM struct {
	mu      sync.Mutex
	replies []string
	err     error
	prompts []string
}

func (s *stubLLM) Complete(_ context.Context, messages []yandexgpt.Message, _ yandexgpt.Options) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(messages) > 0 {
		s.prompts = append(s.prompts, messages[len(messages)-1].Text)
	}
	if s.err != nil {
		return "", s.err
	}
	if len(s.replies) == 0 {
		return "", nil
	}
	reply := s.replies[0]
	if len(s.replies) > 1 {
		s.replies = s.replies[1:]
	}
	return reply, nil
}

func testLogger() *logger.Logger {
	log, err := logger.New("development")
	if err != nil {
		panic(err)
	}
	return log
}
