package bot

import (
	"sync"

	"github.com/astroluna/astroluna/internal/domain/birth"
)

// mode is the per-chat dialog state.
type mode string

const (
	modeNone           mode = ""
	modeNatal          mode = "natal"
	modeSynastryFirst  mode = "syn_a"
	modeSynastrySecond mode = "syn_b"
)

// session is one chat's dialog state. first holds person A while the
// synastry flow waits for person B.
type session struct {
	mode  mode
	first *birth.Record
}

// sessions is the in-memory dialog state store, keyed by chat id.
type sessions struct {
	mu sync.Mutex
	m  map[int64]session
}

func newSessions() *sessions {
	return &sessions{m: make(map[int64]session)}
}

func (s *sessions) get(chatID int64) session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m[chatID]
}

// set stores the chat's state and reports whether this started a new
// session.
func (s *sessions) set(chatID int64, sess session) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, existed := s.m[chatID]
	s.m[chatID] = sess
	return !existed
}

// clear drops the chat's state and reports whether there was one.
func (s *sessions) clear(chatID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, existed := s.m[chatID]
	delete(s.m, chatID)
	return existed
}
