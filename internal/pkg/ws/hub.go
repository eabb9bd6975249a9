package ws

import (
	"sync"

	"github.com/rs/zerolog"
)

// Session is a live-connection handle registered in the Hub. The transport
// that owns it drains Outbound and stops when Done is closed.
type Session struct {
	userID    int64
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

// UserID returns the user this session belongs to.
func (s *Session) UserID() int64 {
	return s.userID
}

// Outbound returns the channel of payloads pushed to this session.
func (s *Session) Outbound() <-chan []byte {
	return s.send
}

// Done is closed when the session has been deregistered.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

func (s *Session) close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
}

// Hub is the process-local connection registry: a concurrency-safe multi-map
// from user id to live sessions. A user may hold several sessions at once,
// one per device or tab. Registry state is never persisted; it starts empty
// on every process restart.
type Hub struct {
	mu       sync.RWMutex
	sessions map[int64]map[*Session]struct{}

	sendBuffer int
	logger     zerolog.Logger
}

// NewHub creates a Hub whose sessions buffer up to sendBuffer outbound
// payloads each.
func NewHub(sendBuffer int, logger zerolog.Logger) *Hub {
	if sendBuffer <= 0 {
		sendBuffer = 64
	}
	return &Hub{
		sessions:   make(map[int64]map[*Session]struct{}),
		sendBuffer: sendBuffer,
		logger:     logger,
	}
}

// Register creates a new session for the user and returns its handle.
func (h *Hub) Register(userID int64) *Session {
	s := &Session{
		userID: userID,
		send:   make(chan []byte, h.sendBuffer),
		done:   make(chan struct{}),
	}

	h.mu.Lock()
	if _, ok := h.sessions[userID]; !ok {
		h.sessions[userID] = make(map[*Session]struct{})
	}
	h.sessions[userID][s] = struct{}{}
	h.mu.Unlock()

	h.logger.Info().
		Int64("userID", userID).
		Msg("Session registered")

	return s
}

// Deregister removes exactly that session. Safe to call more than once or on
// a session already removed.
func (h *Hub) Deregister(s *Session) {
	if s == nil {
		return
	}

	h.mu.Lock()
	if set, ok := h.sessions[s.userID]; ok {
		if _, ok := set[s]; ok {
			delete(set, s)
			if len(set) == 0 {
				delete(h.sessions, s.userID)
			}
			h.logger.Info().
				Int64("userID", s.userID).
				Msg("Session deregistered")
		}
	}
	h.mu.Unlock()

	s.close()
}

// Push attempts delivery of payload to every currently-registered session of
// the user and returns the count of sessions that accepted it. A session
// whose buffer is full is skipped so one slow consumer never stalls the
// sender or the remaining recipients. Zero means the user is offline; that is
// not an error.
func (h *Hub) Push(userID int64, payload []byte) int {
	h.mu.RLock()
	set, ok := h.sessions[userID]
	if !ok {
		h.mu.RUnlock()
		return 0
	}
	targets := make([]*Session, 0, len(set))
	for s := range set {
		targets = append(targets, s)
	}
	h.mu.RUnlock()

	delivered := 0
	for _, s := range targets {
		select {
		case <-s.done:
			// Deregistered while the push was in flight
		case s.send <- payload:
			delivered++
		default:
			h.logger.Warn().
				Int64("userID", userID).
				Msg("Dropped delivery to slow session")
		}
	}
	return delivered
}

// SessionCount returns the number of live sessions for a user.
func (h *Hub) SessionCount(userID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[userID])
}
