package notify

import (
	"sync"
	"time"
)

type memService struct {
	mu     sync.Mutex
	queues map[uint64]List
	size   int
}

// MemService returns a memory based Service implementation holding up to
// size entries per user, dropping the oldest on overflow.
func MemService(size int) Service {
	return &memService{
		queues: map[uint64]List{},
		size:   size,
	}
}

func (s *memService) Drain(userID uint64) (List, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ns, ok := s.queues[userID]
	if !ok {
		return List{}, nil
	}

	delete(s.queues, userID)

	return ns, nil
}

func (s *memService) Push(input *Notification) error {
	if input.UserID == 0 || input.Kind == "" {
		return wrapError(ErrInvalidNotification, "user and kind must be set")
	}

	n := *input

	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	q := append(s.queues[n.UserID], &n)

	if len(q) > s.size {
		q = q[len(q)-s.size:]
	}

	s.queues[n.UserID] = q

	return nil
}
