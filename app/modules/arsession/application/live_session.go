package arsessionservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	arsessiondomain "github.com/Black-And-White-Club/lensboard/app/modules/arsession/domain"
	"github.com/Black-And-White-Club/lensboard/app/observability/attr"
)

type release struct {
	name string
	fn   func() error
}

// LiveSession owns every resource acquired by Host.Open.
type LiveSession struct {
	stream arsessiondomain.MediaStream
	lens   arsessiondomain.Lens
	logger *slog.Logger

	mu       sync.Mutex
	releases []release
	playing  bool

	cancelPump context.CancelFunc
	pumpDone   chan struct{}

	once     sync.Once
	closed   chan struct{}
	closeErr error
}

func newLiveSession(logger *slog.Logger) *LiveSession {
	return &LiveSession{logger: logger, closed: make(chan struct{})}
}

// Stream returns the camera stream feeding the session.
func (s *LiveSession) Stream() arsessiondomain.MediaStream { return s.stream }

// Lens returns the applied lens.
func (s *LiveSession) Lens() arsessiondomain.Lens { return s.lens }

// Done is closed once the session has been released.
func (s *LiveSession) Done() <-chan struct{} { return s.closed }

func (s *LiveSession) onRelease(name string, fn func() error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.releases = append(s.releases, release{name: name, fn: fn})
}

func (s *LiveSession) setPlaying() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playing = true
}

func (s *LiveSession) isPlaying() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playing
}

// Close stops the message pump and releases resources in reverse order of
// acquisition. It is safe to call more than once.
func (s *LiveSession) Close() error {
	s.once.Do(func() {
		if s.cancelPump != nil {
			s.cancelPump()
			<-s.pumpDone
		}

		s.mu.Lock()
		releases := s.releases
		s.releases = nil
		s.mu.Unlock()

		var errs []error
		for i := len(releases) - 1; i >= 0; i-- {
			if err := releases[i].fn(); err != nil {
				errs = append(errs, fmt.Errorf("release %s: %w", releases[i].name, err))
			}
		}
		s.closeErr = errors.Join(errs...)
		close(s.closed)
	})
	return s.closeErr
}

// startPump relays lens messages until Close. The pump outlives the
// opening context but keeps its values.
func (s *LiveSession) startPump(ctx context.Context, ch arsessiondomain.MessageChannel, d Dispatcher, token string) {
	ctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancelPump = cancel
	s.pumpDone = make(chan struct{})

	go func() {
		defer close(s.pumpDone)
		msgs := ch.Messages()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-msgs:
				if !ok {
					return
				}
				ev.Token = token
				reply, relayed := d.Dispatch(ctx, ev)
				if !relayed {
					continue
				}
				if err := ch.Send(ctx, reply); err != nil {
					s.logger.WarnContext(ctx, "Failed to reply to lens",
						attr.ExtractCorrelationID(ctx),
						attr.Error(err),
					)
				}
			}
		}
	}()
}
