package arsessionservice

import (
	"context"
	"sync"

	arsessiondomain "github.com/Black-And-White-Club/lensboard/app/modules/arsession/domain"
	relaydomain "github.com/Black-And-White-Club/lensboard/app/modules/relay/domain"
)

// callLog records SDK calls in order across every fake.
type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) add(call string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, call)
}

func (l *callLog) Calls() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

// FakeSDK is a scripted camera SDK. Each ...Err field fails that step.
type FakeSDK struct {
	Log *callLog

	BootstrapErr     error
	CreateSessionErr error
	SetSourceErr     error
	PlayErr          error
	LoadLensErr      error
	ApplyLensErr     error

	// WithMessages makes sessions expose a message channel.
	WithMessages bool

	// LoadLensStarted, when set, is closed as LoadLens begins; LoadLens then
	// hangs until its context is done.
	LoadLensStarted chan struct{}

	Opts    arsessiondomain.BootstrapOptions
	Session *FakeSession
}

func (f *FakeSDK) Bootstrap(ctx context.Context, opts arsessiondomain.BootstrapOptions) (arsessiondomain.Kernel, error) {
	f.Log.add("Bootstrap")
	f.Opts = opts
	if f.BootstrapErr != nil {
		return nil, f.BootstrapErr
	}
	return &FakeKernel{sdk: f}, nil
}

type FakeKernel struct {
	sdk *FakeSDK
}

func (k *FakeKernel) CreateSession(ctx context.Context) (arsessiondomain.Session, error) {
	k.sdk.Log.add("CreateSession")
	if k.sdk.CreateSessionErr != nil {
		return nil, k.sdk.CreateSessionErr
	}
	s := &FakeSession{sdk: k.sdk}
	k.sdk.Session = s
	if k.sdk.WithMessages {
		s.messages = make(chan relaydomain.MessageEvent)
		return &FakeMessageSession{FakeSession: s}, nil
	}
	return s, nil
}

func (k *FakeKernel) LoadLens(ctx context.Context, lensID, groupID string) (arsessiondomain.Lens, error) {
	k.sdk.Log.add("LoadLens")
	if k.sdk.LoadLensStarted != nil {
		close(k.sdk.LoadLensStarted)
		<-ctx.Done()
		return arsessiondomain.Lens{}, ctx.Err()
	}
	if k.sdk.LoadLensErr != nil {
		return arsessiondomain.Lens{}, k.sdk.LoadLensErr
	}
	return arsessiondomain.Lens{ID: lensID, GroupID: groupID}, nil
}

func (k *FakeKernel) Destroy() error {
	k.sdk.Log.add("DestroySDK")
	return nil
}

type FakeSession struct {
	sdk      *FakeSDK
	messages chan relaydomain.MessageEvent

	mu      sync.Mutex
	replies []relaydomain.Reply
}

func (s *FakeSession) SetSource(ctx context.Context, stream arsessiondomain.MediaStream) error {
	s.sdk.Log.add("SetSource")
	return s.sdk.SetSourceErr
}

func (s *FakeSession) Play(ctx context.Context) error {
	s.sdk.Log.add("Play")
	return s.sdk.PlayErr
}

func (s *FakeSession) ApplyLens(ctx context.Context, lens arsessiondomain.Lens) error {
	s.sdk.Log.add("ApplyLens")
	return s.sdk.ApplyLensErr
}

func (s *FakeSession) Pause() error {
	s.sdk.Log.add("Pause")
	return nil
}

func (s *FakeSession) Destroy() error {
	s.sdk.Log.add("DestroySession")
	return nil
}

func (s *FakeSession) Replies() []relaydomain.Reply {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]relaydomain.Reply(nil), s.replies...)
}

// FakeMessageSession adds the lens message channel to FakeSession.
type FakeMessageSession struct {
	*FakeSession
}

func (s *FakeMessageSession) Messages() <-chan relaydomain.MessageEvent { return s.messages }

func (s *FakeMessageSession) Send(ctx context.Context, reply relaydomain.Reply) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replies = append(s.replies, reply)
	return nil
}

// FakeMedia hands out a stream of fake tracks, or fails with Err.
type FakeMedia struct {
	Log    *callLog
	Err    error
	Stream *FakeStream
}

func (m *FakeMedia) GetUserMedia(ctx context.Context, c arsessiondomain.Constraints) (arsessiondomain.MediaStream, error) {
	m.Log.add("GetUserMedia")
	if m.Err != nil {
		return nil, m.Err
	}
	m.Stream = &FakeStream{log: m.Log, tracks: []*FakeTrack{{kind: "video"}}}
	return m.Stream, nil
}

type FakeStream struct {
	log    *callLog
	tracks []*FakeTrack
}

func (s *FakeStream) Tracks() []arsessiondomain.Track {
	out := make([]arsessiondomain.Track, 0, len(s.tracks))
	for _, t := range s.tracks {
		t.log = s.log
		out = append(out, t)
	}
	return out
}

// LiveTracks counts tracks that have not been stopped.
func (s *FakeStream) LiveTracks() int {
	n := 0
	for _, t := range s.tracks {
		if !t.stopped {
			n++
		}
	}
	return n
}

type FakeTrack struct {
	kind    string
	stopped bool
	log     *callLog
}

func (t *FakeTrack) Kind() string { return t.kind }

func (t *FakeTrack) Stop() {
	t.stopped = true
	if t.log != nil {
		t.log.add("StopTrack")
	}
}

// FakeDispatcher records dispatched events and relays every score.
type FakeDispatcher struct {
	mu     sync.Mutex
	events []relaydomain.MessageEvent
}

func (d *FakeDispatcher) Dispatch(ctx context.Context, ev relaydomain.MessageEvent) (relaydomain.Reply, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, ev)
	if ev.Type != relaydomain.MessageTypeScore {
		return relaydomain.Reply{}, false
	}
	return relaydomain.Reply{Status: relaydomain.StatusSuccess}, true
}

func (d *FakeDispatcher) Events() []relaydomain.MessageEvent {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]relaydomain.MessageEvent(nil), d.events...)
}

// FakeSignIn returns Token or Err.
type FakeSignIn struct {
	Token string
	Err   error

	SignInFunc func(ctx context.Context, name, email string) (string, error)
}

func (f *FakeSignIn) SignIn(ctx context.Context, name, email string) (string, error) {
	if f.SignInFunc != nil {
		return f.SignInFunc(ctx, name, email)
	}
	return f.Token, f.Err
}
