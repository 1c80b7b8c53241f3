package scoreservice

import (
	"context"
	"sync"

	scoredb "github.com/Black-And-White-Club/lensboard/app/modules/score/infrastructure/repositories"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Score Repo
// ------------------------

type FakeScoreRepo struct {
	trace []string

	InsertFunc               func(ctx context.Context, db bun.IDB, score *scoredb.Score) error
	GetBySubmissionTokenFunc func(ctx context.Context, db bun.IDB, token string) (*scoredb.Score, error)
}

func NewFakeScoreRepo() *FakeScoreRepo {
	return &FakeScoreRepo{trace: []string{}}
}

func (f *FakeScoreRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeScoreRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeScoreRepo) Insert(ctx context.Context, db bun.IDB, score *scoredb.Score) error {
	f.record("Insert")
	if f.InsertFunc != nil {
		return f.InsertFunc(ctx, db, score)
	}
	score.ID = 1
	return nil
}

func (f *FakeScoreRepo) GetBySubmissionToken(ctx context.Context, db bun.IDB, token string) (*scoredb.Score, error) {
	f.record("GetBySubmissionToken")
	if f.GetBySubmissionTokenFunc != nil {
		return f.GetBySubmissionTokenFunc(ctx, db, token)
	}
	return nil, scoredb.ErrNotFound
}

var _ scoredb.Repository = (*FakeScoreRepo)(nil)

// ------------------------
// Fake EventBus
// ------------------------

type FakeEventBus struct {
	mu        sync.Mutex
	published map[string][]*message.Message

	PublishFunc func(topic string, messages ...*message.Message) error
}

func (f *FakeEventBus) Publish(topic string, messages ...*message.Message) error {
	f.mu.Lock()
	if f.published == nil {
		f.published = map[string][]*message.Message{}
	}
	f.published[topic] = append(f.published[topic], messages...)
	f.mu.Unlock()
	if f.PublishFunc != nil {
		return f.PublishFunc(topic, messages...)
	}
	return nil
}

func (f *FakeEventBus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return make(chan *message.Message), nil
}

func (f *FakeEventBus) Close() error { return nil }

func (f *FakeEventBus) Published(topic string) []*message.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.published[topic]
}
