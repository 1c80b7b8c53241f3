package relayservice

import (
	"context"

	relaydomain "github.com/Black-And-White-Club/lensboard/app/modules/relay/domain"
)

// FakeSubmitter is a programmable fake for Submitter.
type FakeSubmitter struct {
	Calls []SubmitRequest

	SubmitFunc func(ctx context.Context, req SubmitRequest) (*SubmitResponse, error)
}

func (f *FakeSubmitter) Submit(ctx context.Context, req SubmitRequest) (*SubmitResponse, error) {
	f.Calls = append(f.Calls, req)
	if f.SubmitFunc != nil {
		return f.SubmitFunc(ctx, req)
	}
	score := req.Score
	return &SubmitResponse{
		StatusCode: 200,
		Body:       []byte(`{"ok":true}`),
		Result:     &relaydomain.SubmitResult{OK: true, Score: &score},
	}, nil
}

// FakeEvent is a programmable LensEvent.
type FakeEvent struct {
	Matching   bool
	Raw        any
	RawErr     error
	Token      string
	PanicOnGet bool
}

func (e FakeEvent) Source() string { return "fake" }

func (e FakeEvent) IsScoreSubmission(relaydomain.Matcher) bool { return e.Matching }

func (e FakeEvent) ScoreValue() (any, error) {
	if e.PanicOnGet {
		panic("lens exploded")
	}
	return e.Raw, e.RawErr
}

func (e FakeEvent) Credential() string { return e.Token }
