package relayintercept

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	relayservice "github.com/Black-And-White-Club/lensboard/app/modules/relay/application"
	relaydomain "github.com/Black-And-White-Club/lensboard/app/modules/relay/domain"
)

// Transport intercepts lens HTTP requests. Score submissions are relayed
// and answered with a synthesized response; everything else goes to Base.
type Transport struct {
	Relay relayservice.Service
	Base  http.RoundTripper
	// Token is the bearer credential forwarded with relayed scores.
	Token string
}

func (t *Transport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	out := t.Relay.Handle(req.Context(), NewRequestEvent(req, t.Token))
	if out.PassThrough {
		return t.base().RoundTrip(req)
	}
	if req.Body != nil {
		req.Body.Close()
	}
	return responseFor(req, out), nil
}

// responseFor builds the response handed back to the lens. The endpoint's
// own response is replayed when a call was made.
func responseFor(req *http.Request, out relaydomain.Outcome) *http.Response {
	status := out.HTTPStatus
	body := out.Body
	if status == 0 {
		status = http.StatusBadGateway
		if errors.Is(out.Err, relayservice.ErrInvalidScore) {
			status = http.StatusBadRequest
		}
		msg := "relay failed"
		if out.Err != nil {
			msg = out.Err.Error()
		}
		body, _ = json.Marshal(relaydomain.SubmitResult{OK: false, Error: msg})
	}

	header := make(http.Header)
	header.Set("Content-Type", "application/json")
	return &http.Response{
		Status:        http.StatusText(status),
		StatusCode:    status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
		Request:       req,
	}
}
