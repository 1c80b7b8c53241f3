package relaydomain

// Outcome status codes reported back to the lens.
const (
	StatusFailure = 0
	StatusSuccess = 1
)

// SubmitResult is the decoded body of a submission endpoint response.
type SubmitResult struct {
	OK        bool   `json:"ok"`
	Score     *int   `json:"score,omitempty"`
	PlayerID  string `json:"player_id,omitempty"`
	Duplicate bool   `json:"duplicate,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Outcome is the result of handling one LensEvent.
type Outcome struct {
	Status int
	// PassThrough is set when the event was not a score submission and
	// must go to its original destination untouched.
	PassThrough bool
	// HTTPStatus and Body are the submission endpoint's raw response.
	// Both are zero when no call was made.
	HTTPStatus int
	Body       []byte
	Result     *SubmitResult
	Err        error
}

// Succeeded reports whether the score was accepted.
func (o Outcome) Succeeded() bool { return o.Status == StatusSuccess }

// Reply is the message-channel response shape.
type Reply struct {
	Status int    `json:"status"`
	Score  *int   `json:"score,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Reply converts the outcome into the message-channel response shape.
func (o Outcome) Reply() Reply {
	r := Reply{Status: o.Status}
	if o.Result != nil {
		r.Score = o.Result.Score
		if !o.Result.OK {
			r.Error = o.Result.Error
		}
	}
	if r.Error == "" && o.Err != nil {
		r.Error = o.Err.Error()
	}
	return r
}
