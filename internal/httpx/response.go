package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/Black-And-White-Club/lensboard/app/observability/attr"
)

// MaxBodyBytes caps request bodies decoded by DecodeJSONBody.
const MaxBodyBytes = 64 << 10

// ErrEmptyBody is returned by DecodeJSONBody when the request has no body.
var ErrEmptyBody = errors.New("empty request body")

// JSONResponse writes v as a JSON body with the given status.
func JSONResponse(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode JSON response", attr.Error(err))
	}
}

// DecodeJSONBody decodes a bounded JSON body into v. Numbers decode as json.Number.
func DecodeJSONBody(w http.ResponseWriter, r *http.Request, v any) error {
	if r.Body == nil || r.Body == http.NoBody {
		return ErrEmptyBody
	}
	defer r.Body.Close()

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrEmptyBody
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}
