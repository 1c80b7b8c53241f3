package arsessionguest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_SignIn(t *testing.T) {
	name := gofakeit.Name()
	email := gofakeit.Email()

	tests := []struct {
		name      string
		handler   http.HandlerFunc
		wantToken string
		wantErr   error
	}{
		{
			name: "success",
			handler: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, SessionPath, r.URL.Path)
				var body signInRequest
				require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				assert.Equal(t, signInRequest{Name: name, Email: email}, body)
				w.Write([]byte(`{"token":"guest-token","player_id":"p1"}`))
			},
			wantToken: "guest-token",
		},
		{
			name: "rejected",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(`{"ok":false,"error":"name and email are required"}`))
			},
			wantErr: ErrSignInFailed,
		},
		{
			name: "server error without body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			wantErr: ErrSignInFailed,
		},
		{
			name: "empty token",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{}`))
			},
			wantErr: ErrSignInFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			token, err := NewClient(srv.URL+"/", srv.Client()).SignIn(context.Background(), name, email)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantToken, token)
		})
	}
}
