package app_test

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/phux/rtcapi/app"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_SendsHeaders(t *testing.T) {
	tests := []struct {
		name            string
		headers         app.Headers
		wantAuth        string
		wantContentType string
	}{
		{
			name:            "authorized call",
			headers:         app.AuthHeaders("abc123"),
			wantAuth:        "Bearer abc123",
			wantContentType: "application/json",
		},
		{
			name:            "bearer only",
			headers:         app.BearerOnly(app.InvalidToken),
			wantAuth:        "Bearer invalid-token",
			wantContentType: "",
		},
	}

	for i := range tests {
		tt := tests[i]
		t.Run(tt.name, func(t *testing.T) {
			var got http.Header
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = r.Header.Clone()
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte("nope"))
			}))
			defer server.Close()

			client := app.NewClient(app.Config{BaseURL: server.URL, VerifySSL: true}, zerolog.Nop())

			res, err := client.Get(context.Background(), app.PathStats, tt.headers)

			require.NoError(t, err)
			assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
			assert.False(t, res.OK())
			assert.Equal(t, "nope", string(res.Body))
			assert.Equal(t, tt.wantAuth, got.Get("Authorization"))
			assert.Equal(t, tt.wantContentType, got.Get("Content-Type"))
		})
	}
}

func TestClient_RefusesMalformedAuthorization(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	client := app.NewClient(app.Config{BaseURL: server.URL, VerifySSL: true}, zerolog.Nop())

	_, err := client.Get(context.Background(), app.PathStats, app.Headers{})

	assert.ErrorIs(t, err, app.ErrMalformedAuthorization)
	assert.False(t, called)
}

func TestClient_TLSVerification(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"valid":true}`))
	}))
	defer server.Close()

	t.Run("self-signed accepted when verification is off", func(t *testing.T) {
		client := app.NewClient(app.Config{BaseURL: server.URL, TLSEnabled: true, VerifySSL: false}, zerolog.Nop())

		transport, ok := client.HTTPClient().Transport.(*http.Transport)
		require.True(t, ok)
		require.NotNil(t, transport.TLSClientConfig)
		assert.True(t, transport.TLSClientConfig.InsecureSkipVerify)

		res, err := client.Get(context.Background(), app.PathValidate, app.AuthHeaders("abc123"))

		require.NoError(t, err)
		assert.True(t, res.OK())
		assert.JSONEq(t, `{"valid":true}`, string(res.Body))
	})

	t.Run("self-signed rejected when verification is on", func(t *testing.T) {
		client := app.NewClient(app.Config{BaseURL: server.URL, VerifySSL: true}, zerolog.Nop())

		_, err := client.Get(context.Background(), app.PathValidate, app.AuthHeaders("abc123"))

		assert.ErrorIs(t, err, app.ErrConnection)
	})

}

func TestClient_TLSToPlaintextServer(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	tlsURL := "https://" + server.Listener.Addr().String()
	client := app.NewClient(app.Config{BaseURL: tlsURL, TLSEnabled: true, VerifySSL: false}, zerolog.Nop())

	_, err := client.Get(context.Background(), app.PathStats, app.AuthHeaders("abc123"))

	assert.ErrorIs(t, err, app.ErrConnection)
}

func TestClient_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	closedURL := server.URL
	server.Close()

	client := app.NewClient(app.Config{BaseURL: closedURL, VerifySSL: true}, zerolog.Nop())

	_, err := client.Get(context.Background(), app.PathStats, app.AuthHeaders("abc123"))

	assert.ErrorIs(t, err, app.ErrConnection)
}

// hangUpServer accepts connections and closes them before answering.
func hangUpServer(t *testing.T) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			_ = conn.Close()
		}
	}()

	return "http://" + ln.Addr().String()
}

func TestClient_DroppedConnection(t *testing.T) {
	client := app.NewClient(app.Config{BaseURL: hangUpServer(t), VerifySSL: true}, zerolog.Nop())

	_, err := client.Get(context.Background(), app.PathStats, app.AuthHeaders("abc123"))

	assert.ErrorIs(t, err, app.ErrConnection)
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := app.NewClient(app.Config{
		BaseURL:   server.URL,
		VerifySSL: true,
		Timeout:   50 * time.Millisecond,
	}, zerolog.Nop())

	_, err := client.Get(context.Background(), app.PathStats, app.AuthHeaders("abc123"))

	assert.Error(t, err)
}
