package probe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProbePassesOn2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("X-Probe-ID"))
		w.Write([]byte("hello"))
	}))
	defer srv.Close()

	trial := New(Config{URL: srv.URL})
	outcome, err := trial(context.Background())
	require.NoError(t, err)

	assert.True(t, outcome.Passed)
	assert.Empty(t, outcome.Err)
	assert.Equal(t, 5, outcome.ResourceUsage.Total)

	dims := make(map[string]bool)
	for _, m := range outcome.Measurements {
		dims[m.Dimension] = true
	}
	assert.True(t, dims[DimE2E])
	assert.True(t, dims[DimService])
}

func TestProbeResolvedFailureOnNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	trial := New(Config{URL: srv.URL})
	outcome, err := trial(context.Background())

	// A reachable-but-failing target resolves as a failed outcome, not
	// an attempt error, so it is not retried.
	require.NoError(t, err)
	assert.False(t, outcome.Passed)
	assert.Contains(t, outcome.Err, "500")
}

func TestProbeTransportErrorIsAttemptError(t *testing.T) {
	trial := New(Config{URL: "http://127.0.0.1:1/unreachable"})
	_, err := trial(context.Background())
	require.Error(t, err)
}

func TestProbeHonorsContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	trial := New(Config{URL: srv.URL})
	_, err := trial(ctx)
	require.Error(t, err)
}

func TestProbeSendsConfiguredRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	trial := New(Config{
		URL:     srv.URL,
		Method:  http.MethodPost,
		Body:    `{"query":"ping"}`,
		Headers: map[string]string{"Content-Type": "application/json"},
	})
	outcome, err := trial(context.Background())
	require.NoError(t, err)
	assert.True(t, outcome.Passed)
}
