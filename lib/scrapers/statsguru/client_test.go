package statsguru

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testClient(baseURL string) *Client {
	client := NewClient(ClientOptions{
		BaseURL: baseURL,
		Delay:   time.Millisecond,
		Timeout: 5 * time.Second,
		Retries: 2,
	})
	client.backoff = time.Millisecond
	return client
}

func TestFetchOK(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>ok</body></html>"))
	}))
	defer server.Close()

	client := testClient(server.URL)
	body, err := client.Fetch(context.Background(), server.URL+"/page")
	require.NoError(t, err)
	require.Contains(t, body, "ok")
}

func TestFetchBlockedOn403(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := testClient(server.URL)
	_, err := client.Fetch(context.Background(), server.URL+"/page")

	var blocked *BlockedError
	require.True(t, errors.As(err, &blocked))
	require.Equal(t, http.StatusForbidden, blocked.Status)
	// blocking is not retried, retrying against active bot defense is useless
	require.Equal(t, 1, requests)
}

func TestFetchBlockedOnChallengeBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><head><title>Just a moment...</title></head></html>"))
	}))
	defer server.Close()

	client := testClient(server.URL)
	_, err := client.Fetch(context.Background(), server.URL+"/page")

	var blocked *BlockedError
	require.True(t, errors.As(err, &blocked))
}

func TestFetchRetriesTransientFailures(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte("finally"))
	}))
	defer server.Close()

	client := testClient(server.URL)
	body, err := client.Fetch(context.Background(), server.URL+"/page")
	require.NoError(t, err)
	require.Equal(t, "finally", body)
	require.Equal(t, 3, requests)
}

func TestFetchGivesUpAfterBoundedRetries(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := testClient(server.URL)
	_, err := client.Fetch(context.Background(), server.URL+"/page")

	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	require.Equal(t, 3, fetchErr.Attempts)
	require.Equal(t, 3, requests)
}

func TestFetchNotFound(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	client := testClient(server.URL)
	_, err := client.Fetch(context.Background(), server.URL+"/ci/engine/player/0.html")

	var notFound *NotFoundError
	require.True(t, errors.As(err, &notFound))
}

func TestPlayerURL(t *testing.T) {
	client := NewClient(ClientOptions{})
	url := client.PlayerURL(625371, QuerySpec{Type: "batting", View: "innings", Class: ClassODI})
	require.Equal(
		t,
		"https://stats.espncricinfo.com/ci/engine/player/625371.html?class=2;template=results;type=batting;view=innings",
		url,
	)
}
