package directory

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchLookup(t *testing.T) {
	var gotPath string
	var gotBody map[string][]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"profiles":[
			{"profileId":"alice","displayName":"Alice A","email":"alice@example.com"},
			{"profileId":"bob","displayName":"Bob B"}
		]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	profiles, err := c.BatchLookup(context.Background(), "github", []string{"alice", "bob"})
	require.NoError(t, err)

	assert.Equal(t, "/providers/github/profiles:lookup", gotPath)
	assert.Equal(t, []string{"alice", "bob"}, gotBody["profileIds"])
	require.Len(t, profiles, 2)
	assert.Equal(t, "Alice A", profiles[0].DisplayName)
}

func TestBatchLookup_EmptyInputSkipsCall(t *testing.T) {
	c := New("http://directory.invalid", time.Second)
	profiles, err := c.BatchLookup(context.Background(), "github", nil)
	require.NoError(t, err)
	assert.Empty(t, profiles)
}

func TestBatchLookup_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	_, err := c.BatchLookup(context.Background(), "github", []string{"alice"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestLookup_FindsMatchingProfile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"profiles":[{"profileId":"op","displayName":"The Operator"}]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	profile, err := c.Lookup(context.Background(), "github", "op")
	require.NoError(t, err)
	assert.Equal(t, "The Operator", profile.DisplayName)
}

func TestLookup_MissingProfileErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"profiles":[]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	_, err := c.Lookup(context.Background(), "github", "ghost")
	assert.Error(t, err)
}
