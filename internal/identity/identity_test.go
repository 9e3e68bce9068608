package identity_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"complainthub/backend/internal/identity"

	"github.com/stretchr/testify/assert"
)

func TestLookupResolvesDisplayInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/student-1", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"display_name":"Alice Chen","role":"STUDENT"}`))
	}))
	defer srv.Close()

	client := identity.NewClient(srv.URL)
	info, err := client.Lookup(context.Background(), "student-1")

	assert.NoError(t, err)
	assert.Equal(t, "Alice Chen", info.DisplayName)
	assert.Equal(t, "STUDENT", info.Role)
}

func TestLookupNonOKStatusIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := identity.NewClient(srv.URL)
	_, err := client.Lookup(context.Background(), "ghost")

	assert.Error(t, err)
}

func TestOrPlaceholder(t *testing.T) {
	resolved := identity.DisplayInfo{DisplayName: "Alice Chen"}
	assert.Equal(t, resolved, identity.OrPlaceholder(resolved, nil))

	failed := identity.OrPlaceholder(identity.DisplayInfo{}, errors.New("boom"))
	assert.Equal(t, identity.PlaceholderName, failed.DisplayName)

	empty := identity.OrPlaceholder(identity.DisplayInfo{}, nil)
	assert.Equal(t, identity.PlaceholderName, empty.DisplayName)
}
