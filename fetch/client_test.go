package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "parkings-aggregator/1.0", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte("payload"))
	}))
	defer srv.Close()

	c := NewClient(2*time.Second, nil)
	body, err := c.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), body)
}

func TestFetch_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(2*time.Second, nil)
	_, err := c.Fetch(context.Background(), srv.URL)
	require.Error(t, err)

	var ferr *Error
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, KindUnreachable, ferr.Kind)
	assert.Contains(t, ferr.Error(), "502")
}

func TestFetch_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewClient(2*time.Second, nil)
	_, err := c.Fetch(context.Background(), url)

	var ferr *Error
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, KindUnreachable, ferr.Kind)
}

func TestFetch_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(500 * time.Millisecond)
		_, _ = w.Write([]byte("late"))
	}))
	defer srv.Close()

	c := NewClient(50*time.Millisecond, nil)
	_, err := c.Fetch(context.Background(), srv.URL)

	var ferr *Error
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, KindTimeout, ferr.Kind)
}

func TestFetch_SizeLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		chunk := make([]byte, 1024*1024)
		for range 11 {
			_, _ = w.Write(chunk)
		}
	}))
	defer srv.Close()

	c := NewClient(5*time.Second, nil)
	_, err := c.Fetch(context.Background(), srv.URL)

	var ferr *Error
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, KindUnreachable, ferr.Kind)
	assert.Contains(t, ferr.Detail, "size limit")
}
