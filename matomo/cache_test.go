package matomo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCachePutGetInvalidate(t *testing.T) {
	c := NewCache(t.TempDir())

	assert.Nil(t, c.Get("missing"))

	require.NoError(t, c.Put("key", []byte("data")))
	assert.Equal(t, []byte("data"), c.Get("key"))

	c.Invalidate("key")
	assert.Nil(t, c.Get("key"))
}

func TestCacheKeysDoNotCollide(t *testing.T) {
	c := NewCache(t.TempDir())
	require.NoError(t, c.Put("a", []byte("1")))
	require.NoError(t, c.Put("b", []byte("2")))
	assert.Equal(t, []byte("1"), c.Get("a"))
	assert.Equal(t, []byte("2"), c.Get("b"))
}

func TestClientCachesIntrospectionFetches(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`[{"module":"API","action":"getVersion"}]`))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, "", "")
	require.NoError(t, err)
	c.WithCache(NewCache(t.TempDir()))

	_, err = c.FetchMethodList(context.Background(), "1")
	require.NoError(t, err)
	_, err = c.FetchMethodList(context.Background(), "1")
	require.NoError(t, err)

	assert.Equal(t, int32(1), calls.Load())

	// A different site ID is a different cache entry.
	_, err = c.FetchMethodList(context.Background(), "2")
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}
