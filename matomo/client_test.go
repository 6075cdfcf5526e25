package matomo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientRejectsBadURL(t *testing.T) {
	_, err := NewClient("not a url", "", "")
	assert.Error(t, err)
	_, err = NewClient("", "", "")
	assert.Error(t, err)
}

func TestAPIRequestUsesPostWithToken(t *testing.T) {
	var gotMethod, gotContentType string
	var gotForm map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, r.ParseForm())
		gotForm = map[string]string{}
		for k := range r.PostForm {
			gotForm[k] = r.PostForm.Get(k)
		}
		w.Write([]byte(`{"value":"ok"}`))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, "secret-token", "")
	require.NoError(t, err)

	status, body, err := c.apiRequest(context.Background(), "API", "getMatomoVersion", map[string]string{"idSite": "1"})
	require.NoError(t, err)
	assert.Equal(t, 200, status)
	assert.JSONEq(t, `{"value":"ok"}`, string(body))

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "application/x-www-form-urlencoded", gotContentType)
	assert.Equal(t, "API", gotForm["module"])
	assert.Equal(t, "API.getMatomoVersion", gotForm["method"])
	assert.Equal(t, "JSON", gotForm["format"])
	assert.Equal(t, "secret-token", gotForm["token_auth"])
	assert.Equal(t, "1", gotForm["idSite"])
}

func TestAPIRequestUsesGetWithoutToken(t *testing.T) {
	var gotMethod, gotCookie string
	var gotQuery map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotCookie = r.Header.Get("Cookie")
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, "", "MATOMO_SESSID=abc123")
	require.NoError(t, err)

	_, _, err = c.apiRequest(context.Background(), "VisitsSummary", "get", nil)
	require.NoError(t, err)

	assert.Equal(t, http.MethodGet, gotMethod)
	assert.Equal(t, "MATOMO_SESSID=abc123", gotCookie)
	assert.Equal(t, "VisitsSummary.get", gotQuery["method"])
	assert.Equal(t, "JSON", gotQuery["format"])
	assert.Empty(t, gotQuery["token_auth"])
}

func TestFetchMethodList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"module":"VisitsSummary","action":"get"}]`))
	}))
	defer srv.Close()

	c, _ := NewClient(srv.URL, "", "")
	payload, err := c.FetchMethodList(context.Background(), "1")
	require.NoError(t, err)

	arr, ok := payload.([]any)
	require.True(t, ok)
	assert.Len(t, arr, 1)
}

func TestFetchMethodListUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"result":"error"}`))
	}))
	defer srv.Close()

	c, _ := NewClient(srv.URL, "", "")
	_, err := c.FetchMethodList(context.Background(), "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "authentication failed")
	assert.Contains(t, err.Error(), "--token")
}

func TestFetchVersion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"value":"5.1.0"}`))
	}))
	defer srv.Close()

	c, _ := NewClient(srv.URL, "", "")
	assert.Equal(t, "5.1.0", c.FetchVersion(context.Background()))
}

func TestFetchVersionFailureReturnsUnknown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c, _ := NewClient(srv.URL, "", "")
	assert.Equal(t, "unknown", c.FetchVersion(context.Background()))
}

func TestFetchExampleWrapsNonJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`plain text response`))
	}))
	defer srv.Close()

	c, _ := NewClient(srv.URL, "", "")
	value, err := c.FetchExample(context.Background(), "API", "getMatomoVersion", nil)
	require.NoError(t, err)
	assert.Equal(t, "plain text response", value)
}

func TestFetchExampleFailureYieldsNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`bad`))
	}))
	defer srv.Close()

	c, _ := NewClient(srv.URL, "", "")
	value, err := c.FetchExample(context.Background(), "Foo", "bar", nil)
	require.NoError(t, err)
	assert.Nil(t, value)
}

func TestCallMethodStringifiesParams(t *testing.T) {
	var gotForm map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotForm = map[string]string{}
		for k := range r.PostForm {
			gotForm[k] = r.PostForm.Get(k)
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c, _ := NewClient(srv.URL, "tok", "")
	_, err := c.CallMethod(context.Background(), "VisitsSummary", "get", map[string]any{
		"idSite":   float64(3),
		"expanded": true,
		"flat":     false,
		"segment":  "country==US",
		"ratio":    1.5,
		"skip":     nil,
	})
	require.NoError(t, err)

	assert.Equal(t, "3", gotForm["idSite"])
	assert.Equal(t, "1", gotForm["expanded"])
	assert.Equal(t, "0", gotForm["flat"])
	assert.Equal(t, "country==US", gotForm["segment"])
	assert.Equal(t, "1.5", gotForm["ratio"])
	_, present := gotForm["skip"]
	assert.False(t, present)
}

func TestCallMethodDetectsErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":"error","message":"You can't access this resource"}`))
	}))
	defer srv.Close()

	c, _ := NewClient(srv.URL, "", "")
	_, err := c.CallMethod(context.Background(), "VisitsSummary", "get", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "You can't access this resource")
}

func TestCallMethodHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`upstream broken`))
	}))
	defer srv.Close()

	c, _ := NewClient(srv.URL, "", "")
	_, err := c.CallMethod(context.Background(), "VisitsSummary", "get", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}
