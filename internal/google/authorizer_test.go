package google

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// followRedirect simulates the browser completing consent by calling the
// redirect URI embedded in the authorization URL.
func followRedirect(t *testing.T, code string, tamperState bool) func(string) error {
	return func(authURL string) error {
		u, err := url.Parse(authURL)
		if err != nil {
			return err
		}
		q := u.Query()
		state := q.Get("state")
		if tamperState {
			state = "forged"
		}
		callback := q.Get("redirect_uri") + "?" + url.Values{"code": {code}, "state": {state}}.Encode()
		go func() {
			resp, err := http.Get(callback)
			if err != nil {
				t.Logf("callback request failed: %v", err)
				return
			}
			_ = resp.Body.Close()
		}()
		return nil
	}
}

func TestLocalServerAuthorizer_Authorize(t *testing.T) {
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "the-code", r.PostForm.Get("code"))
		assert.Contains(t, r.PostForm.Get("redirect_uri"), "/callback")
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprint(w, `{"access_token":"at","refresh_token":"rt","token_type":"Bearer","expires_in":3600}`)
	}))
	defer tokenSrv.Close()

	var out bytes.Buffer
	authorizer := &LocalServerAuthorizer{
		Addr:        "127.0.0.1:0",
		Out:         &out,
		OpenBrowser: followRedirect(t, "the-code", false),
		Timeout:     10 * time.Second,
	}

	token, err := authorizer.Authorize(context.Background(), testConfig(tokenSrv.URL))
	require.NoError(t, err)
	assert.Equal(t, "at", token.AccessToken)
	assert.Equal(t, "rt", token.RefreshToken)
	assert.Contains(t, out.String(), "access_type=offline")
}

func TestLocalServerAuthorizer_StateMismatch(t *testing.T) {
	authorizer := &LocalServerAuthorizer{
		Addr:        "127.0.0.1:0",
		OpenBrowser: followRedirect(t, "the-code", true),
		Timeout:     10 * time.Second,
	}

	_, err := authorizer.Authorize(context.Background(), testConfig("http://127.0.0.1:1/token"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "state mismatch")
}

func TestLocalServerAuthorizer_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	authorizer := &LocalServerAuthorizer{Addr: "127.0.0.1:0"}
	_, err := authorizer.Authorize(ctx, testConfig("http://127.0.0.1:1/token"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLocalServerAuthorizer_Timeout(t *testing.T) {
	authorizer := &LocalServerAuthorizer{Addr: "127.0.0.1:0", Timeout: 50 * time.Millisecond}

	_, err := authorizer.Authorize(context.Background(), testConfig("http://127.0.0.1:1/token"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")
}
