package google

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/exec"
	"runtime"
	"time"

	"golang.org/x/oauth2"
)

const (
	// DefaultAuthTimeout bounds the wait for the browser callback.
	DefaultAuthTimeout = 5 * time.Minute

	callbackPath = "/callback"
)

// LocalServerAuthorizer runs the installed-app flow: it listens on a local
// address, sends the user to Google's consent page and waits for the
// redirect carrying the authorization code.
type LocalServerAuthorizer struct {
	// Addr is the listen address for the callback, e.g. "localhost:9876".
	// Port 0 picks a free port.
	Addr string

	// Out receives the authorization URL.
	Out io.Writer

	// OpenBrowser opens the URL. When nil the URL is only printed.
	OpenBrowser func(url string) error

	// Timeout defaults to DefaultAuthTimeout.
	Timeout time.Duration
}

// Authorize implements Authorizer.
func (a *LocalServerAuthorizer) Authorize(ctx context.Context, conf *oauth2.Config) (*oauth2.Token, error) {
	ln, err := net.Listen("tcp", a.Addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen for OAuth callback on %s: %w", a.Addr, err)
	}

	flowConf := *conf
	flowConf.RedirectURL = "http://" + ln.Addr().String() + callbackPath

	state, err := randomState()
	if err != nil {
		_ = ln.Close()
		return nil, err
	}

	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc(callbackPath, func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		if query.Get("state") != state {
			http.Error(w, "invalid state parameter", http.StatusBadRequest)
			sendOnce(errCh, errors.New("state mismatch in OAuth callback"))
			return
		}
		if e := query.Get("error"); e != "" {
			http.Error(w, "authorization denied", http.StatusBadRequest)
			sendOnce(errCh, fmt.Errorf("authorization denied: %s", e))
			return
		}
		code := query.Get("code")
		if code == "" {
			http.Error(w, "missing code parameter", http.StatusBadRequest)
			sendOnce(errCh, errors.New("no authorization code in OAuth callback"))
			return
		}
		_, _ = io.WriteString(w, "Authorization complete. You can close this window.\n")
		sendOnce(codeCh, code)
	})

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			sendOnce(errCh, err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	authURL := flowConf.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	if a.Out != nil {
		fmt.Fprintf(a.Out, "Open the following URL in your browser to authorize Gmail access:\n\n%s\n\n", authURL)
	}
	if a.OpenBrowser != nil {
		if err := a.OpenBrowser(authURL); err != nil && a.Out != nil {
			fmt.Fprintf(a.Out, "Could not open a browser automatically: %v\n", err)
		}
	}

	timeout := a.Timeout
	if timeout == 0 {
		timeout = DefaultAuthTimeout
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	var code string
	select {
	case code = <-codeCh:
	case err := <-errCh:
		return nil, err
	case <-timer.C:
		return nil, fmt.Errorf("timed out after %s waiting for authorization", timeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	token, err := flowConf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}
	return token, nil
}

// OpenBrowser opens url with the platform's default handler.
func OpenBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr
	return cmd.Start()
}

func randomState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func sendOnce[T any](ch chan T, v T) {
	select {
	case ch <- v:
	default:
	}
}
