package google

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// appDirName is the directory under the user cache dir holding the token.
const appDirName = "gmail-extractor"

// LoadOAuthConfig reads the OAuth client secret downloaded from the Google
// Cloud console and returns a config requesting DefaultOAuthScopes.
func LoadOAuthConfig(clientSecretFile string) (*oauth2.Config, error) {
	secret, err := os.ReadFile(clientSecretFile)
	if err != nil {
		return nil, &AuthError{Err: fmt.Errorf("failed to read client secret %s: %w", clientSecretFile, err)}
	}

	conf, err := google.ConfigFromJSON(secret, DefaultOAuthScopes...)
	if err != nil {
		return nil, &AuthError{Err: fmt.Errorf("failed to parse client secret %s: %w", clientSecretFile, err)}
	}
	return conf, nil
}

// DefaultTokenFile returns the path used to persist the OAuth token when none
// is configured.
func DefaultTokenFile() string {
	return filepath.Join(userCacheDir(), appDirName, "token.json")
}

func userCacheDir() string {
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(homeDir(), "Library", "Caches")
	case "windows":
		for _, ev := range []string{"TEMP", "TMP"} {
			if v := os.Getenv(ev); v != "" {
				return v
			}
		}
		return os.TempDir()
	}
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return xdg
	}
	return filepath.Join(homeDir(), ".cache")
}

func homeDir() string {
	if runtime.GOOS == "windows" {
		return os.Getenv("HOMEDRIVE") + os.Getenv("HOMEPATH")
	}
	return os.Getenv("HOME")
}
