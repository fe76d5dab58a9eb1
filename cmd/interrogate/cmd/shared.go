package cmd

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	yaml "gopkg.in/yaml.v3"

	jsonschema "github.com/altair-labs/interrogator"
	"github.com/altair-labs/interrogator/internal/store"
)

// newInterrogator builds an Interrogator wired with a filesystem resolver
// (for file:// and bare relative-path URIs) and an HTTP resolver, matching
// the teacher's Loaders map (compiler.go's setupLoaders) generalized to the
// resolver-chain shape (§4.3).
func newInterrogator() *jsonschema.Interrogator {
	return jsonschema.New().
		WithResolver(fileResolver).
		WithResolver(httpResolver)
}

func fileResolver(_ context.Context, rawURI string) ([]byte, bool, error) {
	u, err := url.Parse(rawURI)
	if err != nil {
		return nil, false, nil
	}
	var path string
	switch {
	case u.Scheme == "file":
		path = u.Path
	case u.Scheme == "" && u.Host == "":
		path = rawURI
	default:
		return nil, false, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, true, nil
}

var httpClient = &http.Client{Timeout: 30 * time.Second}

func httpResolver(ctx context.Context, rawURI string) ([]byte, bool, error) {
	if !strings.HasPrefix(rawURI, "http://") && !strings.HasPrefix(rawURI, "https://") {
		return nil, false, nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURI, nil)
	if err != nil {
		return nil, false, err
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, false, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, false, fmt.Errorf("fetching %s: status %s", rawURI, resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

var _ store.Resolver = fileResolver
var _ store.Resolver = httpResolver

// loadYAMLConfig reads an optional config file (--config) that may set
// assert-format/metaschema-validation defaults, using gopkg.in/yaml.v3 per
// §11's non-core cmd/interrogate config-file loading.
func loadYAMLConfig(path string) (cliConfig, error) {
	var cfg cliConfig
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

type cliConfig struct {
	AssertFormat       bool `yaml:"assertFormat"`
	MetaschemaValidate bool `yaml:"metaschemaValidate"`
}
