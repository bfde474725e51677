/*
Copyright 2025 The firecfg Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package registrycache

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Mirror is one registry served by the pull-through cache.
type Mirror struct {
	// Name is the registry host as image references spell it, e.g.
	// "docker.io".
	Name string
	// Upstream is the URL the cache proxies to for this registry.
	Upstream string
}

// wellKnownUpstreams lists registries whose API endpoint is not simply
// https://<name>, plus the ones we default to caching.
var wellKnownUpstreams = map[string]string{
	"docker.io": "https://registry-1.docker.io",
	"ghcr.io":   "https://ghcr.io",
	"quay.io":   "https://quay.io",
	"gcr.io":    "https://gcr.io",
}

// DefaultUpstream resolves the upstream URL for a registry name.
func DefaultUpstream(name string) string {
	if url, found := wellKnownUpstreams[name]; found {
		return url
	}

	return "https://" + name
}

// DefaultMirrors returns the registries cached when no mirror map is
// configured.
func DefaultMirrors() []Mirror {
	return []Mirror{
		{Name: "docker.io", Upstream: "https://registry-1.docker.io"},
		{Name: "ghcr.io", Upstream: "https://ghcr.io"},
		{Name: "quay.io", Upstream: "https://quay.io"},
		{Name: "gcr.io", Upstream: "https://gcr.io"},
	}
}

// ParseMirrors decodes a registry name → options JSON object into an
// ordered mirror list. Key order is preserved so generated files stay
// stable across runs with the same input.
//
// A value may be an object with an optional url field naming the
// upstream. Values of any other shape select the default upstream for
// their registry; in particular a bare string value is NOT adopted as
// the upstream. An empty input yields no mirrors and no error.
func ParseMirrors(raw string) ([]Mirror, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	dec := json.NewDecoder(strings.NewReader(raw))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to parse mirrors: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("mirrors must be a JSON object, got %v", tok)
	}

	var mirrors []Mirror
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("failed to parse mirrors: %w", err)
		}
		// Inside an object, Token alternates keys and values and keys
		// are always strings.
		name := tok.(string)

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("failed to parse mirror %q: %w", name, err)
		}

		mirrors = append(mirrors, Mirror{Name: name, Upstream: upstreamFor(name, value)})
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("failed to parse mirrors: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("unexpected data after mirrors object")
	}

	return mirrors, nil
}

// upstreamFor picks the upstream URL for one mirror entry.
func upstreamFor(name string, value json.RawMessage) string {
	var opts struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(value, &opts); err == nil && opts.URL != "" {
		return opts.URL
	}

	return DefaultUpstream(name)
}
