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

package config

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// MarshalLiteral serializes v as YAML with two-space indentation, forcing
// every multi-line string into a literal block scalar. Certificates,
// private keys and user-data blobs stay readable in the output instead of
// collapsing into quoted strings full of escapes.
//
// The encoder falls back to a quoted scalar when the content cannot be
// represented literally, for example lines holding nothing but spaces.
// Either way the value round-trips unchanged.
func MarshalLiteral(v interface{}) ([]byte, error) {
	var node *yaml.Node
	switch t := v.(type) {
	case *Document:
		node = t.root
	case *yaml.Node:
		node = t
	default:
		node = &yaml.Node{}
		if err := node.Encode(v); err != nil {
			return nil, fmt.Errorf("failed to encode value: %w", err)
		}
	}

	styleMultilineStrings(node)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		enc.Close()
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}
	return buf.Bytes(), nil
}

func styleMultilineStrings(node *yaml.Node) {
	if node.Kind == yaml.ScalarNode && node.Tag == "!!str" && strings.Contains(node.Value, "\n") {
		node.Style = yaml.LiteralStyle
	}
	for _, child := range node.Content {
		styleMultilineStrings(child)
	}
}
