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

// Package config reads, edits and serializes product configuration files.
// Base configs shipped with the host image are edited as yaml.Node trees
// so operator-written comments and key order survive the round trip, with
// multi-line values serialized as literal block scalars.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Document is a parsed configuration file. Edits go through Section and
// Pool accessors, which only ever touch the keys they are asked about.
type Document struct {
	root    *yaml.Node
	mapping *yaml.Node
}

// Load reads and parses the configuration file at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return doc, nil
}

// Parse parses a configuration document. The top level must be a mapping.
func Parse(data []byte) (*Document, error) {
	root := &yaml.Node{}
	if err := yaml.Unmarshal(data, root); err != nil {
		return nil, err
	}

	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, errors.New("document is empty")
	}

	mapping := root.Content[0]
	if mapping.Kind != yaml.MappingNode {
		return nil, errors.New("top level is not a mapping")
	}

	return &Document{root: root, mapping: mapping}, nil
}

// Section returns the named top-level section. A missing key returns
// (nil, nil) so callers can skip injection for products whose base config
// has no such section. A key holding no value is promoted to an empty
// mapping so entries can be added to it.
func (d *Document) Section(name string) (*Section, error) {
	value := mappingValue(d.mapping, name)
	if value == nil {
		return nil, nil
	}

	node, err := asMapping(value)
	if err != nil {
		return nil, fmt.Errorf("section %q: %w", name, err)
	}
	return &Section{node: node}, nil
}

// Pools returns the entries of the top-level pools sequence. A missing or
// empty pools key yields no pools.
func (d *Document) Pools() ([]*Pool, error) {
	value := mappingValue(d.mapping, "pools")
	if value == nil || isNull(value) {
		return nil, nil
	}
	if value.Kind != yaml.SequenceNode {
		return nil, errors.New("pools is not a sequence")
	}

	pools := make([]*Pool, 0, len(value.Content))
	for i, item := range value.Content {
		if item.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("pool %d is not a mapping", i)
		}
		pools = append(pools, &Pool{node: item})
	}
	return pools, nil
}

// Section is a mapping inside a Document.
type Section struct {
	node *yaml.Node
}

// Has reports whether the section contains key.
func (s *Section) Has(key string) bool {
	return mappingValue(s.node, key) != nil
}

// SetString sets key to a string value, replacing any existing value and
// keeping the key's position in the mapping.
func (s *Section) SetString(key, value string) {
	setMappingValue(s.node, key, &yaml.Node{
		Kind:  yaml.ScalarNode,
		Tag:   "!!str",
		Value: value,
	})
}

// SetInt sets key to an integer value.
func (s *Section) SetInt(key string, value int) {
	setMappingValue(s.node, key, &yaml.Node{
		Kind:  yaml.ScalarNode,
		Tag:   "!!int",
		Value: strconv.Itoa(value),
	})
}

// Pool is one entry of the pools sequence.
type Pool struct {
	node *yaml.Node
}

// Name returns the pool's name, or the empty string when unset.
func (p *Pool) Name() string {
	value := mappingValue(p.node, "name")
	if value == nil || value.Kind != yaml.ScalarNode {
		return ""
	}
	return value.Value
}

// Metadata returns the pool's firecracker.metadata mapping, creating the
// intermediate mappings when they do not exist yet.
func (p *Pool) Metadata() (*Section, error) {
	firecracker, err := ensureMapping(p.node, "firecracker")
	if err != nil {
		return nil, err
	}

	metadata, err := ensureMapping(firecracker, "metadata")
	if err != nil {
		return nil, fmt.Errorf("firecracker: %w", err)
	}
	return &Section{node: metadata}, nil
}

func mappingValue(mapping *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return mapping.Content[i+1]
		}
	}
	return nil
}

func setMappingValue(mapping *yaml.Node, key string, value *yaml.Node) {
	if existing := mappingValue(mapping, key); existing != nil {
		*existing = *value
		return
	}

	mapping.Content = append(mapping.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		value,
	)
}

func ensureMapping(parent *yaml.Node, key string) (*yaml.Node, error) {
	value := mappingValue(parent, key)
	if value == nil {
		value = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		parent.Content = append(parent.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
			value,
		)
		return value, nil
	}

	if err := promoteNull(value); err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return value, nil
}

func asMapping(value *yaml.Node) (*yaml.Node, error) {
	if err := promoteNull(value); err != nil {
		return nil, err
	}
	return value, nil
}

// promoteNull turns an empty value (a bare `key:` line) into an empty
// mapping in place, preserving any attached comments.
func promoteNull(value *yaml.Node) error {
	if value.Kind == yaml.MappingNode {
		return nil
	}
	if isNull(value) {
		value.Kind = yaml.MappingNode
		value.Tag = "!!map"
		value.Value = ""
		value.Content = nil
		return nil
	}
	return errors.New("not a mapping")
}

func isNull(value *yaml.Node) bool {
	return value.Kind == yaml.ScalarNode && value.Tag == "!!null"
}
