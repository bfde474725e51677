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

// Package render generates a complete fireactions configuration from
// environment variables. Cloud images have no operator-maintained base
// config to inject into, so unlike inject this builds the whole file,
// pools included, from scratch.
package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"

	"go.uber.org/zap"

	"github.com/thpham/firecfg/pkg/apis/product"
	"github.com/thpham/firecfg/pkg/config"
	"github.com/thpham/firecfg/pkg/registrycache"
	"github.com/thpham/firecfg/pkg/userdata/fireactions"
	"github.com/thpham/firecfg/pkg/userdata/plugin"
)

// Environment carries the render inputs. AppID, PrivateKey and Pools are
// required; everything else has a default.
type Environment struct {
	// AppID and PrivateKey are the GitHub App credentials, from
	// GITHUB_APP_ID and GITHUB_PRIVATE_KEY.
	AppID      string
	PrivateKey string

	// Pools is the POOLS JSON array of pool specs.
	Pools string

	// BindAddress and LogLevel come from BIND_ADDRESS and LOG_LEVEL.
	BindAddress string
	LogLevel    string

	// Registry cache settings, from REGISTRY_CACHE_ENABLED,
	// REGISTRY_CACHE_GATEWAY, ZOT_PORT and ZOT_MIRRORS.
	CacheEnabled bool
	Gateway      string
	CachePort    int
	Mirrors      string
}

// FromOS collects the render environment from process environment
// variables.
func FromOS(log *zap.SugaredLogger) Environment {
	port := registrycache.DefaultPort
	if raw := os.Getenv("ZOT_PORT"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			log.Warnf("Invalid ZOT_PORT %q, using %d", raw, registrycache.DefaultPort)
		} else {
			port = parsed
		}
	}

	return Environment{
		AppID:      os.Getenv("GITHUB_APP_ID"),
		PrivateKey: os.Getenv("GITHUB_PRIVATE_KEY"),
		Pools:      os.Getenv("POOLS"),

		BindAddress: os.Getenv("BIND_ADDRESS"),
		LogLevel:    os.Getenv("LOG_LEVEL"),

		CacheEnabled: os.Getenv("REGISTRY_CACHE_ENABLED") == "true",
		Gateway:      os.Getenv("REGISTRY_CACHE_GATEWAY"),
		CachePort:    port,
		Mirrors:      os.Getenv("ZOT_MIRRORS"),
	}
}

// Options configures a single render run.
type Options struct {
	// OutputPath overrides the fireactions runtime config path.
	OutputPath string

	// Mirrors overrides the ZOT_MIRRORS environment variable, from
	// repeated --mirror flags.
	Mirrors []registrycache.Mirror
}

// Run validates the environment, builds the full configuration and
// atomically writes it.
func Run(log *zap.SugaredLogger, env Environment, opts Options) error {
	if env.AppID == "" {
		return errors.New("GITHUB_APP_ID not set")
	}
	if env.PrivateKey == "" {
		return errors.New("GITHUB_PRIVATE_KEY not set")
	}
	if env.Pools == "" {
		return errors.New("POOLS not set")
	}

	appID, err := strconv.ParseInt(env.AppID, 10, 64)
	if err != nil {
		return fmt.Errorf("GITHUB_APP_ID is not an integer: %w", err)
	}

	var specs []PoolSpec
	if err := json.Unmarshal([]byte(env.Pools), &specs); err != nil {
		return fmt.Errorf("invalid POOLS JSON: %w", err)
	}

	pools := make([]config.PoolConfig, 0, len(specs))
	for _, spec := range specs {
		pools = append(pools, transformPool(spec))
	}

	if err := injectCacheMetadata(log, pools, env, opts.Mirrors); err != nil {
		return err
	}

	cfg := config.Config{
		BindAddress: stringOr(env.BindAddress, "0.0.0.0:8080"),
		LogLevel:    stringOr(env.LogLevel, "info"),
		Debug:       false,
		Metrics:     config.MetricsConfig{Enabled: true, Address: "0.0.0.0:8081"},
		GitHub:      config.GitHubConfig{AppID: appID, AppPrivateKey: env.PrivateKey},
		Pools:       pools,
	}

	out, err := config.MarshalLiteral(cfg)
	if err != nil {
		return err
	}

	outputPath := opts.OutputPath
	if outputPath == "" {
		prod, err := product.Get(product.Fireactions)
		if err != nil {
			return err
		}
		outputPath = prod.RuntimeConfigPath
	}

	if err := config.WriteFileAtomic(outputPath, out, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	log.Infof("Configuration written to %s", outputPath)
	return nil
}

// injectCacheMetadata attaches registry-cache user-data and instance IDs
// to every pool when the cache is enabled and mirrors are known.
func injectCacheMetadata(log *zap.SugaredLogger, pools []config.PoolConfig, env Environment, override []registrycache.Mirror) error {
	if !env.CacheEnabled || env.Gateway == "" {
		return nil
	}

	mirrors := override
	if len(mirrors) == 0 {
		parsed, err := registrycache.ParseMirrors(env.Mirrors)
		if err != nil {
			log.Warnf("Invalid ZOT_MIRRORS JSON, using default mirrors: %v", err)
			parsed = registrycache.DefaultMirrors()
		}
		mirrors = parsed
	}
	if len(mirrors) == 0 {
		return nil
	}

	prod, err := product.Get(product.Fireactions)
	if err != nil {
		return err
	}

	userdata, err := fireactions.Provider{}.UserData(plugin.UserDataRequest{
		CacheEnabled: true,
		Gateway:      env.Gateway,
		CachePort:    env.CachePort,
		Mirrors:      mirrors,
		DNSGateway:   env.Gateway,
	})
	if err != nil {
		return fmt.Errorf("failed to generate user-data: %w", err)
	}

	for i := range pools {
		meta := pools[i].Firecracker.Metadata
		if meta == nil {
			meta = &config.PoolMetadata{}
			pools[i].Firecracker.Metadata = meta
		}
		if meta.InstanceID == "" {
			meta.InstanceID = prod.InstanceID(pools[i].Name)
		}
		if meta.UserData == "" {
			meta.UserData = userdata
		}
	}

	log.Infof("Injected registry-cache metadata for %d registries", len(mirrors))
	return nil
}
