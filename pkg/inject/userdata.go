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

package inject

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/thpham/firecfg/pkg/apis/product"
	"github.com/thpham/firecfg/pkg/config"
	"github.com/thpham/firecfg/pkg/registrycache"
	"github.com/thpham/firecfg/pkg/userdata/helper"
	"github.com/thpham/firecfg/pkg/userdata/manager"
	"github.com/thpham/firecfg/pkg/userdata/plugin"
)

// injectPoolMetadata gives every pool an instance-id and, when the
// product's user-data provider is enabled, a cloud-init user-data
// document. Keys already present in a pool win over generated values.
func injectPoolMetadata(log *zap.SugaredLogger, doc *config.Document, env Environment, prod product.Product) error {
	pools, err := doc.Pools()
	if err != nil {
		return err
	}
	if len(pools) == 0 {
		return nil
	}

	// The cloud-init EC2 datasource refuses to talk to MMDS without an
	// instance-id, so every pool gets one even with all features off.
	for _, pool := range pools {
		meta, err := pool.Metadata()
		if err != nil {
			return err
		}

		name := pool.Name()
		if name == "" {
			name = "default"
		}
		if !meta.Has("instance-id") {
			meta.SetString("instance-id", prod.InstanceID(name))
		}
	}

	provider, err := manager.ForProduct(prod.Name)
	if err != nil {
		return err
	}

	req, err := userDataRequest(log, env, prod)
	if err != nil {
		return err
	}
	if !provider.Enabled(req) {
		return nil
	}

	userdata, err := provider.UserData(req)
	if err != nil {
		return fmt.Errorf("failed to generate user-data: %w", err)
	}

	for _, pool := range pools {
		meta, err := pool.Metadata()
		if err != nil {
			return err
		}
		if meta.Has("user-data") {
			continue
		}
		meta.SetString("user-data", userdata)

		name := pool.Name()
		if name == "" {
			name = "unknown"
		}
		log.Infof("Injected cloud-init user-data into pool: %s", name)
	}
	return nil
}

// userDataRequest assembles the provider request from the environment,
// reading the CA certificate and SSH key contents so the providers stay
// pure text generators.
func userDataRequest(log *zap.SugaredLogger, env Environment, prod product.Product) (plugin.UserDataRequest, error) {
	req := plugin.UserDataRequest{
		CacheEnabled: env.CacheEnabled,
		Gateway:      env.Gateway,
		CachePort:    env.CachePort,
	}

	mirrors, err := registrycache.ParseMirrors(env.Mirrors)
	if err != nil {
		log.Warnf("Failed to parse ZOT_MIRRORS JSON: %s", env.Mirrors)
	} else {
		req.Mirrors = mirrors
	}

	// fireglab VMs live on their own subnet with their own dnsmasq; the
	// other products resolve through the registry-cache gateway.
	if prod.Name == product.Fireglab {
		req.DNSGateway = env.FireglabGateway
	} else {
		req.DNSGateway = env.Gateway
	}

	if helper.NeedsCACertificate(env.SSLBumpMode, env.SSLBumpDomains) && env.CAFile != "" {
		raw, err := os.ReadFile(env.CAFile)
		if err != nil {
			return req, fmt.Errorf("failed to read CA certificate: %w", err)
		}
		req.CACertificate = string(raw)
		log.Infof("Injected CA certificate for SSL bump mode: %s", env.SSLBumpMode)
	}

	key, err := debugSSHKey(log, env, prod.Name)
	if err != nil {
		return req, err
	}
	req.SSHAuthorizedKey = key

	return req, nil
}

// debugSSHKey resolves the optional debug SSH key. fireactions
// deployments pass DEBUG_SSH_KEY directly when no file is mounted;
// fireglab only ever provisions the file, and a missing file there means
// debug access is off.
func debugSSHKey(log *zap.SugaredLogger, env Environment, name product.Name) (string, error) {
	if name == product.Fireglab {
		key, err := readOptionalSecret(env.SSHKeyFile)
		if err != nil {
			return "", fmt.Errorf("failed to read debug SSH key: %w", err)
		}
		return key, nil
	}

	if env.SSHKeyFile != "" {
		raw, err := os.ReadFile(env.SSHKeyFile)
		if err != nil {
			return "", fmt.Errorf("failed to read debug SSH key: %w", err)
		}
		log.Infof("Loaded debug SSH key from file: %s", env.SSHKeyFile)
		return strings.TrimSpace(string(raw)), nil
	}
	return env.SSHKey, nil
}
