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
	"os"
	"strconv"

	"go.uber.org/zap"

	"github.com/thpham/firecfg/pkg/registrycache"
)

// Environment carries everything the config services pass to firecfg via
// environment variables. Secret values stay in files; only their paths
// travel through the environment.
type Environment struct {
	// CacheEnabled mirrors ZOT_ENABLED.
	CacheEnabled bool
	// Gateway is the address the Zot registry cache listens on, from
	// REGISTRY_CACHE_GATEWAY.
	Gateway string
	// CachePort is the Zot port, from ZOT_PORT.
	CachePort int
	// Mirrors is the raw ZOT_MIRRORS JSON object.
	Mirrors string

	// SSLBumpMode and SSLBumpDomains decide whether the Squid CA
	// certificate gets embedded, from SQUID_SSL_BUMP_MODE and
	// SQUID_SSL_BUMP_DOMAINS.
	SSLBumpMode    string
	SSLBumpDomains string
	// CAFile points at the Squid CA certificate, from SQUID_CA_FILE.
	CAFile string

	// SSHKeyFile and SSHKey configure debug SSH access, from
	// DEBUG_SSH_KEY_FILE and DEBUG_SSH_KEY.
	SSHKeyFile string
	SSHKey     string

	// FireglabGateway is the fireglab subnet gateway used for DNS inside
	// fireglab VMs, from FIREGLAB_GATEWAY. The other products use the
	// registry-cache gateway for DNS.
	FireglabGateway string

	// GitHub App credentials for fireactions, from APP_ID_FILE and
	// PRIVATE_KEY_FILE.
	AppIDFile      string
	PrivateKeyFile string

	// GitLab credentials for fireglab, from ACCESS_TOKEN_FILE,
	// INSTANCE_URL_FILE, GROUP_ID_FILE and PROJECT_ID_FILE.
	AccessTokenFile string
	InstanceURLFile string
	GroupIDFile     string
	ProjectIDFile   string

	// Gitea credentials for fireteact, from API_TOKEN_FILE.
	APITokenFile string
}

// FromOS collects the injection environment from process environment
// variables. A non-numeric ZOT_PORT falls back to the default port with a
// warning instead of failing the run.
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

	mode := os.Getenv("SQUID_SSL_BUMP_MODE")
	if mode == "" {
		mode = "off"
	}

	return Environment{
		CacheEnabled: os.Getenv("ZOT_ENABLED") == "true",
		Gateway:      os.Getenv("REGISTRY_CACHE_GATEWAY"),
		CachePort:    port,
		Mirrors:      os.Getenv("ZOT_MIRRORS"),

		SSLBumpMode:    mode,
		SSLBumpDomains: os.Getenv("SQUID_SSL_BUMP_DOMAINS"),
		CAFile:         os.Getenv("SQUID_CA_FILE"),

		SSHKeyFile: os.Getenv("DEBUG_SSH_KEY_FILE"),
		SSHKey:     os.Getenv("DEBUG_SSH_KEY"),

		FireglabGateway: os.Getenv("FIREGLAB_GATEWAY"),

		AppIDFile:      os.Getenv("APP_ID_FILE"),
		PrivateKeyFile: os.Getenv("PRIVATE_KEY_FILE"),

		AccessTokenFile: os.Getenv("ACCESS_TOKEN_FILE"),
		InstanceURLFile: os.Getenv("INSTANCE_URL_FILE"),
		GroupIDFile:     os.Getenv("GROUP_ID_FILE"),
		ProjectIDFile:   os.Getenv("PROJECT_ID_FILE"),

		APITokenFile: os.Getenv("API_TOKEN_FILE"),
	}
}
