package fireactions

import (
	"strings"
	"testing"

	"github.com/pmezard/go-difflib/difflib"
	"gopkg.in/yaml.v3"

	"github.com/thpham/firecfg/pkg/registrycache"
	"github.com/thpham/firecfg/pkg/userdata/plugin"
)

const expectedCacheUserData = `#cloud-config
# Registry cache configuration - auto-injected by fireactions

# Containerd registry mirror configuration for Zot pull-through cache
# Each registry gets a hosts.toml that points to the local Zot mirror
write_files:
  - path: /etc/containerd/certs.d/docker.io/hosts.toml
    content: |
      server = "https://registry-1.docker.io"
      
      [host."http://10.200.0.1:5000"]
        capabilities = ["pull", "resolve"]
        skip_verify = true
  - path: /etc/containerd/certs.d/ghcr.io/hosts.toml
    content: |
      server = "https://ghcr.io"
      
      [host."http://10.200.0.1:5000"]
        capabilities = ["pull", "resolve"]
        skip_verify = true
      
      [host."http://10.200.0.1:5000/v2/ghcr.io"]
        capabilities = ["pull", "resolve"]
        override_path = true
  - path: /etc/buildkit/buildkitd.toml
    content: |
      # BuildKit registry mirrors for docker/setup-buildx-action
      # Use with: docker buildx create --config /etc/buildkit/buildkitd.toml
      # Or set BUILDKIT_CONFIG=/etc/buildkit/buildkitd.toml
      [registry."docker.io"]
        mirrors = ["10.200.0.1:5000"]
        http = true
        insecure = true
      
      [registry."ghcr.io"]
        mirrors = ["10.200.0.1:5000"]
        http = true
        insecure = true
      
  - path: /etc/docker/daemon.json
    content: |
      {
        "registry-mirrors": [
          "http://10.200.0.1:5000"
        ],
        "insecure-registries": [
          "10.200.0.1:5000"
        ]
      }

# Runtime configuration via runcmd
runcmd:
  # Ensure containerd picks up the new registry mirrors
  - mkdir -p /etc/containerd/certs.d
  - mkdir -p /etc/buildkit
  - systemctl restart containerd || true
  # Restart Docker daemon to pick up registry mirror config
  - systemctl restart docker || true
  # Create a pre-configured Buildx builder that uses our registry mirrors
  - |
    if command -v docker &> /dev/null && [ -f /etc/buildkit/buildkitd.toml ]; then
      docker buildx create --name zot-cache --driver docker-container \
        --config /etc/buildkit/buildkitd.toml --use 2>/dev/null || true
    fi
  # Set DNS to use host gateway (centralized DNS via dnsmasq)
  - echo 'nameserver 10.200.0.1' > /etc/resolv.conf
  # Set hostname from MMDS metadata
  - |
    RUNNER_ID=$(curl -sf http://169.254.169.254/latest/meta-data/fireactions/runner_id)
    if [ -n "$RUNNER_ID" ]; then
      hostnamectl set-hostname "$RUNNER_ID"
    fi
`

const expectedSecretsUserData = `#cloud-config
# Registry cache configuration - auto-injected by fireactions


# CA certificate for Squid SSL bump
# Required for HTTPS interception of configured domains
ca_certs:
  trusted:
    - |
      -----BEGIN CERTIFICATE-----
      MIIBszCCAVmgAwIBAgIUTestCertificate
      -----END CERTIFICATE-----

# SSH access for debugging
users:
  - name: root
    ssh_authorized_keys:
      - ssh-ed25519 AAAAC3NzaC1lZDI1NTE5AAAAIDebugKey ops@fireactions

# Runtime configuration via runcmd
runcmd:
  # Fix Ubuntu 24.04 bug: ca_certs module creates hash symlinks but doesn't
  # add cert to /etc/ssl/certs/ca-certificates.crt bundle file.
  # curl/docker use the bundle file, not symlinks, so we must append manually.
  - |
    CA_CERT=$(ls /usr/local/share/ca-certificates/cloud-init-ca-cert-*.crt 2>/dev/null | head -1)
    if [ -n "$CA_CERT" ]; then
      update-ca-certificates
      cat "$CA_CERT" >> /etc/ssl/certs/ca-certificates.crt
      echo "CA cert added to bundle: $CA_CERT"
    fi
  # Set DNS to use host gateway (centralized DNS via dnsmasq)
  - echo 'nameserver 10.200.0.1' > /etc/resolv.conf
  # Set hostname from MMDS metadata
  - |
    RUNNER_ID=$(curl -sf http://169.254.169.254/latest/meta-data/fireactions/runner_id)
    if [ -n "$RUNNER_ID" ]; then
      hostnamectl set-hostname "$RUNNER_ID"
    fi
`

func requireUserData(t *testing.T, expected, current string) {
	t.Helper()

	if expected != current {
		diff := difflib.UnifiedDiff{
			A:        difflib.SplitLines(expected),
			B:        difflib.SplitLines(current),
			FromFile: "Fixture",
			ToFile:   "Current",
			Context:  3,
		}
		diffStr, err := difflib.GetUnifiedDiffString(diff)
		if err != nil {
			t.Fatal(err)
		}
		t.Errorf("got diff between expected and actual result: \n%s\n", diffStr)
	}
}

func TestUserDataRegistryCache(t *testing.T) {
	t.Parallel()

	mirrors, err := registrycache.ParseMirrors(`{"docker.io": {}, "ghcr.io": {}}`)
	if err != nil {
		t.Fatalf("ParseMirrors: %v", err)
	}

	userdata, err := Provider{}.UserData(plugin.UserDataRequest{
		CacheEnabled: true,
		Gateway:      "10.200.0.1",
		CachePort:    5000,
		Mirrors:      mirrors,
		DNSGateway:   "10.200.0.1",
	})
	if err != nil {
		t.Fatalf("UserData: %v", err)
	}
	requireUserData(t, expectedCacheUserData, userdata)

	// cloud-init must be able to parse what we hand to MMDS.
	var parsed map[string]interface{}
	if err := yaml.Unmarshal([]byte(userdata), &parsed); err != nil {
		t.Fatalf("user-data is not valid YAML: %v", err)
	}
	for _, section := range []string{"write_files", "runcmd"} {
		if _, found := parsed[section]; !found {
			t.Errorf("section %q missing from parsed user-data", section)
		}
	}
}

func TestUserDataSecretsOnly(t *testing.T) {
	t.Parallel()

	userdata, err := Provider{}.UserData(plugin.UserDataRequest{
		CacheEnabled:     false,
		Gateway:          "10.200.0.1",
		DNSGateway:       "10.200.0.1",
		CACertificate:    "-----BEGIN CERTIFICATE-----\nMIIBszCCAVmgAwIBAgIUTestCertificate\n-----END CERTIFICATE-----\n",
		SSHAuthorizedKey: "ssh-ed25519 AAAAC3NzaC1lZDI1NTE5AAAAIDebugKey ops@fireactions",
	})
	if err != nil {
		t.Fatalf("UserData: %v", err)
	}
	requireUserData(t, expectedSecretsUserData, userdata)
}

func TestUserDataEmptyMirrors(t *testing.T) {
	t.Parallel()

	userdata, err := Provider{}.UserData(plugin.UserDataRequest{
		CacheEnabled: true,
		Gateway:      "10.200.0.1",
		CachePort:    5000,
		DNSGateway:   "10.200.0.1",
	})
	if err != nil {
		t.Fatalf("UserData: %v", err)
	}

	// No mirrors means no files and no runtime restarts, but the DNS
	// override and hostname script still run.
	if strings.Contains(userdata, "write_files:") {
		t.Errorf("unexpected write_files section:\n%s", userdata)
	}
	if strings.Contains(userdata, "systemctl restart") {
		t.Errorf("unexpected runtime restarts:\n%s", userdata)
	}
	if !strings.Contains(userdata, "echo 'nameserver 10.200.0.1' > /etc/resolv.conf") {
		t.Errorf("DNS override missing:\n%s", userdata)
	}
	if !strings.Contains(userdata, "hostnamectl set-hostname") {
		t.Errorf("hostname script missing:\n%s", userdata)
	}
}

func TestUserDataHostnameIsLast(t *testing.T) {
	t.Parallel()

	mirrors := registrycache.DefaultMirrors()
	userdata, err := Provider{}.UserData(plugin.UserDataRequest{
		CacheEnabled:     true,
		Gateway:          "10.200.0.1",
		CachePort:        5000,
		Mirrors:          mirrors,
		DNSGateway:       "10.200.0.1",
		CACertificate:    "-----BEGIN CERTIFICATE-----\nABC\n-----END CERTIFICATE-----",
		SSHAuthorizedKey: "ssh-ed25519 AAAAITestKey",
	})
	if err != nil {
		t.Fatalf("UserData: %v", err)
	}

	var parsed struct {
		Runcmd []string `yaml:"runcmd"`
	}
	if err := yaml.Unmarshal([]byte(userdata), &parsed); err != nil {
		t.Fatalf("user-data is not valid YAML: %v", err)
	}
	if len(parsed.Runcmd) == 0 {
		t.Fatal("runcmd section is empty")
	}
	last := parsed.Runcmd[len(parsed.Runcmd)-1]
	if !strings.Contains(last, "hostnamectl set-hostname") {
		t.Errorf("hostname script must be the last runcmd entry, got %q", last)
	}
	first := parsed.Runcmd[0]
	if !strings.Contains(first, "update-ca-certificates") {
		t.Errorf("CA bundle repair must be the first runcmd entry, got %q", first)
	}
}

func TestEnabled(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		req      plugin.UserDataRequest
		expected bool
	}{
		{name: "disabled", req: plugin.UserDataRequest{}, expected: false},
		{name: "cache flag", req: plugin.UserDataRequest{CacheEnabled: true}, expected: true},
		{name: "gateway only", req: plugin.UserDataRequest{Gateway: "10.200.0.1"}, expected: true},
	}

	for _, test := range tests {
		if got := (Provider{}).Enabled(test.req); got != test.expected {
			t.Errorf("%s: Enabled = %v, expected %v", test.name, got, test.expected)
		}
	}
}
