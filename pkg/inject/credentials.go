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
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/thpham/firecfg/pkg/apis/product"
	"github.com/thpham/firecfg/pkg/config"
)

// injectCredentials merges the product's secrets into its config section.
// Products without that section in their base config get no credentials,
// matching hosts that run the service unauthenticated.
func injectCredentials(log *zap.SugaredLogger, doc *config.Document, env Environment, name product.Name) error {
	switch name {
	case product.Fireactions:
		return injectGitHubCredentials(doc, env)
	case product.Fireglab:
		return injectGitLabCredentials(log, doc, env)
	case product.Fireteact:
		return injectGiteaCredentials(doc, env)
	}
	return nil
}

func injectGitHubCredentials(doc *config.Document, env Environment) error {
	github, err := doc.Section("github")
	if err != nil {
		return err
	}
	if github == nil {
		return nil
	}

	if env.AppIDFile != "" {
		raw, err := os.ReadFile(env.AppIDFile)
		if err != nil {
			return fmt.Errorf("failed to read GitHub App ID: %w", err)
		}
		appID, err := strconv.Atoi(strings.TrimSpace(string(raw)))
		if err != nil {
			return fmt.Errorf("GitHub App ID in %s is not an integer: %w", env.AppIDFile, err)
		}
		github.SetInt("app_id", appID)
	}

	if env.PrivateKeyFile != "" {
		raw, err := os.ReadFile(env.PrivateKeyFile)
		if err != nil {
			return fmt.Errorf("failed to read GitHub App private key: %w", err)
		}
		// Taken verbatim. PEM loaders are picky about the trailing newline.
		github.SetString("app_private_key", string(raw))
	}
	return nil
}

func injectGitLabCredentials(log *zap.SugaredLogger, doc *config.Document, env Environment) error {
	gitlab, err := doc.Section("gitlab")
	if err != nil {
		return err
	}
	if gitlab == nil {
		return nil
	}

	token, err := readOptionalSecret(env.AccessTokenFile)
	if err != nil {
		return fmt.Errorf("failed to read GitLab access token: %w", err)
	}
	if token != "" {
		gitlab.SetString("accessToken", token)
	}

	instanceURL, err := readOptionalSecret(env.InstanceURLFile)
	if err != nil {
		return fmt.Errorf("failed to read GitLab instance URL: %w", err)
	}
	if instanceURL != "" {
		gitlab.SetString("instanceURL", instanceURL)
	}

	if raw, err := readOptionalSecret(env.GroupIDFile); err != nil {
		return fmt.Errorf("failed to read GitLab group ID: %w", err)
	} else if raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			log.Warnf("Invalid group ID (not an integer): %s", raw)
		} else {
			gitlab.SetInt("groupId", id)
		}
	}

	if raw, err := readOptionalSecret(env.ProjectIDFile); err != nil {
		return fmt.Errorf("failed to read GitLab project ID: %w", err)
	} else if raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			log.Warnf("Invalid project ID (not an integer): %s", raw)
		} else {
			gitlab.SetInt("projectId", id)
		}
	}
	return nil
}

func injectGiteaCredentials(doc *config.Document, env Environment) error {
	gitea, err := doc.Section("gitea")
	if err != nil {
		return err
	}
	if gitea == nil || env.APITokenFile == "" {
		return nil
	}

	raw, err := os.ReadFile(env.APITokenFile)
	if err != nil {
		return fmt.Errorf("failed to read Gitea API token: %w", err)
	}
	gitea.SetString("apiToken", strings.TrimSpace(string(raw)))
	return nil
}

// readOptionalSecret reads and trims a secret file. An unset path or a
// missing file yields the empty string, not an error: fireglab hosts mount
// an sops template that only materializes the secrets actually configured.
func readOptionalSecret(path string) (string, error) {
	if path == "" {
		return "", nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
