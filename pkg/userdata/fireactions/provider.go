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

// Package fireactions renders the user-data booted into fireactions
// GitHub Actions runner VMs.
package fireactions

import (
	"github.com/thpham/firecfg/pkg/apis/product"
	"github.com/thpham/firecfg/pkg/registrycache"
	"github.com/thpham/firecfg/pkg/userdata/cloudinit"
	"github.com/thpham/firecfg/pkg/userdata/helper"
	"github.com/thpham/firecfg/pkg/userdata/plugin"
)

// Provider is a plugin.Provider implementation.
type Provider struct{}

// Enabled implements plugin.Provider. fireactions generates user-data
// whenever the registry cache feature or its gateway is configured.
func (p Provider) Enabled(req plugin.UserDataRequest) bool {
	return req.CacheEnabled || req.Gateway != ""
}

// UserData renders the user-data document. Mirror files only appear when
// the cache feature is on; the runcmd tail (DNS override, MMDS hostname)
// is emitted regardless so VMs always resolve and name themselves.
func (p Provider) UserData(req plugin.UserDataRequest) (string, error) {
	prod, err := product.Get(product.Fireactions)
	if err != nil {
		return "", err
	}

	var (
		files    []cloudinit.File
		restarts []cloudinit.Command
	)
	if req.CacheEnabled {
		planner := registrycache.Planner{Gateway: req.Gateway, Port: req.CachePort}
		files, restarts, err = planner.Plan(req.Mirrors)
		if err != nil {
			return "", err
		}
	}

	commands := make([]cloudinit.Command, 0, len(restarts)+3)
	if req.CACertificate != "" {
		commands = append(commands, helper.CABundleRepairCommand())
	}
	commands = append(commands, restarts...)
	if req.DNSGateway != "" {
		commands = append(commands, helper.DNSOverrideCommand(req.DNSGateway, prod.DNSComment))
	}
	commands = append(commands, helper.SetHostnameCommand(prod.MetadataPath, prod.MetadataVar))

	return cloudinit.Render(cloudinit.Document{
		Comment:          prod.HeaderComment,
		Files:            files,
		CACertificate:    req.CACertificate,
		SSHAuthorizedKey: req.SSHAuthorizedKey,
		Commands:         commands,
	})
}
