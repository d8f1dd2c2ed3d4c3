// Copyright 2025 The Shelfd Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"os"

	_ "go.uber.org/automaxprocs/maxprocs"

	"github.com/openshelf/shelfd/pkg/acl"
	"github.com/openshelf/shelfd/pkg/config"
	"github.com/openshelf/shelfd/pkg/flag"
	"github.com/openshelf/shelfd/pkg/fs"
	"github.com/openshelf/shelfd/pkg/log"
	"github.com/openshelf/shelfd/pkg/progress"
	"github.com/openshelf/shelfd/pkg/session"
	"github.com/openshelf/shelfd/pkg/web"
	"github.com/openshelf/shelfd/pkg/web/controller"
)

// main initializes and starts the shelfd server.
func main() {
	flag.InitFlags()

	cfg, err := config.Load(flag.ConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "shelfd: %v\n", err)
		os.Exit(1)
	}

	// CLI flags win over the configuration file
	config.ApplyOverrides(cfg, flag.ServerPort, flag.ServerLogLevel, flag.ServerAccessToken)

	log.SetLevel(cfg.Logging.Level)
	defer log.Sync()

	store, descriptions, err := openStore(cfg)
	if err != nil {
		log.Error("failed to open ACL store: %v", err)
		os.Exit(1)
	}
	defer store.Close()

	registry, err := fs.NewRegistry(cfg.Roots)
	if err != nil {
		log.Error("invalid root configuration: %v", err)
		os.Exit(1)
	}

	resolver := fs.NewResolver(store)
	gateway := fs.NewGateway(registry, resolver, store, descriptions, cfg.Listing.IgnorePatterns)

	deps := &controller.Deps{
		Config:   cfg,
		Gateway:  gateway,
		Sessions: session.NewManager(cfg),
		Uploads:  progress.NewTracker(),
		ACLs:     store,
	}

	engine := web.NewRouter(deps)
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Info("shelfd listening on %s (%d roots, %s store)", addr, len(cfg.Roots), cfg.Permissions.Store.Type)
	if err := engine.Run(addr); err != nil {
		log.Error("failed to start shelfd server: %v", err)
	}
}

// openStore builds the configured ACL store. Every backend also serves
// item descriptions.
func openStore(cfg *config.Config) (acl.Store, acl.DescriptionStore, error) {
	switch cfg.Permissions.Store.Type {
	case "badger":
		store, err := acl.OpenBadgerStore(cfg.Permissions.Store.Badger.Path)
		if err != nil {
			return nil, nil, err
		}
		return store, store, nil
	case "mysql":
		store, err := acl.OpenMySQLStore(cfg.Permissions.Store.MySQL.DSN)
		if err != nil {
			return nil, nil, err
		}
		return store, store, nil
	default:
		store := acl.NewMemoryStore()
		return store, store, nil
	}
}
