// SPDX-FileCopyrightText: © 2025 Nfrastack <code@nfrastack.com>
//
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recordchange/pkg/change"
	"recordchange/pkg/config"
	"recordchange/pkg/connector"
	_ "recordchange/pkg/connector/cloudflareconnector"
	_ "recordchange/pkg/connector/rfc2136"
	"recordchange/pkg/handler"
	"recordchange/pkg/log"
	"recordchange/pkg/repository/gormrepo"
	"recordchange/pkg/version"
)

var (
	configFilePath = flag.String("config", "recordchange.yml", "Path to configuration file")
	changeFilePath = flag.String("change", "", "Path to a JSON-encoded RecordSetChange to hand to the handler, then exit")
	showVersion    = flag.Bool("version", false, "Show version and exit")
	logLevelFlag   = flag.String("log-level", "", "Set log level (overrides config/env)")
	dryRunFlag     = flag.Bool("dry-run", false, "Load configuration and connect, but never mutate DNS state")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		os.Exit(0)
	}

	log.Initialize("info")

	cfg, err := config.LoadConfigFile(*configFilePath)
	if err != nil {
		log.Fatal("[config] failed to load %s: %v", *configFilePath, err)
	}
	if *logLevelFlag != "" {
		cfg.General.LogLevel = *logLevelFlag
	}
	cfg.General.DryRun = cfg.General.DryRun || *dryRunFlag
	log.GetLogger().SetLevel(cfg.General.LogLevel)
	log.SetTimestampsEnabled(cfg.General.LogTimestamps)

	log.Info("[recordchaned] starting %s, config=%s", version.String(), *configFilePath)

	conn, err := connector.New(cfg.Connector.Type, cfg.Connector.Options)
	if err != nil {
		log.Fatal("[connector] failed to initialize %q: %v", cfg.Connector.Type, err)
	}

	db, err := gormrepo.OpenFromDSN(cfg.Persistence.DSN)
	if err != nil {
		log.Fatal("[persistence] failed to open %q: %v", cfg.Persistence.DSN, err)
	}
	if err := gormrepo.AutoMigrate(db); err != nil {
		log.Fatal("[persistence] migration failed: %v", err)
	}

	recordSets := gormrepo.NewRecordSetRepository(db)
	changes := gormrepo.NewChangeJournalRepository(db)
	batches := gormrepo.NewBatchChangeRepository(db)

	h := handler.New(conn, recordSets, changes, batches, handler.Config{
		MaxAttempts: cfg.Verifier.MaxAttempts,
		Backoff:     time.Duration(cfg.Verifier.BackoffMS) * time.Millisecond,
		DryRun:      cfg.General.DryRun,
	})

	watchCtx, cancelWatch := context.WithCancel(context.Background())
	defer cancelWatch()
	go func() {
		if err := config.Watch(watchCtx, *configFilePath, func(reloaded config.ConfigFile) {
			log.GetLogger().SetLevel(reloaded.General.LogLevel)
			log.SetTimestampsEnabled(reloaded.General.LogTimestamps)
		}); err != nil {
			log.Warn("[config] watch stopped: %v", err)
		}
	}()

	if *changeFilePath != "" {
		runOnce(h, *changeFilePath)
		return
	}

	log.Info("[recordchaned] no -change given; idling. Send SIGINT/SIGTERM to exit.")
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	log.Info("[recordchaned] shutting down")
}

// runOnce loads a single RecordSetChange from a JSON file, hands it to
// the handler, and prints the terminal result -- a smoke-test harness
// for exercising a connector/persistence wiring without a queue.
func runOnce(h *handler.Handler, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatal("[recordchaned] failed to read %s: %v", path, err)
	}

	var rsc change.RecordSetChange
	if err := json.Unmarshal(data, &rsc); err != nil {
		log.Fatal("[recordchaned] failed to parse %s: %v", path, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	result, err := h.Handle(ctx, rsc)
	if err != nil {
		log.Fatal("[recordchaned] handle failed: %v", err)
	}

	out, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println(string(out))

	if result.Status == change.StatusFailed {
		os.Exit(1)
	}
}
