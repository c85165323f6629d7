// SPDX-FileCopyrightText: © 2025 Nfrastack <code@nfrastack.com>
//
// SPDX-License-Identifier: BSD-3-Clause

package config

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"recordchange/pkg/log"
)

// Watch reloads the configuration at path whenever it changes on disk,
// invoking onReload with the freshly parsed config. It blocks until ctx
// is cancelled.
func Watch(ctx context.Context, path string, onReload func(ConfigFile)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return err
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			absEvent, _ := filepath.Abs(event.Name)
			if absEvent != absPath {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			cfg, err := LoadConfigFile(path)
			if err != nil {
				log.Error("[config] reload of %s failed: %v", path, err)
				continue
			}
			log.Info("[config] reloaded %s", path)
			onReload(cfg)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error("[config] watch error: %v", err)
		}
	}
}
