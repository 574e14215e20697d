package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watch reloads path whenever it changes and hands the result to onChange.
// The parent directory is watched so editors that replace the file by rename
// are still picked up. Invalid files are logged and skipped.
func Watch(ctx context.Context, path string, log *zap.Logger, onChange func(Config)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		_ = w.Close()
		return err
	}

	go func() {
		defer w.Close()

		// editors emit bursts of events; settle before reloading
		var pending <-chan time.Time
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != filepath.Clean(path) {
					continue
				}
				if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
					pending = time.After(250 * time.Millisecond)
				}
			case <-pending:
				pending = nil
				cfg, err := Load(path)
				if err != nil {
					log.Warn("config reload failed", zap.String("path", path), zap.Error(err))
					continue
				}
				normalized, vr := NormalizeAndValidate(cfg)
				if !vr.OK() {
					log.Warn("config reload rejected", zap.String("path", path), zap.Strings("errors", vr.Errors))
					continue
				}
				log.Info("config reloaded", zap.String("path", path))
				onChange(normalized)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Warn("config watcher error", zap.Error(err))
			}
		}
	}()
	return nil
}
