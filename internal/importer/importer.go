// Package importer provisions directory content from YAML seed files. Each
// file in the seed directory is named after a content type (event.yaml,
// company.yaml, ...) and holds a list of entries. Entries are matched to
// existing entities by slug, so re-running a sync updates rather than
// duplicates; an entry whose name slugifies onto an entity with a different
// name is skipped as a collision.
package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	goslug "github.com/gosimple/slug"
	"gopkg.in/yaml.v3"

	"github.com/siliconharbour/siliconharbour.dev-sub003/internal/apperr"
	"github.com/siliconharbour/siliconharbour.dev-sub003/internal/checksum"
	"github.com/siliconharbour/siliconharbour.dev-sub003/internal/content"
	"github.com/siliconharbour/siliconharbour.dev-sub003/internal/directory"
	"github.com/siliconharbour/siliconharbour.dev-sub003/internal/store"
)

type seedEntry struct {
	Name     string     `yaml:"name"`
	Title    string     `yaml:"title"`
	Body     string     `yaml:"body"`
	Image    string     `yaml:"image"`
	Location string     `yaml:"location"`
	Website  string     `yaml:"website"`
	Subtitle string     `yaml:"subtitle"`
	StartsAt *time.Time `yaml:"starts_at"`
	EndsAt   *time.Time `yaml:"ends_at"`
}

// displayName accepts either key; titled types conventionally use "title".
func (e seedEntry) displayName() string {
	if e.Name != "" {
		return e.Name
	}
	return e.Title
}

// Sync imports every recognized seed file in dir. Files whose base name is
// not a content type are skipped. Bad entries are logged and skipped; only
// I/O-level failures abort the sync.
func Sync(ctx context.Context, svc *directory.Service, dir string, logger *slog.Logger) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("importer: read seed dir: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		t, ok := seedFileType(entry.Name())
		if !ok {
			continue
		}
		if err := syncFile(ctx, svc, filepath.Join(dir, entry.Name()), t, logger); err != nil {
			logger.Warn("seed sync: file failed",
				slog.String("file", entry.Name()), slog.String("error", err.Error()))
		}
	}
	return nil
}

// Watch keeps the seed directory under an fsnotify watch and re-syncs a file
// whenever it is created or written, until ctx is cancelled.
func Watch(ctx context.Context, svc *directory.Service, dir string, logger *slog.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return fmt.Errorf("importer: watch %s: %w", dir, err)
	}

	logger.Info("seed watcher: started", slog.String("dir", dir))

	// Editors and fsnotify both produce duplicate write events; remember each
	// file's digest and skip re-syncs of unchanged content.
	synced := make(map[string]string)

	for {
		select {
		case <-ctx.Done():
			logger.Info("seed watcher: stopped")
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			t, ok := seedFileType(filepath.Base(ev.Name))
			if !ok {
				continue
			}
			data, err := os.ReadFile(ev.Name)
			if err != nil {
				logger.Warn("seed watcher: read failed",
					slog.String("file", ev.Name), slog.String("error", err.Error()))
				continue
			}
			digest := checksum.Sum(data)
			if synced[ev.Name] == digest {
				continue
			}
			if err := syncData(ctx, svc, ev.Name, t, data, logger); err != nil {
				logger.Warn("seed watcher: sync failed",
					slog.String("file", ev.Name), slog.String("error", err.Error()))
			} else {
				synced[ev.Name] = digest
				logger.Debug("seed watcher: synced", slog.String("file", ev.Name))
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("seed watcher: error", slog.String("error", err.Error()))
		}
	}
}

// seedFileType maps a seed file name like "event.yaml" to its content type.
func seedFileType(name string) (content.Type, bool) {
	ext := filepath.Ext(name)
	if ext != ".yaml" && ext != ".yml" {
		return "", false
	}
	t, err := content.Parse(strings.TrimSuffix(name, ext))
	if err != nil {
		return "", false
	}
	return t, true
}

func syncFile(ctx context.Context, svc *directory.Service, path string, t content.Type, logger *slog.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return syncData(ctx, svc, path, t, data, logger)
}

func syncData(ctx context.Context, svc *directory.Service, path string, t content.Type, data []byte, logger *slog.Logger) error {
	var entries []seedEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("importer: parse %s: %w", path, err)
	}

	for _, se := range entries {
		name := strings.TrimSpace(se.displayName())
		if name == "" {
			logger.Warn("seed sync: entry without name skipped", slog.String("file", path))
			continue
		}
		if err := upsert(ctx, svc, t, name, se); err != nil {
			logger.Warn("seed sync: entry failed",
				slog.String("file", path), slog.String("name", name), slog.String("error", err.Error()))
		} else {
			logger.Debug("seed sync: upserted", slog.String("type", string(t)), slog.String("name", name))
		}
	}
	return nil
}

func upsert(ctx context.Context, svc *directory.Service, t content.Type, name string, se seedEntry) error {
	e := &store.Entity{
		Type:     t,
		Name:     name,
		Body:     se.Body,
		Image:    se.Image,
		Location: se.Location,
		Website:  se.Website,
		Subtitle: se.Subtitle,
		StartsAt: se.StartsAt,
		EndsAt:   se.EndsAt,
	}

	existing, err := svc.GetBySlug(ctx, t, goslug.Make(name))
	switch {
	case err == nil:
		// Same slug, different name: two seed entries collapsing onto one
		// entity. Skip rather than let the second overwrite the first.
		if existing.Name != name {
			return fmt.Errorf("importer: %q collides with existing %s %q", name, t, existing.Name)
		}
		e.ID = existing.ID
		e.Slug = existing.Slug
		_, err = svc.Update(ctx, e)
		return err
	case errors.Is(err, apperr.ErrNotFound):
		_, err = svc.Create(ctx, e)
		return err
	default:
		return err
	}
}
