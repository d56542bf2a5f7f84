// Package watch ingests documents dropped into a directory.
//
// Creating or writing a .txt or .md file under the watched directory
// (re-)ingests it; removing or renaming a file away evicts the document
// that was ingested from that path.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"github.com/docuchat-labs/retrieval-cli/internal/core/domain"
	"github.com/docuchat-labs/retrieval-cli/internal/core/ports/driven"
	"github.com/docuchat-labs/retrieval-cli/internal/core/ports/driving"
	"github.com/docuchat-labs/retrieval-cli/internal/logger"
)

// watchedExtensions lists the file types picked up from the directory.
var watchedExtensions = map[string]bool{
	".txt": true,
	".md":  true,
}

// Watcher reacts to filesystem events in a drop directory.
type Watcher struct {
	retriever driving.Retriever
	store     driven.DocumentStore
}

// New creates a watcher over the given retriever and store.
func New(retriever driving.Retriever, store driven.DocumentStore) *Watcher {
	return &Watcher{
		retriever: retriever,
		store:     store,
	}
}

// Run watches dir until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context, dir string) error {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolving directory: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(absDir); err != nil {
		return fmt.Errorf("watching %s: %w", absDir, err)
	}

	logger.Info("Watching %s", absDir)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, event)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watch error: %v", err)
		}
	}
}

// handleEvent dispatches a single filesystem event.
func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	if !watchedExtensions[strings.ToLower(filepath.Ext(event.Name))] {
		return
	}

	switch {
	case event.Op.Has(fsnotify.Create), event.Op.Has(fsnotify.Write):
		if err := w.IngestFile(ctx, event.Name); err != nil {
			logger.Warn("Ingest %s: %v", event.Name, err)
		}
	case event.Op.Has(fsnotify.Remove), event.Op.Has(fsnotify.Rename):
		if err := w.RemoveFile(ctx, event.Name); err != nil {
			logger.Warn("Remove %s: %v", event.Name, err)
		}
	}
}

// IngestFile reads a file and (re-)ingests it. A path that was ingested
// before keeps its document ID.
func (w *Watcher) IngestFile(ctx context.Context, path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving path: %w", err)
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}

	doc := &domain.Document{
		ID:       uuid.NewString(),
		URI:      absPath,
		Title:    strings.TrimSuffix(filepath.Base(absPath), filepath.Ext(absPath)),
		FileType: domain.FileTypeFromExtension(filepath.Ext(absPath)),
		Content:  string(content),
	}

	if existing, err := w.store.FindByURI(ctx, absPath); err == nil {
		if err := w.retriever.RemoveDocument(ctx, existing.ID); err != nil {
			return fmt.Errorf("replacing previous version: %w", err)
		}
		doc.ID = existing.ID
	}

	outcome, err := w.retriever.IngestDocument(ctx, doc)
	if err != nil {
		return err
	}

	if outcome.Degraded() {
		logger.Warn("Ingested %s with %d failed fragments", absPath, len(outcome.Failed))
	} else {
		logger.Info("Ingested %s (%d fragments)", absPath, outcome.FragmentCount)
	}
	return nil
}

// RemoveFile evicts the document that was ingested from path, if any.
func (w *Watcher) RemoveFile(ctx context.Context, path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving path: %w", err)
	}

	doc, err := w.store.FindByURI(ctx, absPath)
	if err != nil {
		// Never ingested, nothing to do.
		return nil
	}

	if err := w.retriever.RemoveDocument(ctx, doc.ID); err != nil {
		return err
	}
	logger.Info("Removed %s", absPath)
	return nil
}
