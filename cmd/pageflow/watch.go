package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/gompdf/pageflow"
	"github.com/gompdf/pageflow/internal/doctree"
)

var (
	watchOut      string
	watchDebounce time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Reflow a document in the background whenever it changes on disk",
	Long: `Watch loads the file, then reloads it on every write. Reflow runs on the
debounced scheduler one pass at a time; the page count is printed whenever it
changes and the tree is rewritten to --out when set.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path, err := filepath.Abs(args[0])
		if err != nil {
			fatal("Error resolving path", err)
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := watch(ctx, path); err != nil {
			fatal("Error watching "+path, err)
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringVarP(&watchOut, "out", "o", "", "Rewrite the paginated tree to this .json or .yaml file on every change")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 50*time.Millisecond, "Delay before a reflow pass")
}

func watch(ctx context.Context, path string) error {
	if watchOut != "" {
		out, err := filepath.Abs(watchOut)
		if err != nil {
			return err
		}
		// Rewriting the watched file would trigger a reload on every write.
		if filepath.Clean(out) == filepath.Clean(path) {
			return fmt.Errorf("--out %s is the watched file", watchOut)
		}
	}
	var (
		mu    sync.Mutex
		pages int
	)
	opts, err := editorOptions(
		pageflow.WithDebounce(watchDebounce),
		pageflow.OnChange(func(content string) {
			mu.Lock()
			defer mu.Unlock()
			doc := doctree.Decode(content)
			if n := doc.PageCount(); n != pages {
				pages = n
				fmt.Printf("%s: %d pages\n", filepath.Base(path), n)
			}
			if watchOut != "" {
				if err := writeTree(watchOut, doc); err != nil {
					slog.Error("write tree", "path", watchOut, "error", err)
				}
			}
		}),
	)
	if err != nil {
		return err
	}
	e, err := pageflow.NewEditor(opts...)
	if err != nil {
		return err
	}
	defer e.Close()

	reload := func() {
		doc, err := loadDocument(ctx, path)
		if err != nil {
			slog.Error("reload failed", "path", path, "error", err)
			return
		}
		if err := e.LoadDocument(doc); err != nil {
			slog.Error("reload failed", "path", path, "error", err)
			return
		}
		slog.Debug("reloaded", "path", path)
	}
	reload()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()
	// Editors replace files by rename, so watch the directory.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return e.Flush()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				reload()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("fsnotify error", "error", err)
		}
	}
}
