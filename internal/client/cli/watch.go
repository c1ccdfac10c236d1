package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/docanchor/internal/client/models"
	"github.com/dmitrijs2005/docanchor/internal/client/services"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

const watchDebounce = 500 * time.Millisecond

func newWatchCommand(st *state) *cobra.Command {
	var identity bool

	cmd := &cobra.Command{
		Use:   "watch DIR",
		Short: "Anchor files as they appear in a directory",
		Long: `Watch DIR and anchor every file created or written in it.

Events for the same file are debounced so a file is uploaded once it stops
changing. Hidden and temporary files are ignored. Press Ctrl+C to stop.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := st.app
			userID, err := a.requireUser()
			if err != nil {
				return err
			}
			req := services.UploadRequest{UserID: userID, Flow: models.FlowGeneral}
			if identity {
				req.Flow = models.FlowIdentity
			}
			return a.watch(cmd.Context(), args[0], req)
		},
	}
	cmd.Flags().BoolVar(&identity, "identity", false, "treat new files as identity documents")
	return cmd
}

func (a *App) watch(ctx context.Context, dir string, req services.UploadRequest) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	fmt.Fprintln(a.out, formatInfo("Watching "+dir))
	fmt.Fprintln(a.out, formatMuted("Press Ctrl+C to stop"))

	deb := newDebouncer(watchDebounce)
	defer deb.stop()

	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !watchable(ev) {
				continue
			}
			path := ev.Name
			deb.trigger(path, func() {
				if ctx.Err() != nil {
					return
				}
				if _, err := a.uploadOne(ctx, req, path); err != nil {
					a.log.Debug(ctx, "watched upload failed", "path", path, "error", err)
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			a.log.Warn(ctx, "watcher error", "error", err)

		case <-ctx.Done():
			fmt.Fprintln(a.out, formatMuted("Watch stopped"))
			return nil
		}
	}
}

func watchable(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
		return false
	}
	base := filepath.Base(ev.Name)
	if strings.HasPrefix(base, ".") || strings.HasPrefix(base, "~") || strings.HasSuffix(base, ".tmp") {
		return false
	}
	fi, err := os.Stat(ev.Name)
	return err == nil && fi.Mode().IsRegular()
}

// debouncer runs fn for a key once no trigger for it arrived within delay.
type debouncer struct {
	delay time.Duration

	mu     sync.Mutex
	timers map[string]*time.Timer
	wg     sync.WaitGroup
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{delay: delay, timers: map[string]*time.Timer{}}
}

func (d *debouncer) trigger(key string, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.triggerLocked(key, fn)
}

func (d *debouncer) triggerLocked(key string, fn func()) {
	if t, ok := d.timers[key]; ok && t.Stop() {
		d.wg.Done()
	}
	d.wg.Add(1)
	var t *time.Timer
	t = time.AfterFunc(d.delay, func() {
		defer d.wg.Done()
		d.mu.Lock()
		// a later trigger may already own the slot
		if d.timers[key] == t {
			delete(d.timers, key)
		}
		d.mu.Unlock()
		fn()
	})
	d.timers[key] = t
}

// stop drops pending runs and waits for the ones already started.
func (d *debouncer) stop() {
	d.mu.Lock()
	for key, t := range d.timers {
		if t.Stop() {
			d.wg.Done()
		}
		delete(d.timers, key)
	}
	d.mu.Unlock()
	d.wg.Wait()
}
