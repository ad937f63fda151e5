package cli

import (
	"context"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/matzehuels/flowcanvas/pkg/errors"
	"github.com/matzehuels/flowcanvas/pkg/pipeline"
)

// watchDebounce coalesces the bursts of events editors emit on save.
const watchDebounce = 100 * time.Millisecond

// fileWatcher calls onChange whenever one of its files is written,
// created, or renamed into place.
type fileWatcher struct {
	paths    []string
	debounce time.Duration
	onChange func(ctx context.Context, path string)
	logger   *log.Logger
}

// run blocks until ctx is cancelled. Directories are watched rather than
// the files themselves so atomic saves (write temp, rename) are seen.
func (w *fileWatcher) run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create file watcher")
	}
	defer watcher.Close()

	want := make(map[string]bool, len(w.paths))
	for _, p := range w.paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "resolve %s", p)
		}
		want[abs] = true
		if err := watcher.Add(filepath.Dir(abs)); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "watch %s", p)
		}
	}

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()
	var pending string

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !want[filepath.Clean(event.Name)] {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.logger.Debug("file changed", "path", event.Name, "op", event.Op.String())
			pending = event.Name
			timer.Reset(w.debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "err", err)
		case <-timer.C:
			w.onChange(ctx, pending)
		}
	}
}

// watchCommand creates the watch command that re-validates a flow on change.
func (c *CLI) watchCommand() *cobra.Command {
	var opts flowOpts

	cmd := &cobra.Command{
		Use:   "watch [flow]",
		Short: "Re-assemble and validate a flow every time it or its style changes",
		Long: `Watch runs validation once, then again whenever the flow file or the style
file is saved. Every run recomputes all specs from scratch.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			check := func(ctx context.Context, _ string) {
				if err := c.runOnce(ctx, path, opts); err != nil {
					printError("%s", errors.UserMessage(err))
				}
			}
			check(cmd.Context(), path)

			paths := []string{path}
			if opts.stylePath != "" {
				paths = append(paths, opts.stylePath)
			}
			w := &fileWatcher{paths: paths, debounce: watchDebounce, onChange: check, logger: c.subsystem("watch")}
			printInfo("Watching %s %s", StyleHighlight.Render(path), StyleDim.Render("(ctrl+c to stop)"))
			return w.run(cmd.Context())
		},
	}

	opts.register(cmd)
	return cmd
}

// runOnce validates the flow at path and prints a one-line summary plus
// the reports of invalid nodes.
func (c *CLI) runOnce(ctx context.Context, path string, opts flowOpts) error {
	f, err := readFlow(path)
	if err != nil {
		return err
	}
	popts, err := opts.pipelineOptions()
	if err != nil {
		return err
	}
	res, err := pipeline.NewRunner(nil, c.Logger).Execute(ctx, f, popts)
	if err != nil {
		return err
	}
	for _, id := range res.InvalidNodes() {
		printReport(id, res.Reports[id])
	}
	for _, ef := range res.EdgeFindings {
		printWarning("%s", ef.String())
	}
	printStats(res.Stats)
	return nil
}
