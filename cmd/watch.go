package cmd

import (
	"path/filepath"
	"time"

	"github.com/bep/debounce"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var watchOut string

func init() {
	watchCmd.Flags().StringVarP(&watchOut, "out", "o", "out.mid", "output .mid path")
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch <piece.json>",
	Short: "Re-renders a piece whenever its file changes",
	Long:  `Re-renders a piece whenever its file changes`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		watch(args[0])
	},
}

func watch(path string) {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("Could not create logger: " + err.Error())
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	render := func() {
		if err := Generate(path, watchOut); err != nil {
			logger.Warn("render failed", zap.Error(err))
			return
		}
		logger.Info("rendered", zap.String("piece", path), zap.String("out", watchOut))
	}
	render()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		panic("Could not create watcher: " + err.Error())
	}
	defer watcher.Close()

	// editors replace the file on save, so watch the directory and filter
	abs, err := filepath.Abs(path)
	if err != nil {
		panic("Could not resolve path: " + err.Error())
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		panic("Could not watch directory: " + err.Error())
	}

	debounced := debounce.New(500 * time.Millisecond)
	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			evAbs, err := filepath.Abs(ev.Name)
			if err != nil || evAbs != abs {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			debounced(render)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("watch error", zap.Error(err))
		}
	}
}
