package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"emoji-inventory/internal/catalog"
	"emoji-inventory/internal/inventory"
	"emoji-inventory/internal/overlay"
	"emoji-inventory/internal/render"

	"github.com/gdamore/tcell/v2"
)

func main() {
	snapshot := flag.String("snapshot", "inventory.json", "Path to the inventory snapshot JSON file")
	variant := flag.String("variant", "windowed", "Pocket rendering: windowed or full")
	pageSize := flag.Int("page-size", inventory.PageSize, "Pockets revealed per page in the windowed variant")
	logFile := flag.String("log", "", "Write debug logs to this file")
	demo := flag.Int("demo", 0, "Show a generated snapshot with this many pockets instead of reading --snapshot")
	seed := flag.Int64("seed", 1, "Seed for --demo")
	flag.Parse()

	if err := run(*snapshot, *variant, *pageSize, *logFile, *demo, *seed); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(snapshot, variant string, pageSize int, logFile string, demo int, seed int64) error {
	v, err := render.ParseVariant(variant)
	if err != nil {
		return err
	}

	// The screen owns the terminal, so logs go to a file or nowhere.
	logger := slog.New(slog.DiscardHandler)
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("open log: %w", err)
		}
		defer f.Close()
		logger = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	var store *inventory.Store
	if demo > 0 {
		store = inventory.NewStaticStore(catalog.Demo(seed, demo), logger)
	} else {
		store = inventory.NewStore(snapshot, logger)
		if err := store.Reload(); err != nil {
			return err
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	viewer := overlay.NewViewer(screen, store, overlay.Options{
		Variant:     v,
		PageSize:    pageSize,
		AllowReload: demo == 0,
	}, logger)
	if err := viewer.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
