// inventory-server serves the inventory overlay over SSH. Every connection
// gets its own viewer of the same snapshot file. Build:
//
//	go build -o inventory-server ./cmd/server
//
// Usage:
//
//	./inventory-server --snapshot inventory.json [--port 2222] [--key server_host_key]
//
// Send SIGHUP to reload the snapshot; viewers show the grids as busy while the
// reload runs. Connect with:
//
//	ssh -p 2222 localhost
package main

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"unicode"

	"emoji-inventory/internal/catalog"
	"emoji-inventory/internal/inventory"
	"emoji-inventory/internal/overlay"
	"emoji-inventory/internal/render"
	internalssh "emoji-inventory/internal/ssh"

	"github.com/gdamore/tcell/v2"
	gossh "github.com/gliderlabs/ssh"
	xssh "golang.org/x/crypto/ssh"
)

func main() {
	port := flag.Int("port", 2222, "SSH server port")
	keyFile := flag.String("key", "server_host_key", "Path to the PEM-encoded host key (auto-generated if absent)")
	snapshot := flag.String("snapshot", "", "Path to the inventory snapshot JSON file")
	variant := flag.String("variant", "windowed", "Pocket rendering: windowed or full")
	pageSize := flag.Int("page-size", inventory.PageSize, "Pockets revealed per page in the windowed variant")
	demo := flag.Int("demo", 0, "Serve a generated snapshot with this many pockets instead of --snapshot")
	flag.Parse()

	if *snapshot == "" && *demo == 0 {
		log.Fatal("--snapshot or --demo is required")
	}
	v, err := render.ParseVariant(*variant)
	if err != nil {
		log.Fatal(err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	var store *inventory.Store
	if *demo > 0 {
		store = inventory.NewStaticStore(catalog.Demo(1, *demo), logger)
	} else {
		store = inventory.NewStore(*snapshot, logger)
		if err := store.Reload(); err != nil {
			log.Fatalf("load snapshot: %v", err)
		}
		go reloadOnHangup(store)
	}

	h := &handler{
		store:  store,
		opts:   overlay.Options{Variant: v, PageSize: *pageSize},
		logger: logger,
	}
	srv := &gossh.Server{
		Addr:    fmt.Sprintf(":%d", *port),
		Handler: h.handleSession,
		// Accept PTY requests from any client.
		PtyCallback: func(_ gossh.Context, _ gossh.Pty) bool { return true },
		// Accept any authentication; the overlay is read-only.
		HostSigners: []gossh.Signer{loadOrCreateHostKey(*keyFile)},
	}

	log.Printf("inventory SSH server listening on :%d", *port)
	log.Printf("Connect with:  ssh -p %d -o StrictHostKeyChecking=no localhost", *port)
	log.Fatal(srv.ListenAndServe())
}

// reloadOnHangup reloads the snapshot file on every SIGHUP.
func reloadOnHangup(store *inventory.Store) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGHUP)
	for range ch {
		_ = store.Reload() // failures are logged by the store
	}
}

// ─── sessions ───────────────────────────────────────────────────────────────

// allowedTerms lists the TERM values a client may select. TERM is copied into
// the process environment, so anything else falls back to xterm-256color.
var allowedTerms = map[string]bool{
	"xterm":                 true,
	"xterm-256color":        true,
	"screen":                true,
	"screen-256color":       true,
	"tmux":                  true,
	"tmux-256color":         true,
	"linux":                 true,
	"vt100":                 true,
	"rxvt-unicode-256color": true,
}

// maxNameBytes caps the display name taken from the SSH user.
const maxNameBytes = 16

// sanitizeName drops control characters and truncates to maxNameBytes
// without splitting a rune.
func sanitizeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsControl(r) {
			continue
		}
		if b.Len()+len(string(r)) > maxNameBytes {
			break
		}
		b.WriteRune(r)
	}
	return b.String()
}

type handler struct {
	store  *inventory.Store
	opts   overlay.Options
	logger *slog.Logger
}

// termMu protects os.Setenv("TERM") around screen creation.
var termMu sync.Mutex

// handleSession is the gliderlabs SSH handler for one connection. It blocks
// until the viewer closes so the session stays open.
func (h *handler) handleSession(s gossh.Session) {
	pty, winCh, hasPTY := s.Pty()
	if !hasPTY {
		fmt.Fprintln(s, "The inventory viewer requires a PTY. Connect with: ssh -t -p 2222 <host>")
		return
	}

	term := "xterm-256color"
	if allowedTerms[pty.Term] {
		term = pty.Term
	}

	tty := internalssh.NewSessionTty(s, pty, winCh)
	termMu.Lock()
	_ = os.Setenv("TERM", term)
	screen, err := tcell.NewTerminfoScreenFromTty(tty)
	termMu.Unlock()
	if err != nil {
		fmt.Fprintf(s, "Terminal setup failed: %v\n", err)
		return
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(s, "Screen init failed: %v\n", err)
		return
	}
	defer screen.Fini()

	name := sanitizeName(s.User())
	logger := h.logger.With("user", name, "remote", s.RemoteAddr().String())
	logger.Info("viewer connected", "term", term)

	viewer := overlay.NewViewer(screen, h.store, h.opts, logger)
	if err := viewer.Run(s.Context()); err != nil {
		logger.Info("viewer closed", "error", err)
		return
	}
	logger.Info("viewer closed")
}

// ─── host key ───────────────────────────────────────────────────────────────

// loadOrCreateHostKey loads a PEM private key from path, or generates and
// persists a new ed25519 key if the file is absent or unreadable.
func loadOrCreateHostKey(path string) gossh.Signer {
	if data, err := os.ReadFile(path); err == nil {
		if signer, err := xssh.ParsePrivateKey(data); err == nil {
			log.Printf("Loaded host key from %s", path)
			return signer
		}
	}

	log.Printf("Generating new ed25519 host key → %s", path)
	_, key, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		log.Fatalf("generate host key: %v", err)
	}
	signer, err := xssh.NewSignerFromKey(key)
	if err != nil {
		log.Fatalf("create signer: %v", err)
	}
	// Persist for next run (non-fatal if it fails).
	if pemBlock, err := xssh.MarshalPrivateKey(key, "inventory overlay server"); err == nil {
		_ = os.WriteFile(path, pem.EncodeToMemory(pemBlock), 0600)
	}
	return signer
}
