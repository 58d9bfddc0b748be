// Package app wires the editing session to the terminal: it owns the event
// loop, maps keys to editor actions and redraws after every change.
package app

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/gdamore/tcell/v2"

	"github.com/bethropolis/stylo/internal/config"
	"github.com/bethropolis/stylo/internal/editor"
	"github.com/bethropolis/stylo/internal/event"
	"github.com/bethropolis/stylo/internal/keymap"
	"github.com/bethropolis/stylo/internal/logger"
	"github.com/bethropolis/stylo/internal/statusbar"
	"github.com/bethropolis/stylo/internal/tui"
)

// App encapsulates the core components and main loop of the editor.
type App struct {
	tuiManager     *tui.TUI
	editor         *editor.Editor
	statusBar      *statusbar.StatusBar
	eventManager   *event.Manager
	inputProcessor *keymap.InputProcessor
	viewport       tui.Viewport
	cfg            *config.Config

	// readClipboard returns the text pasted by Ctrl+V.
	readClipboard func() (string, error)

	ctx    context.Context
	cancel context.CancelFunc

	// Channels managed by the App
	quit          chan struct{}
	events        chan tcell.Event
	redrawRequest chan struct{}
}

// NewApp creates the application on the real terminal and loads filePath.
func NewApp(cfg *config.Config, filePath string) (*App, error) {
	tuiManager, err := tui.New()
	if err != nil {
		return nil, fmt.Errorf("TUI initialization failed: %w", err)
	}
	a, err := newApp(cfg, tuiManager, filePath)
	if err != nil {
		tuiManager.Close()
		return nil, err
	}
	return a, nil
}

func newApp(cfg *config.Config, tuiManager *tui.TUI, filePath string) (*App, error) {
	eventManager := event.NewManager()
	ed := editor.New(cfg.Editor)
	ed.SetEventManager(eventManager)

	ctx, cancel := context.WithCancel(context.Background())
	a := &App{
		tuiManager:     tuiManager,
		editor:         ed,
		statusBar:      statusbar.New(statusbar.DefaultConfig()),
		eventManager:   eventManager,
		inputProcessor: keymap.NewInputProcessor(),
		cfg:            cfg,
		readClipboard:  func() (string, error) { return "", nil },
		ctx:            ctx,
		cancel:         cancel,
		quit:           make(chan struct{}),
		events:         make(chan tcell.Event, 16),
		redrawRequest:  make(chan struct{}, 1),
	}
	if cfg.Editor.SystemClipboard && !clipboard.Unsupported {
		a.readClipboard = clipboard.ReadAll
	}
	a.subscribe()

	if filePath != "" {
		if err := ed.LoadFile(filePath); err != nil {
			cancel()
			return nil, err
		}
	} else if err := ed.Load("", ""); err != nil {
		cancel()
		return nil, err
	}
	return a, nil
}

// Run starts the event loop and redraws until the user quits. Every edit runs
// on this goroutine, so undo and redo never overlap.
func (a *App) Run() error {
	defer a.tuiManager.Close()
	defer a.cancel()

	go a.pollEvents()

	a.eventManager.Dispatch(event.TypeAppReady, event.AppReadyData{})
	a.statusBar.SetTemporaryMessage("Stylo - Ctrl+Z Undo | Ctrl+Y Redo | Ctrl+S Save | ESC Quit")
	a.requestRedraw()

	for {
		select {
		case <-a.quit:
			a.eventManager.Dispatch(event.TypeAppQuit, event.AppQuitData{})
			if a.editor.IsModified() {
				logger.Warnf("App: exited with unsaved changes")
			}
			logger.Infof("App: exiting")
			return nil
		case ev := <-a.events:
			if a.handleEvent(ev) {
				a.requestRedraw()
			}
		case <-a.redrawRequest:
			a.drawEditor()
		}
	}
}

// pollEvents forwards terminal events to Run.
func (a *App) pollEvents() {
	for {
		ev := a.tuiManager.PollEvent()
		if ev == nil {
			return
		}
		select {
		case a.events <- ev:
		case <-a.ctx.Done():
			return
		}
	}
}

func (a *App) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		a.tuiManager.GetScreen().Sync()
		return true
	case *tcell.EventKey:
		a.eventManager.Dispatch(event.TypeKeyPressed, event.KeyPressedData{KeyEvent: ev})
		return a.handleKey(ev)
	}
	return false
}

// requestRedraw sends a redraw signal non-blockingly.
func (a *App) requestRedraw() {
	select {
	case a.redrawRequest <- struct{}{}:
	default: // Don't block if a redraw is already pending
	}
}

// Quit stops Run.
func (a *App) Quit() {
	select {
	case <-a.quit:
	default:
		close(a.quit)
	}
}
