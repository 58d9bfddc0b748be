// Package editor is the editing session: it owns the document, the history
// and the input normalizer, applies the default action of every edit the
// normalizer lets through and records it as a change.
package editor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/bethropolis/stylo/internal/config"
	"github.com/bethropolis/stylo/internal/dom"
	"github.com/bethropolis/stylo/internal/event"
	"github.com/bethropolis/stylo/internal/history"
	"github.com/bethropolis/stylo/internal/input"
	"github.com/bethropolis/stylo/internal/logger"
)

// Editor is a single editing session over one document.
type Editor struct {
	doc        *dom.Document
	container  *dom.Node
	cfg        config.EditorConfig
	history    *history.Manager
	normalizer *input.Normalizer
	sanitizer  *bluemonday.Policy

	eventManager *event.Manager
	filePath     string
	modified     bool
}

// New creates an editor with an empty container.
func New(cfg config.EditorConfig) *Editor {
	doc := dom.NewDocument(config.DefaultRootTag)
	h := history.NewManager(cfg.UndoLimit)
	e := &Editor{
		doc:        doc,
		container:  doc.Root(),
		cfg:        cfg,
		history:    h,
		normalizer: input.NewNormalizer(doc.Root(), cfg, h),
		sanitizer:  dom.NewSanitizer(cfg.TextParagraphs),
	}
	return e
}

// SetEventManager sets the event manager for dispatching events.
func (e *Editor) SetEventManager(mgr *event.Manager) {
	e.eventManager = mgr
	e.history.SetEventManager(mgr)
	e.normalizer.SetEventManager(mgr)
}

func (e *Editor) Document() *dom.Document       { return e.doc }
func (e *Editor) Container() *dom.Node          { return e.container }
func (e *Editor) History() *history.Manager     { return e.history }
func (e *Editor) Normalizer() *input.Normalizer { return e.normalizer }
func (e *Editor) FilePath() string              { return e.filePath }
func (e *Editor) IsModified() bool              { return e.modified }

// HTML returns the markup of the container content.
func (e *Editor) HTML() string { return e.container.InnerHTML() }

// Load replaces the document with markup and resets the history. Text found
// directly under the container is wrapped into default paragraphs.
func (e *Editor) Load(markup, filePath string) error {
	if e.cfg.Sanitize {
		markup = e.sanitizer.Sanitize(markup)
	}
	if err := e.container.SetInnerHTML(markup); err != nil {
		return fmt.Errorf("loading document: %w", err)
	}
	if err := e.wrapTextLeaves(); err != nil {
		return fmt.Errorf("loading document: %w", err)
	}

	e.filePath = filePath
	e.modified = false
	e.history.Clear()
	e.doc.MoveCursorToStart(e.container.Child(0))

	logger.Infof("Editor: loaded %d paragraph(s) from '%s'", e.container.ElementCount(), filePath)
	e.eventManager.Dispatch(event.TypeDocumentLoaded, event.DocumentLoadedData{
		FilePath:   filePath,
		Paragraphs: e.container.ElementCount(),
	})
	return nil
}

// LoadFile loads filePath. A missing file opens an empty document that will
// be created on save.
func (e *Editor) LoadFile(filePath string) error {
	content, err := os.ReadFile(filePath)
	if errors.Is(err, os.ErrNotExist) {
		logger.Infof("Editor: '%s' does not exist, starting empty", filePath)
		return e.Load("", filePath)
	}
	if err != nil {
		return fmt.Errorf("reading '%s': %w", filePath, err)
	}
	return e.Load(string(content), filePath)
}

// Save writes the document markup to its file.
func (e *Editor) Save() error {
	if e.filePath == "" {
		return errors.New("no file name")
	}
	if err := os.WriteFile(e.filePath, []byte(e.HTML()+"\n"), 0o644); err != nil {
		return fmt.Errorf("writing '%s': %w", e.filePath, err)
	}
	e.modified = false
	logger.Infof("Editor: saved '%s'", e.filePath)
	return nil
}

func (e *Editor) wrapTextLeaves() error {
	for _, child := range e.container.ChildNodes() {
		if !child.IsText() {
			continue
		}
		if strings.TrimSpace(child.Value()) == "" {
			if err := child.Remove(); err != nil {
				return err
			}
			continue
		}
		paragraph := e.doc.CreateElement(e.cfg.DefaultParagraph)
		if err := child.ReplaceWith(paragraph); err != nil {
			return err
		}
		if err := paragraph.AppendChild(child); err != nil {
			return err
		}
	}
	return nil
}

// Undo reverts the last change.
func (e *Editor) Undo(ctx context.Context) error {
	if !e.history.CanUndo() {
		return nil
	}
	if err := e.history.Undo(ctx); err != nil {
		return err
	}
	e.modified = true
	e.caretMoved()
	return nil
}

// Redo reapplies the last undone change.
func (e *Editor) Redo(ctx context.Context) error {
	if !e.history.CanRedo() {
		return nil
	}
	if err := e.history.Redo(ctx); err != nil {
		return err
	}
	e.modified = true
	e.caretMoved()
	return nil
}

// Paragraph is the display form of a top-level paragraph.
type Paragraph struct {
	Tag  string
	Text string
}

// Paragraphs lists the container paragraphs in order.
func (e *Editor) Paragraphs() []Paragraph {
	children := e.container.Children()
	out := make([]Paragraph, len(children))
	for i, c := range children {
		out[i] = Paragraph{Tag: c.NodeName(), Text: c.TextContent()}
	}
	return out
}
