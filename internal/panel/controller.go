// Package panel drives the floating notes panel: a Controller that turns
// user actions into store calls, and a bubbletea Model that renders it.
package panel

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/marcus/charnotes/internal/host"
	"github.com/marcus/charnotes/internal/notes"
)

// User-facing messages.
const (
	msgNoCharacter       = "No character loaded."
	msgNoCharacterSave   = "No character loaded. Cannot save note."
	msgNoCharacterDelete = "No character loaded. Cannot delete note."
	msgEmptyTitle        = "Note title cannot be empty."
	msgSaved             = "Note saved successfully!"
	msgDeleted           = "Note deleted."
	msgNoSelection       = "No note selected to delete."
	msgProtectedFolder   = "The root folder cannot be deleted."
	msgNotReady          = "Notes are still loading."
)

// Store is the subset of *notes.Store the controller uses.
type Store interface {
	EnsureCharacter(charID string) error
	ListFolders(charID string) ([]string, error)
	ListNotes(charID, folder string) ([]notes.Note, error)
	SaveNote(charID, folder string, index int, title, text string) (notes.Locator, error)
	DeleteNote(charID, folder string, index int) error
	DeleteFolder(charID, folder string) error
	Persist() error
}

// FolderMemory remembers the folder last viewed per character.
type FolderMemory interface {
	LastFolder(charID string) string
	SetLastFolder(charID, folder string)
}

// Options configures a Controller.
type Options struct {
	Memory FolderMemory
	Logger *slog.Logger
}

// View is a snapshot of everything the panel shows.
type View struct {
	Open      bool
	Character string
	Folders   []string
	Titles    []string
	// Selection is the current folder and note. Index is notes.NewNoteIndex
	// when no existing note is selected.
	Selection notes.Locator
	Title     string
	Text      string
}

// Controller holds the panel's selection and forwards actions to the store.
// It is not safe for concurrent use; call it from the UI loop only.
type Controller struct {
	store    Store
	identity host.Identity
	notifier host.Notifier
	memory   FolderMemory
	logger   *slog.Logger

	open   bool
	char   string
	folder string
	index  int
	title  string
	text   string
}

// NewController returns a closed panel controller.
func NewController(store Store, identity host.Identity, notifier host.Notifier, opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if notifier == nil {
		notifier = host.Nop
	}
	c := &Controller{
		store:    store,
		identity: identity,
		notifier: notifier,
		memory:   opts.Memory,
		logger:   logger,
		folder:   notes.RootFolder,
		index:    notes.NewNoteIndex,
	}
	if identity != nil {
		if id, ok := identity.Current(); ok {
			c.char = id
		}
	}
	return c
}

// Open shows the panel for the active character. Without one the panel
// stays closed and the user is told why.
func (c *Controller) Open() {
	if c.identity != nil {
		if id, ok := c.identity.Current(); ok {
			c.char = id
		} else {
			c.char = ""
		}
	}
	if c.char == "" {
		c.open = false
		c.notifier.Notify(msgNoCharacter, host.Error)
		return
	}
	if err := c.store.EnsureCharacter(c.char); err != nil {
		c.report("open panel", err)
		return
	}

	c.folder = notes.RootFolder
	if c.memory != nil {
		if last := c.memory.LastFolder(c.char); last != "" && c.hasFolder(last) {
			c.folder = last
		}
	}
	c.clearSelection()
	c.open = true
	c.logger.Debug("panel opened", "character", c.char, "folder", c.folder)
}

// Close hides the panel. Selection is kept until the next Open.
func (c *Controller) Close() {
	c.open = false
}

// IsOpen reports whether the panel is visible.
func (c *Controller) IsOpen() bool {
	return c.open
}

// OnFolderChosen switches to folder. Unknown names fall back to the root
// folder. The note selection resets to new note.
func (c *Controller) OnFolderChosen(name string) {
	name = notes.NormalizeFolder(name)
	if !c.hasFolder(name) {
		name = notes.RootFolder
	}
	c.setFolder(name)
	c.clearSelection()
}

// OnNoteChosen selects the note at index in the current folder and loads it
// into the fields. An invalid index behaves like OnNewRequested.
func (c *Controller) OnNoteChosen(index int) {
	list, err := c.currentNotes()
	if err != nil {
		c.report("select note", err)
		return
	}
	if index < 0 || index >= len(list) {
		c.clearSelection()
		return
	}
	c.index = index
	c.title = list[index].Title
	c.text = list[index].Text
}

// OnNewRequested clears the fields and selects new note.
func (c *Controller) OnNewRequested() {
	c.clearSelection()
}

// OnSaveRequested saves the fields and reports whether the note was stored.
// A folderInput naming another folder than the current one moves an
// existing note there.
func (c *Controller) OnSaveRequested(title, text, folderInput string) bool {
	if c.char == "" {
		c.notifier.Notify(msgNoCharacterSave, host.Error)
		return false
	}
	if strings.TrimSpace(title) == "" {
		c.title, c.text = title, text
		c.notifier.Notify(msgEmptyTitle, host.Error)
		return false
	}
	text = strings.TrimSpace(text)
	target := notes.NormalizeFolder(folderInput)

	index := c.index
	moving := index >= 0 && target != c.folder
	if moving {
		index = notes.NewNoteIndex
	}

	loc, err := c.store.SaveNote(c.char, target, index, title, text)
	if err != nil {
		c.title, c.text = title, text
		c.report("save note", err)
		return false
	}
	if moving {
		if err := c.store.DeleteNote(c.char, c.folder, c.index); err != nil {
			c.report("move note", err)
		}
	}
	c.persist()

	c.setFolder(loc.Folder)
	c.OnNoteChosen(loc.Index)
	if moving {
		c.notifier.Notify(fmt.Sprintf("Note moved to %s.", describeFolder(loc.Folder)), host.Success)
		return true
	}
	c.notifier.Notify(msgSaved, host.Success)
	return true
}

// OnDeleteNoteRequested deletes the selected note.
func (c *Controller) OnDeleteNoteRequested() {
	if c.char == "" {
		c.notifier.Notify(msgNoCharacterDelete, host.Error)
		return
	}
	if c.index < 0 {
		c.notifier.Notify(msgNoSelection, host.Warning)
		return
	}
	if err := c.store.DeleteNote(c.char, c.folder, c.index); err != nil {
		c.report("delete note", err)
		return
	}
	c.persist()
	c.clearSelection()
	c.notifier.Notify(msgDeleted, host.Success)
}

// OnDeleteFolderRequested deletes the current folder and its notes, then
// returns to the root folder.
func (c *Controller) OnDeleteFolderRequested() {
	if c.char == "" {
		c.notifier.Notify(msgNoCharacterDelete, host.Error)
		return
	}
	folder := c.folder
	if err := c.store.DeleteFolder(c.char, folder); err != nil {
		if errors.Is(err, notes.ErrProtectedFolder) {
			c.notifier.Notify(msgProtectedFolder, host.Warning)
			return
		}
		c.report("delete folder", err)
		return
	}
	c.persist()
	c.setFolder(notes.RootFolder)
	c.clearSelection()
	c.notifier.Notify(fmt.Sprintf("Folder %s deleted.", describeFolder(folder)), host.Success)
}

// OnCharacterChanged re-targets the panel at id. An empty id closes the
// panel; otherwise the selection resets to the root folder.
func (c *Controller) OnCharacterChanged(id string) {
	if id == "" {
		c.char = ""
		if c.open {
			c.open = false
			c.notifier.Notify(msgNoCharacter, host.Warning)
		}
		c.folder = notes.RootFolder
		c.clearSelection()
		return
	}
	c.char = id
	c.folder = notes.RootFolder
	c.clearSelection()
	if c.open {
		if err := c.store.EnsureCharacter(id); err != nil {
			c.report("switch character", err)
		}
	}
	c.logger.Debug("character changed", "character", id)
}

// View returns the current panel contents from fresh store queries.
func (c *Controller) View() View {
	v := View{
		Open:      c.open,
		Character: c.char,
		Selection: notes.Locator{Folder: c.folder, Index: c.index},
		Title:     c.title,
		Text:      c.text,
	}
	if c.char == "" {
		v.Folders = []string{notes.RootFolder}
		return v
	}
	folders, err := c.store.ListFolders(c.char)
	if err != nil {
		c.logger.Debug("list folders failed", "err", err)
		folders = []string{notes.RootFolder}
	}
	v.Folders = folders
	list, err := c.store.ListNotes(c.char, c.folder)
	if err != nil {
		c.logger.Debug("list notes failed", "err", err)
	}
	v.Titles = make([]string, len(list))
	for i, n := range list {
		v.Titles[i] = n.Title
	}
	return v
}

func (c *Controller) currentNotes() ([]notes.Note, error) {
	if c.char == "" {
		return nil, nil
	}
	return c.store.ListNotes(c.char, c.folder)
}

func (c *Controller) hasFolder(name string) bool {
	if name == notes.RootFolder {
		return true
	}
	if c.char == "" {
		return false
	}
	folders, err := c.store.ListFolders(c.char)
	if err != nil {
		return false
	}
	for _, f := range folders {
		if f == name {
			return true
		}
	}
	return false
}

func (c *Controller) setFolder(name string) {
	c.folder = name
	if c.memory != nil && c.char != "" {
		c.memory.SetLastFolder(c.char, name)
	}
}

func (c *Controller) clearSelection() {
	c.index = notes.NewNoteIndex
	c.title = ""
	c.text = ""
}

func (c *Controller) persist() {
	if err := c.store.Persist(); err != nil {
		c.logger.Warn("persist failed", "err", err)
		c.notifier.Notify("Could not save notes: "+err.Error(), host.Warning)
	}
}

// report logs err and tells the user what went wrong.
func (c *Controller) report(op string, err error) {
	var verr *notes.ValidationError
	switch {
	case errors.As(err, &verr):
		c.notifier.Notify(msgEmptyTitle, host.Error)
	case errors.Is(err, notes.ErrNotReady):
		c.logger.Error(op+" before notes loaded", "err", err)
		c.notifier.Notify(msgNotReady, host.Error)
	default:
		c.logger.Error(op+" failed", "err", err)
		c.notifier.Notify(fmt.Sprintf("Could not %s: %v", op, err), host.Error)
	}
}

// FolderLabel returns the display name of a folder.
func FolderLabel(name string) string {
	if name == notes.RootFolder || name == "" {
		return "(root)"
	}
	return name
}

func describeFolder(name string) string {
	if name == notes.RootFolder {
		return "the root folder"
	}
	return fmt.Sprintf("%q", name)
}
