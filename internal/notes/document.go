package notes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// RootFolder is the name of the default folder. Every notebook has it and it
// cannot be deleted.
const RootFolder = "##root##"

// NewNoteIndex is the note index meaning "no existing note selected".
const NewNoteIndex = -1

// Note is a titled text note. It has no identity beyond its position in a
// folder.
type Note struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// Locator addresses a note by folder and position. It is only valid until
// the next mutation of that folder.
type Locator struct {
	Folder string
	Index  int
}

// Notebook holds one character's folders in insertion order.
type Notebook struct {
	order   []string
	folders map[string][]Note
}

func newNotebook() *Notebook {
	nb := &Notebook{folders: make(map[string][]Note)}
	nb.ensure(RootFolder)
	return nb
}

// ensure creates the folder if it is missing and returns its notes.
func (nb *Notebook) ensure(name string) []Note {
	if nb.folders == nil {
		nb.folders = make(map[string][]Note)
	}
	notes, ok := nb.folders[name]
	if !ok {
		notes = []Note{}
		nb.folders[name] = notes
		nb.order = append(nb.order, name)
	}
	return notes
}

func (nb *Notebook) set(name string, notes []Note) {
	nb.ensure(name)
	if notes == nil {
		notes = []Note{}
	}
	nb.folders[name] = notes
}

func (nb *Notebook) has(name string) bool {
	_, ok := nb.folders[name]
	return ok
}

func (nb *Notebook) remove(name string) {
	if !nb.has(name) {
		return
	}
	delete(nb.folders, name)
	for i, n := range nb.order {
		if n == name {
			nb.order = append(nb.order[:i], nb.order[i+1:]...)
			break
		}
	}
}

// names returns folder names with the root folder first.
func (nb *Notebook) names() []string {
	out := make([]string, 0, len(nb.order))
	out = append(out, RootFolder)
	for _, n := range nb.order {
		if n != RootFolder {
			out = append(out, n)
		}
	}
	return out
}

// MarshalJSON writes folders as an object in insertion order.
func (nb *Notebook) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range nb.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		notes := nb.folders[name]
		if notes == nil {
			notes = []Note{}
		}
		val, err := json.Marshal(notes)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON accepts both the folder object and the legacy flat list of
// notes, which becomes the root folder.
func (nb *Notebook) UnmarshalJSON(data []byte) error {
	nb.order = nil
	nb.folders = make(map[string][]Note)

	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
	case data[0] == '[':
		var legacy []Note
		if err := json.Unmarshal(data, &legacy); err != nil {
			return fmt.Errorf("decode legacy notes: %w", err)
		}
		nb.set(RootFolder, legacy)
	case data[0] == '{':
		if err := nb.decodeFolders(data); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unexpected notebook value %.20q", data)
	}
	nb.ensure(RootFolder)
	return nil
}

func (nb *Notebook) decodeFolders(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("decode folders: %w", err)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("decode folder name: %w", err)
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("decode folder name: unexpected token %v", tok)
		}
		var notes []Note
		if err := dec.Decode(&notes); err != nil {
			return fmt.Errorf("decode folder %q: %w", name, err)
		}
		// Stored names get the same normalization as lookups; names that
		// collide after trimming share one folder.
		name = NormalizeFolder(name)
		nb.set(name, append(nb.folders[name], notes...))
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("decode folders: %w", err)
	}
	return nil
}

// isLegacy reports whether a raw notebook value uses the pre-folder shape.
func isLegacy(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '['
}

// document is the whole persisted mapping of character to notebook.
type document map[string]*Notebook

// decodeDocument parses a raw document and reports how many characters were
// upgraded from the legacy shape.
func decodeDocument(raw []byte) (document, int, error) {
	doc := make(document)
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return doc, 0, nil
	}

	var entries map[string]json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, 0, fmt.Errorf("decode document: %w", err)
	}

	migrated := 0
	for charID, value := range entries {
		if isLegacy(value) {
			migrated++
		}
		nb := &Notebook{}
		if err := nb.UnmarshalJSON(value); err != nil {
			return nil, 0, fmt.Errorf("character %q: %w", charID, err)
		}
		doc[charID] = nb
	}
	return doc, migrated, nil
}

func (d document) encode() ([]byte, error) {
	return json.Marshal(map[string]*Notebook(d))
}

func (d document) characters() []string {
	out := make([]string, 0, len(d))
	for id := range d {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// MigrateDocument rewrites every legacy character entry as a notebook whose
// root folder holds the old list. Migrated documents pass through unchanged,
// so applying it twice equals applying it once.
func MigrateDocument(raw []byte) ([]byte, error) {
	doc, _, err := decodeDocument(raw)
	if err != nil {
		return nil, err
	}
	return doc.encode()
}
