package notes

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/marcus/charnotes/internal/host"
)

type memBackend struct {
	mu      sync.Mutex
	docs    map[string][]byte
	readErr error
	failing bool
	writes  int
}

func newMemBackend() *memBackend {
	return &memBackend{docs: make(map[string][]byte)}
}

func (m *memBackend) Read(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return nil, m.readErr
	}
	doc, ok := m.docs[key]
	if !ok {
		return nil, host.ErrNotFound
	}
	return append([]byte(nil), doc...), nil
}

func (m *memBackend) Write(ctx context.Context, key string, doc []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	if m.failing {
		return errors.New("storage unavailable")
	}
	m.docs[key] = append([]byte(nil), doc...)
	return nil
}

func (m *memBackend) doc(key string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return string(m.docs[key])
}

func testCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func newLoadedStore(t *testing.T, backend *memBackend) *Store {
	t.Helper()
	s := NewStore(backend, Options{})
	t.Cleanup(func() { s.Close(context.Background()) })
	if err := s.Load(testCtx(t)); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return s
}

func mustSave(t *testing.T, s *Store, char, folder string, index int, title, text string) Locator {
	t.Helper()
	loc, err := s.SaveNote(char, folder, index, title, text)
	if err != nil {
		t.Fatalf("SaveNote(%q, %q, %d): %v", char, folder, index, err)
	}
	return loc
}

func mustList(t *testing.T, s *Store, char, folder string) []Note {
	t.Helper()
	notes, err := s.ListNotes(char, folder)
	if err != nil {
		t.Fatalf("ListNotes: %v", err)
	}
	return notes
}

func TestStore_NotReadyBeforeLoad(t *testing.T) {
	s := NewStore(newMemBackend(), Options{})
	defer s.Close(context.Background())

	checks := map[string]error{
		"EnsureCharacter": s.EnsureCharacter("c1"),
		"DeleteNote":      s.DeleteNote("c1", RootFolder, 0),
		"DeleteFolder":    s.DeleteFolder("c1", "x"),
		"Persist":         s.Persist(),
	}
	_, checks["ListFolders"] = s.ListFolders("c1")
	_, checks["ListNotes"] = s.ListNotes("c1", RootFolder)
	_, checks["SaveNote"] = s.SaveNote("c1", RootFolder, -1, "t", "x")
	_, checks["Characters"] = s.Characters()

	for name, err := range checks {
		if !errors.Is(err, ErrNotReady) {
			t.Errorf("%s before Load = %v, want ErrNotReady", name, err)
		}
	}
	if s.Loaded() {
		t.Error("Loaded() should be false before Load")
	}
}

func TestStore_NewCharacterHasOnlyRoot(t *testing.T) {
	s := newLoadedStore(t, newMemBackend())

	for _, char := range []string{"c1", "unknown", "someone else"} {
		if err := s.EnsureCharacter(char); err != nil {
			t.Fatalf("EnsureCharacter: %v", err)
		}
		folders, err := s.ListFolders(char)
		if err != nil {
			t.Fatalf("ListFolders: %v", err)
		}
		if !reflect.DeepEqual(folders, []string{RootFolder}) {
			t.Errorf("ListFolders(%q) = %v, want only root", char, folders)
		}
		if notes := mustList(t, s, char, RootFolder); len(notes) != 0 {
			t.Errorf("ListNotes(%q) = %v, want empty", char, notes)
		}
	}

	// Ensuring twice keeps existing data.
	mustSave(t, s, "c1", RootFolder, NewNoteIndex, "Plan", "Do X")
	s.EnsureCharacter("c1")
	if got := mustList(t, s, "c1", RootFolder); len(got) != 1 {
		t.Errorf("EnsureCharacter should not reset notes, got %v", got)
	}
}

func TestStore_ListFoldersUnknownCharacter(t *testing.T) {
	s := newLoadedStore(t, newMemBackend())
	folders, err := s.ListFolders("nobody")
	if err != nil {
		t.Fatalf("ListFolders: %v", err)
	}
	if !reflect.DeepEqual(folders, []string{RootFolder}) {
		t.Errorf("got %v, want root only", folders)
	}
	chars, _ := s.Characters()
	if len(chars) != 0 {
		t.Errorf("listing must not create characters, got %v", chars)
	}
}

func TestStore_ListNotesMissingFolder(t *testing.T) {
	s := newLoadedStore(t, newMemBackend())
	mustSave(t, s, "c1", RootFolder, NewNoteIndex, "Plan", "Do X")

	notes, err := s.ListNotes("c1", "does-not-exist")
	if err != nil {
		t.Fatalf("ListNotes on missing folder should not fail: %v", err)
	}
	if notes == nil || len(notes) != 0 {
		t.Errorf("want empty non-nil slice, got %#v", notes)
	}
}

func TestStore_Scenario(t *testing.T) {
	s := newLoadedStore(t, newMemBackend())

	loc := mustSave(t, s, "c1", "##root##", -1, "Plan", "Do X")
	if loc.Index != 0 || loc.Folder != RootFolder {
		t.Fatalf("first save = %+v, want index 0 in root", loc)
	}
	want := []Note{{Title: "Plan", Text: "Do X"}}
	if got := mustList(t, s, "c1", "##root##"); !reflect.DeepEqual(got, want) {
		t.Fatalf("after first save = %v, want %v", got, want)
	}

	loc = mustSave(t, s, "c1", "##root##", -1, "Plan B", "Do Y")
	if loc.Index != 1 {
		t.Fatalf("second save index = %d, want 1", loc.Index)
	}
	loc = mustSave(t, s, "c1", "##root##", 0, "Plan A", "Do X revised")
	if loc.Index != 0 {
		t.Fatalf("overwrite index = %d, want 0", loc.Index)
	}
	want = []Note{
		{Title: "Plan A", Text: "Do X revised"},
		{Title: "Plan B", Text: "Do Y"},
	}
	if got := mustList(t, s, "c1", "##root##"); !reflect.DeepEqual(got, want) {
		t.Fatalf("after overwrite = %v, want %v", got, want)
	}

	if err := s.DeleteNote("c1", "##root##", 0); err != nil {
		t.Fatalf("DeleteNote: %v", err)
	}
	want = []Note{{Title: "Plan B", Text: "Do Y"}}
	if got := mustList(t, s, "c1", "##root##"); !reflect.DeepEqual(got, want) {
		t.Fatalf("after delete = %v, want %v", got, want)
	}
}

func TestStore_SaveOutOfRangeIndexAppends(t *testing.T) {
	s := newLoadedStore(t, newMemBackend())
	mustSave(t, s, "c1", RootFolder, NewNoteIndex, "one", "")

	for _, idx := range []int{-5, 1, 99} {
		loc := mustSave(t, s, "c1", RootFolder, idx, "appended", "")
		notes := mustList(t, s, "c1", RootFolder)
		if loc.Index != len(notes)-1 {
			t.Errorf("save at %d returned %d, want last index %d", idx, loc.Index, len(notes)-1)
		}
	}
}

func TestStore_SaveTrimsTitleAndCreatesFolder(t *testing.T) {
	s := newLoadedStore(t, newMemBackend())

	loc := mustSave(t, s, "c1", "Lore", NewNoteIndex, "  Plan  ", "body\n")
	if loc.Folder != "Lore" || loc.Index != 0 {
		t.Fatalf("got %+v", loc)
	}
	notes := mustList(t, s, "c1", "Lore")
	if notes[0].Title != "Plan" {
		t.Errorf("title = %q, want trimmed", notes[0].Title)
	}
	if notes[0].Text != "body\n" {
		t.Errorf("text = %q, want verbatim", notes[0].Text)
	}

	folders, _ := s.ListFolders("c1")
	if !reflect.DeepEqual(folders, []string{RootFolder, "Lore"}) {
		t.Errorf("folders = %v", folders)
	}

	// A blank folder name targets the root folder.
	loc = mustSave(t, s, "c1", "  ", NewNoteIndex, "root note", "")
	if loc.Folder != RootFolder {
		t.Errorf("blank folder saved to %q, want root", loc.Folder)
	}
}

func TestStore_SaveEmptyTitleRejected(t *testing.T) {
	s := newLoadedStore(t, newMemBackend())
	mustSave(t, s, "c1", RootFolder, NewNoteIndex, "Plan", "Do X")
	before := mustList(t, s, "c1", RootFolder)
	foldersBefore, _ := s.ListFolders("c1")

	for _, title := range []string{"", "   ", "\t\n"} {
		for _, idx := range []int{NewNoteIndex, 0} {
			_, err := s.SaveNote("c1", "NewFolder", idx, title, "text")
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("SaveNote(%q) error = %v, want *ValidationError", title, err)
			}
			if !errors.Is(err, ErrValidation) {
				t.Errorf("error should match ErrValidation")
			}
			_, err = s.SaveNote("c1", RootFolder, idx, title, "text")
			if !errors.Is(err, ErrValidation) {
				t.Errorf("SaveNote root(%q) = %v", title, err)
			}
		}
	}

	if after := mustList(t, s, "c1", RootFolder); !reflect.DeepEqual(before, after) {
		t.Errorf("notes changed after rejected save: %v -> %v", before, after)
	}
	if after, _ := s.ListFolders("c1"); !reflect.DeepEqual(foldersBefore, after) {
		t.Errorf("rejected save created a folder: %v", after)
	}

	// Character must not be created by a rejected save either.
	s.SaveNote("fresh", RootFolder, NewNoteIndex, " ", "")
	if chars, _ := s.Characters(); !reflect.DeepEqual(chars, []string{"c1"}) {
		t.Errorf("characters = %v, want [c1]", chars)
	}
}

func TestStore_DeleteNoteOutOfRangeIsNoop(t *testing.T) {
	s := newLoadedStore(t, newMemBackend())
	mustSave(t, s, "c1", RootFolder, NewNoteIndex, "a", "1")
	mustSave(t, s, "c1", RootFolder, NewNoteIndex, "b", "2")
	before := mustList(t, s, "c1", RootFolder)

	for _, idx := range []int{NewNoteIndex, -2, 2, 100} {
		if err := s.DeleteNote("c1", RootFolder, idx); err != nil {
			t.Errorf("DeleteNote(%d) = %v, want nil", idx, err)
		}
	}
	if err := s.DeleteNote("c1", "missing", 0); err != nil {
		t.Errorf("DeleteNote on missing folder = %v", err)
	}
	if err := s.DeleteNote("nobody", RootFolder, 0); err != nil {
		t.Errorf("DeleteNote on missing character = %v", err)
	}

	if after := mustList(t, s, "c1", RootFolder); !reflect.DeepEqual(before, after) {
		t.Errorf("notes changed: %v -> %v", before, after)
	}
}

func TestStore_DeleteFolder(t *testing.T) {
	s := newLoadedStore(t, newMemBackend())
	mustSave(t, s, "c1", RootFolder, NewNoteIndex, "root", "")
	mustSave(t, s, "c1", "Quests", NewNoteIndex, "q1", "")
	mustSave(t, s, "c1", "Lore", NewNoteIndex, "l1", "")

	err := s.DeleteFolder("c1", RootFolder)
	var perr *ProtectedFolderError
	if !errors.As(err, &perr) || !errors.Is(err, ErrProtectedFolder) {
		t.Fatalf("DeleteFolder(root) = %v, want ProtectedFolderError", err)
	}
	if err := s.DeleteFolder("c1", ""); !errors.Is(err, ErrProtectedFolder) {
		t.Errorf("DeleteFolder(blank) = %v, blank names the root folder", err)
	}
	if got := mustList(t, s, "c1", RootFolder); len(got) != 1 {
		t.Errorf("root notes changed after protected delete: %v", got)
	}

	if err := s.DeleteFolder("c1", "Quests"); err != nil {
		t.Fatalf("DeleteFolder: %v", err)
	}
	folders, _ := s.ListFolders("c1")
	if !reflect.DeepEqual(folders, []string{RootFolder, "Lore"}) {
		t.Errorf("folders after delete = %v", folders)
	}
	if got := mustList(t, s, "c1", "Quests"); len(got) != 0 {
		t.Errorf("deleted folder notes still reachable: %v", got)
	}

	// Recreating the name starts empty and goes to the end.
	mustSave(t, s, "c1", "Quests", NewNoteIndex, "q2", "")
	folders, _ = s.ListFolders("c1")
	if !reflect.DeepEqual(folders, []string{RootFolder, "Lore", "Quests"}) {
		t.Errorf("folders after recreate = %v", folders)
	}
	if got := mustList(t, s, "c1", "Quests"); len(got) != 1 || got[0].Title != "q2" {
		t.Errorf("recreated folder = %v", got)
	}
}

func TestStore_ListNotesReturnsCopy(t *testing.T) {
	s := newLoadedStore(t, newMemBackend())
	mustSave(t, s, "c1", RootFolder, NewNoteIndex, "Plan", "Do X")

	got := mustList(t, s, "c1", RootFolder)
	got[0].Title = "mutated"
	if again := mustList(t, s, "c1", RootFolder); again[0].Title != "Plan" {
		t.Error("ListNotes result aliases store state")
	}
}

func TestStore_PersistLoadRoundTrip(t *testing.T) {
	backend := newMemBackend()
	s := newLoadedStore(t, backend)
	mustSave(t, s, "c1", RootFolder, NewNoteIndex, "Plan", "Do X")
	mustSave(t, s, "c1", "Zeta", NewNoteIndex, "z", "last")
	mustSave(t, s, "c1", "Alpha", NewNoteIndex, "a", "first")
	mustSave(t, s, "c2", RootFolder, NewNoteIndex, "Other", "")
	if err := s.Persist(); err != nil {
		t.Fatalf("Persist: %v", err)
	}
	if err := s.Flush(testCtx(t)); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	restarted := newLoadedStore(t, backend)
	for _, char := range []string{"c1", "c2"} {
		wantFolders, _ := s.ListFolders(char)
		gotFolders, _ := restarted.ListFolders(char)
		if !reflect.DeepEqual(wantFolders, gotFolders) {
			t.Errorf("%s folders = %v, want %v", char, gotFolders, wantFolders)
		}
		for _, f := range wantFolders {
			if !reflect.DeepEqual(mustList(t, s, char, f), mustList(t, restarted, char, f)) {
				t.Errorf("%s/%s notes differ after restart", char, f)
			}
		}
	}
	if folders, _ := restarted.ListFolders("c1"); !reflect.DeepEqual(folders, []string{RootFolder, "Zeta", "Alpha"}) {
		t.Errorf("insertion order lost: %v", folders)
	}
}

func TestStore_LoadMissingDocumentStartsEmpty(t *testing.T) {
	s := newLoadedStore(t, newMemBackend())
	chars, err := s.Characters()
	if err != nil || len(chars) != 0 {
		t.Errorf("Characters() = %v, %v", chars, err)
	}
}

func TestStore_LoadReadErrorKeepsUnloaded(t *testing.T) {
	backend := newMemBackend()
	backend.readErr = errors.New("host offline")
	s := NewStore(backend, Options{})
	defer s.Close(context.Background())

	if err := s.Load(testCtx(t)); err == nil {
		t.Fatal("Load should fail when the host cannot read")
	}
	if s.Loaded() {
		t.Error("store should remain unloaded")
	}
}

func TestStore_LoadCorruptDocument(t *testing.T) {
	backend := newMemBackend()
	backend.docs[DefaultKey] = []byte(`{"c1": "not notes"}`)
	s := NewStore(backend, Options{})
	defer s.Close(context.Background())

	if err := s.Load(testCtx(t)); err == nil {
		t.Fatal("Load should reject a malformed document")
	}
	if backend.doc(DefaultKey) != `{"c1": "not notes"}` {
		t.Error("malformed document must not be overwritten")
	}
}

func TestStore_LoadMigratesLegacyShape(t *testing.T) {
	backend := newMemBackend()
	backend.docs[DefaultKey] = []byte(`{
		"c1": [{"title":"Plan","text":"Do X"},{"title":"Plan B","text":"Do Y"}],
		"c2": {"##root##": [], "Lore": [{"title":"l","text":"t"}]}
	}`)
	s := newLoadedStore(t, backend)

	want := []Note{{Title: "Plan", Text: "Do X"}, {Title: "Plan B", Text: "Do Y"}}
	if got := mustList(t, s, "c1", RootFolder); !reflect.DeepEqual(got, want) {
		t.Errorf("legacy notes = %v, want %v", got, want)
	}
	if folders, _ := s.ListFolders("c2"); !reflect.DeepEqual(folders, []string{RootFolder, "Lore"}) {
		t.Errorf("c2 folders = %v", folders)
	}

	// The upgrade is written back once.
	if err := s.Flush(testCtx(t)); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	var persisted map[string]map[string][]Note
	if err := json.Unmarshal([]byte(backend.doc(DefaultKey)), &persisted); err != nil {
		t.Fatalf("persisted document is not in folder shape: %v", err)
	}
	if !reflect.DeepEqual(persisted["c1"][RootFolder], want) {
		t.Errorf("persisted c1 = %v", persisted["c1"])
	}

	// Loading the migrated document again must not wrap it twice.
	if err := s.Load(testCtx(t)); err != nil {
		t.Fatalf("second Load: %v", err)
	}
	if got := mustList(t, s, "c1", RootFolder); !reflect.DeepEqual(got, want) {
		t.Errorf("after reload = %v", got)
	}
}

func TestStore_LoadAddsMissingRootFolder(t *testing.T) {
	backend := newMemBackend()
	backend.docs[DefaultKey] = []byte(`{"c1": {"Lore": [{"title":"l","text":""}]}}`)
	s := newLoadedStore(t, backend)

	folders, _ := s.ListFolders("c1")
	if !reflect.DeepEqual(folders, []string{RootFolder, "Lore"}) {
		t.Errorf("folders = %v, want root added", folders)
	}
}

func TestStore_PersistFailureReportedThenRetried(t *testing.T) {
	backend := newMemBackend()
	var mu sync.Mutex
	var reported []error
	s := NewStore(backend, Options{OnPersistError: func(err error) {
		mu.Lock()
		reported = append(reported, err)
		mu.Unlock()
	}})
	defer s.Close(context.Background())
	if err := s.Load(testCtx(t)); err != nil {
		t.Fatalf("Load: %v", err)
	}

	backend.mu.Lock()
	backend.failing = true
	backend.mu.Unlock()

	mustSave(t, s, "c1", RootFolder, NewNoteIndex, "Plan", "Do X")
	if err := s.Persist(); err != nil {
		t.Fatalf("Persist should not fail synchronously: %v", err)
	}
	if err := s.Flush(testCtx(t)); err == nil {
		t.Fatal("Flush should surface the write failure")
	}
	mu.Lock()
	if len(reported) == 0 {
		t.Error("OnPersistError was not called")
	}
	mu.Unlock()

	// In-memory state stays authoritative.
	if got := mustList(t, s, "c1", RootFolder); len(got) != 1 {
		t.Errorf("in-memory notes lost after failed persist: %v", got)
	}

	backend.mu.Lock()
	backend.failing = false
	backend.mu.Unlock()

	mustSave(t, s, "c1", RootFolder, NewNoteIndex, "Plan B", "Do Y")
	s.Persist()
	if err := s.Flush(testCtx(t)); err != nil {
		t.Fatalf("Flush after recovery: %v", err)
	}
	var persisted map[string]map[string][]Note
	json.Unmarshal([]byte(backend.doc(DefaultKey)), &persisted)
	if len(persisted["c1"][RootFolder]) != 2 {
		t.Errorf("recovered document = %v", persisted)
	}
}

func TestStore_CustomKey(t *testing.T) {
	backend := newMemBackend()
	s := NewStore(backend, Options{Key: "my-notes"})
	defer s.Close(context.Background())
	s.Load(testCtx(t))
	mustSave(t, s, "c1", RootFolder, NewNoteIndex, "Plan", "")
	s.Persist()
	s.Flush(testCtx(t))

	if backend.doc("my-notes") == "" {
		t.Error("document not written under custom key")
	}
	if backend.doc(DefaultKey) != "" {
		t.Error("document written under default key")
	}
}

func TestStore_Export(t *testing.T) {
	s := newLoadedStore(t, newMemBackend())
	mustSave(t, s, "c1", "", -1, "a", "one")
	mustSave(t, s, "c1", "zeta", -1, "b", "two")
	mustSave(t, s, "c1", "alpha", -1, "c", "three")

	data, err := s.Export("c1")
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	var nb Notebook
	if err := json.Unmarshal(data, &nb); err != nil {
		t.Fatalf("Unmarshal export: %v", err)
	}
	want := []string{RootFolder, "zeta", "alpha"}
	if got := nb.names(); !reflect.DeepEqual(got, want) {
		t.Errorf("exported folders = %v, want %v", got, want)
	}

	all, err := s.Export("")
	if err != nil {
		t.Fatalf("Export all: %v", err)
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(all, &doc); err != nil {
		t.Fatalf("Unmarshal document: %v", err)
	}
	if _, ok := doc["c1"]; !ok || len(doc) != 1 {
		t.Errorf("exported document keys = %v", doc)
	}
}

func TestStore_LoadNormalizesStoredFolderNames(t *testing.T) {
	backend := newMemBackend()
	backend.docs[DefaultKey] = []byte(`{"c1": {
		"##root##": [],
		"  ideas ": [{"title":"a","text":"b"}],
		"ideas": [{"title":"c","text":"d"}],
		"": [{"title":"r","text":""}]
	}}`)
	s := newLoadedStore(t, backend)

	folders, _ := s.ListFolders("c1")
	if !reflect.DeepEqual(folders, []string{RootFolder, "ideas"}) {
		t.Fatalf("folders = %v, want root and ideas", folders)
	}
	if got := mustList(t, s, "c1", "  ideas "); len(got) != 2 || got[0].Title != "a" || got[1].Title != "c" {
		t.Errorf("ListNotes(padded name) = %+v, want both merged notes", got)
	}
	if got := mustList(t, s, "c1", RootFolder); len(got) != 1 || got[0].Title != "r" {
		t.Errorf("root notes = %+v, want the blank-named folder merged in", got)
	}

	if err := s.DeleteFolder("c1", "  ideas "); err != nil {
		t.Fatalf("DeleteFolder: %v", err)
	}
	folders, _ = s.ListFolders("c1")
	if !reflect.DeepEqual(folders, []string{RootFolder}) {
		t.Errorf("folders after delete = %v, want only root", folders)
	}
}

func TestStore_ReloadKeepsPendingMutations(t *testing.T) {
	backend := newMemBackend()
	s := NewStore(backend, Options{Debounce: time.Hour})
	t.Cleanup(func() { s.Close(context.Background()) })
	if err := s.Load(testCtx(t)); err != nil {
		t.Fatalf("Load: %v", err)
	}

	mustSave(t, s, "c1", "Quests", -1, "Dragon", "north")
	if err := s.Persist(); err != nil {
		t.Fatalf("Persist: %v", err)
	}
	if err := s.Load(testCtx(t)); err != nil {
		t.Fatalf("second Load: %v", err)
	}

	if got := mustList(t, s, "c1", "Quests"); len(got) != 1 || got[0].Title != "Dragon" {
		t.Errorf("notes after reload = %+v, want the pending note", got)
	}
	if backend.doc(DefaultKey) == "" {
		t.Error("pending snapshot should be written before reloading")
	}
}

func TestStore_ConcurrentPersistLandsLatest(t *testing.T) {
	backend := newMemBackend()
	s := newLoadedStore(t, backend)

	const workers, perWorker = 8, 20
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				if _, err := s.SaveNote("c1", "", -1, "n", "x"); err != nil {
					t.Errorf("SaveNote: %v", err)
					return
				}
				if err := s.Persist(); err != nil {
					t.Errorf("Persist: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()
	if err := s.Flush(testCtx(t)); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	reloaded := newLoadedStore(t, backend)
	if got := len(mustList(t, reloaded, "c1", RootFolder)); got != workers*perWorker {
		t.Errorf("persisted notes = %d, want %d", got, workers*perWorker)
	}
}
