package cli

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stagger/pkg/errors"
	"github.com/matzehuels/stagger/pkg/todo"
)

func loadTodos(t *testing.T, path string) []todo.Item {
	t.Helper()
	store, err := todo.OpenBoltStore(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()
	items, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return items
}

func TestTodoCommands(t *testing.T) {
	c, _ := newTestCLI(t, "")
	db := filepath.Join(t.TempDir(), "todo.db")

	if err := run(t, c, "todo", "--db", db, "add", "Water", "the", "plants", "--icon", "event"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := run(t, c, "todo", "--db", db, "add", "Call the dentist"); err != nil {
		t.Fatalf("add: %v", err)
	}
	items := loadTodos(t, db)
	if len(items) != 2 {
		t.Fatalf("items = %d, want 2", len(items))
	}
	if items[0].Task != "Water the plants" || items[0].Icon != todo.IconEvent {
		t.Errorf("first item = %+v", items[0])
	}
	if items[1].Icon != todo.IconSquare {
		t.Errorf("default icon = %v, want square", items[1].Icon)
	}

	first := items[0].ID.String()
	if err := run(t, c, "todo", "--db", db, "edit", first[:6], "Water the garden", "--icon", "done"); err != nil {
		t.Fatalf("edit: %v", err)
	}
	items = loadTodos(t, db)
	if items[0].Task != "Water the garden" || items[0].Icon != todo.IconDone {
		t.Errorf("edited item = %+v", items[0])
	}
	if items[0].ID.String() != first {
		t.Error("edit changed the item id")
	}

	if err := run(t, c, "todo", "--db", db, "rm", first); err != nil {
		t.Fatalf("rm: %v", err)
	}
	items = loadTodos(t, db)
	if len(items) != 1 || items[0].Task != "Call the dentist" {
		t.Errorf("items after rm = %+v", items)
	}
}

func TestTodoErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"unknown id", []string{"rm", "ffffffff"}, errors.ErrCodeItemNotFound},
		{"blank task", []string{"add", "   "}, errors.ErrCodeInvalidInput},
		{"bad icon", []string{"add", "x", "--icon", "rocket"}, errors.ErrCodeInvalidInput},
		{"bad count", []string{"random", "-n", "0"}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestCLI(t, "")
			db := filepath.Join(t.TempDir(), "todo.db")
			err := run(t, c, append([]string{"todo", "--db", db}, tt.args...)...)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestTodoRandomAndGrid(t *testing.T) {
	c, out := newTestCLI(t, "")
	db := filepath.Join(t.TempDir(), "todo.db")

	if err := run(t, c, "todo", "--db", db, "random", "-n", "4"); err != nil {
		t.Fatalf("random: %v", err)
	}
	if n := len(loadTodos(t, db)); n != 4 {
		t.Fatalf("items = %d, want 4", n)
	}

	if err := run(t, c, "todo", "--db", db, "list", "--rows", "2"); err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out.String(), "┌") {
		t.Errorf("grid output has no boxes:\n%s", out.String())
	}
}

func TestTodoDefaultPath(t *testing.T) {
	c, _ := newTestCLI(t, "")
	if err := run(t, c, "todo", "add", "Plan the weekend"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if items := loadTodos(t, c.Config.Todo.Path); len(items) != 1 {
		t.Errorf("items at %s = %d, want 1", c.Config.Todo.Path, len(items))
	}
}

func TestResolvePrefix(t *testing.T) {
	a, _ := todo.NewItem("a", todo.IconSquare)
	b, _ := todo.NewItem("b", todo.IconSquare)
	s, err := loadTodoSession(context.Background(), storeWith(t, a, b))
	if err != nil {
		t.Fatal(err)
	}

	got, err := s.resolve(strings.ToUpper(a.ID.String()[:8]))
	if err != nil || got.ID != a.ID {
		t.Errorf("resolve(prefix) = %v, %v; want %v", got.ID, err, a.ID)
	}
	if _, err := s.resolve(""); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("resolve(\"\") error = %v, want INVALID_INPUT", err)
	}
	if _, err := s.resolve(b.ID.String()); err != nil {
		t.Errorf("resolve(full id) error = %v", err)
	}
}

func storeWith(t *testing.T, items ...todo.Item) todo.Store {
	t.Helper()
	s := todo.NewMemoryStore()
	if err := s.Save(context.Background(), items); err != nil {
		t.Fatal(err)
	}
	return s
}

// failingStore loads normally but never saves.
type failingStore struct {
	*todo.MemoryStore
}

func (failingStore) Save(context.Context, []todo.Item) error {
	return errors.New(errors.ErrCodeInternal, "disk full")
}

func TestTodoSaveFailureReportsNoSuccess(t *testing.T) {
	item, err := todo.NewItem("Water the plants", todo.IconSquare)
	if err != nil {
		t.Fatal(err)
	}
	id := item.ID.String()

	c, _ := newTestCLI(t, "")
	open := func(ctx context.Context) (*todoSession, error) {
		mem := todo.NewMemoryStore()
		if err := mem.Save(ctx, []todo.Item{item}); err != nil {
			return nil, err
		}
		return loadTodoSession(ctx, failingStore{mem})
	}

	tests := []struct {
		name string
		cmd  *cobra.Command
		args []string
		verb string
	}{
		{"add", c.todoAddCommand(open), []string{"Call the dentist"}, "Added"},
		{"rm", c.todoRemoveCommand(open), []string{id[:6]}, "Removed"},
		{"edit", c.todoEditCommand(open), []string{id[:6], "Water the garden"}, "Updated"},
		{"random", c.todoRandomCommand(open), nil, "Added"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ui := captureUI(t)
			tt.cmd.SetArgs(tt.args)
			tt.cmd.SetOut(io.Discard)
			tt.cmd.SetErr(io.Discard)
			err := tt.cmd.ExecuteContext(context.Background())
			if !errors.Is(err, errors.ErrCodeInternal) {
				t.Errorf("error = %v, want the save failure", err)
			}
			if strings.Contains(ui.String(), tt.verb) {
				t.Errorf("printed success despite the failed save:\n%s", ui.String())
			}
		})
	}
}
