package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stagger/pkg/errors"
	stagio "github.com/matzehuels/stagger/pkg/io"
	"github.com/matzehuels/stagger/pkg/observability"
	"github.com/matzehuels/stagger/pkg/render/sink"
	"github.com/matzehuels/stagger/pkg/todo"
)

// shortID is the number of id characters shown by "todo list".
const shortID = 8

// todoCommand creates the to-do list command group.
func (c *CLI) todoCommand() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "todo",
		Short: "Manage a small to-do list",
		Long: `Manage a small to-do list stored in a local database.

Items are addressed by id; any unique prefix of an id is accepted.`,
	}
	cmd.PersistentFlags().StringVar(&dbPath, "db", "", "database file (default: config todo.path)")

	open := func(ctx context.Context) (*todoSession, error) {
		path := dbPath
		if path == "" {
			path = c.Config.Todo.Path
		}
		return openTodoSession(ctx, path)
	}

	cmd.AddCommand(c.todoAddCommand(open))
	cmd.AddCommand(c.todoListCommand(open))
	cmd.AddCommand(c.todoRemoveCommand(open))
	cmd.AddCommand(c.todoEditCommand(open))
	cmd.AddCommand(c.todoRandomCommand(open))

	return cmd
}

// =============================================================================
// Session
// =============================================================================

// todoSession is a list loaded from a store for the duration of one command.
type todoSession struct {
	store todo.Store
	list  *todo.List
}

func openTodoSession(ctx context.Context, path string) (*todoSession, error) {
	store, err := todo.OpenBoltStore(path)
	if err != nil {
		return nil, err
	}
	return loadTodoSession(ctx, store)
}

func loadTodoSession(ctx context.Context, store todo.Store) (*todoSession, error) {
	items, err := store.Load(ctx)
	if err != nil {
		store.Close()
		return nil, err
	}
	return &todoSession{store: store, list: todo.NewList(items...)}, nil
}

func (s *todoSession) save(ctx context.Context) error {
	return s.store.Save(ctx, s.list.Items())
}

func (s *todoSession) close() error {
	return s.store.Close()
}

// resolve finds the item whose id starts with prefix.
func (s *todoSession) resolve(prefix string) (todo.Item, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" {
		return todo.Item{}, errors.New(errors.ErrCodeInvalidInput, "item id is required")
	}
	if id, err := uuid.Parse(prefix); err == nil {
		if item, ok := s.list.Find(id); ok {
			return item, nil
		}
		return todo.Item{}, errors.New(errors.ErrCodeItemNotFound, "no item with id %s", prefix)
	}

	var matches []todo.Item
	for _, item := range s.list.Items() {
		if strings.HasPrefix(item.ID.String(), prefix) {
			matches = append(matches, item)
		}
	}
	switch len(matches) {
	case 0:
		return todo.Item{}, errors.New(errors.ErrCodeItemNotFound, "no item with id %s", prefix)
	case 1:
		return matches[0], nil
	default:
		return todo.Item{}, errors.New(errors.ErrCodeInvalidInput, "id prefix %s matches %d items", prefix, len(matches))
	}
}

type todoOpener func(context.Context) (*todoSession, error)

// =============================================================================
// Subcommands
// =============================================================================

func (c *CLI) todoAddCommand(open todoOpener) *cobra.Command {
	var iconName string

	cmd := &cobra.Command{
		Use:   "add <task>",
		Short: "Add an item",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			icon, err := todo.ParseIcon(iconName)
			if err != nil {
				return err
			}
			item, err := todo.NewItem(strings.Join(args, " "), icon)
			if err != nil {
				return err
			}
			added, err := c.withTodo(cmd.Context(), open, "add", func(s *todoSession) (todo.Item, error) {
				s.list.Add(item)
				return item, nil
			})
			if err != nil {
				return err
			}
			printSuccess("Added %s", added.Task)
			return nil
		},
	}
	cmd.Flags().StringVar(&iconName, "icon", "", "icon: "+iconNames())
	return cmd
}

func (c *CLI) todoListCommand(open todoOpener) *cobra.Command {
	var rows int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List items, optionally as a staggered grid of chips",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.close()

			items := s.list.Items()
			if len(items) == 0 {
				printInfo("No items")
				printNextStep("Add one", appName+" todo add <task>")
				return nil
			}
			if rows > 0 {
				out, err := todoGrid(items, rows)
				if err != nil {
					return err
				}
				fmt.Fprint(c.stdout, out)
				return nil
			}
			for _, item := range items {
				printTodoItem(item.ID.String()[:shortID], item.Icon.Glyph(), item.Task, false)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&rows, "rows", "r", 0, "show items as chips in a staggered grid with this many rows")
	return cmd
}

func (c *CLI) todoRemoveCommand(open todoOpener) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"done"},
		Short:   "Remove an item",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			removed, err := c.withTodo(cmd.Context(), open, "remove", func(s *todoSession) (todo.Item, error) {
				item, err := s.resolve(args[0])
				if err != nil {
					return todo.Item{}, err
				}
				s.list.Remove(item.ID)
				return item, nil
			})
			if err != nil {
				return err
			}
			printSuccess("Removed %s", removed.Task)
			return nil
		},
	}
}

func (c *CLI) todoEditCommand(open todoOpener) *cobra.Command {
	var iconName string

	cmd := &cobra.Command{
		Use:   "edit <id> [task]",
		Short: "Change the task or icon of an item",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			updated, err := c.withTodo(cmd.Context(), open, "edit", func(s *todoSession) (todo.Item, error) {
				item, err := s.resolve(args[0])
				if err != nil {
					return todo.Item{}, err
				}
				if err := s.list.SelectForEdit(item.ID); err != nil {
					return todo.Item{}, err
				}
				defer s.list.CancelEdit()

				updated, err := editedItem(item, strings.Join(args[1:], " "), iconName, cmd.Flags().Changed("icon"))
				if err != nil {
					return todo.Item{}, err
				}
				if err := s.list.CommitEdit(updated); err != nil {
					return todo.Item{}, err
				}
				return updated, nil
			})
			if err != nil {
				return err
			}
			printSuccess("Updated %s", updated.Task)
			return nil
		},
	}
	cmd.Flags().StringVar(&iconName, "icon", "", "new icon: "+iconNames())
	return cmd
}

func (c *CLI) todoRandomCommand(open todoOpener) *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "random",
		Short: "Add randomly generated items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 {
				return errors.New(errors.ErrCodeInvalidInput, "count must be at least 1, got %d", count)
			}
			for range count {
				added, err := c.withTodo(cmd.Context(), open, "add", func(s *todoSession) (todo.Item, error) {
					item := todo.RandomItem(nil)
					s.list.Add(item)
					return item, nil
				})
				if err != nil {
					return err
				}
				printSuccess("Added %s", added.Task)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of items to add")
	return cmd
}

// =============================================================================
// Helpers
// =============================================================================

// withTodo opens the list, applies fn and saves the list. It returns the
// item fn changed only once the change is stored.
func (c *CLI) withTodo(ctx context.Context, open todoOpener, action string, fn func(*todoSession) (todo.Item, error)) (todo.Item, error) {
	s, err := open(ctx)
	if err != nil {
		return todo.Item{}, err
	}
	defer s.close()

	item, err := fn(s)
	if err != nil {
		return todo.Item{}, err
	}
	if err := s.save(ctx); err != nil {
		return todo.Item{}, fmt.Errorf("save list: %w", err)
	}
	observability.Todo().OnTodoChange(ctx, action, item.ID.String())
	return item, nil
}

// editedItem applies the new task and icon to item. An empty task keeps the
// old one; the icon changes only when set.
func editedItem(item todo.Item, task, iconName string, iconSet bool) (todo.Item, error) {
	if strings.TrimSpace(task) != "" {
		if err := errors.ValidateTask(task); err != nil {
			return todo.Item{}, err
		}
		item.Task = strings.TrimSpace(task)
	}
	if iconSet {
		icon, err := todo.ParseIcon(iconName)
		if err != nil {
			return todo.Item{}, err
		}
		item.Icon = icon
	}
	return item, nil
}

// todoGrid lays out the items as topic-style chips and renders them as text.
func todoGrid(items []todo.Item, rows int) (string, error) {
	req := stagio.Request{Rows: rows}
	for _, item := range items {
		label := item.Icon.Glyph() + " " + item.Task
		req.Children = append(req.Children, stagio.Child{
			Label:  label,
			Width:  len([]rune(label))*stagio.TopicCharWidth + 2*stagio.TopicPadding,
			Height: stagio.TopicHeight,
		})
	}
	res, err := req.Compute()
	if err != nil {
		return "", err
	}
	return sink.RenderText(sink.NewLayout(req, res))
}

func iconNames() string {
	names := make([]string, len(todo.Icons))
	for i, icon := range todo.Icons {
		names[i] = icon.String()
	}
	return strings.Join(names, ", ")
}
