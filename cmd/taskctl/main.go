// Command taskctl is the terminal client of the task API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/taskboard/task-api/internal/client"
	"github.com/taskboard/task-api/internal/view"
)

const defaultServer = "http://localhost:5000"

var errNotLoggedIn = errors.New("not logged in, run: taskctl login --token <jwt>")

func main() {
	var (
		serverURL   = flag.String("server", envOr("TASKCTL_SERVER", ""), "API server URL (default: stored session or "+defaultServer+")")
		sessionPath = flag.String("session", os.Getenv("TASKCTL_SESSION"), "session file path")
	)
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(*sessionPath, *serverURL, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if err := a.run(ctx, args[0], args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprint(os.Stderr, `taskctl - task manager client

Usage:
  taskctl [flags] <command> [args]

Flags:
  --server  <url>   API server URL (or $TASKCTL_SERVER)
  --session <path>  session file (or $TASKCTL_SESSION)

Commands:
  login --token <jwt>        store a token and verify it
  logout                     forget the stored session
  whoami                     show the current user
  dashboard                  counters and the ten most recent tasks
  list [filters]             list tasks (--status --priority --assigned-to
                             --page --limit --sort --search)
  show <id>                  show one task
  create [fields]            create a task (--title --description --due
                             --assignee --priority --tags)
  edit <id> [fields]         edit a task (same fields plus --status)
  status <id> <status>       change a task's status
  delete <id>                delete a task
  activity <id>              show a task's history
  users                      list active users (admin)
  user <id>                  show one user (admin)
`)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

type app struct {
	store   *client.SessionStore
	session *client.Session
	api     *client.Client
	out     io.Writer
}

func newApp(sessionPath, server string, out io.Writer) (*app, error) {
	if sessionPath == "" {
		p, err := client.DefaultSessionPath()
		if err != nil {
			return nil, fmt.Errorf("locate session file: %w", err)
		}
		sessionPath = p
	}

	store := client.NewSessionStore(sessionPath)
	sess, err := store.Load(defaultServer)
	if err != nil {
		return nil, err
	}
	if server != "" {
		sess.Server = server
	}

	a := &app{store: store, session: sess, out: out}
	a.api = client.New(sess, client.WithUnauthorizedHook(a.teardown))
	return a, nil
}

// teardown drops the stored credentials after the server rejected them.
func (a *app) teardown() {
	a.session.Token = ""
	a.session.User = nil
	if err := a.store.Clear(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
	fmt.Fprintln(os.Stderr, "session expired, logged out")
}

func (a *app) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "login":
		return a.cmdLogin(ctx, args)
	case "logout":
		return a.cmdLogout()
	}

	if !a.session.LoggedIn() {
		return errNotLoggedIn
	}

	switch cmd {
	case "whoami":
		return a.cmdWhoami(ctx)
	case "dashboard":
		return a.cmdDashboard(ctx)
	case "list":
		return a.cmdList(ctx, args)
	case "show":
		return a.cmdShow(ctx, args)
	case "create":
		return a.cmdCreate(ctx, args)
	case "edit":
		return a.cmdEdit(ctx, args)
	case "status":
		return a.cmdStatus(ctx, args)
	case "delete":
		return a.cmdDelete(ctx, args)
	case "activity":
		return a.cmdActivity(ctx, args)
	case "users":
		return a.cmdUsers(ctx)
	case "user":
		return a.cmdUser(ctx, args)
	default:
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

// --- session ---

func (a *app) cmdLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	token := fs.String("token", "", "JWT issued by the auth service")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *token == "" {
		return errors.New("usage: taskctl login --token <jwt>")
	}

	a.session.Token = *token
	user, err := a.api.Profile(ctx)
	if err != nil {
		return err
	}
	a.session.User = &client.SessionUser{ID: user.ID, Name: user.Name, Email: user.Email, Role: user.Role}
	if err := a.store.Save(a.session); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Logged in as %s <%s> (%s)\n", user.Name, user.Email, user.Role)
	return nil
}

func (a *app) cmdLogout() error {
	if err := a.store.Clear(); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *app) cmdWhoami(ctx context.Context) error {
	user, err := a.api.Profile(ctx)
	if err != nil {
		return err
	}
	return view.RenderUser(a.out, user)
}

// --- tasks ---

func (a *app) cmdDashboard(ctx context.Context) error {
	list, err := a.api.ListTasks(ctx, client.ListOptions{Limit: 10, Sort: "-createdAt"})
	if err != nil {
		return err
	}
	if a.session.User != nil {
		fmt.Fprintf(a.out, "Welcome back, %s\n\n", a.session.User.Name)
	}
	return view.RenderDashboard(a.out, list.Data)
}

func (a *app) cmdList(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	var opts client.ListOptions
	fs.StringVar(&opts.Status, "status", "", "pending, in-progress or completed")
	fs.StringVar(&opts.Priority, "priority", "", "low, medium or high")
	fs.StringVar(&opts.AssignedTo, "assigned-to", "", "assignee user id")
	fs.IntVar(&opts.Page, "page", 1, "page number")
	fs.IntVar(&opts.Limit, "limit", 10, "page size")
	fs.StringVar(&opts.Sort, "sort", "-createdAt", "sort key, prefix with - for descending")
	search := fs.String("search", "", "filter the fetched page by title or description")
	if err := fs.Parse(args); err != nil {
		return err
	}

	list, err := a.api.ListTasks(ctx, opts)
	if err != nil {
		return err
	}
	return view.RenderPage(a.out, list, view.FilterBySearch(list.Data, *search))
}

func (a *app) cmdShow(ctx context.Context, args []string) error {
	id, err := oneID("show", args)
	if err != nil {
		return err
	}
	task, err := a.api.GetTask(ctx, id)
	if err != nil {
		return err
	}
	return view.RenderTask(a.out, task)
}

// bindForm registers the task form fields on fs.
func bindForm(fs *flag.FlagSet, f *view.TaskForm) {
	fs.StringVar(&f.Title, "title", f.Title, "task title")
	fs.StringVar(&f.Description, "description", f.Description, "task description")
	fs.StringVar(&f.DueDate, "due", f.DueDate, "due date, YYYY-MM-DD")
	fs.StringVar(&f.AssignedTo, "assignee", f.AssignedTo, "assignee user id")
	fs.StringVar(&f.Priority, "priority", f.Priority, "low, medium or high")
	fs.StringVar(&f.Tags, "tags", f.Tags, "comma-separated tags")
}

func (a *app) cmdCreate(ctx context.Context, args []string) error {
	var form view.TaskForm
	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	bindForm(fs, &form)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := form.Validate(); err != nil {
		return err
	}

	task, err := a.api.CreateTask(ctx, form.CreateRequest())
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created task %s\n", task.ID)
	return view.RenderTask(a.out, task)
}

func (a *app) cmdEdit(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: taskctl edit <id> [--title ...]")
	}
	id := args[0]

	current, err := a.api.GetTask(ctx, id)
	if err != nil {
		return err
	}

	form := view.FormFromTask(*current)
	fs := flag.NewFlagSet("edit", flag.ContinueOnError)
	bindForm(fs, &form)
	fs.StringVar(&form.Status, "status", form.Status, "pending, in-progress or completed")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	if err := form.Validate(); err != nil {
		return err
	}

	task, err := a.api.UpdateTask(ctx, id, form.UpdateRequest())
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Updated task %s\n", task.ID)
	return view.RenderTask(a.out, task)
}

func (a *app) cmdStatus(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errors.New("usage: taskctl status <id> <pending|in-progress|completed>")
	}
	status := args[1]
	task, err := a.api.UpdateTask(ctx, args[0], client.UpdateTaskRequest{Status: &status})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Task %s is now %s\n", task.ID, view.StatusLabel(task.Status))
	return nil
}

func (a *app) cmdDelete(ctx context.Context, args []string) error {
	id, err := oneID("delete", args)
	if err != nil {
		return err
	}
	msg, err := a.api.DeleteTask(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, msg)
	return nil
}

func (a *app) cmdActivity(ctx context.Context, args []string) error {
	id, err := oneID("activity", args)
	if err != nil {
		return err
	}
	entries, err := a.api.TaskActivity(ctx, id)
	if err != nil {
		return err
	}
	return view.RenderActivity(a.out, entries)
}

// --- users ---

func (a *app) cmdUsers(ctx context.Context) error {
	users, err := a.api.ListUsers(ctx)
	if err != nil {
		return err
	}
	return view.RenderUsers(a.out, users)
}

func (a *app) cmdUser(ctx context.Context, args []string) error {
	id, err := oneID("user", args)
	if err != nil {
		return err
	}
	user, err := a.api.GetUser(ctx, id)
	if err != nil {
		return err
	}
	return view.RenderUser(a.out, user)
}

func oneID(cmd string, args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("usage: taskctl %s <id>", cmd)
	}
	return args[0], nil
}
