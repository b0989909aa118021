package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/tasklist/internal/client/api"
	"github.com/dmitrijs2005/tasklist/internal/client/config"
	"github.com/dmitrijs2005/tasklist/internal/client/guard"
	"github.com/dmitrijs2005/tasklist/internal/client/services"
	"github.com/dmitrijs2005/tasklist/internal/client/session"
	"github.com/dmitrijs2005/tasklist/internal/common"
	"github.com/dmitrijs2005/tasklist/internal/logging"
	"go.uber.org/multierr"
)

type App struct {
	config *config.Config
	log    logging.Logger

	store  session.Store
	auth   services.AuthService
	tasks  services.TaskService
	guard  *guard.Guard
	router *Router
	pages  map[string]page

	shell  *Shell
	reader *bufio.Reader
	out    io.Writer

	userName string
	closers  []io.Closer
}

// NewApp opens the session database and wires the API client, services and
// guard around it. Close releases the database.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	store, err := session.OpenSQLite(ctx, c.SessionDB)
	if err != nil {
		log.Error(ctx, "error opening session store", "path", c.SessionDB, "error", err)
		return nil, fmt.Errorf("open session store: %w", err)
	}

	client := api.New(c.ServerBaseURL, store,
		api.WithTimeout(c.RequestTimeout),
		api.WithLogger(log.With("component", "api")),
	)

	a := newApp(store, services.NewAuthService(client), services.NewTaskService(client), log,
		bufio.NewReader(os.Stdin), os.Stdout)
	a.config = c
	a.closers = append(a.closers, store)
	return a, nil
}

func newApp(store session.Store, auth services.AuthService, tasks services.TaskService,
	log logging.Logger, reader *bufio.Reader, out io.Writer) *App {
	a := &App{
		log:    log,
		store:  store,
		auth:   auth,
		tasks:  tasks,
		router: &Router{},
		shell:  NewShell(out),
		reader: reader,
		out:    out,
	}
	a.guard = guard.New(store, auth, a.router, log.With("component", "guard"))
	a.pages = a.routes()
	return a
}

func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to tasklist (type 'help' for commands)")
	a.Open(ctx, common.PathHome, nil)
	runREPL(ctx, a, a.getStatus, bufio.NewScanner(lineReader{r: a.reader}))
}

// Close releases everything NewApp opened.
func (a *App) Close() error {
	var err error
	for _, c := range a.closers {
		err = multierr.Append(err, c.Close())
	}
	return err
}

func (a *App) isLoggedIn() bool {
	return a.userName != ""
}

func (a *App) getStatus() string {
	if a.userName == "" {
		return ""
	}
	return fmt.Sprintf("(%s)", a.userName)
}

func (a *App) input() promptInput {
	return promptInput{reader: a.reader, w: a.out}
}

// Open shows the page at path, then follows any redirect it produced, up to
// maxHops times.
func (a *App) Open(ctx context.Context, path string, args []string) error {
	var err error
	for hop := 0; hop <= maxHops; hop++ {
		p, ok := a.pages[path]
		if !ok {
			a.shell.Error("Unknown page: " + path)
			return fmt.Errorf("unknown page %q", path)
		}

		err = a.show(ctx, p, args)

		next, redirected := a.router.Take()
		if !redirected {
			return err
		}
		a.log.Debug(ctx, "following redirect", "from", path, "to", next)
		path, args = next, nil
	}
	a.shell.Error("Too many redirects")
	return err
}

// show mounts the guard for one page instance and renders the page only when
// the guard lets it.
func (a *App) show(ctx context.Context, p page, args []string) error {
	m := a.guard.Mount(ctx, p.policy)
	defer m.Unmount()

	if !m.State().Resolved() {
		a.shell.Pending(p.title)
	}
	state, err := m.Wait(ctx)
	if err != nil {
		return err
	}

	a.trackUser(m)
	if m.Redirect() != "" {
		return nil
	}

	a.shell.Header(p.title, state, m.Profile())
	return p.render(ctx, m, args)
}

func (a *App) trackUser(m *guard.Mount) {
	switch m.State() {
	case guard.Authenticated:
		if p := m.Profile(); p != nil {
			a.userName = p.Username
		}
	case guard.Unauthenticated:
		a.userName = ""
	}
}
