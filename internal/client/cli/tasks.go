package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/tasklist/internal/client/api"
	"github.com/dmitrijs2005/tasklist/internal/client/forms"
	"github.com/dmitrijs2005/tasklist/internal/client/guard"
	"github.com/dmitrijs2005/tasklist/internal/client/models"
	"github.com/dmitrijs2005/tasklist/internal/common"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

const (
	pathView   = "/tasks/view"
	pathToggle = "/tasks/toggle"
	pathShare  = "/tasks/share"
	pathCreate = "/tasks/create"
	pathEdit   = "/tasks/edit"
)

const (
	msgLoadTasks       = "Failed to load tasks. Please try again."
	msgLoadDetails     = "Failed to load task details. Please try again."
	msgLoadPermissions = "Failed to load permissions. Please try again."
	msgLoadShared      = "Failed to load shared users. Please try again."
	msgToggle          = "Failed to update task status. Please try again."
	msgShare           = "Failed to share the task"
	msgCreate          = "Failed to create task"
	msgUpdate          = "Failed to update task"
	msgOwnerOnly       = "Only the task owner can do that."
)

var errUsage = errors.New("usage")

func (a *App) routes() map[string]page {
	return map[string]page{
		common.PathHome:     {title: "Tasklist", policy: guard.RequireGuest, render: a.home},
		common.PathLogin:    {title: "Login", policy: guard.RequireGuest, render: a.login},
		common.PathRegister: {title: "Register", policy: guard.RequireGuest, render: a.register},
		common.PathLogout:   {title: "Logout", policy: guard.RequireAuthenticated, render: a.logout},
		common.PathTasks:    {title: "Tasks", policy: guard.RequireAuthenticated, render: a.taskList},
		pathView:            {title: "View Task", policy: guard.RequireAuthenticated, render: a.viewTask},
		pathToggle:          {title: "View Task", policy: guard.RequireAuthenticated, render: a.toggleTask},
		pathShare:           {title: "Share Task", policy: guard.RequireAuthenticated, render: a.shareTask},
		pathCreate:          {title: "Create Task", policy: guard.RequireAuthenticated, render: a.createTask},
		pathEdit:            {title: "Edit Task", policy: guard.RequireAuthenticated, render: a.editTask},
	}
}

// taskID parses the first argument. A missing or malformed id prints usage.
func (a *App) taskID(cmd string, args []string) (int64, error) {
	if len(args) > 0 {
		if id, err := strconv.ParseInt(args[0], 10, 64); err == nil && id > 0 {
			return id, nil
		}
	}
	a.shell.Println("Usage: " + cmd + " <id>")
	return 0, errUsage
}

func describe(t models.Task) string {
	if t.Description == "" {
		return "No description provided."
	}
	return t.Description
}

func (a *App) taskList(ctx context.Context, m *guard.Mount, _ []string) error {
	var (
		own    []models.Task
		shared []models.SharedTask
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		own, err = a.tasks.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		shared, err = a.tasks.Shared(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		a.log.Warn(ctx, "loading tasks failed", "error", err)
		a.shell.Error(msgLoadTasks)
		return err
	}

	if p := m.Profile(); p != nil {
		a.shell.Printf("Welcome, %s\n", p.Username)
	}
	a.shell.Hint("create: new task | view <id> | edit <id>")

	a.shell.Println("\nYour Tasks")
	if len(own) == 0 {
		a.shell.Println("  No tasks found.")
	}
	for _, t := range own {
		a.shell.Printf("  %s\n      %s\n", t, describe(t))
	}

	a.shell.Println("\nTasks Shared with You")
	if len(shared) == 0 {
		a.shell.Println("  No tasks shared with you.")
	}
	for _, s := range shared {
		line := fmt.Sprintf("  %s  (permission: %s)", s.Task, s.Permission.Name)
		if s.CanEdit() {
			line += "  [edit]"
		}
		a.shell.Println(line)
		a.shell.Printf("      %s\n", describe(s.Task))
	}
	return nil
}

// details loads a task or shows the load fallback.
func (a *App) details(ctx context.Context, id int64) (*models.TaskDetails, error) {
	d, err := a.tasks.Get(ctx, id)
	if err != nil {
		a.log.Warn(ctx, "loading task failed", "id", id, "error", err)
		a.shell.Error(msgLoadDetails)
		return nil, err
	}
	return d, nil
}

func (a *App) printTask(d *models.TaskDetails) {
	a.shell.Println(d.Task.Name)
	a.shell.Println("  " + describe(d.Task))
	a.shell.Println("  Status: " + d.Task.StatusText())
}

func (a *App) printSharedWith(grants []models.SharedGrant) {
	a.shell.Println("\nShared With")
	if len(grants) == 0 {
		a.shell.Println("  No users have access to this task.")
		return
	}
	for _, g := range grants {
		a.shell.Printf("  %s - %s\n", g.Invitee.Username, g.Permission.Name)
	}
}

// viewTask shows the task. Owners also see who it is shared with and the
// permissions they can grant; each of those fetches fails on its own.
func (a *App) viewTask(ctx context.Context, _ *guard.Mount, args []string) error {
	id, err := a.taskID("view", args)
	if err != nil {
		return err
	}
	d, err := a.details(ctx, id)
	if err != nil {
		return err
	}
	a.printTask(d)
	if d.Shared {
		return nil
	}

	var (
		perms     []models.Permission
		grants    []models.SharedGrant
		permErr   error
		grantsErr error
		g         errgroup.Group
	)
	g.Go(func() error {
		perms, permErr = a.tasks.Permissions(ctx)
		return nil
	})
	g.Go(func() error {
		grants, grantsErr = a.tasks.SharedWith(ctx, id)
		return nil
	})
	_ = g.Wait()

	if permErr != nil {
		a.log.Warn(ctx, "loading permissions failed", "error", permErr)
		a.shell.Error(msgLoadPermissions)
	} else {
		a.shell.Hint(fmt.Sprintf("toggle %d | share %d (%s) | edit %d", id, id, permissionNames(perms), id))
	}
	if grantsErr != nil {
		a.log.Warn(ctx, "loading shared users failed", "error", grantsErr)
		a.shell.Error(msgLoadShared)
	} else {
		a.printSharedWith(grants)
	}
	return multierr.Combine(permErr, grantsErr)
}

func permissionNames(perms []models.Permission) string {
	names := make([]string, len(perms))
	for i, p := range perms {
		names[i] = p.Name
	}
	return strings.Join(names, ", ")
}

// ownedDetails loads a task and refuses when the caller is not its owner.
func (a *App) ownedDetails(ctx context.Context, cmd string, args []string) (*models.TaskDetails, error) {
	id, err := a.taskID(cmd, args)
	if err != nil {
		return nil, err
	}
	d, err := a.details(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.Shared {
		a.shell.Error(msgOwnerOnly)
		return nil, common.ErrUnauthorized
	}
	return d, nil
}

func (a *App) toggleTask(ctx context.Context, _ *guard.Mount, args []string) error {
	d, err := a.ownedDetails(ctx, "toggle", args)
	if err != nil {
		return err
	}
	if err := a.tasks.ToggleCompletion(ctx, d.Task.ID); err != nil {
		a.log.Warn(ctx, "toggling task failed", "id", d.Task.ID, "error", err)
		a.shell.Error(msgToggle)
		return err
	}
	d.Task.Completed = !d.Task.Completed
	a.printTask(d)
	return nil
}

func (a *App) shareTask(ctx context.Context, _ *guard.Mount, args []string) error {
	d, err := a.ownedDetails(ctx, "share", args)
	if err != nil {
		return err
	}
	id := d.Task.ID

	perms, err := a.tasks.Permissions(ctx)
	if err != nil {
		a.log.Warn(ctx, "loading permissions failed", "error", err)
		a.shell.Error(msgLoadPermissions)
		return err
	}

	vals, err := forms.ShareForm(perms).Ask(a.input(), a.out, func(v forms.Values) error {
		return forms.ValidateShare(models.ShareRequest{Username: v["username"], Permission: v["permission"]}, perms)
	})
	if err != nil {
		return err
	}

	if err := a.tasks.Share(ctx, id, vals.Share(perms)); err != nil {
		a.log.Info(ctx, "sharing task failed", "id", id, "error", err)
		a.shell.Error(api.Message(err, msgShare))
		return err
	}
	a.shell.Success("Task shared successfully")

	grants, err := a.tasks.SharedWith(ctx, id)
	if err != nil {
		a.log.Warn(ctx, "loading shared users failed", "error", err)
		a.shell.Error(msgLoadShared)
		return err
	}
	a.printSharedWith(grants)
	return nil
}

func (a *App) createTask(ctx context.Context, _ *guard.Mount, _ []string) error {
	vals, err := forms.TaskForm(nil).Ask(a.input(), a.out, func(v forms.Values) error {
		return forms.ValidateTask(v.Task())
	})
	if err != nil {
		return err
	}

	if err := a.tasks.Create(ctx, vals.Task()); err != nil {
		a.log.Info(ctx, "creating task failed", "error", err)
		a.shell.Error(api.Message(err, msgCreate))
		return err
	}
	a.shell.Success("Task created")
	a.router.Navigate(common.PathTasks)
	return nil
}

// editTask is open to owners and to grantees; the server decides whether
// the caller may write.
func (a *App) editTask(ctx context.Context, _ *guard.Mount, args []string) error {
	id, err := a.taskID("edit", args)
	if err != nil {
		return err
	}
	d, err := a.details(ctx, id)
	if err != nil {
		return err
	}

	vals, err := forms.TaskForm(&d.Task).Ask(a.input(), a.out, func(v forms.Values) error {
		return forms.ValidateTask(v.Task())
	})
	if err != nil {
		return err
	}

	if err := a.tasks.Update(ctx, id, vals.Task()); err != nil {
		a.log.Info(ctx, "updating task failed", "id", id, "error", err)
		a.shell.Error(api.Message(err, msgUpdate))
		return err
	}
	a.shell.Success("Task updated")
	a.router.Navigate(common.PathTasks)
	return nil
}
