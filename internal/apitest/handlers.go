package apitest

import (
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/tasklist/internal/client/models"
)

type taskView struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
	CreatedAt   string `json:"created_at"`
}

type taskDetailView struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      bool   `json:"status"`
}

func listView(t *task) taskView {
	return taskView{ID: t.ID, Name: t.Name, Description: t.Description, Completed: t.Completed, CreatedAt: t.CreatedAt}
}

func detailView(t *task) taskDetailView {
	return taskDetailView{ID: t.ID, Name: t.Name, Description: t.Description, Status: t.Completed}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decode(w, r, &req) {
		return
	}

	s.mu.Lock()
	var uid int64
	for id, u := range s.users {
		if strings.EqualFold(u.profile.Email, req.Email) && u.password == req.Password {
			uid = id
			break
		}
	}
	s.mu.Unlock()

	if uid == 0 {
		writeMessage(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	tok, err := s.issue(uid)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": map[string]string{"token": tok}})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Password != req.PasswordConfirmation {
		writeMessage(w, http.StatusUnprocessableEntity, "The password field confirmation does not match.")
		return
	}

	s.mu.Lock()
	for _, u := range s.users {
		if strings.EqualFold(u.profile.Email, req.Email) {
			s.mu.Unlock()
			writeMessage(w, http.StatusUnprocessableEntity, "The email has already been taken.")
			return
		}
		if u.profile.Username == req.Username {
			s.mu.Unlock()
			writeMessage(w, http.StatusUnprocessableEntity, "The username has already been taken.")
			return
		}
	}
	uid := s.addUserLocked(req.Name, req.Username, req.Email, req.Password)
	p := s.users[uid].profile
	s.mu.Unlock()

	tok, err := s.issue(uid)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"data": models.RegisteredUser{Profile: p, Token: tok}})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	s.mu.Lock()
	s.revoked[raw] = true
	s.mu.Unlock()
	writeMessage(w, http.StatusOK, "Logged out")
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	gate := s.profileGate
	s.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-r.Context().Done():
			return
		}
	}

	s.mu.Lock()
	p := s.users[currentUser(r)].profile
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"data": p})
}

func (s *Server) handlePermissions(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	perms := append([]models.Permission(nil), s.permissions...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"data": perms})
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	uid := currentUser(r)
	s.mu.Lock()
	out := make([]taskView, 0)
	for _, t := range s.tasks {
		if t.ownerID == uid {
			out = append(out, listView(t))
		}
	}
	s.mu.Unlock()
	sortTaskViews(out)
	writeJSON(w, http.StatusOK, map[string]any{"tasks": out})
}

func (s *Server) handleSharedTasks(w http.ResponseWriter, r *http.Request) {
	uid := currentUser(r)
	type sharedView struct {
		ID         int64             `json:"id"`
		Task       taskView          `json:"task"`
		Permission models.Permission `json:"permission"`
	}
	s.mu.Lock()
	out := make([]sharedView, 0)
	for _, g := range s.grants {
		if g.inviteeID != uid {
			continue
		}
		if t, ok := s.tasks[g.taskID]; ok {
			out = append(out, sharedView{ID: g.id, Task: listView(t), Permission: g.permission})
		}
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"data": out})
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	uid, id := currentUser(r), pathID(r)
	s.mu.Lock()
	t, ok := s.tasks[id]
	var shared bool
	if ok && t.ownerID != uid {
		_, shared = s.grantLocked(id, uid)
		ok = shared
	}
	var view taskDetailView
	if ok {
		view = detailView(t)
	}
	s.mu.Unlock()

	if !ok {
		writeMessage(w, http.StatusNotFound, "Task not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"task": view, "shared": shared})
}

func (s *Server) handleSharedWith(w http.ResponseWriter, r *http.Request) {
	uid, id := currentUser(r), pathID(r)
	type grantView struct {
		ID         int64             `json:"id"`
		Invitee    models.Invitee    `json:"invitee"`
		Permission models.Permission `json:"permission"`
	}
	s.mu.Lock()
	t, ok := s.tasks[id]
	if !ok || t.ownerID != uid {
		s.mu.Unlock()
		writeMessage(w, http.StatusNotFound, "Task not found")
		return
	}
	out := make([]grantView, 0)
	for _, g := range s.grants {
		if g.taskID != id {
			continue
		}
		out = append(out, grantView{
			ID:         g.id,
			Invitee:    models.Invitee{ID: g.inviteeID, Username: s.users[g.inviteeID].profile.Username},
			Permission: g.permission,
		})
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"data": out})
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var in models.TaskInput
	if !decode(w, r, &in) {
		return
	}
	if strings.TrimSpace(in.Name) == "" {
		writeMessage(w, http.StatusUnprocessableEntity, "The name field is required.")
		return
	}
	s.mu.Lock()
	id := s.addTaskLocked(currentUser(r), in.Name, in.Description)
	view := listView(s.tasks[id])
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, map[string]any{"message": "Task created", "task": view})
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	var in models.TaskInput
	if !decode(w, r, &in) {
		return
	}
	uid, id := currentUser(r), pathID(r)
	s.mu.Lock()
	t, ok := s.tasks[id]
	if !ok {
		s.mu.Unlock()
		writeMessage(w, http.StatusNotFound, "Task not found")
		return
	}
	if t.ownerID != uid {
		g, shared := s.grantLocked(id, uid)
		if !shared || g.permission.Name != models.PermissionEdit {
			s.mu.Unlock()
			writeMessage(w, http.StatusForbidden, "You do not have permission to edit this task.")
			return
		}
	}
	t.Name, t.Description = in.Name, in.Description
	view := listView(t)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"message": "Task updated", "task": view})
}

func (s *Server) handleMark(w http.ResponseWriter, r *http.Request) {
	uid, id := currentUser(r), pathID(r)
	s.mu.Lock()
	t, ok := s.tasks[id]
	if !ok || t.ownerID != uid {
		s.mu.Unlock()
		writeMessage(w, http.StatusNotFound, "Task not found")
		return
	}
	t.Completed = !t.Completed
	view := listView(t)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"message": "Task status updated", "task": view})
}

func (s *Server) handleShare(w http.ResponseWriter, r *http.Request) {
	var req models.ShareRequest
	if !decode(w, r, &req) {
		return
	}
	uid, id := currentUser(r), pathID(r)

	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok || t.ownerID != uid {
		writeMessage(w, http.StatusNotFound, "Task not found")
		return
	}
	var invitee int64
	for candidate, u := range s.users {
		if u.profile.Username == req.Username {
			invitee = candidate
		}
	}
	if invitee == 0 {
		writeMessage(w, http.StatusUnprocessableEntity, "User not found")
		return
	}
	if invitee == t.ownerID {
		writeMessage(w, http.StatusUnprocessableEntity, "You cannot share a task with yourself")
		return
	}
	p, ok := s.permissionLocked(req.Permission)
	if !ok {
		writeMessage(w, http.StatusUnprocessableEntity, "Invalid permission")
		return
	}
	s.nextID++
	s.grants = append(s.grants, grant{id: s.nextID, taskID: id, inviteeID: invitee, permission: p})
	writeMessage(w, http.StatusOK, "Task shared successfully")
}

func (s *Server) grantLocked(taskID, inviteeID int64) (grant, bool) {
	for _, g := range s.grants {
		if g.taskID == taskID && g.inviteeID == inviteeID {
			return g, true
		}
	}
	return grant{}, false
}

// permissionLocked resolves a permission by id ("2") or by name ("edit").
func (s *Server) permissionLocked(ref string) (models.Permission, bool) {
	id, _ := strconv.ParseInt(ref, 10, 64)
	for _, p := range s.permissions {
		if p.ID == id || p.Name == ref {
			return p, true
		}
	}
	return models.Permission{}, false
}

func sortTaskViews(v []taskView) {
	sort.Slice(v, func(i, j int) bool { return v[i].ID < v[j].ID })
}
