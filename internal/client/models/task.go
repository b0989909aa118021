package models

import (
	"encoding/json"
	"fmt"
)

// Task is a server-owned record. The list endpoint reports completion as
// "completed", the detail endpoint as "status"; both land in Completed.
type Task struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
	CreatedAt   string `json:"created_at,omitempty"`
}

func (t *Task) UnmarshalJSON(b []byte) error {
	type plain Task
	var aux struct {
		plain
		Description *string `json:"description"`
		Status      *bool   `json:"status"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*t = Task(aux.plain)
	if aux.Description != nil {
		t.Description = *aux.Description
	}
	if aux.Status != nil {
		t.Completed = *aux.Status
	}
	return nil
}

func (t Task) StatusText() string {
	if t.Completed {
		return "Completed"
	}
	return "Not Completed"
}

func (t Task) String() string {
	box := "[ ]"
	if t.Completed {
		box = "[x]"
	}
	return fmt.Sprintf("%s #%d %s", box, t.ID, t.Name)
}

// TaskDetails is the GET /tasks/{id} payload. Shared is true when the caller
// sees the task through a grant rather than as its owner.
type TaskDetails struct {
	Task   Task `json:"task"`
	Shared bool `json:"shared"`
}

type Permission struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

const (
	PermissionView = "view"
	PermissionEdit = "edit"
)

// SharedTask is a task someone else shared with the caller.
type SharedTask struct {
	ID         int64      `json:"id"`
	Task       Task       `json:"task"`
	Permission Permission `json:"permission"`
}

func (s SharedTask) CanEdit() bool {
	return s.Permission.Name == PermissionEdit
}

type Invitee struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// SharedGrant is one user the caller's task is shared with.
type SharedGrant struct {
	ID         int64      `json:"id"`
	Invitee    Invitee    `json:"invitee"`
	Permission Permission `json:"permission"`
}

// TaskInput is the body of create and update.
type TaskInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ShareRequest grants Username the permission with id Permission.
type ShareRequest struct {
	Username   string `json:"username"`
	Permission string `json:"permission"`
}
