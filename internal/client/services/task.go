package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/tasklist/internal/client/models"
)

type TaskService interface {
	List(ctx context.Context) ([]models.Task, error)
	Shared(ctx context.Context) ([]models.SharedTask, error)
	Get(ctx context.Context, id int64) (*models.TaskDetails, error)
	SharedWith(ctx context.Context, id int64) ([]models.SharedGrant, error)
	Permissions(ctx context.Context) ([]models.Permission, error)
	ToggleCompletion(ctx context.Context, id int64) error
	Share(ctx context.Context, id int64, req models.ShareRequest) error
	Update(ctx context.Context, id int64, in models.TaskInput) error
	Create(ctx context.Context, in models.TaskInput) error
}

type taskService struct {
	transport Transport
}

func NewTaskService(t Transport) TaskService {
	return &taskService{transport: t}
}

func (s *taskService) List(ctx context.Context) ([]models.Task, error) {
	var resp struct {
		Tasks []models.Task `json:"tasks"`
	}
	if err := s.transport.Get(ctx, "/tasks", &resp); err != nil {
		return nil, err
	}
	return resp.Tasks, nil
}

func (s *taskService) Shared(ctx context.Context) ([]models.SharedTask, error) {
	var resp dataEnvelope[[]models.SharedTask]
	if err := s.transport.Get(ctx, "/tasks/shared", &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (s *taskService) Get(ctx context.Context, id int64) (*models.TaskDetails, error) {
	var resp models.TaskDetails
	if err := s.transport.Get(ctx, fmt.Sprintf("/tasks/%d", id), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *taskService) SharedWith(ctx context.Context, id int64) ([]models.SharedGrant, error) {
	var resp dataEnvelope[[]models.SharedGrant]
	if err := s.transport.Get(ctx, fmt.Sprintf("/tasks/%d/shared", id), &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (s *taskService) Permissions(ctx context.Context) ([]models.Permission, error) {
	var resp dataEnvelope[[]models.Permission]
	if err := s.transport.Get(ctx, "/permissions", &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (s *taskService) ToggleCompletion(ctx context.Context, id int64) error {
	return s.transport.Post(ctx, fmt.Sprintf("/tasks/mark/%d", id), nil, nil)
}

func (s *taskService) Share(ctx context.Context, id int64, req models.ShareRequest) error {
	return s.transport.Post(ctx, fmt.Sprintf("/tasks/share/%d", id), req, nil)
}

func (s *taskService) Update(ctx context.Context, id int64, in models.TaskInput) error {
	return s.transport.Put(ctx, fmt.Sprintf("/tasks/%d", id), in, nil)
}

func (s *taskService) Create(ctx context.Context, in models.TaskInput) error {
	return s.transport.Post(ctx, "/tasks", in, nil)
}
