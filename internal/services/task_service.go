package services

import (
	"context"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/avgarcia/go-tasklist/internal/models"
	"github.com/avgarcia/go-tasklist/internal/storage"
)

type taskServiceImpl struct {
	logger zerolog.Logger
	store  storage.Store
}

func NewTaskService(logger zerolog.Logger, store storage.Store) TaskService {
	return &taskServiceImpl{
		logger: logger,
		store:  store,
	}
}

func (s *taskServiceImpl) AddTask(ctx context.Context, user *models.User, description string) (*models.Task, error) {
	if user == nil || description == "" {
		return nil, nil
	}

	task, err := s.store.CreateTask(ctx, description, user.ID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("user_id", user.ID).
			Msg("failed to create task")
		return nil, err
	}

	s.logger.Info().
		Int64("task_id", task.ID).
		Int64("user_id", user.ID).
		Msg("created task")
	return task, nil
}

func (s *taskServiceImpl) RemoveTask(ctx context.Context, user *models.User, rawTaskID string) (bool, error) {
	if user == nil || rawTaskID == "" {
		return false, nil
	}

	taskID, err := strconv.ParseInt(rawTaskID, 10, 64)
	if err != nil {
		s.logger.Warn().
			Str("task_id", rawTaskID).
			Msg("malformed task id")
		return false, nil
	}

	deleted, err := s.store.DeleteTask(ctx, taskID, user.ID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("task_id", taskID).
			Msg("failed to delete task")
		return false, err
	}
	if !deleted {
		// Nonexistent or not owned by the caller. Both stay silent.
		s.logger.Debug().
			Int64("task_id", taskID).
			Int64("user_id", user.ID).
			Msg("task not found")
		return false, nil
	}

	s.logger.Info().
		Int64("task_id", taskID).
		Int64("user_id", user.ID).
		Msg("deleted task")
	return true, nil
}
