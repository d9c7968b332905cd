package storage

import (
	"context"
	"sync"
	"time"

	"github.com/avgarcia/go-tasklist/internal/models"
)

// MemoryStore is an in-process Store used by tests. It enforces the same
// name-uniqueness and ownership rules as the Postgres implementation.
type MemoryStore struct {
	mu         sync.Mutex
	users      map[int64]models.User
	tasks      map[int64]models.Task
	nextUserID int64
	nextTaskID int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users: make(map[int64]models.User),
		tasks: make(map[int64]models.Task),
	}
}

func (s *MemoryStore) FindUserByName(_ context.Context, name string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.Name == name {
			u := user
			return &u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (s *MemoryStore) FindUserByID(_ context.Context, id int64) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	u := user
	return &u, nil
}

func (s *MemoryStore) CreateUser(_ context.Context, name, passwordHash string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.Name == name {
			return nil, ErrUserExists
		}
	}

	s.nextUserID++
	user := models.User{
		ID:        s.nextUserID,
		Name:      name,
		Password:  passwordHash,
		CreatedAt: time.Now(),
	}
	s.users[user.ID] = user

	u := user
	return &u, nil
}

func (s *MemoryStore) ListTasksForUser(_ context.Context, userID int64) ([]models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var tasks []models.Task
	// Task ids are assigned sequentially, so ascending id is insertion order.
	for id := int64(1); id <= s.nextTaskID; id++ {
		task, ok := s.tasks[id]
		if ok && task.UserID == userID {
			tasks = append(tasks, task)
		}
	}
	return tasks, nil
}

func (s *MemoryStore) CreateTask(_ context.Context, description string, userID int64) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextTaskID++
	task := models.Task{
		ID:          s.nextTaskID,
		UserID:      userID,
		Description: description,
		CreatedAt:   time.Now(),
	}
	s.tasks[task.ID] = task

	t := task
	return &t, nil
}

func (s *MemoryStore) DeleteTask(_ context.Context, taskID, userID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[taskID]
	if !ok || task.UserID != userID {
		return false, nil
	}
	delete(s.tasks, taskID)
	return true, nil
}
