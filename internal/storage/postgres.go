package storage

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/avgarcia/go-tasklist/internal/models"
)

type PostgresStore struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
}

func NewPostgresStore(logger zerolog.Logger, pgPool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{
		logger: logger,
		pgPool: pgPool,
	}
}

// Migrate applies the schema. It is idempotent and runs on every startup.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS users
(
    id         BIGSERIAL PRIMARY KEY,
    name       TEXT        NOT NULL UNIQUE,
    password   TEXT        NOT NULL,
    created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS tasks
(
    id          BIGSERIAL PRIMARY KEY,
    description TEXT        NOT NULL,
    user_id     BIGINT      NOT NULL REFERENCES users (id),
    created_at  TIMESTAMPTZ NOT NULL
);
`
	_, err := s.pgPool.Exec(ctx, schema)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to apply schema")
		return err
	}

	s.logger.Info().Msg("applied schema")
	return nil
}

func (s *PostgresStore) FindUserByName(ctx context.Context, name string) (*models.User, error) {
	user := &models.User{Name: name}

	const selectUserByNameQuery = `
SELECT id,
       password,
       created_at
FROM users
WHERE name = $1
`
	err := s.pgPool.QueryRow(
		ctx,
		selectUserByNameQuery,
		user.Name,
	).Scan(
		&user.ID,
		&user.Password,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}

		s.logger.Error().
			Err(err).
			Str("name", user.Name).
			Msg("failed to select user by name")
		return nil, err
	}
	s.logger.Debug().
		Int64("user_id", user.ID).
		Str("name", user.Name).
		Msg("selected user by name")

	return user, nil
}

func (s *PostgresStore) FindUserByID(ctx context.Context, id int64) (*models.User, error) {
	user := &models.User{ID: id}

	const selectUserByIDQuery = `
SELECT name,
       password,
       created_at
FROM users
WHERE id = $1
`
	err := s.pgPool.QueryRow(
		ctx,
		selectUserByIDQuery,
		user.ID,
	).Scan(
		&user.Name,
		&user.Password,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}

		s.logger.Error().
			Err(err).
			Int64("user_id", user.ID).
			Msg("failed to select user by id")
		return nil, err
	}
	s.logger.Debug().
		Int64("user_id", user.ID).
		Msg("selected user by id")

	return user, nil
}

func (s *PostgresStore) CreateUser(ctx context.Context, name, passwordHash string) (*models.User, error) {
	user := &models.User{
		Name:      name,
		Password:  passwordHash,
		CreatedAt: time.Now(),
	}

	const insertUserQuery = `
INSERT INTO users (name,
                   password,
                   created_at)
VALUES ($1, $2, $3)
RETURNING id
`
	err := s.pgPool.QueryRow(
		ctx,
		insertUserQuery,
		user.Name,
		user.Password,
		user.CreatedAt,
	).Scan(&user.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			s.logger.Warn().
				Str("name", user.Name).
				Msg("user with this name already exists")
			return nil, ErrUserExists
		}

		s.logger.Error().
			Err(err).
			Str("name", user.Name).
			Msg("failed to insert user")
		return nil, err
	}
	s.logger.Debug().
		Int64("user_id", user.ID).
		Str("name", user.Name).
		Msg("inserted user")

	return user, nil
}

func (s *PostgresStore) ListTasksForUser(ctx context.Context, userID int64) ([]models.Task, error) {
	const selectTasksByUserIDQuery = `
SELECT id,
       description,
       created_at
FROM tasks
WHERE user_id = $1
ORDER BY id
`
	rows, err := s.pgPool.Query(
		ctx,
		selectTasksByUserIDQuery,
		userID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("user_id", userID).
			Msg("failed to select tasks by user id")
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		task := models.Task{UserID: userID}
		err = rows.Scan(
			&task.ID,
			&task.Description,
			&task.CreatedAt,
		)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan task")
			return nil, err
		}
		tasks = append(tasks, task)
	}

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}
	s.logger.Debug().
		Int("count", len(tasks)).
		Int64("user_id", userID).
		Msg("selected tasks by user id")

	return tasks, nil
}

func (s *PostgresStore) CreateTask(ctx context.Context, description string, userID int64) (*models.Task, error) {
	task := &models.Task{
		UserID:      userID,
		Description: description,
		CreatedAt:   time.Now(),
	}

	const insertTaskQuery = `
INSERT INTO tasks (description,
                   user_id,
                   created_at)
VALUES ($1, $2, $3)
RETURNING id
`
	err := s.pgPool.QueryRow(
		ctx,
		insertTaskQuery,
		task.Description,
		task.UserID,
		task.CreatedAt,
	).Scan(&task.ID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("user_id", task.UserID).
			Msg("failed to insert task")
		return nil, err
	}
	s.logger.Debug().
		Int64("task_id", task.ID).
		Int64("user_id", task.UserID).
		Msg("inserted task")

	return task, nil
}

func (s *PostgresStore) DeleteTask(ctx context.Context, taskID, userID int64) (bool, error) {
	const deleteTaskQuery = `
DELETE FROM tasks
WHERE id = $1 AND user_id = $2
`
	tag, err := s.pgPool.Exec(
		ctx,
		deleteTaskQuery,
		taskID,
		userID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("task_id", taskID).
			Msg("failed to delete task")
		return false, err
	}
	s.logger.Debug().
		Int64("task_id", taskID).
		Int64("user_id", userID).
		Int64("affected", tag.RowsAffected()).
		Msg("deleted task")

	return tag.RowsAffected() > 0, nil
}
