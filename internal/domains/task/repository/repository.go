package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"

	"taskboard/infras/otel"
	"taskboard/infras/postgres"
	"taskboard/internal/domains/task/model"
	"taskboard/shared/constant"
	gDto "taskboard/shared/dto"
	"taskboard/shared/logger"
	gRepo "taskboard/shared/repository"
)

type Task interface {
	InsertReturning(ctx context.Context, model model.Task) (int64, error)
	InsertBulk(ctx context.Context, models []model.Task) ([]int64, error)
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Task, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Task, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) (int64, error)
	Delete(ctx context.Context, filter gDto.FilterGroup) (int64, error)
	Ping(ctx context.Context) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Task]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Task {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Task](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// InsertBulk inserts all rows in one transaction and returns the
// storage-assigned ids in input order. Any failure rolls the whole
// batch back, so either every row is created or none is.
func (repo *repositoryImpl) InsertBulk(ctx context.Context, models []model.Task) (ids []int64, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, fmt.Sprintf("%s.%s.InsertBulk", constant.OtelRepositoryScopeName, model.EntityName))
	defer scope.End()
	defer scope.TraceIfError(err)

	tx, err := repo.BeginTx(ctx)
	if err != nil {
		return nil, err
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logger.ErrorWithStack(rbErr)
			}
		}
	}()

	ids = make([]int64, 0, len(models))

	for _, mod := range models {
		id, insertErr := repo.InsertReturningTx(ctx, tx, mod)
		if insertErr != nil {
			err = insertErr

			return nil, err
		}

		ids = append(ids, id)
	}

	if err = tx.Commit(); err != nil {
		logger.ErrorWithStack(err)

		return nil, fmt.Errorf("failed to commit bulk insert (%s): %w", model.EntityName, err)
	}

	return ids, nil
}

// Ping verifies connectivity on both pools with a trivial round-trip.
func (repo *repositoryImpl) Ping(ctx context.Context) error {
	if err := repo.db.Read.PingContext(ctx); err != nil {
		return fmt.Errorf("read connection unavailable: %w", err)
	}

	if err := repo.db.Write.PingContext(ctx); err != nil {
		return fmt.Errorf("write connection unavailable: %w", err)
	}

	return nil
}
