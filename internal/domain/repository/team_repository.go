package repository

import (
	"context"
	"errors"

	"ormlab/internal/domain/entity"
)

// ErrTeamNotFound is returned when a team is not found.
var ErrTeamNotFound = errors.New("team not found")

// TeamRepository defines the operations for team persistence.
type TeamRepository interface {
	// Save makes a new team managed.
	Save(ctx context.Context, team *entity.Team) error

	// FindByID retrieves a single team by ID.
	FindByID(ctx context.Context, id int64) (*entity.Team, error)

	// FindAllWithMembers loads every team with its members in one statement.
	FindAllWithMembers(ctx context.Context) ([]*entity.Team, error)
}
