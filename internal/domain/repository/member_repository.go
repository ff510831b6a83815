// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"ormlab/internal/domain/entity"
	"ormlab/internal/orm"
)

// ErrMemberNotFound is a domain-specific error returned when a member is not found.
var ErrMemberNotFound = errors.New("member not found")

// TeamHeadcount is the number of members per team name.
type TeamHeadcount struct {
	TeamName string
	Members  int64
	AvgAge   float64
}

// MemberRepository defines the standard operations for member persistence.
type MemberRepository interface {
	// Save makes a new member managed. It is inserted at the next flush.
	Save(ctx context.Context, member *entity.Member) error

	// FindByID retrieves a single member by ID.
	FindByID(ctx context.Context, id int64) (*entity.Member, error)

	// FindByName returns every member with exactly this name.
	FindByName(ctx context.Context, name string) ([]*entity.Member, error)

	// FindAll returns all members ordered by ID.
	FindAll(ctx context.Context) ([]*entity.Member, error)

	// FindPageByAge returns members of the given age ordered by name descending,
	// together with the total count.
	FindPageByAge(ctx context.Context, age, offset, limit int) (*orm.Page[entity.Member], error)

	// FindAllWithTeam loads members and their teams with one statement.
	FindAllWithTeam(ctx context.Context) ([]*entity.Member, error)

	// BulkAgePlus adds one year to every member at least age years old and
	// returns the number of rows changed. Members already loaded keep their old age.
	BulkAgePlus(ctx context.Context, age int) (int64, error)

	// CountByTeam aggregates members per team.
	CountByTeam(ctx context.Context) ([]TeamHeadcount, error)

	// Delete schedules the member for removal.
	Delete(ctx context.Context, member *entity.Member) error
}
