// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"ormlab/internal/domain/entity"
	"ormlab/internal/domain/repository"
)

// --- Input DTOs ---

// JoinMemberInput defines the data required to register a new member.
type JoinMemberInput struct {
	Name    string `validate:"required,max=255"`
	Age     int    `validate:"gte=0,lte=150"`
	City    string `validate:"max=255"`
	Street  string `validate:"max=255"`
	Zipcode string `validate:"max=32"`
}

// MemberUsecase defines the interface for member-related business operations.
type MemberUsecase interface {
	// Join registers a member whose name is not taken yet and returns its ID.
	Join(ctx context.Context, input JoinMemberInput) (int64, error)

	// FindMembers returns all members. The results are detached.
	FindMembers(ctx context.Context) ([]*entity.Member, error)

	// FindOne returns one member.
	FindOne(ctx context.Context, memberID int64) (*entity.Member, error)

	// UpdateName renames a member. The change is written by dirty checking.
	UpdateName(ctx context.Context, memberID int64, name string) error

	// CreateTeam registers a team and returns its ID.
	CreateTeam(ctx context.Context, name string) (int64, error)

	// ChangeTeam moves a member into a team.
	ChangeTeam(ctx context.Context, memberID, teamID int64) error

	// AgeUp adds a year to every member aged at least age and returns how many changed.
	AgeUp(ctx context.Context, age int) (int64, error)

	// TeamReport counts members per team.
	TeamReport(ctx context.Context) ([]repository.TeamHeadcount, error)
}
