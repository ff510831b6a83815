package ormrepo

import (
	"context"

	"ormlab/internal/domain/entity"
	"ormlab/internal/domain/repository"
	"ormlab/internal/errors"
	"ormlab/internal/orm"
)

type teamRepository struct {
	s *orm.Session
}

// NewTeamRepository is the constructor for teamRepository.
func NewTeamRepository(s *orm.Session) repository.TeamRepository {
	return &teamRepository{s: s}
}

func (repo *teamRepository) Save(_ context.Context, team *entity.Team) error {
	return errors.Wrap(repo.s.Persist(team), "failed to save team")
}

func (repo *teamRepository) FindByID(ctx context.Context, id int64) (*entity.Team, error) {
	team, err := orm.Find[entity.Team](ctx, repo.s, id)
	if err != nil {
		if errors.Is(err, orm.ErrEntityNotFound) {
			return nil, repository.ErrTeamNotFound
		}

		return nil, errors.Wrap(err, "failed to find team by id")
	}

	return team, nil
}

// FindAllWithMembers joins the collection, so the result is deduplicated per
// team and cannot be paged.
func (repo *teamRepository) FindAllWithMembers(ctx context.Context) ([]*entity.Team, error) {
	teams, err := orm.From[entity.Team]("t").
		LeftFetchJoin("t.Members", "m").
		OrderBy(orm.Asc(orm.P("t")), orm.Asc(orm.P("m"))).
		List(ctx, repo.s)

	return teams, errors.Wrap(err, "failed to find teams with members")
}
