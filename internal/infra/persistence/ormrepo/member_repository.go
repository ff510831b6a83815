package ormrepo

import (
	"context"

	"ormlab/internal/domain/entity"
	"ormlab/internal/domain/repository"
	"ormlab/internal/errors"
	"ormlab/internal/orm"
)

// memberRepository implements the domain.MemberRepository interface using an orm session.
type memberRepository struct {
	s *orm.Session
}

// NewMemberRepository is the constructor for memberRepository.
func NewMemberRepository(s *orm.Session) repository.MemberRepository {
	return &memberRepository{s: s}
}

func (repo *memberRepository) Save(_ context.Context, member *entity.Member) error {
	return errors.Wrap(repo.s.Persist(member), "failed to save member")
}

func (repo *memberRepository) FindByID(ctx context.Context, id int64) (*entity.Member, error) {
	member, err := orm.Find[entity.Member](ctx, repo.s, id)
	if err != nil {
		if errors.Is(err, orm.ErrEntityNotFound) {
			return nil, repository.ErrMemberNotFound
		}

		return nil, errors.Wrap(err, "failed to find member by id")
	}

	return member, nil
}

func (repo *memberRepository) FindByName(ctx context.Context, name string) ([]*entity.Member, error) {
	members, err := orm.From[entity.Member]("m").
		Where(orm.Eq(orm.P("m.Name"), name)).
		OrderBy(orm.Asc(orm.P("m"))).
		List(ctx, repo.s)

	return members, errors.Wrap(err, "failed to find members by name")
}

func (repo *memberRepository) FindAll(ctx context.Context) ([]*entity.Member, error) {
	members, err := orm.From[entity.Member]("m").OrderBy(orm.Asc(orm.P("m"))).List(ctx, repo.s)

	return members, errors.Wrap(err, "failed to find members")
}

func (repo *memberRepository) FindPageByAge(ctx context.Context, age, offset, limit int) (*orm.Page[entity.Member], error) {
	page, err := orm.From[entity.Member]("m").
		Where(orm.Eq(orm.P("m.Age"), age)).
		OrderBy(orm.Desc(orm.P("m.Name"))).
		Page(ctx, repo.s, offset, limit)

	return page, errors.Wrap(err, "failed to page members by age")
}

func (repo *memberRepository) FindAllWithTeam(ctx context.Context) ([]*entity.Member, error) {
	members, err := orm.From[entity.Member]("m").
		LeftFetchJoin("m.Team", "t").
		OrderBy(orm.Asc(orm.P("m"))).
		List(ctx, repo.s)

	return members, errors.Wrap(err, "failed to find members with team")
}

func (repo *memberRepository) BulkAgePlus(ctx context.Context, age int) (int64, error) {
	n, err := orm.UpdateAll[entity.Member]("m").
		Set("Age", orm.Plus(orm.P("m.Age"), 1)).
		Where(orm.Ge(orm.P("m.Age"), age)).
		Execute(ctx, repo.s)

	return n, errors.Wrap(err, "failed to bulk update member age")
}

func (repo *memberRepository) CountByTeam(ctx context.Context) ([]repository.TeamHeadcount, error) {
	q := orm.From[entity.Member]("m").
		Join("m.Team", "t").
		GroupBy(orm.P("t.Name")).
		OrderBy(orm.Asc(orm.P("t.Name")))
	counts, err := orm.SelectInto[repository.TeamHeadcount](ctx, repo.s, q,
		orm.P("t.Name"), orm.Count(orm.P("m")), orm.Avg(orm.P("m.Age")))

	return counts, errors.Wrap(err, "failed to count members by team")
}

func (repo *memberRepository) Delete(ctx context.Context, member *entity.Member) error {
	return errors.Wrap(repo.s.Remove(ctx, member), "failed to delete member")
}
