package impl

import (
	"context"
	"log/slog"

	deliverycontext "ormlab/internal/delivery/context"
	"ormlab/internal/domain/entity"
	domainerrors "ormlab/internal/domain/errors"
	"ormlab/internal/domain/repository"
	"ormlab/internal/errors"
	"ormlab/internal/usecase"

	"go.uber.org/fx"
)

// memberService implements the MemberUsecase interface.
type memberService struct {
	txManager repository.TransactionManager
	logger    *slog.Logger
}

// MemberServiceParams holds dependencies for MemberService, injected by Fx.
type MemberServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	Logger    *slog.Logger
}

// NewMemberService is the constructor for memberService.
func NewMemberService(params MemberServiceParams) usecase.MemberUsecase {
	return &memberService{
		txManager: params.TxManager,
		logger:    orDiscard(params.Logger),
	}
}

// log returns the run-scoped logger if available, otherwise the service logger.
func (srv *memberService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Join registers a member after checking that the name is free.
func (srv *memberService) Join(ctx context.Context, input usecase.JoinMemberInput) (int64, error) {
	if err := validateInput(input); err != nil {
		return 0, err
	}

	var member *entity.Member
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		memberRepo := repoFactory.NewMemberRepository()

		existing, err := memberRepo.FindByName(ctx, input.Name)
		if err != nil {
			return errors.Wrap(err, "failed to check member name")
		}
		if len(existing) > 0 {
			return domainerrors.ErrMemberAlreadyExists.WithDetails(input.Name)
		}

		member = entity.NewMember(input.Name, input.Age, entity.NewAddress(input.City, input.Street, input.Zipcode))

		return memberRepo.Save(ctx, member)
	})
	if err != nil {
		srv.log(ctx).Warn("Failed to join member", slog.String("name", input.Name), slog.Any("error", err))

		return 0, errors.Wrap(err, "failed to execute join transaction")
	}

	srv.log(ctx).Info("Member joined", slog.Int64("memberID", member.ID), slog.String("name", member.Name))

	return member.ID, nil
}

func (srv *memberService) FindMembers(ctx context.Context) ([]*entity.Member, error) {
	var members []*entity.Member
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		var err error
		members, err = repoFactory.NewMemberRepository().FindAll(ctx)

		return err
	})

	return members, errors.Wrap(err, "failed to find members")
}

func (srv *memberService) FindOne(ctx context.Context, memberID int64) (*entity.Member, error) {
	var member *entity.Member
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		var err error
		member, err = findMember(ctx, repoFactory.NewMemberRepository(), memberID)

		return err
	})
	if err != nil {
		return nil, err
	}

	return member, nil
}

// UpdateName changes the managed instance only; the commit writes the update.
func (srv *memberService) UpdateName(ctx context.Context, memberID int64, name string) error {
	if name == "" {
		return domainerrors.ErrValidationFailed.WithDetails("name is required")
	}

	return srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		member, err := findMember(ctx, repoFactory.NewMemberRepository(), memberID)
		if err != nil {
			return err
		}
		member.Name = name

		return nil
	})
}

func (srv *memberService) CreateTeam(ctx context.Context, name string) (int64, error) {
	if name == "" {
		return 0, domainerrors.ErrValidationFailed.WithDetails("team name is required")
	}

	team := entity.NewTeam(name)
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		return repoFactory.NewTeamRepository().Save(ctx, team)
	})
	if err != nil {
		return 0, errors.Wrap(err, "failed to create team")
	}

	return team.ID, nil
}

func (srv *memberService) ChangeTeam(ctx context.Context, memberID, teamID int64) error {
	return srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		member, err := findMember(ctx, repoFactory.NewMemberRepository(), memberID)
		if err != nil {
			return err
		}

		team, err := repoFactory.NewTeamRepository().FindByID(ctx, teamID)
		if errors.Is(err, repository.ErrTeamNotFound) {
			return domainerrors.ErrTeamNotFound.WithDetails(formatID(teamID))
		}
		if err != nil {
			return err
		}
		member.ChangeTeam(team)

		return nil
	})
}

func (srv *memberService) AgeUp(ctx context.Context, age int) (int64, error) {
	var n int64
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		var err error
		n, err = repoFactory.NewMemberRepository().BulkAgePlus(ctx, age)

		return err
	})
	if err != nil {
		return 0, errors.Wrap(err, "failed to age members")
	}

	srv.log(ctx).Info("Members aged", slog.Int("fromAge", age), slog.Int64("rows", n))

	return n, nil
}

func (srv *memberService) TeamReport(ctx context.Context) ([]repository.TeamHeadcount, error) {
	var counts []repository.TeamHeadcount
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		var err error
		counts, err = repoFactory.NewMemberRepository().CountByTeam(ctx)

		return err
	})

	return counts, errors.Wrap(err, "failed to build team report")
}

func findMember(ctx context.Context, repo repository.MemberRepository, memberID int64) (*entity.Member, error) {
	member, err := repo.FindByID(ctx, memberID)
	if errors.Is(err, repository.ErrMemberNotFound) {
		return nil, domainerrors.ErrMemberNotFound.WithDetails(formatID(memberID))
	}
	if err != nil {
		return nil, err
	}

	return member, nil
}
