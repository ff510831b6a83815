package impl

import (
	"context"
	"log/slog"
	"testing"

	"ormlab/internal/domain/entity"
	domainerrors "ormlab/internal/domain/errors"
	"ormlab/internal/domain/repository"
	mockRepo "ormlab/internal/mocks/repository"
	"ormlab/internal/usecase"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const txFuncType = "func(repository.RepositoryFactory) error"

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// memberServiceFixtures holds all test dependencies for member service tests.
type memberServiceFixtures struct {
	service    usecase.MemberUsecase
	txManager  *mockRepo.MockTransactionManager
	factory    *mockRepo.MockRepositoryFactory
	memberRepo *mockRepo.MockMemberRepository
	teamRepo   *mockRepo.MockTeamRepository
}

func createTestMemberService(t *testing.T) memberServiceFixtures {
	txManager := mockRepo.NewMockTransactionManager(t)
	service := NewMemberService(MemberServiceParams{
		TxManager: txManager,
		Logger:    newDiscardLogger(),
	})

	return memberServiceFixtures{
		service:    service,
		txManager:  txManager,
		factory:    mockRepo.NewMockRepositoryFactory(t),
		memberRepo: mockRepo.NewMockMemberRepository(t),
		teamRepo:   mockRepo.NewMockTeamRepository(t),
	}
}

// runTx makes the transaction manager call fn with the fixture factory and
// return what fn returns.
func (f memberServiceFixtures) runTx(ctx context.Context) {
	f.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType(txFuncType)).
		RunAndReturn(func(_ context.Context, fn func(repository.RepositoryFactory) error) error {
			return fn(f.factory)
		})
}

func TestMemberService_Join_Success(t *testing.T) {
	fx := createTestMemberService(t)
	ctx := context.Background()
	fx.runTx(ctx)

	fx.factory.EXPECT().NewMemberRepository().Return(fx.memberRepo)
	fx.memberRepo.EXPECT().FindByName(ctx, "kim").Return(nil, nil)
	fx.memberRepo.EXPECT().
		Save(ctx, mock.AnythingOfType("*entity.Member")).
		Run(func(_ context.Context, member *entity.Member) {
			member.ID = 11
		}).
		Return(nil)

	id, err := fx.service.Join(ctx, usecase.JoinMemberInput{Name: "kim", Age: 30, City: "Seoul"})
	require.NoError(t, err)
	assert.Equal(t, int64(11), id)
}

func TestMemberService_Join_DuplicateName(t *testing.T) {
	fx := createTestMemberService(t)
	ctx := context.Background()
	fx.runTx(ctx)

	fx.factory.EXPECT().NewMemberRepository().Return(fx.memberRepo)
	fx.memberRepo.EXPECT().
		FindByName(ctx, "kim").
		Return([]*entity.Member{entity.NewMember("kim", 20, entity.Address{})}, nil)

	_, err := fx.service.Join(ctx, usecase.JoinMemberInput{Name: "kim"})
	require.ErrorIs(t, err, domainerrors.ErrMemberAlreadyExists)
	assert.Equal(t, domainerrors.KindConflict, domainerrors.KindOf(err))
}

func TestMemberService_Join_InvalidInput(t *testing.T) {
	fx := createTestMemberService(t)

	tests := []struct {
		name  string
		input usecase.JoinMemberInput
	}{
		{name: "missing name", input: usecase.JoinMemberInput{Age: 10}},
		{name: "negative age", input: usecase.JoinMemberInput{Name: "kim", Age: -1}},
		{name: "age too high", input: usecase.JoinMemberInput{Name: "kim", Age: 151}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fx.service.Join(context.Background(), tt.input)
			require.ErrorIs(t, err, domainerrors.ErrValidationFailed)
			assert.Equal(t, domainerrors.KindInvalid, domainerrors.KindOf(err))
		})
	}
}

func TestMemberService_FindOne_NotFound(t *testing.T) {
	fx := createTestMemberService(t)
	ctx := context.Background()
	fx.runTx(ctx)

	fx.factory.EXPECT().NewMemberRepository().Return(fx.memberRepo)
	fx.memberRepo.EXPECT().FindByID(ctx, int64(404)).Return(nil, repository.ErrMemberNotFound)

	member, err := fx.service.FindOne(ctx, 404)
	require.ErrorIs(t, err, domainerrors.ErrMemberNotFound)
	assert.Nil(t, member)
	assert.Equal(t, domainerrors.KindNotFound, domainerrors.KindOf(err))
}

func TestMemberService_UpdateName(t *testing.T) {
	fx := createTestMemberService(t)
	ctx := context.Background()
	fx.runTx(ctx)

	member := entity.NewMember("kim", 20, entity.Address{})
	fx.factory.EXPECT().NewMemberRepository().Return(fx.memberRepo)
	fx.memberRepo.EXPECT().FindByID(ctx, int64(1)).Return(member, nil)

	require.NoError(t, fx.service.UpdateName(ctx, 1, "lee"))
	assert.Equal(t, "lee", member.Name)
}

func TestMemberService_UpdateName_Empty(t *testing.T) {
	fx := createTestMemberService(t)

	err := fx.service.UpdateName(context.Background(), 1, "")
	require.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestMemberService_ChangeTeam_TeamNotFound(t *testing.T) {
	fx := createTestMemberService(t)
	ctx := context.Background()
	fx.runTx(ctx)

	fx.factory.EXPECT().NewMemberRepository().Return(fx.memberRepo)
	fx.factory.EXPECT().NewTeamRepository().Return(fx.teamRepo)
	fx.memberRepo.EXPECT().FindByID(ctx, int64(1)).Return(entity.NewMember("kim", 20, entity.Address{}), nil)
	fx.teamRepo.EXPECT().FindByID(ctx, int64(9)).Return(nil, repository.ErrTeamNotFound)

	err := fx.service.ChangeTeam(ctx, 1, 9)
	require.ErrorIs(t, err, domainerrors.ErrTeamNotFound)
}

func TestMemberService_AgeUp(t *testing.T) {
	fx := createTestMemberService(t)
	ctx := context.Background()
	fx.runTx(ctx)

	fx.factory.EXPECT().NewMemberRepository().Return(fx.memberRepo)
	fx.memberRepo.EXPECT().BulkAgePlus(ctx, 20).Return(int64(3), nil)

	n, err := fx.service.AgeUp(ctx, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestMemberService_TeamReport_Error(t *testing.T) {
	fx := createTestMemberService(t)
	ctx := context.Background()
	boom := errors.New("boom")

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType(txFuncType)).
		Return(boom)

	counts, err := fx.service.TeamReport(ctx)
	require.ErrorIs(t, err, boom)
	assert.Nil(t, counts)
}
