package npcimport_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/engine"
	enginemock "github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/engine/mock"
	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/engine/rules"
	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/entities/lancer"
	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/errors"
	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/orchestrators/npcimport"
	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/repositories/actor"
	actormock "github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/repositories/actor/mock"
	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/services/resolver"
	resolvermock "github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/services/resolver/mock"
	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/testutils"
	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/testutils/builders"
	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/testutils/mocks"
)

// StoreFailureTestSuite covers store and library failures with mocks
type StoreFailureTestSuite struct {
	suite.Suite
	ctrl         *gomock.Controller
	mockActors   *actormock.MockRepository
	mockResolver *resolvermock.MockService
	orchestrator npcimport.Service
	ctx          context.Context
}

func TestStoreFailureSuite(t *testing.T) {
	suite.Run(t, new(StoreFailureTestSuite))
}

func (s *StoreFailureTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockActors = actormock.NewMockRepository(s.ctrl)
	s.mockResolver = resolvermock.NewMockService(s.ctrl)
	s.ctx = context.Background()

	eng, err := rules.NewAdapter(&rules.AdapterConfig{})
	s.Require().NoError(err)

	s.orchestrator, err = npcimport.NewOrchestrator(&npcimport.Config{
		ActorRepo: s.mockActors,
		Resolver:  s.mockResolver,
		Engine:    eng,
	})
	s.Require().NoError(err)
}

func (s *StoreFailureTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func warbotEntry() *lancer.LibraryEntry {
	stats := testutils.WarbotStats()
	return &lancer.LibraryEntry{
		ID:        "cls-warbot",
		LID:       testutils.WarbotClassLID,
		Type:      lancer.ItemTypeClass,
		Name:      "Warbot",
		BaseStats: &stats,
	}
}

func (s *StoreFailureTestSuite) TestCreateFails() {
	s.mockActors.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		Return(nil, errors.Internal("disk full"))

	_, err := s.orchestrator.ImportOne(s.ctx, &npcimport.ImportOneInput{
		Record: builders.NewNpcRecordBuilder().Build(),
	})
	s.Require().Error(err)
	s.True(errors.IsInternal(err))
	s.Contains(err.Error(), "failed to create actor")
	s.Contains(err.Error(), "disk full")
}

func (s *StoreFailureTestSuite) TestFindFails() {
	s.mockActors.EXPECT().
		Find(gomock.Any(), actor.FindInput{Type: lancer.ActorTypeNPC, LID: "cc-npc-test-1"}).
		Return(nil, errors.Unavailablef("redis down"))

	_, err := s.orchestrator.ImportOne(s.ctx, &npcimport.ImportOneInput{
		Record:         builders.NewNpcRecordBuilder().Build(),
		UpdateExisting: true,
	})
	s.Require().Error(err)
	s.Equal(errors.CodeUnavailable, errors.GetCode(err))
}

func (s *StoreFailureTestSuite) TestResolverFails() {
	s.mockActors.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		Return(&actor.CreateOutput{Actor: &lancer.Actor{ID: "a1", Name: "Test NPC"}}, nil)
	s.mockResolver.EXPECT().
		FindByLID(gomock.Any(), &resolver.FindByLIDInput{LID: testutils.WarbotClassLID, Type: lancer.ItemTypeClass}).
		Return(nil, errors.Internal("library unreadable"))

	_, err := s.orchestrator.ImportOne(s.ctx, &npcimport.ImportOneInput{
		Record: builders.NewNpcRecordBuilder().Build(),
	})
	s.Require().Error(err)
	s.True(errors.IsInternal(err))
	s.Contains(err.Error(), "failed to resolve npc_class npc_class_warbot")
}

func (s *StoreFailureTestSuite) TestFeatureAttachFails() {
	record := builders.NewNpcRecordBuilder().
		WithFeatures(testutils.AutocannonLID).
		Build()
	current := &lancer.Actor{ID: "a1", Name: "Test NPC"}

	gomock.InOrder(
		mocks.ExpectActorCreate(s.mockActors, "a1"),
		mocks.ExpectLibraryEntry(s.mockResolver, warbotEntry()),
		mocks.ExpectItemsCreate(s.mockActors, "a1"),
		s.mockActors.EXPECT().
			Get(gomock.Any(), actor.GetInput{ID: "a1"}).
			Return(&actor.GetOutput{Actor: current}, nil),
		mocks.ExpectLibraryEntry(s.mockResolver, &lancer.LibraryEntry{
			LID: testutils.AutocannonLID, Type: lancer.ItemTypeFeature, Name: "Autocannon",
		}),
		s.mockActors.EXPECT().
			CreateItems(gomock.Any(), gomock.Any()).
			Return(nil, errors.NotFoundf("actor a1 not found")),
	)

	_, err := s.orchestrator.ImportOne(s.ctx, &npcimport.ImportOneInput{Record: record})
	s.Require().Error(err)
	s.True(errors.IsNotFound(err))
	s.Contains(err.Error(), "failed to attach features to actor a1")
}

func (s *StoreFailureTestSuite) TestMissingLibraryEntriesAreReported() {
	record := builders.NewNpcRecordBuilder().
		WithFeatures(testutils.AutocannonLID).
		Build()
	current := &lancer.Actor{ID: "a1", Name: "Test NPC"}

	gomock.InOrder(
		mocks.ExpectActorCreate(s.mockActors, "a1"),
		mocks.ExpectLibraryMiss(s.mockResolver, testutils.WarbotClassLID, lancer.ItemTypeClass),
		s.mockActors.EXPECT().
			Get(gomock.Any(), actor.GetInput{ID: "a1"}).
			Return(&actor.GetOutput{Actor: current}, nil),
		mocks.ExpectLibraryMiss(s.mockResolver, testutils.AutocannonLID, lancer.ItemTypeFeature),
		s.mockActors.EXPECT().
			Get(gomock.Any(), actor.GetInput{ID: "a1"}).
			Return(&actor.GetOutput{Actor: current}, nil),
		s.mockActors.EXPECT().
			Update(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, input actor.UpdateInput) (*actor.UpdateOutput, error) {
				s.Zero(input.System.HP.Max)
				s.Len(input.System.Stats, 16)
				return &actor.UpdateOutput{Actor: &lancer.Actor{ID: input.ID, Name: input.Name, System: input.System}}, nil
			}),
	)

	out, err := s.orchestrator.ImportOne(s.ctx, &npcimport.ImportOneInput{Record: record})
	s.Require().NoError(err)
	s.Equal([]string{"Class: " + testutils.WarbotClassLID}, out.Report.MissingItems)
	s.Equal([]string{testutils.AutocannonLID}, out.Report.MissingFeatures)
}

func (s *StoreFailureTestSuite) TestImportManyContinuesAfterFailures() {
	s.mockActors.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		Return(nil, errors.Internal("disk full")).
		Times(2)

	t := s.T()
	out, err := s.orchestrator.ImportMany(s.ctx, &npcimport.ImportManyInput{
		Records: []json.RawMessage{
			testutils.MustJSON(t, builders.NewNpcRecordBuilder().WithName("One").Build()),
			testutils.MustJSON(t, builders.NewNpcRecordBuilder().WithName("Two").Build()),
		},
	})
	s.Require().NoError(err)

	s.Equal(2, out.ErrorCount)
	s.Zero(out.SuccessCount)
	s.Require().Len(out.Results, 2)
	s.Equal("Two", out.Results[1].Name)
	s.Contains(out.Results[1].Error, "disk full")
}

func (s *StoreFailureTestSuite) TestEngineFailureStopsBeforeCreate() {
	mockEngine := enginemock.NewMockEngine(s.ctrl)
	orchestrator, err := npcimport.NewOrchestrator(&npcimport.Config{
		ActorRepo: s.mockActors,
		Resolver:  s.mockResolver,
		Engine:    mockEngine,
	})
	s.Require().NoError(err)

	mockEngine.EXPECT().ParseTier(float64(1)).Return(1)
	mockEngine.EXPECT().
		DeriveStats(gomock.Any(), &engine.DeriveStatsInput{Tier: 1}).
		Return(nil, errors.Internal("stat table corrupt"))

	_, err = orchestrator.ImportOne(s.ctx, &npcimport.ImportOneInput{
		Record: builders.NewNpcRecordBuilder().Build(),
	})
	s.Require().Error(err)
	s.True(errors.IsInternal(err))
	s.Contains(err.Error(), "failed to derive stats")
}
