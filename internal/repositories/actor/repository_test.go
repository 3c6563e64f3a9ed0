package actor_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/entities/lancer"
	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/errors"
	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/pkg/idgen"
	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/repositories/actor"
	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/testutils"
)

// RepositoryTestSuite runs the same behavior checks against every backend
type RepositoryTestSuite struct {
	suite.Suite
	newRepo func(t *testing.T) actor.Repository
	repo    actor.Repository
	ctx     context.Context
}

func TestInMemoryRepository(t *testing.T) {
	suite.Run(t, &RepositoryTestSuite{newRepo: func(_ *testing.T) actor.Repository {
		return actor.NewInMemory(&actor.InMemoryConfig{IDGenerator: idgen.NewSequential("mem")})
	}})
}

func TestRedisRepository(t *testing.T) {
	suite.Run(t, &RepositoryTestSuite{newRepo: func(t *testing.T) actor.Repository {
		client, _ := testutils.CreateTestRedisClient(t)
		repo, err := actor.NewRedis(&actor.RedisConfig{Client: client, IDGenerator: idgen.NewSequential("redis")})
		if err != nil {
			t.Fatal(err)
		}
		return repo
	}})
}

func TestSQLiteRepository(t *testing.T) {
	suite.Run(t, &RepositoryTestSuite{newRepo: func(t *testing.T) actor.Repository {
		repo, err := actor.NewSQLite(context.Background(), &actor.SQLiteConfig{
			Path:        filepath.Join(t.TempDir(), "actors.db"),
			IDGenerator: idgen.NewSequential("sql"),
		})
		if err != nil {
			t.Fatal(err)
		}
		t.Cleanup(func() { _ = repo.Close() })
		return repo
	}})
}

func (s *RepositoryTestSuite) SetupTest() {
	s.repo = s.newRepo(s.T())
	s.ctx = context.Background()
}

func (s *RepositoryTestSuite) draft(name, lid string) *lancer.Actor {
	return &lancer.Actor{
		Type: lancer.ActorTypeNPC,
		Name: name,
		Img:  "portraits/" + name + ".png",
		PrototypeToken: map[string]any{
			"disposition": float64(-1),
		},
		System: lancer.ActorSystem{
			LID:    lid,
			Tier:   2,
			Side:   lancer.DefaultSide,
			Labels: []string{"front"},
		},
	}
}

func (s *RepositoryTestSuite) create(name, lid string) *lancer.Actor {
	out, err := s.repo.Create(s.ctx, actor.CreateInput{Actor: s.draft(name, lid)})
	s.Require().NoError(err)
	return out.Actor
}

func (s *RepositoryTestSuite) TestCreateAndGet() {
	created := s.create("Breaker", "cc-1")

	s.NotEmpty(created.ID)
	s.Positive(created.Sequence)
	s.NotZero(created.CreatedAt)

	got, err := s.repo.Get(s.ctx, actor.GetInput{ID: created.ID})
	s.Require().NoError(err)
	s.Equal(created.ID, got.Actor.ID)
	s.Equal("Breaker", got.Actor.Name)
	s.Equal("portraits/Breaker.png", got.Actor.Img)
	s.Equal(float64(-1), got.Actor.PrototypeToken["disposition"])
	s.Equal("cc-1", got.Actor.System.LID)
	s.Equal([]string{"front"}, got.Actor.System.Labels)
	s.Equal(created.Sequence, got.Actor.Sequence)
}

func (s *RepositoryTestSuite) TestCreate_Validation() {
	_, err := s.repo.Create(s.ctx, actor.CreateInput{})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.repo.Create(s.ctx, actor.CreateInput{Actor: &lancer.Actor{Type: lancer.ActorTypeNPC}})
	s.True(errors.IsInvalidArgument(err))
}

func (s *RepositoryTestSuite) TestGet_NotFound() {
	_, err := s.repo.Get(s.ctx, actor.GetInput{ID: "missing"})
	s.True(errors.IsNotFound(err))

	_, err = s.repo.Get(s.ctx, actor.GetInput{})
	s.True(errors.IsInvalidArgument(err))
}

func (s *RepositoryTestSuite) TestUpdateKeepsImageTokenAndItems() {
	created := s.create("Breaker", "cc-1")
	_, err := s.repo.CreateItems(s.ctx, actor.CreateItemsInput{
		ActorID: created.ID,
		Items:   []lancer.Item{{LID: "npc_class_assault", Type: lancer.ItemTypeClass, Name: "Assault"}},
	})
	s.Require().NoError(err)

	system := created.System
	system.Tier = 3
	system.Tag = "Elite"
	out, err := s.repo.Update(s.ctx, actor.UpdateInput{ID: created.ID, Name: "Breaker II", System: system})
	s.Require().NoError(err)

	s.Equal("Breaker II", out.Actor.Name)
	s.Equal(3, out.Actor.System.Tier)
	s.Equal("portraits/Breaker.png", out.Actor.Img)
	s.Equal(float64(-1), out.Actor.PrototypeToken["disposition"])
	s.Len(out.Actor.Items, 1)

	_, err = s.repo.Update(s.ctx, actor.UpdateInput{ID: "missing", Name: "x"})
	s.True(errors.IsNotFound(err))
}

func (s *RepositoryTestSuite) TestItemLifecycle() {
	created := s.create("Breaker", "cc-1")

	itemsOut, err := s.repo.CreateItems(s.ctx, actor.CreateItemsInput{
		ActorID: created.ID,
		Items: []lancer.Item{
			{LID: "npcf_a", Type: lancer.ItemTypeFeature, Name: "A"},
			{LID: "npcf_b", Type: lancer.ItemTypeFeature, Name: "B"},
			{LID: "npcf_a", Type: lancer.ItemTypeFeature, Name: "A"},
		},
	})
	s.Require().NoError(err)
	s.Require().Len(itemsOut.Items, 3)
	s.NotEqual(itemsOut.Items[0].ID, itemsOut.Items[2].ID, "each copy gets its own id")

	name := "Left Gun"
	uses := lancer.Counter{Value: 2, Max: 2}
	updated, err := s.repo.UpdateItems(s.ctx, actor.UpdateItemsInput{
		ActorID: created.ID,
		Patches: []lancer.ItemPatch{{ItemID: itemsOut.Items[2].ID, Name: &name, CustomName: &name, Uses: &uses}},
	})
	s.Require().NoError(err)
	s.Require().Len(updated.Items, 1)
	s.Equal("Left Gun", updated.Items[0].Name)

	got, err := s.repo.Get(s.ctx, actor.GetInput{ID: created.ID})
	s.Require().NoError(err)
	s.Equal("A", got.Actor.Items[0].Name)
	s.Equal("Left Gun", got.Actor.Items[2].Name)
	s.Equal(&uses, got.Actor.Items[2].Uses)

	deleted, err := s.repo.DeleteItems(s.ctx, actor.DeleteItemsInput{
		ActorID: created.ID,
		ItemIDs: []string{itemsOut.Items[0].ID, itemsOut.Items[1].ID, "unknown"},
	})
	s.Require().NoError(err)
	s.Equal(2, deleted.Deleted)

	got, err = s.repo.Get(s.ctx, actor.GetInput{ID: created.ID})
	s.Require().NoError(err)
	s.Require().Len(got.Actor.Items, 1)
	s.Equal(itemsOut.Items[2].ID, got.Actor.Items[0].ID)
}

func (s *RepositoryTestSuite) TestUpdateItems_RejectsUnknownItem() {
	created := s.create("Breaker", "cc-1")
	itemsOut, err := s.repo.CreateItems(s.ctx, actor.CreateItemsInput{
		ActorID: created.ID,
		Items:   []lancer.Item{{LID: "npcf_a", Type: lancer.ItemTypeFeature, Name: "A"}},
	})
	s.Require().NoError(err)

	name := "Renamed"
	_, err = s.repo.UpdateItems(s.ctx, actor.UpdateItemsInput{
		ActorID: created.ID,
		Patches: []lancer.ItemPatch{
			{ItemID: itemsOut.Items[0].ID, Name: &name},
			{ItemID: "unknown", Name: &name},
		},
	})
	s.True(errors.IsNotFound(err))

	got, err := s.repo.Get(s.ctx, actor.GetInput{ID: created.ID})
	s.Require().NoError(err)
	s.Equal("A", got.Actor.Items[0].Name, "a rejected batch changes nothing")
}

func (s *RepositoryTestSuite) TestItemOps_UnknownActor() {
	_, err := s.repo.CreateItems(s.ctx, actor.CreateItemsInput{ActorID: "missing"})
	s.True(errors.IsNotFound(err))

	_, err = s.repo.DeleteItems(s.ctx, actor.DeleteItemsInput{ActorID: "missing"})
	s.True(errors.IsNotFound(err))

	_, err = s.repo.UpdateItems(s.ctx, actor.UpdateItemsInput{})
	s.True(errors.IsInvalidArgument(err))
}

func (s *RepositoryTestSuite) TestFindByLIDInCreationOrder() {
	first := s.create("First", "cc-dup")
	s.create("Other", "cc-other")
	second := s.create("Second", "cc-dup")
	s.create("No lid", "")

	out, err := s.repo.Find(s.ctx, actor.FindInput{Type: lancer.ActorTypeNPC, LID: "cc-dup"})
	s.Require().NoError(err)
	s.Require().Len(out.Actors, 2)
	s.Equal(first.ID, out.Actors[0].ID)
	s.Equal(second.ID, out.Actors[1].ID)

	out, err = s.repo.Find(s.ctx, actor.FindInput{Type: "pilot", LID: "cc-dup"})
	s.Require().NoError(err)
	s.Empty(out.Actors)

	_, err = s.repo.Find(s.ctx, actor.FindInput{Type: lancer.ActorTypeNPC})
	s.True(errors.IsInvalidArgument(err))
}

func (s *RepositoryTestSuite) TestFindFollowsLIDChanges() {
	created := s.create("Breaker", "cc-old")

	system := created.System
	system.LID = "cc-new"
	_, err := s.repo.Update(s.ctx, actor.UpdateInput{ID: created.ID, Name: created.Name, System: system})
	s.Require().NoError(err)

	out, err := s.repo.Find(s.ctx, actor.FindInput{Type: lancer.ActorTypeNPC, LID: "cc-old"})
	s.Require().NoError(err)
	s.Empty(out.Actors)

	out, err = s.repo.Find(s.ctx, actor.FindInput{Type: lancer.ActorTypeNPC, LID: "cc-new"})
	s.Require().NoError(err)
	s.Len(out.Actors, 1)
}

func (s *RepositoryTestSuite) TestList() {
	a := s.create("A", "cc-a")
	b := s.create("B", "cc-b")

	out, err := s.repo.List(s.ctx, actor.ListInput{})
	s.Require().NoError(err)
	s.Require().Len(out.Actors, 2)
	s.Equal(a.ID, out.Actors[0].ID)
	s.Equal(b.ID, out.Actors[1].ID)
}

func (s *RepositoryTestSuite) TestReturnsCopies() {
	created := s.create("Breaker", "cc-1")
	created.Name = "Mutated"
	created.System.Labels[0] = "mutated"

	got, err := s.repo.Get(s.ctx, actor.GetInput{ID: created.ID})
	s.Require().NoError(err)
	s.Equal("Breaker", got.Actor.Name)
	s.Equal("front", got.Actor.System.Labels[0])
}

func (s *RepositoryTestSuite) TestSettles() {
	settler, ok := s.repo.(actor.Settler)
	s.Require().True(ok)

	created := s.create("Breaker", "cc-1")
	s.NoError(settler.AwaitSettled(s.ctx, created.ID))
}
