package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/suite"

	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/config"
	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/entities/lancer"
	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/errors"
	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/handlers/npcimport/v1alpha1"
	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/orchestrators/npcimport"
	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/repositories/actor"
	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/repositories/library"
	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/testutils"
)

type AppTestSuite struct {
	suite.Suite
	ctx context.Context
	dir string
	cfg *config.Config
}

func TestAppSuite(t *testing.T) {
	suite.Run(t, new(AppTestSuite))
}

func (s *AppTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.dir = s.T().TempDir()

	libDir := filepath.Join(s.dir, "library")
	s.Require().NoError(os.Mkdir(libDir, 0o755))
	s.writeFile(filepath.Join(libDir, "core.json"), testutils.MustJSON(s.T(), testutils.CorePartition()))

	s.cfg = config.Default()
	s.cfg.Store.Backend = config.StoreMemory
	s.cfg.Library.Dir = libDir
	s.cfg.Import.SettleDelay = 0
}

func (s *AppTestSuite) writeFile(path string, data []byte) {
	s.Require().NoError(os.WriteFile(path, data, 0o600))
}

func (s *AppTestSuite) importAll(a *app, update bool, records ...*lancer.NpcRecord) *npcimport.ImportManyOutput {
	raw := make([]json.RawMessage, len(records))
	for i, r := range records {
		raw[i] = testutils.MustJSON(s.T(), r)
	}
	out, err := a.importer.ImportMany(s.ctx, &npcimport.ImportManyInput{
		Records:        raw,
		UpdateExisting: update,
	})
	s.Require().NoError(err)
	return out
}

func (s *AppTestSuite) TestMemoryStoreWithDirectoryLibrary() {
	a, err := newApp(s.ctx, s.cfg)
	s.Require().NoError(err)
	defer func() { _ = a.Close() }()

	out := s.importAll(a, true, testutils.WarbotRecord(), testutils.AssaultRecord(), testutils.WarbotRecord())
	s.Equal(3, out.SuccessCount)
	s.Equal(1, out.UpdateCount)

	listed, err := a.actors.List(s.ctx, actor.ListInput{})
	s.Require().NoError(err)
	s.Len(listed.Actors, 2)
}

func (s *AppTestSuite) TestSQLiteStore() {
	s.cfg.Store.Backend = config.StoreSQLite
	s.cfg.Store.SQLitePath = filepath.Join(s.dir, "data", "npcs.db")

	a, err := newApp(s.ctx, s.cfg)
	s.Require().NoError(err)
	s.importAll(a, true, testutils.AssaultRecord())
	s.Require().NoError(a.Close())

	// reopening sees the same actor and updates it
	a, err = newApp(s.ctx, s.cfg)
	s.Require().NoError(err)
	defer func() { _ = a.Close() }()

	out := s.importAll(a, true, testutils.AssaultRecord())
	s.Equal(1, out.UpdateCount)
}

func (s *AppTestSuite) TestRedisStoreAndLibrary() {
	_, mr := testutils.CreateTestRedisClient(s.T())
	s.cfg.Store.Backend = config.StoreRedis
	s.cfg.Store.RedisAddr = mr.Addr()

	count, err := syncLibrary(s.ctx, s.cfg)
	s.Require().NoError(err)
	s.Equal(1, count)

	s.cfg.Library.Source = config.LibraryRedis
	a, err := newApp(s.ctx, s.cfg)
	s.Require().NoError(err)
	defer func() { _ = a.Close() }()

	partitions, err := a.library.ListPartitions(s.ctx, library.ListPartitionsInput{})
	s.Require().NoError(err)
	s.Require().Len(partitions.Partitions, 1)
	s.Equal("lancer.npc-core", partitions.Partitions[0].Name)

	out := s.importAll(a, false, testutils.WarbotRecord())
	s.Equal(1, out.SuccessCount)
	s.True(out.Results[0].Report.CustomStatsApplied)
}

func (s *AppTestSuite) TestUnreachableRedis() {
	mr := miniredis.RunT(s.T())
	addr := mr.Addr()
	mr.Close()

	s.cfg.Store.Backend = config.StoreRedis
	s.cfg.Store.RedisAddr = addr

	_, err := newApp(s.ctx, s.cfg)
	s.Require().Error(err)
	s.Equal(errors.CodeUnavailable, errors.GetCode(err))
}

func (s *AppTestSuite) TestMissingLibraryDir() {
	s.cfg.Library.Dir = filepath.Join(s.dir, "nope")

	_, err := newApp(s.ctx, s.cfg)
	s.Require().Error(err)
}

func (s *AppTestSuite) TestFileRecords() {
	single := filepath.Join(s.dir, "one.json")
	many := filepath.Join(s.dir, "many.json")
	s.writeFile(single, testutils.MustJSON(s.T(), testutils.WarbotRecord()))
	s.writeFile(many, testutils.MustJSON(s.T(), []*lancer.NpcRecord{testutils.AssaultRecord(), testutils.WarbotRecord()}))

	records, err := fileRecords([]string{single, many})
	s.Require().NoError(err)
	s.Len(records, 3)

	broken := filepath.Join(s.dir, "broken.json")
	s.writeFile(broken, []byte(`{"name":`))
	_, err = fileRecords([]string{broken})
	s.Error(err)

	_, err = fileRecords([]string{filepath.Join(s.dir, "missing.json")})
	s.Error(err)
}

func (s *AppTestSuite) TestRosterRecords() {
	rosterDir := filepath.Join(s.dir, "roster")
	s.Require().NoError(os.Mkdir(rosterDir, 0o755))
	s.writeFile(filepath.Join(rosterDir, "warbot--active.json"), testutils.MustJSON(s.T(), testutils.WarbotRecord()))
	s.writeFile(filepath.Join(rosterDir, "breaker--active.json"), testutils.MustJSON(s.T(), testutils.AssaultRecord()))
	s.writeFile(filepath.Join(rosterDir, "breaker--1700000000.json"), testutils.MustJSON(s.T(), testutils.AssaultRecord()))

	records, err := rosterRecords(s.ctx, rosterDir, true, "")
	s.Require().NoError(err)
	s.Len(records, 2)

	records, err = rosterRecords(s.ctx, rosterDir, false, "")
	s.Require().NoError(err)
	s.Len(records, 3)

	records, err = rosterRecords(s.ctx, rosterDir, true, "warbot")
	s.Require().NoError(err)
	s.Require().Len(records, 1)
	s.Contains(string(records[0]), `"name":"Warbot"`)
}

func (s *AppTestSuite) TestPrintSummary() {
	var buf bytes.Buffer
	printSummary(&buf, &npcimport.ImportManyOutput{
		SuccessCount: 2,
		UpdateCount:  1,
		ErrorCount:   1,
		Results: []npcimport.RecordResult{
			{Index: 0, Name: "Warbot", Outcome: npcimport.OutcomeUpdated, ActorID: "a1"},
			{Index: 1, Name: "Breaker", Outcome: npcimport.OutcomeCreated, ActorID: "a2", Report: &npcimport.ImportReport{
				MissingItems: []string{"Template: npc_template_unknown"},
			}},
			{Index: 2, Name: "Ghost", Outcome: npcimport.OutcomeFailed, Error: "INVALID_ARGUMENT: class: is required"},
		},
	})

	text := buf.String()
	s.Contains(text, "[0] Warbot: updated a1")
	s.Contains(text, "missing Template: npc_template_unknown")
	s.Contains(text, "[2] Ghost: failed")
	s.Contains(text, "Imported 2 NPC(s) (1 updated, 1 created), 1 failed")
}

func (s *AppTestSuite) TestGRPCServerRegistersServices() {
	a, err := newApp(s.ctx, s.cfg)
	s.Require().NoError(err)
	defer func() { _ = a.Close() }()

	srv, err := newGRPCServer(a)
	s.Require().NoError(err)
	defer srv.Stop()

	info := srv.GetServiceInfo()
	s.Contains(info, v1alpha1.ServiceName)
	s.Contains(info, "grpc.health.v1.Health")
}
