package v1alpha1_test

import (
	"context"
	"encoding/json"
	"net"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/engine"
	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/entities/lancer"
	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/errors"
	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/handlers/npcimport/v1alpha1"
	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/orchestrators/npcimport"
	npcimportmock "github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/orchestrators/npcimport/mock"
)

type HandlerTestSuite struct {
	suite.Suite
	ctrl       *gomock.Controller
	mockImport *npcimportmock.MockService
	handler    *v1alpha1.Handler
	ctx        context.Context
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}

func (s *HandlerTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockImport = npcimportmock.NewMockService(s.ctrl)
	s.ctx = context.Background()

	var err error
	s.handler, err = v1alpha1.NewHandler(&v1alpha1.HandlerConfig{ImportService: s.mockImport})
	s.Require().NoError(err)
}

func (s *HandlerTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *HandlerTestSuite) request(v map[string]any) *structpb.Struct {
	req, err := structpb.NewStruct(v)
	s.Require().NoError(err)
	return req
}

func (s *HandlerTestSuite) TestNewHandler_Validation() {
	_, err := v1alpha1.NewHandler(nil)
	s.True(errors.IsInvalidArgument(err))

	_, err = v1alpha1.NewHandler(&v1alpha1.HandlerConfig{})
	s.True(errors.IsInvalidArgument(err))
}

func (s *HandlerTestSuite) TestImportOne() {
	s.mockImport.EXPECT().
		ImportOne(s.ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, input *npcimport.ImportOneInput) (*npcimport.ImportOneOutput, error) {
			s.Equal("Warbot", input.Record.Name)
			s.Equal("npc_class_warbot", input.Record.Class)
			s.True(input.Record.IsCustomTier())
			s.True(input.UpdateExisting)
			s.Equal(lancer.ScalingFlat, input.Scaling)
			return &npcimport.ImportOneOutput{
				Actor: &lancer.Actor{
					ID:   "actor_1",
					Type: lancer.ActorTypeNPC,
					Name: "Warbot",
					System: lancer.ActorSystem{
						HP: lancer.Counter{Value: 20, Max: 20},
					},
				},
				WasUpdated: true,
				Report: &npcimport.ImportReport{
					MissingFeatures:   []string{"npcf_unknown"},
					TierDiscrepancies: []engine.TierDiscrepancy{{Name: "Rattler", Tier: "3"}},
					Scaling:           lancer.ScalingFlat,
				},
			}, nil
		})

	resp, err := s.handler.ImportOne(s.ctx, s.request(map[string]any{
		"record": map[string]any{
			"name":  "Warbot",
			"class": "npc_class_warbot",
			"tier":  "custom",
			"stats": map[string]any{"hp": 20},
		},
		"update_existing": true,
		"scaling":         "flat",
	}))
	s.Require().NoError(err)

	var body v1alpha1.ImportOneResponse
	s.Require().NoError(v1alpha1.DecodeStruct(resp, &body))
	s.True(body.WasUpdated)
	s.Equal("actor_1", body.Actor.ID)
	s.Equal(lancer.Counter{Value: 20, Max: 20}, body.Actor.System.HP)
	s.Equal([]string{"npcf_unknown"}, body.Report.MissingFeatures)
	s.Equal([]engine.TierDiscrepancy{{Name: "Rattler", Tier: "3"}}, body.Report.TierDiscrepancies)
}

func (s *HandlerTestSuite) TestImportOne_BadRequests() {
	testCases := []struct {
		name string
		req  *structpb.Struct
	}{
		{name: "nil request", req: nil},
		{name: "missing record", req: s.request(map[string]any{"update_existing": true})},
		{name: "null record", req: s.request(map[string]any{"record": nil})},
		{name: "record is not an object", req: s.request(map[string]any{"record": "Warbot"})},
		{name: "wrong option type", req: s.request(map[string]any{"record": map[string]any{}, "update_existing": "yes"})},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			_, err := s.handler.ImportOne(s.ctx, tc.req)
			s.Require().Error(err)
			s.Equal(codes.InvalidArgument, status.Code(err))
		})
	}
}

func (s *HandlerTestSuite) TestImportOne_ServiceErrors() {
	s.mockImport.EXPECT().
		ImportOne(s.ctx, gomock.Any()).
		Return(nil, errors.InvalidArgument("validation failed: class: is required").
			WithMeta("validation_errors", map[string][]string{"class": {"is required"}}))

	_, err := s.handler.ImportOne(s.ctx, s.request(map[string]any{
		"record": map[string]any{"name": "No Class"},
	}))
	s.Require().Error(err)

	st, ok := status.FromError(err)
	s.Require().True(ok)
	s.Equal(codes.InvalidArgument, st.Code())

	converted := errors.FromGRPCError(err)
	s.True(errors.IsInvalidArgument(converted))
	s.Contains(errors.GetMeta(converted), "validation_errors")
}

func (s *HandlerTestSuite) TestImportMany() {
	s.mockImport.EXPECT().
		ImportMany(s.ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, input *npcimport.ImportManyInput) (*npcimport.ImportManyOutput, error) {
			s.Require().Len(input.Records, 2)
			s.JSONEq(`{"name":"A","class":"c"}`, string(input.Records[0]))
			s.False(input.UpdateExisting)
			s.Empty(input.Scaling)
			return &npcimport.ImportManyOutput{
				SuccessCount: 1,
				ErrorCount:   1,
				Results: []npcimport.RecordResult{
					{Index: 0, Name: "A", Outcome: npcimport.OutcomeCreated, ActorID: "actor_1"},
					{Index: 1, Name: "B", Outcome: npcimport.OutcomeFailed, Error: "store down"},
				},
			}, nil
		})

	resp, err := s.handler.ImportMany(s.ctx, s.request(map[string]any{
		"records": []any{
			map[string]any{"name": "A", "class": "c"},
			map[string]any{"name": "B", "class": "c"},
		},
	}))
	s.Require().NoError(err)

	var body v1alpha1.ImportManyResponse
	s.Require().NoError(v1alpha1.DecodeStruct(resp, &body))
	s.Equal(1, body.SuccessCount)
	s.Equal(1, body.CreatedCount)
	s.Equal(1, body.ErrorCount)
	s.Require().Len(body.Results, 2)
	s.Equal(npcimport.OutcomeFailed, body.Results[1].Outcome)
	s.Equal("store down", body.Results[1].Error)
}

func (s *HandlerTestSuite) TestImportMany_ServiceError() {
	s.mockImport.EXPECT().
		ImportMany(s.ctx, gomock.Any()).
		Return(nil, errors.InvalidArgument("scaling: must be one of: scaled, flat"))

	_, err := s.handler.ImportMany(s.ctx, s.request(map[string]any{"scaling": "linear"}))
	s.Equal(codes.InvalidArgument, status.Code(err))
}

func (s *HandlerTestSuite) TestOverGRPC() {
	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	v1alpha1.RegisterImportServiceServer(srv, s.handler)
	go func() {
		_ = srv.Serve(lis)
	}()
	s.T().Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = conn.Close() })

	s.mockImport.EXPECT().
		ImportMany(gomock.Any(), gomock.Any()).
		Return(&npcimport.ImportManyOutput{SuccessCount: 1, UpdateCount: 1}, nil)
	s.mockImport.EXPECT().
		ImportOne(gomock.Any(), gomock.Any()).
		Return(nil, errors.NotFoundf("actor actor_9 not found"))

	client := v1alpha1.NewImportServiceClient(conn)

	resp, err := client.ImportMany(s.ctx, s.request(map[string]any{
		"records": []any{map[string]any{"name": "A", "class": "c"}},
	}))
	s.Require().NoError(err)
	raw, err := json.Marshal(resp.AsMap())
	s.Require().NoError(err)
	s.Contains(string(raw), `"update_count":1`)

	_, err = client.ImportOne(s.ctx, s.request(map[string]any{
		"record": map[string]any{"name": "A", "class": "c"},
	}))
	s.Equal(codes.NotFound, status.Code(err))
}
