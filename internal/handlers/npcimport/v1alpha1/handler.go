package v1alpha1

import (
	"context"
	"encoding/json"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/entities/lancer"
	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/errors"
	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/orchestrators/npcimport"
)

// HandlerConfig holds dependencies for the handler
type HandlerConfig struct {
	ImportService npcimport.Service
}

// Validate ensures all required dependencies are present
func (c *HandlerConfig) Validate() error {
	if c == nil || c.ImportService == nil {
		return errors.InvalidArgument("import service is required")
	}
	return nil
}

// Handler implements ImportServiceServer
type Handler struct {
	importService npcimport.Service
}

var _ ImportServiceServer = (*Handler)(nil)

// NewHandler creates a new handler with the given configuration
func NewHandler(cfg *HandlerConfig) (*Handler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Handler{
		importService: cfg.ImportService,
	}, nil
}

// ImportOneRequest is the JSON shape of an ImportOne request
type ImportOneRequest struct {
	Record         json.RawMessage `json:"record"`
	UpdateExisting bool            `json:"update_existing"`
	Scaling        string          `json:"scaling,omitempty"`
}

// ImportOneResponse is the JSON shape of an ImportOne response
type ImportOneResponse struct {
	Actor      *lancer.Actor           `json:"actor"`
	WasUpdated bool                    `json:"was_updated"`
	Report     *npcimport.ImportReport `json:"report"`
}

// ImportManyRequest is the JSON shape of an ImportMany request
type ImportManyRequest struct {
	Records        []json.RawMessage `json:"records"`
	UpdateExisting bool              `json:"update_existing"`
	Scaling        string            `json:"scaling,omitempty"`
}

// ImportManyResponse is the JSON shape of an ImportMany response
type ImportManyResponse struct {
	SuccessCount int                      `json:"success_count"`
	UpdateCount  int                      `json:"update_count"`
	CreatedCount int                      `json:"created_count"`
	ErrorCount   int                      `json:"error_count"`
	Canceled     bool                     `json:"canceled"`
	Skipped      int                      `json:"skipped"`
	Results      []npcimport.RecordResult `json:"results"`
}

// ImportOne imports a single record
func (h *Handler) ImportOne(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var body ImportOneRequest
	if err := DecodeStruct(req, &body); err != nil {
		return nil, errors.ToGRPCError(err)
	}
	if len(body.Record) == 0 || string(body.Record) == "null" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("record is required"))
	}

	record, err := lancer.DecodeNpcRecord(body.Record)
	if err != nil {
		return nil, errors.ToGRPCError(errors.WrapWithCode(err, errors.CodeInvalidArgument, "invalid record"))
	}

	output, err := h.importService.ImportOne(ctx, &npcimport.ImportOneInput{
		Record:         record,
		UpdateExisting: body.UpdateExisting,
		Scaling:        lancer.ScalingPolicy(body.Scaling),
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	resp, err := EncodeStruct(&ImportOneResponse{
		Actor:      output.Actor,
		WasUpdated: output.WasUpdated,
		Report:     output.Report,
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return resp, nil
}

// ImportMany imports a batch of records
func (h *Handler) ImportMany(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var body ImportManyRequest
	if err := DecodeStruct(req, &body); err != nil {
		return nil, errors.ToGRPCError(err)
	}

	output, err := h.importService.ImportMany(ctx, &npcimport.ImportManyInput{
		Records:        body.Records,
		UpdateExisting: body.UpdateExisting,
		Scaling:        lancer.ScalingPolicy(body.Scaling),
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	resp, err := EncodeStruct(&ImportManyResponse{
		SuccessCount: output.SuccessCount,
		UpdateCount:  output.UpdateCount,
		CreatedCount: output.CreatedCount(),
		ErrorCount:   output.ErrorCount,
		Canceled:     output.Canceled,
		Skipped:      output.Skipped,
		Results:      output.Results,
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return resp, nil
}

// DecodeStruct converts a Struct message into a JSON decodable value
func DecodeStruct(req *structpb.Struct, target any) error {
	if req == nil {
		return errors.InvalidArgument("request is required")
	}
	raw, err := protojson.Marshal(req)
	if err != nil {
		return errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to encode request")
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return errors.WrapWithCode(err, errors.CodeInvalidArgument, "malformed request")
	}
	return nil
}

// EncodeStruct converts a JSON serializable value to a Struct message
func EncodeStruct(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode response")
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(raw, out); err != nil {
		return nil, errors.Wrap(err, "failed to encode response")
	}
	return out, nil
}
