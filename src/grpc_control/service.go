package grpc_control

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"stock-screener/src/config"
	datasource "stock-screener/src/data_source"
	"stock-screener/src/helpers"
	"stock-screener/src/logger"
	"stock-screener/src/models"
	"stock-screener/src/refresh"
	"stock-screener/src/storage"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ControlService implements the ScreenerControlServer interface
type ControlService struct {
	UnimplementedScreenerControlServer
	Config       *config.Config
	ConfigPath   string
	Orchestrator *refresh.Orchestrator
	Sources      *datasource.MultiSourceManager
	Logger       *logger.Logger
}

// NewControlService creates a new instance of ControlService. An empty
// cfgPath keeps ticker changes in memory only.
func NewControlService(
	cfg *config.Config,
	cfgPath string,
	orchestrator *refresh.Orchestrator,
	sources *datasource.MultiSourceManager,
	log *logger.Logger,
) *ControlService {
	return &ControlService{
		Config:       cfg,
		ConfigPath:   cfgPath,
		Orchestrator: orchestrator,
		Sources:      sources,
		Logger:       log,
	}
}

// -----------------------------------------------------------------------------

// Refresh runs a cycle now. A persistence failure is reported in the result,
// the new snapshot is live either way.
func (s *ControlService) Refresh(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	result, err := s.Orchestrator.Refresh(ctx)

	var storageErr *helpers.StorageError
	if err != nil && !errors.As(err, &storageErr) {
		s.Logger.Error("gRPC: Refresh failed: %v", err)
		return nil, status.Errorf(codes.Internal, "refresh failed: %v", err)
	}

	failures := make([]any, len(result.Failures))
	for i, f := range result.Failures {
		failures[i] = f
	}
	fields := map[string]any{
		"count":        result.Count,
		"failures":     failures,
		"last_updated": models.FormatTimestamp(result.LastUpdated),
		"duration_ms":  result.Duration.Milliseconds(),
		"persisted":    err == nil,
	}
	if err != nil {
		fields["persist_error"] = err.Error()
	}

	s.Logger.Info("gRPC: Refresh done (%d quotes, %d failures)", result.Count, len(result.Failures))
	return structpb.NewStruct(fields)
}

// -----------------------------------------------------------------------------

func (s *ControlService) ListQuotes(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	quotes := s.Orchestrator.Store.GetAll()
	values := make([]*structpb.Value, 0, len(quotes))
	for _, q := range quotes {
		st, err := quoteToStruct(q)
		if err != nil {
			return nil, status.Errorf(codes.Internal, "encode %s: %v", q.Ticker, err)
		}
		values = append(values, structpb.NewStructValue(st))
	}
	return &structpb.ListValue{Values: values}, nil
}

// -----------------------------------------------------------------------------

func (s *ControlService) GetQuote(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	ticker := strings.TrimSpace(req.GetValue())
	if ticker == "" {
		return nil, status.Error(codes.InvalidArgument, "ticker is required")
	}

	q, ok := s.Orchestrator.Store.GetByTicker(ticker)
	if !ok {
		return nil, status.Errorf(codes.NotFound, "ticker %s not found", ticker)
	}

	st, err := quoteToStruct(q)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode %s: %v", ticker, err)
	}
	return st, nil
}

// -----------------------------------------------------------------------------

func (s *ControlService) ListSources(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	var names []any
	if s.Sources != nil {
		for _, src := range s.Sources.GetAllSources() {
			names = append(names, src.Name())
		}
	}
	return structpb.NewList(names)
}

// -----------------------------------------------------------------------------

// UpdateTickers replaces the ticker list used from the next cycle on and
// persists it to the config file.
func (s *ControlService) UpdateTickers(ctx context.Context, req *structpb.ListValue) (*structpb.Struct, error) {
	var tickers []string
	for i, v := range req.GetValues() {
		sv, ok := v.GetKind().(*structpb.Value_StringValue)
		if !ok {
			return nil, status.Errorf(codes.InvalidArgument, "ticker %d is not a string", i)
		}
		tickers = append(tickers, config.NormalizeTicker(sv.StringValue))
	}

	previous := s.Config.DataSource.Tickers
	s.Config.DataSource.Tickers = tickers
	if err := s.Config.Validate(); err != nil {
		s.Config.DataSource.Tickers = previous
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	active, err := s.expandTickers(ctx, tickers)
	if err != nil {
		s.Config.DataSource.Tickers = previous
		return nil, err
	}
	s.Orchestrator.SetTickers(active)

	saved := false
	if s.ConfigPath != "" {
		if err := s.Config.Save(s.ConfigPath); err != nil {
			s.Logger.Error("gRPC: Failed to save config: %v", err)
		} else {
			saved = true
		}
	}

	s.Logger.Info("gRPC: UpdateTickers success. Count: %d", len(active))
	return structpb.NewStruct(map[string]any{
		"ticker_count": len(active),
		"saved":        saved,
		"message":      fmt.Sprintf("Tracking %d tickers from the next refresh", len(active)),
	})
}

// -----------------------------------------------------------------------------

// tickerExpander resolves "schema.table.column" entries to ticker values.
type tickerExpander interface {
	ExpandTickers(ctx context.Context, entries []string) ([]string, error)
}

// expandTickers resolves table references through the repository. The
// config keeps the references; the orchestrator gets the resolved list.
func (s *ControlService) expandTickers(ctx context.Context, entries []string) ([]string, error) {
	hasRef := false
	for _, e := range entries {
		if storage.IsTableRef(e) {
			hasRef = true
			break
		}
	}
	if !hasRef {
		return entries, nil
	}

	ex, ok := s.Orchestrator.Repository.(tickerExpander)
	if !ok {
		return nil, status.Error(codes.FailedPrecondition, "table references need a postgres repository")
	}
	expanded, err := ex.ExpandTickers(ctx, entries)
	if err != nil {
		return nil, status.Errorf(codes.Unavailable, "expand tickers: %v", err)
	}
	if len(expanded) == 0 {
		return nil, status.Error(codes.InvalidArgument, "ticker list expands to nothing")
	}
	return expanded, nil
}

// -----------------------------------------------------------------------------

func quoteToStruct(q models.MQuote) (*structpb.Struct, error) {
	data, err := json.Marshal(q)
	if err != nil {
		return nil, err
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	return structpb.NewStruct(fields)
}
