package assets

import (
	"context"
	"strings"

	"devdesk/common"
	"devdesk/internal/csvenc"
	"devdesk/internal/stream"
	"devdesk/middleware"

	"github.com/guregu/null/v5"
	"go.uber.org/zap"
)

// CSVColumns is the export layout.
var CSVColumns = []csvenc.Column{
	{Key: "id", Header: "Asset ID"},
	{Key: "name", Header: "Name"},
	{Key: "asset_tag", Header: "Asset Tag"},
	{Key: "serial_number", Header: "Serial Number"},
	{Key: "assigned_to", Header: "Assigned To"},
	{Key: "notes", Header: "Notes"},
	{Key: "created_at", Header: "Created At"},
}

const csvFilename = "assets.csv"

// CreateRequest is the POST /api/assets body. Only name is required.
type CreateRequest struct {
	Name         string `json:"name"`
	AssetTag     string `json:"asset_tag"`
	SerialNumber string `json:"serial_number"`
	AssignedTo   string `json:"assigned_to"`
	Notes        string `json:"notes"`
}

// Asset converts the request into a record with every field trimmed.
func (r CreateRequest) Asset() common.Asset {
	return common.Asset{
		Name:         strings.TrimSpace(r.Name),
		AssetTag:     null.StringFrom(strings.TrimSpace(r.AssetTag)),
		SerialNumber: null.StringFrom(strings.TrimSpace(r.SerialNumber)),
		AssignedTo:   null.StringFrom(strings.TrimSpace(r.AssignedTo)),
		Notes:        null.StringFrom(strings.TrimSpace(r.Notes)),
	}
}

type Service struct {
	repo     *Repository
	log      *zap.Logger
	lister   stream.Streamer[common.Asset]
	exporter stream.Streamer[common.Asset]
}

func NewService(repo *Repository, log *zap.Logger, config stream.ChunkConfig) *Service {
	return &Service{
		repo:     repo,
		log:      log.Named("assets"),
		lister:   stream.NewStreamer[common.Asset](config, stream.JSONArray()),
		exporter: stream.NewStreamer[common.Asset](config, stream.CSV(CSVColumns)),
	}
}

func (s *Service) List(ctx context.Context, q string) middleware.StreamResponse {
	assets, err := s.search(ctx, q)
	if err != nil {
		return middleware.StreamResponse{Error: common.StorageFault(err)}
	}
	return s.lister.Stream(ctx, stream.SliceFetcher(assets), stream.PassThroughTransformer[common.Asset]())
}

func (s *Service) Export(ctx context.Context) middleware.StreamResponse {
	assets, err := s.search(ctx, "")
	if err != nil {
		s.log.Error("asset export failed", zap.Error(err))
		return middleware.StreamResponse{Error: common.ExportFault(err)}
	}
	resp := s.exporter.Stream(ctx, stream.SliceFetcher(assets), stream.PassThroughTransformer[common.Asset]())
	resp.Filename = csvFilename
	return resp
}

func (s *Service) search(ctx context.Context, q string) ([]common.Asset, error) {
	rows, err := s.repo.Search(ctx, q)
	if err != nil {
		return nil, err
	}
	return stream.ReadRows(ctx, rows, s.repo.Scan)
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (common.CreateResult, error) {
	asset := req.Asset()
	if err := common.RequireNonBlank(common.RequiredField{Name: "name", Value: asset.Name}); err != nil {
		return common.CreateResult{}, err
	}

	changes, err := s.repo.Insert(ctx, &asset)
	if err != nil {
		return common.CreateResult{}, common.StorageFault(err)
	}

	s.log.Info("asset created",
		zap.Int64("id", asset.ID),
		zap.String("asset_tag", asset.AssetTag.String),
	)
	return common.CreateResult{ID: asset.ID, Changes: changes}, nil
}
