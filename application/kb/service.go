package kb

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
	{Key: "id", Header: "Article ID"},
	{Key: "title", Header: "Title"},
	{Key: "content", Header: "Content"},
	{Key: "tags", Header: "Tags"},
	{Key: "created_at", Header: "Created At"},
}

const csvFilename = "knowledge_base.csv"

// CreateRequest is the POST /api/kb body.
type CreateRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Tags    string `json:"tags"`
}

type Service struct {
	repo     *Repository
	log      *zap.Logger
	lister   stream.Streamer[common.Article]
	exporter stream.Streamer[common.Article]
}

func NewService(repo *Repository, log *zap.Logger, config stream.ChunkConfig) *Service {
	return &Service{
		repo:     repo,
		log:      log.Named("kb"),
		lister:   stream.NewStreamer[common.Article](config, stream.JSONArray()),
		exporter: stream.NewStreamer[common.Article](config, stream.CSV(CSVColumns)),
	}
}

// List streams articles whose title, content or tags contain q.
func (s *Service) List(ctx context.Context, q string) middleware.StreamResponse {
	articles, err := s.search(ctx, q)
	if err != nil {
		return middleware.StreamResponse{Error: common.StorageFault(err)}
	}
	return s.lister.Stream(ctx, stream.SliceFetcher(articles), stream.PassThroughTransformer[common.Article]())
}

// Export streams all articles as CSV.
func (s *Service) Export(ctx context.Context) middleware.StreamResponse {
	articles, err := s.search(ctx, "")
	if err != nil {
		s.log.Error("article export failed", zap.Error(err))
		return middleware.StreamResponse{Error: common.ExportFault(err)}
	}
	resp := s.exporter.Stream(ctx, stream.SliceFetcher(articles), stream.PassThroughTransformer[common.Article]())
	resp.Filename = csvFilename
	return resp
}

func (s *Service) search(ctx context.Context, q string) ([]common.Article, error) {
	rows, err := s.repo.Search(ctx, q)
	if err != nil {
		return nil, err
	}
	return stream.ReadRows(ctx, rows, s.repo.Scan)
}

// Create stores a new article. Tags are kept as given after trimming, an
// empty list included.
func (s *Service) Create(ctx context.Context, req CreateRequest) (common.CreateResult, error) {
	title := strings.TrimSpace(req.Title)
	content := strings.TrimSpace(req.Content)

	if err := common.RequireNonBlank(
		common.RequiredField{Name: "title", Value: title},
		common.RequiredField{Name: "content", Value: content},
	); err != nil {
		return common.CreateResult{}, common.Validation("title and content are required")
	}

	article := common.Article{
		Title:   title,
		Content: content,
		Tags:    null.StringFrom(strings.TrimSpace(req.Tags)),
	}

	changes, err := s.repo.Insert(ctx, &article)
	if err != nil {
		return common.CreateResult{}, common.StorageFault(err)
	}

	s.log.Info("article created", zap.Int64("id", article.ID))
	return common.CreateResult{ID: article.ID, Changes: changes}, nil
}
