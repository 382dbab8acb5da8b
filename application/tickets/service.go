package tickets

import (
	"context"
	"strings"

	"devdesk/common"
	"devdesk/internal/stream"
	"devdesk/middleware"

	"go.uber.org/zap"
)

// Service holds the ticket use cases. It keeps no state between requests.
type Service struct {
	repo     *Repository
	log      *zap.Logger
	lister   stream.Streamer[common.Ticket]
	exporter stream.Streamer[common.Ticket]
}

// NewService creates a new Service
func NewService(repo *Repository, log *zap.Logger, config stream.ChunkConfig) *Service {
	return &Service{
		repo:     repo,
		log:      log.Named("tickets"),
		lister:   stream.NewStreamer[common.Ticket](config, stream.JSONArray()),
		exporter: stream.NewStreamer[common.Ticket](config, stream.CSV(CSVColumns)),
	}
}

// List streams tickets matching p as a JSON array, newest first.
func (s *Service) List(ctx context.Context, p SearchParams) middleware.StreamResponse {
	query, args, err := BuildListQuery(p)
	if err != nil {
		return middleware.StreamResponse{Error: common.StorageFault(err)}
	}

	tickets, err := s.load(ctx, query, args)
	if err != nil {
		return middleware.StreamResponse{Error: common.StorageFault(err)}
	}

	return s.lister.Stream(ctx, stream.SliceFetcher(tickets), stream.PassThroughTransformer[common.Ticket]())
}

// Export streams every ticket as CSV, newest first. Filters do not apply.
func (s *Service) Export(ctx context.Context) middleware.StreamResponse {
	query, args, err := BuildExportQuery()
	if err != nil {
		return middleware.StreamResponse{Error: common.ExportFault(err)}
	}

	tickets, err := s.load(ctx, query, args)
	if err != nil {
		s.log.Error("ticket export failed", zap.Error(err))
		return middleware.StreamResponse{Error: common.ExportFault(err)}
	}

	resp := s.exporter.Stream(ctx, stream.SliceFetcher(tickets), stream.PassThroughTransformer[common.Ticket]())
	resp.Filename = CSVFilename
	return resp
}

// load reads the whole result set and releases the connection before any
// byte is written to the client.
func (s *Service) load(ctx context.Context, query string, args []interface{}) ([]common.Ticket, error) {
	rows, err := s.repo.ExecuteQuery(ctx, query, args)
	if err != nil {
		return nil, err
	}
	return stream.ReadRows(ctx, rows, s.repo.ScanTicket)
}

// Create validates and stores a new ticket with status Open.
func (s *Service) Create(ctx context.Context, req CreateRequest) (common.CreateResult, error) {
	req.Normalize()
	if err := ValidateCreate(&req); err != nil {
		return common.CreateResult{}, err
	}

	ticket := common.Ticket{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Status:      common.StatusOpen,
	}

	changes, err := s.repo.Insert(ctx, &ticket)
	if err != nil {
		return common.CreateResult{}, common.StorageFault(err)
	}

	s.log.Info("ticket created",
		zap.Int64("id", ticket.ID),
		zap.String("category", ticket.Category),
	)

	return common.CreateResult{ID: ticket.ID, Changes: changes}, nil
}

// UpdateStatus sets the status of the ticket named by rawID. The status is
// checked before the id so a bad status is reported even for unknown ids.
func (s *Service) UpdateStatus(ctx context.Context, rawID string, status string) error {
	status = strings.TrimSpace(status)
	if err := ValidateStatus(status); err != nil {
		return err
	}

	id, err := ParseID(rawID)
	if err != nil {
		return err
	}

	affected, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return common.StorageFault(err)
	}
	if affected == 0 {
		return errTicketNotFound()
	}

	s.log.Info("ticket status updated",
		zap.Int64("id", id),
		zap.String("status", status),
	)
	return nil
}
