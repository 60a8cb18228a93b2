package service

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/andresuchdata/m2go-inventory/internal/domain"
	"github.com/andresuchdata/m2go-inventory/internal/export"
	"github.com/andresuchdata/m2go-inventory/internal/repository"
	"github.com/andresuchdata/m2go-inventory/internal/storage"
	"github.com/rs/zerolog/log"
)

// Export formats
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

var exportContentTypes = map[string]string{
	FormatCSV:  "text/csv; charset=utf-8",
	FormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// ExportFile is a rendered order export ready to be served
type ExportFile struct {
	Name        string
	ContentType string
	Data        []byte
}

type OrderService struct {
	repo          repository.OrderRepository
	archive       storage.ObjectStorage
	archivePrefix string
}

// NewOrderService creates the service. archive may be nil, in which case exports are not archived.
func NewOrderService(repo repository.OrderRepository, archive storage.ObjectStorage, archivePrefix string) *OrderService {
	return &OrderService{
		repo:          repo,
		archive:       archive,
		archivePrefix: strings.Trim(archivePrefix, "/"),
	}
}

// Create validates and persists a reviewed order with its lines.
func (s *OrderService) Create(ctx context.Context, order *domain.Order) error {
	if !order.OrderType.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidCycle, order.OrderType)
	}
	status, ok := domain.ParseOrderStatus(string(order.Status))
	if !ok {
		return fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, order.Status)
	}
	order.Status = status

	if order.OrderDate == "" {
		order.OrderDate = time.Now().Format(domain.DateLayout)
	}
	if _, err := time.Parse(domain.DateLayout, order.OrderDate); err != nil {
		return fmt.Errorf("%w: order_date must be YYYY-MM-DD", domain.ErrInvalidInput)
	}

	for i, line := range order.Lines {
		if line.ProductID <= 0 {
			return fmt.Errorf("%w: line %d has no product_id", domain.ErrInvalidInput, i+1)
		}
		if line.FinalQty < 0 || line.SuggestedQty < 0 {
			return fmt.Errorf("%w: line %d has a negative quantity", domain.ErrInvalidInput, i+1)
		}
	}

	if err := s.repo.CreateOrder(ctx, order); err != nil {
		return err
	}

	log.Info().
		Int64("order_id", order.ID).
		Str("cycle", string(order.OrderType)).
		Int("lines", len(order.Lines)).
		Msg("order created")
	return nil
}

func (s *OrderService) Get(ctx context.Context, id int64) (*domain.Order, error) {
	return s.repo.GetOrder(ctx, id)
}

// Export renders the order in the requested format and archives it when storage is configured.
// Archive failures are logged and do not fail the export.
func (s *OrderService) Export(ctx context.Context, id int64, format string) (*ExportFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = FormatCSV
	}
	contentType, ok := exportContentTypes[format]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported export format %q", domain.ErrInvalidInput, format)
	}

	if _, err := s.repo.GetOrder(ctx, id); err != nil {
		return nil, err
	}
	lines, err := s.repo.ListExportLines(ctx, id)
	if err != nil {
		return nil, err
	}

	var data []byte
	switch format {
	case FormatXLSX:
		data, err = export.XLSX(lines)
	default:
		data, err = export.CSV(lines)
	}
	if err != nil {
		return nil, fmt.Errorf("render order %d: %w", id, err)
	}

	file := &ExportFile{
		Name:        fmt.Sprintf("order_%d.%s", id, format),
		ContentType: contentType,
		Data:        data,
	}
	s.archiveExport(ctx, file)
	return file, nil
}

func (s *OrderService) archiveExport(ctx context.Context, file *ExportFile) {
	if s.archive == nil {
		return
	}
	key := path.Join(s.archivePrefix, file.Name)
	if err := s.archive.UploadObject(ctx, key, file.Data, file.ContentType); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("orders: export archive failed")
		return
	}
	log.Debug().Str("key", key).Int("bytes", len(file.Data)).Msg("orders: export archived")
}
