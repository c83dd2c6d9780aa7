package catalog

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/domain/catalog"
	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/infrastructure/telemetry"
)

// ErrExportStorageDisabled is returned by Upload when no bucket is configured
var ErrExportStorageDisabled = errors.New("export storage is not configured")

// ExportStorage is where finished exports are uploaded
type ExportStorage interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) error
	// DownloadURL returns a presigned GET url that downloads as filename
	DownloadURL(ctx context.Context, key, filename string, expiresIn time.Duration) (string, time.Time, error)
}

const exportSheet = "Products"

var exportHeader = []string{
	"ID", "Title", "Handle", "Status", "Vendor", "Product type", "Tags", "Collections",
	"SKU", "Price", "Compare at price", "Total inventory", "Stock", "Gift card",
	"Created at", "Updated at",
}

// ExportService renders the filtered product list as a spreadsheet
type ExportService struct {
	snapshots *SnapshotLoader
	storage   ExportStorage
	urlExpiry time.Duration
	now       func() time.Time
	logger    *zap.Logger
}

// NewExportService creates an ExportService. A nil storage streams exports
// inline only.
func NewExportService(snapshots *SnapshotLoader, storage ExportStorage, urlExpiry time.Duration, logger *zap.Logger) *ExportService {
	if urlExpiry <= 0 {
		urlExpiry = time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		snapshots: snapshots,
		storage:   storage,
		urlExpiry: urlExpiry,
		now:       time.Now,
		logger:    logger,
	}
}

// StorageEnabled reports whether exports can be uploaded
func (s *ExportService) StorageEnabled() bool {
	return s.storage != nil
}

// Filename returns the download name for an export made now
func (s *ExportService) Filename(format ExportFormat) string {
	shop := strings.TrimSuffix(s.snapshots.Shop(), ".myshopify.com")
	return fmt.Sprintf("products-%s-%s.%s", shop, s.now().UTC().Format("20060102-150405"), format)
}

// Write renders every product matching q, in sort order, ignoring paging
func (s *ExportService) Write(ctx context.Context, q catalog.ProductQuery, format ExportFormat, w io.Writer) (int, error) {
	if err := q.Validate(); err != nil {
		return 0, err
	}
	snap, err := s.snapshots.Get(ctx)
	if err != nil {
		return 0, err
	}
	products := catalog.SortProducts(q.Filter(snap.Products), q.Sort)
	rows := exportRows(products, snap.Stock())

	switch format {
	case ExportXLSX:
		err = writeXLSX(w, rows)
	default:
		err = writeCSV(w, rows)
	}
	if err != nil {
		return 0, fmt.Errorf("render %s export: %w", format, err)
	}
	return len(rows), nil
}

// Upload renders the export and stores it, returning a presigned link
func (s *ExportService) Upload(ctx context.Context, q catalog.ProductQuery, format ExportFormat) (_ *ExportResult, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "export", "upload", attribute.String("format", string(format)))
	defer telemetry.End(span, &err)

	if s.storage == nil {
		return nil, ErrExportStorageDisabled
	}
	var buf bytes.Buffer
	n, err := s.Write(ctx, q, format, &buf)
	if err != nil {
		return nil, err
	}

	filename := s.Filename(format)
	key := fmt.Sprintf("exports/%s/%s.%s", s.snapshots.Shop(), uuid.New(), format)
	if err = s.storage.Upload(ctx, key, bytes.NewReader(buf.Bytes()), format.ContentType()); err != nil {
		return nil, err
	}
	url, expiresAt, err := s.storage.DownloadURL(ctx, key, filename, s.urlExpiry)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Product export uploaded",
		zap.String("key", key),
		zap.Int("rows", n),
		zap.Int("bytes", buf.Len()),
	)
	return &ExportResult{URL: url, Key: key, Filename: filename, Rows: n, ExpiresAt: expiresAt}, nil
}

func exportRows(products []catalog.Product, stock catalog.StockIndex) [][]string {
	rows := make([][]string, 0, len(products))
	for i := range products {
		p := &products[i]
		var sku, price, compareAt string
		if v := p.FirstVariant(); v != nil {
			sku = v.SKU
			price = v.Price.StringFixed(2)
			if v.CompareAtPrice != nil {
				compareAt = v.CompareAtPrice.StringFixed(2)
			}
		}
		collections := ""
		if len(p.Collections) > 0 {
			collections = p.CollectionTitles()
		}
		rows = append(rows, []string{
			p.ID,
			p.Title,
			p.Handle,
			p.Status.Label(),
			p.Vendor,
			p.ProductType,
			strings.Join(p.Tags, ", "),
			collections,
			sku,
			price,
			compareAt,
			strconv.Itoa(p.TotalInventory),
			stock.Label(p.InventoryItemNumericID()),
			strconv.FormatBool(p.IsGiftCard),
			formatTime(p.CreatedAt),
			formatTime(p.UpdatedAt),
		})
	}
	return rows
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func writeCSV(w io.Writer, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}

func writeXLSX(w io.Writer, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return err
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"008060"}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	sw, err := f.NewStreamWriter(exportSheet)
	if err != nil {
		return err
	}
	header := make([]any, len(exportHeader))
	for i, h := range exportHeader {
		header[i] = excelize.Cell{StyleID: headerStyle, Value: h}
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := make([]any, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := sw.SetRow(cell, values); err != nil {
			return err
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}
	return f.Write(w)
}
