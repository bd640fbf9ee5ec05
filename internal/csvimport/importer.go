// Package csvimport ingests product definitions from CSV files dropped into a
// watched directory. Rows are two columns, name and price; the price accepts
// both comma and dot decimal separators. Malformed rows are logged and
// skipped, never fatal for the rest of the file.
package csvimport

import (
	"bufio"
	"context"
	"io"
	"os"
	"strings"

	"github.com/go-faster/errors"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/marcelldechant/bistro/internal/domain/product"
)

// ErrMalformedLine is returned by ParseLine for rows that do not contain a
// name and a parseable price.
var ErrMalformedLine = errors.New("malformed csv line")

// Importer reads product CSV files and creates the contained products.
type Importer struct {
	products product.Repository
	lg       *zap.Logger
	tracer   trace.Tracer
}

// NewImporter creates an Importer writing into the given catalog repository.
func NewImporter(products product.Repository, lg *zap.Logger) *Importer {
	return &Importer{
		products: products,
		lg:       lg,
		tracer:   otel.Tracer("bistro.csvimport"),
	}
}

// ParseLine splits a two-column row into product name and price. The column
// separator is a semicolon when present, otherwise the first comma; the price
// may use either a comma or a dot as its decimal separator.
func ParseLine(line string) (string, decimal.Decimal, error) {
	sep := ";"
	if !strings.Contains(line, sep) {
		sep = ","
	}
	name, rawPrice, ok := strings.Cut(line, sep)
	if !ok {
		return "", decimal.Decimal{}, errors.Wrapf(ErrMalformedLine, "missing price column: %q", line)
	}

	name = strings.TrimSpace(name)
	rawPrice = strings.ReplaceAll(strings.TrimSpace(rawPrice), ",", ".")

	price, err := decimal.NewFromString(rawPrice)
	if err != nil {
		return "", decimal.Decimal{}, errors.Wrapf(ErrMalformedLine, "invalid price %q", rawPrice)
	}

	return name, price, nil
}

// ImportFile reads one CSV file (gzip-compressed when the name ends in .gz)
// and creates a product per valid row. It returns the number of products
// created. Blank lines, a header row starting with "name", and rows failing
// parsing or validation are skipped.
func (im *Importer) ImportFile(ctx context.Context, path string) (int, error) {
	ctx, span := im.tracer.Start(ctx, "ImportFile",
		trace.WithAttributes(attribute.String("file", path)))
	defer span.End()

	f, err := os.Open(path)
	if err != nil {
		return 0, errors.Wrap(err, "open csv file")
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		zr, err := pgzip.NewReader(f)
		if err != nil {
			return 0, errors.Wrap(err, "open gzip reader")
		}
		defer zr.Close()
		r = zr
	}

	created := 0
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "name") {
			continue
		}

		name, price, err := ParseLine(line)
		if err != nil {
			im.lg.Warn("Skipping malformed row",
				zap.String("file", path),
				zap.String("line", line),
				zap.Error(err))
			continue
		}

		p, err := product.New(name, price)
		if err != nil {
			im.lg.Warn("Skipping invalid product",
				zap.String("file", path),
				zap.String("name", name),
				zap.Error(err))
			continue
		}

		if err := im.products.Create(ctx, p); err != nil {
			return created, errors.Wrapf(err, "create product %q", p.Name)
		}

		im.lg.Info("Imported product",
			zap.Int64("id", p.ID),
			zap.String("name", p.Name),
			zap.String("price", p.Price.StringFixed(2)))
		created++
	}
	if err := scanner.Err(); err != nil {
		return created, errors.Wrap(err, "read csv file")
	}

	span.SetAttributes(attribute.Int("products.created", created))
	return created, nil
}
