package source

import (
	"context"
	"fmt"

	"github.com/custodia-labs/pidash/internal/adapters/driven/source/excel"
	"github.com/custodia-labs/pidash/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/pidash/internal/core/domain"
	"github.com/custodia-labs/pidash/internal/logger"
)

// Imported reports one sheet copied into the warehouse.
type Imported struct {
	Sheet string
	Table string
	Rows  int
}

// ImportWorkbook copies every sheet of the workbook at path into the
// warehouse, replacing tables of the same name. Sheets without a header row
// are skipped.
func ImportWorkbook(ctx context.Context, path string, wh *sqlite.Warehouse) ([]Imported, error) {
	if path == "" {
		return nil, fmt.Errorf("workbook path required: %w", domain.ErrInvalidInput)
	}

	sheets, order, err := excel.NewSource(excel.Config{Path: path}).Sheets(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var out []Imported
	for _, name := range order {
		t := sheets[name]
		if t == nil || len(t.Columns) == 0 {
			logger.Debug("import: skipping empty sheet %q", name)
			continue
		}
		if err := wh.ReplaceTable(ctx, domain.TableName(name), t); err != nil {
			return out, fmt.Errorf("importing sheet %q: %w", name, err)
		}
		out = append(out, Imported{
			Sheet: name,
			Table: sqlite.TableFor(domain.TableName(name)),
			Rows:  t.Len(),
		})
		logger.Info("imported sheet %q (%d rows)", name, t.Len())
	}
	return out, nil
}
