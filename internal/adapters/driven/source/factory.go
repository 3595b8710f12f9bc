package source

import (
	"context"
	"fmt"
	"os"

	"github.com/custodia-labs/pidash/internal/adapters/driven/source/excel"
	"github.com/custodia-labs/pidash/internal/adapters/driven/source/gsheets"
	"github.com/custodia-labs/pidash/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/pidash/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/pidash/internal/core/domain"
	"github.com/custodia-labs/pidash/internal/core/ports/driven"
	"github.com/custodia-labs/pidash/internal/logger"
)

// Open creates the tabular source for the configured backend.
// store is required for the sqlite backend and ignored otherwise.
func Open(ctx context.Context, cfg domain.SourceSettings, store *sqlite.Store) (driven.TabularSource, error) {
	switch cfg.Backend {
	case domain.SourceBackendSQLite, "":
		if store == nil {
			return nil, fmt.Errorf("sqlite backend needs a store: %w", domain.ErrInvalidInput)
		}
		return store.Warehouse(), nil

	case domain.SourceBackendExcel:
		if cfg.WorkbookPath == "" {
			return nil, fmt.Errorf("workbook path required: %w", domain.ErrInvalidInput)
		}
		return excel.NewSource(workbookConfig(cfg)), nil

	case domain.SourceBackendSheets:
		gs, err := gsheets.NewSource(ctx, gsheets.Config{
			SpreadsheetID:   cfg.SpreadsheetID,
			CredentialsPath: cfg.CredentialsPath,
			ProjectSheet:    cfg.ProjectSheet,
			InvoiceSheet:    cfg.InvoiceSheet,
		})
		if err != nil {
			if !hasWorkbook(cfg) {
				return nil, err
			}
			logger.Warn("google sheets unavailable, using %s: %v", cfg.WorkbookPath, err)
			return excel.NewSource(workbookConfig(cfg)), nil
		}
		if !hasWorkbook(cfg) {
			return gs, nil
		}
		return NewFallback(gs, excel.NewSource(workbookConfig(cfg))), nil

	case domain.SourceBackendMemory:
		return memory.NewDemoSource(), nil

	default:
		return nil, fmt.Errorf("%w: source backend %q", domain.ErrUnsupportedType, cfg.Backend)
	}
}

func workbookConfig(cfg domain.SourceSettings) excel.Config {
	return excel.Config{
		Path:         cfg.WorkbookPath,
		ProjectSheet: cfg.ProjectSheet,
		InvoiceSheet: cfg.InvoiceSheet,
	}
}

func hasWorkbook(cfg domain.SourceSettings) bool {
	if cfg.WorkbookPath == "" {
		return false
	}
	_, err := os.Stat(cfg.WorkbookPath)
	return err == nil
}
