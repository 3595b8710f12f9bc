package source

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/custodia-labs/pidash/internal/adapters/driven/source/excel"
	"github.com/custodia-labs/pidash/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/pidash/internal/core/domain"
)

func writeWorkbook(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", "Project"))
	require.NoError(t, f.SetSheetRow("Project", "A1", &[]any{domain.ColProject}))
	require.NoError(t, f.SetSheetRow("Project", "A2", &[]any{"Alpha"}))
	path := filepath.Join(t.TempDir(), "book.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestOpen_Memory(t *testing.T) {
	src, err := Open(context.Background(), domain.SourceSettings{Backend: domain.SourceBackendMemory}, nil)
	require.NoError(t, err)

	projects, err := src.FetchProjects(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, projects.Len())
}

func TestOpen_SQLite(t *testing.T) {
	store, err := sqlite.NewStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	src, err := Open(context.Background(), domain.SourceSettings{Backend: domain.SourceBackendSQLite}, store)
	require.NoError(t, err)
	assert.IsType(t, &sqlite.Warehouse{}, src)
}

func TestOpen_SQLiteNeedsStore(t *testing.T) {
	_, err := Open(context.Background(), domain.SourceSettings{Backend: domain.SourceBackendSQLite}, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestOpen_Excel(t *testing.T) {
	path := writeWorkbook(t)
	src, err := Open(context.Background(), domain.SourceSettings{
		Backend:      domain.SourceBackendExcel,
		WorkbookPath: path,
	}, nil)
	require.NoError(t, err)

	projects, err := src.FetchProjects(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Alpha", projects.Value(0, domain.ColProject))
}

func TestOpen_ExcelNeedsPath(t *testing.T) {
	_, err := Open(context.Background(), domain.SourceSettings{Backend: domain.SourceBackendExcel}, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestOpen_SheetsWithoutIDFallsBackToWorkbook(t *testing.T) {
	path := writeWorkbook(t)
	src, err := Open(context.Background(), domain.SourceSettings{
		Backend:      domain.SourceBackendSheets,
		WorkbookPath: path,
	}, nil)
	require.NoError(t, err)
	assert.IsType(t, &excel.Source{}, src)
}

func TestOpen_SheetsWithoutIDOrWorkbook(t *testing.T) {
	_, err := Open(context.Background(), domain.SourceSettings{
		Backend:      domain.SourceBackendSheets,
		WorkbookPath: filepath.Join(t.TempDir(), "missing.xlsx"),
	}, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestOpen_Unsupported(t *testing.T) {
	_, err := Open(context.Background(), domain.SourceSettings{Backend: "ftp"}, nil)
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}
