package source

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/custodia-labs/pidash/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/pidash/internal/core/domain"
)

func TestImportWorkbook(t *testing.T) {
	ctx := context.Background()

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", "Project"))
	require.NoError(t, f.SetSheetRow("Project", "A1", &[]any{domain.ColProject, domain.ColCustomer}))
	require.NoError(t, f.SetSheetRow("Project", "A2", &[]any{"Alpha", "Acme"}))
	require.NoError(t, f.SetSheetRow("Project", "A3", &[]any{"Beta", "Globex"}))
	_, err := f.NewSheet("Invoice")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Invoice", "A1", &[]any{domain.ColCustomer}))
	require.NoError(t, f.SetSheetRow("Invoice", "A2", &[]any{"Acme"}))
	_, err = f.NewSheet("Notes")
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "book.xlsx")
	require.NoError(t, f.SaveAs(path))

	store, err := sqlite.NewStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	imported, err := ImportWorkbook(ctx, path, store.Warehouse())
	require.NoError(t, err)

	require.Len(t, imported, 2)
	assert.Equal(t, Imported{Sheet: "Project", Table: "FINAL_PROJECT", Rows: 2}, imported[0])
	assert.Equal(t, "FINAL_INVOICE", imported[1].Table)

	projects, err := store.Warehouse().FetchProjects(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, projects.Len())
}

func TestImportWorkbook_Missing(t *testing.T) {
	store, err := sqlite.NewStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	_, err = ImportWorkbook(context.Background(), "", store.Warehouse())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = ImportWorkbook(context.Background(), filepath.Join(t.TempDir(), "nope.xlsx"), store.Warehouse())
	assert.Error(t, err)
}

func TestImportWorkbook_StoresUnformattedValues(t *testing.T) {
	ctx := context.Background()

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", "Project"))
	require.NoError(t, f.SetSheetRow("Project", "A1", &[]any{domain.ColProject, domain.ColProgress, domain.ColProjectValue, domain.ColPODate}))
	require.NoError(t, f.SetSheetRow("Project", "A2", &[]any{"Alpha", 0.42, 1234567.5, 45306}))
	for cell, numFmt := range map[string]int{"B2": 9, "C2": 4, "D2": 14} {
		id, err := f.NewStyle(&excelize.Style{NumFmt: numFmt})
		require.NoError(t, err)
		require.NoError(t, f.SetCellStyle("Project", cell, cell, id))
	}
	path := filepath.Join(t.TempDir(), "book.xlsx")
	require.NoError(t, f.SaveAs(path))

	store, err := sqlite.NewStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	_, err = ImportWorkbook(ctx, path, store.Warehouse())
	require.NoError(t, err)

	projects, err := store.Warehouse().FetchProjects(ctx)
	require.NoError(t, err)
	assert.Equal(t, "0.42", projects.Value(0, domain.ColProgress))
	assert.Equal(t, "1234567.5", projects.Value(0, domain.ColProjectValue))
	assert.Equal(t, "2024-01-15", projects.Value(0, domain.ColPODate))
}
