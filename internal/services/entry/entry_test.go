package entry

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/magabrotheeeer/entry-registry/internal/models"
	appxlsx "github.com/magabrotheeeer/entry-registry/internal/xlsx"
)

// MockEntryRepository реализует интерфейс EntryRepository.
type MockEntryRepository struct {
	mock.Mock
}

func (m *MockEntryRepository) CreateEntry(ctx context.Context, entry models.Entry) (int, error) {
	args := m.Called(ctx, entry)
	return args.Int(0), args.Error(1)
}

func (m *MockEntryRepository) UpdateEntry(ctx context.Context, entry models.Entry, id int) (int, error) {
	args := m.Called(ctx, entry, id)
	return args.Int(0), args.Error(1)
}

func (m *MockEntryRepository) RemoveEntry(ctx context.Context, id int) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func (m *MockEntryRepository) ListEntries(ctx context.Context) (*models.RowSet, error) {
	args := m.Called(ctx)
	if res := args.Get(0); res != nil {
		return res.(*models.RowSet), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockEntryRepository) FilterEntries(ctx context.Context, column, pattern string) (*models.RowSet, error) {
	args := m.Called(ctx, column, pattern)
	if res := args.Get(0); res != nil {
		return res.(*models.RowSet), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockEntryRepository) CityStats(ctx context.Context) ([]models.CityStat, error) {
	args := m.Called(ctx)
	if res := args.Get(0); res != nil {
		return res.([]models.CityStat), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockEntryRepository) ListEntryColumns(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if res := args.Get(0); res != nil {
		return res.([]string), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockEntryRepository) AddEntryColumn(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

var entryColumns = []string{"id", "customername", "address", "city", "productname", "modelno", "kw", "tankvolume", "qty"}

func newTestService(repo *MockEntryRepository) *Service {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return New(repo, logger)
}

func TestFilter_KnownColumn(t *testing.T) {
	repo := new(MockEntryRepository)
	repo.On("ListEntryColumns", mock.Anything).Return(entryColumns, nil)
	repo.On("FilterEntries", mock.Anything, "city", "spring").Return(&models.RowSet{
		Columns: entryColumns,
		Rows:    []map[string]any{{"city": "Springfield"}},
	}, nil)

	svc := newTestService(repo)
	rs, err := svc.Filter(context.Background(), "City", "spring")

	require.NoError(t, err)
	assert.Len(t, rs.Rows, 1)
	// имя колонки канонизировано по схеме
	repo.AssertCalled(t, "FilterEntries", mock.Anything, "city", "spring")
}

func TestFilter_UnknownColumnRejected(t *testing.T) {
	repo := new(MockEntryRepository)
	repo.On("ListEntryColumns", mock.Anything).Return(entryColumns, nil)

	svc := newTestService(repo)
	_, err := svc.Filter(context.Background(), "city; DROP TABLE entries", "spring")

	assert.ErrorIs(t, err, models.ErrUnknownColumn)
	repo.AssertNotCalled(t, "FilterEntries", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdate_MissingIDIsNotFound(t *testing.T) {
	repo := new(MockEntryRepository)
	repo.On("UpdateEntry", mock.Anything, mock.Anything, 42).Return(0, nil)

	svc := newTestService(repo)
	err := svc.Update(context.Background(), 42, models.Entry{CustomerName: "Acme"})

	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestRemove_MissingIDIsNotFound(t *testing.T) {
	repo := new(MockEntryRepository)
	repo.On("RemoveEntry", mock.Anything, 42).Return(0, nil)

	svc := newTestService(repo)
	err := svc.Remove(context.Background(), 42)

	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestAddColumn_RejectsUnsafeIdentifier(t *testing.T) {
	repo := new(MockEntryRepository)
	svc := newTestService(repo)

	for _, name := range []string{"", "1column", "note; DROP TABLE entries", `quo"ted`, "имя", "a b"} {
		err := svc.AddColumn(context.Background(), name)
		assert.ErrorIs(t, err, models.ErrBadColumnName, "name %q", name)
	}
	repo.AssertNotCalled(t, "AddEntryColumn", mock.Anything, mock.Anything)
}

func TestAddColumn_DuplicateRejected(t *testing.T) {
	repo := new(MockEntryRepository)
	repo.On("ListEntryColumns", mock.Anything).Return(entryColumns, nil)

	svc := newTestService(repo)
	err := svc.AddColumn(context.Background(), "City")

	assert.ErrorIs(t, err, models.ErrConflict)
	repo.AssertNotCalled(t, "AddEntryColumn", mock.Anything, mock.Anything)
}

func TestAddColumn_LowercasesName(t *testing.T) {
	repo := new(MockEntryRepository)
	repo.On("ListEntryColumns", mock.Anything).Return(entryColumns, nil)
	repo.On("AddEntryColumn", mock.Anything, "warranty_note").Return(nil)

	svc := newTestService(repo)
	err := svc.AddColumn(context.Background(), "Warranty_Note")

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func buildWorkbook(t *testing.T, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestImport_PartialFailureKeepsOtherRows(t *testing.T) {
	data := buildWorkbook(t, [][]any{
		{"Customer Name", "Qty"},
		{"Acme", 3},
		{"Broken", "three"},
		{"Globex", 1},
	})

	repo := new(MockEntryRepository)
	repo.On("CreateEntry", mock.Anything, mock.Anything).Return(1, nil)

	svc := newTestService(repo)
	result, err := svc.Import(context.Background(), data)

	require.NoError(t, err)
	assert.Equal(t, 2, result.Inserted)
	assert.Equal(t, 1, result.Failed)
	repo.AssertNumberOfCalls(t, "CreateEntry", 2)
}

func TestImport_InsertFailureDoesNotRollBack(t *testing.T) {
	data := buildWorkbook(t, [][]any{
		{"Customer Name", "Qty"},
		{"Acme", 3},
		{"Globex", 1},
	})

	repo := new(MockEntryRepository)
	repo.On("CreateEntry", mock.Anything, mock.MatchedBy(func(e models.Entry) bool {
		return e.CustomerName == "Acme"
	})).Return(1, nil)
	repo.On("CreateEntry", mock.Anything, mock.MatchedBy(func(e models.Entry) bool {
		return e.CustomerName == "Globex"
	})).Return(0, assert.AnError)

	svc := newTestService(repo)
	result, err := svc.Import(context.Background(), data)

	require.NoError(t, err)
	assert.Equal(t, 1, result.Inserted)
	assert.Equal(t, 1, result.Failed)
}

func TestImport_AllRowsFailed(t *testing.T) {
	data := buildWorkbook(t, [][]any{
		{"Customer Name", "Qty"},
		{"Acme", 3},
	})

	repo := new(MockEntryRepository)
	repo.On("CreateEntry", mock.Anything, mock.Anything).Return(0, assert.AnError)

	svc := newTestService(repo)
	result, err := svc.Import(context.Background(), data)

	assert.Error(t, err)
	assert.Equal(t, 0, result.Inserted)
	assert.Equal(t, 1, result.Failed)
}

func TestImport_UnreadableWorkbook(t *testing.T) {
	svc := newTestService(new(MockEntryRepository))
	_, err := svc.Import(context.Background(), []byte("not a workbook"))
	assert.Error(t, err)
}

func TestExports_SameFilteredRows(t *testing.T) {
	rs := &models.RowSet{
		Columns: entryColumns,
		Rows: []map[string]any{
			{"id": int64(1), "customername": "Acme", "city": "Springfield", "qty": int64(3)},
			{"id": int64(2), "customername": "Globex", "city": "East Springfield", "qty": int64(1)},
		},
	}
	repo := new(MockEntryRepository)
	repo.On("ListEntryColumns", mock.Anything).Return(entryColumns, nil)
	repo.On("FilterEntries", mock.Anything, "city", "spring").Return(rs, nil)

	svc := newTestService(repo)

	excelData, err := svc.ExportExcel(context.Background(), "city", "spring")
	require.NoError(t, err)
	pdfData, err := svc.ExportPDF(context.Background(), "city", "spring")
	require.NoError(t, err)

	// xlsx: заголовок + две строки данных
	f, err := excelize.OpenReader(bytes.NewReader(excelData))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	rows, err := f.GetRows(appxlsx.ExportSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	// PDF построен по тому же набору строк
	assert.Equal(t, "%PDF", string(pdfData[:4]))
}

func TestTemplate(t *testing.T) {
	svc := newTestService(new(MockEntryRepository))
	data, err := svc.Template()
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}
