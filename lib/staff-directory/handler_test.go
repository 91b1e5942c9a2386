package staffdirectory

import (
	"bytes"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	apperrors "sabbatical-backend/lib/utils/app-errors"
	"sabbatical-backend/lib/utils/canonical"
	dbmodels "sabbatical-backend/models/db"
)

type fakeStore struct {
	rows    []map[string]any
	loads   int
	err     error
	upserts []dbmodels.StaffMember
}

func (f *fakeStore) LoadAll() ([]canonical.Record, error) {
	f.loads++
	if f.err != nil {
		return nil, f.err
	}
	list := []canonical.Record{}
	for _, row := range f.rows {
		list = append(list, canonical.StaffMapping.Apply(row))
	}
	return list, nil
}

func (f *fakeStore) Upsert(rec dbmodels.StaffMember) error {
	f.upserts = append(f.upserts, rec)
	return nil
}

func staffRows() []map[string]any {
	return []map[string]any{
		{"Email_Address": "teacher@firstline.org", "First_Name": "Terry", "Last_Name": "Teacher", "Last_Hire_Date": "2014-08-01", "Location_Name": "Arthur Ashe", "Supervisor_Name__Unsecured_": "Pat Principal"},
		{"Email_Address": "principal@firstline.org", "First_Name": "Pat", "Last_Name": "Principal", "Location_Name": "Arthur Ashe", "Supervisor_Name__Unsecured_": "Cara Chief"},
		{"Email_Address": "chief@firstline.org", "First_Name": "Cara", "Last_Name": "Chief", "Supervisor_Name__Unsecured_": "Pat Principal"},
		{"Email_Address": "", "First_Name": "No", "Last_Name": "Email"},
	}
}

func TestDirectory(t *testing.T) {
	t.Run("lookup is case insensitive and cached", func(t *testing.T) {
		store := &fakeStore{rows: staffRows()}
		dir := NewInstance(store, time.Minute)
		emp, err := dir.Lookup("Teacher@FirstLine.org")
		require.NoError(t, err)
		require.NotNil(t, emp)
		require.Equal(t, "Terry Teacher", emp.FullName)
		require.Equal(t, "Arthur Ashe", emp.Site)
		require.Equal(t, time.Date(2014, time.August, 1, 0, 0, 0, 0, time.UTC), *emp.HireDate)

		missing, err := dir.Lookup("nobody@firstline.org")
		require.NoError(t, err)
		require.Nil(t, missing)
		require.Equal(t, 1, store.loads)

		dir.Invalidate()
		_, err = dir.Lookup("teacher@firstline.org")
		require.NoError(t, err)
		require.Equal(t, 2, store.loads)
	})
	t.Run("supervisor chain stops on cycles", func(t *testing.T) {
		dir := NewInstance(&fakeStore{rows: staffRows()}, time.Minute)
		chain, err := dir.Supervisors("teacher@firstline.org", 5)
		require.NoError(t, err)
		require.Len(t, chain, 2)
		require.Equal(t, "principal@firstline.org", chain[0].Email)
		require.Equal(t, "chief@firstline.org", chain[1].Email)

		chain, err = dir.Supervisors("teacher@firstline.org", 1)
		require.NoError(t, err)
		require.Len(t, chain, 1)
	})
	t.Run("director detection", func(t *testing.T) {
		dir := NewInstance(&fakeStore{rows: staffRows()}, time.Minute)
		isDirector, err := dir.HasDirectReports("principal@firstline.org")
		require.NoError(t, err)
		require.True(t, isDirector)
		isDirector, err = dir.HasDirectReports("teacher@firstline.org")
		require.NoError(t, err)
		require.False(t, isDirector)
	})
	t.Run("store failure is unavailable", func(t *testing.T) {
		dir := NewInstance(&fakeStore{err: errors.New("connection refused")}, time.Minute)
		_, err := dir.Lookup("teacher@firstline.org")
		require.True(t, errors.Is(err, apperrors.ErrUnavailable))
	})
}

func TestLoadRoster(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"Email Address", "First Name", "Last Name", "Last Hire Date", "Location Name"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"teacher@firstline.org", "Terry", "Teacher", "2014-08-01", "Arthur Ashe"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]any{"", "No", "Email"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	store := &fakeStore{}
	loaded, err := LoadRoster(store, bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Equal(t, 1, loaded)
	require.Equal(t, "Arthur Ashe", store.upserts[0].Site)
	hire, ok := store.upserts[0].HireDateValue()
	require.True(t, ok)
	require.Equal(t, 2014, hire.Year())
}
