package data

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"creditwrangle/pkg/dataprep"
)

const sample = `,X1,X2,X3,Y
ID,LIMIT_BAL,EDUCATION,PAY_0,default payment next month
1,20000,2,2,1
2,120000,5,-1,1
3,90000,0,0,0
`

func readSample(t *testing.T) *Table {
	t.Helper()
	tbl, err := Read(strings.NewReader(sample), WithGroupHeader())
	require.NoError(t, err)
	return tbl
}

func TestRead(t *testing.T) {
	tbl := readSample(t)
	require.Equal(t, []string{"", "X1", "X2", "X3", "Y"}, tbl.Group)
	require.Equal(t, []string{"ID", "LIMIT_BAL", "EDUCATION", "PAY_0", "default payment next month"}, tbl.Names())
	require.Equal(t, 3, tbl.Len())

	bal, err := tbl.Float("LIMIT_BAL")
	require.NoError(t, err)
	require.Equal(t, []float64{20000, 120000, 90000}, bal)

	raw, err := tbl.Strings("PAY_0")
	require.NoError(t, err)
	require.Equal(t, []string{"2", "-1", "0"}, raw)
}

func TestReadWithoutGroupHeader(t *testing.T) {
	tbl, err := Read(strings.NewReader("ID,AGE\n1,24\n2,37\n"))
	require.NoError(t, err)
	require.Nil(t, tbl.Group)
	require.Equal(t, []string{"ID", "AGE"}, tbl.Names())
}

func TestReadMismatchedGroupHeader(t *testing.T) {
	_, err := Read(strings.NewReader(",X1\nID,A,B\n1,2,3\n"), WithGroupHeader())
	require.ErrorIs(t, err, ErrMalformedTable)
}

func TestUnknownColumn(t *testing.T) {
	tbl := readSample(t)
	_, err := tbl.Float("AGE")
	require.ErrorIs(t, err, dataprep.ErrMissingColumn)

	var ce *dataprep.ColumnError
	require.ErrorAs(t, err, &ce)
	require.Equal(t, "AGE", ce.Column)
}

func TestNotNumeric(t *testing.T) {
	tbl, err := Read(strings.NewReader("ID,SEX\n1,male\n"))
	require.NoError(t, err)
	_, err = tbl.Float("SEX")
	require.ErrorIs(t, err, ErrNotNumeric)
}

func TestBlankCellIsNotZero(t *testing.T) {
	tbl, err := Read(strings.NewReader("ID,EDUCATION\n1,1\n2,\n3,2\n"))
	require.NoError(t, err)

	_, err = tbl.Float("EDUCATION")
	require.ErrorIs(t, err, ErrNotNumeric)
	var ce *dataprep.ColumnError
	require.ErrorAs(t, err, &ce)
	require.Equal(t, "EDUCATION", ce.Column)
}

func TestReadRejectsUnnamedColumns(t *testing.T) {
	tests := []struct {
		name  string
		input string
		opts  []ReadOption
	}{
		{"blank name", ",X1,\nID,A,\n1,2,3\n", []ReadOption{WithGroupHeader()}},
		{"duplicate name", "ID,A,A\n1,2,3\n", nil},
		{"no names", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input), tt.opts...)
			require.ErrorIs(t, err, ErrMalformedTable)
		})
	}
}

func TestRoundTripKeepsHeader(t *testing.T) {
	const in = `,X1,X2
ID,A b,c_0
1,007,x
`
	tbl, err := Read(strings.NewReader(in), WithGroupHeader())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, tbl.Write(&buf))
	require.Equal(t, in, buf.String())
}

func TestSetRenameAndWrite(t *testing.T) {
	tbl := readSample(t)
	clone := tbl.Clone()

	require.NoError(t, tbl.SetFloat("EDUCATION", []float64{2, 4, 4}))
	require.NoError(t, tbl.Rename("PAY_0", "PAY_1"))
	require.Error(t, tbl.Rename("PAY_1", "ID"))
	require.ErrorIs(t, tbl.Rename("PAY_1", ""), ErrMalformedTable)
	require.Error(t, tbl.SetFloat("EDUCATION", []float64{1}))

	var buf bytes.Buffer
	require.NoError(t, tbl.Write(&buf))
	require.Equal(t, `,X1,X2,X3,Y
ID,LIMIT_BAL,EDUCATION,PAY_1,default payment next month
1,20000,2,2,1
2,120000,4,-1,1
3,90000,4,0,0
`, buf.String())

	// the clone keeps the original cells and names
	edu, err := clone.Strings("EDUCATION")
	require.NoError(t, err)
	require.Equal(t, []string{"2", "5", "0"}, edu)
	require.True(t, clone.Has("PAY_0"))
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, readSample(t).Save(path))

	tbl, err := Load(path, WithGroupHeader())
	require.NoError(t, err)
	require.Equal(t, 3, tbl.Len())

	_, err = Load(filepath.Join(t.TempDir(), "missing.csv"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
