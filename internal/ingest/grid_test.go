package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadGridCSVComma(t *testing.T) {
	data := []byte("Site ID,Site Name,Grid Energy\nSN001,Dakar Nord,\"1,234\"\n")
	rows, err := ReadGrid(data, "report.csv")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Site ID", "Site Name", "Grid Energy"}, rows[0])
	assert.Equal(t, "1,234", rows[1][2])
}

func TestReadGridCSVSemicolon(t *testing.T) {
	data := []byte("Site ID;Site Name;Grid Energy\nSN001;Dakar Nord;48,5\n")
	rows, err := ReadGrid(data, "report.csv")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "48,5", rows[1][2])
}

func TestReadGridRaggedRows(t *testing.T) {
	data := []byte("a,b,c\n1\n1,2,3,4\n")
	rows, err := ReadGrid(data, "ragged.csv")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Len(t, rows[1], 1)
	assert.Len(t, rows[2], 4)
}

func TestReadGridUnreadable(t *testing.T) {
	_, err := ReadGrid([]byte{0x00, 0x01, 0x02}, "broken.xlsx")
	assert.Error(t, err)
}
