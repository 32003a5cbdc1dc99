package cpg

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadRegions(t *testing.T) {
	input := strings.Join([]string{
		"#chrom\tstart\tend\tname",
		"chr1\t100\t200\tCpG:_25",
		"chr1\tabc\t200",
		"chr2\t5\t1",
		"chr2\t10",
		"",
		"chr2\t300\t350",
	}, "\n")

	regions, err := ReadRegions(strings.NewReader(input), nil)
	require.NoError(t, err)
	require.Len(t, regions, 2)
	assert.Equal(t, Region{Chrom: "chr1", Start: 100, End: 200}, regions[0])
	assert.Equal(t, Region{Chrom: "chr2", Start: 300, End: 350}, regions[1])
}

func TestLoadIndex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cpg.tsv")
	require.NoError(t, os.WriteFile(path, []byte("chr1\t100\t200\n"), 0o644))

	idx, err := LoadIndex(path, nil)
	require.NoError(t, err)
	assert.True(t, idx.Contains("chr1", 150))
}

func TestLoadIndex_NotFound(t *testing.T) {
	_, err := LoadIndex("/nonexistent/cpg.tsv", nil)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
