package cohort

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testFam = "FAM1\tS1\t0\t0\t1\t2\n" +
	"FAM1\tS2\t0\t0\t2\t1\n" +
	"FAM2 S3 0 0 1 -9\n" +
	"FAM2\tbroken\t0\n" +
	"\n" +
	"FAM3\tS4\t0\t0\t2\t2\n" +
	"FAM3\tS1\t0\t0\t1\t1\n"

func TestReadPhenotypes(t *testing.T) {
	ind, err := ReadPhenotypes(strings.NewReader(testFam), nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"S1", "S2", "S3", "S4"}, ind.IDs(), "file order, duplicates dropped")
	assert.Equal(t, Case, ind.CohortOf("S1"), "first occurrence wins")
	assert.Equal(t, Control, ind.CohortOf("S2"))
	assert.Equal(t, Unknown, ind.CohortOf("S3"))
	assert.Equal(t, Case, ind.CohortOf("S4"))
	assert.Equal(t, Unknown, ind.CohortOf("nobody"))

	assert.Equal(t, 2, ind.Count(Case))
	assert.Equal(t, 1, ind.Count(Control))
	assert.Equal(t, 2, ind.Index("S3"))
	assert.Equal(t, -1, ind.Index("nobody"))
}

func TestParseCohort(t *testing.T) {
	assert.Equal(t, Control, ParseCohort("1"))
	assert.Equal(t, Case, ParseCohort("2"))
	assert.Equal(t, Unknown, ParseCohort("0"))
	assert.Equal(t, Unknown, ParseCohort("-9"))
	assert.Equal(t, "CASE", Case.String())
}

func TestLoadPhenotypes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "study.fam")
	require.NoError(t, os.WriteFile(path, []byte(testFam), 0o644))

	ind, err := LoadPhenotypes(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, ind.Len())

	_, err = LoadPhenotypes(filepath.Join(t.TempDir(), "missing.fam"), nil)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
