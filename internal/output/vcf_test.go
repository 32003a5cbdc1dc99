package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/rvqc/internal/vcf"
)

func TestVCFWriter(t *testing.T) {
	var buf bytes.Buffer
	header := []string{"##fileformat=VCFv4.2", "#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO"}
	w := NewVCFWriter(&buf, header)

	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.Write(&vcf.Variant{Line: "1\t100\t.\tA\tG\t50\tPASS\tQD=10"}))
	require.NoError(t, w.Flush())

	assert.Equal(t, "##fileformat=VCFv4.2\n#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n1\t100\t.\tA\tG\t50\tPASS\tQD=10\n", buf.String())
	assert.Equal(t, 1, w.Written())
}
