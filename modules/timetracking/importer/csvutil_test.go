package importer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewCSVReader_StripsBOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("Name,Client\nAcme site,Acme\n")...)
	r := NewCSVReader(data)

	header, err := ReadHeader(r)
	require.NoError(t, err)
	require.Equal(t, []string{"Name", "Client"}, header)
}

func TestReadHeader_Empty(t *testing.T) {
	_, err := ReadHeader(NewCSVReader(nil))
	require.Error(t, err)
	require.Equal(t, KindFormat, KindOf(err))
}

func TestRequireColumns_ReportsAllMissing(t *testing.T) {
	header := []string{"Name", "Client"}
	err := RequireColumns(header, []string{"Name", "Status", "Client", "Billability"})
	require.Error(t, err)
	require.Equal(t, KindFormat, KindOf(err))
	require.Contains(t, err.Error(), "Status, Billability")
}

func TestRequireColumns_ExtraColumnsTolerated(t *testing.T) {
	header := []string{"Name", "Client", "Something Custom"}
	require.NoError(t, RequireColumns(header, []string{"Name", "Client"}))
}

func TestSplitTags(t *testing.T) {
	require.Equal(t, []string{"billing", "dev", "ops"}, SplitTags(" billing , dev,,ops , dev ", ","))
	require.Nil(t, SplitTags("   ", ","))
	require.Nil(t, SplitTags("", ","))
}
