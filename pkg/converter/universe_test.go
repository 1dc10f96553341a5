package converter_test

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/brainfeed/pkg/converter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const securityIDs = `ticker,sid
AAPL,AAPL R735QTJ8XC9X
MSFT,MSFT R735QTJ8XC9X
`

func writeSource(t *testing.T, root, rel, body string) {
	path := filepath.Join(root, "alternative", "brain", rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, ioutil.WriteFile(path, []byte(body), 0644))
}

func newBuilder(t *testing.T) (*converter.UniverseBuilder, string) {
	root, err := ioutil.TempDir("", "brainfeed")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(root) })

	resolver, err := converter.NewCSVSecurityResolver(strings.NewReader(securityIDs))
	require.NoError(t, err)
	return converter.NewUniverseBuilder(root, resolver), root
}

func TestCSVSecurityResolver(t *testing.T) {
	resolver, err := converter.NewCSVSecurityResolver(strings.NewReader(securityIDs + "\nGOOG,\n"))
	require.NoError(t, err)

	sid, ok := resolver.Resolve("aapl", time.Now())
	assert.True(t, ok)
	assert.Equal(t, "AAPL R735QTJ8XC9X", sid)

	_, ok = resolver.Resolve("GOOG", time.Now())
	assert.False(t, ok)
}

func TestUniverseRankings(t *testing.T) {
	builder, root := newBuilder(t)

	for _, days := range []string{"2", "3", "5", "10", "21"} {
		writeSource(t, root, "rankings/"+days+"/202509/aapl.csv", "20250909,0.1\n20250910,0."+days+"\n")
	}
	writeSource(t, root, "rankings/2/202509/msft.csv", "20250910,-0.2\n")
	writeSource(t, root, "rankings/2/202509/zzzz.csv", "20250910,0.3\n")
	writeSource(t, root, "rankings/universe/20250101.csv", "stale\n")

	written, err := builder.Build("rankings")
	require.NoError(t, err)
	require.Equal(t, 2, len(written))
	assert.Equal(t, filepath.Join(root, "alternative/brain/rankings/universe/20250910.csv"), written[1])

	raw, err := ioutil.ReadFile(written[1])
	require.NoError(t, err)
	assert.Equal(t, "AAPL R735QTJ8XC9X,AAPL,0.2,0.3,0.5,0.10,0.21\n"+
		"MSFT R735QTJ8XC9X,MSFT,-0.2,,,,\n", string(raw))
}

func TestUniverseSentiment(t *testing.T) {
	builder, root := newBuilder(t)
	writeSource(t, root, "sentiment/7/202509/aapl.csv", "20250910,12,7,0.2231,1.5,0.75\n")
	writeSource(t, root, "sentiment/30/202509/aapl.csv", "20250910,40,20,0.1196,1.2,0.5\n")
	writeSource(t, root, "sentiment/30/202509/msft.csv", "20250910,10,5,0.3,1.1,0.4\n")

	written, err := builder.Build("sentiment")
	require.NoError(t, err)
	require.Equal(t, 1, len(written))

	raw, err := ioutil.ReadFile(written[0])
	require.NoError(t, err)
	assert.Equal(t, "AAPL R735QTJ8XC9X,AAPL,12,7,0.2231,1.5,0.75,40,20,0.1196,1.2,0.5\n"+
		"MSFT R735QTJ8XC9X,MSFT,,,,,,10,5,0.3,1.1,0.4\n", string(raw))
}

func TestUniverseReport(t *testing.T) {
	builder, root := newBuilder(t)

	cells := []string{"20250910", "2025-08-01", "10-K"}
	var metrics []string
	for section := 1; section <= 3; section++ {
		metrics = append(metrics, fmt.Sprintf("%d", 100*section))
		for i := 1; i < 11; i++ {
			metrics = append(metrics, fmt.Sprintf("%d.%02d", section, i))
		}
	}
	cells = append(cells, metrics...)
	cells = append(cells, "4", "2024-08-02", "10-K", "4")
	writeSource(t, root, "report_10k/202509/aapl.csv", strings.Join(cells, ",")+"\n")

	written, err := builder.Build("report_10k")
	require.NoError(t, err)
	require.Equal(t, 1, len(written))
	assert.Equal(t, filepath.Join(root, "alternative/brain/report_10k/universe/20250910.csv"), written[0])

	raw, err := ioutil.ReadFile(written[0])
	require.NoError(t, err)
	assert.Equal(t, "AAPL R735QTJ8XC9X,AAPL,"+strings.Join(metrics, ",")+"\n", string(raw))
}

func TestUniverseUnknownGroup(t *testing.T) {
	builder, _ := newBuilder(t)
	_, err := builder.Build("bwpv")
	assert.Error(t, err)
	assert.Equal(t, []string{"rankings", "report_10k", "report_all", "sentiment"}, converter.UniverseGroups())
}
