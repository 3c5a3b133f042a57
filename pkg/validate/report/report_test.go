package report

import (
	"bytes"
	"errors"
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/hilval/pkg/device/comm"
	"github.com/robotalks/hilval/pkg/validate"
)

var testRows = []validate.Row{
	{Index: 0, Truth: 0, Reference: 0, Prediction: 0, Outcome: validate.Match, Checksum: "4b37"},
	{Index: 1, Truth: 4, Reference: 9, Prediction: 4, Outcome: validate.Divergent, Checksum: "0000"},
	{Index: 2, Truth: 1, Reference: 1, Prediction: comm.NoResponse, Outcome: validate.Timeout, Checksum: "ffff"},
}

var testSummary = validate.Summary{Total: 3, Processed: 3, Correct: 2, Agreement: 1, Divergent: 1, Timeouts: 1}

func feed(t *testing.T, r validate.Reporter, summary validate.Summary) {
	require.NoError(t, r.Start(len(testRows)))
	for _, row := range testRows {
		require.NoError(t, r.Record(row))
	}
	require.NoError(t, r.Finish(summary))
}

func TestTable(t *testing.T) {
	var out bytes.Buffer
	feed(t, NewTable(&out), testSummary)
	lines := strings.Split(out.String(), "\n")
	require.Equal(t, "validating 3 samples", lines[0])
	require.Equal(t, "IDX   | TRUTH | REF   | DEVICE | STATUS", lines[1])
	require.Equal(t, "1     | 4     | 9     | 4      | DIV", lines[3])
	require.Equal(t, "2     | 1     | 1     | --     | TIMEOUT", lines[4])
	require.Regexp(t, `correct\s+\|\s+2/3`, out.String())
	require.Regexp(t, `accuracy\s+\|\s+66\.7%`, out.String())
	require.Regexp(t, `agreement\s+\|\s+1/3`, out.String())
	require.Regexp(t, `fidelity\s+\|\s+33\.3%`, out.String())
	require.NotContains(t, out.String(), "PARTIAL")
}

func TestTablePartial(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, NewTable(&out).Finish(validate.Summary{Total: 3, Interrupted: true}))
	require.Contains(t, out.String(), "PARTIAL RESULT")
	require.Contains(t, out.String(), "no samples")
	require.Regexp(t, `correct\s+\|\s+0/0`, out.String())
}

func TestCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rows.csv")
	feed(t, NewCSV(path), testSummary)
	content, err := ioutil.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, strings.Join([]string{
		"idx,truth,reference,device,status,crc16",
		"0,0,0,0,MATCH,4b37",
		"1,4,9,4,DIV,0000",
		"2,1,1,,TIMEOUT,ffff",
		"",
	}, "\n"), string(content))
}

func TestCSVCreateError(t *testing.T) {
	r := NewCSV(filepath.Join(t.TempDir(), "missing", "rows.csv"))
	require.NoError(t, r.Start(0))
	require.Error(t, r.Finish(validate.Summary{}))
}

type failReporter struct {
	validate.NopReporter
	calls int
}

func (r *failReporter) Record(validate.Row) error {
	r.calls++
	return errors.New("fail")
}

func TestMulti(t *testing.T) {
	var out bytes.Buffer
	failing := &failReporter{}
	m := Multi{failing, NewTable(&out)}
	require.NoError(t, m.Start(1))
	require.Error(t, m.Record(testRows[0]))
	require.Equal(t, 1, failing.calls)
	require.Contains(t, out.String(), "MATCH")
	require.NoError(t, m.Finish(testSummary))
}
