package automatic

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v3"

	"github.com/domino14/desdemona/stats"
)

const sampleLog = `gameID,black,red,plies,seed,moves
1,40,24,60,AAAA,d3 c3
2,20,44,61,AAAA,d3 c5
3,32,32,60,AAAA,f5 f6
4,64,0,30,AAAA,f5 d6
`

func TestAnalyzeLog(t *testing.T) {
	s, err := AnalyzeLog(strings.NewReader(sampleLog))
	assert.NoError(t, err)
	assert.Equal(t, 4, s.Games)
	assert.Equal(t, 2, s.BlackWins)
	assert.Equal(t, 1, s.RedWins)
	assert.Equal(t, 1, s.Draws)
	assert.InDelta(t, 0.625, s.BlackWinRate, stats.Epsilon)
	assert.InDelta(t, 14.0, s.Margin.Mean, stats.Epsilon)
	assert.Equal(t, -24.0, s.Margin.Min)
	assert.Equal(t, 64.0, s.Margin.Max)
	assert.InDelta(t, 52.75, s.Plies.Mean, stats.Epsilon)
	assert.Less(t, s.MarginCI95[0], s.Margin.Mean)
	assert.Greater(t, s.MarginCI95[1], s.Margin.Mean)
}

func TestAnalyzeLogErrors(t *testing.T) {
	_, err := AnalyzeLog(strings.NewReader("gameID,black,red,plies,seed,moves\n1,x,3,4,AAAA,d3\n"))
	assert.True(t, errors.Is(err, ErrBadGameLog))

	// wrong number of fields
	_, err = AnalyzeLog(strings.NewReader("1,2,3\n"))
	assert.Error(t, err)
}

func TestSummaryOutput(t *testing.T) {
	s, err := AnalyzeLog(strings.NewReader(sampleLog))
	assert.NoError(t, err)

	var out bytes.Buffer
	assert.NoError(t, s.WriteYAML(&out))
	var decoded map[string]any
	assert.NoError(t, yaml.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, 4, decoded["games"])
	assert.Equal(t, 2, decoded["black-wins"])
	assert.Contains(t, decoded, "margin-ci95")

	out.Reset()
	assert.NoError(t, s.Histogram(&out))
	assert.NotEmpty(t, out.String())
	assert.Contains(t, s.String(), "Games played: 4")
}

func TestEmptySummary(t *testing.T) {
	s := Summarize(nil)
	assert.Equal(t, 0, s.Games)
	var out bytes.Buffer
	assert.NoError(t, s.Histogram(&out))
	assert.Empty(t, out.String())
}
