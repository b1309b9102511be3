package automatic

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/aybabtme/uniplot/histogram"
	"gopkg.in/yaml.v3"

	"github.com/domino14/desdemona/stats"
)

var ErrBadGameLog = errors.New("malformed game log")

// Summary aggregates a batch of games. Margins are from Black's point of
// view; draws count half a win for each side.
type Summary struct {
	Games        int               `yaml:"games"`
	BlackWins    int               `yaml:"black-wins"`
	RedWins      int               `yaml:"red-wins"`
	Draws        int               `yaml:"draws"`
	BlackWinRate float64           `yaml:"black-win-rate"`
	Margin       stats.Description `yaml:"margin"`
	MarginCI95   []float64         `yaml:"margin-ci95,flow"`
	Plies        stats.Description `yaml:"plies"`

	margins []float64
}

func newSummary(margins, plies []float64) *Summary {
	s := &Summary{Games: len(margins), margins: margins}
	for _, m := range margins {
		switch {
		case m > 0:
			s.BlackWins++
		case m < 0:
			s.RedWins++
		default:
			s.Draws++
		}
	}
	if s.Games > 0 {
		s.BlackWinRate = (float64(s.BlackWins) + float64(s.Draws)/2) / float64(s.Games)
	}
	s.Margin = stats.Describe(margins)
	lo, hi := s.Margin.ConfidenceInterval(95)
	s.MarginCI95 = []float64{lo, hi}
	s.Plies = stats.Describe(plies)
	return s
}

// Summarize aggregates finished games.
func Summarize(records []*GameRecord) *Summary {
	margins := make([]float64, 0, len(records))
	plies := make([]float64, 0, len(records))
	for _, r := range records {
		margins = append(margins, float64(r.Margin()))
		plies = append(plies, float64(len(r.Moves)))
	}
	return newSummary(margins, plies)
}

// AnalyzeLogFile summarises a game log written by PlayGames.
func AnalyzeLogFile(filepath string) (*Summary, error) {
	file, err := os.Open(filepath)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return AnalyzeLog(file)
}

func AnalyzeLog(in io.Reader) (*Summary, error) {
	r := csv.NewReader(in)
	r.FieldsPerRecord = len(gameLogHeader)

	var margins, plies []float64
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if record[0] == gameLogHeader[0] {
			continue
		}
		black, err1 := strconv.Atoi(record[1])
		red, err2 := strconv.Atoi(record[2])
		n, err3 := strconv.Atoi(record[3])
		if err := errors.Join(err1, err2, err3); err != nil {
			return nil, fmt.Errorf("%w: game %s: %w", ErrBadGameLog, record[0], err)
		}
		margins = append(margins, float64(black-red))
		plies = append(plies, float64(n))
	}
	return newSummary(margins, plies), nil
}

func (s *Summary) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return err
	}
	return enc.Close()
}

// Histogram draws the distribution of disc margins.
func (s *Summary) Histogram(w io.Writer) error {
	if len(s.margins) == 0 {
		return nil
	}
	hist := histogram.Hist(min(15, len(s.margins)), s.margins)
	return histogram.Fprint(w, hist, histogram.Linear(40))
}

func (s *Summary) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Games played: %d\n", s.Games)
	fmt.Fprintf(&sb, "Black wins: %d  Red wins: %d  Draws: %d\n", s.BlackWins, s.RedWins, s.Draws)
	fmt.Fprintf(&sb, "Black score: %.3f%%\n", 100*s.BlackWinRate)
	fmt.Fprintf(&sb, "Mean margin: %.3f  Stdev: %.3f  95%% CI: [%.3f, %.3f]\n",
		s.Margin.Mean, s.Margin.Stdev, s.MarginCI95[0], s.MarginCI95[1])
	fmt.Fprintf(&sb, "Mean game length: %.1f plies\n", s.Plies.Mean)
	return sb.String()
}
