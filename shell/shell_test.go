package shell

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"

	"github.com/domino14/desdemona/board"
	"github.com/domino14/desdemona/config"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	os.Exit(m.Run())
}

func testController() *ShellController {
	cfg := config.DefaultConfig()
	cfg.Set(config.ConfigSearchDepth, 2)
	cfg.Set(config.ConfigLateSearchDepth, 2)
	return newController(cfg, io.Discard)
}

const oneMoveWin = "XO....../......../......../......../......../......../......../........"

func TestExtractFields(t *testing.T) {
	is := is.New(t)
	type testdata struct {
		line   string
		expCmd *shellcmd
		expErr error
	}
	cases := []testdata{
		{"", nil, errNoData},
		{"auto -output /path/to/summary.yaml",
			&shellcmd{"auto", nil, CmdOptions{"output": "/path/to/summary.yaml"}},
			nil},
		{"play d3",
			&shellcmd{"play", []string{"d3"}, CmdOptions{}},
			nil},
		{"auto -games 10 -threads 4 ",
			&shellcmd{"auto", nil, CmdOptions{"games": "10", "threads": "4"}},
			nil,
		},
		{"board 'XO....../......../......../......../......../......../......../........' red",
			&shellcmd{"board", []string{oneMoveWin, "red"}, CmdOptions{}},
			nil,
		},
		{"play --",
			&shellcmd{"play", []string{"--"}, CmdOptions{}},
			nil,
		},
		{"auto -games 10 -threads",
			nil, errWrongOptionSyntax},
	}
	for _, t := range cases {
		cmd, err := extractFields(t.line)
		is.Equal(cmd, t.expCmd)
		is.Equal(err, t.expErr)
	}
}

func TestPlayAndShow(t *testing.T) {
	is := is.New(t)
	sc := testController()
	_, err := sc.Execute("play d3")
	is.NoErr(err)
	is.Equal(sc.onTurn, board.Red)
	is.Equal(sc.history, []string{"d3"})
	is.Equal(sc.board.Count(board.Black), 4)

	// d3 is taken now
	_, err = sc.Execute("play d3")
	is.True(err != nil)
	_, err = sc.Execute("play z9")
	is.True(err != nil)

	r, err := sc.Execute("show")
	is.NoErr(err)
	is.True(strings.Contains(r.message, "red to move"))
	is.True(strings.Contains(r.message, "moves: d3"))

	_, err = sc.Execute("new")
	is.NoErr(err)
	is.Equal(sc.board, board.NewBoard())
	is.Equal(len(sc.history), 0)
}

func TestForcedPass(t *testing.T) {
	is := is.New(t)
	sc := testController()
	// red has nothing to flip, so black moves
	_, err := sc.Execute("board " + oneMoveWin + " red")
	is.NoErr(err)
	is.Equal(sc.onTurn, board.Black)
	is.Equal(sc.history, []string{"--"})
}

func TestGenAndAiplay(t *testing.T) {
	is := is.New(t)
	sc := testController()
	_, err := sc.Execute("board " + oneMoveWin)
	is.NoErr(err)

	r, err := sc.Execute("gen")
	is.NoErr(err)
	is.True(strings.Contains(r.message, "best move: c1"))
	is.True(strings.Contains(r.message, "WIN"))

	// the proven win is remembered
	r, err = sc.Execute("gen")
	is.NoErr(err)
	is.True(strings.Contains(r.message, "from cache"))

	r, err = sc.Execute("aiplay")
	is.NoErr(err)
	is.True(strings.Contains(r.message, "game over, black wins"))

	_, err = sc.Execute("aiplay")
	is.Equal(err, errGameOver)
}

func TestEval(t *testing.T) {
	is := is.New(t)
	sc := testController()
	r, err := sc.Execute("eval")
	is.NoErr(err)
	for _, name := range []string{"corners", "corner-neighbours", "mobility", "total"} {
		is.True(strings.Contains(r.message, name))
	}
}

func TestAutoFinishesGame(t *testing.T) {
	is := is.New(t)
	sc := testController()
	_, err := sc.Execute("set depth 1")
	is.NoErr(err)
	_, err = sc.Execute("set late-depth 1")
	is.NoErr(err)
	r, err := sc.Execute("auto")
	is.NoErr(err)
	is.True(sc.board.GameOver())
	is.True(strings.Contains(r.message, "game over"))
}

func TestAutoBatch(t *testing.T) {
	is := is.New(t)
	sc := testController()
	out := filepath.Join(t.TempDir(), "summary.yaml")
	r, err := sc.Execute("auto -games 2 -threads 2 -randomplies 2 -output " + out)
	is.NoErr(err)
	is.True(strings.Contains(r.message, "Games played: 2"))
	data, err := os.ReadFile(out)
	is.NoErr(err)
	is.True(strings.Contains(string(data), "games: 2"))

	_, err = sc.Execute("auto -games x")
	is.True(err != nil)
}

func TestSet(t *testing.T) {
	is := is.New(t)
	sc := testController()
	sc.engine(board.Black)

	r, err := sc.Execute("set")
	is.NoErr(err)
	is.True(strings.Contains(r.message, "depth: 2"))

	_, err = sc.Execute("set escalation-turn 7")
	is.NoErr(err)
	is.Equal(sc.settings.EscalationTurn, 7)
	// engines are rebuilt lazily with the new settings
	is.Equal(len(sc.engines), 0)

	for _, line := range []string{"set depth", "set depth x", "set depth -1", "set colour 3"} {
		_, err = sc.Execute(line)
		is.True(err != nil)
	}
}

func TestScript(t *testing.T) {
	is := is.New(t)
	sc := testController()
	path := filepath.Join(t.TempDir(), "test.lua")
	script := `
local json = require("json")
desdemona_set("depth 1")
local out = desdemona_play("d3")
if string.find(out, "ERROR") then error(out) end
local st = desdemona_state()
if st.on_turn ~= "red" then error("expected red to move, got " .. st.on_turn) end
if st.black ~= 4 or st.red ~= 1 then error("bad disc counts " .. json.encode(st)) end
local bad = desdemona_play("a1")
if not string.find(bad, "ERROR") then error("a1 should be illegal") end
`
	is.NoErr(os.WriteFile(path, []byte(script), 0o644))
	_, err := sc.Execute("script " + path)
	is.NoErr(err)
	is.Equal(sc.history, []string{"d3"})
	is.Equal(sc.settings.InitialDepth, 1)

	_, err = sc.Execute("script")
	is.True(err != nil)
}

func TestHelp(t *testing.T) {
	is := is.New(t)
	sc := testController()
	r, err := sc.Execute("help")
	is.NoErr(err)
	is.True(strings.Contains(r.message, "Usage"))
	for _, topic := range []string{"set", "auto", "script"} {
		_, err = sc.Execute("help " + topic)
		is.NoErr(err)
	}
	_, err = sc.Execute("help nothing")
	is.True(err != nil)
}

func TestUnknownAndExit(t *testing.T) {
	is := is.New(t)
	sc := testController()
	_, err := sc.Execute("fly")
	is.True(err != nil)
	_, err = sc.Execute("exit")
	is.Equal(err, errQuit)
}

func TestCompleter(t *testing.T) {
	is := is.New(t)
	c := NewShellCompleter(testController())

	matches, n := c.Do([]rune("pl"), 2)
	is.Equal(n, 2)
	is.Equal(matches, [][]rune{[]rune("ay")})

	// the four opening moves
	matches, n = c.Do([]rune("play "), 5)
	is.Equal(n, 0)
	is.Equal(len(matches), 4)

	matches, _ = c.Do([]rune("auto -g"), 7)
	is.Equal(matches, [][]rune{[]rune("ames")})

	matches, _ = c.Do([]rune("set late"), 8)
	is.Equal(matches, [][]rune{[]rune("-depth")})
}
