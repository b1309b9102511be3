package shell

import (
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"
	lua "github.com/yuin/gopher-lua"
	luajson "layeh.com/gopher-json"

	"github.com/domino14/desdemona/board"
)

// Commands exposed to scripts as desdemona_<name>.
var scriptCommands = []string{"new", "show", "board", "play", "gen", "aiplay", "eval", "auto", "set"}

func getShell(L *lua.LState) *ShellController {
	shell := L.GetGlobal("desdemona_shell")
	ud, ok := shell.(*lua.LUserData)
	if !ok {
		panic("luserdata not right type")
	}
	sc, ok := ud.Value.(*ShellController)
	if !ok {
		panic("shellcontroller not right type")
	}
	return sc
}

func scriptCommand(name string) lua.LGFunction {
	return func(L *lua.LState) int {
		lv := L.OptString(1, "")
		sc := getShell(L)
		r, err := sc.Execute(name + " " + lv)
		if err != nil {
			log.Err(err).Str("command", name).Msg("error-executing-script-command")
			L.Push(lua.LString("ERROR: " + err.Error()))
			return 1
		}
		L.Push(lua.LString(r.message))
		// return number of results pushed to stack.
		return 1
	}
}

type scriptState struct {
	Board    string   `json:"board"`
	OnTurn   string   `json:"on_turn"`
	Moves    []string `json:"moves"`
	Black    int      `json:"black"`
	Red      int      `json:"red"`
	GameOver bool     `json:"game_over"`
}

// State pushes the current game as a lua table.
func State(L *lua.LState) int {
	sc := getShell(L)
	data, err := json.Marshal(scriptState{
		Board:    sc.board.String(),
		OnTurn:   sc.onTurn.String(),
		Moves:    append([]string{}, sc.history...),
		Black:    sc.board.Count(board.Black),
		Red:      sc.board.Count(board.Red),
		GameOver: sc.board.GameOver(),
	})
	if err != nil {
		L.RaiseError("%v", err)
		return 0
	}
	v, err := luajson.Decode(L, data)
	if err != nil {
		L.RaiseError("%v", err)
		return 0
	}
	L.Push(v)
	return 1
}

func (sc *ShellController) newScriptState() *lua.LState {
	L := lua.NewState()
	luajson.Preload(L)

	lsc := L.NewUserData()
	lsc.Value = sc
	L.SetGlobal("desdemona_shell", lsc)
	for _, name := range scriptCommands {
		L.SetGlobal("desdemona_"+name, L.NewFunction(scriptCommand(name)))
	}
	L.SetGlobal("desdemona_state", L.NewFunction(State))
	return L
}

func (sc *ShellController) script(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return nil, errors.New("need arguments for script")
	}
	L := sc.newScriptState()
	defer L.Close()

	if err := L.DoFile(cmd.args[0]); err != nil {
		log.Err(err).Msg("script-error")
		return nil, err
	}
	return nil, nil
}
