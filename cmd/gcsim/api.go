package main

import (
	"encoding/json"
	"io/ioutil"
	"log"
	"net/http"

	sse "github.com/alexandrevicenzi/go-sse"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/jasonwbarnett/fileserver"

	"github.com/maro7tigre/gcode-interpreter/canon"
	"github.com/maro7tigre/gcode-interpreter/diag"
	"github.com/maro7tigre/gcode-interpreter/dialect"
	"github.com/maro7tigre/gcode-interpreter/geom"
	"github.com/maro7tigre/gcode-interpreter/interp"
)

type api struct {
	http.Handler
	table    *dialect.Table
	maxSteps int
	sse      *sse.Server
	upgrader websocket.Upgrader
}

// runResult is the full JSON payload of one interpretation.
type runResult struct {
	Dialect     string                `json:"dialect"`
	Commands    []typedCommand        `json:"commands"`
	Diagnostics []diag.Error          `json:"diagnostics"`
	Segments    []geom.Segment        `json:"segments"`
	Events      []interp.DisplayEvent `json:"events"`
	Stats       interp.Stats          `json:"stats"`
}

// typedCommand wraps a canonical command with a type tag so clients
// can switch on it.
type typedCommand struct {
	Type    string        `json:"type"`
	Command canon.Command `json:"command"`
}

func commandType(c canon.Command) string {
	switch c.(type) {
	case *canon.RapidMove:
		return "rapid_move"
	case *canon.LinearFeed:
		return "linear_feed"
	case *canon.ArcFeed:
		return "arc_feed"
	case *canon.Dwell:
		return "dwell"
	case *canon.SetSpindleSpeed:
		return "set_spindle_speed"
	case *canon.SpindleControl:
		return "spindle_control"
	case *canon.ToolChange:
		return "tool_change"
	case *canon.CoolantControl:
		return "coolant_control"
	case *canon.ProgramEnd:
		return "program_end"
	}
	return "unknown"
}

func newAPI(table *dialect.Table, maxSteps int, dir string) *api {
	r := mux.NewRouter()

	a := &api{
		Handler:  r,
		table:    table,
		maxSteps: maxSteps,
		sse: sse.NewServer(&sse.Options{
			Logger: log.New(ioutil.Discard, "", 0),
		}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}

	r.HandleFunc("/api/interpret", a.interpret).Methods("POST")
	r.HandleFunc("/api/check", a.check).Methods("POST")
	r.HandleFunc("/ws", a.stream)
	r.PathPrefix("/events/").Handler(a.sse)
	r.PathPrefix("/").Handler(fileserver.New(http.Dir(dir)))

	return a
}

// run interprets one program with a fresh interpreter; each request
// gets its own instance so concurrent requests never share state.
func (a *api) run(text string) *runResult {
	in := interp.New(a.table)
	in.MaxSteps = a.maxSteps
	in.Process(text)

	cmds := in.Commands()
	typed := make([]typedCommand, len(cmds))
	for i, c := range cmds {
		typed[i] = typedCommand{Type: commandType(c), Command: c}
	}
	return &runResult{
		Dialect:     a.table.Name(),
		Commands:    typed,
		Diagnostics: in.Diagnostics(),
		Segments:    in.Geometry().Segments(),
		Events:      in.Events(),
		Stats:       in.Stats(),
	}
}

func (a *api) interpret(w http.ResponseWriter, req *http.Request) {
	data, err := ioutil.ReadAll(req.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	res := a.run(string(data))

	summary, err := json.Marshal(res.Stats)
	if err == nil {
		a.sse.SendMessage("/events/runs", sse.SimpleMessage(string(summary)))
	}

	w.Header().Set("Content-Type", "application/json")
	err = json.NewEncoder(w).Encode(res)
	if err != nil {
		log.Println("ERROR: encode:", err)
	}
}

func (a *api) check(w http.ResponseWriter, req *http.Request) {
	data, err := ioutil.ReadAll(req.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	in := interp.New(a.table)
	diags := in.CheckSyntax(string(data))
	if diags == nil {
		diags = []diag.Error{}
	}

	w.Header().Set("Content-Type", "application/json")
	err = json.NewEncoder(w).Encode(diags)
	if err != nil {
		log.Println("ERROR: encode:", err)
	}
}

// stream accepts a program as the first websocket message and replies
// with one message per canonical command, then a closing result frame
// with diagnostics and stats.
func (a *api) stream(w http.ResponseWriter, req *http.Request) {
	ws, err := a.upgrader.Upgrade(w, req, nil)
	if err != nil {
		log.Println("ERROR: upgrade:", err)
		return
	}
	defer ws.Close()

	_, data, err := ws.ReadMessage()
	if err != nil {
		log.Println("ERROR: read:", err)
		return
	}

	res := a.run(string(data))
	for _, c := range res.Commands {
		if err := ws.WriteJSON(c); err != nil {
			log.Println("ERROR: write:", err)
			return
		}
	}
	err = ws.WriteJSON(struct {
		Diagnostics []diag.Error `json:"diagnostics"`
		Stats       interp.Stats `json:"stats"`
	}{res.Diagnostics, res.Stats})
	if err != nil {
		log.Println("ERROR: write:", err)
	}
}
