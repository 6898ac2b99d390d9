// gccheck interprets a G-code file and, for cross-checking, runs the
// same program through the gocnc virtual machine so the two outputs
// can be compared by eye.
package main

import (
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"os"

	"github.com/joushou/gocnc/gcode"
	"github.com/joushou/gocnc/vm"

	"github.com/maro7tigre/gcode-interpreter/canon"
	"github.com/maro7tigre/gcode-interpreter/dialect"
	"github.com/maro7tigre/gcode-interpreter/interp"
)

func main() {
	log.SetFlags(log.Lshortfile)

	dialectName := flag.String("dialect", "linuxcnc", "G-code dialect to interpret (linuxcnc or num).")
	crossCheck := flag.Bool("cross", true, "Also run the program through the gocnc VM.")
	flag.Parse()

	var table *dialect.Table
	switch *dialectName {
	case "linuxcnc":
		table = dialect.LinuxCNC()
	case "num":
		table = dialect.NUM()
	default:
		log.Fatalf("unknown dialect '%s'", *dialectName)
	}

	var data []byte
	var err error
	if flag.NArg() > 0 {
		data, err = ioutil.ReadFile(flag.Arg(0))
	} else {
		data, err = ioutil.ReadAll(os.Stdin)
	}
	if err != nil {
		log.Fatal(err)
	}
	text := string(data)

	in := interp.New(table)
	in.Process(text)

	for _, d := range in.Diagnostics() {
		fmt.Println(d)
	}
	for _, c := range in.Commands() {
		printCommand(c)
	}
	st := in.Stats()
	fmt.Printf("%d commands, rapid %.3f, feed %.3f, bounds %v..%v\n",
		st.Commands, st.RapidLength, st.FeedLength, st.Min, st.Max)

	if !*crossCheck {
		return
	}

	fmt.Println("--- gocnc ---")
	doc, err := gcode.Parse(text)
	if err != nil {
		log.Fatal(err)
	}
	var m vm.Machine
	m.Init()
	m.Process(doc)
	m.Dump()
}

func printCommand(c canon.Command) {
	switch v := c.(type) {
	case *canon.RapidMove:
		fmt.Printf("%4d rapid  %v -> %v\n", v.Line, v.Start.Point(), v.End.Point())
	case *canon.LinearFeed:
		fmt.Printf("%4d feed   %v -> %v F%v\n", v.Line, v.Start.Point(), v.End.Point(), v.Feed)
	case *canon.ArcFeed:
		dir := "ccw"
		if v.Direction < 0 {
			dir = "cw"
		}
		fmt.Printf("%4d arc    %v -> %v around %v %s F%v\n",
			v.Line, v.Start.Point(), v.End.Point(), v.Center, dir, v.Feed)
	case *canon.Dwell:
		fmt.Printf("%4d dwell  %vs\n", v.Line, v.Seconds)
	case *canon.SetSpindleSpeed:
		fmt.Printf("%4d speed  S%v\n", v.Line, v.Speed)
	case *canon.SpindleControl:
		fmt.Printf("%4d spindle %s\n", v.Line, v.State)
	case *canon.ToolChange:
		fmt.Printf("%4d tool   T%d\n", v.Line, v.Tool)
	case *canon.CoolantControl:
		fmt.Printf("%4d coolant %s on=%t\n", v.Line, v.Type, v.On)
	case *canon.ProgramEnd:
		fmt.Printf("%4d end\n", v.Line)
	}
}
