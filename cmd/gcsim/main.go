package main

import (
	"flag"
	"log"
	"net/http"

	"github.com/maro7tigre/gcode-interpreter/dialect"
)

func main() {
	log.SetFlags(log.Lshortfile)

	addr := flag.String("addr", ":9092", "Address to bind the simulator server to.")
	dir := flag.String("dir", "./ui", "Static UI directory to serve.")
	dialectName := flag.String("dialect", "linuxcnc", "G-code dialect to interpret (linuxcnc or num).")
	maxSteps := flag.Int("max-steps", 0, "Maximum executed blocks per run (0 = default).")
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

	api := newAPI(table, *maxSteps, *dir)

	err := http.ListenAndServe(*addr, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "*")
		log.Printf("%s %s - %s", req.Method, req.URL.Path, req.RemoteAddr)
		api.ServeHTTP(w, req)
	}))
	if err != nil {
		log.Fatal(err)
	}
}
