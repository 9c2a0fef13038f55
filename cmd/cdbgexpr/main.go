// Command cdbgexpr is a small REPL host over the cdbgexpr evaluator,
// reading a YAML memory/register/symbol image and letting the user type
// expressions against it. It plays the role main.go/run.go's debug-mode
// REPL plays for the teacher's VM: a minimal interactive front end
// exercising the core, not a production debugger integration.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/Rbel12b/CdbgExpr/cdbgexpr"
	"github.com/Rbel12b/CdbgExpr/internal/fixture"
)

var (
	imagePath   = flag.String("image", "", "path to a YAML image file describing memory/registers/symbols")
	traceFlag   = flag.Bool("trace", false, "record a compressed evaluation trace and print it on exit")
	oneShot     = flag.String("eval", "", "evaluate a single expression and exit, instead of starting a REPL")
	allowAssign = flag.Bool("allow-assign", false, "permit assignment expressions to write through to the image")
)

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: cdbgexpr -image <file.yaml> [-eval <expr>] [-trace] [-allow-assign]")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()

	if *imagePath == "" {
		usage()
		os.Exit(2)
	}

	doc, err := os.ReadFile(*imagePath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "cdbgexpr:", err)
		os.Exit(1)
	}

	img, err := fixture.LoadImage(doc)
	if err != nil {
		fmt.Fprintln(os.Stderr, "cdbgexpr:", err)
		os.Exit(1)
	}

	access := fixture.New(img)
	expr := cdbgexpr.New(access)

	if *traceFlag {
		if err := expr.EnableTrace(); err != nil {
			fmt.Fprintln(os.Stderr, "cdbgexpr:", err)
			os.Exit(1)
		}
		defer printTrace(expr)
	}

	if *oneShot != "" {
		runOne(expr, *oneShot)
		return
	}

	runREPL(expr)
}

// runOne evaluates a single expression and prints its value or error,
// mirroring the teacher's non-debug-mode "run straight through" path in
// main.go.
func runOne(expr *cdbgexpr.Expression, src string) {
	text, err := expr.EvalAndFormat(src, *allowAssign)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(text)
}

// runREPL is the interactive loop, mirroring run.go's RunProgramDebugMode
// read-a-line/dispatch-a-command shape: "type" shows the static type,
// "quit"/"exit" end the session, anything else is evaluated as an
// expression.
func runREPL(expr *cdbgexpr.Expression) {
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println("cdbgexpr — type an expression, \"type <expr>\" for its type, \"quit\" to exit")

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			break
		}

		if rest, ok := strings.CutPrefix(line, "type "); ok {
			t, err := expr.TypeOf(rest)
			if err != nil {
				fmt.Println(err)
				continue
			}
			fmt.Println(t)
			continue
		}

		text, err := expr.EvalAndFormat(line, *allowAssign)
		if err != nil {
			fmt.Println(err)
			continue
		}
		fmt.Println(text)
	}
}

func printTrace(expr *cdbgexpr.Expression) {
	data, err := expr.TraceBytes()
	if err != nil || len(data) == 0 {
		return
	}
	decoded, err := cdbgexpr.ReadTrace(data)
	if err != nil {
		return
	}
	fmt.Fprintln(os.Stderr, "--- evaluation trace ---")
	fmt.Fprint(os.Stderr, decoded)
}
