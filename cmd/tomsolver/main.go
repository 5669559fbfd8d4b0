// cmd/tomsolver/main.go is a thin front-end over the internal packages: it
// only parses flags/args and calls parser/diff/simplify/nonlinear/store, the
// same "commands dispatch to a library" shape as sentra/cmd/sentra/main.go.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"

	"tomsolver/internal/config"
	"tomsolver/internal/diff"
	"tomsolver/internal/eval"
	"tomsolver/internal/exprtree"
	"tomsolver/internal/nonlinear"
	"tomsolver/internal/parser"
	"tomsolver/internal/printer"
	"tomsolver/internal/simplify"
	"tomsolver/internal/store"
	"tomsolver/internal/symmat"
	"tomsolver/internal/varstable"
)

const version = "0.1.0"

// commandAliases mirrors sentra's single-letter alias table.
var commandAliases = map[string]string{
	"p": "parse",
	"d": "diff",
	"s": "simplify",
	"e": "eval",
	"v": "solve",
}

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		showUsage()
		return
	}

	cmd := args[0]
	if alias, ok := commandAliases[cmd]; ok {
		cmd = alias
	}

	switch cmd {
	case "--help", "-h", "help":
		if len(args) > 1 {
			showCommandHelp(args[1])
		} else {
			showUsage()
		}
	case "--version", "-v", "version":
		fmt.Printf("tomsolver %s\n", version)
	case "parse":
		runParse(args[1:])
	case "diff":
		runDiff(args[1:])
	case "simplify":
		runSimplify(args[1:])
	case "eval":
		runEval(args[1:])
	case "solve":
		runSolve(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n", cmd)
		showUsage()
		os.Exit(1)
	}
}

// readExprArg reads an expression from args[0], or from stdin if no
// argument was given (so the CLI composes with pipes).
func readExprArg(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading expression from stdin: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// useColor gates ANSI highlighting of the error caret to real terminals,
// mirroring sentra's own terminal-width/TTY checks before emitting color.
func useColor() bool {
	return isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
}

func printParseError(err error) {
	if useColor() {
		fmt.Fprintf(os.Stderr, "\x1b[31m%s\x1b[0m\n", err.Error())
		return
	}
	fmt.Fprintln(os.Stderr, err.Error())
}

func runParse(args []string) {
	src, err := readExprArg(args)
	if err != nil {
		log.Fatal(err)
	}
	n, err := parser.Parse(src)
	if err != nil {
		printParseError(err)
		os.Exit(1)
	}
	cfg := config.Default()
	fmt.Println(printer.String(n, cfg))
}

func runDiff(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: tomsolver diff <expr> [var] [order]")
		os.Exit(1)
	}
	src := args[0]
	varname := "x"
	order := 1
	if len(args) > 1 {
		varname = args[1]
	}
	if len(args) > 2 {
		if _, err := fmt.Sscanf(args[2], "%d", &order); err != nil {
			log.Fatalf("invalid order %q: %v", args[2], err)
		}
	}

	n, err := parser.Parse(src)
	if err != nil {
		printParseError(err)
		os.Exit(1)
	}

	cfg := config.Default()
	d, err := diff.Diff(n, varname, order, cfg)
	if err != nil {
		log.Fatalf("diff: %v", err)
	}
	fmt.Println(printer.String(d, cfg))
}

func runSimplify(args []string) {
	src, err := readExprArg(args)
	if err != nil {
		log.Fatal(err)
	}
	n, err := parser.Parse(src)
	if err != nil {
		printParseError(err)
		os.Exit(1)
	}
	cfg := config.Default()
	s, err := simplify.Simplify(n, cfg)
	if err != nil {
		log.Fatalf("simplify: %v", err)
	}
	fmt.Println(printer.String(s, cfg))
}

// parseAssignments turns "x=1,y=2" into eval.Values.
func parseAssignments(s string) (eval.Values, error) {
	values := eval.Values{}
	if strings.TrimSpace(s) == "" {
		return values, nil
	}
	for _, pair := range strings.Split(s, ",") {
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) != 2 {
			return nil, fmt.Errorf("invalid assignment %q, want name=value", pair)
		}
		name := strings.TrimSpace(kv[0])
		var v float64
		if _, err := fmt.Sscanf(strings.TrimSpace(kv[1]), "%g", &v); err != nil {
			return nil, fmt.Errorf("invalid value in %q: %w", pair, err)
		}
		values[name] = v
	}
	return values, nil
}

func runEval(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: tomsolver eval <expr> [name=value,...]")
		os.Exit(1)
	}
	n, err := parser.Parse(args[0])
	if err != nil {
		printParseError(err)
		os.Exit(1)
	}
	values := eval.Values{}
	if len(args) > 1 {
		values, err = parseAssignments(args[1])
		if err != nil {
			log.Fatal(err)
		}
	}
	cfg := config.Default()
	v, err := eval.Eval(n, values, cfg)
	if err != nil {
		log.Fatalf("eval: %v", err)
	}
	fmt.Println(config.ToString(v))
}

// runSolve reads one equation per line from a file (or stdin when the
// filename is "-"), builds a SymVec and calls nonlinear.Solve, then prints
// the resulting variable table. --store <dsn> records the run via store.
func runSolve(args []string) {
	var filename, initial, dbDSN, dbType string
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--store":
			i++
			if i < len(args) {
				dbDSN = args[i]
			}
		case "--db-type":
			i++
			if i < len(args) {
				dbType = args[i]
			}
		case "--initial":
			i++
			if i < len(args) {
				initial = args[i]
			}
		default:
			if filename == "" {
				filename = args[i]
			}
		}
	}
	if filename == "" {
		fmt.Fprintln(os.Stderr, "Usage: tomsolver solve <file|-> [--initial name=value,...] [--store dsn] [--db-type sqlite|postgres|mysql|sqlserver]")
		os.Exit(1)
	}

	lines, err := readLines(filename)
	if err != nil {
		log.Fatal(err)
	}

	var nodes []*exprtree.Node
	var equationTexts []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		n, err := parser.Parse(line)
		if err != nil {
			printParseError(err)
			os.Exit(1)
		}
		nodes = append(nodes, n)
		equationTexts = append(equationTexts, line)
	}
	if len(nodes) == 0 {
		log.Fatal("no equations found")
	}

	eqs := symmat.VecFromSlice(nodes)
	cfg := config.Default()

	initialValues, err := parseAssignments(initial)
	if err != nil {
		log.Fatal(err)
	}

	names := eqs.GetAllVarNames()
	table, err := buildTable(names, initialValues, cfg)
	if err != nil {
		log.Fatal(err)
	}

	start := time.Now()
	solved, solveErr := nonlinear.Solve(eqs, table, cfg)
	duration := time.Since(start)

	var finalValues string
	iterations := 0 // nonlinear.Solve doesn't expose its iteration count
	if solveErr == nil {
		finalValues = solved.String()
	}

	if dbDSN != "" {
		s, err := store.Open(context.Background(), dbType, dbDSN)
		if err != nil {
			log.Printf("store: %v", err)
		} else {
			defer s.Close()
			run := store.Run{
				EquationText:  strings.Join(equationTexts, "; "),
				VarNames:      strings.Join(names, ","),
				InitialValues: table.String(),
				FinalValues:   finalValues,
				Method:        cfg.NonlinearMethod,
				Iterations:    iterations,
				Duration:      duration,
				Err:           solveErr,
			}
			id, err := s.Record(context.Background(), run)
			if err != nil {
				log.Printf("store: %v", err)
			} else {
				fmt.Fprintln(os.Stderr, store.Summary(run)+" run_id="+id)
			}
		}
	}

	if solveErr != nil {
		log.Fatalf("solve: %v", solveErr)
	}
	fmt.Println(solved.String())
}

// buildTable starts every inferred variable at cfg.InitialValue, then
// overrides whichever ones initialValues names explicitly.
func buildTable(names []string, initialValues eval.Values, cfg config.Config) (*varstable.Table, error) {
	table, err := varstable.New(names, cfg.InitialValue)
	if err != nil {
		return nil, err
	}
	for name, v := range initialValues {
		if err := table.Set(name, v); err != nil {
			return nil, fmt.Errorf("--initial: %w", err)
		}
	}
	return table, nil
}

func readLines(filename string) ([]string, error) {
	var r io.Reader
	if filename == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(filename)
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", filename, err)
		}
		defer f.Close()
		r = f
	}
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", filename, err)
	}
	return lines, nil
}

func showUsage() {
	fmt.Println("tomsolver - symbolic expression and nonlinear equation toolkit")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  tomsolver parse <expr>                 Parse and print an expression       (alias: p)")
	fmt.Println("  tomsolver diff <expr> [var] [order]     Differentiate an expression         (alias: d)")
	fmt.Println("  tomsolver simplify <expr>               Simplify an expression               (alias: s)")
	fmt.Println("  tomsolver eval <expr> [name=value,...]   Evaluate an expression numerically   (alias: e)")
	fmt.Println("  tomsolver solve <file|-> [opts]          Solve a system of equations          (alias: v)")
	fmt.Println()
	fmt.Println("Help:")
	fmt.Println("  tomsolver help <command>                Show detailed help for a command")
	fmt.Println("  tomsolver --version                     Show version")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  tomsolver parse \"x^2+2*x+1\"")
	fmt.Println("  tomsolver diff \"sin(x)*x^2\" x")
	fmt.Println("  tomsolver eval \"x+y\" \"x=1,y=2\"")
	fmt.Println("  tomsolver solve equations.txt --initial x=1,y=1 --store runs.db")
}

func showCommandHelp(cmd string) {
	if alias, ok := commandAliases[cmd]; ok {
		cmd = alias
	}
	help := map[string]string{
		"parse": `tomsolver parse - parse and print an expression

USAGE:
  tomsolver parse <expr>

Reads expr from the argument, or from stdin if omitted, and prints it
back out after parsing (so parenthesization/precedence round-trips).`,
		"diff": `tomsolver diff - differentiate an expression

USAGE:
  tomsolver diff <expr> [var] [order]

var defaults to "x", order defaults to 1.`,
		"simplify": `tomsolver simplify - simplify an expression

USAGE:
  tomsolver simplify <expr>`,
		"eval": `tomsolver eval - evaluate an expression numerically

USAGE:
  tomsolver eval <expr> [name=value,...]`,
		"solve": `tomsolver solve - solve a system of nonlinear equations

USAGE:
  tomsolver solve <file|-> [--initial name=value,...] [--store dsn] [--db-type TYPE]

Reads one equation per line (blank lines and lines starting with # are
skipped) from file, or from stdin when file is "-". --store records the
run to a solve_runs table via internal/store; --db-type selects the
driver (sqlite, postgres, mysql, sqlserver; default sqlite).`,
	}
	if text, ok := help[cmd]; ok {
		fmt.Println(text)
		return
	}
	fmt.Printf("No detailed help available for %q\n", cmd)
}
