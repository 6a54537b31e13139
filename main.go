// aslc compiles source-language programs down to three-address code and
// prints the result.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/user"
	"path/filepath"

	"github.com/mattn/go-isatty"

	"github.com/dr8co/aslc/codegen"
	"github.com/dr8co/aslc/lexer"
	"github.com/dr8co/aslc/parser"
	"github.com/dr8co/aslc/repl"
	"github.com/dr8co/aslc/semantics"
	"github.com/dr8co/aslc/tacfmt"
	"github.com/dr8co/aslc/typesys"
)

const version = "0.1.0"

// printUsage displays custom usage information
func printUsage() {
	_, _ = fmt.Fprintf(os.Stderr, `aslc code generator v%s

USAGE:
    %s [OPTIONS]

DESCRIPTION:
    aslc compiles a small statically-typed imperative language down to
    three-address code and prints the result.
    Without any flags, it starts an interactive REPL (Read-Eval-Print-Loop).

OPTIONS:
    -f, --file <path>       Compile a source file and print its TAC
    -e, --eval <code>       Compile a source snippet and print its TAC
    -d, --debug             Enable debug mode with more verbose output
    -v, --version           Show version information
    -h, --help              Show this help message

EXAMPLES:
    # Start interactive REPL
    %s

    # Compile a script file
    %s -f program.asl
    %s --file program.asl

    # Compile a snippet
    %s -e "func f () begin end endfunc"

    # Compile with debug mode
    %s -f program.asl -d

`, version, os.Args[0], os.Args[0], os.Args[0], os.Args[0], os.Args[0], os.Args[0])
}

func main() {
	flag.Usage = printUsage

	fileFlag := flag.String("file", "", "Compile a source file and print its TAC")
	evalFlag := flag.String("eval", "", "Compile a source snippet and print its TAC")
	debugFlag := flag.Bool("debug", false, "Enable debug mode with more verbose output")
	versionFlag := flag.Bool("version", false, "Show version information")

	flag.StringVar(fileFlag, "f", "", "Compile a source file and print its TAC")
	flag.StringVar(evalFlag, "e", "", "Compile a source snippet and print its TAC")
	flag.BoolVar(debugFlag, "d", false, "Enable debug mode with more verbose output")
	flag.BoolVar(versionFlag, "v", false, "Show version information")

	flag.Parse()

	if *versionFlag {
		fmt.Printf("aslc code generator v%s\n", version)
		return
	}

	if *fileFlag != "" {
		compileFile(*fileFlag, *debugFlag)
		return
	}

	if *evalFlag != "" {
		compileSnippet(*evalFlag, *debugFlag)
		return
	}

	username := "unknown"
	if usr, err := user.Current(); err == nil {
		username = usr.Username
	}

	fmt.Println("Hello", username+",", "welcome to the aslc code generator!")
	fmt.Println("Feel free to type in source code. (Ctrl+D or Ctrl+C to exit)")

	noColor := !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd())
	repl.Start(username, repl.Options{NoColor: noColor, Debug: *debugFlag})
}

// compileFile reads filename, compiles it, and prints its TAC.
func compileFile(filename string, debug bool) {
	cleaned := filepath.Clean(filename)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		fmt.Printf("Error getting absolute path: %s\n", err)
		os.Exit(1)
	}
	if debug {
		fmt.Printf("Compiling file: %s\n", absolute)
	}

	//nolint:gosec // the path comes from a flag the operator controls, not untrusted input
	content, err := os.ReadFile(absolute)
	if err != nil {
		fmt.Printf("Error reading file: %s\n", err)
		os.Exit(1)
	}
	compileAndPrint(string(content))
}

// compileSnippet compiles src directly and prints its TAC.
func compileSnippet(src string, _ bool) {
	compileAndPrint(src)
}

func compileAndPrint(src string) {
	l := lexer.New(src)
	p := parser.New(l)
	program := p.ParseProgram()
	if len(p.Errors()) != 0 {
		printParserErrors(p.Errors())
		os.Exit(1)
	}

	symbols, deco, errs := semantics.Analyze(program)
	if len(errs) != 0 {
		printSemanticErrors(errs)
		os.Exit(1)
	}

	out := codegen.New(symbols, typesys.Manager{}, deco).Generate(program)
	fmt.Print(tacfmt.Format(out))
}

func printParserErrors(errors []string) {
	_, _ = fmt.Fprintln(os.Stderr, "Parser errors:")
	for _, msg := range errors {
		_, _ = fmt.Fprintln(os.Stderr, "\t"+msg)
	}
}

func printSemanticErrors(errors []string) {
	_, _ = fmt.Fprintln(os.Stderr, "Semantic errors:")
	for _, msg := range errors {
		_, _ = fmt.Fprintln(os.Stderr, "\t"+msg)
	}
}
