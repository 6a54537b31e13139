// Package repl implements the Read-Eval-Print Loop for the aslc code
// generator.
//
// The REPL lets a user type a small source-language program, compile it
// through the same lex -> parse -> semantic analysis -> codegen pipeline
// main.go drives, and see its generated three-address code immediately.
// It uses the Charm libraries (Bubbletea, Bubbles, and Lipgloss) to build
// an interactive terminal interface with syntax highlighting and command
// history, the same shape as the teacher's Monkey REPL, retargeted from
// "evaluate an expression" to "compile a program and show its TAC".
//
// Key features:
//   - Interactive command input and execution
//   - Command history tracking
//   - Styled output with different colors for results and errors
//   - Multiline input for a program that spans several lines
//
// The main entry point is Start, which initializes and runs the REPL
// with the given username.
package repl

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dr8co/aslc/codegen"
	"github.com/dr8co/aslc/lexer"
	"github.com/dr8co/aslc/parser"
	"github.com/dr8co/aslc/semantics"
	"github.com/dr8co/aslc/tacfmt"
	"github.com/dr8co/aslc/token"
	"github.com/dr8co/aslc/typesys"
)

const (
	// Prompt is the default prompt for the REPL.
	Prompt = ">> "

	// ContPrompt is the continuation prompt used in multiline input mode.
	ContPrompt = ".. "
)

// Options contains configuration options for the REPL.
type Options struct {
	NoColor bool // Disable syntax highlighting and colored output
	Debug   bool // Enable debug mode with more verbose output
}

// Start initializes and runs the REPL with the given username and options.
func Start(username string, options Options) {
	p := tea.NewProgram(initialModel(username, options))
	if _, err := p.Run(); err != nil {
		fmt.Println("Error running program:", err)
	}
}

// Styling
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7D56F4")).
			Bold(true)

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F87"))

	parseErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F87")).
			Bold(true)

	semanticErrorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FF8700")).
				Bold(true)

	errorTipStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFAF00"))

	historyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#767676"))

	keywordStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF79C6")).
			Bold(true)

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8BE9FD"))

	identifierStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8F8F2"))

	literalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F1FA8C"))

	operatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5555"))

	delimiterStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#BD93F9"))

	stringStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#50FA7B"))
)

// ErrorType represents the category of an error produced while compiling
// a REPL entry.
type ErrorType int

const (
	// NoError indicates that no error occurred.
	NoError ErrorType = iota
	// ParseError indicates an error found while parsing the program.
	ParseError
	// SemanticError indicates an error found during semantic analysis.
	// There is no runtime evaluation phase in this REPL, so this is the
	// only other error category a compiled entry can produce.
	SemanticError
)

// evalResultMsg carries a finished compilation back to Update.
type evalResultMsg struct {
	output    string
	isError   bool
	errorType ErrorType
	elapsed   time.Duration
}

// model is the state of the REPL application.
//
// Unlike the teacher's Monkey REPL, there is no persistent env carried
// across entries: every snippet here is a complete, independent program
// (one or more func...endfunc declarations), not an expression evaluated
// against accumulated bindings.
type model struct {
	textInput       textinput.Model
	history         []historyEntry
	username        string
	evaluating      bool
	currentInput    string
	multilineBuffer string
	isMultiline     bool
	spinner         spinner.Model
	options         Options
}

// applyStyle applies a lipgloss style to a string, respecting NoColor.
func (m model) applyStyle(style lipgloss.Style, text string) string {
	if m.options.NoColor {
		return text
	}
	return style.Render(text)
}

// historyEntry represents a single entry in the REPL history.
type historyEntry struct {
	input          string
	output         string
	isError        bool
	errorType      ErrorType
	evaluationTime time.Duration
}

// initialModel creates a new model with default values.
func initialModel(username string, options Options) model {
	ti := textinput.New()
	ti.Placeholder = "func f () begin end endfunc"
	ti.Focus()
	ti.Width = 80
	ti.Prompt = promptStyle.Render(Prompt)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF79C6"))

	return model{
		textInput:   ti,
		history:     []historyEntry{},
		username:    username,
		evaluating:  false,
		isMultiline: false,
		spinner:     s,
		options:     options,
	}
}

// Init is the first function that will be called.
func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// isBalanced reports whether parentheses and brackets are balanced in
// input. The source language has no braces, only ( ) and [ ].
func isBalanced(input string) bool {
	var stack []rune

	for _, char := range input {
		switch char {
		case '(', '[':
			stack = append(stack, char)
		case ')':
			if len(stack) == 0 || stack[len(stack)-1] != '(' {
				return false
			}
			stack = stack[:len(stack)-1]
		case ']':
			if len(stack) == 0 || stack[len(stack)-1] != '[' {
				return false
			}
			stack = stack[:len(stack)-1]
		}
	}

	return len(stack) == 0
}

// compile runs input through the full lex/parse/analyze/generate
// pipeline and renders its TAC, or the first batch of errors found.
func compile(input string) (output string, isError bool, errorType ErrorType) {
	p := parser.New(lexer.New(input))
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) != 0 {
		return formatParseErrors(errs), true, ParseError
	}

	symbols, deco, errs := semantics.Analyze(program)
	if len(errs) != 0 {
		return formatSemanticErrors(errs), true, SemanticError
	}

	out := codegen.New(symbols, typesys.Manager{}, deco).Generate(program)
	return tacfmt.Format(out), false, NoError
}

// evalCmd compiles input asynchronously and reports the result back to
// Update as an evalResultMsg.
func evalCmd(input string, debug bool) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()

		output, isError, errorType := compile(input)
		elapsed := time.Since(start)

		if debug {
			fmt.Printf("DEBUG: compile time: %v\n", elapsed)
			fmt.Printf("DEBUG: error type: %d\n", errorType)
		}

		return evalResultMsg{
			output:    output,
			isError:   isError,
			errorType: errorType,
			elapsed:   elapsed,
		}
	}
}

// formatError renders an error entry, splitting off any "Tips:" section
// into its own style.
func (m model) formatError(style lipgloss.Style, entry *historyEntry, s *strings.Builder) {
	parts := strings.Split(entry.output, "\nTips:")
	if len(parts) > 1 {
		s.WriteString(m.applyStyle(style, parts[0]))
		s.WriteString("\n")
		s.WriteString(m.applyStyle(errorTipStyle, "Tips:"+parts[1]))
	} else {
		s.WriteString(m.applyStyle(style, entry.output))
	}
}

// Update handles all the updates to our model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.evaluating {
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}

	case evalResultMsg:
		m.evaluating = false
		m.history = append(m.history, historyEntry{
			input:          m.currentInput,
			output:         msg.output,
			isError:        msg.isError,
			errorType:      msg.errorType,
			evaluationTime: msg.elapsed,
		})
		m.currentInput = ""
		return m, nil

	case tea.KeyMsg:
		if m.evaluating && msg.Type != tea.KeyCtrlC {
			return m, m.spinner.Tick
		}

		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyCtrlD:
			return m, tea.Quit
		case tea.KeyEnter:
			input := m.textInput.Value()
			if input == "" {
				if m.isMultiline {
					if m.multilineBuffer == "" {
						m.isMultiline = false
						return m, nil
					}

					buffer := m.multilineBuffer
					m.evaluating = true
					m.currentInput = buffer
					m.textInput.SetValue("")
					m.isMultiline = false
					m.multilineBuffer = ""

					return m, evalCmd(buffer, m.options.Debug)
				}
				return m, nil
			}

			if m.isMultiline {
				m.multilineBuffer += "\n" + input
				m.textInput.SetValue("")

				if isBalanced(m.multilineBuffer) {
					buffer := m.multilineBuffer
					m.evaluating = true
					m.currentInput = buffer
					m.isMultiline = false
					m.multilineBuffer = ""

					return m, evalCmd(buffer, m.options.Debug)
				}

				return m, nil
			}

			if !isBalanced(input) {
				m.isMultiline = true
				m.multilineBuffer = input
				m.textInput.SetValue("")
				return m, nil
			}

			m.evaluating = true
			m.currentInput = input
			m.textInput.SetValue("")

			return m, evalCmd(input, m.options.Debug)
		}
	}

	if !m.evaluating {
		m.textInput, cmd = m.textInput.Update(msg)
	}
	if m.evaluating {
		return m, m.spinner.Tick
	}
	return m, cmd
}

// View renders the current UI.
func (m model) View() string {
	var s strings.Builder

	s.WriteString(m.applyStyle(titleStyle, " aslc code generator REPL "))
	s.WriteString("\n")

	if m.username != "" {
		fmt.Fprintf(&s, "\nHello %s! Feel free to type in a program\n", m.username)
	}
	s.WriteString("\n")

	for _, entry := range m.history {
		lines := strings.Split(entry.input, "\n")
		for i, line := range lines {
			if i == 0 {
				s.WriteString(m.applyStyle(promptStyle, Prompt))
			} else {
				s.WriteString(m.applyStyle(promptStyle, ContPrompt))
			}
			s.WriteString(m.highlightCode(line))
			s.WriteString("\n")
		}

		if entry.isError {
			switch entry.errorType {
			case ParseError:
				m.formatError(parseErrorStyle, &entry, &s)
			case SemanticError:
				m.formatError(semanticErrorStyle, &entry, &s)
			default:
				s.WriteString(m.applyStyle(errorStyle, entry.output))
			}
		} else {
			s.WriteString(m.applyStyle(resultStyle, entry.output))
		}

		if entry.evaluationTime > 10*time.Millisecond {
			timeStr := fmt.Sprintf(" (%.2fs)", entry.evaluationTime.Seconds())
			s.WriteString(m.applyStyle(historyStyle, timeStr))
		}

		s.WriteString("\n\n")
	}

	if m.evaluating {
		s.WriteString(m.applyStyle(promptStyle, Prompt))
		s.WriteString(m.highlightCode(m.currentInput))
		s.WriteString("\n")
		s.WriteString(m.spinner.View())
		s.WriteString(" Compiling...")
		s.WriteString("\n\n")
	}

	if m.isMultiline && !m.evaluating {
		s.WriteString(m.applyStyle(historyStyle, "Current multiline input:\n"))
		s.WriteString(m.highlightCode(m.multilineBuffer))
		s.WriteString("\n")
	}

	if !m.evaluating {
		if m.isMultiline {
			m.textInput.Prompt = m.applyStyle(promptStyle, ContPrompt)
		} else {
			m.textInput.Prompt = m.applyStyle(promptStyle, Prompt)
		}
		s.WriteString(m.textInput.View())
		s.WriteString("\n")
	}

	helpText := "\nPress Esc or Ctrl+C/D to exit"
	if m.isMultiline {
		helpText += " | Multiline mode: enter an empty line to compile, or keep typing"
	} else {
		helpText += " | Multiline input is entered automatically for unbalanced ( or ["
	}
	s.WriteString(m.applyStyle(historyStyle, helpText))

	return s.String()
}

// formatParseErrors formats parser errors into a string with tips.
func formatParseErrors(errors []string) string {
	var s strings.Builder
	s.WriteString("Parser Errors:\n")

	for i, msg := range errors {
		fmt.Fprintf(&s, "  %d. %s\n", i+1, msg)
	}

	s.WriteString("\nTips:\n")
	s.WriteString("  • Check for missing parentheses, brackets, or semicolons\n")
	s.WriteString("  • Verify every function ends with endfunc and every block with its matching end/endif/endwhile\n")
	s.WriteString("  • Ensure variable and function names are valid identifiers\n")

	return s.String()
}

// formatSemanticErrors formats semantic-analysis errors into a string
// with tips appropriate to this language's checks (no runtime phase
// exists here, so there is no "runtime error" category).
func formatSemanticErrors(errors []string) string {
	var s strings.Builder
	s.WriteString("Semantic Errors:\n")

	for i, msg := range errors {
		fmt.Fprintf(&s, "  %d. %s\n", i+1, msg)
	}

	s.WriteString("\nTips:\n")

	joined := strings.Join(errors, " ")
	switch {
	case strings.Contains(joined, "undefined") || strings.Contains(joined, "undeclared"):
		s.WriteString("  • Check that the variable or function is declared before use\n")
		s.WriteString("  • Verify the name is spelled correctly and is in scope\n")
	case strings.Contains(joined, "argument"):
		s.WriteString("  • Check the call has the correct number of arguments\n")
		s.WriteString("  • Verify the argument types match the function's parameter types\n")
	case strings.Contains(joined, "array") || strings.Contains(joined, "index"):
		s.WriteString("  • Verify you are indexing an array variable, not a scalar\n")
		s.WriteString("  • Check the index expression has integer type\n")
	case strings.Contains(joined, "return") || strings.Contains(joined, "void"):
		s.WriteString("  • A void function must not return a value\n")
		s.WriteString("  • A non-void function must return a value of its declared type on every path\n")
	default:
		s.WriteString("  • Review declared types against how each variable is used\n")
		s.WriteString("  • Check for mismatched types across assignments and operators\n")
	}

	return s.String()
}

var keywordTypes = map[token.Type]bool{
	token.FUNC: true, token.ENDFUNC: true, token.VARS: true, token.BEGIN: true,
	token.END: true, token.IF: true, token.THEN: true, token.ELSE: true, token.ENDIF: true,
	token.WHILE: true, token.DO: true, token.ENDWHILE: true, token.RETURN: true,
	token.READ: true, token.WRITE: true, token.ARRAY: true, token.OF: true,
	token.AND: true, token.OR: true, token.NOT: true,
}

var typeTypes = map[token.Type]bool{
	token.INT: true, token.FLOAT: true, token.BOOL: true, token.CHAR: true,
}

var operatorTypes = map[token.Type]bool{
	token.ASSIGN: true, token.PLUS: true, token.MINUS: true, token.ASTERISK: true,
	token.SLASH: true, token.PERCENT: true, token.SEQ: true, token.SNEQ: true,
	token.SLE: true, token.SLT: true, token.SGT: true, token.SGE: true,
}

var delimiterTypes = map[token.Type]bool{
	token.COMMA: true, token.COLON: true, token.SEMICOLON: true,
	token.LPAREN: true, token.RPAREN: true, token.LBRACKET: true, token.RBRACKET: true,
}

// noSpaceBefore lists token types that hug the previous token with no
// separating space.
var noSpaceBefore = map[token.Type]bool{
	token.COMMA: true, token.COLON: true, token.SEMICOLON: true,
	token.RPAREN: true, token.RBRACKET: true,
}

// noSpaceAfter lists token types that hug the following token with no
// separating space.
var noSpaceAfter = map[token.Type]bool{
	token.LPAREN: true, token.LBRACKET: true,
}

// highlightCode applies syntax highlighting to one line of source code.
// Unlike the teacher's Monkey highlighter, this language has no braces or
// implicit statement blocks to track indentation for, so spacing between
// tokens is a flat "one space" default with a short list of punctuation
// exceptions rather than a full pretty-printer.
func (m model) highlightCode(code string) string {
	l := lexer.New(code)
	var s strings.Builder

	var tokens []token.Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			break
		}
	}

	for i, tok := range tokens {
		if tok.Type == token.EOF {
			break
		}

		if i > 0 && !noSpaceBefore[tok.Type] && !noSpaceAfter[tokens[i-1].Type] {
			s.WriteString(" ")
		}

		switch {
		case keywordTypes[tok.Type] || tok.Type == token.TRUE || tok.Type == token.FALSE:
			s.WriteString(m.applyStyle(keywordStyle, tok.Literal))
		case typeTypes[tok.Type]:
			s.WriteString(m.applyStyle(typeStyle, tok.Literal))
		case tok.Type == token.IDENT:
			s.WriteString(m.applyStyle(identifierStyle, tok.Literal))
		case tok.Type == token.INTVAL, tok.Type == token.FLOATVAL, tok.Type == token.CHARVAL:
			s.WriteString(m.applyStyle(literalStyle, tok.Literal))
		case tok.Type == token.STRING:
			s.WriteString(m.applyStyle(stringStyle, tok.Literal))
		case operatorTypes[tok.Type]:
			s.WriteString(m.applyStyle(operatorStyle, tok.Literal))
		case delimiterTypes[tok.Type]:
			s.WriteString(m.applyStyle(delimiterStyle, tok.Literal))
		default:
			s.WriteString(tok.Literal)
		}
	}

	return s.String()
}
