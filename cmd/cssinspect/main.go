// Command cssinspect is a small CLI front end over this module's
// tokenizer, selector parser, math-function simplifier, and color parser.
// It exists for manual inspection and scripting, not as a replacement for
// the package-level Go APIs those packages expose.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cssdialect/cssengine/csscalc"
	"github.com/cssdialect/cssengine/csscolor"
	"github.com/cssdialect/cssengine/cssparse"
	"github.com/cssdialect/cssengine/csslex"
	"github.com/cssdialect/cssengine/cssselector"
	"github.com/cssdialect/cssengine/cssvalue"
	"github.com/cssdialect/cssengine/source"
)

const version = "0.1.0"

var helpText = `
Usage:
  cssinspect [subcommand] [options]

Subcommands:
  tokenize   Print the token stream for a chunk of CSS
  select     Parse a selector list and print its compounds/specificity
  calc       Parse and constant-fold a calc()/min()/max()/etc. expression
  color      Parse a <color> value and print its resolved sRGB channels
  value      Classify a <length>/<angle>/<time>/<ratio>/image-function value

Options:
  --text=...   Input text (if omitted, input is read from stdin)
  -h, --help   Print this help text
  --version    Print the version number

Examples:
  cssinspect tokenize --text="a.foo { color: red }"
  cssinspect select --text="div.foo:is(#a, #b)"
  cssinspect calc --text="calc(1px + 2em)"
  cssinspect color --text="oklch(0.7 0.1 180)"
  cssinspect value --text="16 / 9"
`

func main() {
	args := os.Args[1:]

	for _, arg := range args {
		switch arg {
		case "-h", "-help", "--help":
			fmt.Fprint(os.Stdout, helpText)
			os.Exit(0)
		case "--version":
			fmt.Fprintln(os.Stdout, version)
			os.Exit(0)
		}
	}

	if len(args) == 0 {
		fmt.Fprint(os.Stderr, helpText)
		os.Exit(1)
	}

	subcommand := args[0]
	text, err := inputText(args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "cssinspect:", err)
		os.Exit(1)
	}

	var runErr error
	switch subcommand {
	case "tokenize":
		runErr = runTokenize(text)
	case "select":
		runErr = runSelect(text)
	case "calc":
		runErr = runCalc(text)
	case "color":
		runErr = runColor(text)
	case "value":
		runErr = runValue(text)
	default:
		fmt.Fprintf(os.Stderr, "cssinspect: unknown subcommand %q\n\n%s", subcommand, helpText)
		os.Exit(1)
	}

	if runErr != nil {
		fmt.Fprintln(os.Stderr, "cssinspect:", runErr)
		os.Exit(1)
	}
}

// inputText extracts --text=... from rest, or reads all of stdin if the
// flag wasn't given.
func inputText(rest []string) (string, error) {
	for _, arg := range rest {
		if strings.HasPrefix(arg, "--text=") {
			return strings.TrimPrefix(arg, "--text="), nil
		}
	}
	bytes, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return string(bytes), nil
}

func newCursor(text string) (*cssparse.Cursor, source.Log) {
	log := source.NewLog()
	cur := cssparse.NewCursor(log, &source.Source{Contents: text})
	return cur, log
}

func printDiagnostics(log source.Log) {
	for _, msg := range log.Done() {
		fmt.Fprintln(os.Stderr, msg.String())
	}
}

func runTokenize(text string) error {
	log := source.NewLog()
	src := &source.Source{Contents: text}
	tok := csslex.NewTokenizer(log, src)
	for {
		t := tok.NextIncludingWhitespaceAndComments()
		fmt.Printf("%-18s %q\n", t.Kind, t.CSSText(src))
		if t.Kind == csslex.TEOF {
			break
		}
	}
	printDiagnostics(log)
	return nil
}

func runSelect(text string) error {
	cur, log := newCursor(text)
	list, err := cssselector.ParseSelectorList(cur)
	printDiagnostics(log)
	if err != nil {
		return err
	}
	for i, complex := range list.Selectors {
		spec := complex.Specificity()
		fmt.Printf("selector %d: specificity(ids=%d classes=%d elements=%d)\n", i, spec.IDs, spec.Classes, spec.Elements)
		for j, compound := range complex.Compounds {
			if j > 0 {
				fmt.Printf("  combinator: %s\n", complex.Combinators[j-1])
			}
			var names []string
			for _, s := range compound.Simples {
				names = append(names, fmt.Sprintf("%s:%s", s.Kind, s.Name))
			}
			fmt.Printf("  compound: %s\n", strings.Join(names, " "))
		}
	}
	return nil
}

func runCalc(text string) error {
	cur, log := newCursor(text)
	expr, err := csscalc.ParseMathFunction(cur)
	printDiagnostics(log)
	if err != nil {
		return err
	}
	simplified := csscalc.Simplify(expr)
	fmt.Println(describeExpr(simplified))
	return nil
}

func describeExpr(e *csscalc.Expr[float64]) string {
	if e.Kind == csscalc.NodeValue {
		if e.Value.Unit == "" {
			return fmt.Sprintf("%g", e.Value.Num)
		}
		return fmt.Sprintf("%g%s", e.Value.Num, e.Value.Unit)
	}
	return fmt.Sprintf("<unresolved expression, kind=%v>", e.Kind)
}

func runColor(text string) error {
	cur, log := newCursor(text)
	col, err := csscolor.Parse(cur)
	printDiagnostics(log)
	if err != nil {
		return err
	}
	r, g, b, a := col.RGBA()
	fmt.Printf("rgba(%.0f, %.0f, %.0f, %.4g)\n", r*255, g*255, b*255, a)
	if col.HasNone() {
		fmt.Println("(at least one channel is \"none\")")
	}
	return nil
}

// runValue classifies a single dimension, percentage, ratio, or
// image/gradient function name, exercising the cssvalue package's
// "value grammar glue" recognizers end to end.
func runValue(text string) error {
	cur, log := newCursor(text)
	tok := cur.Current()

	switch tok.Kind {
	case csslex.TDimension:
		d, _ := cssvalue.ParseDimension(tok)
		fmt.Printf("dimension %g%s, kind=%v", d.Value, d.Unit, d.Kind)
		if px, ok := d.ToCanonical(); ok {
			fmt.Printf(", canonical=%g\n", px)
		} else {
			fmt.Println(", no context-free canonical value (relative unit)")
		}
	case csslex.TPercentage:
		pct, _ := cssvalue.Percentage(tok)
		fmt.Printf("percentage %g%%\n", pct)
	case csslex.TNumber:
		if r, ok := cssvalue.ParseRatio(cur); ok {
			fmt.Printf("ratio %g/%g (%g)\n", r.Numerator, r.Denominator, r.Float())
		} else {
			fmt.Printf("number %g\n", tok.Numeric.Value)
		}
	case csslex.TFunction:
		name := tok.Text()
		if kind, repeating, ok := cssvalue.LooksLikeGradientFunction(name); ok {
			fmt.Printf("gradient function %q, kind=%v, repeating=%v\n", name, kind, repeating)
		} else if cssvalue.LooksLikeImageFunction(name) {
			fmt.Printf("image function %q\n", name)
		} else {
			fmt.Printf("unrecognized function %q\n", name)
		}
	default:
		fmt.Printf("unrecognized value (token kind %v)\n", tok.Kind)
	}
	printDiagnostics(log)
	return nil
}
