// Command xmldiff compares the text content of two XML documents and
// inserts change-marker elements into both, printing the annotated
// documents wrapped in a <documents> element.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/FocuswithJustin/xmldiff/core/xml"
	"github.com/FocuswithJustin/xmldiff/core/xmldiff"
	"github.com/FocuswithJustin/xmldiff/internal/logging"
)

const version = "0.1.0"

// CLI defines the command-line interface for xmldiff.
var CLI struct {
	// Global flags
	LogLevel string `name:"log-level" help:"Log level" enum:"debug,info,warn,error" default:"info"`

	Compare CompareCmd `cmd:"" default:"withargs" help:"Compare two XML documents and print both with change annotations"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// CompareCmd reconciles two documents and prints the result.
type CompareCmd struct {
	Before string `arg:"" help:"Path to the earlier document" type:"existingfile"`
	After  string `arg:"" help:"Path to the later document" type:"existingfile"`

	Tags       string `help:"Comma-separated removed,added tag names" default:"del,ins"`
	Merge      bool   `help:"Copy each side's changed content into the other document at the mirrored position"`
	Select     string `help:"XPath of the subtree to compare instead of the document element" optional:""`
	NoCoalesce bool   `name:"no-coalesce" help:"Disable semantic coalescing of the diff"`
	Unicode    bool   `help:"Segment words per UAX #29 instead of the separator pattern"`
	Summary    bool   `help:"Print a textual change summary instead of the annotated documents"`
	Color      string `help:"Colorize the summary" enum:"auto,always,never" default:"auto"`
}

func (c *CompareCmd) Run(logger *slog.Logger) error {
	tags := strings.SplitN(c.Tags, ",", 2)
	if len(tags) != 2 || tags[0] == "" || tags[1] == "" {
		return fmt.Errorf("--tags wants two comma-separated names, got %q", c.Tags)
	}

	before, err := loadDocument(c.Before, c.Select)
	if err != nil {
		return err
	}
	after, err := loadDocument(c.After, c.Select)
	if err != nil {
		return err
	}

	opts := &xmldiff.Options{
		Tags:         [2]string{tags[0], tags[1]},
		Merge:        c.Merge,
		NoCoalesce:   c.NoCoalesce,
		UnicodeWords: c.Unicode,
		Logger:       logger,
	}

	if c.Summary {
		changes, err := xmldiff.Changes(before.Tree(), after.Tree(), opts)
		if err != nil {
			return err
		}
		printSummary(changes, c.Color)
		return nil
	}

	if err := xmldiff.Compare(before.Tree(), after.Tree(), opts); err != nil {
		return err
	}

	fmt.Println("<documents>")
	fmt.Println(string(xml.Serialize(before.Tree())))
	fmt.Println(string(xml.Serialize(after.Tree())))
	fmt.Println("</documents>")
	return nil
}

func loadDocument(path, selectExpr string) (*xml.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	doc, err := xml.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if selectExpr != "" {
		doc, err = doc.Select(selectExpr)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	return doc, nil
}

// printSummary renders the simplified diff for a terminal: deletions red,
// insertions green, context plain.
func printSummary(changes []xmldiff.Change, mode string) {
	switch mode {
	case "always":
		color.NoColor = false
	case "never":
		color.NoColor = true
	default:
		color.NoColor = !isatty.IsTerminal(os.Stdout.Fd())
	}

	del := color.New(color.FgRed)
	ins := color.New(color.FgGreen)
	for _, ch := range changes {
		switch ch.Op {
		case xmldiff.OpDelete:
			del.Printf("[-%s]", ch.Text)
		case xmldiff.OpInsert:
			ins.Printf("{+%s}", ch.Text)
		default:
			fmt.Print(ch.Text)
		}
	}
	fmt.Println()
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run(*slog.Logger) error {
	fmt.Printf("xmldiff %s\n", version)
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("xmldiff"),
		kong.Description("Compare the text of two XML documents and mark changes in both."),
		kong.UsageOnError(),
	)
	logger := logging.InitLogger(logging.ParseLevel(CLI.LogLevel), logging.FormatText)
	err := ctx.Run(logger)
	ctx.FatalIfErrorf(err)
}
