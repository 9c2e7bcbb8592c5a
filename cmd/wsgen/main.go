// Command wsgen writes a grade 3 math worksheet from the template generators
// without a server, database or AI provider.
//
//	wsgen -standards 3.NBT.A.1=4,3.OA.A.1=2 -seed 7 -o place-value.xlsx
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/p-n-ai/worksheet-gen/internal/export"
	"github.com/p-n-ai/worksheet-gen/internal/generator"
	"github.com/p-n-ai/worksheet-gen/internal/worksheet"
)

const (
	defaultTitle        = "Grade 3 Math Practice"
	defaultInstructions = "Answer the questions below. Show your work."
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "wsgen: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("wsgen", flag.ContinueOnError)
	standards := fs.String("standards", "", "comma separated STANDARD=COUNT pairs, in worksheet order")
	title := fs.String("title", defaultTitle, "worksheet title")
	instructions := fs.String("instructions", defaultInstructions, "worksheet instructions")
	mode := fs.String("mode", "", "question format: mixed, multiple-choice or open-ended")
	names := fs.String("names", "", "comma separated names for word problems")
	seed := fs.Uint64("seed", 0, "random seed; 0 seeds from the clock")
	format := fs.String("format", "", "json, csv or xlsx (default from -o, else json)")
	output := fs.String("o", "", "output file (default stdout)")
	list := fs.Bool("list", false, "list the supported standards and exit")

	subs := map[string][]string{}
	fs.Func("sub", "restrict a standard to subcategories, STANDARD=Sub1|Sub2 (repeatable)", func(v string) error {
		std, rest, ok := strings.Cut(v, "=")
		if !ok || std == "" || rest == "" {
			return fmt.Errorf("want STANDARD=Sub1|Sub2, got %q", v)
		}
		subs[std] = append(subs[std], strings.Split(rest, "|")...)
		return nil
	})

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *list {
		for _, s := range generator.Standards() {
			fmt.Fprintln(stdout, s)
		}
		return nil
	}

	counts, err := parseCounts(*standards)
	if err != nil {
		return err
	}
	m, err := generator.ParseMode(*mode)
	if err != nil {
		return err
	}
	ext, err := outputFormat(*format, *output)
	if err != nil {
		return err
	}

	g := generator.New(generator.Options{Seed: *seed})
	w, err := g.Assemble(generator.AssembleRequest{
		Title:         *title,
		Instructions:  *instructions,
		Standards:     counts,
		Mode:          m,
		Names:         splitList(*names),
		Subcategories: subs,
	})
	if err != nil {
		return err
	}

	if *output == "" {
		return write(stdout, ext, w)
	}
	f, err := os.Create(*output)
	if err != nil {
		return err
	}
	if err := write(f, ext, w); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// parseCounts reads "3.NBT.A.1=3,3.OA.A.1=2". A bare standard counts once.
func parseCounts(s string) ([]generator.StandardCount, error) {
	var out []generator.StandardCount
	for _, part := range splitList(s) {
		std, n, found := strings.Cut(part, "=")
		count := 1
		if found {
			c, err := strconv.Atoi(strings.TrimSpace(n))
			if err != nil || c < 0 {
				return nil, fmt.Errorf("bad count in %q", part)
			}
			count = c
		}
		out = append(out, generator.StandardCount{Standard: strings.TrimSpace(std), Count: count})
	}
	if len(out) == 0 {
		return nil, errors.New("-standards is required (see -list)")
	}
	return out, nil
}

func outputFormat(format, output string) (string, error) {
	if format == "" {
		format = strings.TrimPrefix(filepath.Ext(output), ".")
	}
	switch format {
	case "", "json":
		return "json", nil
	case "csv", "xlsx":
		return format, nil
	}
	return "", fmt.Errorf("unknown format %q", format)
}

func write(out io.Writer, format string, w worksheet.Worksheet) error {
	switch format {
	case "csv":
		return export.CSV(out, w)
	case "xlsx":
		return export.XLSX(out, w)
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(w)
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
