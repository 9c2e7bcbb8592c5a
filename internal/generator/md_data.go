package generator

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/p-n-ai/worksheet-gen/internal/worksheet"
)

type graphTheme struct {
	name  string
	items []string
	icon  string
}

var graphThemes = []graphTheme{
	{"Fruits", []string{"Apples", "Bananas", "Grapes", "Oranges"}, "circle"},
	{"Sports", []string{"Soccer", "Basketball", "Baseball", "Tennis"}, "circle"},
	{"Snacks", []string{"Pretzels", "Popcorn", "Chips", "Cookies"}, "rect"},
	{"Colors", []string{"Blue", "Red", "Green", "Yellow"}, "star"},
	{"Zoo", []string{"Lions", "Bears", "Monkeys", "Zebras"}, "smiley"},
}

// halves renders whole and half values, e.g. 7 or 7 1/2.
func halves(v float64) string {
	if v-math.Floor(v) == 0.5 {
		if w := int(math.Floor(v)); w > 0 {
			return fmt.Sprintf("%d 1/2", w)
		}
		return "1/2"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// valueOptions builds numeric distractors for a possibly fractional value and
// renders every option with format.
func (g *Generator) valueOptions(v float64, format func(float64) string) []string {
	raw := g.Distractors(strconv.FormatFloat(v, 'f', -1, 64), NumberDistractors)
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		f, err := strconv.ParseFloat(r, 64)
		if err != nil {
			continue
		}
		out = append(out, format(f))
	}
	return out
}

var mdGraphVariants = VariantMap{
	"Bar Graphs":    {0, 1, 3, 4, 5},
	"Pictographs":   {0, 1, 3, 4, 5},
	"Tally Graphs":  {2, 3},
	"Word Problems": {1, 2, 4, 5},
}

// genGraphs covers 3.MD.B.3: scaled bar graphs, pictographs and tally charts.
func genGraphs(g *Generator, req Request) (worksheet.Question, error) {
	v, err := g.SelectVariant(variants(0, 7), req.Subcategories, mdGraphVariants)
	if err != nil {
		return worksheet.Question{}, err
	}
	picto := g.chance(0.6) && v != 2 && v != 3
	switch {
	case has(req.Subcategories, "Pictographs") && !has(req.Subcategories, "Bar Graphs"):
		picto = true
	case has(req.Subcategories, "Bar Graphs") && !has(req.Subcategories, "Pictographs"):
		picto = false
	}

	theme, _ := Pick(g, graphThemes)
	labels := slices.Clone(theme.items)
	shuffle(g, labels)
	labels = labels[:3]
	scale := oneOf(g, 1, 2, 5, 10)

	data := make([]worksheet.DataPoint, len(labels))
	for i, label := range labels {
		var val float64
		switch {
		case v == 3:
			val = float64(g.Int(1, 10))
		case v == 2:
			val = float64(g.Int(1, 35))
		case picto && scale > 1:
			val = float64(g.Int(1, 4) * scale)
			if g.chance(0.5) {
				val += float64(scale) / 2
			}
		default:
			val = float64(g.Int(1, 5) * scale)
		}
		data[i] = worksheet.DataPoint{Label: label, Value: val}
	}

	kind := worksheet.VisualBarGraph
	if picto {
		kind = worksheet.VisualPictograph
	}
	graph := worksheet.VisualData{
		Type:       kind,
		GraphTitle: theme.name + " Count",
		XAxisLabel: "Category",
		YAxisLabel: "Count",
		DataPoints: data,
		Scale:      scale,
		Icon:       theme.icon,
	}

	switch v {
	case 0:
		target, _ := Pick(g, data)
		text := fmt.Sprintf("How many %s were counted?", target.Label)
		if picto {
			text = fmt.Sprintf("How many %s are %s? (Key: Each symbol = %d)", strings.ToLower(theme.name), target.Label, scale)
		}
		return withVisual(mc(text, halves(target.Value), g.valueOptions(target.Value, halves)), graph), nil

	case 1:
		a, b := data[0], data[1]
		if a.Value == b.Value {
			return worksheet.Question{}, errDegenerate
		}
		if b.Value > a.Value {
			a, b = b, a
		}
		return withVisual(open(fmt.Sprintf("How many more %s than %s?", a.Label, b.Label), halves(a.Value-b.Value), nil), graph), nil

	case 2:
		target, _ := Pick(g, data)
		q := mc(fmt.Sprintf("This tally chart shows favorite %s. How many voted for %s?", strings.ToLower(theme.name), target.Label),
			halves(target.Value), g.valueOptions(target.Value, halves))
		return withVisual(q, worksheet.VisualData{
			Type: worksheet.VisualTallyChart, GraphTitle: "Favorite " + theme.name, DataPoints: data,
		}), nil

	case 3:
		parts := make([]string, len(data))
		empty := make([]worksheet.DataPoint, len(data))
		for i, d := range data {
			parts[i] = fmt.Sprintf("%s %s", halves(d.Value), d.Label)
			empty[i] = worksheet.DataPoint{Label: d.Label}
		}
		name, chart := "bar graph", worksheet.VisualBarGraph
		if has(req.Subcategories, "Tally Graphs") || g.chance(0.5) {
			name, chart = "tally chart", worksheet.VisualTallyChart
		}
		q := open(fmt.Sprintf("Use the data below to draw a %s.\n\nData: %s", name, strings.Join(parts, ", ")),
			"(Teacher Check: Graph should match data)", nil)
		return withVisual(q, worksheet.VisualData{
			Type: chart, GraphTitle: theme.name + " Count", XAxisLabel: "Category", YAxisLabel: "Count", DataPoints: empty, Scale: 1,
		}), nil

	case 4:
		target, rest := data[0], data[1:]
		others := rest[0].Value + rest[1].Value
		if target.Value == others {
			return worksheet.Question{}, errDegenerate
		}
		ans := others - target.Value
		text := fmt.Sprintf("How many fewer %s are there than %s and %s combined?", target.Label, rest[0].Label, rest[1].Label)
		if target.Value > others {
			ans = target.Value - others
			text = fmt.Sprintf("How many more %s are there than %s and %s combined?", target.Label, rest[0].Label, rest[1].Label)
		}
		return withVisual(mc(text, halves(ans), g.valueOptions(ans, halves)), graph), nil

	case 5:
		sorted := slices.Clone(data)
		slices.SortFunc(sorted, func(a, b worksheet.DataPoint) int {
			switch {
			case a.Value > b.Value:
				return -1
			case a.Value < b.Value:
				return 1
			}
			return 0
		})
		most := g.chance(0.5)
		// ties would make two labels correct
		if most && sorted[0].Value == sorted[1].Value || !most && sorted[1].Value == sorted[2].Value {
			return worksheet.Question{}, errDegenerate
		}
		word, answer := "least", sorted[2].Label
		if most {
			word, answer = "most", sorted[0].Label
		}
		return withVisual(mc(fmt.Sprintf("Which category has the %s votes?", word), answer, g.UniqueOptions(labels...)), graph), nil

	case 6:
		top := oneOf(g, 35, 40, 45, 50)
		return mc(fmt.Sprintf("You are making a bar graph for data that goes up to %d. Which scale would fit best on a standard page?", top),
			"Count by 5s", g.UniqueOptions("Count by 5s", "Count by 1s", "Count by 100s", "Count by 50s")), nil

	default:
		if scale == 1 {
			return worksheet.Question{}, errDegenerate
		}
		target := data[0]
		symbols := halves(target.Value / float64(scale))
		answer := fmt.Sprintf("No, they forgot to multiply by %d.", scale)
		graph.Type = worksheet.VisualPictograph
		q := mc(fmt.Sprintf("A student counted %s symbols for %s and said the total was %s. The key says 1 symbol = %d. Is the student correct?",
			symbols, target.Label, symbols, scale), answer, g.UniqueOptions(
			answer,
			"Yes, they counted correctly.",
			fmt.Sprintf("No, they should have added %d.", scale),
			"Yes, the key doesn't matter.",
		))
		return withVisual(q, graph), nil
	}
}

// quarters renders quarter-inch values, e.g. 3 1/4.
func quarters(v float64) string {
	whole := math.Floor(v)
	part := v - whole
	if part == 0 {
		return strconv.Itoa(int(whole))
	}
	f := "3/4"
	switch part {
	case 0.25:
		f = "1/4"
	case 0.5:
		f = "1/2"
	}
	if whole == 0 {
		return f
	}
	return fmt.Sprintf("%d %s", int(whole), f)
}

var mdLinePlotVariants = VariantMap{
	"Measuring Quarter Inch": {2, 6},
	"Line Plots":             {0, 1, 3, 4, 7},
}

// genLinePlots covers 3.MD.B.4: measuring to the quarter inch and line plots.
func genLinePlots(g *Generator, req Request) (worksheet.Question, error) {
	v, err := g.SelectVariant(variants(0, 7), req.Subcategories, mdLinePlotVariants)
	if err != nil {
		return worksheet.Question{}, err
	}

	switch v {
	case 1:
		base := float64(g.Int(2, 12))
		steps := []float64{base, base + 0.25, base + 0.5, base + 0.75, base + 1}
		points := make([]float64, 10)
		for i := range points {
			points[i], _ = Pick(g, steps)
		}
		slices.Sort(points)
		parts := make([]string, len(points))
		for i, p := range points {
			parts[i] = quarters(p)
		}
		list := strings.Join(parts, ", ")
		q := open(fmt.Sprintf("Use the data below to complete the line plot.\n\n%s", list),
			fmt.Sprintf("(Teacher Check: Line plot should match counts for %s)", list), nil)
		return withVisual(q, worksheet.VisualData{Type: worksheet.VisualLinePlot, Start: fptr(base), End: fptr(base + 1)}), nil

	case 2:
		length := oneOf(g, 1.5, 2, 2.5, 3, 3.25, 3.5, 3.75, 4)
		start := oneOf(g, 0.0, 0, 1, 1.25, 2)
		end := start + length
		answer := quarters(length) + " in"
		q := mc("What is the length of the yellow bar?", answer, g.UniqueOptions(
			answer,
			quarters(end)+" in",
			quarters(length+1)+" in",
			quarters(length-0.5)+" in",
		))
		return withVisual(q, worksheet.VisualData{Type: worksheet.VisualRuler, ObjectStart: fptr(start), ObjectEnd: fptr(end)}), nil

	case 5:
		base := g.Int(1, 6)
		list := fmt.Sprintf("%d, %d 1/4, %d 1/2, %d 3/4, %d", base, base, base, base, base+1)
		return mc(fmt.Sprintf("You are making a line plot for these measurements: %s. How should you label the scale?", list),
			"Mark every 1/4 inch", g.UniqueOptions("Mark every 1/4 inch", "Mark only whole numbers", "Mark every 1/2 inch", "Mark every 1 inch")), nil

	case 6:
		start := g.Int(1, 3)
		end := start + g.Int(2, 4)
		answer := fmt.Sprintf("No, it is %d inches long (%d - %d).", end-start, end, start)
		q := mc(fmt.Sprintf("An object starts at %d inch on the ruler and ends at %d inches. A student says it is %d inches long. Is this correct?",
			start, end, end), answer, g.UniqueOptions(
			answer,
			fmt.Sprintf("Yes, it ends at %d.", end),
			fmt.Sprintf("No, it is %d inches long.", end+start),
			"Yes, the start doesn't matter.",
		))
		return withVisual(q, worksheet.VisualData{
			Type: worksheet.VisualRuler, ObjectStart: fptr(float64(start)), ObjectEnd: fptr(float64(end)),
		}), nil

	case 7:
		w := g.Int(2, 8)
		answer := "There is no place to put the 1/2 measurements."
		return mc(fmt.Sprintf("A student made a line plot for lengths like %d 1/2 and %d 1/2, but only marked whole numbers (%d, %d, %d) on the line. What is the problem?",
			w, w+1, w, w+1, w+2), answer, g.UniqueOptions(
			answer, "Line plots can't have fractions.", "They should have used a bar graph.", "Nothing is wrong.",
		)), nil
	}

	// The remaining variants read a plotted data set with at most four marks
	// per value.
	base := float64(g.Int(3, 10))
	steps := []float64{base, base + 0.25, base + 0.5, base + 0.75, base + 1}
	counts := make(map[float64]int, len(steps))
	var data []float64
	for range 12 {
		val, _ := Pick(g, steps)
		if counts[val] < 4 {
			counts[val]++
			data = append(data, val)
		}
	}
	var present []float64
	for _, s := range steps {
		if counts[s] > 0 {
			present = append(present, s)
		}
	}
	plot := worksheet.VisualData{Type: worksheet.VisualLinePlot, Start: fptr(base), End: fptr(base + 1), PlotData: data}

	switch v {
	case 3:
		if g.chance(0.5) {
			return withVisual(open("How many total items are shown on the line plot?", itoa(len(data)), nil), plot), nil
		}
		mode, best, tied := 0.0, 0, false
		for _, s := range present {
			switch {
			case counts[s] > best:
				mode, best, tied = s, counts[s], false
			case counts[s] == best:
				tied = true
			}
		}
		if tied || len(present) < 2 {
			return worksheet.Question{}, errDegenerate
		}
		options := make([]string, len(present))
		for i, s := range present {
			options[i] = quarters(s)
		}
		return withVisual(mc("Which measurement is the most common?", quarters(mode), g.UniqueOptions(options...)), plot), nil

	case 4:
		if len(present) < 2 || counts[present[0]] == counts[present[1]] {
			return worksheet.Question{}, errDegenerate
		}
		a, b := present[0], present[1]
		if counts[b] > counts[a] {
			a, b = b, a
		}
		return withVisual(open(fmt.Sprintf("How many more items are %s inches than %s inches?", quarters(a), quarters(b)),
			itoa(counts[a]-counts[b]), nil), plot), nil

	default:
		target, _ := Pick(g, steps)
		return withVisual(mc(fmt.Sprintf("How many items measured exactly %s inches?", quarters(target)), itoa(counts[target]),
			[]string{"0", "1", "2", "3", "4", "5"}), plot), nil
	}
}
