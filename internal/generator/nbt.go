package generator

import (
	"fmt"
	"math"

	"github.com/p-n-ai/worksheet-gen/internal/worksheet"
)

func roundTo(n, place int) int {
	return int(math.Round(float64(n)/float64(place))) * place
}

func floorTo(n, place int) int { return n / place * place }

func ceilTo(n, place int) int {
	if n%place == 0 {
		return n
	}
	return (n/place + 1) * place
}

var nbt1Variants = VariantMap{
	"Nearest 10":    {0, 2, 3, 5},
	"Nearest 100":   {1, 2, 4, 5},
	"Add/Subtract":  {7},
	"Word Problems": {3, 7},
}

// nbt1Unfiltered leaves out the reverse variant (2), whose answer is off the
// tens grid. It is only drawn when a Nearest 10 or Nearest 100 filter asks for it.
var nbt1Unfiltered = []int{0, 1, 3, 4, 5, 6, 7}

// genRounding covers 3.NBT.A.1. Every number a student is asked to round is
// drawn off the tens grid, so rounding always changes it.
func genRounding(g *Generator, req Request) (worksheet.Question, error) {
	v, err := g.SelectVariant(nbt1Unfiltered, req.Subcategories, nbt1Variants)
	if err != nil {
		return worksheet.Question{}, err
	}

	switch v {
	case 0:
		n := g.Int(11, 98)
		if g.chance(0.5) {
			n = g.Int(101, 998)
		}
		if n%10 == 0 {
			return worksheet.Question{}, errDegenerate
		}
		rounded := roundTo(n, 10)
		wrongWay := floorTo(n, 10)
		if wrongWay == rounded {
			wrongWay = ceilTo(n, 10)
		}
		q := open(fmt.Sprintf("Round %d to the nearest 10.", n), itoa(rounded),
			g.UniqueOptions(itoa(rounded), itoa(wrongWay), itoa(n), itoa(roundTo(n, 100))))
		return withVisual(q, worksheet.VisualData{
			Type:            worksheet.VisualNumberLine,
			Start:           fptr(float64(floorTo(n, 10))),
			End:             fptr(float64(ceilTo(n, 10))),
			HighlightPoints: []float64{float64(n)},
			TickCount:       10,
			LabelMode:       "all",
		}), nil

	case 1:
		n := g.Int(101, 899)
		if n%10 == 0 {
			return worksheet.Question{}, errDegenerate
		}
		rounded := roundTo(n, 100)
		wrongWay := floorTo(n, 100)
		if wrongWay == rounded {
			wrongWay = ceilTo(n, 100)
		}
		q := open(fmt.Sprintf("Round %d to the nearest 100.", n), itoa(rounded),
			g.UniqueOptions(itoa(rounded), itoa(wrongWay), itoa(roundTo(n, 10)), itoa(n)))
		return withVisual(q, worksheet.VisualData{
			Type:            worksheet.VisualNumberLine,
			Start:           fptr(float64(floorTo(n, 100))),
			End:             fptr(float64(ceilTo(n, 100))),
			HighlightPoints: []float64{float64(n)},
			TickCount:       10,
			LabelMode:       "whole",
		}), nil

	case 2:
		// The roles swap here: the target is on the grid and the answer is not.
		ten := g.chance(0.5)
		switch {
		case has(req.Subcategories, "Nearest 10") && !has(req.Subcategories, "Nearest 100"):
			ten = true
		case has(req.Subcategories, "Nearest 100") && !has(req.Subcategories, "Nearest 10"):
			ten = false
		}
		place, half := 100, 50
		if ten {
			place, half = 10, 5
		}
		target := g.Int(2, 9) * place
		correct := target + g.Int(-half+1, half-1)
		tooHigh := target + half + g.Int(1, 5)
		tooLow := target - half - g.Int(1, 5)
		farOff := target + half + g.Int(10, 20)
		return mc(fmt.Sprintf("Which number rounds to %d when rounded to the nearest %d?", target, place),
			itoa(correct), g.UniqueOptions(itoa(correct), itoa(tooHigh), itoa(tooLow), itoa(farOff))), nil

	case 3:
		ctx := g.Context(req.Names)
		n := g.Int(25, 450)
		if n%10 == 0 {
			return worksheet.Question{}, errDegenerate
		}
		rounded := roundTo(n, 10)
		text := fmt.Sprintf("%s has %d %s. About how many %s does %s have? (Round to the nearest 10)",
			ctx.Name, n, ctx.Item.Plural, ctx.Item.Plural, ctx.Name)
		return mc(text, itoa(rounded),
			g.UniqueOptions(itoa(rounded), itoa(floorTo(n, 10)), itoa(ceilTo(n, 10)), itoa(rounded+10))), nil

	case 4:
		n := g.Int(1001, 9998)
		if n%10 == 0 {
			return worksheet.Question{}, errDegenerate
		}
		place, other := 10, 100
		if g.chance(0.5) {
			place, other = 100, 10
		}
		rounded := roundTo(n, place)
		wrongWay := floorTo(n, place)
		if wrongWay == rounded {
			wrongWay = ceilTo(n, place)
		}
		return open(fmt.Sprintf("Round %d to the nearest %d.", n, place), itoa(rounded),
			g.UniqueOptions(itoa(rounded), itoa(wrongWay), itoa(roundTo(n, other)), itoa(n))), nil

	case 5:
		n := g.Int(125, 875)
		if n%10 == 0 {
			return worksheet.Question{}, errDegenerate
		}
		r10, r100 := roundTo(n, 10), roundTo(n, 100)
		pair := func(a, b int) string { return fmt.Sprintf("Nearest 10: %d, Nearest 100: %d", a, b) }
		return mc(fmt.Sprintf("Round %d to the nearest 10 AND the nearest 100.", n), pair(r10, r100),
			g.UniqueOptions(pair(r10, r100), pair(r100, r10), pair(r10+10, r100), pair(r10, r100+100))), nil

	case 6:
		n := g.Int(150, 850)
		correct, wrong := roundTo(n, 100), floorTo(n, 100)
		if correct == wrong || n%10 == 0 {
			return worksheet.Question{}, errDegenerate
		}
		answer := fmt.Sprintf("No, it should be %d.", correct)
		return mc(fmt.Sprintf("A student rounded %d to the nearest 100 and got %d. Is this correct?", n, wrong), answer,
			g.UniqueOptions(
				answer,
				fmt.Sprintf("Yes, because it is in the %ds.", wrong),
				"Yes, you always round down.",
				fmt.Sprintf("No, it should be %d.", correct+100),
			)), nil

	default:
		n1, n2 := g.Int(105, 495), g.Int(105, 495)
		if n1%10 == 0 || n2%10 == 0 {
			return worksheet.Question{}, errDegenerate
		}
		est := roundTo(n1, 100) + roundTo(n2, 100)
		return mc(fmt.Sprintf("Estimate the sum of %d + %d by rounding each number to the nearest 100 first.", n1, n2),
			itoa(est), g.UniqueOptions(itoa(est), itoa(n1+n2), itoa(est+100), itoa(est-100))), nil
	}
}

var nbt3Variants = VariantMap{
	"Division":       {0, 1, 2},
	"Multiplication": {5, 4, 3},
	"By 10":          {5, 0, 1},
	"By 100s":        {5, 0, 1, 2},
	"Missing Number": {2, 4},
}

// genTimesTens covers 3.NBT.A.3: one-digit numbers times multiples of 10,
// or of 100 when "By 100s" is selected.
func genTimesTens(g *Generator, req Request) (worksheet.Question, error) {
	v, err := g.SelectVariant(variants(0, 8), req.Subcategories, nbt3Variants)
	if err != nil {
		return worksheet.Question{}, err
	}

	hundreds := has(req.Subcategories, "By 100s")
	multiplier := 10
	if hundreds {
		multiplier = 100
	}
	base := g.Int(2, 9)
	digit := g.Int(1, 9)
	operand := digit * multiplier
	product := base * operand

	switch v {
	case 0:
		return mc(fmt.Sprintf("Solve: %d ÷ %d = ?", product, base), itoa(operand),
			g.UniqueOptions(itoa(operand), itoa(digit), itoa(operand*10), itoa(product-base))), nil
	case 1:
		return mc(fmt.Sprintf("Solve: %d ÷ %d = ?", product, operand), itoa(base),
			g.Distractors(itoa(base), NumberDistractors)), nil
	case 2:
		return open(fmt.Sprintf("Find the missing number: %d ÷ ? = %d", product, operand), itoa(base),
			g.Distractors(itoa(base), NumberDistractors)), nil
	case 3:
		ctx := g.Context(req.Names)
		text := fmt.Sprintf("Each %s holds %d %s. How many %s are in %d %s?",
			ctx.Item.Container, operand, ctx.Item.Plural, ctx.Item.Plural, base, ctx.Item.Containers())
		return open(text, itoa(product), nil), nil
	case 4:
		return mc(fmt.Sprintf("Find the missing number: ? × %d = %d", operand, product), itoa(base),
			g.Distractors(itoa(base), NumberDistractors)), nil
	case 5:
		expr := fmt.Sprintf("%d × %d = ?", base, operand)
		if g.chance(0.5) {
			expr = fmt.Sprintf("%d × %d = ?", operand, base)
		}
		forgotZero := base * digit
		return open("Solve: "+expr, itoa(product),
			g.UniqueOptions(itoa(product), itoa(forgotZero), itoa(product*10), itoa(base+operand))), nil
	case 6:
		if hundreds {
			return worksheet.Question{}, errDegenerate
		}
		tens := base * digit
		return mc(fmt.Sprintf("Complete the steps:\n\n%d × %d = %d × (%d tens) = ___ tens = %d", base, operand, base, digit, product),
			itoa(tens), g.UniqueOptions(itoa(tens), itoa(digit), itoa(base), itoa(tens*10))), nil
	case 7:
		if hundreds {
			return worksheet.Question{}, errDegenerate
		}
		answer := fmt.Sprintf("(%d × %d) × 10", base, digit)
		return mc(fmt.Sprintf("Which expression is the same as %d × %d?", base, operand), answer,
			g.UniqueOptions(
				answer,
				fmt.Sprintf("(%d + %d) × 10", base, digit),
				fmt.Sprintf("%d × 10 + %d", base, digit),
				fmt.Sprintf("(%d × 10) × %d", base, operand),
			)), nil
	default:
		zeros := "a zero"
		if hundreds {
			zeros = "two zeros"
		}
		answer := fmt.Sprintf("They forgot to place %s at the end.", zeros)
		return mc(fmt.Sprintf("A student solved %d × %d and got %d. What mistake did they make?", base, operand, base*digit), answer,
			g.UniqueOptions(answer, "They added instead of multiplied.", "They multiplied by 10 twice.", "The answer is correct.")), nil
	}
}

// genAddSubtract covers 3.NBT.A.2 with four families: computation with
// controlled regrouping, word problems, properties and strategies, and error
// analysis.
func genAddSubtract(g *Generator, req Request) (worksheet.Question, error) {
	family := ""
	var subtypes []int
	if has(req.Subcategories, "Word Problems") {
		family = "word"
	}
	if has(req.Subcategories, "Subtract Across 0s") {
		family = "compute"
		subtypes = append(subtypes, 8, 9)
	}
	if has(req.Subcategories, "Addition Carrying") {
		family = "compute"
		subtypes = append(subtypes, 2, 3, 4)
	}
	if family == "" {
		switch r := g.rng.Float64(); {
		case r > 0.85:
			family = "error"
		case r > 0.70:
			family = "property"
		case r > 0.40:
			family = "word"
		default:
			family = "compute"
		}
	}

	switch family {
	case "compute":
		sub := g.Int(1, 9)
		if len(subtypes) > 0 {
			sub, _ = Pick(g, subtypes)
		}
		return addSubCompute(g, sub), nil
	case "word":
		return addSubWord(g, req), nil
	case "property":
		return addSubProperty(g), nil
	default:
		return addSubError(g), nil
	}
}

func addSubCompute(g *Generator, sub int) worksheet.Question {
	d := func(lo, hi int) int { return g.Int(lo, hi) }
	num := func(h, t, u int) int { return h*100 + t*10 + u }
	var n1, n2 int
	op := "+"

	switch sub {
	case 1: // no regrouping
		u1, t1, h1 := d(0, 4), d(0, 4), d(1, 4)
		n1, n2 = num(h1, t1, u1), num(d(1, 9-h1), d(0, 9-t1), d(0, 9-u1))
	case 2: // regroup ones
		u1, t1, h1 := d(5, 9), d(0, 3), d(1, 4)
		n1, n2 = num(h1, t1, u1), num(d(1, 8-h1), d(0, 8-t1), d(10-u1, 9))
	case 3: // regroup tens
		u1, t1, h1 := d(0, 4), d(5, 9), d(1, 3)
		n1, n2 = num(h1, t1, u1), num(d(1, 8-h1), d(10-t1, 9), d(0, 9-u1))
	case 4: // regroup ones and tens
		u1, t1 := d(5, 9), d(5, 8)
		n1, n2 = num(d(1, 3), t1, u1), num(d(1, 4), d(10-t1, 9), d(10-u1, 9))
	case 5:
		op = "-"
		u2, t2, h2 := d(0, 8), d(0, 8), d(1, 4)
		n1, n2 = num(d(h2+1, 9), d(t2, 9), d(u2, 9)), num(h2, t2, u2)
	case 6: // borrow for ones
		op = "-"
		u2, t2, h2 := d(2, 9), d(0, 7), d(1, 4)
		n1, n2 = num(d(h2+1, 9), d(t2+1, 9), d(0, u2-1)), num(h2, t2, u2)
	case 7: // borrow for tens
		op = "-"
		u2, t2, h2 := d(0, 8), d(2, 9), d(1, 4)
		n1, n2 = num(d(h2+1, 9), d(0, t2-1), d(u2, 9)), num(h2, t2, u2)
	case 8: // across zeros, 500 - 231
		op = "-"
		n1 = d(3, 9) * 100
		n2 = g.Int(111, n1-10)
	default: // zero in the tens, 905 - 263
		op = "-"
		h1, u1 := d(3, 9), d(1, 8)
		n1 = num(h1, 0, u1)
		n2 = num(d(1, h1-1), d(1, 9), d(u1+1, 9))
	}

	ans := n1 + n2
	if op == "-" {
		ans = n1 - n2
	}
	return open(fmt.Sprintf("Solve: %d %s %d = ?", n1, op, n2), itoa(ans), g.Distractors(itoa(ans), NumberDistractors))
}

func addSubWord(g *Generator, req Request) worksheet.Question {
	c := g.Character(req.Names)
	item := g.Context(req.Names).Item.Plural
	var text string
	var ans int

	switch g.Int(1, 5) {
	case 1:
		n1, n2 := g.Int(150, 450), g.Int(150, 450)
		ans = n1 + n2
		text = fmt.Sprintf("%s collected %d %s. %s found %d more. How many %s does %s have in total?",
			c.Name, n1, item, c.SubjectiveTitle, n2, item, c.Subjective)
	case 2:
		n1, n2 := g.Int(500, 950), g.Int(200, 450)
		ans = n1 - n2
		text = fmt.Sprintf("There were %d %s at the store. %d were sold. How many %s are left?", n1, item, n2, item)
	case 3:
		total, part := g.Int(500, 900), g.Int(200, 400)
		ans = total - part
		text = fmt.Sprintf("%s has %d %s. %s wants to have %d %s in total. How many more does %s need?",
			c.Name, part, item, c.SubjectiveTitle, total, item, c.Subjective)
	case 4:
		n1, n2 := g.Int(400, 800), g.Int(150, 350)
		ans = n1 - n2
		other := g.otherName(req.Names, c.Name)
		text = fmt.Sprintf("%s has %d points. %s has %d points. How many more points does %s have than %s?",
			c.Name, n1, other, n2, c.Name, other)
	default:
		start, end := g.Int(200, 500), g.Int(600, 900)
		ans = end - start
		text = fmt.Sprintf("%s started with %d %s. %s received a gift of some %s. Now %s has %d. How many %s were in the gift?",
			c.Name, start, item, c.SubjectiveTitle, item, c.Subjective, end, item)
	}
	return mc(text, itoa(ans), g.Distractors(itoa(ans), NumberDistractors))
}

func addSubProperty(g *Generator) worksheet.Question {
	switch g.Int(1, 3) {
	case 1:
		n1, n2 := g.Int(200, 400), g.Int(300, 500)
		h1, h2 := floorTo(n1, 100), floorTo(n2, 100)
		t1, t2 := n1%100/10*10, n2%100/10*10
		o1, o2 := n1%10, n2%10
		answer := fmt.Sprintf("%d + %d", t1, t2)
		return mc(fmt.Sprintf("Use place value to solve %d + %d.\n\n(%d + %d) + (___) + (%d + %d)", n1, n2, h1, h2, o1, o2),
			answer, g.UniqueOptions(
				answer,
				fmt.Sprintf("%d + %d", h1+t1, h2+t2),
				fmt.Sprintf("%d + %d", floorTo(n1, 10), floorTo(n2, 10)),
				fmt.Sprintf("%d + %d", o1, o2),
			))
	case 2:
		a, b := g.Int(20, 50), g.Int(20, 50)
		return mc(fmt.Sprintf("Which property is shown by this equation?\n%d + %d = %d + %d", a, b, b, a),
			"Commutative Property",
			g.UniqueOptions("Associative Property", "Commutative Property", "Identity Property", "Zero Property"))
	default:
		n := g.Int(15, 30)
		answer := fmt.Sprintf("Add %d + 100, then subtract 1", n)
		return mc(fmt.Sprintf("Which strategy makes it easiest to solve %d + 99?", n), answer,
			g.UniqueOptions(answer, fmt.Sprintf("Add %d + 100, then add 1", n), fmt.Sprintf("Subtract 100 from %d", n), "Add 90, then add 9"))
	}
}

// addSubError shows a worked problem with one classic slip and asks which slip it was.
func addSubError(g *Generator) worksheet.Question {
	if g.chance(0.5) {
		a := g.Int(2, 6)*10 + g.Int(5, 9)
		b := g.Int(1, 3)*10 + g.Int(10-a%10, 9)
		wrong := a + b - 10 // the carried ten is dropped
		answer := "Forgot to regroup (carry) the 10"
		return mc(fmt.Sprintf("Student A solved %d + %d and got %d. What mistake did they make?", a, b, wrong), answer,
			g.UniqueOptions(answer, "Added the ones wrong", "Subtracted instead of added", "Added too many tens"))
	}
	a := g.Int(5, 9)*10 + g.Int(0, 4)
	b := g.Int(1, 3)*10 + g.Int(a%10+1, 9)
	wrong := (a/10-b/10)*10 + (b%10 - a%10) // smaller ones digit taken from the larger
	answer := "Subtracted the smaller number from the larger number in the ones place"
	return mc(fmt.Sprintf("Student B solved %d - %d and got %d. What mistake did they make?", a, b, wrong), answer,
		g.UniqueOptions(answer, "Forgot to borrow from the tens", "Subtracted the tens wrong", "Added instead of subtracted"))
}
