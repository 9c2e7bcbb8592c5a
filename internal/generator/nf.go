package generator

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/p-n-ai/worksheet-gen/internal/worksheet"
)

func frac(n, d int) string { return fmt.Sprintf("%d/%d", n, d) }

func (g *Generator) fractionShape() worksheet.VisualType {
	return oneOf(g, worksheet.VisualFractionBar, worksheet.VisualFractionCircle)
}

// genUnitFractions covers 3.NF.A.1: a fraction as parts of a whole.
func genUnitFractions(g *Generator, req Request) (worksheet.Question, error) {
	d := oneOf(g, 3, 4, 6, 8)

	switch g.Int(0, 7) {
	case 0:
		n := g.Int(1, d-1)
		q := mc("What fraction of the shape is shaded?", frac(n, d),
			g.UniqueOptions(frac(n, d), frac(d, n), frac(n, d+1), frac(1, d)))
		return withVisual(q, worksheet.VisualData{Type: g.fractionShape(), Numerator: iptr(n), Denominator: d}), nil

	case 1:
		n := g.Int(1, d-1)
		q := open(fmt.Sprintf("Shade %s of the shape below.", frac(n, d)),
			fmt.Sprintf("(Teacher Check: %d parts should be shaded)", n), nil)
		return withVisual(q, worksheet.VisualData{Type: g.fractionShape(), Numerator: iptr(0), Denominator: d}), nil

	case 2:
		total := g.Int(3, 8)
		stars := g.Int(1, total-1)
		others := total - stars
		objects := make([]string, 0, total)
		for i := range total {
			if i < stars {
				objects = append(objects, "star")
			} else {
				objects = append(objects, "circle")
			}
		}
		shuffle(g, objects)
		q := mc("What fraction of the objects are stars?", frac(stars, total),
			g.UniqueOptions(frac(stars, total), frac(others, total), frac(stars, others), frac(1, total)))
		return withVisual(q, worksheet.VisualData{Type: worksheet.VisualSetModel, SetObjects: objects}), nil

	case 3:
		return mc(fmt.Sprintf("What fraction is 1 part of %d equal parts?", d), frac(1, d),
			g.UniqueOptions(frac(1, d), frac(d, 1), frac(2, d), frac(1, d-1))), nil

	case 4:
		n := g.Int(2, d)
		parts := strings.TrimSuffix(strings.Repeat(frac(1, d)+" + ", n), " + ")
		return mc(fmt.Sprintf("What fraction is equal to: %s?", parts), frac(n, d),
			g.UniqueOptions(frac(n, d), frac(1, d), frac(n, d*n), frac(d, n))), nil

	case 5:
		n := g.Int(1, d-1)
		food := oneOf(g, "pizza", "cake", "pie")
		q := mc(fmt.Sprintf("A %s is cut into %d equal pieces. %d pieces are eaten. What fraction of the %s is eaten?", food, d, n, food),
			frac(n, d), g.UniqueOptions(frac(n, d), frac(d, n), frac(d-n, d), frac(1, d)))
		return withVisual(q, worksheet.VisualData{Type: worksheet.VisualFractionCircle, Numerator: iptr(n), Denominator: d}), nil

	case 6:
		answer := "No, because the parts are not equal sizes."
		q := mc(fmt.Sprintf("A student says the shaded part is %s. Is the student correct?", frac(1, d)), answer, g.UniqueOptions(
			answer,
			fmt.Sprintf("Yes, because 1 part is shaded out of %d.", d),
			"Yes, because it is a circle.",
			fmt.Sprintf("No, because it should be %s.", frac(2, d)),
		))
		return withVisual(q, worksheet.VisualData{
			Type: worksheet.VisualFractionCircle, Numerator: iptr(1), Denominator: d, IsUnequal: true,
		}), nil

	default:
		p1, p2 := g.Int(1, d/2), g.Int(1, d/2)
		for p1+p2 >= d && p2 > 1 {
			p2--
		}
		c := g.Character(req.Names)
		return open(fmt.Sprintf("A chocolate bar has %d equal pieces. %s eats %d pieces and gives %d pieces to a friend. What fraction of the chocolate bar is gone?",
			d, c.Name, p1, p2), frac(p1+p2, d), nil), nil
	}
}

func mixedNumber(n, d int) string {
	w, r := n/d, n%d
	if r == 0 {
		return itoa(w)
	}
	return fmt.Sprintf("%d %s", w, frac(r, d))
}

// genFractionNumberLine covers 3.NF.A.2. The subcategories constrain the
// number drawn rather than the question shape.
func genFractionNumberLine(g *Generator, req Request) (worksheet.Question, error) {
	var pool []string
	for _, label := range []string{"Less than 1", "Greater than 1", "Mixed Numbers", "Improper Fractions"} {
		if has(req.Subcategories, label) {
			pool = append(pool, label)
		}
	}
	constraint := ""
	if len(pool) > 0 {
		constraint, _ = Pick(g, pool)
	}

	d := oneOf(g, 2, 3, 4, 6, 8)
	wholes := 1
	if g.chance(0.7) {
		wholes = oneOf(g, 2, 3)
	}
	var n int
	switch constraint {
	case "Less than 1":
		wholes = 1
		n = g.Int(1, d-1)
	case "Greater than 1", "Mixed Numbers", "Improper Fractions":
		wholes = g.Int(2, 4)
		n = g.Int(d+1, wholes*d-1)
		if n%d == 0 {
			n++
		}
	default:
		ticks := wholes * d
		n = g.Int(1, ticks)
		if n%d == 0 && n < ticks {
			n++
		}
	}
	ticks := wholes * d
	val := float64(n) / float64(d)

	asMixed := false
	switch constraint {
	case "Mixed Numbers":
		asMixed = true
	case "Improper Fractions":
	default:
		asMixed = n > d && g.chance(0.5)
	}

	correct := frac(n, d)
	var options []string
	if asMixed {
		correct = mixedNumber(n, d)
		w, r := n/d, n%d
		next := r + 1
		if next > d-1 {
			next = 1
		}
		options = g.UniqueOptions(correct,
			fmt.Sprintf("%d %s", w, frac(next, d)),
			fmt.Sprintf("%d %s", w+1, frac(r, d)),
			fmt.Sprintf("%d %s", w, frac(r, d+1)))
	} else {
		options = g.UniqueOptions(correct, frac(n, d+1), frac(n+1, d), frac(d, n))
	}

	line := worksheet.VisualData{
		Type:      worksheet.VisualNumberLine,
		Start:     fptr(0),
		End:       fptr(float64(wholes)),
		TickCount: ticks,
		LabelMode: "whole",
	}
	switch g.Int(0, 8) {
	case 0:
		line.HighlightPoints = []float64{val}
		return withVisual(mc("What fraction is located at the dot?", correct, options), line), nil
	case 1:
		line.PointLabels = []worksheet.PointLabel{{Value: val, Label: "A"}}
		return withVisual(mc("What fraction is at point A?", correct, options), line), nil
	case 2:
		return withVisual(open(fmt.Sprintf("Place a dot on the number line at %s.", correct), "(Teacher Check)", nil), line), nil
	default:
		line.HighlightPoints = []float64{val}
		return withVisual(mc("Which fraction matches the point shown?", correct, options), line), nil
	}
}

var nf3Variants = VariantMap{
	"Fraction Models":  {0},
	"Number Lines":     {9},
	"Compare Fraction": {0, 1, 5, 6},
	"Equivalent":       {2, 3, 7},
	"Equal to 1":       {4},
	"Whole Number":     {4},
}

func compareSymbol(a, b float64) string {
	switch {
	case math.Abs(a-b) < 0.001:
		return "="
	case a > b:
		return ">"
	}
	return "<"
}

// genFractionCompare covers 3.NF.A.3: equivalence and comparison.
func genFractionCompare(g *Generator, req Request) (worksheet.Question, error) {
	v, err := g.SelectVariant(variants(0, 9), req.Subcategories, nf3Variants)
	if err != nil {
		return worksheet.Question{}, err
	}
	symbols := func() []string { return g.UniqueOptions(">", "<", "=") }

	switch v {
	case 0:
		d1, d2 := oneOf(g, 3, 4, 6, 8), oneOf(g, 3, 4, 6, 8)
		n1, n2 := g.Int(1, d1-1), g.Int(1, d2-1)
		shape := g.fractionShape()
		q := mc(fmt.Sprintf("Compare the fractions shown: %s ___ %s", frac(n1, d1), frac(n2, d2)),
			compareSymbol(float64(n1)/float64(d1), float64(n2)/float64(d2)), symbols())
		return withVisual(q, worksheet.VisualData{
			Type: worksheet.VisualFractionComparison,
			CompareModels: []worksheet.VisualData{
				{Type: shape, Numerator: iptr(n1), Denominator: d1},
				{Type: shape, Numerator: iptr(n2), Denominator: d2},
			},
		}), nil

	case 1:
		d := oneOf(g, 2, 3, 4, 6, 8)
		n1, n2 := g.Int(1, d), g.Int(1, d)
		if n1 == n2 {
			return worksheet.Question{}, errDegenerate
		}
		return mc(fmt.Sprintf("Compare: %s ___ %s", frac(n1, d), frac(n2, d)),
			compareSymbol(float64(n1), float64(n2)), symbols()), nil

	case 2:
		d, m := oneOf(g, 2, 3, 4, 6), oneOf(g, 2, 3)
		if d*m > 12 {
			return worksheet.Question{}, errDegenerate
		}
		n := g.Int(1, d-1)
		return open(fmt.Sprintf("Fill in the missing number to make the fractions equal.\n\n%s = ?/%d", frac(n, d), d*m),
			itoa(n*m), nil), nil

	case 3:
		type base struct{ n, d int }
		b := oneOf(g, base{1, 2}, base{1, 3}, base{1, 4}, base{2, 3}, base{3, 4}, base{2, 2})
		factor := 2
		if b.d == 2 {
			factor = oneOf(g, 2, 3, 4)
		}
		answer := frac(b.n*factor, b.d*factor)
		return mc(fmt.Sprintf("Which fraction is equivalent to %s?", frac(b.n, b.d)), answer, g.UniqueOptions(
			answer,
			frac(b.n, b.d*factor),
			frac(b.n*factor, b.d+factor),
			frac(b.n+1, b.d+1),
			frac(b.d, b.n),
		)), nil

	case 4:
		whole := g.chance(0.5)
		if has(req.Subcategories, "Equal to 1") {
			whole = false
		}
		if has(req.Subcategories, "Whole Number") {
			whole = true
		}
		if whole {
			w := g.Int(2, 4)
			return mc(fmt.Sprintf("Write a fraction that is equal to the whole number %d.", w), frac(w, 1),
				g.UniqueOptions(frac(w, 1), frac(1, w), frac(w, w), fmt.Sprintf("%d%d/1", w, w))), nil
		}
		d := oneOf(g, 2, 3, 4, 5, 6, 8)
		return mc("Which fraction is equal to 1 whole?", frac(d, d),
			g.UniqueOptions(frac(d, d), frac(d, 1), frac(1, d), fmt.Sprintf("%d0/%d", d, d))), nil

	case 5:
		n := g.Int(1, 3)
		d1, d2 := oneOf(g, 2, 3), oneOf(g, 6, 8)
		return mc(fmt.Sprintf("Compare: %s ___ %s", frac(n, d1), frac(n, d2)), ">", symbols()), nil

	case 6:
		denoms := []int{2, 3, 4, 6, 8}
		shuffle(g, denoms)
		denoms = denoms[:3]
		slices.Sort(denoms)
		// 1/d shrinks as d grows
		answer := fmt.Sprintf("1/%d, 1/%d, 1/%d", denoms[2], denoms[1], denoms[0])
		return mc("Which list shows the fractions in order from least to greatest?", answer, g.UniqueOptions(
			answer,
			fmt.Sprintf("1/%d, 1/%d, 1/%d", denoms[0], denoms[1], denoms[2]),
			fmt.Sprintf("1/%d, 1/%d, 1/%d", denoms[1], denoms[0], denoms[2]),
			fmt.Sprintf("%d/1, %d/1, %d/1", denoms[0], denoms[1], denoms[2]),
		)), nil

	case 7:
		c := g.Character(req.Names)
		food := oneOf(g, "sandwich", "pizza", "burrito")
		a, b := [2]int{1, 2}, [2]int{2, 4}
		if g.chance(0.5) {
			a, b = [2]int{1, 3}, [2]int{2, 6}
		}
		answer := fmt.Sprintf("Yes, because %s and %s are equivalent.", frac(a[0], a[1]), frac(b[0], b[1]))
		return mc(fmt.Sprintf("%s ate %s of a %s. %s friend ate %s of a same-sized %s. Did they eat the same amount?",
			c.Name, frac(a[0], a[1]), food, c.PossessiveTitle, frac(b[0], b[1]), food), answer,
			g.UniqueOptions(
				answer,
				fmt.Sprintf("No, because %s is bigger.", frac(b[0], b[1])),
				fmt.Sprintf("No, because %d is bigger than %d.", b[1], a[1]),
			)), nil

	case 8:
		small, big := 2, oneOf(g, 3, 4, 6, 8)
		answer := fmt.Sprintf("No, because %s splits the whole into more pieces, so pieces are smaller.", frac(1, big))
		return mc(fmt.Sprintf("A student says that %s is greater than %s because %d is bigger than %d. Is this correct?",
			frac(1, big), frac(1, small), big, small), answer, g.UniqueOptions(
			answer,
			fmt.Sprintf("Yes, because %d > %d.", big, small),
			"No, they are equal.",
			"Yes, bigger denominators mean bigger fractions.",
		)), nil

	default:
		d := oneOf(g, 2, 3)
		answer := frac(2, 2*d)
		q := mc(fmt.Sprintf("The point on the number line shows %s. Which other fraction is at the same spot?", frac(1, d)), answer,
			g.UniqueOptions(answer, frac(1, d+1), frac(2, d)))
		return withVisual(q, worksheet.VisualData{
			Type:            worksheet.VisualNumberLine,
			Start:           fptr(0),
			End:             fptr(1),
			TickCount:       d,
			HighlightPoints: []float64{1 / float64(d)},
			LabelMode:       "whole",
		}), nil
	}
}
