package generator

import (
	"fmt"

	"github.com/p-n-ai/worksheet-gen/internal/worksheet"
)

var (
	polygons       = []string{"triangle", "pentagon", "hexagon", "rectangle", "square", "rhombus", "trapezoid"}
	quadrilaterals = []string{"rectangle", "square", "rhombus", "trapezoid", "kite"}
	nonQuads       = []string{"triangle", "pentagon", "hexagon", "circle"}
)

var ga1Variants = VariantMap{
	"Name the Shape": {0, 1, 6},
	"Quadrilaterals": {2, 3, 4, 5},
}

// genShapes covers 3.G.A.1: naming shapes and reasoning about quadrilaterals.
func genShapes(g *Generator, req Request) (worksheet.Question, error) {
	v, err := g.SelectVariant(variants(0, 6), req.Subcategories, ga1Variants)
	if err != nil {
		return worksheet.Question{}, err
	}

	switch v {
	case 0:
		shape, _ := Pick(g, polygons)
		others := make([]string, 0, len(polygons)-1)
		for _, p := range polygons {
			if p != shape {
				others = append(others, p)
			}
		}
		shuffle(g, others)
		q := mc("What is the name of this polygon?", shape, g.UniqueOptions(append([]string{shape}, others[:3]...)...))
		return withVisual(q, worksheet.VisualData{Type: worksheet.VisualGeometryShape, ShapeName: shape}), nil

	case 1:
		names := []string{"triangle", "quadrilateral", "pentagon", "hexagon", "octagon"}
		sides := []int{3, 4, 5, 6, 8}
		i := g.rng.IntN(len(names))
		return mc(fmt.Sprintf("A polygon with %d sides and %d vertices is called a...", sides[i], sides[i]), names[i],
			g.UniqueOptions(names...)), nil

	case 2:
		answer := "It has exactly 4 sides."
		return mc("What makes a shape a quadrilateral?", answer,
			g.UniqueOptions(answer, "It has equal sides.", "It has 5 angles.", "It is a square.")), nil

	case 3:
		target, _ := Pick(g, quadrilaterals)
		other, _ := Pick(g, nonQuads)
		return mc("Which of these is a quadrilateral?", target, g.UniqueOptions(target, other, "circle", "cube")), nil

	case 4:
		target, _ := Pick(g, nonQuads)
		return mc("Which shape is NOT a quadrilateral?", target,
			g.UniqueOptions(target, quadrilaterals[0], quadrilaterals[1], quadrilaterals[2])), nil

	case 5:
		shape, _ := Pick(g, quadrilaterals)
		q := open(fmt.Sprintf("Draw a %s.", shape), fmt.Sprintf("(Teacher Check: Drawing of a %s)", shape), nil)
		return withVisual(q, worksheet.VisualData{Type: worksheet.VisualAreaModel, WidthLabel: " ", HeightLabel: " "}), nil

	default:
		if g.chance(0.5) {
			answer := "Yes, because it has 4 equal sides."
			return mc("Is a square also a rhombus?", answer, g.UniqueOptions(
				answer, "No, a square has right angles.", "No, they are different shapes.", "Yes, because it is a rectangle.",
			)), nil
		}
		answer := "No, only if all 4 sides are equal length."
		return mc("Is a rectangle always a square?", answer, g.UniqueOptions(
			answer, "Yes, they are the same thing.", "No, a rectangle has 5 sides.", "Yes, because it has right angles.",
		)), nil
	}
}

// genEqualParts covers 3.G.A.2: partitioning shapes into equal areas.
func genEqualParts(g *Generator, req Request) (worksheet.Question, error) {
	parts := oneOf(g, 2, 3, 4, 6, 8)
	unit := frac(1, parts)

	switch g.Int(0, 6) {
	case 0:
		q := mc("Which fraction shows the shaded part?", unit,
			g.UniqueOptions(unit, frac(2, parts), "1/2", frac(3, parts)))
		return withVisual(q, worksheet.VisualData{Type: worksheet.VisualFractionCircle, Numerator: iptr(1), Denominator: parts}), nil

	case 1:
		q := mc(fmt.Sprintf("Does this shape show %d equal parts?", parts), "No", []string{"Yes", "No"})
		return withVisual(q, worksheet.VisualData{
			Type: g.fractionShape(), Numerator: iptr(1), Denominator: parts, IsUnequal: true,
		}), nil

	case 2:
		return mc(fmt.Sprintf("A shape is cut into %d parts, but they are NOT all the same size. Does this represent equal fractions?", parts),
			"No", []string{"Yes", "No"}), nil

	case 3:
		return mc(fmt.Sprintf("If you partition a rectangle into %d equal rows, what fraction is one row?", parts), unit,
			g.UniqueOptions(unit, frac(parts, 1), "1/2", frac(2, parts))), nil

	case 4:
		shape, kind := "rectangle", worksheet.VisualFractionBar
		if g.chance(0.5) {
			shape, kind = "circle", worksheet.VisualFractionCircle
		}
		q := open(fmt.Sprintf("Partition the %s into %d equal parts.", shape, parts),
			fmt.Sprintf("(Teacher Check: Shape divided into %d equal areas)", parts), nil)
		return withVisual(q, worksheet.VisualData{Type: kind, Numerator: iptr(0), Denominator: 1}), nil

	case 5:
		q := open(fmt.Sprintf("Shade %s of the shape below.", unit), fmt.Sprintf("(Teacher Check: 1 of %d sections shaded)", parts), nil)
		return withVisual(q, worksheet.VisualData{Type: worksheet.VisualFractionBar, Numerator: iptr(0), Denominator: parts}), nil

	default:
		answer := "No, because the parts are not equal sizes."
		q := mc(fmt.Sprintf("A student says the shaded part is %s. Is the student correct?", unit), answer, g.UniqueOptions(
			answer,
			fmt.Sprintf("Yes, because 1 part is shaded out of %d.", parts),
			"Yes, because it is a circle.",
			fmt.Sprintf("No, because it should be %s.", frac(2, parts)),
		))
		return withVisual(q, worksheet.VisualData{
			Type: worksheet.VisualFractionCircle, Numerator: iptr(1), Denominator: parts, IsUnequal: true,
		}), nil
	}
}
