package generator

import (
	"fmt"
	"strings"

	"github.com/p-n-ai/worksheet-gen/internal/worksheet"
)

var mdAreaVariants = VariantMap{
	"Length x Width Rectangles": {0, 4},
	"Tiling":                    {3},
	"Sum of 2 Rectangles":       {2, 7},
	"L-Shaped":                  {2},
	"Missing Side":              {5},
}

// genArea covers 3.MD.C.7: area by tiling, multiplication and decomposition.
func genArea(g *Generator, req Request) (worksheet.Question, error) {
	v, err := g.SelectVariant([]int{0, 2, 3, 4, 5, 6, 7}, req.Subcategories, mdAreaVariants)
	if err != nil {
		return worksheet.Question{}, err
	}

	switch v {
	case 0:
		w, h := g.Int(3, 9), g.Int(2, 8)
		answer := fmt.Sprintf("%d sq ft", w*h)
		q := mc("What is the area of this rectangle?", answer, g.Distractors(answer, NumberDistractors))
		return withVisual(q, worksheet.VisualData{
			Type: worksheet.VisualAreaModel, WidthLabel: fmt.Sprintf("%d ft", w), HeightLabel: fmt.Sprintf("%d ft", h),
		}), nil

	case 2:
		w1, h1 := g.Int(2, 4), g.Int(4, 7)
		w2 := g.Int(3, 6)
		h2 := g.Int(2, h1-1)
		shape := worksheet.VisualData{
			Type: worksheet.VisualCompositeArea, Rect1: &worksheet.Rect{W: w1, H: h1}, Rect2: &worksheet.Rect{W: w2, H: h2}, Arrangement: "L-shape",
		}
		if g.chance(0.5) {
			answer := fmt.Sprintf("(%d × %d) + (%d × %d)", w1, h1, w2, h2)
			q := mc("Which equation shows how to find the total area of this figure?", answer, g.UniqueOptions(
				answer,
				fmt.Sprintf("(%d + %d) + (%d + %d)", w1, h1, w2, h2),
				fmt.Sprintf("(%d × %d) + (%d × %d)", w1, w2, h1, h2),
				fmt.Sprintf("%d + %d + %d + %d", w1, w2, h1, h2),
			))
			return withVisual(q, shape), nil
		}
		answer := fmt.Sprintf("%d sq units", w1*h1+w2*h2)
		return withVisual(mc("Find the total area of this L-shaped figure.", answer, g.Distractors(answer, NumberDistractors)), shape), nil

	case 3:
		rows, cols := g.Int(3, 6), g.Int(3, 8)
		area := rows * cols
		tiles := worksheet.VisualData{Type: worksheet.VisualTiledArea, Rows: rows, Cols: cols}
		if g.chance(0.5) {
			answer := fmt.Sprintf("%d × %d = %d", rows, cols, area)
			q := mc("Which equation matches the tiled rectangle?", answer, g.UniqueOptions(
				answer,
				fmt.Sprintf("%d + %d = %d", rows, cols, rows+cols),
				fmt.Sprintf("%d × 2 = %d", rows, rows*2),
				fmt.Sprintf("%d × %d = %d", rows, cols+1, rows*(cols+1)),
			))
			return withVisual(q, tiles), nil
		}
		return withVisual(open("Find the area of the rectangle.", fmt.Sprintf("%d sq units", area), nil), tiles), nil

	case 4:
		type thing struct{ name, unit string }
		t := oneOf(g, thing{"rug", "ft"}, thing{"garden", "m"}, thing{"book cover", "in"}, thing{"screen", "cm"})
		w, h := g.Int(3, 9), g.Int(3, 9)
		return open(fmt.Sprintf("A %s is %d %s long and %d %s wide. What is its area?", t.name, w, t.unit, h, t.unit),
			fmt.Sprintf("%d sq %s", w*h, t.unit), nil), nil

	case 5:
		w, h := g.Int(3, 9), g.Int(3, 9)
		q := open(fmt.Sprintf("The area of a rectangle is %d square units. The width is %d units. What is the height?", w*h, w),
			fmt.Sprintf("%d units", h), nil)
		return withVisual(q, worksheet.VisualData{Type: worksheet.VisualAreaModel, WidthLabel: itoa(w), HeightLabel: "?"}), nil

	case 6:
		w, h := g.Int(4, 8), g.Int(4, 8)
		if w+h == w*h {
			return worksheet.Question{}, errDegenerate
		}
		answer := "They added the sides instead of multiplying."
		return mc(fmt.Sprintf("A student said the area of a %d by %d rectangle is %d. What mistake did they make?", w, h, w+h), answer,
			g.UniqueOptions(answer, "They subtracted the sides.", "They found the perimeter.", "They calculated correctly.")), nil

	default:
		h, w1, w2 := g.Int(3, 6), g.Int(2, 5), g.Int(2, 5)
		q := open(fmt.Sprintf("This rectangle is split into two parts. The first part is %d × %d = %d. What is the area of the second part (%d × %d)?",
			h, w1, h*w1, h, w2), itoa(h*w2), nil)
		return withVisual(q, worksheet.VisualData{
			Type: worksheet.VisualCompositeArea, Rect1: &worksheet.Rect{W: w1, H: h}, Rect2: &worksheet.Rect{W: w2, H: h}, Arrangement: "distributive",
		}), nil
	}
}

var mdPerimeterVariants = VariantMap{
	"Missing Side":              {0, 9},
	"Sum of All Sides":          {1, 5, 4},
	"Odd Shapes":                {4, 5},
	"Relate Area and Perimeter": {3, 2, 6, 7, 8},
}

// genPerimeter covers 3.MD.C.8: perimeter of polygons and its relation to area.
func genPerimeter(g *Generator, req Request) (worksheet.Question, error) {
	v, err := g.SelectVariant(variants(0, 9), req.Subcategories, mdPerimeterVariants)
	if err != nil {
		return worksheet.Question{}, err
	}

	switch v {
	case 0:
		w, h := g.Int(3, 9), g.Int(2, 8)
		q := open(fmt.Sprintf("The perimeter of this rectangle is %d. The width is %d. Find the height.", 2*(w+h), w), itoa(h), nil)
		return withVisual(q, worksheet.VisualData{Type: worksheet.VisualAreaModel, WidthLabel: itoa(w), HeightLabel: "?"}), nil

	case 1:
		name := oneOf(g, "rug", "sandbox", "poster", "garden", "room")
		w, h := g.Int(3, 10), g.Int(3, 8)
		answer := fmt.Sprintf("%d ft", 2*(w+h))
		return mc(fmt.Sprintf("A %s is %d ft long and %d ft wide. What is the perimeter around it?", name, w, h), answer,
			g.Distractors(answer, NumberDistractors)), nil

	case 2:
		w1, h1, w2, h2 := g.Int(3, 6), g.Int(3, 6), g.Int(3, 6), g.Int(3, 6)
		answer := "No"
		if w1+h1 == w2+h2 {
			answer = "Yes"
		}
		q := mc("Do these two rectangles have the same PERIMETER?", answer, []string{"Yes", "No"})
		return withVisual(q, worksheet.VisualData{
			Type: worksheet.VisualCompositeArea, Rect1: &worksheet.Rect{W: w1, H: h1}, Rect2: &worksheet.Rect{W: w2, H: h2}, Arrangement: "distributive",
		}), nil

	case 3:
		type pair struct{ area, a1, b1, a2, b2 int }
		p := oneOf(g, pair{12, 3, 4, 2, 6}, pair{16, 4, 4, 2, 8}, pair{24, 4, 6, 3, 8}, pair{18, 3, 6, 2, 9})
		return mc(fmt.Sprintf("Rectangles A and B both have an area of %d sq units. Rectangle A is %dx%d. Rectangle B is %dx%d. Do they have the same perimeter?",
			p.area, p.a1, p.b1, p.a2, p.b2), "No", []string{"Yes", "No"}), nil

	case 4:
		sides := make([]string, g.Int(3, 5))
		total := 0
		for i := range sides {
			s := g.Int(3, 8)
			total += s
			sides[i] = itoa(s)
		}
		return open(fmt.Sprintf("Find the perimeter of a shape with sides: %s.", strings.Join(sides, ", ")), itoa(total), nil), nil

	case 5:
		// Cutting a corner out of a rectangle leaves its perimeter unchanged.
		width, height := g.Int(2, 5)+g.Int(2, 5), g.Int(2, 5)+g.Int(2, 5)
		return open(fmt.Sprintf("An L-shaped room is made by cutting a corner out of a %dm by %dm rectangle. What is the perimeter of the room?", width, height),
			fmt.Sprintf("%d m", 2*(width+height)), nil), nil

	case 6:
		target := oneOf(g, 10, 12, 14, 16, 18, 20)
		q := open(fmt.Sprintf("Draw a rectangle with a perimeter of %d units.", target), "(Teacher Check)", nil)
		return withVisual(q, worksheet.VisualData{Type: worksheet.VisualTiledArea, Rows: 6, Cols: 8}), nil

	case 7:
		side := g.Int(4, 10)
		p := 4 * side
		answer := fmt.Sprintf("%d ft", side)
		return mc(fmt.Sprintf("A square garden has a perimeter of %d feet. How long is each side?", p), answer, g.UniqueOptions(
			answer, fmt.Sprintf("%d ft", side*2), fmt.Sprintf("%d ft", p/2), fmt.Sprintf("%d ft", side-1),
		)), nil

	case 8:
		s := g.Int(3, 6)
		p, a := 4*s, s*s
		if p == a {
			return worksheet.Question{}, errDegenerate
		}
		answer := fmt.Sprintf("Perimeter is %d, Area is %d.", p, a)
		return mc(fmt.Sprintf("A square has side length %d. Which is true?", s), answer, g.UniqueOptions(
			answer,
			fmt.Sprintf("Perimeter is %d, Area is %d.", a, p),
			"Perimeter and Area are the same.",
			fmt.Sprintf("Perimeter is %d, Area is %d.", 2*s, 4*s),
		)), nil

	default:
		known := []int{g.Int(2, 5), g.Int(2, 5), g.Int(2, 5)}
		missing := g.Int(2, 5)
		p := known[0] + known[1] + known[2] + missing
		return open(fmt.Sprintf("The perimeter of this shape is %d. Lengths of known sides are %d, %d, %d. What is the length of the missing side?",
			p, known[0], known[1], known[2]), itoa(missing), nil), nil
	}
}

var mdVolumeVariants = VariantMap{
	"Estimate Volume": {2, 3},
	"Estimate Mass":   {2, 3},
	"Word Problems":   {4, 5},
	"Reading Scales":  {1},
	"Reading Volume":  {0},
}

// genVolumeMass covers 3.MD.A.2: liquid volume in liters and milliliters and
// mass in grams and kilograms.
func genVolumeMass(g *Generator, req Request) (worksheet.Question, error) {
	v, err := g.SelectVariant(variants(0, 5), req.Subcategories, mdVolumeVariants)
	if err != nil {
		return worksheet.Question{}, err
	}
	c := g.Character(req.Names)
	volumeOnly := has(req.Subcategories, "Estimate Volume") && !has(req.Subcategories, "Estimate Mass")
	massOnly := has(req.Subcategories, "Estimate Mass") && !has(req.Subcategories, "Estimate Volume")
	volume := volumeOnly || !massOnly && g.chance(0.5)

	switch v {
	case 0:
		capacity := oneOf(g, 100, 200, 500, 1000)
		level := g.Int(1, 9) * capacity / 10
		answer := fmt.Sprintf("%d mL", level)
		q := mc("How much liquid is in the beaker?", answer, g.UniqueOptions(
			answer, fmt.Sprintf("%d mL", capacity), fmt.Sprintf("%d mL", level+10), fmt.Sprintf("%d mL", level-10),
		))
		return withVisual(q, worksheet.VisualData{
			Type: worksheet.VisualMeasurementContainer, ShapeName: "beaker", Capacity: capacity, FluidLevel: float64(level), TickStrategy: "standard",
		}), nil

	case 1:
		weight := g.Int(5, 95) * 5
		answer := fmt.Sprintf("%d g", weight)
		q := mc("What is the mass shown on the scale?", answer, g.UniqueOptions(
			answer, fmt.Sprintf("%d g", weight+50), fmt.Sprintf("%d g", weight-25), "500 g",
		))
		return withVisual(q, worksheet.VisualData{Type: worksheet.VisualMeasurementContainer, ShapeName: "scale", Weight: float64(weight)}), nil

	case 2:
		if volume {
			item := oneOf(g, "spoon", "bucket", "pool", "cup")
			answer := "Liters (L)"
			if item == "spoon" || item == "cup" {
				answer = "Milliliters (mL)"
			}
			return mc(fmt.Sprintf("Which unit would you use to measure the water in a %s?", item), answer,
				g.UniqueOptions("Milliliters (mL)", "Liters (L)", "Grams (g)", "Kilograms (kg)")), nil
		}
		item := oneOf(g, "paper clip", "bicycle", "dog", "feather")
		answer := "Grams (g)"
		if item == "bicycle" || item == "dog" {
			answer = "Kilograms (kg)"
		}
		return mc(fmt.Sprintf("Which unit is best to measure the mass of a %s?", item), answer,
			g.UniqueOptions("Grams (g)", "Kilograms (kg)", "Liters (L)", "Meters (m)")), nil

	case 3:
		if volume {
			type est struct{ item, answer, a, b, c string }
			e := oneOf(g,
				est{"juice box", "200 milliliters", "20 liters", "2 milliliters", "200 liters"},
				est{"bathtub", "150 liters", "150 milliliters", "15 milliliters", "1,500 liters"},
				est{"teaspoon", "5 milliliters", "5 liters", "50 liters", "500 milliliters"},
			)
			return mc(fmt.Sprintf("About how much liquid is in a %s?", e.item), e.answer,
				g.UniqueOptions(e.answer, e.a, e.b, e.c)), nil
		}
		type est struct{ item, answer, a, b, c string }
		e := oneOf(g,
			est{"large apple", "200 grams", "200 kilograms", "2 grams", "20 kilograms"},
			est{"bag of flour", "2 kilograms", "2 grams", "200 kilograms", "20 grams"},
			est{"paper clip", "1 gram", "1 kilogram", "100 grams", "10 kilograms"},
		)
		return mc(fmt.Sprintf("About how much mass does a %s have?", e.item), e.answer,
			g.UniqueOptions(e.answer, e.a, e.b, e.c)), nil

	case 4:
		mass := g.chance(0.5)
		start, change := g.Int(20, 100), g.Int(5, 15)
		add := g.chance(0.5)
		unit, stuff, action := "L", "water", "poured out"
		switch {
		case mass && add:
			unit, stuff, action = "kg", "flour", "bought"
		case mass:
			unit, stuff, action = "kg", "flour", "used"
		case add:
			action = "poured in"
		}
		ans := start - change
		if add {
			ans = start + change
		}
		return open(fmt.Sprintf("%s had %d %s of %s. %s %s %d %s. How much %s does %s have now?",
			c.Name, start, unit, stuff, c.SubjectiveTitle, action, change, unit, stuff, c.Subjective), fmt.Sprintf("%d %s", ans, unit), nil), nil

	default:
		unit := oneOf(g, "g", "mL")
		groups, each := g.Int(3, 8), g.Int(5, 100)
		if g.chance(0.5) {
			return open(fmt.Sprintf("%s has %d containers. Each holds %d %s. What is the total?", c.Name, groups, each, unit),
				fmt.Sprintf("%d %s", groups*each, unit), nil), nil
		}
		return open(fmt.Sprintf("%s has %d %s of soup to divide equally into %d bowls. How much goes in each bowl?", c.Name, groups*each, unit, groups),
			fmt.Sprintf("%d %s", each, unit), nil), nil
	}
}
