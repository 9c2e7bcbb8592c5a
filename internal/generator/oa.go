package generator

import (
	"fmt"
	"strings"

	"github.com/p-n-ai/worksheet-gen/internal/worksheet"
)

var oa1Variants = VariantMap{
	"Arrays":            {1, 8, 10},
	"Groups of":         {2, 4, 6, 10},
	"Repeated Addition": {3, 10},
	"Number Lines":      {5, 10},
}

// genMultiplication covers 3.OA.A.1, interpreting products as equal groups.
func genMultiplication(g *Generator, req Request) (worksheet.Question, error) {
	v, err := g.SelectVariant(variants(1, 10), req.Subcategories, oa1Variants)
	if err != nil {
		return worksheet.Question{}, err
	}

	switch v {
	case 1:
		r, c := g.Int(2, 5), g.Int(2, 6)
		p := r * c
		answer := fmt.Sprintf("%d × %d = %d", r, c, p)
		q := mc("Which multiplication equation matches the array shown?", answer, g.UniqueOptions(
			answer,
			fmt.Sprintf("%d + %d = %d", r, c, r+c),
			fmt.Sprintf("%d × %d = %d", c, r+1, p+c),
			fmt.Sprintf("%d × %d = %d", r, r, r*r),
		))
		return withVisual(q, worksheet.VisualData{Type: worksheet.VisualArrayGroup, Rows: r, Cols: c}), nil

	case 2:
		groups, each := g.Int(2, 5), g.Int(2, 5)
		total := groups * each
		q := mc(fmt.Sprintf("There are %d groups. Each group has %d dots. How many total dots?", groups, each),
			itoa(total), g.Distractors(itoa(total), NumberDistractors))
		return withVisual(q, worksheet.VisualData{Type: worksheet.VisualArrayGroup, GroupCount: groups, ItemCount: each}), nil

	case 3:
		num, count := g.Int(3, 9), g.Int(3, 5)
		sum := repeatJoin(num, count, " + ")
		if g.chance(0.5) {
			answer := fmt.Sprintf("%d × %d", count, num)
			return mc(fmt.Sprintf("Which multiplication expression is equal to: %s?", sum), answer, g.UniqueOptions(
				answer,
				fmt.Sprintf("%d × %d", num, num),
				fmt.Sprintf("%d + %d", count, num),
				fmt.Sprintf("%d + 1", count*num),
			)), nil
		}
		return mc(fmt.Sprintf("Which repeated addition statement is the same as %d × %d = %d?", count, num, count*num), sum,
			g.UniqueOptions(
				sum,
				repeatJoin(count, num, " + "),
				fmt.Sprintf("%d + %d", count, num),
				repeatJoin(num+1, count, " + "),
			)), nil

	case 4:
		groups, each := g.Int(2, 5), g.Int(2, 5)
		total := groups * each
		answer := fmt.Sprintf("%d × %d = %d", groups, each, total)
		q := open("Write a multiplication problem that shows the total number of stars.", answer, g.UniqueOptions(
			answer,
			fmt.Sprintf("%d + %d = %d", groups, each, groups+each),
			fmt.Sprintf("%d × %d = %d", groups, groups, groups*groups),
			fmt.Sprintf("%d × %d = %d", groups, each+1, groups*(each+1)),
		))
		return withVisual(q, worksheet.VisualData{
			Type: worksheet.VisualArrayGroup, GroupCount: groups, ItemCount: each, ItemShape: "star",
		}), nil

	case 5:
		size := oneOf(g, 2, 3, 4, 5)
		jumps := g.Int(2, max(2, 20/size))
		total := size * jumps
		answer := fmt.Sprintf("%d × %d = %d", jumps, size, total)
		q := mc("Which multiplication equation matches the jumps on the number line?", answer, g.UniqueOptions(
			answer,
			fmt.Sprintf("%d + %d = %d", jumps, size, jumps+size),
			fmt.Sprintf("%d × %d = %d", jumps+1, size, total+size),
			fmt.Sprintf("%d ÷ %d = %d", total, size, jumps),
		))
		return withVisual(q, worksheet.VisualData{
			Type:      worksheet.VisualNumberLine,
			Start:     fptr(0),
			End:       fptr(20),
			TickCount: 20,
			Jumps:     []worksheet.Jump{{Start: 0, Size: float64(size), Count: jumps}},
		}), nil

	case 6:
		groups, each := g.Int(3, 8), g.Int(3, 8)
		ctx := g.Context(req.Names)
		answer := fmt.Sprintf("The number of %s in each %s", ctx.Item.Plural, ctx.Item.Container)
		return mc(fmt.Sprintf("In the equation %d × %d = %d, if %d represents the number of %s, what does %d represent?",
			groups, each, groups*each, groups, ctx.Item.Containers(), each), answer,
			g.UniqueOptions(
				answer,
				"The total number of "+ctx.Item.Plural,
				"The total number of "+ctx.Item.Containers(),
				fmt.Sprintf("The number of %s left over", ctx.Item.Containers()),
			)), nil

	case 7:
		n1, n2 := g.Int(2, 6), g.Int(3, 9)
		if n1 == n2 {
			return worksheet.Question{}, errDegenerate
		}
		it := g.Context(req.Names).Item
		answer := fmt.Sprintf("%d %s with %d %s in each.", n1, it.Containers(), n2, it.Plural)
		return mc(fmt.Sprintf("Which story matches the expression %d × %d?", n1, n2), answer, g.UniqueOptions(
			answer,
			fmt.Sprintf("%d %s plus %d %s.", n1, it.Plural, n2, it.Plural),
			fmt.Sprintf("%d %s and %d %s.", n1, it.Containers(), n2, it.Plural),
			fmt.Sprintf("%d %s with %d %s in each.", n2, it.Containers(), n1, it.Plural),
		)), nil

	case 8:
		r, c := g.Int(2, 6), g.Int(2, 6)
		q := open(fmt.Sprintf("Draw an array to show %d × %d.", r, c),
			fmt.Sprintf("(Teacher Check: Student should draw %d rows of %d items)", r, c), nil)
		return withVisual(q, worksheet.VisualData{Type: worksheet.VisualAreaModel, WidthLabel: " ", HeightLabel: " "}), nil

	case 9:
		a, b := g.Int(3, 9), g.Int(3, 9)
		if a == b {
			return worksheet.Question{}, errDegenerate
		}
		answer := fmt.Sprintf("%d × %d", b, a)
		return mc(fmt.Sprintf("Which expression represents the same total as %d × %d?", a, b), answer, g.UniqueOptions(
			answer,
			fmt.Sprintf("%d + %d", a, b),
			fmt.Sprintf("%d ÷ %d", b, a),
			fmt.Sprintf("%d%d", a, b),
		)), nil

	default:
		return multiplicationModels(g, req), nil
	}
}

// multiplicationModels asks which of four pictured models shows a product.
// The models travel in VisualOptions and the answer names a letter.
func multiplicationModels(g *Generator, req Request) worksheet.Question {
	r, c := g.Int(2, 4), g.Int(2, 5)
	p := r * c

	modes := []string{"array", "groups", "number-line", "expression"}
	if len(req.Subcategories) > 0 {
		modes = nil
		for _, m := range [][2]string{
			{"Arrays", "array"}, {"Groups of", "groups"}, {"Number Lines", "number-line"}, {"Repeated Addition", "expression"},
		} {
			if has(req.Subcategories, m[0]) {
				modes = append(modes, m[1])
			}
		}
		if len(modes) == 0 {
			modes = []string{"array"}
		}
	}
	mode, _ := Pick(g, modes)

	var correct worksheet.VisualData
	switch mode {
	case "array":
		correct = worksheet.VisualData{Type: worksheet.VisualArrayGroup, Rows: r, Cols: c}
	case "groups":
		correct = worksheet.VisualData{Type: worksheet.VisualArrayGroup, GroupCount: r, ItemCount: c}
	case "number-line":
		correct = worksheet.VisualData{
			Type: worksheet.VisualNumberLine, Start: fptr(0), End: fptr(float64(p + 2)), TickCount: p + 2,
			Jumps: []worksheet.Jump{{Start: 0, Size: float64(c), Count: r}},
		}
	default:
		correct = worksheet.VisualData{Type: worksheet.VisualExpression, Expression: repeatJoin(c, r, " + ")}
	}

	choices := []worksheet.VisualData{correct}
	switch {
	case r+c == p:
		choices = append(choices, worksheet.VisualData{Type: worksheet.VisualExpression, Expression: fmt.Sprintf("%d + %d + 1", r, c)})
	case g.chance(0.5):
		choices = append(choices, worksheet.VisualData{Type: worksheet.VisualArrayGroup, RowLengths: []int{r, c}})
	default:
		choices = append(choices, worksheet.VisualData{Type: worksheet.VisualExpression, Expression: fmt.Sprintf("%d + %d", r, c)})
	}
	if mode == "array" || mode == "groups" {
		choices = append(choices, worksheet.VisualData{Type: worksheet.VisualArrayGroup, Rows: r, Cols: c + 1})
	} else {
		choices = append(choices, worksheet.VisualData{
			Type: worksheet.VisualNumberLine, Start: fptr(0), End: fptr(float64(p + 5)), TickCount: p + 5,
			Jumps: []worksheet.Jump{{Start: 0, Size: float64(c + 1), Count: r}},
		})
	}
	if mode == "number-line" {
		choices = append(choices, worksheet.VisualData{Type: worksheet.VisualArrayGroup, GroupCount: r, ItemCount: c + 1})
	} else {
		choices = append(choices, worksheet.VisualData{Type: worksheet.VisualExpression, Expression: repeatJoin(c+1, r, " + ")})
	}

	order := []int{0, 1, 2, 3}
	shuffle(g, order)
	shown := make([]worksheet.VisualData, len(order))
	letters := []string{"Option A", "Option B", "Option C", "Option D"}
	answer := ""
	for pos, idx := range order {
		shown[pos] = choices[idx]
		if idx == 0 {
			answer = letters[pos]
		}
	}

	q := mc(fmt.Sprintf("Which model shows %d × %d = %d?", r, c, p), answer, letters)
	return withVisual(q, worksheet.VisualData{Type: worksheet.VisualArrayGroup, VisualOptions: shown})
}

var oa2Variants = VariantMap{
	"Arrays":               {1},
	"Repeated Subtraction": {2},
	"Number Lines":         {3},
	"Equal Groups":         {4, 5, 6, 8},
}

// genDivision covers 3.OA.A.2, interpreting quotients as shares or groups.
func genDivision(g *Generator, req Request) (worksheet.Question, error) {
	v, err := g.SelectVariant(variants(1, 8), req.Subcategories, oa2Variants)
	if err != nil {
		return worksheet.Question{}, err
	}

	groups, each := g.Int(2, 5), g.Int(2, 5)
	total := groups * each

	switch v {
	case 1:
		answer := fmt.Sprintf("%d ÷ %d = %d", total, groups, each)
		q := open("Write a division equation that fits this array.", answer, g.UniqueOptions(
			answer,
			fmt.Sprintf("%d - %d = %d", total, groups, total-groups),
			fmt.Sprintf("%d ÷ %d = %d", total, each+1, groups),
			fmt.Sprintf("%d + %d = %d", total, groups, total+groups),
		))
		return withVisual(q, worksheet.VisualData{Type: worksheet.VisualArrayGroup, Rows: groups, Cols: each}), nil

	case 2:
		answer := fmt.Sprintf("%d ÷ %d = %d", total, each, groups)
		return mc(fmt.Sprintf("Which division equation matches this repeated subtraction?\n%d - %s = 0", total, repeatJoin(each, groups, " - ")),
			answer, g.UniqueOptions(
				answer,
				fmt.Sprintf("%d - %d = %d", total, each, total-each),
				fmt.Sprintf("%d × %d = %d", total, each, total*each),
				fmt.Sprintf("%d ÷ %d = %d", total, groups+1, each),
			)), nil

	case 3:
		size, count := g.Int(2, 5), g.Int(2, 4)
		start := size * count
		answer := fmt.Sprintf("%d ÷ %d = %d", start, size, count)
		q := mc("Which division equation matches the jumps on the number line?", answer, g.UniqueOptions(
			answer,
			fmt.Sprintf("%d - %d = %d", start, size, start-size),
			fmt.Sprintf("%d ÷ %d = %d", start+size, size, count+1),
			fmt.Sprintf("%d + %d = %d", start, size, start+size),
		))
		return withVisual(q, worksheet.VisualData{
			Type:      worksheet.VisualNumberLine,
			Start:     fptr(0),
			End:       fptr(20),
			TickCount: 20,
			Jumps:     []worksheet.Jump{{Start: float64(start), Size: float64(-size), Count: count}},
		}), nil

	case 4:
		q := open(fmt.Sprintf("There are %d circles. If you put them into groups of %d, how many groups will you have?", total, each),
			itoa(groups), nil)
		return withVisual(q, worksheet.VisualData{Type: worksheet.VisualArrayGroup, GroupCount: groups, ItemCount: each}), nil

	case 5:
		it := g.Context(req.Names).Item
		if g.chance(0.5) {
			answer := fmt.Sprintf("The number of %s each friend gets", it.Plural)
			return mc(fmt.Sprintf("In the equation %d ÷ %d = %d, if %d is the total number of %s and %d is the number of friends sharing them, what does %d represent?",
				total, groups, each, total, it.Plural, groups, each), answer,
				g.UniqueOptions(answer, "The number of groups", "The total number of "+it.Plural, fmt.Sprintf("The number of %s left over", it.Plural))), nil
		}
		return mc(fmt.Sprintf("In the equation %d ÷ %d = %d, if you have %d %s and put %d in each bag, what does %d represent?",
			total, each, groups, total, it.Plural, each, groups), "The number of bags",
			g.UniqueOptions("The number of bags", fmt.Sprintf("The number of %s per bag", it.Plural), "The total number of "+it.Plural, "The total number of friends")), nil

	case 6:
		c := g.Character(req.Names)
		it := g.Context(req.Names).Item
		story := fmt.Sprintf("%s puts %d %s into bags with %d in each bag.", c.Name, total, it.Plural, each)
		answer := fmt.Sprintf("%d ÷ %d = %d", total, each, groups)
		if g.chance(0.5) {
			story = fmt.Sprintf("%s has %d %s and shares them equally among %d friends.", c.Name, total, it.Plural, groups)
			answer = fmt.Sprintf("%d ÷ %d = %d", total, groups, each)
		}
		return mc(story+" Which equation matches this story?", answer, g.UniqueOptions(
			answer,
			fmt.Sprintf("%d - %d = %d", total, groups, each),
			fmt.Sprintf("%d + %d = %d", total, groups, each),
			fmt.Sprintf("%d × %d = %d", total, groups, total*groups),
		)), nil

	case 7:
		return open(fmt.Sprintf("Use multiplication to help you solve division.\n\n%d × ? = %d, so %d ÷ %d = ?", each, total, total, each),
			itoa(groups), g.Distractors(itoa(groups), NumberDistractors)), nil

	default:
		it := g.Context(req.Names).Item
		answer := fmt.Sprintf("Sharing %d %s equally into %d baskets.", total, it.Plural, groups)
		return mc(fmt.Sprintf("Which word problem can be solved using the equation %d ÷ %d = %d?", total, groups, each), answer,
			g.UniqueOptions(
				answer,
				fmt.Sprintf("Buying %d bags with %d %s in each.", groups, total, it.Plural),
				fmt.Sprintf("Having %d %s and finding %d more.", total, it.Plural, groups),
				fmt.Sprintf("Having %d %s and losing %d of them.", total, it.Plural, groups),
			)), nil
	}
}

type opFilter int

const (
	opBoth opFilter = iota
	opMult
	opDiv
)

func operationFilter(subs []string) opFilter {
	mult, div := has(subs, "Multiplication"), has(subs, "Division")
	switch {
	case mult && !div:
		return opMult
	case div && !mult:
		return opDiv
	}
	return opBoth
}

type storyTemplate struct {
	div    bool
	text   string
	answer int
}

// genWordProblems covers 3.OA.A.3: one-step stories with equal groups,
// arrays and measurement, plus reasoning and error analysis families.
// "Multiplication" or "Division" alone restricts the operation.
func genWordProblems(g *Generator, req Request) (worksheet.Question, error) {
	op := operationFilter(req.Subcategories)
	c := g.Character(req.Names)
	it := g.Context(req.Names).Item

	switch g.Int(0, 6) {
	case 0:
		a, b := g.Int(2, 9), g.Int(2, 9)
		total := a * b
		mult := []storyTemplate{
			{text: fmt.Sprintf("%s has %d baskets. Each basket has %d apples. How many apples does %s have in total?", c.Name, a, b, c.Subjective), answer: total},
			{text: fmt.Sprintf("%s bought %d packs of gum. Each pack has %d pieces. How many pieces of gum does %s have?", c.Name, a, b, c.Subjective), answer: total},
			{text: fmt.Sprintf("There are %d teams in the league. Each team has %d players. How many players are there altogether?", a, b), answer: total},
			{text: fmt.Sprintf("A classroom has %d rows of desks with %d desks in each row. How many desks are in the classroom?", a, b), answer: total},
			{text: fmt.Sprintf("A gardener planted %d rows of carrots. There were %d carrots in each row. How many carrots were planted?", a, b), answer: total},
			{text: fmt.Sprintf("There are %d spiders on the wall. Each spider has %d legs. How many legs are there in total?", a, b), answer: total},
			{text: fmt.Sprintf("%s bought %d ice cream cones. Each cone cost $%d. How much did %s spend?", c.Name, a, b, c.Subjective), answer: total},
		}
		div := []storyTemplate{
			{div: true, text: fmt.Sprintf("%s has %d stickers. %s wants to share them equally among %d friends. How many stickers does each friend get?", c.Name, total, c.SubjectiveTitle, a), answer: b},
			{div: true, text: fmt.Sprintf("%s made %d cookies. %s put them into %d equal bags. How many cookies are in each bag?", c.Name, total, c.SubjectiveTitle, a), answer: b},
			{div: true, text: fmt.Sprintf("%s has %d photos. Each page of %s album holds %d photos. How many pages does %s need?", c.Name, total, c.Possessive, b, c.Subjective), answer: a},
			{div: true, text: fmt.Sprintf("A chef has %d eggs. A carton holds %d eggs. How many cartons can the chef fill?", total, b), answer: a},
		}
		pool := append(mult, div...)
		switch op {
		case opMult:
			pool = mult
		case opDiv:
			pool = div
		}
		t, err := Pick(g, pool)
		if err != nil {
			return worksheet.Question{}, err
		}
		answer := itoa(t.answer)
		if strings.Contains(t.text, "$") && !t.div {
			answer = "$" + answer
		}
		return open(t.text, answer, nil), nil

	case 1:
		a, b := g.Int(2, 9), g.Int(2, 9)
		multiply := g.chance(0.5)
		if op == opMult {
			multiply = true
		} else if op == opDiv {
			multiply = false
		}
		text := fmt.Sprintf("%s has %d %s to share among %d friends. Should you multiply or divide to find how many each friend gets?", c.Name, a*b, it.Plural, a)
		answer := "Divide"
		if multiply {
			text = fmt.Sprintf("%s has %d bags with %d %s in each. Should you multiply or divide to find the total?", c.Name, a, b, it.Plural)
			answer = "Multiply"
		}
		return mc(text, answer, g.UniqueOptions("Multiply", "Divide", "Add", "Subtract")), nil

	case 2:
		rows, cols := g.Int(3, 9), g.Int(3, 9)
		return open(fmt.Sprintf("A marching band stands in %d rows. There are %d musicians in total. How many musicians are in each row?", rows, rows*cols),
			itoa(cols), nil), nil

	case 3:
		piles := g.Int(2, 4)
		total := g.Int(2, 5) * g.Int(3, 6)
		for total%piles != 0 {
			total++
		}
		return open(fmt.Sprintf("%s had %d %s. %s put them into %d equal piles. Then %s used one pile. How many %s did %s use?",
			c.Name, total, it.Plural, c.SubjectiveTitle, piles, c.Subjective, it.Plural, c.Subjective), itoa(total/piles), nil), nil

	case 4:
		n := g.Int(2, 9)
		total := n * g.Int(2, 9)
		letter := strings.ToUpper(it.Plural[:1])
		text := fmt.Sprintf("%s has %d %s. %s places them into %d equal jars. Which equation helps you find how many are in each jar (%s)?",
			c.Name, total, it.Plural, c.SubjectiveTitle, n, letter)
		answer := fmt.Sprintf("%d ÷ %d = %s", total, n, letter)
		if op == opMult {
			m1, m2 := g.Int(3, 9), g.Int(3, 9)
			text = fmt.Sprintf("%s has %d jars with %d %s in each. Which equation finds the total (%s)?", c.Name, m1, m2, it.Plural, letter)
			answer = fmt.Sprintf("%d × %d = %s", m1, m2, letter)
		}
		return mc(text, answer, g.UniqueOptions(
			answer,
			fmt.Sprintf("%d ÷ %d = %s", total, n, letter),
			fmt.Sprintf("%d × %d = %s", total, n, letter),
			fmt.Sprintf("%d - %d = %s", total, n, letter),
		)), nil

	case 5:
		if op == opDiv {
			return worksheet.Question{}, errDegenerate
		}
		a, b, room := g.Int(3, 9), g.Int(3, 9), g.Int(10, 50)
		return open(fmt.Sprintf("%s read %d books. Each book had %d chapters. The books were in Room %d. How many chapters did %s read in all?",
			c.Name, a, b, room, c.Subjective), itoa(a*b), nil), nil

	default:
		a, b := g.Int(3, 8), g.Int(3, 8)
		answer := "The student added instead of multiplied."
		return mc(fmt.Sprintf("%s has %d bags. Each bag has %d apples. A student said there are %d apples total. What mistake did the student make?",
			c.Name, a, b, a+b), answer, g.UniqueOptions(
			answer,
			"The student subtracted instead of added.",
			"The answer is correct.",
			"The student multiplied correctly.",
		)), nil
	}
}

var oa4Variants = VariantMap{
	"Missing Factor":   {0, 1},
	"Missing Quotient": {2},
	"Missing Dividend": {3},
}

// genUnknownFactor covers 3.OA.A.4.
func genUnknownFactor(g *Generator, req Request) (worksheet.Question, error) {
	v, err := g.SelectVariant(variants(0, 3), req.Subcategories, oa4Variants)
	if err != nil {
		return worksheet.Question{}, err
	}
	a, b := g.Int(2, 9), g.Int(2, 9)
	p := a * b

	var text string
	answer := b
	switch v {
	case 0:
		text = fmt.Sprintf("Find the missing number: %d × ? = %d", a, p)
	case 1:
		text = fmt.Sprintf("Find the missing number: ? × %d = %d", a, p)
	case 2:
		text = fmt.Sprintf("Find the missing number: %d ÷ %d = ?", p, a)
	default:
		text = fmt.Sprintf("Find the missing number: ? ÷ %d = %d", a, b)
		answer = p
	}
	return open(text, itoa(answer), g.Distractors(itoa(answer), NumberDistractors)), nil
}

var oab5Variants = VariantMap{
	"Commutative":  {0},
	"Associative":  {1},
	"Distributive": {2},
	"Identity":     {3},
}

// genProperties covers 3.OA.B.5: naming the property an equation shows.
func genProperties(g *Generator, req Request) (worksheet.Question, error) {
	v, err := g.SelectVariant(variants(0, 3), req.Subcategories, oab5Variants)
	if err != nil {
		return worksheet.Question{}, err
	}
	a, b, c := g.Int(2, 9), g.Int(2, 9), g.Int(2, 9)

	var eq, answer string
	switch v {
	case 0:
		if a == b {
			return worksheet.Question{}, errDegenerate
		}
		eq, answer = fmt.Sprintf("%d × %d = %d × %d", a, b, b, a), "Commutative Property"
	case 1:
		eq, answer = fmt.Sprintf("(%d × %d) × %d = %d × (%d × %d)", a, b, c, a, b, c), "Associative Property"
	case 2:
		eq, answer = fmt.Sprintf("%d × (%d + %d) = (%d × %d) + (%d × %d)", a, b, c, a, b, a, c), "Distributive Property"
	default:
		eq, answer = fmt.Sprintf("%d × 1 = %d", a, a), "Identity Property"
	}
	return mc(fmt.Sprintf("Which property is shown by this equation?\n%s", eq), answer, g.UniqueOptions(
		"Commutative Property", "Associative Property", "Distributive Property", "Identity Property",
	)), nil
}

var oa9Variants = VariantMap{
	"Next Term": {0},
	"Find Rule": {1},
	"Odd/Even":  {2},
}

// genPatterns covers 3.OA.A.9: arithmetic patterns.
func genPatterns(g *Generator, req Request) (worksheet.Question, error) {
	v, err := g.SelectVariant(variants(0, 2), req.Subcategories, oa9Variants)
	if err != nil {
		return worksheet.Question{}, err
	}
	step := g.Int(2, 10)
	start := g.Int(1, 20)
	terms := make([]string, 4)
	for i := range terms {
		terms[i] = itoa(start + i*step)
	}
	next := start + 4*step

	switch v {
	case 0:
		return open(fmt.Sprintf("What comes next: %s, __", strings.Join(terms, ", ")), itoa(next),
			g.UniqueOptions(itoa(next), itoa(next+step), itoa(next-1), itoa(next+1))), nil
	case 1:
		answer := fmt.Sprintf("Add %d", step)
		return mc(fmt.Sprintf("What is the rule for this pattern? %s", strings.Join(terms, ", ")), answer, g.UniqueOptions(
			answer, fmt.Sprintf("Add %d", step+1), fmt.Sprintf("Multiply by %d", step), fmt.Sprintf("Subtract %d", step),
		)), nil
	default:
		a := g.Int(2, 9)
		even := a%2 == 0
		answer := "Always even"
		if !even {
			answer = "Can be odd or even"
		}
		return mc(fmt.Sprintf("Is the product of %d and any whole number always even?", a), answer,
			g.UniqueOptions("Always even", "Always odd", "Can be odd or even")), nil
	}
}

// genFluency covers 3.OA.C.7: products and quotients within 100.
func genFluency(g *Generator, req Request) (worksheet.Question, error) {
	a, b := g.Int(2, 10), g.Int(2, 10)
	text, answer := fmt.Sprintf("Solve: %d × %d", a, b), a*b
	switch {
	case has(req.Subcategories, "Division") && !has(req.Subcategories, "Multiplication"), len(req.Subcategories) == 0 && g.chance(0.5):
		text, answer = fmt.Sprintf("Solve: %d ÷ %d", a*b, a), b
	}
	return open(text, itoa(answer), g.Distractors(itoa(answer), NumberDistractors)), nil
}

// genTwoStep covers 3.OA.D.8: two-step stories with a letter for the unknown.
func genTwoStep(g *Generator, req Request) (worksheet.Question, error) {
	c := g.Character(req.Names)
	it := g.Context(req.Names).Item
	letter := strings.ToUpper(it.Plural[:1])

	if g.chance(0.5) {
		packs, each, given := g.Int(2, 6), g.Int(3, 9), g.Int(2, 9)
		left := packs*each - given
		if left <= 0 {
			return worksheet.Question{}, errDegenerate
		}
		text := fmt.Sprintf("%s buys %d packs of %s with %d in each pack. %s gives away %d. Which equation shows how many %s %s has left (%s)?",
			c.Name, packs, it.Plural, each, c.SubjectiveTitle, given, it.Plural, c.Subjective, letter)
		answer := fmt.Sprintf("%d × %d - %d = %s", packs, each, given, letter)
		return mc(text, answer, g.UniqueOptions(
			answer,
			fmt.Sprintf("%d × %d + %d = %s", packs, each, given, letter),
			fmt.Sprintf("%d + %d - %d = %s", packs, each, given, letter),
			fmt.Sprintf("%d × %d × %d = %s", packs, each, given, letter),
		)), nil
	}

	start, add, friends := g.Int(10, 30), g.Int(5, 20), g.Int(2, 5)
	total := start + add
	for total%friends != 0 {
		total++
	}
	add = total - start
	return open(fmt.Sprintf("%s has %d %s and gets %d more. %s shares them equally among %d friends. How many %s does each friend get?",
		c.Name, start, it.Plural, add, c.SubjectiveTitle, friends, it.Plural), itoa(total/friends), nil), nil
}
