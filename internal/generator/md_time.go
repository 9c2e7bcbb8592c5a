package generator

import (
	"fmt"
	"strconv"

	"github.com/p-n-ai/worksheet-gen/internal/worksheet"
)

var mdTimeVariants = VariantMap{
	"Telling Time":  {0, 3},
	"Word Problems": {1, 2, 4, 5, 6},
}

// genTime covers 3.MD.A.1a: telling time and elapsed time to the minute.
// Clock arithmetic runs on minutes past midnight and renders on a 12 hour face.
func genTime(g *Generator, req Request) (worksheet.Question, error) {
	v, err := g.SelectVariant(variants(0, 8), req.Subcategories, mdTimeVariants)
	if err != nil {
		return worksheet.Question{}, err
	}

	h := g.Int(1, 12)
	m := oneOf(g, 0, 5, 10, 15, 20, 25, 30, 35, 40, 45, 50, 55)
	at := h*60 + m
	shown := formatClock(at)
	c := g.Character(req.Names)
	clock := worksheet.VisualData{Type: worksheet.VisualClock, Time: shown}

	switch v {
	case 0:
		q := mc("What time is shown on the clock?", shown, g.Distractors(shown, TimeDistractors))
		return withVisual(q, clock), nil

	case 1:
		elapsed := oneOf(g, 15, 20, 30, 40, 45, 60)
		end := formatClock(at + elapsed)
		q := mc(fmt.Sprintf("The clock shows when %s started eating lunch. Lunch lasted %d minutes. When did %s finish?",
			c.Name, elapsed, c.Subjective), end, g.Distractors(end, TimeDistractors))
		return withVisual(q, clock), nil

	case 2:
		delay := oneOf(g, 15, 30, 45)
		end := formatClock(at + delay)
		return open(fmt.Sprintf("A train arrives at %s. It is delayed %d minutes. What is the new arrival time?", shown, delay),
			end, nil), nil

	case 3:
		vm, vh := oneOf(g, 15, 30, 45), g.Int(1, 11)
		vocab := formatClock(vh*60 + vm)
		var phrase string
		var wrong []string
		switch vm {
		case 15:
			phrase = fmt.Sprintf("Quarter past %d", vh)
			wrong = []string{fmt.Sprintf("Quarter to %d", vh), fmt.Sprintf("Half past %d", vh), fmt.Sprintf("Quarter past %d", vh+1)}
		case 30:
			phrase = fmt.Sprintf("Half past %d", vh)
			wrong = []string{fmt.Sprintf("Quarter past %d", vh), fmt.Sprintf("Quarter to %d", vh), fmt.Sprintf("Half past %d", vh+1)}
		default:
			phrase = fmt.Sprintf("Quarter to %d", vh+1)
			wrong = []string{fmt.Sprintf("Quarter past %d", vh), fmt.Sprintf("Quarter to %d", vh), fmt.Sprintf("Half past %d", vh)}
		}
		if g.chance(0.5) {
			q := mc("What is another way to say the time shown?", phrase, g.UniqueOptions(append([]string{phrase}, wrong...)...))
			return withVisual(q, worksheet.VisualData{Type: worksheet.VisualClock, Time: vocab}), nil
		}
		return mc(fmt.Sprintf("Which time is the same as %q?", phrase), vocab, g.Distractors(vocab, TimeDistractors)), nil

	case 4:
		duration := oneOf(g, 15, 30, 45, 60)
		start := formatClock(at - duration)
		activity := oneOf(g, "reading", "homework", "soccer practice", "painting")
		q := mc(fmt.Sprintf("The clock shows when %s finished %s. %s started %d minutes before this time. What time did %s start?",
			c.Name, activity, c.SubjectiveTitle, duration, c.Name), start, g.Distractors(start, TimeDistractors))
		return withVisual(q, clock), nil

	case 5:
		duration := g.Int(20, 55)
		return open(fmt.Sprintf("A movie started at %s and ended at %s. How long was the movie?", shown, formatClock(at+duration)),
			fmt.Sprintf("%d minutes", duration), nil), nil

	case 6:
		practice, rest := oneOf(g, 15, 20, 25, 30), oneOf(g, 5, 10, 15)
		end := formatClock(at + practice + rest)
		return mc(fmt.Sprintf("%s practiced piano for %d minutes, then took a %d minute break. If %s started at %s, what time was it after the break?",
			c.Name, practice, rest, c.Subjective, shown), end, g.Distractors(end, TimeDistractors)), nil

	case 7:
		// The slip only shows when the minutes pass 59.
		if m+45 < 60 {
			return worksheet.Question{}, errDegenerate
		}
		prev := h - 1
		if prev == 0 {
			prev = 12
		}
		answer := "Minutes cannot be more than 59. They needed to regroup to the next hour."
		return mc(fmt.Sprintf("A student added 45 minutes to %s and got %d:%d. What is wrong with this answer?", shown, h, m+45), answer,
			g.UniqueOptions(answer, "They subtracted instead of added.", fmt.Sprintf("They should have changed the hour to %d.", prev), "The answer is correct.")), nil

	default:
		answer := "A number line showing time jumps."
		return mc(fmt.Sprintf("Which tool would best help you find how much time passed between %s and %s?", shown, formatClock(at+g.Int(2, 8)*15)),
			answer, g.UniqueOptions(answer, "A ruler.", "A multiplication table.", "A scale.")), nil
	}
}

func formatMoney(cents int) string {
	sign := ""
	if cents < 0 {
		sign, cents = "-", -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}

var mdMoneyVariants = VariantMap{
	"Counting Money": {0, 1},
	"Word Problems":  {2, 3, 4},
	"Add":            {2},
	"Subtract":       {3, 4},
}

// genMoney covers 3.MD.A.1b. Amounts are whole cents throughout.
func genMoney(g *Generator, req Request) (worksheet.Question, error) {
	v, err := g.SelectVariant(variants(0, 7), req.Subcategories, mdMoneyVariants)
	if err != nil {
		return worksheet.Question{}, err
	}
	c := g.Character(req.Names)

	switch v {
	case 0:
		bills, bill := g.Int(0, 2), oneOf(g, 100, 500)
		quarters, dimes := g.Int(1, 4), g.Int(1, 5)
		total := bills*bill + quarters*25 + dimes*10
		var coins []int
		for range bills {
			coins = append(coins, bill)
		}
		for range quarters {
			coins = append(coins, 25)
		}
		for range dimes {
			coins = append(coins, 10)
		}
		var options []string
		for _, o := range g.Distractors(itoa(total), NumberDistractors) {
			cents, _ := strconv.Atoi(o)
			options = append(options, formatMoney(cents))
		}
		q := mc("Count the money shown.", formatMoney(total), options)
		return withVisual(q, worksheet.VisualData{Type: worksheet.VisualMoney, Coins: coins}), nil

	case 1:
		dollars, cents := g.Int(1, 9), g.Int(10, 99)
		total := dollars*100 + cents
		if g.chance(0.5) {
			answer := fmt.Sprintf("%d¢", total)
			return mc(fmt.Sprintf("%s is the same as how many cents?", formatMoney(total)), answer,
				g.UniqueOptions(answer, fmt.Sprintf("%d¢", dollars), fmt.Sprintf("%d¢", cents), fmt.Sprintf("%d¢", total*10))), nil
		}
		return mc(fmt.Sprintf("%d¢ is the same as...", total), formatMoney(total), g.UniqueOptions(
			formatMoney(total),
			fmt.Sprintf("$%d.0%d", dollars, cents),
			fmt.Sprintf("$0.%d", total),
			fmt.Sprintf("%d dollars", dollars),
		)), nil

	case 2:
		p1, p2 := g.Int(150, 850), g.Int(125, 650)
		total := p1 + p2
		i1, i2 := oneOf(g, "book", "toy", "snack", "game", "pencil"), oneOf(g, "book", "toy", "snack", "game", "pencil")
		return mc(fmt.Sprintf("%s bought a %s for %s and a %s for %s. How much did %s spend in all?",
			c.Name, i1, formatMoney(p1), i2, formatMoney(p2), c.Subjective), formatMoney(total),
			g.UniqueOptions(formatMoney(total), formatMoney(max(p1-p2, p2-p1)), formatMoney(total+100), formatMoney(total-50))), nil

	case 3:
		had := g.Int(500, 2000)
		cost := g.Int(150, had-50)
		left := had - cost
		off := left - 100
		if off < 0 {
			off = left + 50
		}
		return mc(fmt.Sprintf("%s had %s. %s spent %s on lunch. How much money does %s have left?",
			c.Name, formatMoney(had), c.SubjectiveTitle, formatMoney(cost), c.Subjective), formatMoney(left),
			g.UniqueOptions(formatMoney(left), formatMoney(had+cost), formatMoney(off), formatMoney(cost))), nil

	case 4:
		c1, c2 := g.Int(250, 650), g.Int(250, 650)
		return open(fmt.Sprintf("%s paid with a $20.00 bill. %s bought a hat for %s and socks for %s. How much change did %s get back?",
			c.Name, c.SubjectiveTitle, formatMoney(c1), formatMoney(c2), c.Subjective), formatMoney(2000-c1-c2), nil), nil

	case 5:
		p1, p2 := g.Int(200, 500), g.Int(200, 500)
		price := formatMoney(p1 + p2)
		answer := fmt.Sprintf("Subtract %s from %s", formatMoney(p1), price)
		return mc(fmt.Sprintf("%s wants to buy a toy for %s. %s has %s. How can %s figure out how much more money is needed?",
			c.Name, price, c.SubjectiveTitle, formatMoney(p1), c.Subjective), answer, g.UniqueOptions(
			answer,
			fmt.Sprintf("Add %s and %s", formatMoney(p1), price),
			"Multiply the amounts",
			"Count the coins",
		)), nil

	case 6:
		cents := oneOf(g, 25, 50, 75)
		word := map[int]string{25: "twenty-five", 50: "fifty", 75: "seventy-five"}[cents]
		answer := fmt.Sprintf("No, it should be $0.%d or %d¢.", cents, cents)
		return mc(fmt.Sprintf("A student wrote %s cents as \"0.%d¢\". Is this correct?", word, cents), answer, g.UniqueOptions(
			answer,
			"Yes, because it has a decimal.",
			fmt.Sprintf("Yes, 0.%d is %s.", cents, word),
			fmt.Sprintf("No, it should be $%d.", cents),
		)), nil

	default:
		c1 := g.Int(300, 800)
		c2 := c1 - g.Int(50, 200)
		diff := c1 - c2
		return mc(fmt.Sprintf("A puzzle costs %s. A game costs %s. How much more does the puzzle cost than the game?",
			formatMoney(c1), formatMoney(c2)), formatMoney(diff),
			g.UniqueOptions(formatMoney(diff), formatMoney(c1+c2), formatMoney(c2), formatMoney(diff+100))), nil
	}
}
