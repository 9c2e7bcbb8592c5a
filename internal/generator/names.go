package generator

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	boyNames = []string{
		"Liam", "Noah", "Oliver", "Elijah", "James", "Lucas", "Benjamin", "Mason", "Ethan", "Jackson",
		"Aiden", "Leo", "Max", "Sam", "Kai", "Caleb", "Ryan", "Daniel", "Jack", "Henry",
	}
	girlNames = []string{
		"Olivia", "Emma", "Ava", "Charlotte", "Sophia", "Mia", "Amelia", "Harper", "Isabella", "Sofia",
		"Chloe", "Zoe", "Maya", "Ruby", "Eva", "Lily", "Grace", "Aria", "Ellie", "Nora",
	}
	adjectives = []string{
		"red", "blue", "shiny", "small", "large", "green", "heavy", "golden", "tasty", "round",
		"striped", "spotted", "purple", "wooden", "plastic", "silver", "bright", "fuzzy", "smooth", "rough",
		"tiny", "huge", "colorful", "dark", "fancy",
	}
	items = []Item{
		{"apple", "apples", "basket"},
		{"marble", "marbles", "jar"},
		{"sticker", "stickers", "page"},
		{"cookie", "cookies", "box"},
		{"pencil", "pencils", "pack"},
		{"toy car", "toy cars", "case"},
		{"flower", "flowers", "bouquet"},
		{"coin", "coins", "stack"},
		{"book", "books", "shelf"},
		{"crayon", "crayons", "box"},
		{"bead", "beads", "necklace"},
		{"card", "cards", "deck"},
		{"cupcake", "cupcakes", "tray"},
		{"balloon", "balloons", "bunch"},
		{"marker", "markers", "set"},
		{"lego brick", "lego bricks", "pile"},
		{"donut", "donuts", "box"},
		{"painting", "paintings", "wall"},
		{"photo", "photos", "album"},
		{"seashell", "seashells", "bucket"},
		{"button", "buttons", "jar"},
		{"stamp", "stamps", "collection"},
	}
)

// Item is a countable object used in word problems.
type Item struct {
	Single    string
	Plural    string
	Container string
}

// Containers returns the plural of the item's container.
func (it Item) Containers() string {
	switch it.Container {
	case "box":
		return "boxes"
	case "shelf":
		return "shelves"
	case "bunch":
		return "bunches"
	}
	return it.Container + "s"
}

// Character is a named person with a matching pronoun set.
type Character struct {
	Name            string
	Subjective      string // he/she
	Objective       string // him/her
	Possessive      string // his/her
	SubjectiveTitle string // He/She
	PossessiveTitle string // His/Her
}

// Context bundles the pieces of a simple word problem.
type Context struct {
	Name string
	Item Item
	Adj  string
}

// Character picks a name from pool, or from the built-in tables when pool is
// empty. Gender is a fair coin either way, so a pooled name may get pronouns
// that do not match the real child.
func (g *Generator) Character(pool []string) Character {
	girl := g.chance(0.5)
	var name string
	switch {
	case len(pool) > 0:
		name, _ = Pick(g, pool)
	case girl:
		name, _ = Pick(g, girlNames)
	default:
		name, _ = Pick(g, boyNames)
	}

	c := Character{Name: name, Subjective: "he", Objective: "him", Possessive: "his"}
	if girl {
		c.Subjective, c.Objective, c.Possessive = "she", "her", "her"
	}
	title := cases.Title(language.English)
	c.SubjectiveTitle = title.String(c.Subjective)
	c.PossessiveTitle = title.String(c.Possessive)
	return c
}

// Context picks a name, an item and an adjective.
func (g *Generator) Context(pool []string) Context {
	if len(pool) == 0 {
		pool = append(append([]string{}, boyNames...), girlNames...)
	}
	name, _ := Pick(g, pool)
	item, _ := Pick(g, items)
	adj, _ := Pick(g, adjectives)
	return Context{Name: name, Item: item, Adj: adj}
}

// otherName returns a second character name distinct from taken.
func (g *Generator) otherName(pool []string, taken string) string {
	for range 5 {
		if c := g.Character(pool); c.Name != taken {
			return c.Name
		}
	}
	if taken == "Alex" {
		return "Jordan"
	}
	return "Alex"
}
