package authoring

import (
	"fmt"
	"strings"

	"github.com/p-n-ai/worksheet-gen/internal/curriculum"
)

// Catalog resolves standards for prompt notes. *curriculum.Loader satisfies it.
type Catalog interface {
	Get(id string) (curriculum.Standard, bool)
}

// Passage lengths accepted by the worksheet request.
const (
	LengthShort  = "short"
	LengthMedium = "medium"
	LengthLong   = "long"
)

func lengthInstruction(length string) string {
	switch length {
	case LengthShort:
		return "Keep reading passages SHORT (approx. 100-150 words)."
	case LengthLong:
		return "Make reading passages LONG and detailed (approx. 350-500 words)."
	default:
		return "Keep reading passages MEDIUM length (approx. 200-300 words)."
	}
}

const systemPrompt = `You are an expert 3rd Grade ELA teacher writing printable worksheets.

AUDIENCE: 3rd Grade students (age 8-9). Use Lexile 450L-800L vocabulary and simple, clear sentences.

RULES:
- Randomize the position of the correct answer evenly across questions. Distractors must be plausible but wrong.
- Multiple-choice options must be distinct and contain the correct answer exactly once.
- When testing vocabulary or context clues, never define the word right after using it. Make the student infer.
- If a question refers to a bolded or italicized word, mark that word with Markdown (**word** or *word*) in passageContent.
- Prose passages use a blank line between paragraphs. Poems put every line of verse on its own line and a blank line between stanzas, with no stanza labels.
- Informational (RI) passages are non-fiction and vary their topics (science, history, animals, inventions). Use at most one desert passage per worksheet.
- Literature (RL) passages are fiction with varied characters and settings.`

const visualRules = `VISUAL INFO:
- 'text-passage': fill passageTitle and passageContent.
- 'table': fill tableHeaders and tableRows.
- 'bar-graph': fill graphTitle, xAxisLabel, yAxisLabel and dataPoints.
- Questions that share a passage must repeat the EXACT SAME passageTitle and passageContent.`

// WorksheetPrompt builds the messages for a full worksheet request.
func WorksheetPrompt(cat Catalog, req WorksheetRequest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "TASK: Create an ELA worksheet with exactly %d questions.\n\n", req.Total())

	if req.Existing != nil {
		b.WriteString("CONTEXTUAL EXTENSION MODE:\n")
		b.WriteString("- Do NOT create a new passage. Use the passage below EXACTLY as given for visualInfo.passageContent of every question.\n")
		fmt.Fprintf(&b, "- Passage Title: %q\n", req.Existing.Title)
		fmt.Fprintf(&b, "- Passage Content: %q\n\n", req.Existing.Content)
	} else {
		b.WriteString("NEW CONTENT MODE:\n")
		b.WriteString("- Create NEW high-quality reading passages. Every RL or RI question must have a passage, even when only one or two are requested.\n")
		b.WriteString("- When several reading standards are selected, prefer one or two multi-paragraph passages that serve many questions.\n\n")
	}

	fmt.Fprintf(&b, "PASSAGE LENGTH: %s\n\n", lengthInstruction(req.PassageLength))

	if names := strings.TrimSpace(req.Names); names != "" {
		b.WriteString("STUDENT NAMES:\n")
		fmt.Fprintf(&b, "- Weave these names into fiction (RL) stories and word problems as characters: [%s].\n", names)
		b.WriteString("- Do NOT use them in non-fiction (RI) passages.\n\n")
	}

	if topic := strings.TrimSpace(req.Topic); topic != "" {
		b.WriteString("USER TOPIC REQUEST (HIGHEST PRIORITY):\n")
		fmt.Fprintf(&b, "- All content is about %q. Use it as the plot for fiction and the main topic for non-fiction.\n\n", topic)
	}

	b.WriteString("STANDARDS REQUESTED:\n")
	for _, id := range req.Standards {
		fmt.Fprintf(&b, "- %s: %d questions", id, req.Counts[id])
		if subs := req.Subcategories[id]; len(subs) > 0 {
			fmt.Fprintf(&b, " (subcategories: %s)", strings.Join(subs, ", "))
		}
		b.WriteString("\n")
		if notes := promptNotes(cat, id); notes != "" {
			fmt.Fprintf(&b, "  RULES FOR %s:\n%s\n", id, indent(notes))
		}
	}

	b.WriteString("\n")
	b.WriteString(visualRules)
	b.WriteString("\n\nOUTPUT: Return ONLY a JSON object {\"title\", \"instructions\", \"questions\": [...]}.")
	return b.String()
}

// QuestionPrompt builds the prompt for one replacement question.
func QuestionPrompt(cat Catalog, standard string, subcategories []string, existing *Passage) string {
	var b strings.Builder

	if existing != nil {
		fmt.Fprintf(&b, "TASK: Generate exactly ONE NEW question for standard %s about the passage below.\n\n", standard)
		fmt.Fprintf(&b, "Title: %q\nContent: %q\n\n", existing.Title, existing.Content)
		b.WriteString("RULES:\n")
		b.WriteString("- The question must differ from earlier questions on this passage.\n")
		b.WriteString("- Set visualInfo.type to 'text-passage' and leave passageContent empty.\n")
		b.WriteString("- Refer to words exactly as they appear in the passage.\n")
	} else {
		fmt.Fprintf(&b, "TASK: Generate exactly ONE 3rd Grade ELA question for standard %s.\n", standard)
		fmt.Fprintf(&b, "Subcategories: %s\n\n", subcategoryList(subcategories))
		b.WriteString("RULES:\n")
		b.WriteString("- Populate visualInfo with type 'text-passage', passageTitle and passageContent.\n")
	}
	if notes := promptNotes(cat, standard); notes != "" {
		fmt.Fprintf(&b, "\nRULES FOR %s:\n%s\n", standard, indent(notes))
	}
	b.WriteString("\nOUTPUT: Return ONLY the question JSON object.")
	return b.String()
}

// GroupPrompt builds the prompt for a fresh passage with count questions.
func GroupPrompt(cat Catalog, standard string, count int, subcategories []string, length string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "TASK: Create a brand NEW reading passage (or visual) and exactly %d questions about it for standard %s.\n\n", count, standard)
	fmt.Fprintf(&b, "PASSAGE LENGTH: %s\n", lengthInstruction(length))
	fmt.Fprintf(&b, "SUBCATEGORIES: %s\n\n", subcategoryList(subcategories))
	b.WriteString("RULES:\n")
	b.WriteString("- Do NOT reuse an earlier passage. Write a fresh story or article.\n")
	fmt.Fprintf(&b, "- All %d questions relate to this passage and repeat its visualInfo IDENTICALLY.\n", count)
	b.WriteString("- A table of contents must not reveal the main idea.\n")
	if notes := promptNotes(cat, standard); notes != "" {
		fmt.Fprintf(&b, "\nRULES FOR %s:\n%s\n", standard, indent(notes))
	}
	fmt.Fprintf(&b, "\nOUTPUT: Return ONLY a JSON object with a \"questions\" array of %d items.", count)
	return b.String()
}

func promptNotes(cat Catalog, id string) string {
	if cat == nil {
		return ""
	}
	s, ok := cat.Get(id)
	if !ok {
		return ""
	}
	return s.PromptNotes
}

func subcategoryList(subs []string) string {
	if len(subs) == 0 {
		return "General"
	}
	return strings.Join(subs, ", ")
}

func indent(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = "    " + l
		}
	}
	return strings.Join(lines, "\n")
}
