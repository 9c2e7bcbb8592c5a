// Package worksheet holds the worksheet document model and the pure operations
// that group, normalize and edit its questions.
package worksheet

import (
	"slices"
	"strings"
	"time"
)

// QuestionType is the answer format of a question.
type QuestionType string

const (
	MultipleChoice QuestionType = "multiple-choice"
	OpenEnded      QuestionType = "open-ended"
)

// CustomStandard marks teacher-authored questions. They are never regenerated.
const CustomStandard = "Custom"

// VisualType tags which fields of VisualData are meaningful.
type VisualType string

const (
	VisualTextPassage          VisualType = "text-passage"
	VisualEditingTask          VisualType = "editing-task"
	VisualCustomImage          VisualType = "custom-image"
	VisualTable                VisualType = "table"
	VisualBarGraph             VisualType = "bar-graph"
	VisualArrayGroup           VisualType = "array-group"
	VisualNumberLine           VisualType = "number-line"
	VisualAreaModel            VisualType = "area-model"
	VisualExpression           VisualType = "expression"
	VisualFractionCircle       VisualType = "fraction-circle"
	VisualFractionBar          VisualType = "fraction-bar"
	VisualSetModel             VisualType = "set-model"
	VisualFractionComparison   VisualType = "fraction-comparison"
	VisualCompositeArea        VisualType = "composite-area"
	VisualTiledArea            VisualType = "tiled-area"
	VisualClock                VisualType = "clock"
	VisualMoney                VisualType = "money"
	VisualTallyChart           VisualType = "tally-chart"
	VisualPictograph           VisualType = "pictograph"
	VisualRuler                VisualType = "ruler"
	VisualLinePlot             VisualType = "line-plot"
	VisualMeasurementContainer VisualType = "measurement-container"
	VisualGeometryShape        VisualType = "geometry-shape"
)

// Jump is one arc sequence drawn over a number line.
type Jump struct {
	Start float64 `json:"start"`
	Size  float64 `json:"size"`
	Count int     `json:"count"`
}

// PointLabel names a point on a number line.
type PointLabel struct {
	Value float64 `json:"value"`
	Label string  `json:"label"`
}

// DataPoint is one bar or pictograph row.
type DataPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Rect is a width by height rectangle in unit squares.
type Rect struct {
	W int `json:"w"`
	H int `json:"h"`
}

// VisualData is a tagged variant keyed by Type. Only the fields relevant to
// Type are set. Start, End, Numerator and the ruler bounds are pointers because
// zero is a meaningful value for them.
type VisualData struct {
	Type VisualType `json:"type"`

	ImageURL   string `json:"imageUrl,omitempty"`
	ImageWidth int    `json:"imageWidth,omitempty"`

	PassageTitle   string `json:"passageTitle,omitempty"`
	PassageContent string `json:"passageContent,omitempty"`

	SentenceToEdit string `json:"sentenceToEdit,omitempty"`

	TableHeaders []string   `json:"tableHeaders,omitempty"`
	TableRows    [][]string `json:"tableRows,omitempty"`

	GraphTitle string      `json:"graphTitle,omitempty"`
	XAxisLabel string      `json:"xAxisLabel,omitempty"`
	YAxisLabel string      `json:"yAxisLabel,omitempty"`
	DataPoints []DataPoint `json:"dataPoints,omitempty"`
	Scale      int         `json:"scale,omitempty"`
	Icon       string      `json:"icon,omitempty"`

	Rows          int          `json:"rows,omitempty"`
	Cols          int          `json:"cols,omitempty"`
	GroupCount    int          `json:"groupCount,omitempty"`
	ItemCount     int          `json:"itemCount,omitempty"`
	ItemShape     string       `json:"itemShape,omitempty"`
	RowLengths    []int        `json:"rowLengths,omitempty"`
	VisualOptions []VisualData `json:"visualOptions,omitempty"`

	Start           *float64     `json:"start,omitempty"`
	End             *float64     `json:"end,omitempty"`
	TickCount       int          `json:"tickCount,omitempty"`
	Jumps           []Jump       `json:"jumps,omitempty"`
	LabelMode       string       `json:"labelMode,omitempty"`
	HighlightPoints []float64    `json:"highlightPoints,omitempty"`
	PointLabels     []PointLabel `json:"pointLabels,omitempty"`

	WidthLabel  string `json:"widthLabel,omitempty"`
	HeightLabel string `json:"heightLabel,omitempty"`

	Expression string `json:"expression,omitempty"`

	Numerator     *int         `json:"numerator,omitempty"`
	Denominator   int          `json:"denominator,omitempty"`
	IsUnequal     bool         `json:"isUnequal,omitempty"`
	SetObjects    []string     `json:"setObjects,omitempty"`
	CompareModels []VisualData `json:"compareModels,omitempty"`

	Rect1       *Rect  `json:"rect1,omitempty"`
	Rect2       *Rect  `json:"rect2,omitempty"`
	Arrangement string `json:"arrangement,omitempty"`

	Time  string `json:"time,omitempty"`
	Coins []int  `json:"coins,omitempty"`

	ObjectStart *float64 `json:"objectStart,omitempty"`
	ObjectEnd   *float64 `json:"objectEnd,omitempty"`

	PlotData []float64 `json:"plotData,omitempty"`

	ShapeName    string  `json:"shapeName,omitempty"`
	Capacity     int     `json:"capacity,omitempty"`
	FluidLevel   float64 `json:"fluidLevel,omitempty"`
	TickStrategy string  `json:"tickStrategy,omitempty"`
	Weight       float64 `json:"weight,omitempty"`
}

// Question is one worksheet item. JSON names match the browser client.
type Question struct {
	ID            int          `json:"id"`
	StandardRef   string       `json:"standardRef"`
	Text          string       `json:"text"`
	Type          QuestionType `json:"type"`
	Options       []string     `json:"options,omitempty"`
	CorrectAnswer string       `json:"correctAnswer"`
	VisualInfo    *VisualData  `json:"visualInfo,omitempty"`
	ExtraSpace    int          `json:"extraSpace,omitempty"`
}

// Passage returns the question's passage content, or "" if it has none.
func (q Question) Passage() string {
	if q.VisualInfo == nil {
		return ""
	}
	return q.VisualInfo.PassageContent
}

// Clone returns a copy that shares no mutable state with q.
func (q Question) Clone() Question {
	q.Options = slices.Clone(q.Options)
	if q.VisualInfo != nil {
		v := q.VisualInfo.clone()
		q.VisualInfo = &v
	}
	return q
}

func (v VisualData) clone() VisualData {
	v.TableHeaders = slices.Clone(v.TableHeaders)
	if v.TableRows != nil {
		rows := make([][]string, len(v.TableRows))
		for i, r := range v.TableRows {
			rows[i] = slices.Clone(r)
		}
		v.TableRows = rows
	}
	v.DataPoints = slices.Clone(v.DataPoints)
	v.RowLengths = slices.Clone(v.RowLengths)
	v.Jumps = slices.Clone(v.Jumps)
	v.HighlightPoints = slices.Clone(v.HighlightPoints)
	v.PointLabels = slices.Clone(v.PointLabels)
	v.SetObjects = slices.Clone(v.SetObjects)
	v.Coins = slices.Clone(v.Coins)
	v.PlotData = slices.Clone(v.PlotData)
	v.Start, v.End = clonePtr(v.Start), clonePtr(v.End)
	v.ObjectStart, v.ObjectEnd = clonePtr(v.ObjectStart), clonePtr(v.ObjectEnd)
	v.Numerator = clonePtr(v.Numerator)
	v.Rect1, v.Rect2 = clonePtr(v.Rect1), clonePtr(v.Rect2)
	if v.VisualOptions != nil {
		opts := make([]VisualData, len(v.VisualOptions))
		for i, o := range v.VisualOptions {
			opts[i] = o.clone()
		}
		v.VisualOptions = opts
	}
	if v.CompareModels != nil {
		models := make([]VisualData, len(v.CompareModels))
		for i, m := range v.CompareModels {
			models[i] = m.clone()
		}
		v.CompareModels = models
	}
	return v
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

// Worksheet is an ordered list of questions plus its heading. Order is
// meaningful: it is the printed order.
type Worksheet struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Instructions string     `json:"instructions"`
	Questions    []Question `json:"questions"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// Clone returns a deep copy of w.
func (w Worksheet) Clone() Worksheet {
	qs := make([]Question, len(w.Questions))
	for i, q := range w.Questions {
		qs[i] = q.Clone()
	}
	w.Questions = qs
	return w
}

// MaxID returns the largest question ID, or 0 for an empty worksheet.
func (w Worksheet) MaxID() int {
	max := 0
	for _, q := range w.Questions {
		if q.ID > max {
			max = q.ID
		}
	}
	return max
}

// CheckOptions verifies the multiple-choice invariant: the correct answer
// appears exactly once under trimmed equality and no option repeats.
func CheckOptions(q Question) error {
	if q.Type != MultipleChoice {
		return nil
	}
	seen := make(map[string]bool, len(q.Options))
	hits := 0
	want := strings.TrimSpace(q.CorrectAnswer)
	for _, o := range q.Options {
		t := strings.TrimSpace(o)
		if seen[t] {
			return &OptionsError{Question: q.ID, Reason: "duplicate option " + t}
		}
		seen[t] = true
		if t == want {
			hits++
		}
	}
	if hits != 1 {
		return &OptionsError{Question: q.ID, Reason: "correct answer " + want + " not among options"}
	}
	return nil
}
