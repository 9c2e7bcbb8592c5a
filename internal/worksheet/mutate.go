package worksheet

import "slices"

func (w *Worksheet) check(i int) error {
	if i < 0 || i >= len(w.Questions) {
		return &IndexError{Index: i, Len: len(w.Questions)}
	}
	return nil
}

// RegenerationTarget returns the question at i if it may be regenerated.
func (w *Worksheet) RegenerationTarget(i int) (Question, error) {
	if err := w.check(i); err != nil {
		return Question{}, err
	}
	q := w.Questions[i]
	if q.StandardRef == CustomStandard {
		return Question{}, ErrNotRegenerable
	}
	return q, nil
}

// ReplaceQuestion puts q at index i. The replaced question's ID and spacing
// carry over. If the replaced question had a passage, q is forced onto the same
// passage title, content and illustration so the group stays intact.
func (w *Worksheet) ReplaceQuestion(i int, q Question) error {
	if err := w.check(i); err != nil {
		return err
	}
	old := w.Questions[i]
	q = q.Clone()
	if old.Passage() != "" {
		v := VisualData{}
		if q.VisualInfo != nil {
			v = *q.VisualInfo
		}
		v.Type = VisualTextPassage
		v.PassageTitle = old.VisualInfo.PassageTitle
		v.PassageContent = old.VisualInfo.PassageContent
		v.ImageURL = old.VisualInfo.ImageURL
		q.VisualInfo = &v
	}
	q.ID = old.ID
	q.ExtraSpace = old.ExtraSpace
	w.Questions[i] = q
	return nil
}

// PassageGroup returns the indices of every question whose passage exactly
// matches the passage of question i, in worksheet order. A question without a
// passage is its own group.
func (w *Worksheet) PassageGroup(i int) ([]int, error) {
	if err := w.check(i); err != nil {
		return nil, err
	}
	target := w.Questions[i].Passage()
	if target == "" {
		return []int{i}, nil
	}
	var idx []int
	for j, q := range w.Questions {
		if q.Passage() == target {
			idx = append(idx, j)
		}
	}
	return idx, nil
}

// ReplaceGroup overwrites the passage group containing i with qs, position for
// position. The replacements get fresh IDs above every existing ID and keep the
// spacing of the slot they land in.
func (w *Worksheet) ReplaceGroup(i int, qs []Question) error {
	idx, err := w.PassageGroup(i)
	if err != nil {
		return err
	}
	if len(qs) != len(idx) {
		return &GroupSizeError{Want: len(idx), Got: len(qs)}
	}
	next := w.MaxID() + 1
	for k, slot := range idx {
		q := qs[k].Clone()
		q.ID = next + k
		q.ExtraSpace = w.Questions[slot].ExtraSpace
		w.Questions[slot] = q
	}
	return nil
}

// DeleteQuestion removes the question at i.
func (w *Worksheet) DeleteQuestion(i int) error {
	if err := w.check(i); err != nil {
		return err
	}
	w.Questions = slices.Delete(w.Questions, i, i+1)
	return nil
}

// DeletePassageGroup removes every question sharing the exact passage of
// question i. Without a passage it removes only question i. It returns the
// number of questions removed.
func (w *Worksheet) DeletePassageGroup(i int) (int, error) {
	if err := w.check(i); err != nil {
		return 0, err
	}
	target := w.Questions[i].Passage()
	if target == "" {
		return 1, w.DeleteQuestion(i)
	}
	before := len(w.Questions)
	w.Questions = slices.DeleteFunc(w.Questions, func(q Question) bool {
		return q.Passage() == target
	})
	return before - len(w.Questions), nil
}

// UpdateIllustration sets the image URL on the passage group of question i, or
// on question i alone when it has no passage. A lone question with no visual
// type becomes a custom image.
func (w *Worksheet) UpdateIllustration(i int, url string) error {
	if err := w.check(i); err != nil {
		return err
	}
	target := w.Questions[i].Passage()
	if target != "" {
		for j := range w.Questions {
			if w.Questions[j].Passage() == target {
				w.Questions[j].VisualInfo.ImageURL = url
			}
		}
		return nil
	}
	q := &w.Questions[i]
	if q.VisualInfo == nil {
		q.VisualInfo = &VisualData{}
	}
	if q.VisualInfo.Type == "" {
		q.VisualInfo.Type = VisualCustomImage
	}
	q.VisualInfo.ImageURL = url
	return nil
}

// UpdatePassage rewrites the title and content of the passage shared with
// question i, across its whole group.
func (w *Worksheet) UpdatePassage(i int, title, content string) error {
	idx, err := w.PassageGroup(i)
	if err != nil {
		return err
	}
	for _, j := range idx {
		q := &w.Questions[j]
		if q.VisualInfo == nil {
			q.VisualInfo = &VisualData{Type: VisualTextPassage}
		}
		q.VisualInfo.PassageTitle = title
		q.VisualInfo.PassageContent = content
	}
	return nil
}

// UpdateQuestion replaces question i with an edited copy, keeping its ID.
func (w *Worksheet) UpdateQuestion(i int, q Question) error {
	if err := w.check(i); err != nil {
		return err
	}
	q = q.Clone()
	q.ID = w.Questions[i].ID
	w.Questions[i] = q
	return nil
}

// SetSpacing sets the blank space printed below question i.
func (w *Worksheet) SetSpacing(i, space int) error {
	if err := w.check(i); err != nil {
		return err
	}
	w.Questions[i].ExtraSpace = max(space, 0)
	return nil
}

// Append adds qs after the existing questions, renumbering them from the
// current highest ID.
func (w *Worksheet) Append(qs []Question) {
	next := w.MaxID() + 1
	for k, q := range qs {
		q = q.Clone()
		q.ID = next + k
		w.Questions = append(w.Questions, q)
	}
}

// AddCustom appends a teacher-authored question.
func (w *Worksheet) AddCustom(q Question) Question {
	q = q.Clone()
	q.ID = w.MaxID() + 1
	q.StandardRef = CustomStandard
	if q.Type == "" {
		q.Type = OpenEnded
		if len(q.Options) > 0 {
			q.Type = MultipleChoice
		}
	}
	w.Questions = append(w.Questions, q)
	return q
}
