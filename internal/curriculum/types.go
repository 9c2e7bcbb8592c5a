package curriculum

// Subjects a standard can belong to.
const (
	SubjectMath = "math"
	SubjectELA  = "ela"
)

// Standard is one selectable learning standard loaded from YAML.
type Standard struct {
	ID            string   `yaml:"id" json:"id"`
	Code          string   `yaml:"code" json:"code"`
	Description   string   `yaml:"description" json:"description"`
	Category      string   `yaml:"category" json:"category"`
	Subject       string   `yaml:"subject" json:"subject"`
	Subcategories []string `yaml:"subcategories" json:"subcategories,omitempty"`
	PromptNotes   string   `yaml:"prompt_notes" json:"-"`
}

// IsMath reports whether the standard is served by the template generators.
func (s Standard) IsMath() bool {
	return s.Subject == SubjectMath
}

// Catalog is the shape of one standards YAML file. Standards inherit the
// file's subject unless they set their own.
type Catalog struct {
	Subject   string     `yaml:"subject"`
	Standards []Standard `yaml:"standards"`
}
