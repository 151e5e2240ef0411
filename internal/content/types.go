package content

// Catalog is the read-only course catalog: years of modules of resources.
type Catalog struct {
	Years []Year `json:"years" yaml:"years"`
}

// Year groups the modules taught in one year of the programme.
type Year struct {
	Number  int      `json:"number" yaml:"number"`
	Title   string   `json:"title" yaml:"title"`
	Modules []Module `json:"modules" yaml:"modules"`
}

// Module is a single unit of study within a year.
type Module struct {
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description" yaml:"description"`
	Resources   Resources `json:"resources" yaml:"resources"`
}

// Resources lists the opaque labels of a module's study material.
type Resources struct {
	Videos    []string `json:"videos" yaml:"videos"`
	Courses   []string `json:"courses" yaml:"courses"`
	Readings  []string `json:"readings" yaml:"readings"`
	Articles  []string `json:"articles" yaml:"articles"`
	Tutorials []string `json:"tutorials" yaml:"tutorials"`
}

// ResourceSection is one named, non-empty group of resources.
type ResourceSection struct {
	Kind  string
	Items []string
}

// Total returns the number of resources across all kinds.
func (r Resources) Total() int {
	return len(r.Videos) + len(r.Courses) + len(r.Readings) + len(r.Articles) + len(r.Tutorials)
}

// Sections returns the non-empty resource groups in display order.
func (r Resources) Sections() []ResourceSection {
	all := []ResourceSection{
		{Kind: "Videos", Items: r.Videos},
		{Kind: "Courses", Items: r.Courses},
		{Kind: "Readings", Items: r.Readings},
		{Kind: "Articles", Items: r.Articles},
		{Kind: "Tutorials", Items: r.Tutorials},
	}
	out := all[:0]
	for _, s := range all {
		if len(s.Items) > 0 {
			out = append(out, s)
		}
	}
	return out
}

// ModuleCounts returns the number of modules defined per year number.
func (c *Catalog) ModuleCounts() map[int]int {
	counts := make(map[int]int)
	if c == nil {
		return counts
	}
	for _, y := range c.Years {
		counts[y.Number] += len(y.Modules)
	}
	return counts
}

// TotalModules returns the number of modules across all years.
func (c *Catalog) TotalModules() int {
	if c == nil {
		return 0
	}
	n := 0
	for _, y := range c.Years {
		n += len(y.Modules)
	}
	return n
}

// QuizBank is the ordered list of quizzes available to the learner.
type QuizBank []QuizDefinition

// QuizDefinition is a multiple-choice quiz attached to one module.
// Year and Module address the module it belongs to.
type QuizDefinition struct {
	Name      string     `json:"quiz_name" yaml:"quiz_name"`
	Year      int        `json:"year,omitempty" yaml:"year,omitempty"`
	Module    int        `json:"module,omitempty" yaml:"module,omitempty"`
	Questions []Question `json:"questions" yaml:"questions"`
}

// Question is a single-answer multiple-choice question.
type Question struct {
	Text    string   `json:"question_text" yaml:"question_text"`
	Options []Option `json:"options" yaml:"options"`
	Answer  string   `json:"answer" yaml:"answer"`
}

// Option is one selectable answer.
type Option struct {
	Key  string `json:"key" yaml:"key"`
	Text string `json:"text" yaml:"text"`
}

// Option returns the option with the given key.
func (q Question) Option(key string) (Option, bool) {
	for _, o := range q.Options {
		if o.Key == key {
			return o, true
		}
	}
	return Option{}, false
}

// CorrectOption returns the option designated as the answer.
func (q Question) CorrectOption() (Option, bool) {
	return q.Option(q.Answer)
}
