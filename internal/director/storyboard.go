package director

// Storyboard is the on-disk projection of a planned run: what will be typed
// when, under which scheme, before a single frame is rendered.
type Storyboard struct {
	Version  string     `yaml:"version"`
	Day      int        `yaml:"day"`
	Title    string     `yaml:"title"`
	Language string     `yaml:"language"`
	Scheme   string     `yaml:"scheme"`
	Timeline Timeline   `yaml:"timeline"`
	Phases   []Span     `yaml:"phases"`
	Lines    []LinePlan `yaml:"lines"`
}

// Span is a half-open frame range belonging to one phase
type Span struct {
	Name string `yaml:"name"`
	From int    `yaml:"from"`
	To   int    `yaml:"to"` // exclusive
}

// LinePlan records the frame span one code line occupies while typed
type LinePlan struct {
	Index int    `yaml:"index"`
	Text  string `yaml:"text"`
	Start int    `yaml:"start"`
	End   int    `yaml:"end"` // exclusive
}

// Spans lists the non-empty phase ranges of a timeline in playback order.
func (tl Timeline) Spans() []Span {
	var spans []Span
	if tl.CodeFrames > 0 {
		spans = append(spans, Span{Name: PhaseCode.String(), From: 0, To: tl.CodeEnd()})
	}
	if tl.OutputFrames > 0 {
		spans = append(spans, Span{Name: PhaseOutput.String(), From: tl.CodeEnd(), To: tl.OutputEnd()})
	}
	if tl.HoldFrames > 0 {
		spans = append(spans, Span{Name: PhaseHold.String(), From: tl.OutputEnd(), To: tl.TotalFrames})
	}
	return spans
}
