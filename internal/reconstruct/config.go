package reconstruct

// Config holds the layout thresholds for one source document. All values
// are in the extractor's page units; they are tuned per scan, not global.
type Config struct {
	LineTolerance float64 // Max vertical distance between tokens on one line.
	SizeTolerance float64 // Max font-size difference within one cluster.

	TitleBand    float64 // Titles appear above this y.
	HeaderBand   float64 // Running heads appear above this y.
	BodyTop      float64 // Body text appears below this y...
	BodyBottom   float64 // ...and above this one.
	FootnoteBand float64 // Footnotes appear below this y.

	IndentThreshold float64 // First-line indent that opens a new paragraph.
	ParagraphGap    float64 // Vertical gap between lines that forces a paragraph break.
	FootnoteReach   float64 // How far a wrapped footnote continuation may drift.

	Workers int // Page-level parallelism; <=1 means sequential.
}

// DefaultConfig returns the thresholds tuned for the two-column academic
// book layout this heuristic set targets.
func DefaultConfig() Config {
	return Config{
		LineTolerance:   2,
		SizeTolerance:   0.5,
		TitleBand:       200,
		HeaderBand:      70,
		BodyTop:         70,
		BodyBottom:      400,
		FootnoteBand:    450,
		IndentThreshold: 90,
		ParagraphGap:    20,
		FootnoteReach:   30,
		Workers:         1,
	}
}

// normalize fills zero values with defaults so a partially populated
// Config never divides the page into empty bands.
func (c Config) normalize() Config {
	def := DefaultConfig()
	if c.LineTolerance <= 0 {
		c.LineTolerance = def.LineTolerance
	}
	if c.SizeTolerance <= 0 {
		c.SizeTolerance = def.SizeTolerance
	}
	if c.TitleBand <= 0 {
		c.TitleBand = def.TitleBand
	}
	if c.HeaderBand <= 0 {
		c.HeaderBand = def.HeaderBand
	}
	if c.BodyTop <= 0 {
		c.BodyTop = def.BodyTop
	}
	if c.BodyBottom <= 0 {
		c.BodyBottom = def.BodyBottom
	}
	if c.FootnoteBand <= 0 {
		c.FootnoteBand = def.FootnoteBand
	}
	if c.IndentThreshold <= 0 {
		c.IndentThreshold = def.IndentThreshold
	}
	if c.ParagraphGap <= 0 {
		c.ParagraphGap = def.ParagraphGap
	}
	if c.FootnoteReach <= 0 {
		c.FootnoteReach = def.FootnoteReach
	}
	if c.Workers <= 0 {
		c.Workers = 1
	}
	return c
}
