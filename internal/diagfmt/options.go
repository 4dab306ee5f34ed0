package diagfmt

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color     bool
	BaseDir   string // paths are shown relative to it when set
	ShowNotes bool
	// Context is the number of source lines printed above the primary line.
	Context int
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	IncludePositions bool // добавить line/col
	BaseDir          string
	Max              int // обрезка вывода, не Bag
	IncludeNotes     bool
}
