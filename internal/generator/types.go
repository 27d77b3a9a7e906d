package generator

// Request describes one batch run.
type Request struct {
	Excel     string
	Template  string
	OutputDir string
	HeaderRow int
}

// Result sums up a batch run.
type Result struct {
	Processed int
	Succeeded int
	Failed    int
	Errors    []string
}
