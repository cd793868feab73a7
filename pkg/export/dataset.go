package export

// Dataset defines tabular export content shared by the PDF and CSV
// renderers. Title is used by renderers that support a heading and
// ignored by the rest.
type Dataset struct {
	Title   string
	Headers []string
	Rows    []map[string]string
}
