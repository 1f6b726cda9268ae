package domain

// ArticlePair is one (Abstract, Body) training example extracted from the XML corpus.
type ArticlePair struct {
	Abstract string `json:"Abstract"`
	Body     string `json:"Body"`
}

func (p ArticlePair) Complete() bool {
	return p.Abstract != "" && p.Body != ""
}

type DatasetFormat string

const (
	FormatCSV  DatasetFormat = "csv"
	FormatJSON DatasetFormat = "json"
	FormatXLSX DatasetFormat = "xlsx"
)

// ExtractionReport summarizes one corpus extraction run.
type ExtractionReport struct {
	Files   int
	Written int
	Skipped int
}
