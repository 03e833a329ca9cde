package models

// TransformationCSVToJSON tags every record produced from a CSV row.
const TransformationCSVToJSON = "csv_to_json"

// RawRecord is one decoded CSV data row keyed by header name, in header order.
type RawRecord = Record

// Metadata records where a normalized record came from.
type Metadata struct {
	SourceFile         string `json:"source_file"`
	TransformationType string `json:"transformation_type"`
}

// NormalizedRecord is the document delivered to the stream: trimmed,
// non-empty column values plus provenance.
type NormalizedRecord struct {
	Data     *Record  `json:"data"`
	Metadata Metadata `json:"metadata"`
}
