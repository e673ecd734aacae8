package domain

// Collection names a content collection.
type Collection string

const (
	CollectionNews      Collection = "news"
	CollectionDeadlines Collection = "deadlines"
)

// RawRecord is a content entry as delivered by a source, before normalization.
// Fields holds string and bool values only.
type RawRecord struct {
	ID     string
	Fields map[string]any
	Body   string
}

// String returns the field as a string. Booleans are formatted, anything else is "".
func (r RawRecord) String(key string) string {
	switch v := r.Fields[key].(type) {
	case string:
		return v
	case bool:
		if v {
			return "true"
		}
		return "false"
	}
	return ""
}

// Bool reports whether the field is true or the string "true".
func (r RawRecord) Bool(key string) bool {
	switch v := r.Fields[key].(type) {
	case bool:
		return v
	case string:
		return v == "true"
	}
	return false
}

// FetchResult is what a source returns for one collection.
type FetchResult struct {
	Records     []RawRecord
	FailedFiles int
	// Dropped counts entries the source could not decode.
	Dropped int
}
