package jsonfeed

import "encoding/json"

// Feed is the aggregated document: {"news": [...]} or {"deadlines": [...]}.
// Top-level keys other than the requested collection are ignored.
type Feed map[string]json.RawMessage

// Entry is one element of a collection array.
type Entry map[string]json.RawMessage
