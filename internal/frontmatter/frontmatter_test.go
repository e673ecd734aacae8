package frontmatter

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_DeadlineDocument(t *testing.T) {
	raw := "---\n" +
		"title: \"Lab Report 1\"\n" +
		"subject: Applied Physics\n" +
		"dueDate: 2025-10-23T23:59:00.000Z\n" +
		"priority: 'high'\n" +
		"featured: true\n" +
		"sendNotification: false\n" +
		"---\n" +
		"\n" +
		"Submit the **first** lab report.\n\n"

	doc := Parse(raw)

	want := map[string]any{
		"title":            "Lab Report 1",
		"subject":          "Applied Physics",
		"dueDate":          "2025-10-23T23:59:00.000Z",
		"priority":         "high",
		"featured":         true,
		"sendNotification": false,
	}
	if diff := cmp.Diff(want, doc.Fields); diff != "" {
		t.Errorf("fields mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "Submit the **first** lab report.", doc.Body)
}

func TestParse_NoFrontmatter(t *testing.T) {
	raw := "Just a body\nwith two lines"

	doc := Parse(raw)

	assert.Empty(t, doc.Fields)
	assert.Equal(t, raw, doc.Body)
}

func TestParse_UnclosedBlock(t *testing.T) {
	raw := "---\ntitle: Broken\nno closing delimiter"

	doc := Parse(raw)

	assert.Empty(t, doc.Fields)
	assert.Equal(t, raw, doc.Body)
}

func TestParse_CRLF(t *testing.T) {
	doc := Parse("---\r\ntitle: Windows\r\n---\r\nbody\r\n")

	assert.Equal(t, "Windows", doc.Fields["title"])
	assert.Equal(t, "body", doc.Body)
}

func TestParse_QuotedBooleanIsCoerced(t *testing.T) {
	doc := Parse("---\nfeatured: \"true\"\n---\nbody\n")

	assert.Equal(t, true, doc.Fields["featured"])
}

func TestParse_InvalidYAMLFallsBackToLines(t *testing.T) {
	raw := "---\n" +
		"title: Exam: Mid-Term\n" +
		"note: 'quoted'\n" +
		"urgent: true\n" +
		"---\n" +
		"body\n"

	doc := Parse(raw)

	want := map[string]any{
		"title":  "Exam: Mid-Term",
		"note":   "quoted",
		"urgent": true,
	}
	if diff := cmp.Diff(want, doc.Fields); diff != "" {
		t.Errorf("fields mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "body", doc.Body)
}

func TestParse_UnknownKeysPassThrough(t *testing.T) {
	doc := Parse("---\ncolour: teal\n---\n")

	assert.Equal(t, "teal", doc.Fields["colour"])
	assert.Equal(t, "", doc.Body)
}

func TestParse_NestedValuesSkipped(t *testing.T) {
	doc := Parse("---\ntitle: Tags\ntags:\n  - a\n  - b\n---\nbody\n")

	assert.Equal(t, map[string]any{"title": "Tags"}, doc.Fields)
}

func TestBuild_RoundTrip(t *testing.T) {
	cases := []struct {
		name   string
		fields map[string]any
		body   string
	}{
		{
			name: "news",
			fields: map[string]any{
				"title":            "Mid-Term Examination Schedule Released",
				"date":             "2025-10-10T10:00:00",
				"category":         "Exam",
				"featured":         true,
				"sendNotification": false,
			},
			body: "The schedule is out.\n\n- Bring your ID\n- Arrive early",
		},
		{
			name:   "colon in value",
			fields: map[string]any{"title": "Exam: Part 2"},
			body:   "body",
		},
		{
			name:   "no fields",
			fields: map[string]any{},
			body:   "only body",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw, err := Build(tc.fields, tc.body)
			require.NoError(t, err)

			doc := Parse(raw)

			if diff := cmp.Diff(tc.fields, doc.Fields); diff != "" {
				t.Errorf("fields mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, tc.body, doc.Body)
		})
	}
}

func TestParse_SpaceHashStartsComment(t *testing.T) {
	raw := "---\n" +
		"title: Week 3 #important\n" +
		"subject: C# basics\n" +
		"description: \"Bring #2 pencils\"\n" +
		"---\n"

	doc := Parse(raw)

	assert.Equal(t, "Week 3", doc.Fields["title"])
	assert.Equal(t, "C# basics", doc.Fields["subject"])
	assert.Equal(t, "Bring #2 pencils", doc.Fields["description"])
}
