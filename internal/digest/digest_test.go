package digest

import (
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/maxaizer/internship-scraper/internal/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var digestDate = time.Date(2026, 1, 24, 10, 0, 0, 0, time.UTC)

func loadItems(t *testing.T, path string) []entities.RawItem {
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var items []entities.RawItem
	require.NoError(t, json.Unmarshal(data, &items))
	return items
}

func Test_Build_Fixture(t *testing.T) {
	text, count := Build(loadItems(t, "testdata/items.json"), digestDate)

	expected := "*Internship Updates - 24 January 2026*\n\n" +
		"📌 *Product Design Intern*\n" +
		"_Work with the design team on real products._\n" +
		"🔗 Apply: https://unstop.com/internships/product-design-intern-501\n" +
		"💰 *Stipend:* ₹10000 - ₹15000\n\n" +
		"---------------------------------\n\n" +
		"📌 *Untitled Opportunity*\n" +
		"__\n" +
		"🔗 Apply: #\n\n" +
		"---------------------------------\n\n"

	assert.Equal(t, 2, count)
	assert.Equal(t, expected, text)
}

func Test_Build_Empty(t *testing.T) {
	text, count := Build(nil, digestDate)

	assert.Equal(t, 0, count)
	assert.Equal(t, "*Internship Updates - 24 January 2026*\n\nNo internships found for today.", text)
}

func Test_Build_SkipsNonObjects(t *testing.T) {
	items := []entities.RawItem{entities.RawItem(`"just a string"`), entities.RawItem(`42`)}

	text, count := Build(items, digestDate)

	assert.Equal(t, 0, count)
	assert.True(t, strings.HasSuffix(text, "No internships found for today."))
}

func Test_StipendLine(t *testing.T) {
	tests := []struct {
		name     string
		item     string
		expected string
	}{
		{
			name:     "min only",
			item:     `{"filters":[{"name":"Undergraduate"}],"jobDetail":{"min_salary":"8000","currency":"Rupee"}}`,
			expected: "\n💰 *Stipend:* ₹8000",
		},
		{
			name:     "max only in dollars",
			item:     `{"filters":[{"name":"Undergraduate"}],"jobDetail":{"min_salary":0,"max_salary":1200,"currency":"usd"}}`,
			expected: "\n💰 *Stipend:* Up to $1200",
		},
		{
			name:     "no bounds",
			item:     `{"filters":[{"name":"Undergraduate"}],"jobDetail":{"min_salary":null,"max_salary":""}}`,
			expected: "",
		},
		{
			name:     "not undergraduate",
			item:     `{"filters":[{"name":"Graduate"}],"jobDetail":{"min_salary":5000}}`,
			expected: "",
		},
		{
			name:     "job detail is not an object",
			item:     `{"filters":[{"name":"Undergraduate"}],"jobDetail":"n/a"}`,
			expected: "",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var item digestItem
			require.NoError(t, json.Unmarshal([]byte(test.item), &item))
			assert.Equal(t, test.expected, stipendLine(item))
		})
	}
}

func Test_Summarize(t *testing.T) {
	assert.Equal(t, "", Summarize(""))
	assert.Equal(t, "Tom & Jerry", Summarize("<div>Tom &amp;\n\tJerry</div>"))

	long := strings.Repeat("а", 160)
	summary := Summarize("<p>" + long + "</p>")
	assert.Equal(t, strings.Repeat("а", 150)+"...", summary)

	exact := strings.Repeat("b", 150)
	assert.Equal(t, exact, Summarize(exact))
}
