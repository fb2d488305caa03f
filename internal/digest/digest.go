// Package digest renders collected internships as a chat message.
package digest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/maxaizer/internship-scraper/internal/entities"
	"github.com/samber/lo"
)

const (
	headerDateLayout = "02 January 2006"
	summaryMaxRunes  = 150
	defaultTitle     = "Untitled Opportunity"
	defaultLink      = "#"
	separator        = "---------------------------------"
	emptyDigest      = "No internships found for today."

	undergraduateFilter = "Undergraduate"
)

type digestItem struct {
	Title     *entities.LooseString `json:"title"`
	Details   entities.LooseString  `json:"details"`
	SeoURL    *entities.LooseString `json:"seo_url"`
	Filters   entities.LooseList    `json:"filters"`
	JobDetail jobDetail             `json:"jobDetail"`
}

type jobDetail struct {
	MinSalary entities.LooseString `json:"min_salary"`
	MaxSalary entities.LooseString `json:"max_salary"`
	Currency  entities.LooseString `json:"currency"`
}

func (d *jobDetail) UnmarshalJSON(b []byte) error {
	*d = jobDetail{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] != '{' {
		return nil
	}

	type plain jobDetail
	var detail plain
	if err := json.Unmarshal(b, &detail); err != nil {
		return nil
	}
	*d = jobDetail(detail)
	return nil
}

// Build renders one block per item under a dated header and returns the text
// with the number of rendered items. Items that are not JSON objects are skipped.
func Build(items []entities.RawItem, date time.Time) (string, int) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("*Internship Updates - %s*\n\n", date.Format(headerDateLayout)))

	count := 0
	for _, raw := range items {
		if !raw.IsObject() {
			continue
		}

		var item digestItem
		if err := json.Unmarshal(raw, &item); err != nil {
			continue
		}

		writeEntry(&sb, item)
		count++
	}

	if count == 0 {
		sb.WriteString(emptyDigest)
	}

	return sb.String(), count
}

func writeEntry(sb *strings.Builder, item digestItem) {
	sb.WriteString(fmt.Sprintf("📌 *%s*\n", title(item)))
	sb.WriteString(fmt.Sprintf("_%s_\n", Summarize(item.Details.String())))
	sb.WriteString(fmt.Sprintf("🔗 Apply: %s", link(item)))
	sb.WriteString(stipendLine(item))
	sb.WriteString("\n\n" + separator + "\n\n")
}

func title(item digestItem) string {
	if item.Title == nil {
		return defaultTitle
	}
	if value := strings.TrimSpace(item.Title.String()); value != "" {
		return value
	}
	return defaultTitle
}

func link(item digestItem) string {
	if item.SeoURL == nil || strings.TrimSpace(item.SeoURL.String()) == "" {
		return defaultLink
	}
	return strings.TrimSpace(item.SeoURL.String())
}

// Summarize strips markup, collapses whitespace and cuts the text to 150 characters.
func Summarize(html string) string {
	text := StripHTML(html)

	runes := []rune(text)
	if len(runes) <= summaryMaxRunes {
		return text
	}
	return string(runes[:summaryMaxRunes]) + "..."
}

// StripHTML returns the text content of an HTML fragment with whitespace runs
// collapsed to single spaces.
func StripHTML(html string) string {
	if strings.TrimSpace(html) == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return strings.Join(strings.Fields(html), " ")
	}

	return strings.Join(strings.Fields(doc.Text()), " ")
}

func stipendLine(item digestItem) string {
	if !lo.Contains(item.Filters.Names("name"), undergraduateFilter) {
		return ""
	}

	detail := item.JobDetail
	symbol := "$"
	if strings.Contains(strings.ToLower(detail.Currency.String()), "rupee") {
		symbol = "₹"
	}

	minSalary, maxSalary := detail.MinSalary, detail.MaxSalary
	switch {
	case minSalary.Present() && maxSalary.Present():
		return fmt.Sprintf("\n💰 *Stipend:* %s%s - %s%s", symbol, minSalary, symbol, maxSalary)
	case minSalary.Present():
		return fmt.Sprintf("\n💰 *Stipend:* %s%s", symbol, minSalary)
	case maxSalary.Present():
		return fmt.Sprintf("\n💰 *Stipend:* Up to %s%s", symbol, maxSalary)
	default:
		return ""
	}
}
