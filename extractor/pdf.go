// Package extractor pulls weigh-in rows out of scale-app export PDFs. The
// PDFs lay text out positionally, so texts are first regrouped into visual
// rows by Y coordinate before parsing.
package extractor

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"
)

// WeighIn is one extracted date/weight pair, weight normalized to kilograms.
type WeighIn struct {
	Date     time.Time `json:"date"`
	WeightKg float64   `json:"weight_kg"`
}

// Physical plausibility bounds for a body weight reading.
const (
	minPlausibleKg = 20.0
	maxPlausibleKg = 400.0
)

const lbsPerKg = 2.20462

// ExtractWeighIns opens a PDF export and returns the weigh-ins found plus a
// count of rows that looked like data but failed to parse or were out of
// bounds. Rows sharing a date are deduplicated keeping the last occurrence.
func ExtractWeighIns(path string) ([]WeighIn, int, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	var weighIns []WeighIn
	skipped := 0

	totalPage := r.NumPage()
	for i := 1; i <= totalPage; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}

		rows := groupTextsIntoRows(p.Content().Text)
		for _, row := range rows {
			line := strings.Join(row.contents, " ")
			w, ok, candidate := parseWeighInRow(line)
			if !ok {
				if candidate {
					skipped++
				}
				continue
			}
			weighIns = append(weighIns, w)
		}
	}

	return dedupeByDate(weighIns), skipped, nil
}

var dateLayouts = []string{
	"2006-01-02",
	"02.01.2006",
	"02/01/2006",
	"01/02/2006",
	"2 Jan 2006",
	"Jan 2, 2006",
}

var (
	dateRe   = regexp.MustCompile(`\d{1,2}[./]\d{1,2}[./]\d{4}|\d{4}-\d{2}-\d{2}|\d{1,2} [A-Za-z]{3} \d{4}|[A-Za-z]{3} \d{1,2}, \d{4}`)
	weightRe = regexp.MustCompile(`(\d{1,3}(?:[.,]\d{1,2})?)\s*(kg|lbs?)\b`)
)

// parseWeighInRow tries to read a "date weight" row. The third return marks
// whether the row at least contained a date, so the caller can count
// near-misses as skipped instead of silently ignoring them.
func parseWeighInRow(line string) (WeighIn, bool, bool) {
	dateStr := dateRe.FindString(line)
	if dateStr == "" {
		return WeighIn{}, false, false
	}

	var date time.Time
	var parsed bool
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, dateStr); err == nil {
			date = d
			parsed = true
			break
		}
	}
	if !parsed {
		return WeighIn{}, false, true
	}

	m := weightRe.FindStringSubmatch(strings.ToLower(line))
	if len(m) < 3 {
		return WeighIn{}, false, true
	}

	// Comma decimals appear in European exports
	raw := strings.ReplaceAll(m[1], ",", ".")
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return WeighIn{}, false, true
	}

	if strings.HasPrefix(m[2], "lb") {
		value = value / lbsPerKg
	}

	if value < minPlausibleKg || value > maxPlausibleKg {
		return WeighIn{}, false, true
	}

	return WeighIn{Date: date, WeightKg: value}, true, true
}

func dedupeByDate(in []WeighIn) []WeighIn {
	if len(in) == 0 {
		return in
	}
	last := make(map[string]WeighIn, len(in))
	var order []string
	for _, w := range in {
		key := w.Date.Format("2006-01-02")
		if _, seen := last[key]; !seen {
			order = append(order, key)
		}
		last[key] = w
	}
	out := make([]WeighIn, 0, len(order))
	for _, key := range order {
		out = append(out, last[key])
	}
	return out
}

type rowData struct {
	y        float64
	contents []string
	xCoords  []float64
}

func groupTextsIntoRows(texts []pdf.Text) []rowData {
	if len(texts) == 0 {
		return nil
	}

	var rows []rowData
	tolerance := 2.0

	for _, t := range texts {
		content := strings.TrimSpace(t.S)
		if content == "" {
			continue
		}

		placed := false
		for i := range rows {
			if abs(rows[i].y-t.Y) < tolerance {
				rows[i].contents = append(rows[i].contents, content)
				rows[i].xCoords = append(rows[i].xCoords, t.X)
				placed = true
				break
			}
		}

		if !placed {
			rows = append(rows, rowData{
				y:        t.Y,
				contents: []string{content},
				xCoords:  []float64{t.X},
			})
		}
	}

	return rows
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
