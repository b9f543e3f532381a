package scraper

import (
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"github.com/jiundev/gongmo-calendar/internal/ipo"
)

var (
	// "2026.01.15~01.16" (end year implied, may roll over into January)
	dateRangeShort = regexp.MustCompile(`(\d{4})\.(\d{1,2})\.(\d{1,2})~(\d{1,2})\.(\d{1,2})`)
	// "2026.01.15~2026.01.16"
	dateRangeFull = regexp.MustCompile(`(\d{4})\.(\d{1,2})\.(\d{1,2})~(\d{4})\.(\d{1,2})\.(\d{1,2})`)
	// "2026.01.15"
	singleDate = regexp.MustCompile(`(\d{4})\.(\d{1,2})\.(\d{1,2})`)
	// "967.60:1"
	competitionRatio = regexp.MustCompile(`([\d,.]+)\s*:\s*1`)

	nonDigits   = regexp.MustCompile(`[^\d]`)
	parenTags   = regexp.MustCompile(`\(.*?\)`)
	whitespace  = regexp.MustCompile(`\s+`)
	rangeDashes = strings.NewReplacer("∼", "~", "～", "~", "-", "~", "–", "~")
)

// Rows whose "company name" contains one of these are navigation, ads, or
// section headers on the source site, not offerings.
var invalidKeywords = []string{
	"실시간", "인기주", "빨간색", "매매", "비상장",
	"공모주일정", "IPO 청구", "IPO 승인", "청약일정", "신규상장", "최근 IPO",
}

var headerNames = map[string]bool{
	"종목명": true, "기업명": true, "회사명": true,
}

// ParseOfferings extracts offerings from a schedule page. isListing selects
// the new-listings column layout. A page whose structure doesn't match
// yields an empty slice, not an error.
func ParseOfferings(r io.Reader, isListing bool) ([]*ipo.Offering, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}

	// The data table is tagged with a summary attribute; fall back to
	// scanning all tables if the site drops it.
	summary := "공모주 소식"
	if isListing {
		summary = "신규상장종목"
	}
	tables := doc.Find(`table[summary="` + summary + `"]`)
	if tables.Length() == 0 {
		tables = doc.Find("table")
	}

	minCols := 5
	if isListing {
		minCols = 7
	}

	offerings := make([]*ipo.Offering, 0)
	tables.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cols := row.Find("td")
		if cols.Length() < minCols {
			return
		}

		o := parseRow(cols, isListing)
		if o != nil {
			offerings = append(offerings, o)
		}
	})

	return offerings, nil
}

// parseRow extracts one offering from a table row, or nil if the row isn't
// an offering (header, nav, malformed).
func parseRow(cols *goquery.Selection, isListing bool) *ipo.Offering {
	name := extractCompanyName(cols.Eq(0))
	if name == "" {
		return nil
	}

	o := &ipo.Offering{
		CompanyName: name,
		DetailURL:   extractDetailURL(cols.Eq(0)),
		Source:      SourceName,
		CollectedAt: time.Now(),
	}

	if isListing {
		// [0] 기업명 [1] 상장일 [2] 현재가 [3] 전일대비 [4] 공모가 ...
		o.ListingDate = parseSingleDate(strings.ReplaceAll(cellText(cols, 1), "/", "."))
		o.FinalOfferPrice = parsePrice(cellText(cols, 4))
		return o
	}

	// [0] 회사명 [1] 청약기간 [2] 확정공모가 [3] 희망공모가 [4] 경쟁률 [5] 주관사
	o.SubscriptionStart, o.SubscriptionEnd = parseDateRange(cellText(cols, 1))
	o.FinalOfferPrice = parsePrice(cellText(cols, 2))
	o.OfferPriceMin, o.OfferPriceMax = parsePriceRange(cellText(cols, 3))
	o.InstitutionalCompetition = parseCompetition(cellText(cols, 4))
	o.LeadUnderwriter = cleanUnderwriter(cellText(cols, 5))

	return o
}

// filterValid drops nav/ad rows, offerings without a subscription date,
// and duplicates by identity key.
func filterValid(offerings []*ipo.Offering) []*ipo.Offering {
	seen := make(map[string]bool, len(offerings))
	valid := make([]*ipo.Offering, 0, len(offerings))

	for _, o := range offerings {
		if containsAny(o.CompanyName, invalidKeywords) {
			continue
		}
		if o.SubscriptionStart.IsZero() {
			logrus.Debugf("청약일 없음, 제외: %s", o.CompanyName)
			continue
		}
		key := o.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		valid = append(valid, o)
	}
	return valid
}

func cellText(cols *goquery.Selection, i int) string {
	return strings.TrimSpace(cols.Eq(i).Text())
}

// extractCompanyName pulls the company name out of the first cell,
// preferring the link text and stripping parenthesised market tags
// like (유가), (코넥스), (스팩).
func extractCompanyName(cell *goquery.Selection) string {
	text := strings.TrimSpace(cell.Find("a").First().Text())
	if text == "" {
		text = strings.TrimSpace(cell.Text())
	}
	if text == "" || headerNames[text] {
		return ""
	}

	text = parenTags.ReplaceAllString(text, "")
	text = strings.TrimSpace(whitespace.ReplaceAllString(text, " "))
	return text
}

func extractDetailURL(cell *goquery.Selection) string {
	href, ok := cell.Find("a").First().Attr("href")
	if !ok || href == "" {
		return ""
	}
	if !strings.HasPrefix(href, "http") {
		href = BaseURL + href
	}
	return href
}

// parseDateRange parses a subscription window like "2026.01.15~01.16" or
// "2026.01.15~2026.01.16". A single date yields start == end. A window
// whose short-form end precedes its start rolls over into the next year.
func parseDateRange(text string) (time.Time, time.Time) {
	if text == "" || text == "-" {
		return time.Time{}, time.Time{}
	}
	text = rangeDashes.Replace(text)

	if m := dateRangeFull.FindStringSubmatch(text); m != nil {
		start := makeDate(m[1], m[2], m[3])
		end := makeDate(m[4], m[5], m[6])
		return start, end
	}

	if m := dateRangeShort.FindStringSubmatch(text); m != nil {
		start := makeDate(m[1], m[2], m[3])
		end := makeDate(m[1], m[4], m[5])
		if !start.IsZero() && !end.IsZero() && end.Before(start) {
			end = end.AddDate(1, 0, 0)
		}
		return start, end
	}

	if d := parseSingleDate(text); !d.IsZero() {
		return d, d
	}

	return time.Time{}, time.Time{}
}

func parseSingleDate(text string) time.Time {
	if text == "" || text == "-" {
		return time.Time{}
	}
	if m := singleDate.FindStringSubmatch(text); m != nil {
		return makeDate(m[1], m[2], m[3])
	}
	return time.Time{}
}

func makeDate(year, month, day string) time.Time {
	y, _ := strconv.Atoi(year)
	m, _ := strconv.Atoi(month)
	d, _ := strconv.Atoi(day)
	if m < 1 || m > 12 || d < 1 || d > 31 {
		return time.Time{}
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	// Reject normalized overflow like 2026.02.31.
	if t.Day() != d || t.Month() != time.Month(m) {
		return time.Time{}
	}
	return t
}

// parsePrice extracts a won amount, dropping separators. 0 means absent.
func parsePrice(text string) int {
	if text == "" || text == "-" {
		return 0
	}
	digits := nonDigits.ReplaceAllString(text, "")
	if digits == "" {
		return 0
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return n
}

// parsePriceRange parses "10,000~12,000". A lone price fills both bounds.
func parsePriceRange(text string) (int, int) {
	if text == "" || text == "-" {
		return 0, 0
	}
	text = rangeDashes.Replace(text)

	parts := strings.Split(text, "~")
	switch len(parts) {
	case 2:
		return parsePrice(parts[0]), parsePrice(parts[1])
	case 1:
		p := parsePrice(parts[0])
		return p, p
	}
	return 0, 0
}

// parseCompetition parses "967.60:1". 0 means absent.
func parseCompetition(text string) float64 {
	if text == "" || text == "-" {
		return 0
	}
	m := competitionRatio.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return 0
	}
	return f
}

// cleanUnderwriter keeps only the lead underwriter when several are listed.
func cleanUnderwriter(text string) string {
	if text == "" || text == "-" {
		return ""
	}
	text = strings.TrimSpace(whitespace.ReplaceAllString(text, " "))

	for _, sep := range []string{",", "/", "·", "|"} {
		if idx := strings.Index(text, sep); idx >= 0 {
			text = strings.TrimSpace(text[:idx])
			break
		}
	}
	return text
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
