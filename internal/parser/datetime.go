package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Date forms tried in declared order, first parseable hit wins. Every
// numeric date match is claimed so the bare-decimal amount tier cannot
// mistake "01.02" inside "01.02.2024" for money.
var (
	reDateDMY   = regexp.MustCompile(`(\d{1,2})[./](\d{1,2})[./](\d{2,4})`)
	reDateYMD   = regexp.MustCompile(`(\d{4})[./](\d{1,2})[./](\d{1,2})`)
	reDateRuMon = regexp.MustCompile(`(?i)(\d{1,2})\s+(янв|фев|мар|апр|май|июн|июл|авг|сен|окт|ноя|дек)[а-яё]*\s+(\d{4})`)
	reTime      = regexp.MustCompile(`(\d{1,2}):(\d{2})(?::(\d{2}))?`)
)

// Fixed 3-letter Russian month table.
var ruMonths = map[string]time.Month{
	"янв": time.January, "фев": time.February, "мар": time.March,
	"апр": time.April, "май": time.May, "июн": time.June,
	"июл": time.July, "авг": time.August, "сен": time.September,
	"окт": time.October, "ноя": time.November, "дек": time.December,
}

func (p *Parser) extractDateTime(text string) (*time.Time, *time.Time, [][2]int) {
	var spans [][2]int
	var date *time.Time

	// Y.M.D is checked before D.M.Y so "2024.03.05" is not read as day
	// 2024; spans of both numeric forms are claimed either way.
	for _, m := range reDateYMD.FindAllStringSubmatchIndex(text, -1) {
		spans = append(spans, [2]int{m[0], m[1]})
		if date == nil {
			date = makeDate(text[m[6]:m[7]], text[m[4]:m[5]], text[m[2]:m[3]])
		}
	}
	for _, m := range reDateDMY.FindAllStringSubmatchIndex(text, -1) {
		spans = append(spans, [2]int{m[0], m[1]})
		if date == nil {
			date = makeDate(text[m[2]:m[3]], text[m[4]:m[5]], text[m[6]:m[7]])
		}
	}
	if date == nil {
		if m := reDateRuMon.FindStringSubmatchIndex(text); m != nil {
			mon, ok := ruMonths[strings.ToLower(text[m[4]:m[5]])]
			if ok {
				date = makeDate(text[m[2]:m[3]], strconv.Itoa(int(mon)), text[m[6]:m[7]])
			}
		}
	}

	var clock *time.Time
	for _, m := range reTime.FindAllStringSubmatchIndex(text, -1) {
		hour, _ := strconv.Atoi(text[m[2]:m[3]])
		minute, _ := strconv.Atoi(text[m[4]:m[5]])
		second := 0
		if m[6] >= 0 {
			second, _ = strconv.Atoi(text[m[6]:m[7]])
		}
		if hour > 23 || minute > 59 || second > 59 {
			continue
		}
		t := time.Date(0, time.January, 1, hour, minute, second, 0, time.UTC)
		clock = &t
		break
	}

	if date != nil {
		p.logger.Debug("parse.date", "date", date.Format("2006-01-02"))
	}
	return date, clock, spans
}

// makeDate builds a calendar date from string components, rejecting
// impossible combinations. Two-digit years are 2000-based.
func makeDate(dayS, monthS, yearS string) *time.Time {
	day, err1 := strconv.Atoi(dayS)
	month, err2 := strconv.Atoi(monthS)
	year, err3 := strconv.Atoi(yearS)
	if err1 != nil || err2 != nil || err3 != nil {
		return nil
	}
	if year < 100 {
		year += 2000
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return nil
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if d.Day() != day || d.Month() != time.Month(month) {
		return nil // e.g. 31.02 rolled over
	}
	return &d
}
