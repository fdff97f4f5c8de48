package parser

import (
	"regexp"
	"strconv"
	"strings"

	"receiptcheck/internal/entity"
)

// A line item is "name ... price" on one transcript line. The split point
// is the first whitespace-separated decimal token after a non-empty name.
var reItemPrice = regexp.MustCompile(`\s+(\d+(?:[.,]\d{2})?)\s*`)

func extractItems(text string) []entity.LineItem {
	var items []entity.LineItem
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		m := reItemPrice.FindStringSubmatchIndex(line)
		if m == nil {
			continue
		}
		name := strings.TrimSpace(line[:m[0]])
		if name == "" {
			continue
		}
		priceStr := strings.ReplaceAll(line[m[2]:m[3]], ",", ".")
		price, err := strconv.ParseFloat(priceStr, 64)
		if err != nil {
			continue
		}
		items = append(items, entity.LineItem{Name: name, Price: price})
	}
	return items
}
