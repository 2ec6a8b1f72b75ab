package wiki

import (
	"errors"
	"regexp"
	"strings"
)

// ErrNoTable is returned when the page carries no table to parse.
var ErrNoTable = errors.New("no table found in page")

var (
	tableRegex = regexp.MustCompile(`(?s)<table.*?>(.*?)</table>`)
	rowRegex   = regexp.MustCompile(`(?s)<tr.*?>(.*?)</tr>`)
	thRegex    = regexp.MustCompile(`(?s)<th.*?>(.*?)</th>`)
	tdRegex    = regexp.MustCompile(`(?s)<td.*?>(.*?)</td>`)
	tagRegex   = regexp.MustCompile(`<[^>]+>`)
)

// ParseTable extracts the first table from a storage-format page body.
// Headers are lowercased; cell values are stripped of markup. Each row
// maps header name to cell text.
func ParseTable(body string) ([]map[string]string, error) {
	table := tableRegex.FindString(body)
	if table == "" {
		return nil, ErrNoTable
	}

	rows := rowRegex.FindAllStringSubmatch(table, -1)
	if len(rows) == 0 {
		return nil, ErrNoTable
	}

	headerCells := thRegex.FindAllStringSubmatch(rows[0][1], -1)
	headers := make([]string, len(headerCells))
	for i, h := range headerCells {
		headers[i] = strings.ToLower(cleanCell(h[1]))
	}

	out := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		cells := tdRegex.FindAllStringSubmatch(row[1], -1)
		if len(cells) == 0 {
			continue
		}
		data := make(map[string]string, len(headers))
		for i, cell := range cells {
			if i >= len(headers) {
				break
			}
			data[headers[i]] = cleanCell(cell[1])
		}
		out = append(out, data)
	}
	return out, nil
}

func cleanCell(s string) string {
	return strings.TrimSpace(tagRegex.ReplaceAllString(s, ""))
}
