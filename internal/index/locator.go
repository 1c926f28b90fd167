package index

import (
	"strconv"
	"strings"
	"time"

	"github.com/sealane-research/roundup-cli/internal/model"
)

// Locate filters listing descriptors down to the collection window: exact
// category-id match plus the target year appearing in the date or title.
// Year 0 means the current year. Upstream order is preserved.
func Locate(entries []model.ReportDescriptor, category string, year int, now time.Time) []model.ReportDescriptor {
	if year == 0 {
		year = now.Year()
	}
	ys := strconv.Itoa(year)

	var out []model.ReportDescriptor
	for _, e := range entries {
		if e.CategoryID != category {
			continue
		}
		if !strings.Contains(e.Date, ys) && !strings.Contains(e.Title, ys) {
			continue
		}
		out = append(out, e)
	}
	return out
}
