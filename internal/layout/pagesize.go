package layout

import (
	"fmt"
	"strings"
)

// PageSize is a named paper size in CSS pixels (96 per inch).
type PageSize struct {
	Width  float64
	Height float64
	Name   string
}

// Standard page sizes.
var (
	PageSizeLetter = PageSize{Width: 816, Height: 1056, Name: "Letter"}
	PageSizeLegal  = PageSize{Width: 816, Height: 1344, Name: "Legal"}
	PageSizeA3     = PageSize{Width: 1122.52, Height: 1587.4, Name: "A3"}
	PageSizeA4     = PageSize{Width: 793.7, Height: 1122.52, Name: "A4"}
	PageSizeA5     = PageSize{Width: 559.37, Height: 793.7, Name: "A5"}
)

var pageSizes = []PageSize{PageSizeLetter, PageSizeLegal, PageSizeA3, PageSizeA4, PageSizeA5}

// LookupPageSize finds a standard size by case-insensitive name.
func LookupPageSize(name string) (PageSize, error) {
	for _, ps := range pageSizes {
		if strings.EqualFold(ps.Name, strings.TrimSpace(name)) {
			return ps, nil
		}
	}
	return PageSize{}, fmt.Errorf("layout: unknown page size %q", name)
}
