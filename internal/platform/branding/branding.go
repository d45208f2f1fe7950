// Package branding holds product naming shared by rendered pages.
package branding

import "strings"

// AppName is the product name shown in page titles.
const AppName = "PrintStudio"

// PageTitle appends the product name to title unless it already ends with it.
func PageTitle(title string) string {
	title = strings.TrimSpace(title)
	switch {
	case title == "":
		return AppName
	case strings.HasSuffix(title, "| "+AppName):
		return title
	case strings.HasSuffix(title, "- "+AppName):
		return strings.TrimSpace(strings.TrimSuffix(title, "- "+AppName)) + " | " + AppName
	}
	return title + " | " + AppName
}
