// Package layout holds the page shell shared by every web page
package layout

// FlashMessage is a one-shot notice carried across a redirect
type FlashMessage struct {
	Type    string // "info" or "error"
	Message string
}

// PageData is common data for every page
type PageData struct {
	Title string
	Flash *FlashMessage
}

func pageTitle(title string) string {
	if title == "" {
		return "Colorwood"
	}
	return title + " - Colorwood"
}
