package slider

// Pandoc output formats that render slides in a browser.
var slideFormats = map[string]bool{
	"s5":       true,
	"slidy":    true,
	"slideous": true,
	"dzslides": true,
	"revealjs": true,
}

// isHTMLFormat reports whether the output format belongs to the HTML
// family, including the browser slide formats. Filters use it to choose
// SVG over PNG and site-relative links over file paths.
func isHTMLFormat(target string) bool {
	return target == "html" || target == "html5" || slideFormats[target]
}
