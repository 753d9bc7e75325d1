package extract

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

// Diagnosis summarizes a fetched document for structure-miss logging.
// When the flow table goes missing it helps distinguish an upstream layout
// change (normal title, plenty of text) from an anti-bot interstitial
// (challenge title, near-empty body).
type Diagnosis struct {
	Title          string
	VisibleTextLen int
}

// Diagnose tokenizes the document and reports its title and the amount of
// visible body text. Tokenizer errors just end the scan; a partial
// diagnosis is still useful.
func Diagnose(body []byte) Diagnosis {
	z := html.NewTokenizer(bytes.NewReader(body))

	var d Diagnosis
	var inTitle bool
	inBody := false
	skipDepth := 0

	for {
		switch z.Next() {
		case html.ErrorToken:
			return d
		case html.StartTagToken:
			tn, _ := z.TagName()
			switch string(tn) {
			case "title":
				inTitle = true
			case "body":
				inBody = true
			case "script", "style", "noscript":
				skipDepth++
			}
		case html.EndTagToken:
			tn, _ := z.TagName()
			switch string(tn) {
			case "title":
				inTitle = false
			case "script", "style", "noscript":
				if skipDepth > 0 {
					skipDepth--
				}
			}
		case html.TextToken:
			text := strings.TrimSpace(string(z.Text()))
			if text == "" {
				continue
			}
			if inTitle && d.Title == "" {
				d.Title = text
			}
			if inBody && skipDepth == 0 {
				d.VisibleTextLen += len(text) + 1
			}
		}
	}
}
