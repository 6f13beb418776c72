// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package content

import "strings"

// Header is a candidate section header found in a paper's text.
type Header struct {
	Offset int
	Number string
	Title  string
}

// FindHeaders lists the blank-line-delimited lines that look like section
// headers. It is a diagnostic for tuning the extraction patterns.
func FindHeaders(text string) []Header {
	var headers []Header
	for _, m := range DefaultPatterns().Header.FindAllStringSubmatchIndex(text, -1) {
		headers = append(headers, Header{
			Offset: m[0] + 2,
			Number: text[m[2]:m[3]],
			Title:  strings.TrimSpace(text[m[4]:m[5]]),
		})
	}
	return headers
}
