// Package encoding provides shared text escaping utilities for XML
// serialization.
package encoding

import "strings"

// EscapeXMLText escapes the basic XML entities for text content.
func EscapeXMLText(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

// EscapeXMLAttr escapes text for use in XML attributes. Includes quote
// escaping in addition to the basic XML entities.
func EscapeXMLAttr(s string) string {
	s = EscapeXMLText(s)
	s = strings.ReplaceAll(s, "\"", "&quot;")
	return s
}
