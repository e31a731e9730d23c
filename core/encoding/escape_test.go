package encoding

import "testing"

func TestEscapeXMLText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"plain text", "Hello World", "Hello World"},
		{"ampersand", "Tom & Jerry", "Tom &amp; Jerry"},
		{"less than", "a < b", "a &lt; b"},
		{"greater than", "a > b", "a &gt; b"},
		{"quotes preserved", `He said "hello"`, `He said "hello"`},
		{"all three", "<script>&</script>", "&lt;script&gt;&amp;&lt;/script&gt;"},
		{"ampersand first", "&lt; stays escaped", "&amp;lt; stays escaped"},
		{"unicode", "日本語 & émoji", "日本語 &amp; émoji"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EscapeXMLText(tt.input)
			if got != tt.want {
				t.Errorf("EscapeXMLText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestEscapeXMLAttr(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"plain value", "value", "value"},
		{"quotes", `a "quoted" value`, "a &quot;quoted&quot; value"},
		{"entities and quotes", `x<"y"&z`, "x&lt;&quot;y&quot;&amp;z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EscapeXMLAttr(tt.input)
			if got != tt.want {
				t.Errorf("EscapeXMLAttr(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
