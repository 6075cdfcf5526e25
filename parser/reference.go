package parser

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/FGRibreau/mcp-matomo/internal"
)

// MethodMetadata is what the API reference page tells us about a method.
type MethodMetadata struct {
	Parameters []MethodParameter `json:"parameters"`
	ExampleURL string            `json:"example_url,omitempty"`
}

// MethodParameter is a raw parameter as written in a method signature.
type MethodParameter struct {
	Name     string  `json:"name"`
	Required bool    `json:"required"`
	Default  *string `json:"default,omitempty"`
}

var methodSignatureRe = regexp.MustCompile(`(?m)^(\w+)\.(\w+)\s*\(?([^)]*)\)?`)

// ParseAPIReference scans the listAllAPI reference page for method
// signatures like "VisitsSummary.get (idSite, period, date, segment = '')".
// Extraction is best effort: text that matches nothing simply yields an
// empty metadata map.
//
// Two passes feed one first-writer-wins map: the signature regex over the
// raw text, then a sweep of heading elements for bare method names. The
// second pass never replaces a parameter list found by the first.
func ParseAPIReference(content string) map[string]MethodMetadata {
	methods := make(map[string]MethodMetadata)

	for _, cap := range methodSignatureRe.FindAllStringSubmatch(content, -1) {
		name := cap[1] + "." + cap[2]
		if _, ok := methods[name]; ok {
			continue
		}
		methods[name] = MethodMetadata{Parameters: parseSignature(cap[3])}
	}

	for _, heading := range headingTexts(content) {
		module, action, ok := strings.Cut(strings.TrimSpace(heading), ".")
		if !ok {
			continue
		}
		name := strings.TrimSpace(module) + "." + strings.TrimSpace(action)
		if _, exists := methods[name]; !exists {
			methods[name] = MethodMetadata{}
		}
	}

	internal.Logf("parsed %d method metadata entries from reference page", len(methods))
	return methods
}

// parseSignature splits "idSite, period, date, segment = ''" into
// parameters. A "=" marks the parameter optional with the right-hand side
// (quotes stripped) as its default.
func parseSignature(signature string) []MethodParameter {
	var params []MethodParameter

	for _, part := range strings.Split(signature, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if name, def, ok := strings.Cut(part, "="); ok {
			def = strings.TrimSpace(def)
			def = strings.Trim(def, `'"`)
			d := def
			params = append(params, MethodParameter{
				Name:    strings.TrimSpace(name),
				Default: &d,
			})
		} else {
			params = append(params, MethodParameter{
				Name:     part,
				Required: true,
			})
		}
	}

	return params
}

// headingTexts returns the text content of h2/h3 and .apiMethod/.method-name
// elements. A non-HTML input yields no headings, which is fine — the regex
// pass already covers plain text.
func headingTexts(content string) []string {
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return nil
	}

	var texts []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && isHeading(n) {
			texts = append(texts, nodeText(n))
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return texts
}

func isHeading(n *html.Node) bool {
	if n.Data == "h2" || n.Data == "h3" {
		return true
	}
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, class := range strings.Fields(attr.Val) {
			if class == "apiMethod" || class == "method-name" {
				return true
			}
		}
	}
	return false
}

func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
