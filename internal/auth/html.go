package auth

import (
	"strings"

	"golang.org/x/net/html"
)

// hiddenFieldValue scans an HTML document for the value attribute of the
// element with the given id, the way the login page's ASP.NET hidden fields
// (__VIEWSTATE, __VIEWSTATEGENERATOR, __EVENTVALIDATION, __PREVIOUSPAGE) are
// extracted before the credential POST.
func hiddenFieldValue(doc string, id string) (string, bool) {
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return "", false
	}

	var value string
	var found bool
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if found {
			return
		}
		if n.Type == html.ElementNode {
			for _, attr := range n.Attr {
				if attr.Key == "id" && attr.Val == id {
					for _, a2 := range n.Attr {
						if a2.Key == "value" {
							value = a2.Val
							found = true
							return
						}
					}
					found = true
					return
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
			if found {
				return
			}
		}
	}
	walk(root)
	return value, found
}
