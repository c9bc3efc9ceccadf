package validation

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var skippedHrefPrefixes = []string{"http", "#", "mailto:", "tel:", "javascript:", "data:", "//"}

// PageLinks returns the relative a[href] and img[src] values of a page that
// should resolve on disk, in document order.
func PageLinks(path string) ([]string, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	defer func() { _ = f.Close() }()

	doc, err := html.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}

	hrefs := make([]string, 0)
	walk(doc, func(n *html.Node) {
		var href string
		switch n.DataAtom {
		case atom.A:
			href = getAttr(n, "href")
		case atom.Img:
			href = getAttr(n, "src")
		default:
			return
		}
		href = strings.TrimSpace(href)
		if href == "" || skipHref(href) {
			return
		}
		hrefs = append(hrefs, href)
	})
	return hrefs, nil
}

func skipHref(href string) bool {
	for _, p := range skippedHrefPrefixes {
		if strings.HasPrefix(href, p) {
			return true
		}
	}
	return false
}

// CheckOutputLinks verifies that the relative links of a rendered page exist
// under outputRoot. Root-relative links ("/x") resolve against outputRoot and
// directory targets must contain an index.html.
func CheckOutputLinks(pagePath, outputRoot, location string) (Report, error) {
	hrefs, err := PageLinks(pagePath)
	if err != nil {
		return Report{}, err
	}

	var rep Report
	for _, href := range hrefs {
		target, ok := resolveOutputTarget(href, filepath.Dir(pagePath), outputRoot)
		if !ok {
			continue
		}
		if !outputExists(target) {
			rep.add(KindOutputLink, SeverityError, location, "Broken internal link: %s", href)
		}
	}
	return rep, nil
}

// CheckOutputPage runs the structure and link checks on one written page.
// A page that cannot be read or parsed is reported as an error issue.
func CheckOutputPage(path, outputRoot, location string) Report {
	var rep Report
	page, err := CheckPageFile(path, location)
	if err != nil {
		rep.add(KindElement, SeverityError, location, "Unreadable output page: %v", err)
		return rep
	}
	rep.Merge(page)
	links, err := CheckOutputLinks(path, outputRoot, location)
	if err != nil {
		rep.add(KindElement, SeverityError, location, "Unreadable output page: %v", err)
		return rep
	}
	rep.Merge(links)
	return rep
}

func resolveOutputTarget(href, pageDir, outputRoot string) (string, bool) {
	u, err := url.Parse(href)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "", false
	}
	if u.Path == "" {
		return "", false
	}
	p := filepath.FromSlash(u.Path)
	if strings.HasPrefix(u.Path, "/") {
		return filepath.Join(outputRoot, p), true
	}
	return filepath.Join(pageDir, p), true
}

func outputExists(target string) bool {
	info, err := os.Stat(target)
	if err != nil {
		return false
	}
	if !info.IsDir() {
		return true
	}
	_, err = os.Stat(filepath.Join(target, "index.html"))
	return err == nil
}
