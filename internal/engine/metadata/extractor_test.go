package metadata

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/law-makers/collegecrawl/pkg/models"
)

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func TestExtract(t *testing.T) {
	doc := mustDoc(t, `<html><head><title> NIT Calicut </title><style>.x{}</style></head>
<body>
	<noscript>enable js</noscript>
	<h1>National Institute of <em>Technology</em></h1>
	<h1>Second heading</h1>
	<address>NIT Campus P.O., Kozhikode</address>
	<a href=" /contact-us ">Contact <span>Us</span></a>
	<a href="">empty</a>
	<a>no href</a>
	<script>document.write("x@y.in")</script>
	<template><p>hidden</p></template>
</body></html>`)

	page := &models.Page{}
	Extract(doc, page)

	if page.Title != "NIT Calicut" {
		t.Errorf("unexpected title %q", page.Title)
	}
	if page.Heading != "National Institute of Technology" {
		t.Errorf("unexpected heading %q", page.Heading)
	}
	if page.Address != "NIT Campus P.O., Kozhikode" {
		t.Errorf("unexpected address %q", page.Address)
	}
	if len(page.Links) != 1 || page.Links[0].Href != "/contact-us" || page.Links[0].Text != "Contact Us" {
		t.Errorf("unexpected links %+v", page.Links)
	}
	for _, hidden := range []string{"enable js", "x@y.in", "hidden", ".x{}"} {
		if strings.Contains(page.Text, hidden) {
			t.Errorf("text should not contain %q: %q", hidden, page.Text)
		}
	}
	if !strings.Contains(page.Text, "Second heading NIT Campus") {
		t.Errorf("text nodes should be space separated: %q", page.Text)
	}
}

func TestExtract_NilSafe(t *testing.T) {
	Extract(nil, &models.Page{})
	Extract(mustDoc(t, "<p>x</p>"), nil)
	if got := ExtractText(nil); got != "" {
		t.Errorf("expected empty text, got %q", got)
	}
}

func TestExtractDomain(t *testing.T) {
	tests := map[string]string{
		"https://WWW.CET.ac.in/contact": "www.cet.ac.in",
		"http://gect.ac.in?x=1":         "gect.ac.in",
		"https://mec.ac.in":             "mec.ac.in",
	}
	for in, want := range tests {
		if got := ExtractDomain(in); got != want {
			t.Errorf("ExtractDomain(%q) = %q, want %q", in, got, want)
		}
	}
	if !IsAbsoluteURL("https://x.in") || IsAbsoluteURL("/contact") {
		t.Error("IsAbsoluteURL misclassified")
	}
}
