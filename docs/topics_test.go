package docs

import (
	"strings"
	"testing"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Every topic must open with a level-1 heading: the topic command
// concatenates them, and the headings are what keeps the output readable.
func TestTopicsStartWithTitle(t *testing.T) {
	topics, err := AllTopics()
	if err != nil {
		t.Fatal(err)
	}
	if len(topics) == 0 {
		t.Fatal("no topics embedded")
	}
	for _, topic := range topics {
		content, err := GetTopic(topic)
		if err != nil {
			t.Fatalf("GetTopic(%q): %v", topic, err)
		}
		source := []byte(content)
		root := goldmark.DefaultParser().Parse(text.NewReader(source))
		first := root.FirstChild()
		heading, ok := first.(*ast.Heading)
		if !ok {
			t.Errorf("topic %q does not start with a heading", topic)
			continue
		}
		if heading.Level != 1 {
			t.Errorf("topic %q starts with a level-%d heading, want level 1", topic, heading.Level)
		}
	}
}

func TestGetTopicsStar(t *testing.T) {
	all, err := GetTopics("*")
	if err != nil {
		t.Fatal(err)
	}
	single, err := GetTopic("readme")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(all, single) {
		t.Error("expanded topics should contain the readme")
	}
}

func TestGetTopicsStarAfterOthers(t *testing.T) {
	// A star after explicit topics expands in place; the topics already
	// written must not be dropped.
	got, err := GetTopics("formula", "*")
	if err != nil {
		t.Fatal(err)
	}
	formula, err := GetTopic("formula")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(got, formula) {
		t.Error("explicit topic before the star was discarded")
	}
	readme, err := GetTopic("readme")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, readme) {
		t.Error("star after explicit topics did not expand")
	}
}

func TestGetTopicUnknown(t *testing.T) {
	if _, err := GetTopic("no-such-topic"); err == nil {
		t.Fatal("expected an error for an unknown topic")
	}
}
