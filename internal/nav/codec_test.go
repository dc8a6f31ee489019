package nav

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/MrSnakeDoc/navdesk/internal/apperr"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr bool
	}{
		{
			name: "minimal document",
			text: "categories: []\ndock:\n  items: []\n  utilities: []\n",
		},
		{
			name: "json is accepted",
			text: `{"categories": [], "dock": {"items": [], "utilities": []}}`,
		},
		{
			name:    "missing dock",
			text:    "categories: []\n",
			wantErr: true,
		},
		{
			name:    "missing categories",
			text:    "dock:\n  items: []\n",
			wantErr: true,
		},
		{
			name:    "not a mapping",
			text:    "- a\n- b\n",
			wantErr: true,
		},
		{
			name:    "empty",
			text:    "",
			wantErr: true,
		},
		{
			name:    "malformed",
			text:    "categories: [\n",
			wantErr: true,
		},
		{
			name:    "wrong type",
			text:    "categories: 3\ndock: {}\n",
			wantErr: true,
		},
		{
			name:    "null collections",
			text:    "categories: ~\ndock: ~\n",
			wantErr: true,
		},
		{
			name:    "empty values",
			text:    "categories:\ndock:\n",
			wantErr: true,
		},
		{
			name:    "json null collections",
			text:    `{"categories": null, "dock": null}`,
			wantErr: true,
		},
		{
			name:    "null dock",
			text:    "categories: []\ndock: ~\n",
			wantErr: true,
		},
		{
			name:    "dock is a list",
			text:    "categories: []\ndock: []\n",
			wantErr: true,
		},
		{
			name: "empty dock mapping",
			text: "categories: []\ndock: {}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse([]byte(tt.text))
			if tt.wantErr {
				if !errors.Is(err, apperr.ErrParse) {
					t.Fatalf("Parse() error = %v, want ErrParse", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse() unexpected error: %v", err)
			}
			if doc == nil {
				t.Fatal("Parse() returned nil document")
			}
		})
	}
}

func TestParse_MissingKeyNamed(t *testing.T) {
	_, err := Parse([]byte("categories: []\n"))
	if err == nil || !strings.Contains(err.Error(), `"dock"`) {
		t.Errorf("error should name the missing key, got %v", err)
	}
}

func TestEmptyDocument_PassesParse(t *testing.T) {
	doc := &Document{}

	text, err := Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if _, err := Parse(text); err != nil {
		t.Errorf("Parse(Marshal(empty)) error: %v\n%s", err, text)
	}

	js, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("json.Marshal() error: %v", err)
	}
	if !strings.Contains(string(js), `"categories":[]`) {
		t.Errorf("json categories not a list: %s", js)
	}
	if _, err := Parse(js); err != nil {
		t.Errorf("Parse(json) error: %v", err)
	}
	if doc.Categories != nil {
		t.Error("marshal must not modify the document")
	}
}

func TestDefault_RoundTrip(t *testing.T) {
	doc := Default()
	if len(doc.Categories) == 0 {
		t.Fatal("default document has no categories")
	}

	text, err := Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	back, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse(Marshal()) error: %v", err)
	}
	if !reflect.DeepEqual(doc, back) {
		t.Errorf("round trip changed the document:\n%s", text)
	}
}

func TestDefault_FreshCopy(t *testing.T) {
	a := Default()
	a.Greeting.Name = "changed"
	if Default().Greeting.Name == "changed" {
		t.Error("Default() must not share state between calls")
	}
}
