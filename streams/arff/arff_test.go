package arff

import (
	"strings"
	"testing"
)

const weatherARFF = `
% a tiny weather dataset
@relation weather

@attribute outlook {sunny, overcast, rainy}
@attribute temperature numeric
@attribute humidity numeric
@attribute windy {TRUE, FALSE}
@attribute play {yes, no}

@data
sunny,85,85,FALSE,no
overcast,83,86,FALSE,yes
rainy,70,96,TRUE,no
sunny,?,90,FALSE,yes
`

func TestParseWeatherHeaderAndData(t *testing.T) {
	s, err := Parse(strings.NewReader(weatherARFF))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	model := s.Header()
	if model.Name != "weather" {
		t.Errorf("got relation %q, want %q", model.Name, "weather")
	}
	if model.NumAttributes() != 5 {
		t.Fatalf("got %d attributes, want 5", model.NumAttributes())
	}
	if model.Class().Name != "play" {
		t.Errorf("got class attribute %q, want %q", model.Class().Name, "play")
	}
	if model.NumClasses() != 2 {
		t.Errorf("got %d classes, want 2", model.NumClasses())
	}

	var rows int
	var sawMissing bool
	for s.HasMore() {
		inst, ok := s.Next()
		if !ok {
			t.Fatalf("Next returned false while HasMore was true")
		}
		rows++
		if v, ok := inst.GetAttributeValue("temperature").(float64); ok {
			if v != v { // NaN check without importing math
				sawMissing = true
			}
		}
	}
	if rows != 4 {
		t.Errorf("got %d rows, want 4", rows)
	}
	if !sawMissing {
		t.Error("expected the '?' temperature value to decode as missing")
	}

	if err := s.Restart(); err != nil {
		t.Fatalf("Restart: %v", err)
	}
	if !s.HasMore() {
		t.Error("HasMore should be true after Restart")
	}
}

func TestParseQuotedFields(t *testing.T) {
	doc := `@relation r
@attribute outlook {sunny, overcast, rainy}
@attribute note string
@attribute play {yes, no}
@data
'sunny',"a note, with a comma",no
`
	s, err := Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	inst, ok := s.Next()
	if !ok {
		t.Fatal("expected one data row")
	}
	if inst.GetAttributeValue("outlook") == nil {
		t.Error("outlook should not be missing")
	}
}

func TestParseRejectsEmptyHeader(t *testing.T) {
	if _, err := Parse(strings.NewReader("@relation r\n@data\n")); err == nil {
		t.Error("expected an error when no @attribute lines are present")
	}
}
