package catalog

import "testing"

func TestValueNull(t *testing.T) {
	v := Null()
	if !v.IsNull() {
		t.Error("Null value should report null")
	}
	if v.Any() != nil {
		t.Error("Null value should carry nil")
	}
	if v.Text() != "" {
		t.Errorf("Null should render empty, got %q", v.Text())
	}
}

func TestValueText(t *testing.T) {
	cases := []struct {
		v    Value
		want string
	}{
		{String("LoFASM4"), "LoFASM4"},
		{Float(502632582.5), "5.026325825e+08"},
		{Int(42), "42"},
		{Bool(true), "true"},
	}
	for _, c := range cases {
		if got := c.v.Text(); got != c.want {
			t.Errorf("Text(%v): expected %q, got %q", c.v.Any(), c.want, got)
		}
	}
}

func TestParseValueRoundTrip(t *testing.T) {
	cases := []struct {
		datatype string
		v        Value
	}{
		{TypeString, String("CC")},
		{TypeFloat64, Float(120.5)},
		{TypeInt64, Int(-7)},
		{TypeBool, Bool(false)},
	}
	for _, c := range cases {
		parsed, err := ParseValue(c.v.Text(), c.datatype)
		if err != nil {
			t.Fatalf("ParseValue(%q, %s) failed: %v", c.v.Text(), c.datatype, err)
		}
		if !parsed.Equal(c.v) {
			t.Errorf("Round trip of %v via %s gave %v", c.v.Any(), c.datatype, parsed.Any())
		}
	}
}

func TestParseValueEmptyIsNull(t *testing.T) {
	for _, datatype := range []string{TypeString, TypeFloat64, TypeInt64, TypeBool} {
		v, err := ParseValue("", datatype)
		if err != nil {
			t.Fatalf("ParseValue(\"\", %s) failed: %v", datatype, err)
		}
		if !v.IsNull() {
			t.Errorf("Empty %s cell should parse as null", datatype)
		}
	}
}

func TestParseValueBadNumber(t *testing.T) {
	if _, err := ParseValue("not-a-number", TypeFloat64); err == nil {
		t.Error("Parsing a bad float should fail")
	}
}
