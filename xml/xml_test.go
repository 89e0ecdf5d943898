package xml

import (
	"testing"
)

type mapping struct {
	Code int    `xml:"code,attr"`
	Rune int    `xml:"rune,attr"`
	Name string `xml:"name"`
}

func TestNew(t *testing.T) {
	f := New()
	if f == nil {
		t.Error("New() should return non-nil format")
	}
}

func TestContentType(t *testing.T) {
	f := New()
	if f.ContentType() != "application/xml" {
		t.Errorf("ContentType() = %q, want %q", f.ContentType(), "application/xml")
	}
}

func TestExtensions(t *testing.T) {
	if len(Extensions) == 0 {
		t.Fatal("Extensions should not be empty")
	}
	for _, ext := range Extensions {
		if ext == "" || ext[0] != '.' {
			t.Errorf("extension %q should start with a dot", ext)
		}
	}
}

func TestMarshalUnmarshal(t *testing.T) {
	f := New()

	tests := []struct {
		name string
		in   mapping
	}{
		{"ascii", mapping{Code: 0x41, Rune: 0x41, Name: "LATIN CAPITAL LETTER A"}},
		{"double byte", mapping{Code: 0x82A0, Rune: 0x3042, Name: "HIRAGANA LETTER A"}},
		{"unicode name", mapping{Code: 0xB0A1, Rune: 0xAC00, Name: "가"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := f.Marshal(tt.in)
			if err != nil {
				t.Fatalf("Marshal() error: %v", err)
			}

			var restored mapping
			if err := f.Unmarshal(data, &restored); err != nil {
				t.Fatalf("Unmarshal() error: %v", err)
			}

			if restored != tt.in {
				t.Errorf("round-trip failed: got %+v, want %+v", restored, tt.in)
			}
		})
	}
}

func TestUnmarshalInvalid(t *testing.T) {
	f := New()

	var v mapping
	if err := f.Unmarshal([]byte("<mapping><name>"), &v); err == nil {
		t.Error("Unmarshal(invalid) should return error")
	}
}
