package dtf

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		records []Record
	}{
		{"single row", []Record{{"12", "sherlock", "1925-09-09"}}},
		{"several rows", []Record{
			{"12", "sherlock", "1925-09-09"},
			{"47", "watson", "1931-10-31"},
		}},
		{"embedded commas and newlines", []Record{
			{"1", "a,b", "line1\nline2"},
		}},
		{"multi-byte text", []Record{
			{"1", "गैंडा", "😀"},
			{"2", "犀牛", "§ ¶"},
		}},
		{"empty values", []Record{{"", "", ""}}},
		{"empty set", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(t.TempDir(), "demo", false, false)
			if err := c.Encode("things", tt.records); err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			got, err := c.Decode("things")
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if len(got) != len(tt.records) {
				t.Fatalf("Decode returned %d records, want %d", len(got), len(tt.records))
			}
			for i := range got {
				if !slices.Equal(got[i], tt.records[i]) {
					t.Errorf("record %d = %v, want %v", i, got[i], tt.records[i])
				}
			}
		})
	}
}

func TestDecode(t *testing.T) {
	t.Run("absent file", func(t *testing.T) {
		c := New(t.TempDir(), "demo", false, false)
		got, err := c.Decode("missing")
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("Decode = %v, want empty", got)
		}
	})

	t.Run("zero-length file", func(t *testing.T) {
		c := New(t.TempDir(), "demo", false, false)
		if err := os.WriteFile(c.TablePath("empty"), nil, 0o644); err != nil {
			t.Fatal(err)
		}
		got, err := c.Decode("empty")
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("Decode = %v, want empty", got)
		}
	})

	t.Run("strips leading row whitespace", func(t *testing.T) {
		c := New(t.TempDir(), "demo", false, false)
		raw := []byte("a" + string(UnitSep) + "b" + string(RowSep) + "\n  c" + string(UnitSep) + "d" + string(RowSep) + "\n")
		if err := os.WriteFile(c.TablePath("raw"), raw, 0o644); err != nil {
			t.Fatal(err)
		}
		got, err := c.Decode("raw")
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		want := []Record{{"a", "b"}, {"c", "d"}}
		if len(got) != 2 || !slices.Equal(got[0], want[0]) || !slices.Equal(got[1], want[1]) {
			t.Errorf("Decode = %v, want %v", got, want)
		}
	})

	t.Run("ragged rows pass through", func(t *testing.T) {
		c := New(t.TempDir(), "demo", false, false)
		raw := []byte("only" + string(RowSep) + "\na" + string(UnitSep) + "b" + string(UnitSep) + "extra" + string(RowSep) + "\n")
		if err := os.WriteFile(c.TablePath("ragged"), raw, 0o644); err != nil {
			t.Fatal(err)
		}
		got, err := c.Decode("ragged")
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if len(got) != 2 || len(got[0]) != 1 || len(got[1]) != 3 {
			t.Errorf("Decode = %v, want one 1-field and one 3-field record", got)
		}
	})
}

func TestEncode(t *testing.T) {
	t.Run("full overwrite", func(t *testing.T) {
		c := New(t.TempDir(), "demo", false, false)
		if err := c.Encode("things", []Record{{"1", "a"}, {"2", "b"}}); err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		if err := c.Encode("things", []Record{{"3", "c"}}); err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		got, err := c.Decode("things")
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if len(got) != 1 || !slices.Equal(got[0], Record{"3", "c"}) {
			t.Errorf("Decode = %v, want [[3 c]]", got)
		}
	})

	t.Run("empty set yields empty file", func(t *testing.T) {
		c := New(t.TempDir(), "demo", false, false)
		if err := c.Encode("things", []Record{{"1", "a"}}); err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		if err := c.Encode("things", nil); err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		raw, err := os.ReadFile(c.TablePath("things"))
		if err != nil {
			t.Fatal(err)
		}
		if len(raw) != 0 {
			t.Errorf("file holds %d bytes, want 0", len(raw))
		}
	})

	t.Run("strips legacy escapes", func(t *testing.T) {
		c := New(t.TempDir(), "demo", false, false)
		if err := c.Encode("things", []Record{{`a\`, "b"}}); err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		got, err := c.Decode("things")
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if !slices.Equal(got[0], Record{"a", "b"}) {
			t.Errorf("Decode = %v, want [[a b]]", got)
		}
	})
}

func TestLegacyDelimiters(t *testing.T) {
	c := New(t.TempDir(), "demo", false, true)
	want := []Record{{"1", "a"}, {"2", "b"}}
	if err := c.Encode("things", want); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	raw, err := os.ReadFile(c.TablePath("things"))
	if err != nil {
		t.Fatal(err)
	}
	if slices.Contains(raw, UnitSep) || slices.Contains(raw, RowSep) {
		t.Error("legacy mode wrote standard delimiter bytes")
	}
	got, err := c.Decode("things")
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(got) != 2 || !slices.Equal(got[0], want[0]) || !slices.Equal(got[1], want[1]) {
		t.Errorf("Decode = %v, want %v", got, want)
	}
}

func TestTablePath(t *testing.T) {
	t.Run("plain", func(t *testing.T) {
		c := New("/data", "demo", false, false)
		if got, want := c.TablePath("things"), filepath.Join("/data", "things.dtf"); got != want {
			t.Errorf("TablePath = %q, want %q", got, want)
		}
	})
	t.Run("prepended", func(t *testing.T) {
		c := New("/data", "demo", true, false)
		if got, want := c.TablePath("things"), filepath.Join("/data", "demo.things.dtf"); got != want {
			t.Errorf("TablePath = %q, want %q", got, want)
		}
	})
}

func TestEmpty(t *testing.T) {
	c := New(t.TempDir(), "demo", false, false)
	if !c.Empty("things") {
		t.Error("Empty = false for absent file")
	}
	if err := c.Encode("things", []Record{{"1"}}); err != nil {
		t.Fatal(err)
	}
	if c.Empty("things") {
		t.Error("Empty = true for populated file")
	}
}
