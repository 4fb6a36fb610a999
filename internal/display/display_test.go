package display

import (
	"bytes"
	"strings"
	"testing"
)

func TestPrinter(t *testing.T) {
	var buf bytes.Buffer
	disp := New(&buf)

	disp.Print("a")
	disp.Println("b")
	disp.Printf("%d\n", 3)

	got := buf.String()
	if got != "ab\n3\n" {
		t.Errorf("Output = %q, want %q", got, "ab\n3\n")
	}
}

func TestPrinterSemanticMethods(t *testing.T) {
	var buf bytes.Buffer
	disp := New(&buf)

	disp.Success("done")
	disp.Error("broken")
	disp.Warning("careful")
	disp.Info("fyi")
	disp.Successf("done %d", 2)

	got := buf.String()
	for _, want := range []string{"done", "broken", "careful", "fyi", "done 2"} {
		if !strings.Contains(got, want) {
			t.Errorf("Output should contain %q, got %q", want, got)
		}
	}
}

func TestPrinterStyles(t *testing.T) {
	var buf bytes.Buffer
	disp := New(&buf)

	// With colors disabled the styles are pass-through; the text must survive
	if !strings.Contains(disp.Bold("heading"), "heading") {
		t.Error("Bold() should preserve the text")
	}
	if !strings.Contains(disp.Faint("note"), "note") {
		t.Error("Faint() should preserve the text")
	}
}
