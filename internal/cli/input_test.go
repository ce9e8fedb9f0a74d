package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/bastiangx/decimaserve/pkg/decima"
	"github.com/bastiangx/decimaserve/pkg/scheme"
	"github.com/bastiangx/decimaserve/pkg/store"
)

func run(t *testing.T, st store.Store, opts Options, input string) string {
	t.Helper()
	form, err := decima.NewForm(string(scheme.DecimaMarked), scheme.Slots, decima.TargetSyllables)
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	h := NewInputHandlerWithIO(decima.New(form, nil), st, opts, strings.NewReader(input), &out)
	if err := h.Start(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return out.String()
}

func TestComposeAndClose(t *testing.T) {
	out := run(t, nil, Options{ShowGroups: true, ShowLinks: true},
		"quiero volar muy alto\n:go 4\n:a 1\n:p\n:q\nnever read\n")

	for _, want := range []string{
		"verse 2 (b)",
		" 7/8",
		"close with: 1.canto",
		"canto",
		"0/10 verses in metre",
		"links:",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output is missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "never read") {
		t.Error("input after :q was processed")
	}
}

func TestRhymeCommand(t *testing.T) {
	out := run(t, nil, Options{}, ":r amor\n:r 1234\n:r 1234\n")
	if !strings.Contains(out, "Found 5 rhymes for 'amor'") || !strings.Contains(out, "dolor") {
		t.Errorf("missing rhymes for amor:\n%s", out)
	}
	if !strings.Contains(out, "filtered out") {
		t.Errorf("numbers should be filtered:\n%s", out)
	}
}

func TestCommandErrors(t *testing.T) {
	out := run(t, nil, Options{}, ":11 demasiado\n:go x\n:a 9\n:zz\n:s\n")
	for _, want := range []string{
		"Verse must be between 1 and 10",
		"Usage: :go",
		"No suggestion 9",
		"Unknown command: zz",
		"No store configured",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output is missing %q:\n%s", want, out)
		}
	}
}

func TestSaveAndOpen(t *testing.T) {
	st := store.New(store.NewMemoryKV(), "")
	out := run(t, st, Options{}, "el mar que canta\n:s Mar\n:3 una ola más\n:s\n:ls\n")

	all, err := st.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 {
		t.Fatalf("second save should update, got %d compositions", len(all))
	}
	c := all[0]
	if c.Title != "Mar" || c.Verses[2] != "una ola más" {
		t.Errorf("unexpected saved composition %+v", c)
	}
	if !strings.Contains(out, "Saved 'Mar'") || !strings.Contains(out, c.ID) {
		t.Errorf("missing save output:\n%s", out)
	}

	out = run(t, st, Options{}, ":o "+c.ID+"\n:rm "+c.ID+"\n:o "+c.ID+"\n")
	if !strings.Contains(out, "Opened 'Mar'") || !strings.Contains(out, "el mar que canta") {
		t.Errorf("missing open output:\n%s", out)
	}
	if !strings.Contains(out, "Open failed") {
		t.Errorf("opening a deleted composition should fail:\n%s", out)
	}
}
