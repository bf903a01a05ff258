package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestCatalogCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"catalog", "../catalog/testdata/catalog.json"})
	t.Cleanup(func() { rootCmd.SetArgs(nil); rootCmd.SetOut(nil) })

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	got := out.String()
	for _, want := range []string{
		"2 novels",
		"1 | The Glass Orchard by Mira Okafor | 3 chapters (1 premium)",
		"lantern | Lantern Street by Jun Takeda | 1 chapters (0 premium)",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in output:\n%s", want, got)
		}
	}
}

func TestCatalogCommandBadSource(t *testing.T) {
	rootCmd.SetArgs([]string{"catalog", "does-not-exist.json"})
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	t.Cleanup(func() { rootCmd.SetArgs(nil); rootCmd.SetOut(nil); rootCmd.SetErr(nil) })

	if err := rootCmd.Execute(); err == nil {
		t.Error("expected an error for a missing catalog")
	}
}

func TestMigrateRejectsOtherBackends(t *testing.T) {
	rootCmd.SetArgs([]string{"migrate", "--backend", "file"})
	rootCmd.SetErr(&bytes.Buffer{})
	t.Cleanup(func() { rootCmd.SetArgs(nil); rootCmd.SetErr(nil) })

	if err := rootCmd.Execute(); err == nil {
		t.Error("expected an error for the file backend")
	}
}
