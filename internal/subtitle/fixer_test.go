package subtitle

import "testing"

func TestDefaultFixer(t *testing.T) {
	fix := DefaultFixer()
	in := "1\r\n00:00:01,000 --> 00:00:02,000\r\nWell… that's it․  \r\n"
	want := "1\n00:00:01,000 --> 00:00:02,000\nWell... that's it.\n"
	if got := fix(in); got != want {
		t.Fatalf("DefaultFixer = %q, want %q", got, want)
	}
}

func TestChainFixers(t *testing.T) {
	upper := func(s string) string { return s + "a" }
	double := func(s string) string { return s + s }
	chained := ChainFixers(upper, double, nil)
	if got := chained("x"); got != "xaxa" {
		t.Fatalf("ChainFixers = %q, want xaxa", got)
	}
}
