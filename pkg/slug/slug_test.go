package slug

import "testing"

func TestMake(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "simple", input: "Automatic Feeder", want: "automatic-feeder"},
		{name: "underscores and runs", input: "water__tank  500L", want: "water-tank-500l"},
		{name: "punctuation stripped", input: "Brooder (2000 chicks)!", want: "brooder-2000-chicks"},
		{name: "leading and trailing dashes", input: "--egg tray--", want: "egg-tray"},
		{name: "arabic only drops to empty", input: "حاضنة بيض", want: ""},
		{name: "mixed keeps latin", input: "حاضنة incubator", want: "incubator"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Make(tc.input); got != tc.want {
				t.Fatalf("Make(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestCopy(t *testing.T) {
	t.Parallel()

	if got := Copy("automatic-feeder"); got != "copy-of-automatic-feeder" {
		t.Fatalf("unexpected copy slug: %q", got)
	}
	// Duplicating a duplicate stacks the prefix.
	if got := Copy("copy-of-automatic-feeder"); got != "copy-of-copy-of-automatic-feeder" {
		t.Fatalf("unexpected stacked copy slug: %q", got)
	}
}

func TestWithSuffix(t *testing.T) {
	t.Parallel()

	if got := WithSuffix("feeder", 1); got != "feeder" {
		t.Fatalf("first attempt should be unsuffixed, got %q", got)
	}
	if got := WithSuffix("feeder", 2); got != "feeder-2" {
		t.Fatalf("unexpected suffixed slug: %q", got)
	}
	if got := WithSuffix("feeder", 10); got != "feeder-10" {
		t.Fatalf("unexpected suffixed slug: %q", got)
	}
}
