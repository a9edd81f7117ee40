package records

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mustParseLine(t testing.TB, line string) RecordSpec {
	t.Helper()
	rs, err := ParseLine(line)
	if err != nil {
		t.Fatalf("failed to parse %q: %v", line, err)
	}
	return rs
}

func TestUnfold(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		factor int
		want   string
	}{
		{"FactorOneIsIdentity", "???.### 1,1,3", 1, "???.### 1,1,3"},
		{"FactorTwo", "?? 1", 2, "????? 1,1"},
		{"FactorFive", ".# 1", 5, ".#?.#?.#?.#?.# 1,1,1,1,1"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := Unfold(mustParseLine(t, test.line), test.factor)
			if err != nil {
				t.Fatalf("Unfold failed: %v", err)
			}
			if diff := cmp.Diff(test.want, got.String()); diff != "" {
				t.Errorf("Unfold(%q, %d) mismatch (-want +got):\n%s", test.line, test.factor, diff)
			}
		})
	}
}

func TestUnfold_CanonicalLengths(t *testing.T) {
	rs := mustParseLine(t, "???.### 1,1,3")

	got, err := Unfold(rs, 5)
	if err != nil {
		t.Fatalf("Unfold failed: %v", err)
	}

	if want := 7*5 + 4; got.Record.Len() != want {
		t.Errorf("unfolded record length = %d, want %d", got.Record.Len(), want)
	}
	if want := 15; len(got.Groups) != want {
		t.Errorf("unfolded group count = %d, want %d", len(got.Groups), want)
	}
}

func TestUnfold_Deterministic(t *testing.T) {
	rs := mustParseLine(t, "?###???????? 3,2,1")

	first, err := Unfold(rs, 5)
	if err != nil {
		t.Fatalf("first Unfold failed: %v", err)
	}
	second, err := Unfold(rs, 5)
	if err != nil {
		t.Fatalf("second Unfold failed: %v", err)
	}

	if diff := cmp.Diff(first.String(), second.String()); diff != "" {
		t.Errorf("repeated Unfold calls disagree (-first +second):\n%s", diff)
	}

	// The source must be untouched.
	if got := rs.String(); got != "?###???????? 3,2,1" {
		t.Errorf("source spec changed to %q", got)
	}
}

func TestUnfold_Errors(t *testing.T) {
	small := mustParseLine(t, "?? 1")

	t.Run("FactorZero", func(t *testing.T) {
		if _, err := Unfold(small, 0); err == nil {
			t.Error("expected an error for factor 0, got nil")
		}
	})

	t.Run("TooManyCells", func(t *testing.T) {
		record, err := ParseRecord(strings.Repeat("?", 9000))
		if err != nil {
			t.Fatalf("ParseRecord failed: %v", err)
		}
		huge := RecordSpec{Record: record, Groups: GroupSpec{1}}

		_, err = Unfold(huge, 2)
		if err == nil {
			t.Fatal("expected a capacity error, got nil")
		}
		if !strings.Contains(err.Error(), "too large") {
			t.Errorf("error %q does not mention the size limit", err)
		}
	})

	t.Run("TooManyGroups", func(t *testing.T) {
		groups := make(GroupSpec, 2500)
		for i := range groups {
			groups[i] = 1
		}
		wide := RecordSpec{Record: small.Record, Groups: groups}

		_, err := Unfold(wide, 2)
		if err == nil {
			t.Fatal("expected a capacity error, got nil")
		}
		if !strings.Contains(err.Error(), "too large") {
			t.Errorf("error %q does not mention the size limit", err)
		}
	})
}
