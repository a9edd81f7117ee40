package arrange

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"rowfold.dev/arrange/internal"
	"rowfold.dev/arrange/pkg/records"
)

func loadRecords(t testing.TB) []records.RecordSpec {
	t.Helper()

	file, err := os.Open("testdata/records.txt")
	if err != nil {
		t.Fatalf("failed to open records file: %v", err)
	}
	defer file.Close()

	specs, fails, err := internal.ReadRecords(context.Background(), file)
	if err != nil {
		t.Fatalf("failed to read records file: %v", err)
	}
	if len(fails) != 0 {
		t.Fatalf("records fixture has %d unparseable lines, first: %v", len(fails), fails[0])
	}
	return specs
}

func TestAggregate(t *testing.T) {
	totals, err := Aggregate(t.Context(), loadRecords(t), UnfoldFactor)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}

	want := Totals{Plain: 21, Unfolded: 525152}
	if diff := cmp.Diff(want, totals); diff != "" {
		t.Errorf("Aggregate totals mismatch (-want +got):\n%s", diff)
	}
}

// Unfolding by 1 is the identity, so both totals must agree.
func TestAggregate_FactorOne(t *testing.T) {
	totals, err := Aggregate(t.Context(), loadRecords(t), 1)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}

	want := Totals{Plain: 21, Unfolded: 21}
	if diff := cmp.Diff(want, totals); diff != "" {
		t.Errorf("Aggregate totals mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregate_UnfoldTooLarge(t *testing.T) {
	huge := records.RecordSpec{
		Record: parseRecord(t, strings.Repeat("?", 5000)),
		Groups: records.GroupSpec{1},
	}

	_, err := Aggregate(t.Context(), []records.RecordSpec{huge}, UnfoldFactor)
	if err == nil {
		t.Fatal("expected a capacity error, got nil")
	}
	if !strings.Contains(err.Error(), "too large") {
		t.Errorf("error %q does not mention the size limit", err)
	}
}

func TestAggregate_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	if _, err := Aggregate(ctx, loadRecords(t), UnfoldFactor); err == nil {
		t.Fatal("expected an error from a cancelled context, got nil")
	}
}

func TestAggregate_Empty(t *testing.T) {
	totals, err := Aggregate(t.Context(), nil, UnfoldFactor)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}
	if diff := cmp.Diff(Totals{}, totals); diff != "" {
		t.Errorf("Aggregate totals mismatch (-want +got):\n%s", diff)
	}
}
