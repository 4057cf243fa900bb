package calculator

import (
	"reflect"
	"testing"

	"distritoeldorado/internal/model"
)

func TestCountBy_SortedWithUnknownLabel(t *testing.T) {
	t.Parallel()

	e := newTestEngine("20/01/2024")
	got := e.CountBy(createTestRecords(), model.FieldRequestingUnit)
	want := []model.Bucket{
		{Key: "UBS B", Label: "UBS B", Count: 3},
		{Key: "UBS A", Label: "UBS A", Count: 2},
		{Key: UnknownLabel, Label: UnknownLabel, Count: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("want=%v got=%v", want, got)
	}
}

func TestPendingBy_OnlyAssignedRecords(t *testing.T) {
	t.Parallel()

	e := newTestEngine("20/01/2024")
	got := e.PendingBy(createTestRecords(), model.FieldRequestingUnit)
	total := 0
	for _, b := range got {
		total += b.Count
	}
	if total != 4 {
		t.Fatalf("want 4 pending records, got %d (%v)", total, got)
	}
}

func TestCountByMonth_Ascending(t *testing.T) {
	t.Parallel()

	e := newTestEngine("20/01/2024")
	got := e.CountByMonth(createTestRecords())
	keys := make([]string, len(got))
	for i, b := range got {
		keys[i] = b.Key
	}
	want := []string{"2023-01", "2023-12", "2024-01"}
	if !reflect.DeepEqual(keys, want) {
		t.Fatalf("want=%v got=%v", want, keys)
	}
	if got[2].Count != 2 || got[2].Label != "Janeiro de 2024" {
		t.Fatalf("unexpected january bucket: %+v", got[2])
	}
}

func TestResolution_Rate(t *testing.T) {
	t.Parallel()

	e := newTestEngine("20/01/2024")
	got := e.Resolution(createTestRecords(), model.FieldRequestingUnit, map[string]bool{"RESOLVIDOS": true})
	if len(got) != 3 {
		t.Fatalf("unexpected buckets: %v", got)
	}
	first := got[0]
	if first.Label != "UBS B" || first.Total != 3 || first.Resolved != 2 || first.Rate != 66.7 {
		t.Fatalf("unexpected first bucket: %+v", first)
	}
}
