package curriculum

import (
	"fmt"
	"strings"
	"testing"
)

func numbered(prefix string, n int) []string {
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, fmt.Sprintf("%s %d", prefix, i))
	}
	return out
}

func TestRoundRobinTermRanges(t *testing.T) {
	core := numbered("Ядро", 14)
	elective := numbered("Выбор", 11)

	terms, diag := Distribute(PolicyRoundRobin, core, elective)
	if diag != "" {
		t.Fatalf("unexpected diagnostic: %q", diag)
	}
	for _, name := range core {
		if terms[name] < 1 || terms[name] > 6 {
			t.Fatalf("core %q assigned term %d, want 1..6", name, terms[name])
		}
	}
	for _, name := range elective {
		if terms[name] < 3 || terms[name] > 7 {
			t.Fatalf("elective %q assigned term %d, want 3..7", name, terms[name])
		}
	}
}

func TestRoundRobinCycles(t *testing.T) {
	core := numbered("Ядро", 8)
	terms, _ := Distribute(PolicyRoundRobin, core, nil)

	want := []int{1, 2, 3, 4, 5, 6, 1, 2}
	for i, name := range core {
		if terms[name] != want[i] {
			t.Fatalf("terms[%q] = %d, want %d", name, terms[name], want[i])
		}
	}
}

func TestRoundRobinDeterministic(t *testing.T) {
	core := numbered("Ядро", 9)
	elective := numbered("Выбор", 9)
	first, _ := Distribute(PolicyRoundRobin, core, elective)
	second, _ := Distribute(PolicyRoundRobin, core, elective)
	for name, term := range first {
		if second[name] != term {
			t.Fatalf("distribution not reproducible for %q: %d vs %d", name, term, second[name])
		}
	}
}

func TestCapacityFillsTermsInOrder(t *testing.T) {
	core := numbered("Ядро", 10)
	terms, diag := Distribute(PolicyCapacity, core, nil)
	if diag != "" {
		t.Fatalf("unexpected diagnostic: %q", diag)
	}

	// Caps 4/4/... mean the first four land in term 1, the next four in
	// term 2, the remaining two in term 3.
	wantTerms := []int{1, 1, 1, 1, 2, 2, 2, 2, 3, 3}
	for i, name := range core {
		if terms[name] != wantTerms[i] {
			t.Fatalf("terms[%q] = %d, want %d", name, terms[name], wantTerms[i])
		}
	}
}

func TestCapacityOverflowReportedNotDropped(t *testing.T) {
	// Total core capacity is 4+4+4+4+2+2 = 20.
	core := numbered("Ядро", 23)
	terms, diag := Distribute(PolicyCapacity, core, nil)

	if diag == "" {
		t.Fatal("expected an overflow diagnostic")
	}
	for i := 20; i < 23; i++ {
		name := core[i]
		if terms[name] != 6 {
			t.Fatalf("overflow %q assigned term %d, want last allowed term 6", name, terms[name])
		}
		if !strings.Contains(diag, name) {
			t.Fatalf("diagnostic %q does not name %q", diag, name)
		}
	}
	if len(terms) != len(core) {
		t.Fatalf("assigned %d of %d disciplines; none may be dropped", len(terms), len(core))
	}
}

func TestCapacityElectiveRange(t *testing.T) {
	elective := numbered("Выбор", 20)
	terms, _ := Distribute(PolicyCapacity, nil, elective)
	for _, name := range elective {
		if terms[name] < 3 || terms[name] > 7 {
			t.Fatalf("elective %q assigned term %d, want 3..7", name, terms[name])
		}
	}
}
