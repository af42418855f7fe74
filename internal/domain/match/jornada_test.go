package match

import (
	"reflect"
	"testing"
)

func TestJornadaNumber(t *testing.T) {
	t.Parallel()

	cases := []struct {
		label string
		want  int
		ok    bool
	}{
		{"Jornada 1", 1, true},
		{"Jornada 10", 10, true},
		{"  Jornada 3  ", 3, true},
		{"Descanso", 0, false},
		{"", 0, false},
	}

	for _, tc := range cases {
		got, ok := JornadaNumber(tc.label)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("JornadaNumber(%q) = %d,%t, want %d,%t", tc.label, got, ok, tc.want, tc.ok)
		}
	}
}

func TestSortJornadasNumericNotLexical(t *testing.T) {
	t.Parallel()

	labels := []string{"Jornada 10", "Jornada 2", "Jornada 1"}
	SortJornadas(labels)

	want := []string{"Jornada 1", "Jornada 2", "Jornada 10"}
	if !reflect.DeepEqual(labels, want) {
		t.Fatalf("got %v, want %v", labels, want)
	}
}

func TestSortJornadasUnnumberedLast(t *testing.T) {
	t.Parallel()

	labels := []string{"Amistoso", "Jornada 5", "Descanso", "Jornada 2"}
	SortJornadas(labels)

	want := []string{"Jornada 2", "Jornada 5", "Amistoso", "Descanso"}
	if !reflect.DeepEqual(labels, want) {
		t.Fatalf("got %v, want %v", labels, want)
	}
}

func TestJornadaLess(t *testing.T) {
	t.Parallel()

	if !JornadaLess("Jornada 2", "Jornada 10") {
		t.Fatal("expected Jornada 2 < Jornada 10")
	}
	if JornadaLess("Amistoso", "Jornada 1") {
		t.Fatal("expected numbered labels before unnumbered ones")
	}
	if !JornadaLess("Amistoso", "Descanso") {
		t.Fatal("expected lexical fallback for unnumbered labels")
	}
}
