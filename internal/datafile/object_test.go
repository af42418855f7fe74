package datafile

import (
	"testing"

	sonic "github.com/bytedance/sonic"
)

func TestObjectPreservesDeclarationOrder(t *testing.T) {
	t.Parallel()

	obj := Object{
		{Key: "zeta", Value: 1},
		{Key: "alpha", Value: 2},
		{Key: "mid", Value: []int{3}},
	}

	got, err := sonic.Marshal(obj)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"zeta":1,"alpha":2,"mid":[3]}`
	if string(got) != want {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestObjectSetReplacesInPlace(t *testing.T) {
	t.Parallel()

	obj := Object{}
	obj = obj.Set("first", 1)
	obj = obj.Set("second", 2)
	obj = obj.Set("first", 10)

	got, err := sonic.Marshal(obj)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"first":10,"second":2}`
	if string(got) != want {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestObjectNestsStably(t *testing.T) {
	t.Parallel()

	inner := Object{{Key: "b", Value: 1}, {Key: "a", Value: 2}}
	outer := Object{{Key: "group", Value: inner}}

	first, err := sonic.Marshal(outer)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	second, err := sonic.Marshal(outer)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(first) != string(second) {
		t.Fatalf("output not stable: %s vs %s", first, second)
	}
	if string(first) != `{"group":{"b":1,"a":2}}` {
		t.Fatalf("unexpected output: %s", first)
	}
}
