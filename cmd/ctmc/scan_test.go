package main

import (
	"testing"
)

func TestParseParams(t *testing.T) {
	names, ranges, err := parseParams([]string{"energy=25, 50,100", "b2max=0:10:3"})
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 2 || names[0] != "energy" || names[1] != "b2max" {
		t.Fatalf("names = %v", names)
	}
	want := [][]float64{{25, 50, 100}, {0, 5, 10}}
	for i := range want {
		if len(ranges[i]) != len(want[i]) {
			t.Fatalf("range %d = %v, want %v", i, ranges[i], want[i])
		}
		for j := range want[i] {
			if ranges[i][j] != want[i][j] {
				t.Errorf("range %d = %v, want %v", i, ranges[i], want[i])
			}
		}
	}
}

func TestParseParamsErrors(t *testing.T) {
	for _, s := range []string{"energy", "energy=a,b", "energy=1:2:0", "energy=1:x:3"} {
		if _, _, err := parseParams([]string{s}); err == nil {
			t.Errorf("parseParams(%q) should fail", s)
		}
	}
}
