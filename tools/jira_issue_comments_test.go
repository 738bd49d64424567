package tools

import (
	"reflect"
	"testing"
)

func TestParseCommentIDs(t *testing.T) {
	cases := []struct {
		name string
		raw  interface{}
		want []int
	}{
		{"csv string", "1,2,3", []int{1, 2, 3}},
		{"bracketed paste", "[10, 20]", []int{10, 20}},
		{"json numbers", []interface{}{float64(7), float64(8)}, []int{7, 8}},
		{"string slice", []string{"4", " 5 "}, []int{4, 5}},
	}
	for _, tc := range cases {
		got, err := parseCommentIDs(tc.raw)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestParseCommentIDsRejectsBadInput(t *testing.T) {
	for _, raw := range []interface{}{"", "a,b", "[]", 42, []interface{}{true}} {
		if _, err := parseCommentIDs(raw); err == nil {
			t.Fatalf("expected error for %v (%T)", raw, raw)
		}
	}
}
