package models

import "testing"

func TestParseRole(t *testing.T) {
	cases := []struct {
		raw  string
		want Role
	}{
		{"admin", RoleAdmin},
		{"ADMIN", RoleAdmin},
		{"Admin", RoleAdmin},
		{"  admin  ", RoleAdmin},
		{"user", RoleUser},
		{"", RoleUser},
		{"superuser", RoleUser},
		{"agent", RoleUser},
	}
	for _, tc := range cases {
		if got := ParseRole(tc.raw); got != tc.want {
			t.Errorf("ParseRole(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestNoteIsProblem(t *testing.T) {
	problem := CategoryProblem
	repairs := "Repairs"

	if (Note{Category: &problem}).IsProblem() != true {
		t.Error("Problem category must mark a problem post")
	}
	if (Note{Category: &repairs}).IsProblem() {
		t.Error("other categories are store listings")
	}
	if (Note{}).IsProblem() {
		t.Error("nil category is a store listing")
	}
}
