package domain

import "testing"

func TestParseDepartment(t *testing.T) {
	cases := []struct {
		in   string
		want DepartmentType
	}{
		{"HR", DeptHR},
		{"FINANCE", DeptFinance},
		{"IT", DeptIT},
		{"LEGAL", DeptLegal},
		{"GENERAL", DeptGeneral},
		{"", DeptGeneral},
		{"SALES", DeptGeneral},
		{"hr", DeptGeneral}, // the enumeration is case-sensitive
	}
	for _, c := range cases {
		if got := ParseDepartment(c.in); got != c.want {
			t.Errorf("ParseDepartment(%q) = %s, want %s", c.in, got, c.want)
		}
	}
}

func TestIsWelcome(t *testing.T) {
	if !(Message{ID: WelcomeIDPrefix + "abc"}).IsWelcome() {
		t.Error("welcome-prefixed message not recognized")
	}
	if (Message{ID: "abc"}).IsWelcome() {
		t.Error("plain message misclassified as welcome")
	}
}
