package indenter

import "testing"

func TestIndenter(t *testing.T) {
	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{"empty", Indenter().Start("{").End("}"), "{}"},
		{"single", Indenter().Start("{").NestStrings("a").End("}"), "{a}"},
		{"many", Indenter().Start("{").NestStringsSep(",", "a", "b").End("}"), "{\n  a,\n  b\n}"},
	}

	for _, test := range tests {
		if test.got != test.expected {
			t.Errorf("%s: got %q, expected %q", test.name, test.got, test.expected)
		}
	}
}
