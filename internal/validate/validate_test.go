package validate

import "testing"

func TestCredentials(t *testing.T) {
	cases := []struct {
		name               string
		username, password string
		valid              bool
	}{
		{"valid", "ana", "x", true},
		{"blank username", "  ", "x", false},
		{"empty password", "ana", "", false},
		{"both empty", "", "", false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := Credentials(c.username, c.password)
			if (err == nil) != c.valid {
				t.Errorf("expected valid: %v, got error %v", c.valid, err)
			}
		})
	}
}

func TestComment(t *testing.T) {
	if err := Comment("\t\n "); err == nil {
		t.Error("expected blank comment to be rejected")
	}
	if err := Comment(" hi "); err != nil {
		t.Errorf("unexpected error: %s", err)
	}
}
