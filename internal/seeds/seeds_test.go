package seeds

import "testing"

func TestDefaultFixturesParse(t *testing.T) {
	f, err := Default()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(f.Psychologists) == 0 || len(f.Patients) == 0 {
		t.Fatal("default fixtures are empty")
	}

	known := map[string]bool{}
	for _, p := range f.Psychologists {
		known[p.Email] = true
	}
	for _, p := range f.Patients {
		if p.Psychologist != "" && !known[p.Psychologist] {
			t.Errorf("patient %s references unknown psychologist %s", p.Email, p.Psychologist)
		}
	}
}

func TestParse_NormalisesAndValidates(t *testing.T) {
	f, err := Parse([]byte(`
psychologists:
  - name: A
    email: " A@Test.COM "
    password: x
patients:
  - name: B
    email: b@test.com
    psychologist: A@TEST.com
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if f.Psychologists[0].Email != "a@test.com" || f.Patients[0].Psychologist != "a@test.com" {
		t.Fatalf("emails not normalised: %+v", f)
	}

	bad := []string{
		"psychologists:\n  - name: A\n    email: a@test.com\n",
		"patients:\n  - name: B\n",
		"patients:\n  - name: B\n    email: b@test.com\n    birth_date: 30/07/2010\n",
		"psychologists: [",
	}
	for _, doc := range bad {
		if _, err := Parse([]byte(doc)); err == nil {
			t.Errorf("expected error for %q", doc)
		}
	}
}
