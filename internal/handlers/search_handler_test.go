package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/BruksfildServices01/psi-scheduler/internal/models"
)

func TestSearch_PatientsAreAccentInsensitiveAndScoped(t *testing.T) {
	db := newTestDB(t)
	psy := addUser(t, db, models.RolePsychologist, "psy@clinic.test")
	other := addUser(t, db, models.RolePsychologist, "other@clinic.test")

	addPatient(t, db, "José Araújo", "jose@mail.test", &psy.ID)
	addPatient(t, db, "Joana Lima", "joana@mail.test", &psy.ID)
	addPatient(t, db, "Jose Outro", "outro@mail.test", &other.ID)

	h := NewSearchHandler(db)
	w := call(t, psy, http.MethodGet, "/search", "/search?q=jose&type=patients", nil, h.Search)
	if w.Code != http.StatusOK {
		t.Fatalf("search: %d %s", w.Code, w.Body.String())
	}

	body := decode[map[string]json.RawMessage](t, w)
	if _, ok := body["appointments"]; ok {
		t.Fatal("type=patients must not search appointments")
	}

	var patients []models.Patient
	if err := json.Unmarshal(body["patients"], &patients); err != nil {
		t.Fatal(err)
	}
	if len(patients) != 1 || patients[0].Name != "José Araújo" {
		t.Fatalf("unexpected matches %+v", patients)
	}
}

func TestSearch_RejectsBadInput(t *testing.T) {
	db := newTestDB(t)
	psy := addUser(t, db, models.RolePsychologist, "psy@clinic.test")
	h := NewSearchHandler(db)

	expectError(t, call(t, psy, http.MethodGet, "/search", "/search?q=+", nil, h.Search), http.StatusBadRequest, "invalid_query")
	expectError(t, call(t, psy, http.MethodGet, "/search", "/search?q=ana&type=reports", nil, h.Search), http.StatusBadRequest, "invalid_type")
}
