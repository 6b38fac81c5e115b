package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	dbpkg "github.com/BruksfildServices01/psi-scheduler/internal/db"
	"github.com/BruksfildServices01/psi-scheduler/internal/middleware"
	"github.com/BruksfildServices01/psi-scheduler/internal/models"
)

const testTZ = "America/Sao_Paulo"

// newTestDB opens a private in-memory sqlite database with the full schema.
// A single connection keeps every query on the same in-memory database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := dbpkg.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func addUser(t *testing.T, db *gorm.DB, role, email string) *models.User {
	t.Helper()

	u := &models.User{Name: email, Email: email, PasswordHash: "x", Role: role}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func addPatient(t *testing.T, db *gorm.DB, name, email string, psychologistID *uint) *models.Patient {
	t.Helper()

	p := &models.Patient{Name: name, Email: email, Status: "active", PsychologistID: psychologistID}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("create patient: %v", err)
	}
	return p
}

func addAppointment(t *testing.T, db *gorm.DB, patientID, psychologistID uint, date, at, status string) *models.Appointment {
	t.Helper()

	ap := &models.Appointment{
		PatientID:      patientID,
		PsychologistID: psychologistID,
		Date:           date,
		Time:           at,
		Status:         status,
		Duration:       50,
	}
	if err := db.Create(ap).Error; err != nil {
		t.Fatalf("create appointment: %v", err)
	}
	return ap
}

// call serves one request through a router holding only h. A nil user
// leaves the request anonymous.
func call(
	t *testing.T,
	user *models.User,
	method, route, path string,
	body any,
	h gin.HandlerFunc,
) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Handle(method, route, func(c *gin.Context) {
		if user != nil {
			c.Set(middleware.ContextUser, user)
			c.Set(middleware.ContextUserID, user.ID)
		}
		c.Next()
	}, h)

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return out
}

type errorBody struct {
	Code string `json:"error_code"`
}

func expectError(t *testing.T, w *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	if w.Code != status {
		t.Fatalf("expected %d, got %d: %s", status, w.Code, w.Body.String())
	}
	if code != "" {
		if got := decode[errorBody](t, w).Code; got != code {
			t.Fatalf("expected error_code %q, got %q", code, got)
		}
	}
}
