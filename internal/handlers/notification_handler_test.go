package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/psi-scheduler/internal/models"
)

type listBody struct {
	Total         int64                 `json:"total"`
	Notifications []models.Notification `json:"notifications"`
}

func seedNotifications(t *testing.T, db *gorm.DB, userID uint) {
	t.Helper()

	rows := []models.Notification{
		{UserID: userID, Type: models.NotificationReminder, Title: "r1", Message: "m"},
		{UserID: userID, Type: models.NotificationReminder, Title: "r2", Message: "m", Read: true},
		{UserID: userID, Type: models.NotificationSystem, Title: "s1", Message: "m"},
	}
	if err := db.Create(&rows).Error; err != nil {
		t.Fatal(err)
	}
}

func TestNotificationList_Filters(t *testing.T) {
	db := newTestDB(t)
	user := addUser(t, db, models.RolePatient, "ana@mail.test")
	other := addUser(t, db, models.RolePatient, "bia@mail.test")
	seedNotifications(t, db, user.ID)
	seedNotifications(t, db, other.ID)
	h := NewNotificationHandler(db, nil)

	cases := []struct {
		query string
		total int64
	}{
		{"", 3},
		{"?read=false", 2},
		{"?read=true", 1},
		{"?type=reminder", 2},
		{"?read=false&type=reminder", 1},
		{"?type=alert", 0},
	}

	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			w := call(t, user, http.MethodGet, "/notifications", "/notifications"+tc.query, nil, h.List)
			if w.Code != http.StatusOK {
				t.Fatalf("list: %d %s", w.Code, w.Body.String())
			}
			body := decode[listBody](t, w)
			if body.Total != tc.total || int64(len(body.Notifications)) != tc.total {
				t.Fatalf("expected %d, got total=%d items=%d", tc.total, body.Total, len(body.Notifications))
			}
			for _, n := range body.Notifications {
				if n.UserID != user.ID {
					t.Fatalf("leaked notification of user %d", n.UserID)
				}
			}
		})
	}

	w := call(t, user, http.MethodGet, "/notifications", "/notifications?read=maybe", nil, h.List)
	expectError(t, w, http.StatusBadRequest, "invalid_filter")
}

func TestNotificationUnreadCountAndReadAll(t *testing.T) {
	db := newTestDB(t)
	user := addUser(t, db, models.RolePatient, "ana@mail.test")
	other := addUser(t, db, models.RolePatient, "bia@mail.test")
	seedNotifications(t, db, user.ID)
	seedNotifications(t, db, other.ID)
	h := NewNotificationHandler(db, nil)

	unread := func() int64 {
		t.Helper()
		w := call(t, user, http.MethodGet, "/notifications/unread-count", "/notifications/unread-count", nil, h.UnreadCount)
		if w.Code != http.StatusOK {
			t.Fatalf("unread count: %d %s", w.Code, w.Body.String())
		}
		return decode[struct {
			N int64 `json:"unread_count"`
		}](t, w).N
	}

	if n := unread(); n != 2 {
		t.Fatalf("expected 2 unread, got %d", n)
	}

	w := call(t, user, http.MethodPut, "/notifications/read-all", "/notifications/read-all", nil, h.MarkAllRead)
	if w.Code != http.StatusOK {
		t.Fatalf("read all: %d %s", w.Code, w.Body.String())
	}
	if got := decode[struct {
		Updated int64 `json:"updated"`
	}](t, w).Updated; got != 2 {
		t.Fatalf("expected 2 updated, got %d", got)
	}

	if n := unread(); n != 0 {
		t.Fatalf("expected 0 unread after read-all, got %d", n)
	}

	var othersUnread int64
	db.Model(&models.Notification{}).Where("user_id = ? AND read = ?", other.ID, false).Count(&othersUnread)
	if othersUnread != 2 {
		t.Fatalf("read-all touched another user's notifications: %d unread left", othersUnread)
	}
}

func TestNotificationMarkRead_Ownership(t *testing.T) {
	db := newTestDB(t)
	user := addUser(t, db, models.RolePatient, "ana@mail.test")
	other := addUser(t, db, models.RolePatient, "bia@mail.test")
	h := NewNotificationHandler(db, nil)

	mine := models.Notification{UserID: user.ID, Type: models.NotificationSystem, Title: "t", Message: "m"}
	theirs := models.Notification{UserID: other.ID, Type: models.NotificationSystem, Title: "t", Message: "m"}
	if err := db.Create(&mine).Error; err != nil {
		t.Fatal(err)
	}
	if err := db.Create(&theirs).Error; err != nil {
		t.Fatal(err)
	}

	markRead := func(id uint) int {
		t.Helper()
		return call(t, user, http.MethodPut, "/notifications/:id/read", fmt.Sprintf("/notifications/%d/read", id), nil, h.MarkRead).Code
	}

	if code := markRead(mine.ID); code != http.StatusOK {
		t.Fatalf("mark read: %d", code)
	}
	// already read is still a success
	if code := markRead(mine.ID); code != http.StatusOK {
		t.Fatalf("mark read twice: %d", code)
	}
	if code := markRead(theirs.ID); code != http.StatusNotFound {
		t.Fatalf("expected 404 for another user's notification, got %d", code)
	}

	var stored models.Notification
	if err := db.First(&stored, theirs.ID).Error; err != nil {
		t.Fatal(err)
	}
	if stored.Read {
		t.Fatal("another user's notification was marked read")
	}
}
