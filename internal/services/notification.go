package services

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/princeprakhar/shopfront-api/internal/models"
	"github.com/princeprakhar/shopfront-api/internal/store"
)

const (
	NotificationOrder  = "order"
	NotificationSystem = "system"
	NotificationPromo  = "promotion"
)

type NotificationService struct {
	store         *store.Store
	notifications *store.Collection[models.Notification]
}

type NotificationList struct {
	Notifications []models.Notification `json:"notifications"`
	UnreadCount   int                   `json:"unread_count"`
}

type TestNotificationsRequest struct {
	Count int `json:"count"`
}

func NewNotificationService(s *store.Store) *NotificationService {
	return &NotificationService{
		store:         s,
		notifications: store.NewCollection[models.Notification](s, store.Notifications),
	}
}

// appendNotification adds a notification with the next free id.
func appendNotification(items []models.Notification, userID int, kind, title, message string, now time.Time) []models.Notification {
	return append(items, models.Notification{
		ID:        store.NextID(items),
		UserID:    userID,
		Title:     title,
		Message:   message,
		Type:      kind,
		CreatedAt: now,
	})
}

// List returns the user's notifications, newest first.
func (s *NotificationService) List(userID int) (*NotificationList, error) {
	defer s.store.RLock(store.Notifications)()

	items, err := s.notifications.Load()
	if err != nil {
		return nil, err
	}
	own := store.Filter(items, func(n models.Notification) bool { return n.UserID == userID })
	sort.SliceStable(own, func(i, j int) bool { return own[i].CreatedAt.After(own[j].CreatedAt) })

	unread := 0
	for _, n := range own {
		if !n.Read {
			unread++
		}
	}
	return &NotificationList{Notifications: own, UnreadCount: unread}, nil
}

func (s *NotificationService) MarkRead(userID, id int) (*models.Notification, error) {
	defer s.store.Lock(store.Notifications)()

	items, err := s.notifications.Load()
	if err != nil {
		return nil, err
	}
	n, _ := store.Find(items, id)
	if n == nil || n.UserID != userID {
		return nil, notFoundError("notification not found")
	}
	if n.Read {
		return n, nil
	}
	n.Read = true
	if err := s.notifications.Save(items); err != nil {
		return nil, err
	}
	return n, nil
}

// MarkAllRead returns how many notifications changed.
func (s *NotificationService) MarkAllRead(userID int) (int, error) {
	defer s.store.Lock(store.Notifications)()

	items, err := s.notifications.Load()
	if err != nil {
		return 0, err
	}
	changed := 0
	for i := range items {
		if items[i].UserID == userID && !items[i].Read {
			items[i].Read = true
			changed++
		}
	}
	if changed == 0 {
		return 0, nil
	}
	return changed, s.notifications.Save(items)
}

var testNotificationTitles = []struct{ kind, title, message string }{
	{NotificationOrder, "Order shipped", "Your order is on its way."},
	{NotificationOrder, "Order delivered", "Your order has been delivered."},
	{NotificationPromo, "Weekend sale", "Save on selected products this weekend."},
	{NotificationPromo, "New arrivals", "Fresh products just landed in the store."},
	{NotificationSystem, "Profile reminder", "Keep your shipping address up to date."},
	{NotificationSystem, "Security notice", "A new sign-in to your account was detected."},
}

// CreateTest generates count random notifications for the user.
func (s *NotificationService) CreateTest(userID int, req TestNotificationsRequest) ([]models.Notification, error) {
	count := req.Count
	if count == 0 {
		count = 1
	}
	if count < 1 || count > 100 {
		return nil, validationError("count must be between 1 and 100")
	}

	defer s.store.Lock(store.Notifications)()

	items, err := s.notifications.Load()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	created := make([]models.Notification, 0, count)
	for i := 0; i < count; i++ {
		t := testNotificationTitles[rand.Intn(len(testNotificationTitles))]
		items = appendNotification(items, userID, t.kind, t.title, fmt.Sprintf("%s (#%d)", t.message, i+1), now)
		created = append(created, items[len(items)-1])
	}
	if err := s.notifications.Save(items); err != nil {
		return nil, err
	}
	return created, nil
}
