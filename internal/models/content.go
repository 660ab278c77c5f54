package models

import (
	"fmt"
	"time"
)

type Notification struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

func (n Notification) RecordID() int { return n.ID }

type HelpArticle struct {
	ID           int       `json:"id"`
	Question     string    `json:"question"`
	Answer       string    `json:"answer"`
	Category     string    `json:"category"`
	HelpfulCount int       `json:"helpful_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (h HelpArticle) RecordID() int { return h.ID }

type HelpfulVote struct {
	ID             int       `json:"id"`
	HelpID         int       `json:"help_id"`
	UserIdentifier string    `json:"user_identifier"`
	CreatedAt      time.Time `json:"created_at"`
}

func (v HelpfulVote) RecordID() int { return v.ID }

// UserIdentifier is the vote identity of an authenticated user.
func UserIdentifier(userID int) string {
	return fmt.Sprintf("user_%d", userID)
}

type ContactStatus string

const (
	ContactPending  ContactStatus = "pending"
	ContactResolved ContactStatus = "resolved"
)

type ContactMessage struct {
	ID         int           `json:"id"`
	Name       string        `json:"name"`
	Email      string        `json:"email"`
	Subject    string        `json:"subject"`
	Message    string        `json:"message"`
	Status     ContactStatus `json:"status"`
	Response   string        `json:"response,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
	ResolvedAt *time.Time    `json:"resolved_at,omitempty"`
}

func (m ContactMessage) RecordID() int { return m.ID }

type BlogStatus string

const (
	BlogDraft     BlogStatus = "draft"
	BlogPublished BlogStatus = "published"
)

func (s BlogStatus) Valid() bool {
	return s == BlogDraft || s == BlogPublished
}

type BlogPost struct {
	ID        int        `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Excerpt   string     `json:"excerpt"`
	Author    string     `json:"author"`
	Tags      []string   `json:"tags"`
	Status    BlogStatus `json:"status"`
	Views     int        `json:"views"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (p BlogPost) RecordID() int { return p.ID }

// ProductCounter tracks demand for one product.
type ProductCounter struct {
	ProductID int `json:"product_id"`
	Views     int `json:"views"`
	Orders    int `json:"orders"`
}

// Analytics is the single analytics document.
type Analytics struct {
	PopularProducts []ProductCounter `json:"popular_products"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

func (a *Analytics) counter(productID int) *ProductCounter {
	for i := range a.PopularProducts {
		if a.PopularProducts[i].ProductID == productID {
			return &a.PopularProducts[i]
		}
	}
	a.PopularProducts = append(a.PopularProducts, ProductCounter{ProductID: productID})
	return &a.PopularProducts[len(a.PopularProducts)-1]
}

func (a *Analytics) RecordView(productID int, now time.Time) {
	a.counter(productID).Views++
	a.UpdatedAt = now
}

func (a *Analytics) RecordOrder(productID, quantity int, now time.Time) {
	a.counter(productID).Orders += quantity
	a.UpdatedAt = now
}
