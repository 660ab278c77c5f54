package services

import (
	"strings"
	"time"

	"github.com/princeprakhar/shopfront-api/internal/models"
	"github.com/princeprakhar/shopfront-api/internal/store"
	"github.com/princeprakhar/shopfront-api/internal/utils"
)

const defaultContactSubject = "General Inquiry"

type ContactService struct {
	store    *store.Store
	messages *store.Collection[models.ContactMessage]
	mailer   Mailer
}

type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

type ContactResponseRequest struct {
	Response string `json:"response"`
}

func NewContactService(s *store.Store, mailer Mailer) *ContactService {
	return &ContactService{
		store:    s,
		messages: store.NewCollection[models.ContactMessage](s, store.ContactMessages),
		mailer:   mailer,
	}
}

func (s *ContactService) Submit(req ContactRequest) (*models.ContactMessage, error) {
	name := utils.SanitizeString(req.Name)
	email := strings.ToLower(utils.SanitizeString(req.Email))
	body := utils.SanitizeString(req.Message)
	if name == "" || email == "" || body == "" {
		return nil, validationError("name, email and message are required")
	}
	if !utils.IsValidEmail(email) {
		return nil, validationError("invalid email format")
	}
	subject := utils.SanitizeString(req.Subject)
	if subject == "" {
		subject = defaultContactSubject
	}

	defer s.store.Lock(store.ContactMessages)()

	messages, err := s.messages.Load()
	if err != nil {
		return nil, err
	}
	msg := models.ContactMessage{
		ID:        store.NextID(messages),
		Name:      name,
		Email:     email,
		Subject:   subject,
		Message:   body,
		Status:    models.ContactPending,
		CreatedAt: time.Now(),
	}
	if err := s.messages.Save(append(messages, msg)); err != nil {
		return nil, err
	}
	return &msg, nil
}

// List returns all messages, optionally only those with the given status.
func (s *ContactService) List(status string) ([]models.ContactMessage, error) {
	defer s.store.RLock(store.ContactMessages)()

	messages, err := s.messages.Load()
	if err != nil {
		return nil, err
	}
	status = strings.ToLower(strings.TrimSpace(status))
	if status == "" {
		return messages, nil
	}
	return store.Filter(messages, func(m models.ContactMessage) bool {
		return string(m.Status) == status
	}), nil
}

// Respond resolves the message and mails the reply to the sender.
func (s *ContactService) Respond(id int, req ContactResponseRequest) (*models.ContactMessage, error) {
	response := utils.SanitizeString(req.Response)
	if response == "" {
		return nil, validationError("response is required")
	}

	defer s.store.Lock(store.ContactMessages)()

	messages, err := s.messages.Load()
	if err != nil {
		return nil, err
	}
	msg, _ := store.Find(messages, id)
	if msg == nil {
		return nil, notFoundError("message not found")
	}

	now := time.Now()
	msg.Response = response
	msg.Status = models.ContactResolved
	msg.ResolvedAt = &now
	if err := s.messages.Save(messages); err != nil {
		return nil, err
	}

	subject, body := contactReplyEmail(*msg)
	sendAsync(s.mailer, msg.Email, subject, body)
	return msg, nil
}
