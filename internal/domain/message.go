package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message is an inbound contact/service-request message. Intake creates an
// AdminNotification referencing it.
type Message struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Phone     *string
	Subject   *string
	Body      string
	IsRead    bool
	CreatedAt time.Time
}
