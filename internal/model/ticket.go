package model

import "time"

type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
)

type Ticket struct {
	Base      `bson:",inline"`
	User      string     `json:"user" bson:"user"`
	Issue     string     `json:"issue" bson:"issue"`
	Role      Role       `json:"role" bson:"role"`
	Status    string     `json:"status" bson:"status"`
	VisibleTo []string   `json:"visibleTo" bson:"visibleTo"`
	Review    string     `json:"review" bson:"review"`
	SolvedAt  *time.Time `json:"solvedAt,omitempty" bson:"solvedAt,omitempty"`
	Suspended bool       `json:"suspended" bson:"suspended"`
}

type CreateTicketRequest struct {
	Issue     string   `json:"issue" binding:"required"`
	VisibleTo []string `json:"visibleTo"`
}
