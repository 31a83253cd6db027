package servicedesk

import (
	"strings"
	"time"

	"github.com/vikalp/backend/internal/domain/shared"
)

// ComplaintStatus is the repair progress of a complaint
type ComplaintStatus string

const (
	ComplaintPending   ComplaintStatus = "Pending"
	ComplaintWorking   ComplaintStatus = "Working"
	ComplaintCompleted ComplaintStatus = "Completed"
)

// IsValid checks if the status is a known value
func (s ComplaintStatus) IsValid() bool {
	switch s {
	case ComplaintPending, ComplaintWorking, ComplaintCompleted:
		return true
	}
	return false
}

// String returns the string representation of ComplaintStatus
func (s ComplaintStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if a transition to the target status is allowed.
// Status only moves forward; a pending job may be closed without a working step.
func (s ComplaintStatus) CanTransitionTo(target ComplaintStatus) bool {
	switch s {
	case ComplaintPending:
		return target == ComplaintWorking || target == ComplaintCompleted
	case ComplaintWorking:
		return target == ComplaintCompleted
	default:
		return false
	}
}

// IsTerminal returns true if no further transitions are possible
func (s ComplaintStatus) IsTerminal() bool {
	return s == ComplaintCompleted
}

// Service categories offered by the shop
const (
	ServiceAC             = "AC"
	ServiceRefrigerator   = "Refrigerator"
	ServiceWashingMachine = "Washing Machine"
	ServiceMicrowave      = "Microwave"
	ServiceWaterPurifier  = "Water Purifier"
	ServiceOther          = "Other"
)

// Complaint is a service request raised for a customer
type Complaint struct {
	ID          string          `json:"id"`
	ComplaintID string          `json:"complaintId"`
	CustomerID  string          `json:"customerId"`
	Mobile      string          `json:"mobile,omitempty"`
	Services    []string        `json:"services"`
	Description string          `json:"description"`
	Status      ComplaintStatus `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// Validate checks a complaint before it is created
func (c *Complaint) Validate() error {
	var errs shared.ValidationErrors
	if strings.TrimSpace(c.CustomerID) == "" && strings.TrimSpace(c.Mobile) == "" {
		errs.Add("customerId", "Please select a customer")
	}
	if len(c.Services) == 0 {
		errs.Add("services", "Please select at least one service")
	}
	if strings.TrimSpace(c.Description) == "" {
		errs.Add("description", "Please describe the problem")
	}
	return errs.OrNil()
}

// TransitionTo moves the complaint to target if allowed
func (c *Complaint) TransitionTo(target ComplaintStatus) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_INPUT", "Unknown complaint status: "+string(target))
	}
	if !c.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE",
			"Cannot move complaint from "+c.Status.String()+" to "+target.String())
	}
	c.Status = target
	return nil
}
