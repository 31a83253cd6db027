package servicedesk

import (
	"strings"

	"github.com/vikalp/backend/internal/domain/invoicing"
	"github.com/vikalp/backend/internal/domain/shared"
)

const prefillDescriptionRunes = 30

// PrefillDraft starts an invoice draft for a completed complaint.
// The single item names the services and the start of the problem description.
func PrefillDraft(c *Complaint) (*invoicing.Draft, error) {
	if c.Status != ComplaintCompleted {
		return nil, shared.NewDomainError("INVALID_STATE",
			"An invoice can only be prepared for a completed complaint")
	}

	draft := invoicing.NewDraft()
	draft.CustomerID = c.CustomerID
	draft.Items[0].ServiceName = prefillServiceName(c.Services, c.Description)
	return draft, nil
}

func prefillServiceName(services []string, description string) string {
	desc := []rune(strings.TrimSpace(description))
	summary := string(desc)
	if len(desc) > prefillDescriptionRunes {
		summary = string(desc[:prefillDescriptionRunes]) + "..."
	}

	name := strings.Join(services, ", ") + " Service"
	if summary == "" {
		return name
	}
	return name + " - " + summary
}
