package conversations

import (
	"net/url"

	"github.com/google/uuid"

	"github.com/vidaleve/sofia/pkg/query"
	"github.com/vidaleve/sofia/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "conversations", "cv").
	Project("id", "ID").
	Project("user_ref", "UserRef").
	Project("analysis_id", "AnalysisID").
	Project("role", "Role").
	Project("content", "Content").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for conversation queries.
// Nil fields are ignored. All fields use exact matching.
type Filters struct {
	UserRef    *string    `json:"user_ref,omitempty"`
	AnalysisID *uuid.UUID `json:"analysis_id,omitempty"`
	Role       *string    `json:"role,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("UserRef", f.UserRef).
		WhereEquals("AnalysisID", f.AnalysisID).
		WhereEquals("Role", f.Role)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if u := values.Get("user_ref"); u != "" {
		f.UserRef = &u
	}

	if a := values.Get("analysis_id"); a != "" {
		if id, err := uuid.Parse(a); err == nil {
			f.AnalysisID = &id
		}
	}

	if r := values.Get("role"); r != "" {
		f.Role = &r
	}

	return f
}

func scanMessage(s repository.Scanner) (Message, error) {
	var m Message
	err := s.Scan(
		&m.ID,
		&m.UserRef,
		&m.AnalysisID,
		&m.Role,
		&m.Content,
		&m.CreatedAt,
	)
	return m, err
}
