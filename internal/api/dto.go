package api

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/siliconharbour/siliconharbour.dev-sub003/internal/content"
	"github.com/siliconharbour/siliconharbour.dev-sub003/internal/store"
)

// EntityRequest is the create/update payload for any content type. Name maps
// to the type's display field; StartsAt/EndsAt only apply to events.
type EntityRequest struct {
	Name     string     `json:"name"`
	Body     string     `json:"body"`
	Image    string     `json:"image"`
	Location string     `json:"location"`
	Website  string     `json:"website"`
	Subtitle string     `json:"subtitle"`
	StartsAt *time.Time `json:"starts_at"`
	EndsAt   *time.Time `json:"ends_at"`
}

// Validate validates the payload.
func (r EntityRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 300)),
		validation.Field(&r.Body, validation.Length(0, 100_000)),
	)
}

func (r EntityRequest) toEntity(t content.Type) *store.Entity {
	return &store.Entity{
		Type:     t,
		Name:     r.Name,
		Body:     r.Body,
		Image:    r.Image,
		Location: r.Location,
		Website:  r.Website,
		Subtitle: r.Subtitle,
		StartsAt: r.StartsAt,
		EndsAt:   r.EndsAt,
	}
}

// ListResponse is the paginated list payload for one content type.
type ListResponse struct {
	Items []store.Entity `json:"items"`
	Total int            `json:"total"`
}
