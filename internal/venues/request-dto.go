package venues

// CreateTemplateRequest creates a reusable venue template.
type CreateTemplateRequest struct {
	Name               string `json:"name" binding:"required,min=2,max=100"`
	Description        string `json:"description"`
	DefaultRows        int    `json:"default_rows" binding:"required,gt=0,lte=200"`
	DefaultSeatsPerRow int    `json:"default_seats_per_row" binding:"required,gt=0,lte=200"`
	LayoutType         string `json:"layout_type" binding:"required,oneof=THEATER CINEMA TABLES"`
}

// CreateSectionRequest configures one section of an event's hall and
// triggers seat generation for it.
type CreateSectionRequest struct {
	Name            string  `json:"name" binding:"required,min=1,max=100"`
	TemplateID      string  `json:"template_id,omitempty"`
	PriceMultiplier float64 `json:"price_multiplier" binding:"omitempty,gt=0"`
	RowStart        string  `json:"row_start" binding:"required,rowletter"`
	RowEnd          string  `json:"row_end" binding:"required,rowletter"`
	SeatsPerRow     int     `json:"seats_per_row" binding:"required,gt=0,lte=200"`

	// AisleAfter inserts a visual gap after the given seat positions,
	// e.g. [4, 12] for two aisles.
	AisleAfter []int `json:"aisle_after,omitempty"`
}

// UpdateSectionRequest carries optional fields for partial update.
type UpdateSectionRequest struct {
	Name            *string  `json:"name,omitempty"`
	PriceMultiplier *float64 `json:"price_multiplier,omitempty"`
}
