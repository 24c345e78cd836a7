package models

// Requests for the prediction HTTP endpoints. Defined in domain for consistency and reuse.

type HorizonRequest struct {
	Minutes int `query:"minutes" json:"minutes" default:"60" validate:"oneof=15 60 240"`
}

type LiveRequest struct {
	Enabled bool `json:"enabled"`
}
