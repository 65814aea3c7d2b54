package app

import "errors"

var (
	ErrValidation         = errors.New("app: validation failed")
	ErrInvalidCredentials = errors.New("app: invalid credentials")
	ErrNotLoggedIn        = errors.New("app: not logged in")
)

// Categories and Conditions are the UI vocabularies. Storage does not enforce
// them; the service layer does, standing in for the original form spinners.
var (
	Categories = []string{"Electronics", "Furniture", "Vehicle", "Equipment", "Building", "Other"}
	Conditions = []string{"Good", "Lightly Damaged", "Heavily Damaged"}
)

type CreateAssetRequest struct {
	Name         string
	Category     string
	Location     string
	Quantity     int64
	Condition    string
	PurchaseDate string
	Description  string
}

type UpdateAssetRequest struct {
	ID           int64
	Name         string
	Category     string
	Location     string
	Quantity     int64
	Condition    string
	PurchaseDate string
	Description  string
}
