package domain

// Area is a barangay: immutable reference data loaded out-of-band.
type Area struct {
	ID   string `json:"id" bson:"_id,omitempty"`
	Name string `json:"name" bson:"name"`
}
