package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

// Document is the schemaless shape every store operation works on.
type Document = map[string]interface{}

// Base contains the fields shared by every stored entity.
type Base struct {
	ID        string    `json:"id" bson:"_id"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Requester is the authenticated caller identity injected by the auth
// middleware. Write paths trust it completely.
type Requester struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}

// ToDocument converts a tagged entity struct into its stored document shape.
func ToDocument(v interface{}) (Document, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return Document(doc), nil
}

// FromDocument decodes a stored document into a tagged entity struct.
func FromDocument(doc Document, out interface{}) error {
	raw, err := bson.Marshal(bson.M(doc))
	if err != nil {
		return err
	}
	return bson.Unmarshal(raw, out)
}
