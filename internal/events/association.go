// Package events defines the domain events emitted when product/store associations change.
package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	// StreamName is the JetStream stream holding catalog events.
	StreamName = "CATALOG"
	// SubjectWildcard matches every association subject.
	SubjectWildcard = "catalog.associations.>"

	AssociationAddedSubject    = "catalog.associations.added"
	AssociationReplacedSubject = "catalog.associations.replaced"
	AssociationRemovedSubject  = "catalog.associations.removed"
)

// AssociationEvent reports the association list of a product after a mutation.
// StoreIDs for a removal hold only the removed store id.
type AssociationEvent struct {
	subject    string
	ProductID  uuid.UUID   `json:"product_id"`
	StoreIDs   []uuid.UUID `json:"store_ids"`
	OccurredAt time.Time   `json:"occurred_at"`
}

func AssociationAdded(productID, storeID uuid.UUID, at time.Time) AssociationEvent {
	return AssociationEvent{subject: AssociationAddedSubject, ProductID: productID, StoreIDs: []uuid.UUID{storeID}, OccurredAt: at}
}

func AssociationsReplaced(productID uuid.UUID, storeIDs []uuid.UUID, at time.Time) AssociationEvent {
	ids := append([]uuid.UUID{}, storeIDs...)
	return AssociationEvent{subject: AssociationReplacedSubject, ProductID: productID, StoreIDs: ids, OccurredAt: at}
}

func AssociationRemoved(productID, storeID uuid.UUID, at time.Time) AssociationEvent {
	return AssociationEvent{subject: AssociationRemovedSubject, ProductID: productID, StoreIDs: []uuid.UUID{storeID}, OccurredAt: at}
}

func (e AssociationEvent) Subject() string {
	return e.subject
}

func (e AssociationEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}
