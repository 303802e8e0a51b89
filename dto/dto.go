package dto

import "github.com/google/uuid"

// JobMessage is the queue entry that drives one item through the
// subtitle pipeline. The item id is the only payload; everything else
// lives in the state store and the blob store.
type JobMessage struct {
	ItemId uuid.UUID `json:"itemId"`
}

type UploadResponse struct {
	Id     uuid.UUID `json:"id"`
	Status string    `json:"status"`
}
