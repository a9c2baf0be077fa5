package model

import "time"

// LegLock is an advisory lock serializing seat-hold creation per leg.
// The lock ID is the leg's ObjectID hex; a TTL index on expires_at reaps
// locks abandoned by crashed holders.
type LegLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
