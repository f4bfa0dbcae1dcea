// Package events publishes user activity to Kafka and logs what the consumer
// group receives. Nothing is persisted; delivery is at most once.
package events

import (
	"strconv"
	"time"
)

const (
	TopicUserEvents = "user.events"

	HeaderAction  = "x-event-action"
	HeaderVersion = "x-event-version"
)

type UserEventMessage struct {
	UserID    int64     `json:"userId"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

// PartitionKey keys by user id so one user's events stay on one partition.
func PartitionKey(userID int64) []byte { return []byte(strconv.FormatInt(userID, 10)) }
