package constants

import "fmt"

// NATS Subjects
const (
	// SubjectRideStatusPrefix prefixes every ride transition subject
	SubjectRideStatusPrefix = "ride.status"
	// SubjectRideStatusAll subscribes to every ride transition
	SubjectRideStatusAll = "ride.status.>"
	// SubjectRideMessage carries every ride chat message
	SubjectRideMessage = "ride.message"
)

// RideStatusSubject returns the subject for transitions into status
func RideStatusSubject(status string) string {
	return fmt.Sprintf("%s.%s", SubjectRideStatusPrefix, status)
}

// NSQ topics and channels
const (
	TopicRideStatus  = "ride_status"
	TopicRideMessage = "ride_message"
	// ChannelRideStatusPrefix is suffixed with a per-subscriber id; ephemeral
	// channels are dropped by nsqd when the last consumer leaves
	ChannelRideStatusPrefix = "rides-"
	ChannelEphemeralSuffix  = "#ephemeral"
)
