package constants

// Redis key formats
const (
	KeyRideRequest = "ride:request:%s" // Format: ride:request:{ride_id}
)
