package domain

// Direction is the movement hint parsed out of a textual instruction.
type Direction string

const (
	DirectionLeft      Direction = "left"
	DirectionRight     Direction = "right"
	DirectionStraight  Direction = "straight"
	DirectionBack      Direction = "back"
	DirectionNortheast Direction = "northeast"
	DirectionNorthwest Direction = "northwest"
	DirectionSoutheast Direction = "southeast"
	DirectionSouthwest Direction = "southwest"
	DirectionForward   Direction = "forward"
)

// InstructionStep is one cleaned, deduplicated navigation instruction.
type InstructionStep struct {
	Text           string    `json:"text"`
	Direction      Direction `json:"direction"`
	DistanceMeters *float64  `json:"distance_meters,omitempty"`
}
