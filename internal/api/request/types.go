package request

// CreateGuestRequest is the request body for creating a guest player
type CreateGuestRequest struct {
	DisplayName string `json:"display_name"`
}

// RegisterRequest is the request body for registering a player
type RegisterRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CreateRoomRequest is the request body for creating a room
type CreateRoomRequest struct {
	TargetScore int    `json:"target_score,omitempty"`
	Password    string `json:"password,omitempty"`
}

// JoinRoomRequest is the request body for joining a room
type JoinRoomRequest struct {
	Password string `json:"password,omitempty"`
}

// ReadyRequest is the request body for setting ready state
type ReadyRequest struct {
	Ready bool `json:"ready"`
}

// UpdateConfigRequest is the request body for updating room config
type UpdateConfigRequest struct {
	TargetScore int `json:"target_score"`
}

// AddBotRequest is the request body for adding a bot to a room
type AddBotRequest struct {
	Strategy string `json:"strategy"`
}

// Placement drops a rack tile into a column
type Placement struct {
	Column    int `json:"column"`
	TileIndex int `json:"tile_index"`
}

// PlaceRequest is the request body for placing tiles
type PlaceRequest struct {
	Placements []Placement `json:"placements"`
}

// PositionRequest names a board cell
type PositionRequest struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// BlankRequest is the request body for choosing a blank's letter
type BlankRequest struct {
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Letter string `json:"letter"`
}

// Claim is one word claim, its cells in reading order
type Claim struct {
	Positions []PositionRequest `json:"positions"`
}

// ClaimRequest is the request body for validating or claiming words
type ClaimRequest struct {
	Claims []Claim `json:"claims"`
}

// SwapRequest is the request body for swapping rack tiles
type SwapRequest struct {
	TileIndices []int `json:"tile_indices"`
}
