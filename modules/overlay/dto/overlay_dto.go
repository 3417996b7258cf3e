package dto

// ConnectResponse carries the Google consent URL to redirect the user to
type ConnectResponse struct {
	AuthURL string `json:"auth_url"`
}

// ConnectionResponse identifies a stored calendar connection. The client
// keeps the connection id and presents it when requesting an overlay.
type ConnectionResponse struct {
	ConnectionID  string `json:"connection_id"`
	Provider      string `json:"provider"`
	CalendarEmail string `json:"calendar_email"`
}

// OverlayResponse lists the slot indices of a poll that collide with the
// connected calendar's busy blocks. Read-only annotation: saving
// availability is unaffected by it.
type OverlayResponse struct {
	PollID       string `json:"poll_id"`
	ConnectionID string `json:"connection_id"`
	BusySlots    []int  `json:"busy_slots"`
}
