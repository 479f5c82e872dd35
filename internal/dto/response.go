package dto

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// UserStatsResponse is the lookup service's answer for one user.
// lastLogin is in days; inGameTime is cumulative session duration in
// seconds.
type UserStatsResponse struct {
	Country      string `json:"country"`
	Name         string `json:"name"`
	LoginCount   uint64 `json:"loginCount"`
	LastLogin    int64  `json:"lastLogin"`
	SessionCount uint64 `json:"sessionCount"`
	InGameTime   int64  `json:"inGameTime"`
}
