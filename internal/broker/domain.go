package broker

// Info is the broker statistics panel payload.
type Info struct {
	Name         string `json:"name"`
	Deals        int    `json:"deals"`
	ApprovalRate string `json:"approval_rate"`
	Pending      int64  `json:"pending"`
}
