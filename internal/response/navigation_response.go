package response

// Navigation tells the client which step it is on and which moves are open.
type Navigation struct {
	Step       int    `json:"step"`
	StepName   string `json:"step_name"`
	TotalSteps int    `json:"total_steps"`
	CanGoBack  bool   `json:"can_go_back"`
	CanGoNext  bool   `json:"can_go_next"`
	CanSubmit  bool   `json:"can_submit"`
}
